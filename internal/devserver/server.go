// Package devserver is a local, in-memory implementation of the admin REST
// contract. It backs `fedadmin dev-server` and the api package tests.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"fedadmin/internal/domain"
	"fedadmin/internal/engine"
)

// Server owns the seeded resources and the HTTP router.
type Server struct {
	cfg     Config
	metrics *Metrics
	router  chi.Router

	Users       *Resource[domain.User]
	Courts      *Resource[domain.Court]
	Tournaments *Resource[domain.Tournament]
	Microsites  *Resource[domain.Microsite]
}

// New seeds every resource from cfg.Seed and builds the router.
func New(cfg Config) *Server {
	seed := newSeeder(cfg.Seed)
	s := &Server{
		cfg:         cfg,
		metrics:     NewMetrics(),
		Users:       usersResource(seed.users(cfg.Rows)),
		Courts:      courtsResource(seed.courts(cfg.Rows)),
		Tournaments: tournamentsResource(seed.tournaments(cfg.Rows)),
		Microsites:  micrositesResource(seed.microsites(cfg.Rows)),
	}
	s.router = s.routes()
	return s
}

// Handler is the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Metrics exposes the collectors, for tests.
func (s *Server) Metrics() *Metrics { return s.metrics }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(Logging)
	if len(s.cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Request-ID"},
			ExposedHeaders: []string{"Content-Disposition"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.metrics.Instrument)
		r.Use(Auth([]byte(s.cfg.JWTSecret)))
		if s.cfg.Latency > 0 {
			r.Use(Latency(s.cfg.Latency))
		}

		mount(r, s, s.Users)
		mount(r, s, s.Courts)
		mount(r, s, s.Tournaments)
		mount(r, s, s.Microsites)
	})
	return r
}

func mount[T engine.Entity](r chi.Router, s *Server, res *Resource[T]) {
	h := &resourceHandler[T]{res: res, metrics: s.metrics, failExport: s.cfg.FailExport}
	r.Route("/"+res.Name, func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/export", h.export)
		r.Post("/bulk", h.bulk)
		r.Post("/notify", h.notify)
		r.Get("/{id}", h.detail)
		r.Patch("/{id}/status", h.status)
	})
}

// Run serves on cfg.Addr until ctx is cancelled. ready, when set, receives
// the bound address once the listener is open.
func (s *Server) Run(ctx context.Context, ready func(addr string)) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	if ready != nil {
		ready(ln.Addr().String())
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return <-errCh
}

// Logging writes one log line per request.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Printf("%s %s %d %dB %s rid=%s", r.Method, r.URL.RequestURI(), ww.Status(), ww.BytesWritten(),
			time.Since(start).Round(time.Millisecond), r.Header.Get("X-Request-ID"))
	})
}

// Latency delays each request by d, returning early when the client gives up.
func Latency(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-timer.C:
				next.ServeHTTP(w, r)
			case <-r.Context().Done():
			}
		})
	}
}
