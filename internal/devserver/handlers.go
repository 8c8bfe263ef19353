package devserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"fedadmin/internal/engine"
)

const maxPageSize = 100

// BulkPayload is the union of every bulk payload variant on the wire.
type BulkPayload struct {
	Reason string `json:"reason,omitempty"`
	Days   int    `json:"days,omitempty"`
}

// BulkRequest is the body of POST /<resource>/bulk.
type BulkRequest struct {
	IDs     []int64     `json:"ids"`
	Action  string      `json:"action"`
	Payload BulkPayload `json:"payload"`
}

// BulkResponse reports what a bulk action changed. Replayed is set when
// the Idempotency-Key was already used and nothing was applied again.
type BulkResponse struct {
	Action   string  `json:"action"`
	Applied  int     `json:"applied"`
	Missing  []int64 `json:"missing,omitempty"`
	Replayed bool    `json:"replayed,omitempty"`
}

// NotifyRequest is the body of POST /<resource>/notify.
type NotifyRequest struct {
	IDs            []int64           `json:"ids"`
	RecipientClass string            `json:"recipientClass"`
	Filter         map[string]string `json:"filter"`
	Subject        string            `json:"subject"`
	Body           string            `json:"body"`
}

// StatusRequest is the body of PATCH /<resource>/{id}/status.
type StatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type resourceHandler[T engine.Entity] struct {
	res        *Resource[T]
	metrics    *Metrics
	failExport bool
}

func (h *resourceHandler[T]) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := intParam(query.Get("page"), 1)
	if err != nil || page < 1 {
		respondError(w, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	pageSize, err := intParam(query.Get("pageSize"), engine.DefaultPageSize)
	if err != nil || pageSize < 1 || pageSize > maxPageSize {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("pageSize must be between 1 and %d", maxPageSize))
		return
	}

	matched := h.res.Match(filterFrom(query))
	items := []T{}
	if start := (page - 1) * pageSize; start < len(matched) {
		end := min(start+pageSize, len(matched))
		items = matched[start:end]
	}
	respondJSON(w, http.StatusOK, engine.Page[T]{
		Items:    items,
		Stats:    h.res.Stats(matched),
		Total:    len(matched),
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *resourceHandler[T]) detail(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	item, found := h.res.Store.Get(id)
	if !found {
		respondError(w, http.StatusNotFound, fmt.Sprintf("%s %d not found", h.res.Name, id))
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *resourceHandler[T]) status(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req StatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	rule, known := h.res.Statuses[req.Status]
	if !known {
		respondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("unknown status %q", req.Status))
		return
	}
	if rule.NeedsReason && strings.TrimSpace(req.Reason) == "" {
		respondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("moving to %s requires a reason", req.Status))
		return
	}
	missing := h.res.Store.Update([]int64{id}, func(item T) (T, bool) {
		return h.res.SetStatus(item, req.Status), true
	})
	if len(missing) > 0 {
		respondError(w, http.StatusNotFound, fmt.Sprintf("%s %d not found", h.res.Name, id))
		return
	}
	h.metrics.transitions.WithLabelValues(h.res.Name, req.Status).Inc()
	item, _ := h.res.Store.Get(id)
	respondJSON(w, http.StatusOK, item)
}

func (h *resourceHandler[T]) bulk(w http.ResponseWriter, r *http.Request) {
	var req BulkRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.IDs) == 0 {
		respondError(w, http.StatusUnprocessableEntity, "ids must not be empty")
		return
	}
	action, err := h.res.validatePayload(req.Action, req.Payload)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	key := r.Header.Get("Idempotency-Key")
	h.res.mu.Lock()
	defer h.res.mu.Unlock()
	if h.res.seen == nil {
		h.res.seen = make(map[string]BulkResponse)
	}
	if prev, ok := h.res.seen[key]; ok && key != "" {
		prev.Replayed = true
		respondJSON(w, http.StatusOK, prev)
		return
	}

	missing := h.res.Store.Update(req.IDs, func(item T) (T, bool) {
		return action.Apply(item, req.Payload)
	})
	applied := len(req.IDs) - len(missing)
	if applied == 0 {
		respondError(w, http.StatusNotFound, fmt.Sprintf("none of the %d %s exist", len(req.IDs), h.res.Name))
		return
	}
	resp := BulkResponse{Action: req.Action, Applied: applied, Missing: missing}
	if key != "" {
		h.res.seen[key] = resp
	}
	h.metrics.bulk.WithLabelValues(h.res.Name, req.Action).Add(float64(applied))
	respondJSON(w, http.StatusOK, resp)
}

func (h *resourceHandler[T]) notify(w http.ResponseWriter, r *http.Request) {
	var req NotifyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Body) == "" {
		respondError(w, http.StatusUnprocessableEntity, "subject and body are required")
		return
	}

	recipients := 0
	switch {
	case len(req.IDs) > 0 && req.RecipientClass != "":
		respondError(w, http.StatusUnprocessableEntity, "send either ids or recipientClass, not both")
		return
	case len(req.IDs) > 0:
		for _, id := range req.IDs {
			if _, ok := h.res.Store.Get(id); ok {
				recipients++
			}
		}
	case req.RecipientClass != "":
		count, ok := h.res.Classes[req.RecipientClass]
		if !ok {
			respondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("unknown recipient class %q (known: %s)",
				req.RecipientClass, strings.Join(h.res.classNames(), ", ")))
			return
		}
		for _, item := range h.res.Match(req.Filter) {
			recipients += count(item)
		}
	default:
		respondError(w, http.StatusUnprocessableEntity, "ids or recipientClass is required")
		return
	}
	if recipients == 0 {
		respondError(w, http.StatusUnprocessableEntity, "no recipients matched")
		return
	}

	h.res.mu.Lock()
	h.res.outbox = append(h.res.outbox, Notification{
		Resource:       h.res.Name,
		IDs:            req.IDs,
		RecipientClass: req.RecipientClass,
		Filter:         req.Filter,
		Subject:        req.Subject,
		Body:           req.Body,
		Recipients:     recipients,
	})
	h.res.mu.Unlock()
	h.metrics.notifications.WithLabelValues(h.res.Name).Add(float64(recipients))
	respondJSON(w, http.StatusAccepted, map[string]int{"recipients": recipients})
}

func (h *resourceHandler[T]) export(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	format, err := engine.ParseFormat(query.Get("format"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "format must be one of csv, excel, pdf")
		return
	}
	if h.failExport {
		respondError(w, http.StatusServiceUnavailable, "export service unavailable")
		return
	}

	items := h.res.Match(filterFrom(query))
	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = h.res.Row(item)
	}
	table := Table{Title: h.res.Title, Columns: h.res.Columns, Rows: rows}
	data, err := Render(format, table)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.metrics.exports.WithLabelValues(h.res.Name, string(format)).Inc()
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.res.Name+"."+format.Extension()))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func filterFrom(query map[string][]string) map[string]string {
	filter := make(map[string]string, len(query))
	for k, v := range query {
		switch k {
		case "page", "pageSize", "format":
			continue
		}
		if len(v) > 0 {
			filter[k] = v[0]
		}
	}
	return filter
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		respondError(w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, &apiError{Code: status, Message: message})
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
