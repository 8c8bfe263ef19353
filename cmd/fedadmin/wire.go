package main

import (
	"context"
	"fmt"

	"fedadmin/internal/api"
	"fedadmin/internal/config"
	"fedadmin/internal/domain"
	"fedadmin/internal/domains"
	"fedadmin/internal/engine"
	"fedadmin/internal/errs"
	"fedadmin/internal/ui"
)

func newTransport(cfg *config.Config) (*api.Transport, error) {
	return api.New(api.Options{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
		Timeout: cfg.API.Timeout,
	})
}

func newBackends(t *api.Transport) ui.Backends {
	return ui.Backends{
		Users:       api.For[domain.User](t, domains.Users().Resource),
		Courts:      api.For[domain.Court](t, domains.Courts().Resource),
		Tournaments: api.For[domain.Tournament](t, domains.Tournaments().Resource),
		Microsites:  api.For[domain.Microsite](t, domains.Microsites().Resource),
	}
}

// runner is one domain driven without the console, by the headless
// subcommands.
type runner interface {
	Filter(updates map[string]string) error
	Export(ctx context.Context, format engine.Format, saver engine.Saver) (string, error)
	Notify(ctx context.Context, target engine.Target, subject, body string) error
	Bulk(ctx context.Context, actionID string, ids []int64, payload engine.Payload) error
	Action(id string) (engine.ActionSpec, bool)
	Loaded() int
}

type domainRunner[T engine.Entity] struct {
	view *engine.View[T]
}

func newRunner(ctx context.Context, name string, t *api.Transport, cfg *config.Config, pub engine.Publisher) (runner, error) {
	info, err := domains.Lookup(name)
	if err != nil {
		return nil, errs.Wrap(err, errs.CodeCLIInputInvalid, "choosing domain")
	}
	switch info.Name {
	case "users":
		return build(ctx, domains.Users(), t, cfg, pub), nil
	case "courts":
		return build(ctx, domains.Courts(), t, cfg, pub), nil
	case "tournaments":
		return build(ctx, domains.Tournaments(), t, cfg, pub), nil
	case "microsites":
		return build(ctx, domains.Microsites(), t, cfg, pub), nil
	}
	return nil, errs.New(errs.CodeCLIInputInvalid, fmt.Sprintf("unknown domain %q", name))
}

func build[T engine.Entity](ctx context.Context, adapter domains.Adapter[T], t *api.Transport, cfg *config.Config, pub engine.Publisher) *domainRunner[T] {
	backend := api.For[T](t, adapter.Resource)
	return &domainRunner[T]{
		view: engine.NewView[T](ctx, backend, adapter.Options(cfg.UI.PageSize, pub, nil)),
	}
}

// Filter applies updates and loads the first matching page, so a bad
// filter is reported before anything is sent.
func (r *domainRunner[T]) Filter(updates map[string]string) error {
	next, err := r.view.Filter().Merge(updates)
	if err != nil {
		return err
	}
	req, err := r.view.SetFilter(next)
	if err != nil {
		return err
	}
	return r.view.FetchNow(req)
}

func (r *domainRunner[T]) Export(ctx context.Context, format engine.Format, saver engine.Saver) (string, error) {
	return r.view.ExportNow(ctx, format, saver)
}

func (r *domainRunner[T]) Notify(ctx context.Context, target engine.Target, subject, body string) error {
	return r.view.NotifyNow(ctx, target, subject, body)
}

func (r *domainRunner[T]) Bulk(ctx context.Context, actionID string, ids []int64, payload engine.Payload) error {
	return r.view.BulkNow(ctx, actionID, ids, payload)
}

func (r *domainRunner[T]) Action(id string) (engine.ActionSpec, bool) {
	return r.view.Action(id)
}

// Loaded is the number of entities matching the filter.
func (r *domainRunner[T]) Loaded() int {
	return r.view.Pagination().TotalCount
}
