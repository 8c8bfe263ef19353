package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"fedadmin/internal/engine"
)

// Executor turns engine requests of one domain into tea commands
type Executor[T engine.Entity] struct {
	ctx *CommandContext[T]
}

// NewExecutor creates a new command executor
func NewExecutor[T engine.Entity](ctx context.Context, domain string, backend engine.Backend[T], saver engine.Saver) *Executor[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Executor[T]{
		ctx: &CommandContext[T]{
			Domain:  domain,
			Ctx:     ctx,
			Backend: backend,
			Saver:   saver,
		},
	}
}

func (e *Executor[T]) ExecuteFetch(req engine.FetchRequest[T]) tea.Cmd {
	return NewFetchCommand(e.ctx, req).Execute()
}

func (e *Executor[T]) ExecuteMutation(req engine.MutationRequest) tea.Cmd {
	return NewMutationCommand(e.ctx, req).Execute()
}

func (e *Executor[T]) ExecuteStatus(req engine.StatusRequest[T]) tea.Cmd {
	return NewStatusCommand(e.ctx, req).Execute()
}

func (e *Executor[T]) ExecuteNotify(call engine.NotifyCall) tea.Cmd {
	return NewNotifyCommand(e.ctx, call).Execute()
}

func (e *Executor[T]) ExecuteExport(req engine.ExportRequest) tea.Cmd {
	return NewExportCommand(e.ctx, req).Execute()
}

func (e *Executor[T]) ExecuteDetail(req engine.DetailRequest[T]) tea.Cmd {
	return NewDetailCommand(e.ctx, req).Execute()
}
