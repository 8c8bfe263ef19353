package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"fedadmin/internal/engine"
)

// Command represents an executable action
type Command interface {
	Execute() tea.Cmd
}

// CommandContext provides context for command execution
type CommandContext[T engine.Entity] struct {
	Domain  string
	Ctx     context.Context
	Backend engine.Backend[T]
	Saver   engine.Saver
}

// FetchCommand runs a list fetch
type FetchCommand[T engine.Entity] struct {
	ctx *CommandContext[T]
	req engine.FetchRequest[T]
}

func NewFetchCommand[T engine.Entity](ctx *CommandContext[T], req engine.FetchRequest[T]) *FetchCommand[T] {
	return &FetchCommand[T]{ctx: ctx, req: req}
}

// Execute performs the fetch off the update loop
func (c *FetchCommand[T]) Execute() tea.Cmd {
	domain, backend, req := c.ctx.Domain, c.ctx.Backend, c.req
	return func() tea.Msg {
		return FetchedMsg[T]{Domain: domain, Result: req.Run(backend)}
	}
}

// MutationCommand sends a confirmed bulk action
type MutationCommand[T engine.Entity] struct {
	ctx *CommandContext[T]
	req engine.MutationRequest
}

func NewMutationCommand[T engine.Entity](ctx *CommandContext[T], req engine.MutationRequest) *MutationCommand[T] {
	return &MutationCommand[T]{ctx: ctx, req: req}
}

func (c *MutationCommand[T]) Execute() tea.Cmd {
	domain, backend, parent, req := c.ctx.Domain, c.ctx.Backend, c.ctx.Ctx, c.req
	return func() tea.Msg {
		return MutatedMsg{Domain: domain, Result: req.Run(parent, backend)}
	}
}

// StatusCommand changes the status of one entity
type StatusCommand[T engine.Entity] struct {
	ctx *CommandContext[T]
	req engine.StatusRequest[T]
}

func NewStatusCommand[T engine.Entity](ctx *CommandContext[T], req engine.StatusRequest[T]) *StatusCommand[T] {
	return &StatusCommand[T]{ctx: ctx, req: req}
}

func (c *StatusCommand[T]) Execute() tea.Cmd {
	domain, backend, parent, req := c.ctx.Domain, c.ctx.Backend, c.ctx.Ctx, c.req
	return func() tea.Msg {
		return StatusChangedMsg[T]{Domain: domain, Result: req.Run(parent, backend)}
	}
}

// NotifyCommand dispatches a notification
type NotifyCommand[T engine.Entity] struct {
	ctx  *CommandContext[T]
	call engine.NotifyCall
}

func NewNotifyCommand[T engine.Entity](ctx *CommandContext[T], call engine.NotifyCall) *NotifyCommand[T] {
	return &NotifyCommand[T]{ctx: ctx, call: call}
}

func (c *NotifyCommand[T]) Execute() tea.Cmd {
	domain, backend, parent, call := c.ctx.Domain, c.ctx.Backend, c.ctx.Ctx, c.call
	return func() tea.Msg {
		return NotifiedMsg{Domain: domain, Result: call.Run(parent, backend)}
	}
}

// ExportCommand renders an export and hands it to the download sink
type ExportCommand[T engine.Entity] struct {
	ctx *CommandContext[T]
	req engine.ExportRequest
}

func NewExportCommand[T engine.Entity](ctx *CommandContext[T], req engine.ExportRequest) *ExportCommand[T] {
	return &ExportCommand[T]{ctx: ctx, req: req}
}

func (c *ExportCommand[T]) Execute() tea.Cmd {
	domain, backend, saver, parent, req := c.ctx.Domain, c.ctx.Backend, c.ctx.Saver, c.ctx.Ctx, c.req
	return func() tea.Msg {
		return ExportedMsg{Domain: domain, Result: req.Run(parent, backend, saver)}
	}
}

// DetailCommand loads the full record of one entity
type DetailCommand[T engine.Entity] struct {
	ctx *CommandContext[T]
	req engine.DetailRequest[T]
}

func NewDetailCommand[T engine.Entity](ctx *CommandContext[T], req engine.DetailRequest[T]) *DetailCommand[T] {
	return &DetailCommand[T]{ctx: ctx, req: req}
}

func (c *DetailCommand[T]) Execute() tea.Cmd {
	domain, backend, parent, req := c.ctx.Domain, c.ctx.Backend, c.ctx.Ctx, c.req
	return func() tea.Msg {
		return DetailMsg[T]{Domain: domain, Result: req.Run(parent, backend)}
	}
}
