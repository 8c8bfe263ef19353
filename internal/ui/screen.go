package ui

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"fedadmin/internal/domains"
	"fedadmin/internal/engine"
	"fedadmin/internal/errs"
	"fedadmin/internal/ui/commands"
	"fedadmin/internal/ui/input/types"
	"fedadmin/internal/ui/views"
)

// Screen is one domain tab. It owns the engine view of its domain and
// executes the input actions aimed at it.
type Screen interface {
	types.Context
	Name() string
	Title() string
	Start() tea.Cmd
	Handle(action types.Action) tea.Cmd
	Update(msg tea.Msg) (bool, tea.Cmd)
	Fill(state *views.ViewState)
	Busy() bool
	PendingAction() string
	Notice() (string, bool)
	SetNotice(text string, isErr bool)
}

// modeSwitcher lets a screen move the input handler into a follow-up mode,
// e.g. ask for a reason once an action needing one has been chosen.
type modeSwitcher interface {
	ChangeMode(mode types.Mode, data string, ctx types.Context) tea.Cmd
}

type notifyDraft struct {
	target  engine.Target
	subject string
}

type statusDraft struct {
	id     int64
	status string
}

type screen[T engine.Entity] struct {
	adapter domains.Adapter[T]
	view    *engine.View[T]
	exec    *commands.Executor[T]
	modes   modeSwitcher
	pager   func(content string) tea.Cmd

	cursor    int
	started   bool
	notice    string
	noticeErr bool
	notify    notifyDraft
	status    statusDraft
}

// screenDeps is what every screen shares with the model.
type screenDeps struct {
	ctx      context.Context
	saver    engine.Saver
	pageSize int
	pub      engine.Publisher
	clock    engine.Clock
	modes    modeSwitcher
	pager    func(content string) tea.Cmd
}

func newScreen[T engine.Entity](adapter domains.Adapter[T], backend engine.Backend[T], deps screenDeps) *screen[T] {
	return &screen[T]{
		adapter: adapter,
		view:    engine.NewView(deps.ctx, backend, adapter.Options(deps.pageSize, deps.pub, deps.clock)),
		exec:    commands.NewExecutor(deps.ctx, adapter.Name, backend, deps.saver),
		modes:   deps.modes,
		pager:   deps.pager,
	}
}

func (s *screen[T]) Name() string  { return s.adapter.Name }
func (s *screen[T]) Title() string { return s.adapter.Title }

// ---- types.Context ----

func (s *screen[T]) CurrentIndex() int  { return s.cursor }
func (s *screen[T]) TotalItems() int    { return s.view.Collection().Len() }
func (s *screen[T]) HasCurrent() bool   { return s.cursor < s.view.Collection().Len() }
func (s *screen[T]) HasSelection() bool { return s.view.Selection().Len() > 0 }
func (s *screen[T]) SelectedCount() int { return s.view.Selection().Len() }

func (s *screen[T]) FilterInput() string              { return filterLine(s.view.Filter()) }
func (s *screen[T]) Actions() []engine.ActionSpec     { return s.view.Actions() }
func (s *screen[T]) Statuses() []engine.StatusSpec    { return s.view.Statuses() }
func (s *screen[T]) RecipientClasses() []string       { return s.view.Notifier().Classes() }
func (s *screen[T]) Notice() (string, bool)           { return s.notice, s.noticeErr }
func (s *screen[T]) SetNotice(text string, isErr bool) { s.notice, s.noticeErr = text, isErr }

func (s *screen[T]) fail(err error) {
	s.SetNotice(errs.Message(err), true)
}

// Start loads the first page the first time the tab is shown.
func (s *screen[T]) Start() tea.Cmd {
	if s.started {
		return nil
	}
	s.started = true
	return s.exec.ExecuteFetch(s.view.Load())
}

// Busy reports whether any request of this domain is in flight.
func (s *screen[T]) Busy() bool {
	return s.view.Collection().Loading() ||
		s.view.Bulk().State() == engine.BulkExecuting ||
		s.view.Notifier().Busy() ||
		s.view.Exporter().AnyLoading() ||
		s.view.StatusPending()
}

// PendingAction describes the bulk action awaiting confirmation, if any.
func (s *screen[T]) PendingAction() string {
	action, ids, ok := s.view.Bulk().Pending()
	if !ok || s.view.Bulk().State() != engine.BulkAwaitingConfirmation {
		return ""
	}
	return fmt.Sprintf("%s %d %s.", action.Label, len(ids), s.adapter.Name)
}

func (s *screen[T]) current() (T, bool) {
	return s.view.Collection().At(s.cursor)
}

// Handle executes an input action against this domain
func (s *screen[T]) Handle(action types.Action) tea.Cmd {
	switch a := action.(type) {
	case types.NavigateAction:
		s.navigate(a.Direction)

	case types.PageAction:
		var req engine.FetchRequest[T]
		var ok bool
		if a.Direction == "prev" {
			req, ok = s.view.PrevPage()
		} else {
			req, ok = s.view.NextPage()
		}
		if !ok {
			return nil
		}
		s.cursor = 0
		return s.exec.ExecuteFetch(req)

	case types.SelectAction:
		if item, ok := s.current(); ok {
			s.view.Selection().Flip(item.EntityID())
		}

	case types.SelectAllAction:
		s.view.SelectPage()

	case types.DeselectAllAction:
		s.view.Selection().Clear()

	case types.RefreshAction:
		return s.exec.ExecuteFetch(s.view.Refresh())

	case types.ClearFilterAction:
		s.cursor = 0
		return s.exec.ExecuteFetch(s.view.ClearFilter())

	case types.SubmitTextAction:
		return s.submit(a.Mode, a.Text)

	case types.CancelTextAction:
		s.cancel(a.Mode)

	case types.ChooseActionAction:
		return s.choose(a.ActionID)

	case types.ConfirmBulkAction:
		return s.confirm(engine.Plain{}, types.ModeConfirm, "")

	case types.CancelBulkAction:
		s.cancel(types.ModeConfirm)

	case types.StatusAction:
		return s.beginStatus(a.Status)

	case types.ExportAction:
		req, err := s.view.Export(a.Format)
		if err != nil {
			s.fail(err)
			return nil
		}
		s.SetNotice(fmt.Sprintf("Exporting %s as %s…", s.adapter.Name, a.Format), false)
		return s.exec.ExecuteExport(req)

	case types.NotifyTargetAction:
		if a.Selection {
			s.notify = notifyDraft{target: engine.FromSelection(s.view.Selection())}
		} else {
			s.notify = notifyDraft{target: engine.RecipientClass{Name: a.Class}}
		}

	case types.ShowDetailAction:
		if item, ok := s.current(); ok {
			return s.exec.ExecuteDetail(s.view.Detail(item.EntityID()))
		}

	case types.DismissAction:
		s.SetNotice("", false)
		s.view.Bulk().DismissError()
	}
	return nil
}

func (s *screen[T]) navigate(direction string) {
	n := s.view.Collection().Len()
	switch direction {
	case "up":
		s.cursor--
	case "down":
		s.cursor++
	case "pageup":
		s.cursor -= 10
	case "pagedown":
		s.cursor += 10
	case "home":
		s.cursor = 0
	case "end":
		s.cursor = n - 1
	}
	s.clampCursor()
}

func (s *screen[T]) clampCursor() {
	n := s.view.Collection().Len()
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *screen[T]) submit(mode types.Mode, text string) tea.Cmd {
	switch mode {
	case types.ModeFilter:
		updates, err := engine.ParseInput(text, domains.SearchField)
		if err != nil {
			s.fail(err)
			return nil
		}
		next, err := s.view.Filter().Clear().Merge(updates)
		if err != nil {
			s.fail(err)
			return nil
		}
		req, err := s.view.SetFilter(next)
		if err != nil {
			s.fail(err)
			return nil
		}
		s.cursor = 0
		return s.exec.ExecuteFetch(req)

	case types.ModePage:
		page, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			s.SetNotice(fmt.Sprintf("%q is not a page number", text), true)
			return nil
		}
		req, ok := s.view.GoToPage(page)
		if !ok {
			s.SetNotice(fmt.Sprintf("page %d is out of range 1-%d", page, s.view.Pagination().TotalPages()), true)
			return nil
		}
		s.cursor = 0
		return s.exec.ExecuteFetch(req)

	case types.ModeReason:
		return s.confirm(engine.Reasoned{Reason: text}, types.ModeReason, text)

	case types.ModeSuspension:
		payload, err := engine.ParseSuspension(text)
		if err != nil {
			s.fail(err)
			return s.modes.ChangeMode(types.ModeSuspension, text, s)
		}
		return s.confirm(payload, types.ModeSuspension, text)

	case types.ModeStatusReason:
		req, err := s.view.BeginStatusUpdate(s.status.id, engine.Transition{Status: s.status.status, Reason: text})
		if err != nil {
			s.fail(err)
			if errs.IsValidation(err) {
				return s.modes.ChangeMode(types.ModeStatusReason, text, s)
			}
			s.status = statusDraft{}
			return nil
		}
		s.status = statusDraft{}
		return s.exec.ExecuteStatus(req)

	case types.ModeNotifySubject:
		s.notify.subject = text

	case types.ModeNotifyBody:
		call, err := s.view.Notify(s.notify.target, s.notify.subject, text)
		if err != nil {
			s.fail(err)
			if !errs.IsValidation(err) {
				return nil
			}
			// the draft is kept; a blank subject is asked for again first
			if strings.TrimSpace(s.notify.subject) == "" {
				return s.modes.ChangeMode(types.ModeNotifySubject, s.notify.subject, s)
			}
			return s.modes.ChangeMode(types.ModeNotifyBody, text, s)
		}
		s.notify = notifyDraft{}
		s.SetNotice("Sending notification to "+call.Request.Target.Describe()+"…", false)
		return s.exec.ExecuteNotify(call)
	}
	return nil
}

func (s *screen[T]) cancel(mode types.Mode) {
	switch mode {
	case types.ModeConfirm, types.ModeReason, types.ModeSuspension:
		if s.view.CancelAction() {
			s.SetNotice("Cancelled.", false)
		}
	case types.ModeStatusReason:
		s.status = statusDraft{}
	case types.ModeNotifySubject, types.ModeNotifyBody:
		s.notify = notifyDraft{}
	}
}

func (s *screen[T]) choose(actionID string) tea.Cmd {
	if err := s.view.ChooseAction(actionID); err != nil {
		s.fail(err)
		return nil
	}
	action, _ := s.view.Action(actionID)
	switch action.Payload {
	case engine.PayloadReasoned:
		return s.modes.ChangeMode(types.ModeReason, "", s)
	case engine.PayloadSuspension:
		return s.modes.ChangeMode(types.ModeSuspension, "", s)
	default:
		return s.modes.ChangeMode(types.ModeConfirm, "", s)
	}
}

// confirm sends the chosen bulk action. A payload that does not validate
// keeps the confirmation open and re-asks in mode with text pre-filled.
func (s *screen[T]) confirm(payload engine.Payload, mode types.Mode, text string) tea.Cmd {
	req, err := s.view.ConfirmAction(payload)
	if err != nil {
		s.fail(err)
		if s.view.Bulk().State() == engine.BulkAwaitingConfirmation {
			return s.modes.ChangeMode(mode, text, s)
		}
		return nil
	}
	s.SetNotice(fmt.Sprintf("%s: applying to %d %s…", req.Action.Label, len(req.Request.TargetIDs), s.adapter.Name), false)
	return s.exec.ExecuteMutation(req)
}

func (s *screen[T]) beginStatus(status string) tea.Cmd {
	item, ok := s.current()
	if !ok {
		return nil
	}
	for _, spec := range s.view.Statuses() {
		if spec.Status == status && spec.Destructive {
			s.status = statusDraft{id: item.EntityID(), status: status}
			return s.modes.ChangeMode(types.ModeStatusReason, "", s)
		}
	}
	return s.sendStatus(item.EntityID(), engine.Transition{Status: status})
}

func (s *screen[T]) sendStatus(id int64, t engine.Transition) tea.Cmd {
	req, err := s.view.BeginStatusUpdate(id, t)
	if err != nil {
		s.fail(err)
		return nil
	}
	return s.exec.ExecuteStatus(req)
}

// Update folds the results of this domain's requests back into its view
func (s *screen[T]) Update(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case commands.FetchedMsg[T]:
		if msg.Domain != s.Name() {
			return false, nil
		}
		s.view.ApplyFetch(msg.Result)
		s.clampCursor()
		return true, nil

	case commands.MutatedMsg:
		if msg.Domain != s.Name() {
			return false, nil
		}
		refetch, ok := s.view.ApplyMutation(msg.Result)
		if ok {
			s.SetNotice(fmt.Sprintf("%s applied to %d %s.", msg.Result.Action.Label, len(msg.Result.Request.TargetIDs), s.adapter.Name), false)
			return true, s.exec.ExecuteFetch(refetch)
		}
		if msg.Result.Err != nil && s.view.Bulk().Err() != nil {
			s.fail(s.view.Bulk().Err())
		}
		return true, nil

	case commands.StatusChangedMsg[T]:
		if msg.Domain != s.Name() {
			return false, nil
		}
		refetch, ok := s.view.ApplyStatusUpdate(msg.Result)
		if ok {
			s.SetNotice(fmt.Sprintf("%s %d is now %s.", s.adapter.Name, msg.Result.ID, msg.Result.Transition.Status), false)
			return true, s.exec.ExecuteFetch(refetch)
		}
		if msg.Result.Err != nil && s.view.StatusErr() != nil {
			s.fail(s.view.StatusErr())
		}
		return true, nil

	case commands.NotifiedMsg:
		if msg.Domain != s.Name() {
			return false, nil
		}
		if !s.view.ApplyNotify(msg.Result) {
			return true, nil
		}
		if err := s.view.Notifier().Err(); err != nil {
			s.fail(err)
		} else {
			s.SetNotice("Notification sent to "+msg.Result.Request.Target.Describe()+".", false)
		}
		return true, nil

	case commands.ExportedMsg:
		if msg.Domain != s.Name() {
			return false, nil
		}
		s.view.ApplyExport(msg.Result)
		if err := s.view.Exporter().Err(msg.Result.Format); err != nil {
			s.fail(err)
		} else {
			s.SetNotice("Export saved to "+msg.Result.Location, false)
		}
		return true, nil

	case commands.DetailMsg[T]:
		if msg.Domain != s.Name() {
			return false, nil
		}
		if msg.Result.Err != nil {
			s.fail(msg.Result.Err)
			return true, nil
		}
		return true, s.pager(s.describe(msg.Result.Entity))
	}
	return false, nil
}

func (s *screen[T]) describe(item T) string {
	title := fmt.Sprintf("%s #%d", s.adapter.Title, item.EntityID())
	body := ""
	if s.adapter.Describe != nil {
		body = s.adapter.Describe(item)
	} else {
		for i, col := range s.adapter.Columns {
			body += fmt.Sprintf("%-14s %s\n", col.Title+":", s.adapter.Row(item)[i])
		}
	}
	return title + "\n\n" + body
}

// Fill writes the domain part of the view state
func (s *screen[T]) Fill(state *views.ViewState) {
	coll := s.view.Collection()
	pag := s.view.Pagination()
	sel := s.view.Selection()

	state.Noun = s.adapter.Name
	state.Filter = filterLine(s.view.Filter())
	state.Loading = coll.Loading()
	state.Loaded = coll.Loaded()
	if coll.Status() == engine.StatusError {
		state.LoadErr = errs.Message(coll.Err())
	}

	stats := coll.Stats()
	for _, k := range s.adapter.StatsKeys {
		if v, ok := stats[k]; ok {
			state.Stats = append(state.Stats, views.Stat{Key: k, Value: v})
		}
	}

	for _, col := range s.adapter.Columns {
		state.Columns = append(state.Columns, views.Column{Title: col.Title, Width: col.Width})
	}
	for _, item := range coll.Items() {
		state.Rows = append(state.Rows, views.Row{
			Cells:    s.adapter.Row(item),
			Status:   item.EntityStatus(),
			Selected: sel.Has(item.EntityID()),
		})
	}
	state.Cursor = s.cursor

	state.Page = pag.Page
	state.TotalPages = pag.TotalPages()
	state.Total = pag.TotalCount
	state.SelectedCount = sel.Len()
	state.Activity = s.activity()
	state.Notice, state.NoticeErr = s.notice, s.noticeErr
}

func (s *screen[T]) activity() []string {
	var out []string
	if action, ids, ok := s.view.Bulk().Pending(); ok && s.view.Bulk().State() == engine.BulkExecuting {
		out = append(out, fmt.Sprintf("%s %d", strings.ToLower(action.Label), len(ids)))
	}
	if s.view.StatusPending() {
		out = append(out, "updating status")
	}
	if s.view.Notifier().Busy() {
		out = append(out, "sending notification")
	}
	for _, f := range []engine.Format{engine.FormatCSV, engine.FormatExcel, engine.FormatPDF} {
		if s.view.Exporter().Loading(f) {
			out = append(out, "exporting "+string(f))
		}
	}
	return out
}

// filterLine renders a filter the way the filter prompt reads it back:
// field=value pairs followed by the free search text.
func filterLine(f engine.Filter) string {
	values := f.Active()
	keys := make([]string, 0, len(values))
	for k := range values {
		if k != domains.SearchField {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(values))
	for _, k := range keys {
		parts = append(parts, k+"="+values[k])
	}
	if search := values[domains.SearchField]; search != "" {
		parts = append(parts, search)
	}
	return strings.Join(parts, " ")
}
