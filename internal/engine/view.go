package engine

import (
	"context"
	"fmt"

	"fedadmin/internal/domain"
	"fedadmin/internal/errs"
)

// Options configures a View.
type Options struct {
	Domain           string
	Fields           []string
	PageSize         int
	Actions          []ActionSpec
	Statuses         []StatusSpec
	RecipientClasses []string
	Publisher        Publisher
	Clock            Clock
}

// View is the state container of one domain list: its filter, collection,
// pagination, selection, bulk executor, notifier and exporter. Each domain
// view owns its own View and nothing in it is shared with another domain.
// Every method must be called from the owner goroutine; only the Run
// methods of the returned requests may run elsewhere.
type View[T Entity] struct {
	domain  string
	backend Backend[T]
	ctx     context.Context
	pub     Publisher

	actions []ActionSpec

	filter     Filter
	collection *Collection[T]
	pagination Pagination
	selection  *Selection
	bulk       *BulkExecutor
	notifier   *NotificationDispatcher
	exporter   *ExportRequestor
	status     statusSlot
}

// NewView builds the container for one domain. ctx bounds every fetch the
// view issues.
func NewView[T Entity](ctx context.Context, backend Backend[T], opts Options) *View[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	return &View[T]{
		domain:     opts.Domain,
		backend:    backend,
		ctx:        ctx,
		pub:        opts.Publisher,
		actions:    append([]ActionSpec(nil), opts.Actions...),
		filter:     NewFilter(opts.Fields...),
		collection: NewCollection[T](),
		pagination: NewPagination(opts.PageSize),
		selection:  NewSelection(),
		bulk:       NewBulkExecutor(),
		notifier:   NewNotificationDispatcher(opts.RecipientClasses),
		exporter:   NewExportRequestor(opts.Domain, opts.Clock),
		status:     statusSlot{specs: append([]StatusSpec(nil), opts.Statuses...)},
	}
}

func (v *View[T]) Domain() string { return v.domain }
func (v *View[T]) Backend() Backend[T] { return v.backend }
func (v *View[T]) Filter() Filter { return v.filter }
func (v *View[T]) Collection() *Collection[T] { return v.collection }
func (v *View[T]) Pagination() Pagination { return v.pagination }
func (v *View[T]) Selection() *Selection { return v.selection }
func (v *View[T]) Bulk() *BulkExecutor { return v.bulk }
func (v *View[T]) Notifier() *NotificationDispatcher { return v.notifier }
func (v *View[T]) Exporter() *ExportRequestor { return v.exporter }
func (v *View[T]) Actions() []ActionSpec { return append([]ActionSpec(nil), v.actions...) }
func (v *View[T]) Statuses() []StatusSpec { return append([]StatusSpec(nil), v.status.specs...) }
func (v *View[T]) StatusPending() bool { return v.status.pending }
func (v *View[T]) StatusErr() error { return v.status.lastErr }

// Action looks up a bulk action by id.
func (v *View[T]) Action(id string) (ActionSpec, bool) {
	for _, a := range v.actions {
		if a.ID == id {
			return a, true
		}
	}
	return ActionSpec{}, false
}

// ---- fetching ----

func (v *View[T]) begin(page int) FetchRequest[T] {
	return v.collection.Begin(v.ctx, ListQuery{Filter: v.filter, Page: page, PageSize: v.pagination.PageSize})
}

// Load fetches the first page with the current filter, as on mount.
func (v *View[T]) Load() FetchRequest[T] {
	return v.begin(1)
}

// Refresh re-issues the fetch of the current page. While a page change is
// in flight, the page being fetched counts as current.
func (v *View[T]) Refresh() FetchRequest[T] {
	page := v.pagination.Page
	if q, ok := v.collection.Pending(); ok {
		page = q.Page
	}
	return v.begin(page)
}

// SetFilter replaces the filter and fetches page 1. The selection is left
// alone.
func (v *View[T]) SetFilter(f Filter) (FetchRequest[T], error) {
	if !f.SameSchema(v.filter) {
		return FetchRequest[T]{}, errs.New(errs.CodeFilterInvalid,
			fmt.Sprintf("filter fields %v do not match %s fields %v", f.Fields(), v.domain, v.filter.Fields()))
	}
	v.filter = f
	return v.begin(1), nil
}

// UpdateFilter changes one field and fetches page 1.
func (v *View[T]) UpdateFilter(field, value string) (FetchRequest[T], error) {
	next, err := v.filter.With(field, value)
	if err != nil {
		return FetchRequest[T]{}, err
	}
	return v.SetFilter(next)
}

// MergeFilter changes several fields at once and fetches page 1.
func (v *View[T]) MergeFilter(updates map[string]string) (FetchRequest[T], error) {
	next, err := v.filter.Merge(updates)
	if err != nil {
		return FetchRequest[T]{}, err
	}
	return v.SetFilter(next)
}

// ClearFilter resets every field and fetches page 1.
func (v *View[T]) ClearFilter() FetchRequest[T] {
	v.filter = v.filter.Clear()
	return v.begin(1)
}

// GoToPage fetches page. Out of range pages are refused and nothing
// changes.
func (v *View[T]) GoToPage(page int) (FetchRequest[T], bool) {
	if !v.pagination.CanGoTo(page) {
		return FetchRequest[T]{}, false
	}
	return v.begin(page), true
}

func (v *View[T]) NextPage() (FetchRequest[T], bool) {
	return v.GoToPage(v.pagination.Page + 1)
}

func (v *View[T]) PrevPage() (FetchRequest[T], bool) {
	return v.GoToPage(v.pagination.Page - 1)
}

// ApplyFetch folds a fetch result into the collection and, on success,
// the pagination. It reports whether the result was applied.
func (v *View[T]) ApplyFetch(res FetchResult[T]) bool {
	if !v.collection.Apply(res) {
		v.publish(domain.FetchDiscardedEvent{Domain: v.domain, Seq: res.Seq})
		return false
	}
	if res.Err != nil {
		v.publish(domain.FetchFailedEvent{Domain: v.domain, Err: v.collection.Err()})
		return true
	}

	pageSize := res.Page.PageSize
	if pageSize <= 0 {
		pageSize = res.Query.PageSize
	}
	page := res.Page.Page
	if page <= 0 {
		page = res.Query.Page
	}
	v.pagination.update(page, pageSize, res.Page.Total)
	v.publish(domain.FetchCompletedEvent{
		Domain: v.domain,
		Filter: res.Query.Filter.String(),
		Page:   v.pagination.Page,
		Count:  len(res.Page.Items),
		Total:  res.Page.Total,
	})
	return true
}

// ---- selection ----

// SelectPage selects every id on the displayed page and nothing else.
func (v *View[T]) SelectPage() {
	v.selection.ReplaceWithEntireCollection(v.collection)
}

// ---- bulk actions ----

// ChooseAction asks for confirmation of the action with id over the
// current selection.
func (v *View[T]) ChooseAction(id string) error {
	action, ok := v.Action(id)
	if !ok {
		return errs.New(errs.CodeActionInvalid, fmt.Sprintf("unknown action %q", id), errs.FieldDomain(v.domain))
	}
	return v.bulk.Choose(action, v.selection)
}

// ConfirmAction validates payload and returns the mutation to send.
func (v *View[T]) ConfirmAction(payload Payload) (MutationRequest, error) {
	return v.bulk.Confirm(payload)
}

func (v *View[T]) CancelAction() bool {
	return v.bulk.Cancel()
}

// ApplyMutation folds a mutation result back. On success it performs, in
// order, one refetch with the active filter and one selection clear, then
// returns to idle; the refetch is returned to be run. On failure the
// selection and collection are untouched and the MutationError is kept.
func (v *View[T]) ApplyMutation(res MutationResult) (FetchRequest[T], bool) {
	if !v.bulk.complete(res) {
		return FetchRequest[T]{}, false
	}
	defer v.bulk.finish()

	if v.bulk.State() == BulkFailed {
		v.publish(domain.MutationFailedEvent{
			Domain: v.domain, Action: res.Action.ID, IDs: res.Request.TargetIDs, Err: v.bulk.Err(),
		})
		return FetchRequest[T]{}, false
	}

	refetch := v.Refresh()
	v.selection.Clear()
	v.publish(domain.MutationSucceededEvent{Domain: v.domain, Action: res.Action.ID, IDs: res.Request.TargetIDs})
	return refetch, true
}

// ---- single entity status ----

// BeginStatusUpdate validates and starts a status change of one entity.
// Destructive statuses require a reason.
func (v *View[T]) BeginStatusUpdate(id int64, t Transition) (StatusRequest[T], error) {
	seq, err := v.status.begin(id, t)
	if err != nil {
		return StatusRequest[T]{}, err
	}
	return StatusRequest[T]{Seq: seq, ID: id, Transition: t}, nil
}

// ApplyStatusUpdate folds a status change back. Success triggers one
// refetch; the selection is left alone either way.
func (v *View[T]) ApplyStatusUpdate(res StatusResult[T]) (FetchRequest[T], bool) {
	if !v.status.pending || res.Seq != v.status.seq {
		return FetchRequest[T]{}, false
	}
	v.status.pending = false
	if res.Err != nil {
		v.status.lastErr = errs.Wrap(res.Err, errs.CodeMutationFailure,
			fmt.Sprintf("changing %s %d to %s", v.domain, res.ID, res.Transition.Status),
			errs.FieldAction(res.Transition.Status))
		v.publish(domain.MutationFailedEvent{
			Domain: v.domain, Action: res.Transition.Status, IDs: []int64{res.ID}, Err: v.status.lastErr,
		})
		return FetchRequest[T]{}, false
	}
	v.publish(domain.StatusChangedEvent{
		Domain: v.domain, ID: res.ID, Status: res.Transition.Status, Reason: res.Transition.Reason,
	})
	return v.Refresh(), true
}

// ---- notifications ----

// Notify validates a message for target and returns the call to run. The
// active filter travels with class-based sends.
func (v *View[T]) Notify(target Target, subject, body string) (NotifyCall, error) {
	return v.notifier.Send(target, v.filter, subject, body)
}

// NotifySelection sends to the selected ids.
func (v *View[T]) NotifySelection(subject, body string) (NotifyCall, error) {
	return v.Notify(FromSelection(v.selection), subject, body)
}

// ApplyNotify records a notification outcome. The collection is never
// refetched.
func (v *View[T]) ApplyNotify(res NotifyResult) bool {
	if !v.notifier.Complete(res) {
		return false
	}
	target := res.Request.Target.Describe()
	if res.Err != nil {
		v.publish(domain.NotificationFailedEvent{Domain: v.domain, Target: target, Err: v.notifier.Err()})
		return true
	}
	v.publish(domain.NotificationSentEvent{Domain: v.domain, Target: target, Subject: res.Request.Subject})
	return true
}

// ---- exports ----

// Export starts an export of the active filter in format.
func (v *View[T]) Export(format Format) (ExportRequest, error) {
	return v.exporter.Begin(v.filter, format)
}

// ApplyExport records an export outcome. Nothing but the exporter changes.
func (v *View[T]) ApplyExport(res ExportResult) {
	v.exporter.Complete(res)
	if err := v.exporter.Err(res.Format); err != nil {
		v.publish(domain.ExportFailedEvent{Domain: v.domain, Format: string(res.Format), Err: err})
		return
	}
	v.publish(domain.ExportSavedEvent{
		Domain: v.domain, Format: string(res.Format), Location: res.Location, Size: res.Size,
	})
}

// ---- detail ----

// DetailRequest loads the full record of one entity.
type DetailRequest[T Entity] struct {
	ID int64
}

// DetailResult is the outcome of a DetailRequest.
type DetailResult[T Entity] struct {
	ID     int64
	Entity T
	Err    error
}

// Detail prepares the load of the full record of id.
func (v *View[T]) Detail(id int64) DetailRequest[T] {
	return DetailRequest[T]{ID: id}
}

// Run loads the record. It never panics.
func (r DetailRequest[T]) Run(ctx context.Context, backend Backend[T]) (res DetailResult[T]) {
	res = DetailResult[T]{ID: r.ID}
	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("detail panicked: %v", p)
		}
	}()
	entity, err := backend.Detail(ctx, r.ID)
	if err != nil {
		res.Err = errs.Wrap(err, errs.CodeDetailFailure, fmt.Sprintf("loading %d", r.ID))
		return res
	}
	res.Entity = entity
	return res
}

func (v *View[T]) publish(event domain.DomainEvent) {
	if v.pub != nil {
		v.pub.Publish(event)
	}
}
