package engine_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"fedadmin/internal/domain"
	"fedadmin/internal/engine"
)

type row struct {
	ID     int64
	Name   string
	Status string
}

func (r row) EntityID() int64      { return r.ID }
func (r row) EntityStatus() string { return r.Status }

// fakeBackend records every call. List answers from listFn when set,
// otherwise from rows filtered by status.
type fakeBackend struct {
	mu sync.Mutex

	rows   []row
	listFn func(ctx context.Context, q engine.ListQuery) (engine.Page[row], error)

	listCalls   []engine.ListQuery
	bulkCalls   []engine.BulkMutationRequest
	notifyCalls []engine.NotifyRequest
	exportCalls []engine.ExportQuery
	statusCalls []engine.Transition

	bulkErr    error
	notifyErr  error
	exportErr  error
	statusErr  error
	exportFile engine.ExportFile
}

func newFakeBackend(rows ...row) *fakeBackend {
	return &fakeBackend{rows: rows}
}

func (f *fakeBackend) List(ctx context.Context, q engine.ListQuery) (engine.Page[row], error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, q)
	fn := f.listFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, q)
	}

	var matched []row
	status := q.Filter.Get("status")
	for _, r := range f.rows {
		if status == "" || r.Status == status {
			matched = append(matched, r)
		}
	}
	total := len(matched)
	start := (q.Page - 1) * q.PageSize
	if start > total {
		start = total
	}
	end := start + q.PageSize
	if end > total {
		end = total
	}
	return engine.Page[row]{
		Items:    matched[start:end],
		Stats:    engine.Stats{"total": float64(total)},
		Total:    total,
		Page:     q.Page,
		PageSize: q.PageSize,
	}, nil
}

func (f *fakeBackend) Detail(_ context.Context, id int64) (row, error) {
	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return row{}, errors.New("not found")
}

func (f *fakeBackend) UpdateStatus(_ context.Context, id int64, t engine.Transition) (row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls = append(f.statusCalls, t)
	if f.statusErr != nil {
		return row{}, f.statusErr
	}
	return row{ID: id, Status: t.Status}, nil
}

func (f *fakeBackend) Bulk(_ context.Context, req engine.BulkMutationRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bulkCalls = append(f.bulkCalls, req)
	return f.bulkErr
}

func (f *fakeBackend) Notify(_ context.Context, req engine.NotifyRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifyCalls = append(f.notifyCalls, req)
	return f.notifyErr
}

func (f *fakeBackend) Export(_ context.Context, q engine.ExportQuery) (engine.ExportFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exportCalls = append(f.exportCalls, q)
	if f.exportErr != nil {
		return engine.ExportFile{}, f.exportErr
	}
	return f.exportFile, nil
}

func (f *fakeBackend) lists() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listCalls)
}

func (f *fakeBackend) lastList() engine.ListQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls[len(f.listCalls)-1]
}

type savedFile struct {
	name        string
	contentType string
	data        []byte
}

type fakeSaver struct {
	saved []savedFile
	err   error
}

func (s *fakeSaver) Save(_ context.Context, name, contentType string, data []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.saved = append(s.saved, savedFile{name: name, contentType: contentType, data: data})
	return "mem://" + name, nil
}

type recorder struct {
	mu     sync.Mutex
	events []domain.DomainEvent
}

func (r *recorder) Publish(e domain.DomainEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []domain.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type()
	}
	return out
}

var testActions = []engine.ActionSpec{
	{ID: "approve", Label: "Approve", Key: "a", Payload: engine.PayloadPlain},
	{ID: "reject", Label: "Reject", Key: "r", Payload: engine.PayloadReasoned},
	{ID: "suspend", Label: "Suspend", Key: "s", Payload: engine.PayloadSuspension},
}

var testStatuses = []engine.StatusSpec{
	{Status: "active", Label: "Activate", Key: "a"},
	{Status: "banned", Label: "Ban", Key: "b", Destructive: true},
}

func newTestView(b *fakeBackend, pub engine.Publisher) *engine.View[row] {
	return engine.NewView[row](context.Background(), b, engine.Options{
		Domain:           "users",
		Fields:           []string{"searchTerm", "status"},
		PageSize:         2,
		Actions:          testActions,
		Statuses:         testStatuses,
		RecipientClasses: []string{"owner", "recent visitors"},
		Publisher:        pub,
	})
}

// loaded returns a view whose first page has been applied.
func loaded(b *fakeBackend) *engine.View[row] {
	v := newTestView(b, nil)
	if err := v.FetchNow(v.Load()); err != nil {
		panic(err)
	}
	return v
}

func ids(items []row) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
