package engine

import (
	"context"
	"fmt"
	"strings"

	"fedadmin/internal/errs"
)

// StatusSpec is a status a single entity can be moved to from its detail.
type StatusSpec struct {
	Status      string
	Label       string
	Key         string
	Destructive bool
}

// StatusRequest moves one entity to another status.
type StatusRequest[T Entity] struct {
	Seq        uint64
	ID         int64
	Transition Transition
}

// StatusResult is the outcome of a StatusRequest.
type StatusResult[T Entity] struct {
	Seq        uint64
	ID         int64
	Transition Transition
	Entity     T
	Err        error
}

// StatusUpdater is the backend side of a single-entity status change.
type StatusUpdater[T Entity] interface {
	UpdateStatus(ctx context.Context, id int64, t Transition) (T, error)
}

// Run sends the status change. It never panics.
func (r StatusRequest[T]) Run(ctx context.Context, backend StatusUpdater[T]) (res StatusResult[T]) {
	res = StatusResult[T]{Seq: r.Seq, ID: r.ID, Transition: r.Transition}
	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("status update panicked: %v", p)
		}
	}()
	res.Entity, res.Err = backend.UpdateStatus(ctx, r.ID, r.Transition)
	return res
}

// statusSlot tracks the single in-flight status change of a view.
type statusSlot struct {
	specs   []StatusSpec
	pending bool
	seq     uint64
	lastErr error
}

func (s *statusSlot) spec(status string) (StatusSpec, bool) {
	for _, spec := range s.specs {
		if spec.Status == status {
			return spec, true
		}
	}
	return StatusSpec{}, false
}

func (s *statusSlot) begin(id int64, t Transition) (uint64, error) {
	if s.pending {
		return 0, errs.New(errs.CodeActionBusy, "a status change is already running")
	}
	spec, ok := s.spec(t.Status)
	if !ok {
		known := make([]string, len(s.specs))
		for i, sp := range s.specs {
			known[i] = sp.Status
		}
		return 0, errs.New(errs.CodeActionInvalid,
			fmt.Sprintf("unknown status %q (known: %s)", t.Status, strings.Join(known, ", ")))
	}
	if spec.Destructive && strings.TrimSpace(t.Reason) == "" {
		return 0, errs.New(errs.CodeActionInvalid, "a reason is required",
			errs.FieldAction(t.Status), errs.Field("id", id))
	}
	s.seq++
	s.pending = true
	s.lastErr = nil
	return s.seq, nil
}
