package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"fedadmin/internal/errs"
)

// BulkState is the lifecycle of a bulk action.
type BulkState int

const (
	BulkIdle BulkState = iota
	BulkAwaitingConfirmation
	BulkExecuting
	BulkSucceeded
	BulkFailed
)

func (s BulkState) String() string {
	switch s {
	case BulkIdle:
		return "idle"
	case BulkAwaitingConfirmation:
		return "awaiting confirmation"
	case BulkExecuting:
		return "executing"
	case BulkSucceeded:
		return "succeeded"
	case BulkFailed:
		return "failed"
	default:
		return fmt.Sprintf("BulkState(%d)", int(s))
	}
}

// BulkExecutor gates a bulk action behind a confirmation and runs at most
// one mutation at a time. After a mutation completes it always returns to
// idle; a failed action has to be chosen again.
type BulkExecutor struct {
	state      BulkState
	action     ActionSpec
	targets    []int64
	key        string
	validation error
	lastErr    error
	newKey     func() string
}

func NewBulkExecutor() *BulkExecutor {
	return &BulkExecutor{newKey: uuid.NewString}
}

// MutationRequest is a confirmed bulk action ready to be sent.
type MutationRequest struct {
	Action  ActionSpec
	Request BulkMutationRequest
}

// MutationResult is the outcome of a MutationRequest.
type MutationResult struct {
	Action  ActionSpec
	Request BulkMutationRequest
	Err     error
}

// Run sends the mutation. It touches no executor state and never panics.
func (r MutationRequest) Run(ctx context.Context, backend BulkBackend) (res MutationResult) {
	res = MutationResult{Action: r.Action, Request: r.Request}
	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("bulk %s panicked: %v", r.Action.ID, p)
		}
	}()
	res.Err = backend.Bulk(ctx, r.Request)
	return res
}

// Choose moves to AwaitingConfirmation for action over the current
// selection. The targets are captured now so the confirmation prompt and
// the request agree. An empty selection is refused and leaves the state
// unchanged.
func (b *BulkExecutor) Choose(action ActionSpec, selection *Selection) error {
	if b.state == BulkExecuting {
		return errs.New(errs.CodeActionBusy,
			fmt.Sprintf("%s is still running", b.action.Label), errs.FieldAction(action.ID))
	}
	if selection == nil || selection.IsEmpty() {
		return errs.New(errs.CodeActionInvalid, "select at least one row", errs.FieldAction(action.ID))
	}
	b.state = BulkAwaitingConfirmation
	b.action = action
	b.targets = selection.IDs()
	b.validation = nil
	b.lastErr = nil
	return nil
}

// Cancel abandons a pending confirmation. It reports whether there was one.
func (b *BulkExecutor) Cancel() bool {
	if b.state != BulkAwaitingConfirmation {
		return false
	}
	b.reset()
	return true
}

// Confirm validates payload against the pending action. On success the
// executor enters Executing and returns the request to send. A validation
// failure keeps the confirmation open and is also kept as the local
// validation message.
func (b *BulkExecutor) Confirm(payload Payload) (MutationRequest, error) {
	switch b.state {
	case BulkAwaitingConfirmation:
	case BulkExecuting:
		return MutationRequest{}, errs.New(errs.CodeActionBusy,
			fmt.Sprintf("%s is still running", b.action.Label), errs.FieldAction(b.action.ID))
	default:
		return MutationRequest{}, errs.New(errs.CodeActionInvalid, "no action awaiting confirmation")
	}

	if payload == nil {
		payload = Plain{}
	}
	req := BulkMutationRequest{
		ActionID:  b.action.ID,
		TargetIDs: append([]int64(nil), b.targets...),
		Payload:   payload,
	}
	if err := req.Validate(b.action); err != nil {
		b.validation = err
		return MutationRequest{}, err
	}
	req.IdempotencyKey = b.newKey()

	b.key = req.IdempotencyKey
	b.validation = nil
	b.state = BulkExecuting
	return MutationRequest{Action: b.action, Request: req}, nil
}

// complete records the mutation outcome. It reports whether res belonged
// to the running mutation. The executor is left in Succeeded or Failed;
// the view runs the follow-ups and then calls finish.
func (b *BulkExecutor) complete(res MutationResult) bool {
	if b.state != BulkExecuting || res.Request.IdempotencyKey != b.key {
		return false
	}
	if res.Err != nil {
		b.state = BulkFailed
		b.lastErr = errs.Wrap(res.Err, errs.CodeMutationFailure,
			fmt.Sprintf("%s failed", b.action.Label), errs.FieldAction(b.action.ID))
		return true
	}
	b.state = BulkSucceeded
	b.lastErr = nil
	return true
}

func (b *BulkExecutor) finish() {
	lastErr := b.lastErr
	b.reset()
	b.lastErr = lastErr
}

func (b *BulkExecutor) reset() {
	b.state = BulkIdle
	b.action = ActionSpec{}
	b.targets = nil
	b.validation = nil
	b.key = ""
}

func (b *BulkExecutor) State() BulkState { return b.state }

// Pending returns the action and targets awaiting confirmation or running.
func (b *BulkExecutor) Pending() (ActionSpec, []int64, bool) {
	if b.state != BulkAwaitingConfirmation && b.state != BulkExecuting {
		return ActionSpec{}, nil, false
	}
	return b.action, append([]int64(nil), b.targets...), true
}

// Validation is the local precondition failure of the last Confirm.
func (b *BulkExecutor) Validation() error { return b.validation }

// Err is the MutationError of the last completed mutation.
func (b *BulkExecutor) Err() error { return b.lastErr }

// DismissError forgets the last MutationError.
func (b *BulkExecutor) DismissError() { b.lastErr = nil }
