package engine

import (
	"context"

	"fedadmin/internal/errs"
)

// The helpers below run a request and apply its result on the calling
// goroutine. They serve headless callers that have no event loop.

// FetchNow runs req and applies it. It returns the FetchError, if any.
func (v *View[T]) FetchNow(req FetchRequest[T]) error {
	v.ApplyFetch(req.Run(v.backend))
	return v.collection.Err()
}

// ExportNow exports the active filter in format and saves it with saver.
func (v *View[T]) ExportNow(ctx context.Context, format Format, saver Saver) (string, error) {
	req, err := v.Export(format)
	if err != nil {
		return "", err
	}
	res := req.Run(ctx, v.backend, saver)
	v.ApplyExport(res)
	if err := v.exporter.Err(format); err != nil {
		return "", err
	}
	return res.Location, nil
}

// NotifyNow sends a notification to target and waits for the backend.
func (v *View[T]) NotifyNow(ctx context.Context, target Target, subject, body string) error {
	call, err := v.Notify(target, subject, body)
	if err != nil {
		return err
	}
	v.ApplyNotify(call.Run(ctx, v.backend))
	return v.notifier.Err()
}

// BulkNow selects ids, chooses and confirms actionID with payload, sends
// the mutation and runs the follow-up refetch.
func (v *View[T]) BulkNow(ctx context.Context, actionID string, ids []int64, payload Payload) error {
	v.selection.SetAll(ids)
	if err := v.ChooseAction(actionID); err != nil {
		return err
	}
	req, err := v.ConfirmAction(payload)
	if err != nil {
		v.CancelAction()
		return err
	}
	refetch, ok := v.ApplyMutation(req.Run(ctx, v.backend))
	if !ok {
		if err := v.bulk.Err(); err != nil {
			return err
		}
		return errs.New(errs.CodeMutationFailure, "mutation result was not applied")
	}
	return v.FetchNow(refetch)
}
