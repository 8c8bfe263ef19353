package engine

import (
	"context"
	"fmt"
	"strings"

	"fedadmin/internal/errs"
)

// Target selects who receives a notification: explicit ids or a named
// recipient class of the domain.
type Target interface {
	Describe() string
	isTarget()
}

// Recipients targets explicit entity ids.
type Recipients struct {
	IDs []int64
}

func (Recipients) isTarget() {}

func (r Recipients) Describe() string {
	return fmt.Sprintf("%d selected", len(r.IDs))
}

// RecipientClass targets a domain-defined audience such as "owner" or
// "confirmed participants".
type RecipientClass struct {
	Name string
}

func (RecipientClass) isTarget() {}

func (r RecipientClass) Describe() string {
	return r.Name
}

// FromSelection targets the currently selected ids.
func FromSelection(selection *Selection) Recipients {
	return Recipients{IDs: selection.IDs()}
}

// NotifyRequest is the message handed to the notification collaborator.
// Class-based requests carry the active filter so the backend can resolve
// the audience among the entities it implies.
type NotifyRequest struct {
	Target  Target
	Filter  Filter
	Subject string
	Body    string
}

// NotifyState is the lifecycle of a notification send.
type NotifyState int

const (
	NotifyIdle NotifyState = iota
	NotifyExecuting
	NotifySucceeded
	NotifyFailed
)

func (s NotifyState) String() string {
	switch s {
	case NotifyIdle:
		return "idle"
	case NotifyExecuting:
		return "executing"
	case NotifySucceeded:
		return "succeeded"
	case NotifyFailed:
		return "failed"
	default:
		return fmt.Sprintf("NotifyState(%d)", int(s))
	}
}

// NotificationDispatcher sends composed messages. It never refetches the
// collection since notifications do not change entity state.
type NotificationDispatcher struct {
	classes []string
	state   NotifyState
	current NotifyRequest
	lastErr error
	seq     uint64
}

func NewNotificationDispatcher(classes []string) *NotificationDispatcher {
	return &NotificationDispatcher{classes: append([]string(nil), classes...)}
}

// NotifyCall is a validated notification ready to be sent.
type NotifyCall struct {
	Seq     uint64
	Request NotifyRequest
}

// NotifyResult is the outcome of a NotifyCall.
type NotifyResult struct {
	Seq     uint64
	Request NotifyRequest
	Err     error
}

// Run sends the notification. It touches no dispatcher state and never
// panics.
func (c NotifyCall) Run(ctx context.Context, backend NotifyBackend) (res NotifyResult) {
	res = NotifyResult{Seq: c.Seq, Request: c.Request}
	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("notify panicked: %v", p)
		}
	}()
	res.Err = backend.Notify(ctx, c.Request)
	return res
}

// Classes returns the recipient classes known to the domain.
func (n *NotificationDispatcher) Classes() []string {
	return append([]string(nil), n.classes...)
}

// Send validates a message and enters Executing. Subject and body must be
// non-blank and target must resolve to at least one id or a known class.
func (n *NotificationDispatcher) Send(target Target, filter Filter, subject, body string) (NotifyCall, error) {
	if n.state == NotifyExecuting {
		return NotifyCall{}, errs.New(errs.CodeActionBusy, "a notification is already being sent")
	}
	subject = strings.TrimSpace(subject)
	body = strings.TrimSpace(body)
	if subject == "" {
		return NotifyCall{}, errs.New(errs.CodeActionInvalid, "subject is required")
	}
	if body == "" {
		return NotifyCall{}, errs.New(errs.CodeActionInvalid, "body is required")
	}
	if err := n.checkTarget(target); err != nil {
		return NotifyCall{}, err
	}

	n.seq++
	n.state = NotifyExecuting
	n.lastErr = nil
	n.current = NotifyRequest{Target: target, Filter: filter, Subject: subject, Body: body}
	return NotifyCall{Seq: n.seq, Request: n.current}, nil
}

func (n *NotificationDispatcher) checkTarget(target Target) error {
	switch t := target.(type) {
	case Recipients:
		if len(t.IDs) == 0 {
			return errs.New(errs.CodeActionInvalid, "select at least one recipient")
		}
	case RecipientClass:
		for _, c := range n.classes {
			if c == t.Name {
				return nil
			}
		}
		return errs.New(errs.CodeActionInvalid,
			fmt.Sprintf("unknown recipient class %q (known: %s)", t.Name, strings.Join(n.classes, ", ")))
	default:
		return errs.New(errs.CodeActionInvalid, "choose recipients")
	}
	return nil
}

// Complete records the outcome of the running send and reports whether
// res belonged to it.
func (n *NotificationDispatcher) Complete(res NotifyResult) bool {
	if n.state != NotifyExecuting || res.Seq != n.seq {
		return false
	}
	if res.Err != nil {
		n.state = NotifyFailed
		n.lastErr = errs.Wrap(res.Err, errs.CodeNotifyFailure, "sending notification",
			errs.Field("target", res.Request.Target.Describe()))
		return true
	}
	n.state = NotifySucceeded
	return true
}

func (n *NotificationDispatcher) State() NotifyState { return n.state }

func (n *NotificationDispatcher) Busy() bool { return n.state == NotifyExecuting }

func (n *NotificationDispatcher) Err() error { return n.lastErr }

// Last is the most recently sent request.
func (n *NotificationDispatcher) Last() NotifyRequest { return n.current }
