package engine

import (
	"fmt"
	"strconv"
	"strings"

	"fedadmin/internal/errs"
)

// PayloadKind names the payload variant an action requires.
type PayloadKind int

const (
	PayloadPlain PayloadKind = iota
	PayloadReasoned
	PayloadSuspension
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadPlain:
		return "plain"
	case PayloadReasoned:
		return "reasoned"
	case PayloadSuspension:
		return "suspension"
	default:
		return fmt.Sprintf("PayloadKind(%d)", int(k))
	}
}

// Payload is the data attached to a bulk action. It is one of Plain,
// Reasoned or Suspension, each checking its own required fields.
type Payload interface {
	Kind() PayloadKind
	Validate() error
}

// Plain carries no data.
type Plain struct{}

func (Plain) Kind() PayloadKind { return PayloadPlain }
func (Plain) Validate() error { return nil }

// Reasoned carries the justification a destructive action requires.
type Reasoned struct {
	Reason string `json:"reason"`
}

func (Reasoned) Kind() PayloadKind { return PayloadReasoned }

func (p Reasoned) Validate() error {
	if strings.TrimSpace(p.Reason) == "" {
		return errs.New(errs.CodeActionInvalid, "a reason is required")
	}
	return nil
}

// Suspension carries a reason and how many days the suspension lasts.
type Suspension struct {
	Reason string `json:"reason"`
	Days   int    `json:"days"`
}

func (Suspension) Kind() PayloadKind { return PayloadSuspension }

func (p Suspension) Validate() error {
	if strings.TrimSpace(p.Reason) == "" {
		return errs.New(errs.CodeActionInvalid, "a reason is required")
	}
	if p.Days < 1 {
		return errs.New(errs.CodeActionInvalid, "suspension must last at least one day")
	}
	return nil
}

// ActionSpec describes a bulk action offered by a domain.
type ActionSpec struct {
	ID      string
	Label   string
	Key     string
	Payload PayloadKind
}

// Destructive reports whether the action needs a justification.
func (a ActionSpec) Destructive() bool {
	return a.Payload != PayloadPlain
}

// BulkMutationRequest is one bulk action against a set of ids.
type BulkMutationRequest struct {
	ActionID       string
	TargetIDs      []int64
	Payload        Payload
	IdempotencyKey string
}

// Validate enforces the dispatch preconditions of action: at least one
// target and a payload of the declared kind carrying its required fields.
func (r BulkMutationRequest) Validate(action ActionSpec) error {
	if len(r.TargetIDs) == 0 {
		return errs.New(errs.CodeActionInvalid, "select at least one row", errs.FieldAction(action.ID))
	}
	payload := r.Payload
	if payload == nil {
		payload = Plain{}
	}
	if payload.Kind() != action.Payload {
		return errs.New(errs.CodeActionInvalid,
			fmt.Sprintf("%s expects a %s payload, got %s", action.ID, action.Payload, payload.Kind()),
			errs.FieldAction(action.ID))
	}
	return payload.Validate()
}

// ParseSuspension reads "<days> <reason>" as typed in the console, e.g.
// "7 repeated no-shows".
func ParseSuspension(input string) (Suspension, error) {
	input = strings.TrimSpace(input)
	head, rest, _ := strings.Cut(input, " ")
	days, err := strconv.Atoi(head)
	if err != nil {
		return Suspension{}, errs.New(errs.CodeActionInvalid, "expected \"<days> <reason>\", e.g. \"7 repeated no-shows\"")
	}
	s := Suspension{Days: days, Reason: strings.TrimSpace(rest)}
	return s, s.Validate()
}
