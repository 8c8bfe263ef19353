package devserver

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"fedadmin/internal/engine"
)

// Resource is one administered collection served under /api/v1/<Name>.
type Resource[T engine.Entity] struct {
	Name  string
	Store *Store[T]

	// Fields maps filterable query parameters to the entity value they
	// match exactly (case-insensitive). searchTerm is matched against Text.
	Fields map[string]func(T) string
	Text   func(T) string

	Actions   map[string]Action[T]
	Statuses  map[string]StatusRule
	SetStatus func(item T, status string) T
	// Classes counts the recipients an entity contributes to a class.
	Classes map[string]func(T) int
	// Extra adds domain-specific figures to the stats of a page.
	Extra func(items []T, stats engine.Stats)

	Columns []string
	Row     func(T) []string
	Title   string

	mu     sync.Mutex
	seen   map[string]BulkResponse
	outbox []Notification
}

// Action is the effect of a bulk action on one entity. Returning false
// deletes the entity.
type Action[T engine.Entity] struct {
	Payload engine.PayloadKind
	Apply   func(item T, p BulkPayload) (T, bool)
}

// StatusRule describes a status an entity can be moved to.
type StatusRule struct {
	NeedsReason bool
}

// Notification is a message accepted by the notify endpoint.
type Notification struct {
	Resource       string            `json:"resource"`
	IDs            []int64           `json:"ids,omitempty"`
	RecipientClass string            `json:"recipientClass,omitempty"`
	Filter         map[string]string `json:"filter,omitempty"`
	Subject        string            `json:"subject"`
	Body           string            `json:"body"`
	Recipients     int               `json:"recipients"`
}

// Outbox returns the notifications accepted so far.
func (r *Resource[T]) Outbox() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.outbox...)
}

// Match returns the items matching filter, ordered by id. Unknown fields
// and empty values do not constrain.
func (r *Resource[T]) Match(filter map[string]string) []T {
	var out []T
	for _, item := range r.Store.All() {
		if r.matches(item, filter) {
			out = append(out, item)
		}
	}
	return out
}

func (r *Resource[T]) matches(item T, filter map[string]string) bool {
	for field, want := range filter {
		want = strings.TrimSpace(want)
		if want == "" {
			continue
		}
		if field == "searchTerm" {
			if r.Text == nil || !strings.Contains(strings.ToLower(r.Text(item)), strings.ToLower(want)) {
				return false
			}
			continue
		}
		get, ok := r.Fields[field]
		if !ok {
			continue
		}
		if !strings.EqualFold(get(item), want) {
			return false
		}
	}
	return true
}

// Stats counts items per status plus the resource's own figures.
func (r *Resource[T]) Stats(items []T) engine.Stats {
	stats := engine.Stats{"total": float64(len(items))}
	for _, item := range items {
		stats[item.EntityStatus()]++
	}
	if r.Extra != nil {
		r.Extra(items, stats)
	}
	return stats
}

func (r *Resource[T]) classNames() []string {
	names := make([]string, 0, len(r.Classes))
	for name := range r.Classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Resource[T]) validatePayload(action string, p BulkPayload) (Action[T], error) {
	a, ok := r.Actions[action]
	if !ok {
		return Action[T]{}, fmt.Errorf("unknown action %q for %s", action, r.Name)
	}
	switch a.Payload {
	case engine.PayloadReasoned:
		if strings.TrimSpace(p.Reason) == "" {
			return a, fmt.Errorf("%s requires a reason", action)
		}
	case engine.PayloadSuspension:
		if strings.TrimSpace(p.Reason) == "" {
			return a, fmt.Errorf("%s requires a reason", action)
		}
		if p.Days < 1 {
			return a, fmt.Errorf("%s requires at least one day", action)
		}
	}
	return a, nil
}
