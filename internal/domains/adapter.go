// Package domains maps the generic engine onto the four administered
// entity kinds: filter schema, bulk actions, status transitions,
// notification audiences and list columns.
package domains

import (
	"fmt"
	"strings"

	"fedadmin/internal/engine"
)

// SearchField is the free-text filter shared by every domain.
const SearchField = "searchTerm"

// Column renders one list column.
type Column[T engine.Entity] struct {
	Title string
	Width int
	Cell  func(T) string
}

// Adapter describes one domain to the engine and the console.
type Adapter[T engine.Entity] struct {
	Name             string
	Title            string
	Resource         string
	Fields           []string
	Actions          []engine.ActionSpec
	Statuses         []engine.StatusSpec
	RecipientClasses []string
	Columns          []Column[T]
	StatsKeys        []string
	// Describe renders the full record for the detail pager.
	Describe func(T) string
}

// Options builds the engine options of a view over this domain.
func (a Adapter[T]) Options(pageSize int, pub engine.Publisher, clock engine.Clock) engine.Options {
	return engine.Options{
		Domain:           a.Name,
		Fields:           a.Fields,
		PageSize:         pageSize,
		Actions:          a.Actions,
		Statuses:         a.Statuses,
		RecipientClasses: a.RecipientClasses,
		Publisher:        pub,
		Clock:            clock,
	}
}

// ActionByKey finds the bulk action bound to key.
func (a Adapter[T]) ActionByKey(key string) (engine.ActionSpec, bool) {
	for _, action := range a.Actions {
		if action.Key == key {
			return action, true
		}
	}
	return engine.ActionSpec{}, false
}

// Row renders every column of item.
func (a Adapter[T]) Row(item T) []string {
	cells := make([]string, len(a.Columns))
	for i, col := range a.Columns {
		cells[i] = col.Cell(item)
	}
	return cells
}

// Validate checks the adapter is internally consistent.
func (a Adapter[T]) Validate() error {
	var problems []string
	if a.Name == "" || a.Resource == "" {
		problems = append(problems, "name and resource are required")
	}
	if len(a.Fields) == 0 || a.Fields[0] != SearchField {
		problems = append(problems, "first filter field must be "+SearchField)
	}
	keys := map[string]string{}
	for _, action := range a.Actions {
		if prev, dup := keys[action.Key]; dup {
			problems = append(problems, fmt.Sprintf("actions %s and %s share key %q", prev, action.ID, action.Key))
		}
		keys[action.Key] = action.ID
	}
	if len(a.RecipientClasses) == 0 {
		problems = append(problems, "at least one recipient class is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("domain %s: %s", a.Name, strings.Join(problems, "; "))
	}
	return nil
}

func plain(id, label, key string) engine.ActionSpec {
	return engine.ActionSpec{ID: id, Label: label, Key: key, Payload: engine.PayloadPlain}
}

func reasoned(id, label, key string) engine.ActionSpec {
	return engine.ActionSpec{ID: id, Label: label, Key: key, Payload: engine.PayloadReasoned}
}

func suspension(id, label, key string) engine.ActionSpec {
	return engine.ActionSpec{ID: id, Label: label, Key: key, Payload: engine.PayloadSuspension}
}

func status(s, label, key string, destructive bool) engine.StatusSpec {
	return engine.StatusSpec{Status: s, Label: label, Key: key, Destructive: destructive}
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 1 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

func kv(lines ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(lines); i += 2 {
		fmt.Fprintf(&b, "%-14s %s\n", lines[i]+":", lines[i+1])
	}
	return b.String()
}
