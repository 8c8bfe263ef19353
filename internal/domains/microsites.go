package domains

import (
	"strconv"

	"fedadmin/internal/domain"
	"fedadmin/internal/engine"
)

// Microsites administers hosted club and event sites.
func Microsites() Adapter[domain.Microsite] {
	return Adapter[domain.Microsite]{
		Name:     "microsites",
		Title:    "Microsites",
		Resource: "microsites",
		Fields:   []string{SearchField, "status", "template"},
		Actions: []engine.ActionSpec{
			plain("publish", "Publish", "p"),
			plain("unpublish", "Unpublish", "u"),
			suspension("suspend", "Suspend", "s"),
			reasoned("delete", "Delete", "d"),
		},
		Statuses: []engine.StatusSpec{
			status("published", "Publish", "p", false),
			status("draft", "Unpublish", "u", false),
			status("suspended", "Suspend", "s", true),
		},
		RecipientClasses: []string{"owner", "subscribers"},
		Columns: []Column[domain.Microsite]{
			{Title: "ID", Width: 6, Cell: func(m domain.Microsite) string { return strconv.FormatInt(m.ID, 10) }},
			{Title: "Title", Width: 24, Cell: func(m domain.Microsite) string { return truncate(m.Title, 24) }},
			{Title: "Slug", Width: 18, Cell: func(m domain.Microsite) string { return truncate(m.Slug, 18) }},
			{Title: "Template", Width: 10, Cell: func(m domain.Microsite) string { return m.Template }},
			{Title: "Owner", Width: 16, Cell: func(m domain.Microsite) string { return truncate(m.OwnerName, 16) }},
			{Title: "Subs", Width: 6, Cell: func(m domain.Microsite) string { return strconv.Itoa(m.Subscribers) }},
			{Title: "Status", Width: 10, Cell: func(m domain.Microsite) string { return m.Status }},
		},
		StatsKeys: []string{"total", "published", "draft", "subscribers"},
		Describe: func(m domain.Microsite) string {
			return kv(
				"ID", strconv.FormatInt(m.ID, 10),
				"Title", m.Title,
				"Slug", m.Slug,
				"Template", m.Template,
				"Owner", m.OwnerName,
				"Subscribers", strconv.Itoa(m.Subscribers),
				"Status", m.Status,
			)
		},
	}
}
