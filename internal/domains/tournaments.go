package domains

import (
	"strconv"

	"fedadmin/internal/domain"
	"fedadmin/internal/engine"
)

// Tournaments administers competitions submitted for federation approval.
func Tournaments() Adapter[domain.Tournament] {
	return Adapter[domain.Tournament]{
		Name:     "tournaments",
		Title:    "Tournaments",
		Resource: "tournaments",
		Fields:   []string{SearchField, "status", "category", "city"},
		Actions: []engine.ActionSpec{
			plain("approve", "Approve", "a"),
			reasoned("reject", "Reject", "r"),
			reasoned("cancel", "Cancel", "c"),
			plain("publish", "Publish", "p"),
		},
		Statuses: []engine.StatusSpec{
			status("approved", "Approve", "a", false),
			status("published", "Publish", "p", false),
			status("cancelled", "Cancel", "c", true),
			status("rejected", "Reject", "r", true),
		},
		RecipientClasses: []string{"organizer", "confirmed participants", "waitlist"},
		Columns: []Column[domain.Tournament]{
			{Title: "ID", Width: 6, Cell: func(t domain.Tournament) string { return strconv.FormatInt(t.ID, 10) }},
			{Title: "Name", Width: 26, Cell: func(t domain.Tournament) string { return truncate(t.Name, 26) }},
			{Title: "Category", Width: 12, Cell: func(t domain.Tournament) string { return t.Category }},
			{Title: "City", Width: 14, Cell: func(t domain.Tournament) string { return truncate(t.City, 14) }},
			{Title: "Starts", Width: 10, Cell: func(t domain.Tournament) string { return t.StartsAt.Format("2006-01-02") }},
			{Title: "Players", Width: 7, Cell: func(t domain.Tournament) string { return strconv.Itoa(t.Participants) }},
			{Title: "Status", Width: 10, Cell: func(t domain.Tournament) string { return t.Status }},
		},
		StatsKeys: []string{"total", "pending", "approved", "participants"},
		Describe: func(t domain.Tournament) string {
			return kv(
				"ID", strconv.FormatInt(t.ID, 10),
				"Name", t.Name,
				"Category", t.Category,
				"City", t.City,
				"Organizer", t.Organizer,
				"Starts", t.StartsAt.Format("2006-01-02 15:04"),
				"Participants", strconv.Itoa(t.Participants),
				"Status", t.Status,
			)
		},
	}
}
