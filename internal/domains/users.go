package domains

import (
	"strconv"

	"fedadmin/internal/domain"
	"fedadmin/internal/engine"
)

// Users administers player, coach and staff accounts.
func Users() Adapter[domain.User] {
	return Adapter[domain.User]{
		Name:     "users",
		Title:    "Users",
		Resource: "users",
		Fields:   []string{SearchField, "status", "role", "federation"},
		Actions: []engine.ActionSpec{
			plain("approve", "Approve", "a"),
			reasoned("reject", "Reject", "r"),
			suspension("suspend", "Suspend", "s"),
			plain("activate", "Activate", "v"),
			reasoned("delete", "Delete", "d"),
		},
		Statuses: []engine.StatusSpec{
			status("active", "Activate", "a", false),
			status("pending", "Back to pending", "p", false),
			status("suspended", "Suspend", "s", true),
			status("rejected", "Reject", "r", true),
		},
		RecipientClasses: []string{"all", "admins", "players"},
		Columns: []Column[domain.User]{
			{Title: "ID", Width: 6, Cell: func(u domain.User) string { return strconv.FormatInt(u.ID, 10) }},
			{Title: "Name", Width: 22, Cell: func(u domain.User) string { return truncate(u.Name, 22) }},
			{Title: "Email", Width: 28, Cell: func(u domain.User) string { return truncate(u.Email, 28) }},
			{Title: "Role", Width: 10, Cell: func(u domain.User) string { return u.Role }},
			{Title: "Federation", Width: 14, Cell: func(u domain.User) string { return truncate(u.Federation, 14) }},
			{Title: "Status", Width: 10, Cell: func(u domain.User) string { return u.Status }},
		},
		StatsKeys: []string{"total", "pending", "active", "suspended"},
		Describe: func(u domain.User) string {
			return kv(
				"ID", strconv.FormatInt(u.ID, 10),
				"Name", u.Name,
				"Email", u.Email,
				"Role", u.Role,
				"Federation", u.Federation,
				"Status", u.Status,
				"Created", u.CreatedAt.Format("2006-01-02 15:04"),
			)
		},
	}
}
