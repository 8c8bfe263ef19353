package domains

import (
	"strconv"

	"fedadmin/internal/domain"
	"fedadmin/internal/engine"
)

// Courts administers venues listed by their owners.
func Courts() Adapter[domain.Court] {
	return Adapter[domain.Court]{
		Name:     "courts",
		Title:    "Courts",
		Resource: "courts",
		Fields:   []string{SearchField, "status", "city", "surface"},
		Actions: []engine.ActionSpec{
			plain("approve", "Approve", "a"),
			reasoned("reject", "Reject", "r"),
			reasoned("deactivate", "Deactivate", "d"),
			plain("activate", "Activate", "v"),
			plain("feature", "Feature", "f"),
		},
		Statuses: []engine.StatusSpec{
			status("active", "Activate", "a", false),
			status("pending", "Back to pending", "p", false),
			status("inactive", "Deactivate", "d", true),
			status("rejected", "Reject", "r", true),
		},
		RecipientClasses: []string{"owner", "recent visitors"},
		Columns: []Column[domain.Court]{
			{Title: "ID", Width: 6, Cell: func(c domain.Court) string { return strconv.FormatInt(c.ID, 10) }},
			{Title: "Name", Width: 24, Cell: func(c domain.Court) string { return truncate(c.Name, 24) }},
			{Title: "City", Width: 14, Cell: func(c domain.Court) string { return truncate(c.City, 14) }},
			{Title: "Surface", Width: 10, Cell: func(c domain.Court) string { return c.Surface }},
			{Title: "Owner", Width: 18, Cell: func(c domain.Court) string { return truncate(c.OwnerName, 18) }},
			{Title: "Status", Width: 10, Cell: func(c domain.Court) string {
				if c.Featured {
					return c.Status + " ★"
				}
				return c.Status
			}},
		},
		StatsKeys: []string{"total", "pending", "active", "featured"},
		Describe: func(c domain.Court) string {
			return kv(
				"ID", strconv.FormatInt(c.ID, 10),
				"Name", c.Name,
				"City", c.City,
				"Surface", c.Surface,
				"Owner", c.OwnerName+" (#"+strconv.FormatInt(c.OwnerID, 10)+")",
				"Featured", strconv.FormatBool(c.Featured),
				"Status", c.Status,
			)
		},
	}
}
