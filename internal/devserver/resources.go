package devserver

import (
	"fmt"
	"strconv"
	"time"

	"fedadmin/internal/domain"
	"fedadmin/internal/domains"
	"fedadmin/internal/engine"
)

// effects maps a bulk action id to what it does to an entity.
type effects[T engine.Entity] map[string]func(T, BulkPayload) (T, bool)

// bind pairs the actions and statuses a console adapter declares with the
// server-side effects. An action without an effect is a wiring bug.
func bind[T engine.Entity](res *Resource[T], adapter domains.Adapter[T], fx effects[T]) *Resource[T] {
	res.Actions = make(map[string]Action[T], len(adapter.Actions))
	for _, a := range adapter.Actions {
		apply, ok := fx[a.ID]
		if !ok {
			panic(fmt.Sprintf("devserver: %s action %q has no effect", adapter.Name, a.ID))
		}
		res.Actions[a.ID] = Action[T]{Payload: a.Payload, Apply: apply}
	}
	res.Statuses = make(map[string]StatusRule, len(adapter.Statuses))
	for _, s := range adapter.Statuses {
		res.Statuses[s.Status] = StatusRule{NeedsReason: s.Destructive}
	}
	res.Name = adapter.Resource
	res.Title = adapter.Title
	return res
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func usersResource(items []domain.User) *Resource[domain.User] {
	store := NewStore[domain.User]()
	for _, u := range items {
		store.Put(u)
	}
	set := func(status string) func(domain.User, BulkPayload) (domain.User, bool) {
		return func(u domain.User, _ BulkPayload) (domain.User, bool) {
			u.Status = status
			return u, true
		}
	}
	res := &Resource[domain.User]{
		Store: store,
		Fields: map[string]func(domain.User) string{
			"status":     func(u domain.User) string { return u.Status },
			"role":       func(u domain.User) string { return u.Role },
			"federation": func(u domain.User) string { return u.Federation },
		},
		Text: func(u domain.User) string { return u.Name + " " + u.Email },
		SetStatus: func(u domain.User, status string) domain.User {
			u.Status = status
			return u
		},
		Classes: map[string]func(domain.User) int{
			"all":     func(domain.User) int { return 1 },
			"admins":  func(u domain.User) int { return boolInt(u.Role == "admin") },
			"players": func(u domain.User) int { return boolInt(u.Role == "player") },
		},
		Columns: []string{"ID", "Name", "Email", "Role", "Federation", "Status", "Created"},
		Row: func(u domain.User) []string {
			return []string{itoa(u.ID), u.Name, u.Email, u.Role, u.Federation, u.Status, u.CreatedAt.Format(time.DateOnly)}
		},
	}
	return bind(res, domains.Users(), effects[domain.User]{
		"approve":  set("active"),
		"reject":   set("rejected"),
		"suspend":  set("suspended"),
		"activate": set("active"),
		"delete":   func(u domain.User, _ BulkPayload) (domain.User, bool) { return u, false },
	})
}

func courtsResource(items []domain.Court) *Resource[domain.Court] {
	store := NewStore[domain.Court]()
	for _, c := range items {
		store.Put(c)
	}
	set := func(status string) func(domain.Court, BulkPayload) (domain.Court, bool) {
		return func(c domain.Court, _ BulkPayload) (domain.Court, bool) {
			c.Status = status
			return c, true
		}
	}
	res := &Resource[domain.Court]{
		Store: store,
		Fields: map[string]func(domain.Court) string{
			"status":  func(c domain.Court) string { return c.Status },
			"city":    func(c domain.Court) string { return c.City },
			"surface": func(c domain.Court) string { return c.Surface },
		},
		Text: func(c domain.Court) string { return c.Name + " " + c.OwnerName },
		SetStatus: func(c domain.Court, status string) domain.Court {
			c.Status = status
			return c
		},
		Classes: map[string]func(domain.Court) int{
			"owner":           func(domain.Court) int { return 1 },
			"recent visitors": func(c domain.Court) int { return int(c.ID%7) + 3 },
		},
		Extra: func(items []domain.Court, stats engine.Stats) {
			for _, c := range items {
				stats["featured"] += float64(boolInt(c.Featured))
			}
		},
		Columns: []string{"ID", "Name", "City", "Surface", "Owner", "Featured", "Status"},
		Row: func(c domain.Court) []string {
			return []string{itoa(c.ID), c.Name, c.City, c.Surface, c.OwnerName, strconv.FormatBool(c.Featured), c.Status}
		},
	}
	return bind(res, domains.Courts(), effects[domain.Court]{
		"approve":    set("active"),
		"reject":     set("rejected"),
		"deactivate": set("inactive"),
		"activate":   set("active"),
		"feature": func(c domain.Court, _ BulkPayload) (domain.Court, bool) {
			c.Featured = true
			return c, true
		},
	})
}

func tournamentsResource(items []domain.Tournament) *Resource[domain.Tournament] {
	store := NewStore[domain.Tournament]()
	for _, t := range items {
		store.Put(t)
	}
	set := func(status string) func(domain.Tournament, BulkPayload) (domain.Tournament, bool) {
		return func(t domain.Tournament, _ BulkPayload) (domain.Tournament, bool) {
			t.Status = status
			return t, true
		}
	}
	res := &Resource[domain.Tournament]{
		Store: store,
		Fields: map[string]func(domain.Tournament) string{
			"status":   func(t domain.Tournament) string { return t.Status },
			"category": func(t domain.Tournament) string { return t.Category },
			"city":     func(t domain.Tournament) string { return t.City },
		},
		Text: func(t domain.Tournament) string { return t.Name + " " + t.Organizer },
		SetStatus: func(t domain.Tournament, status string) domain.Tournament {
			t.Status = status
			return t
		},
		Classes: map[string]func(domain.Tournament) int{
			"organizer":              func(domain.Tournament) int { return 1 },
			"confirmed participants": func(t domain.Tournament) int { return t.Participants },
			"waitlist":               func(t domain.Tournament) int { return t.Participants / 8 },
		},
		Extra: func(items []domain.Tournament, stats engine.Stats) {
			for _, t := range items {
				stats["participants"] += float64(t.Participants)
			}
		},
		Columns: []string{"ID", "Name", "Category", "City", "Organizer", "Starts", "Participants", "Status"},
		Row: func(t domain.Tournament) []string {
			return []string{itoa(t.ID), t.Name, t.Category, t.City, t.Organizer,
				t.StartsAt.Format(time.DateOnly), strconv.Itoa(t.Participants), t.Status}
		},
	}
	return bind(res, domains.Tournaments(), effects[domain.Tournament]{
		"approve": set("approved"),
		"reject":  set("rejected"),
		"cancel":  set("cancelled"),
		"publish": set("published"),
	})
}

func micrositesResource(items []domain.Microsite) *Resource[domain.Microsite] {
	store := NewStore[domain.Microsite]()
	for _, m := range items {
		store.Put(m)
	}
	set := func(status string) func(domain.Microsite, BulkPayload) (domain.Microsite, bool) {
		return func(m domain.Microsite, _ BulkPayload) (domain.Microsite, bool) {
			m.Status = status
			return m, true
		}
	}
	res := &Resource[domain.Microsite]{
		Store: store,
		Fields: map[string]func(domain.Microsite) string{
			"status":   func(m domain.Microsite) string { return m.Status },
			"template": func(m domain.Microsite) string { return m.Template },
		},
		Text: func(m domain.Microsite) string { return m.Title + " " + m.Slug + " " + m.OwnerName },
		SetStatus: func(m domain.Microsite, status string) domain.Microsite {
			m.Status = status
			return m
		},
		Classes: map[string]func(domain.Microsite) int{
			"owner":       func(domain.Microsite) int { return 1 },
			"subscribers": func(m domain.Microsite) int { return m.Subscribers },
		},
		Extra: func(items []domain.Microsite, stats engine.Stats) {
			for _, m := range items {
				stats["subscribers"] += float64(m.Subscribers)
			}
		},
		Columns: []string{"ID", "Title", "Slug", "Template", "Owner", "Subscribers", "Status"},
		Row: func(m domain.Microsite) []string {
			return []string{itoa(m.ID), m.Title, m.Slug, m.Template, m.OwnerName, strconv.Itoa(m.Subscribers), m.Status}
		},
	}
	return bind(res, domains.Microsites(), effects[domain.Microsite]{
		"publish":   set("published"),
		"unpublish": set("draft"),
		"suspend":   set("suspended"),
		"delete":    func(m domain.Microsite, _ BulkPayload) (domain.Microsite, bool) { return m, false },
	})
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
