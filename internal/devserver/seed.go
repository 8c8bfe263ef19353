package devserver

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"fedadmin/internal/domain"
)

var (
	seedEpoch = time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)

	firstNames  = []string{"Ana", "Bruno", "Carla", "Diego", "Elena", "Felipe", "Gabriela", "Hugo", "Irene", "Joao", "Karin", "Luis", "Marta", "Nico", "Olga", "Pablo"}
	lastNames   = []string{"Silva", "Moreno", "Costa", "Herrera", "Lopez", "Ruiz", "Santos", "Vidal", "Castro", "Navarro", "Ortega", "Pires"}
	federations = []string{"North", "South", "Coast", "Capital", "Highlands"}
	cities      = []string{"Lisbon", "Porto", "Madrid", "Valencia", "Seville", "Bilbao", "Braga", "Malaga"}
	surfaces    = []string{"clay", "hard", "grass", "synthetic"}
	categories  = []string{"junior", "open", "senior", "amateur"}
	templates   = []string{"club", "event", "academy", "league"}
	venueWords  = []string{"Riverside", "Central", "Harbour", "Hilltop", "Olive", "Sunset", "Pine", "Garden"}
	eventWords  = []string{"Spring", "Summer", "Autumn", "Winter", "City", "Coastal", "Masters", "Challenger"}
)

type seeder struct {
	rng *rand.Rand
}

func newSeeder(seed uint64) *seeder {
	return &seeder{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seeder) pick(options []string) string {
	return options[s.rng.IntN(len(options))]
}

// weighted picks options[i] with probability weights[i]/sum(weights).
func (s *seeder) weighted(options []string, weights []int) string {
	total := 0
	for _, w := range weights {
		total += w
	}
	n := s.rng.IntN(total)
	for i, w := range weights {
		if n < w {
			return options[i]
		}
		n -= w
	}
	return options[len(options)-1]
}

func (s *seeder) person() string {
	return s.pick(firstNames) + " " + s.pick(lastNames)
}

func (s *seeder) users(n int) []domain.User {
	out := make([]domain.User, n)
	for i := range out {
		id := int64(i + 1)
		name := s.person()
		out[i] = domain.User{
			ID:         id,
			Name:       name,
			Email:      fmt.Sprintf("%s.%d@example.org", strings.ToLower(strings.ReplaceAll(name, " ", ".")), id),
			Role:       s.weighted([]string{"player", "coach", "admin"}, []int{7, 2, 1}),
			Federation: s.pick(federations),
			Status:     s.weighted([]string{"pending", "active", "suspended", "rejected"}, []int{3, 5, 1, 1}),
			CreatedAt:  seedEpoch.Add(time.Duration(s.rng.IntN(24*365)) * time.Hour),
		}
	}
	return out
}

func (s *seeder) courts(n int) []domain.Court {
	out := make([]domain.Court, n)
	for i := range out {
		city := s.pick(cities)
		out[i] = domain.Court{
			ID:        int64(i + 1),
			Name:      fmt.Sprintf("%s %s Court %d", s.pick(venueWords), city, s.rng.IntN(9)+1),
			City:      city,
			Surface:   s.pick(surfaces),
			OwnerID:   int64(s.rng.IntN(200) + 1),
			OwnerName: s.person(),
			Featured:  s.rng.IntN(6) == 0,
			Status:    s.weighted([]string{"pending", "active", "inactive", "rejected"}, []int{3, 5, 1, 1}),
		}
	}
	return out
}

func (s *seeder) tournaments(n int) []domain.Tournament {
	out := make([]domain.Tournament, n)
	for i := range out {
		city := s.pick(cities)
		category := s.pick(categories)
		out[i] = domain.Tournament{
			ID:           int64(i + 1),
			Name:         fmt.Sprintf("%s %s %s", city, s.pick(eventWords), strings.ToUpper(category[:1])+category[1:]),
			Category:     category,
			City:         city,
			Organizer:    s.person(),
			StartsAt:     seedEpoch.AddDate(0, 0, 30+s.rng.IntN(300)),
			Participants: 8 * (s.rng.IntN(16) + 1),
			Status:       s.weighted([]string{"pending", "approved", "published", "cancelled", "rejected"}, []int{4, 2, 2, 1, 1}),
		}
	}
	return out
}

func (s *seeder) microsites(n int) []domain.Microsite {
	out := make([]domain.Microsite, n)
	for i := range out {
		template := s.pick(templates)
		title := fmt.Sprintf("%s %s %s", s.pick(venueWords), s.pick(cities), template)
		out[i] = domain.Microsite{
			ID:          int64(i + 1),
			Title:       title,
			Slug:        fmt.Sprintf("%s-%d", strings.ToLower(strings.ReplaceAll(title, " ", "-")), i+1),
			Template:    template,
			OwnerName:   s.person(),
			Subscribers: s.rng.IntN(5000),
			Status:      s.weighted([]string{"draft", "published", "suspended"}, []int{3, 6, 1}),
		}
	}
	return out
}
