package domain

import "time"

// User is a platform account: player, coach or federation staff
type User struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Federation string    `json:"federation"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (u User) EntityID() int64 { return u.ID }
func (u User) EntityStatus() string { return u.Status }
func (u User) EntityTitle() string { return u.Name }

// Court is a venue listed by an owner
type Court struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	City      string `json:"city"`
	Surface   string `json:"surface"`
	OwnerID   int64  `json:"ownerId"`
	OwnerName string `json:"ownerName"`
	Featured  bool   `json:"featured"`
	Status    string `json:"status"`
}

func (c Court) EntityID() int64 { return c.ID }
func (c Court) EntityStatus() string { return c.Status }
func (c Court) EntityTitle() string { return c.Name }

// Tournament is a competition awaiting or past federation approval
type Tournament struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	City         string    `json:"city"`
	Organizer    string    `json:"organizer"`
	StartsAt     time.Time `json:"startsAt"`
	Participants int       `json:"participants"`
	Status       string    `json:"status"`
}

func (t Tournament) EntityID() int64 { return t.ID }
func (t Tournament) EntityStatus() string { return t.Status }
func (t Tournament) EntityTitle() string { return t.Name }

// Microsite is a club or event mini website hosted by the platform
type Microsite struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Template    string `json:"template"`
	OwnerName   string `json:"ownerName"`
	Subscribers int    `json:"subscribers"`
	Status      string `json:"status"`
}

func (m Microsite) EntityID() int64 { return m.ID }
func (m Microsite) EntityStatus() string { return m.Status }
func (m Microsite) EntityTitle() string { return m.Title }
