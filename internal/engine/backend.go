// Package engine holds the list-and-act state machines shared by every
// admin domain view: filter, paged collection, selection, bulk actions,
// notifications and exports.
//
// The engine is driven from a single owner goroutine. Operations that talk
// to the backend are split into a Begin step (owner goroutine, mutates
// state and returns a request value), a Run step (any goroutine, touches no
// engine state) and an Apply step (owner goroutine, folds the result back).
package engine

import (
	"context"
	"time"

	"fedadmin/internal/domain"
)

// Entity is a row of an administered collection.
type Entity interface {
	EntityID() int64
	EntityStatus() string
}

// Stats are the aggregate figures returned next to a page of items.
type Stats map[string]float64

// Page is one page of a filtered collection.
type Page[T Entity] struct {
	Items    []T   `json:"items"`
	Stats    Stats `json:"stats"`
	Total    int   `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

// ListQuery asks the backend for one page of the collection matching Filter.
type ListQuery struct {
	Filter   Filter
	Page     int
	PageSize int
}

// Transition moves a single entity to another status.
type Transition struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// ExportQuery asks the backend to render the filtered collection.
type ExportQuery struct {
	Filter Filter
	Format Format
}

// ExportFile is a rendered export as returned by the backend.
type ExportFile struct {
	ContentType string
	Data        []byte
}

// Lister fetches pages of a collection.
type Lister[T Entity] interface {
	List(ctx context.Context, q ListQuery) (Page[T], error)
}

// BulkBackend applies one bulk action to a set of ids.
type BulkBackend interface {
	Bulk(ctx context.Context, req BulkMutationRequest) error
}

// NotifyBackend sends notifications.
type NotifyBackend interface {
	Notify(ctx context.Context, req NotifyRequest) error
}

// ExportBackend renders exports.
type ExportBackend interface {
	Export(ctx context.Context, q ExportQuery) (ExportFile, error)
}

// Backend is the full remote collaborator of a domain view.
type Backend[T Entity] interface {
	Lister[T]
	BulkBackend
	NotifyBackend
	ExportBackend
	Detail(ctx context.Context, id int64) (T, error)
	UpdateStatus(ctx context.Context, id int64, t Transition) (T, error)
}

// Saver stores export bytes somewhere the administrator can retrieve them
// and returns where they ended up.
type Saver interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// Publisher receives engine outcomes. The event bus implements it.
type Publisher interface {
	Publish(event domain.DomainEvent)
}

// Clock returns the current time.
type Clock func() time.Time
