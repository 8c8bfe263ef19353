package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventFetchCompleted     EventType = "FetchCompleted"
	EventFetchFailed        EventType = "FetchFailed"
	EventFetchDiscarded     EventType = "FetchDiscarded"
	EventMutationSucceeded  EventType = "MutationSucceeded"
	EventMutationFailed     EventType = "MutationFailed"
	EventStatusChanged      EventType = "StatusChanged"
	EventNotificationSent   EventType = "NotificationSent"
	EventNotificationFailed EventType = "NotificationFailed"
	EventExportSaved        EventType = "ExportSaved"
	EventExportFailed       EventType = "ExportFailed"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// FetchCompletedEvent is emitted when a page of a collection was applied
type FetchCompletedEvent struct {
	Domain string
	Filter string
	Page   int
	Count  int
	Total  int
}

func (e FetchCompletedEvent) Type() EventType { return EventFetchCompleted }

// FetchFailedEvent is emitted when the latest fetch of a collection failed
type FetchFailedEvent struct {
	Domain string
	Err    error
}

func (e FetchFailedEvent) Type() EventType { return EventFetchFailed }

// FetchDiscardedEvent is emitted when a superseded fetch result was dropped
type FetchDiscardedEvent struct {
	Domain string
	Seq    uint64
}

func (e FetchDiscardedEvent) Type() EventType { return EventFetchDiscarded }

// MutationSucceededEvent is emitted after a confirmed bulk action was accepted
type MutationSucceededEvent struct {
	Domain string
	Action string
	IDs    []int64
}

func (e MutationSucceededEvent) Type() EventType { return EventMutationSucceeded }

// MutationFailedEvent is emitted when a bulk action or status change was refused
type MutationFailedEvent struct {
	Domain string
	Action string
	IDs    []int64
	Err    error
}

func (e MutationFailedEvent) Type() EventType { return EventMutationFailed }

// StatusChangedEvent is emitted when a single entity changed status
type StatusChangedEvent struct {
	Domain string
	ID     int64
	Status string
	Reason string
}

func (e StatusChangedEvent) Type() EventType { return EventStatusChanged }

// NotificationSentEvent is emitted after the backend accepted a notification
type NotificationSentEvent struct {
	Domain  string
	Target  string
	Subject string
}

func (e NotificationSentEvent) Type() EventType { return EventNotificationSent }

// NotificationFailedEvent is emitted when a notification was refused
type NotificationFailedEvent struct {
	Domain string
	Target string
	Err    error
}

func (e NotificationFailedEvent) Type() EventType { return EventNotificationFailed }

// ExportSavedEvent is emitted once export bytes reached the download sink
type ExportSavedEvent struct {
	Domain   string
	Format   string
	Location string
	Size     int
}

func (e ExportSavedEvent) Type() EventType { return EventExportSaved }

// ExportFailedEvent is emitted when an export could not be produced or saved
type ExportFailedEvent struct {
	Domain string
	Format string
	Err    error
}

func (e ExportFailedEvent) Type() EventType { return EventExportFailed }
