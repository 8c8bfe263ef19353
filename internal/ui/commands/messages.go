package commands

import "fedadmin/internal/engine"

// FetchedMsg carries a list fetch result back to the update loop
type FetchedMsg[T engine.Entity] struct {
	Domain string
	Result engine.FetchResult[T]
}

// MutatedMsg carries a bulk action result
type MutatedMsg struct {
	Domain string
	Result engine.MutationResult
}

// StatusChangedMsg carries a single status change result
type StatusChangedMsg[T engine.Entity] struct {
	Domain string
	Result engine.StatusResult[T]
}

// NotifiedMsg carries a notification result
type NotifiedMsg struct {
	Domain string
	Result engine.NotifyResult
}

// ExportedMsg carries an export result
type ExportedMsg struct {
	Domain string
	Result engine.ExportResult
}

// DetailMsg carries a loaded entity for the detail pager
type DetailMsg[T engine.Entity] struct {
	Domain string
	Result engine.DetailResult[T]
}
