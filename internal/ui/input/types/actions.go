package types

import "fedadmin/internal/engine"

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// PageAction moves through the remote result pages
type PageAction struct {
	Direction string // "next", "prev"
}

func (a PageAction) Type() string { return "page" }

// SwitchTabAction changes the active domain. Index wins when >= 0.
type SwitchTabAction struct {
	Delta int
	Index int
}

func (a SwitchTabAction) Type() string { return "switch_tab" }

// Selection actions
type SelectAction struct{}

func (a SelectAction) Type() string { return "select" }

type SelectAllAction struct{}

func (a SelectAllAction) Type() string { return "select_all" }

type DeselectAllAction struct{}

func (a DeselectAllAction) Type() string { return "deselect_all" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data string // initial text for text modes
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct {
	Mode Mode
}

func (a CancelTextAction) Type() string { return "cancel_text" }

// Collection actions
type RefreshAction struct{}

func (a RefreshAction) Type() string { return "refresh" }

type ClearFilterAction struct{}

func (a ClearFilterAction) Type() string { return "clear_filter" }

type ShowDetailAction struct{}

func (a ShowDetailAction) Type() string { return "show_detail" }

// Bulk actions
type ChooseActionAction struct {
	ActionID string
}

func (a ChooseActionAction) Type() string { return "choose_action" }

type ConfirmBulkAction struct{}

func (a ConfirmBulkAction) Type() string { return "confirm_bulk" }

type CancelBulkAction struct{}

func (a CancelBulkAction) Type() string { return "cancel_bulk" }

// StatusAction changes the status of the entity under the cursor
type StatusAction struct {
	Status string
}

func (a StatusAction) Type() string { return "status" }

type ExportAction struct {
	Format engine.Format
}

func (a ExportAction) Type() string { return "export" }

// NotifyTargetAction picks who a notification goes to: the selection or a
// recipient class.
type NotifyTargetAction struct {
	Selection bool
	Class     string
}

func (a NotifyTargetAction) Type() string { return "notify_target" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

// DismissAction clears the status line and the last error
type DismissAction struct{}

func (a DismissAction) Type() string { return "dismiss" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
