package types

import (
	tea "github.com/charmbracelet/bubbletea"

	"fedadmin/internal/engine"
)

// Mode represents an input mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeFilter
	ModePage
	ModeActionMenu
	ModeConfirm
	ModeReason
	ModeSuspension
	ModeStatusMenu
	ModeStatusReason
	ModeExport
	ModeNotifyTarget
	ModeNotifySubject
	ModeNotifyBody
)

// IsText reports whether the mode edits the shared text input.
func (m Mode) IsText() bool {
	switch m {
	case ModeFilter, ModePage, ModeReason, ModeSuspension, ModeStatusReason, ModeNotifySubject, ModeNotifyBody:
		return true
	default:
		return false
	}
}

// Action represents a command the model should execute
type Action interface {
	Type() string
}

// Context provides read-only access to the active domain view for input
// handling
type Context interface {
	CurrentIndex() int
	TotalItems() int
	HasCurrent() bool
	HasSelection() bool
	SelectedCount() int
	FilterInput() string
	Actions() []engine.ActionSpec
	Statuses() []engine.StatusSpec
	RecipientClasses() []string
}

// ModeHandler handles input for a specific mode
type ModeHandler interface {
	// HandleKey processes a key message and returns actions and whether to consume the event
	HandleKey(msg tea.KeyMsg, ctx Context) ([]Action, bool)

	// Enter is called when entering this mode
	Enter(ctx Context) []Action

	// Exit is called when leaving this mode
	Exit(ctx Context) []Action

	// Name returns the mode name for display
	Name() string
}

// Prompter is implemented by modes that show a prompt line.
type Prompter interface {
	Prompt(ctx Context) string
}
