package modes

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"fedadmin/internal/engine"
	"fedadmin/internal/ui/input/types"
)

// MenuOption is one entry of a single-key menu.
type MenuOption struct {
	Key    string
	Label  string
	Action types.Action
	// Next is the mode entered after picking; normal mode when zero.
	Next types.Mode
}

// MenuMode offers options picked with a single key. esc and q leave the
// menu, any other key is swallowed.
type MenuMode struct {
	name    string
	title   string
	options func(ctx types.Context) []MenuOption
}

func (m *MenuMode) Name() string {
	return m.name
}

func (m *MenuMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *MenuMode) Exit(ctx types.Context) []types.Action {
	return nil
}

// Prompt lists the options as "title: [k] label  [k] label".
func (m *MenuMode) Prompt(ctx types.Context) string {
	opts := m.options(ctx)
	parts := make([]string, 0, len(opts))
	for _, o := range opts {
		parts = append(parts, fmt.Sprintf("[%s] %s", o.Key, o.Label))
	}
	if len(parts) == 0 {
		return m.title + ": nothing available (esc)"
	}
	return m.title + ": " + strings.Join(parts, "  ") + "  (esc)"
}

// Options returns the current options of the menu.
func (m *MenuMode) Options(ctx types.Context) []MenuOption {
	return m.options(ctx)
}

func (m *MenuMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "esc", "q":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true
	}

	for _, o := range m.options(ctx) {
		if o.Key == msg.String() {
			return []types.Action{o.Action, types.ChangeModeAction{Mode: o.Next}}, true
		}
	}
	return nil, true
}

// NewActionMenuMode lists the bulk actions of the domain.
func NewActionMenuMode() *MenuMode {
	return &MenuMode{
		name:  "actions",
		title: "Bulk action",
		options: func(ctx types.Context) []MenuOption {
			actions := ctx.Actions()
			opts := make([]MenuOption, 0, len(actions))
			for _, a := range actions {
				opts = append(opts, MenuOption{Key: a.Key, Label: a.Label, Action: types.ChooseActionAction{ActionID: a.ID}})
			}
			return opts
		},
	}
}

// NewStatusMenuMode lists the status transitions of the domain.
func NewStatusMenuMode() *MenuMode {
	return &MenuMode{
		name:  "status",
		title: "Set status",
		options: func(ctx types.Context) []MenuOption {
			statuses := ctx.Statuses()
			opts := make([]MenuOption, 0, len(statuses))
			for _, s := range statuses {
				label := s.Label
				if s.Destructive {
					label += "…"
				}
				opts = append(opts, MenuOption{Key: s.Key, Label: label, Action: types.StatusAction{Status: s.Status}})
			}
			return opts
		},
	}
}

// NewExportMode lists the export formats.
func NewExportMode() *MenuMode {
	return &MenuMode{
		name:  "export",
		title: "Export",
		options: func(ctx types.Context) []MenuOption {
			return []MenuOption{
				{Key: "c", Label: "CSV", Action: types.ExportAction{Format: engine.FormatCSV}},
				{Key: "x", Label: "Excel", Action: types.ExportAction{Format: engine.FormatExcel}},
				{Key: "p", Label: "PDF", Action: types.ExportAction{Format: engine.FormatPDF}},
			}
		},
	}
}

// NewNotifyTargetMode offers the selection and the recipient classes of
// the domain, numbered from 1.
func NewNotifyTargetMode() *MenuMode {
	return &MenuMode{
		name:  "notify",
		title: "Notify",
		options: func(ctx types.Context) []MenuOption {
			opts := []MenuOption{{
				Key:    "s",
				Label:  fmt.Sprintf("selection (%d)", ctx.SelectedCount()),
				Action: types.NotifyTargetAction{Selection: true},
				Next:   types.ModeNotifySubject,
			}}
			for i, class := range ctx.RecipientClasses() {
				if i >= 9 {
					break
				}
				opts = append(opts, MenuOption{
					Key:    strconv.Itoa(i + 1),
					Label:  class,
					Action: types.NotifyTargetAction{Class: class},
					Next:   types.ModeNotifySubject,
				})
			}
			return opts
		},
	}
}
