package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"fedadmin/internal/ui/input/types"
)

// ConfirmMode asks for a yes/no before a bulk action without payload is sent.
type ConfirmMode struct{}

func NewConfirmMode() *ConfirmMode {
	return &ConfirmMode{}
}

func (m *ConfirmMode) Name() string {
	return "confirm"
}

func (m *ConfirmMode) Prompt(ctx types.Context) string {
	return "Apply to the selection? [y/n]"
}

func (m *ConfirmMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *ConfirmMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *ConfirmMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "y", "Y", "enter":
		return []types.Action{
			types.ConfirmBulkAction{},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	case "n", "N", "esc", "q":
		return []types.Action{
			types.CancelBulkAction{},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	}

	return nil, true
}
