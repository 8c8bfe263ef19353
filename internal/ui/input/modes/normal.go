package modes

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"fedadmin/internal/ui/input/types"
)

type NormalMode struct {
	lastKeyWasG bool
	lastGTime   time.Time
}

func NewNormalMode() *NormalMode {
	return &NormalMode{}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyUp:
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case tea.KeyDown:
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case tea.KeyLeft:
		return []types.Action{types.PageAction{Direction: "prev"}}, true

	case tea.KeyRight:
		return []types.Action{types.PageAction{Direction: "next"}}, true

	case tea.KeyPgUp:
		return []types.Action{types.NavigateAction{Direction: "pageup"}}, true

	case tea.KeyPgDown:
		return []types.Action{types.NavigateAction{Direction: "pagedown"}}, true

	case tea.KeyHome:
		return []types.Action{types.NavigateAction{Direction: "home"}}, true

	case tea.KeyEnd:
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case tea.KeyTab:
		return []types.Action{types.SwitchTabAction{Delta: 1, Index: -1}}, true

	case tea.KeyShiftTab:
		return []types.Action{types.SwitchTabAction{Delta: -1, Index: -1}}, true

	case tea.KeyEnter:
		if ctx.HasCurrent() {
			return []types.Action{types.ShowDetailAction{}}, true
		}
		return nil, false
	}

	key := msg.String()
	if key != "g" {
		m.lastKeyWasG = false
	}

	switch key {
	case "j":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case "k":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case "h", "[":
		return []types.Action{types.PageAction{Direction: "prev"}}, true

	case "l", "]":
		return []types.Action{types.PageAction{Direction: "next"}}, true

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return []types.Action{types.SwitchTabAction{Index: int(key[0] - '1')}}, true

	case " ":
		if ctx.HasCurrent() {
			return []types.Action{types.SelectAction{}}, true
		}
		return nil, true

	case "a", "A":
		// Toggle select all on the page
		if ctx.HasSelection() {
			return []types.Action{types.DeselectAllAction{}}, true
		}
		return []types.Action{types.SelectAllAction{}}, true

	case "r":
		return []types.Action{types.RefreshAction{}}, true

	case "/", "f":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeFilter, Data: ctx.FilterInput()}}, true

	case "c":
		return []types.Action{types.ClearFilterAction{}}, true

	case ":":
		return []types.Action{types.ChangeModeAction{Mode: types.ModePage}}, true

	case "b":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeActionMenu}}, true

	case "s":
		if ctx.HasCurrent() {
			return []types.Action{types.ChangeModeAction{Mode: types.ModeStatusMenu}}, true
		}
		return nil, true

	case "e":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeExport}}, true

	case "n":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNotifyTarget}}, true

	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true

	case "esc":
		// Clear selection if any, otherwise clear the status line
		if ctx.HasSelection() {
			return []types.Action{types.DeselectAllAction{}}, true
		}
		return []types.Action{types.DismissAction{}}, true

	case "q":
		return []types.Action{types.QuitAction{Force: false}}, true

	case "g":
		if m.lastKeyWasG && time.Since(m.lastGTime) < 500*time.Millisecond {
			// gg - go to top (within timeout)
			m.lastKeyWasG = false
			return []types.Action{types.NavigateAction{Direction: "home"}}, true
		}
		m.lastKeyWasG = true
		m.lastGTime = time.Now()
		return nil, true

	case "G":
		return []types.Action{types.NavigateAction{Direction: "end"}}, true
	}

	return nil, false
}
