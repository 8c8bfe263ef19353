package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"fedadmin/internal/ui/input/modes"
	"fedadmin/internal/ui/input/types"
)

type Handler struct {
	currentMode types.Mode
	modes       map[types.Mode]types.ModeHandler
	textInput   *textinput.Model // Shared text input for text modes
}

func New() *Handler {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 500

	h := &Handler{
		currentMode: types.ModeNormal,
		textInput:   &ti,
		modes:       make(map[types.Mode]types.ModeHandler),
	}

	// Register all mode handlers
	h.modes[types.ModeNormal] = modes.NewNormalMode()
	h.modes[types.ModeFilter] = modes.NewFilterMode(h.textInput)
	h.modes[types.ModePage] = modes.NewPageMode(h.textInput)
	h.modes[types.ModeActionMenu] = modes.NewActionMenuMode()
	h.modes[types.ModeConfirm] = modes.NewConfirmMode()
	h.modes[types.ModeReason] = modes.NewReasonMode(h.textInput)
	h.modes[types.ModeSuspension] = modes.NewSuspensionMode(h.textInput)
	h.modes[types.ModeStatusMenu] = modes.NewStatusMenuMode()
	h.modes[types.ModeStatusReason] = modes.NewStatusReasonMode(h.textInput)
	h.modes[types.ModeExport] = modes.NewExportMode()
	h.modes[types.ModeNotifyTarget] = modes.NewNotifyTargetMode()
	h.modes[types.ModeNotifySubject] = modes.NewNotifySubjectMode(h.textInput)
	h.modes[types.ModeNotifyBody] = modes.NewNotifyBodyMode(h.textInput)

	return h
}

// HandleKey routes msg to the current mode. Mode changes are applied here;
// every other action is returned for the model to execute.
func (h *Handler) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, tea.Cmd) {
	handler := h.modes[h.currentMode]
	if handler == nil {
		return nil, nil
	}

	actions, consumed := handler.HandleKey(msg, ctx)

	// If not consumed and we're in text mode, we'll handle it below
	if !consumed && !h.currentMode.IsText() {
		return nil, nil
	}

	var cmd tea.Cmd
	var allActions []types.Action

	for _, action := range actions {
		changeMode, ok := action.(types.ChangeModeAction)
		if !ok {
			allActions = append(allActions, action)
			continue
		}
		allActions = append(allActions, h.switchTo(changeMode.Mode, changeMode.Data, ctx)...)
		if changeMode.Mode.IsText() {
			cmd = textinput.Blink
		}
	}

	// If we're in a text mode and didn't handle the key, pass it to text input
	if h.currentMode.IsText() && !consumed {
		var textCmd tea.Cmd
		*h.textInput, textCmd = h.textInput.Update(msg)
		cmd = textCmd
		allActions = append(allActions, types.UpdateTextAction{Text: h.textInput.Value()})
	}

	return allActions, cmd
}

func (h *Handler) switchTo(mode types.Mode, data string, ctx types.Context) []types.Action {
	var actions []types.Action
	if current := h.modes[h.currentMode]; current != nil {
		actions = append(actions, current.Exit(ctx)...)
	}

	h.currentMode = mode
	if mode.IsText() {
		h.textInput.Reset()
		h.textInput.SetValue(data)
		h.textInput.CursorEnd()
	}

	if next := h.modes[mode]; next != nil {
		actions = append(actions, next.Enter(ctx)...)
	}
	return actions
}

// ChangeMode switches mode on behalf of the model, e.g. to ask for a reason
// once an action has been chosen. data pre-fills text modes.
func (h *Handler) ChangeMode(mode types.Mode, data string, ctx types.Context) tea.Cmd {
	h.switchTo(mode, data, ctx)
	if mode.IsText() {
		return textinput.Blink
	}
	return nil
}

func (h *Handler) CurrentMode() types.Mode {
	if h == nil {
		return types.ModeNormal
	}
	return h.currentMode
}

// ModeName returns the display name of the current mode.
func (h *Handler) ModeName() string {
	if m := h.modes[h.currentMode]; m != nil {
		return m.Name()
	}
	return ""
}

// Prompt returns the prompt line of the current mode, if it has one.
func (h *Handler) Prompt(ctx types.Context) string {
	if p, ok := h.modes[h.currentMode].(types.Prompter); ok {
		return p.Prompt(ctx)
	}
	return ""
}

// TextInput returns the shared text input while a text mode is active.
func (h *Handler) TextInput() *textinput.Model {
	if h.currentMode.IsText() {
		return h.textInput
	}
	return nil
}

func (h *Handler) RegisterMode(mode types.Mode, handler types.ModeHandler) {
	h.modes[mode] = handler
}

func (h *Handler) Reset() {
	h.currentMode = types.ModeNormal
	h.textInput.Reset()
	h.textInput.Blur()
}

// Update handles non-keyboard messages for text input
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	if h.currentMode.IsText() {
		var cmd tea.Cmd
		*h.textInput, cmd = h.textInput.Update(msg)
		return cmd
	}
	return nil
}
