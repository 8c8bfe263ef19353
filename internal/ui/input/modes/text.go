package modes

import (
	"github.com/charmbracelet/bubbles/textinput"

	"fedadmin/internal/ui/input/types"
)

func NewFilterMode(ti *textinput.Model) TextInputMode {
	return NewTextInputMode(types.ModeFilter, "filter", "Filter (words or field=value): ", ti)
}

func NewPageMode(ti *textinput.Model) TextInputMode {
	return NewTextInputMode(types.ModePage, "page", "Go to page: ", ti)
}

func NewReasonMode(ti *textinput.Model) TextInputMode {
	return NewTextInputMode(types.ModeReason, "reason", "Reason: ", ti)
}

func NewSuspensionMode(ti *textinput.Model) TextInputMode {
	return NewTextInputMode(types.ModeSuspension, "suspension", "Suspend for <days> <reason>: ", ti)
}

func NewStatusReasonMode(ti *textinput.Model) TextInputMode {
	return NewTextInputMode(types.ModeStatusReason, "status-reason", "Reason for the status change: ", ti)
}

func NewNotifySubjectMode(ti *textinput.Model) TextInputMode {
	return NewTextInputMode(types.ModeNotifySubject, "notify-subject", "Subject: ", ti).Then(types.ModeNotifyBody)
}

func NewNotifyBodyMode(ti *textinput.Model) TextInputMode {
	return NewTextInputMode(types.ModeNotifyBody, "notify-body", "Message: ", ti)
}

