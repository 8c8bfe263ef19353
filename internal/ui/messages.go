package ui

// Results of backend calls are defined in the commands package; the
// messages below belong to the model itself.

// pagerClosedMsg is sent when the external pager returns
type pagerClosedMsg struct {
	err error
}
