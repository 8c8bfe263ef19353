package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Tab is one domain in the tab bar
type Tab struct {
	Title  string
	Active bool
	Busy   bool
}

// Column is a list column header
type Column struct {
	Title string
	Width int
}

// Row is one rendered entity
type Row struct {
	Cells    []string
	Status   string
	Selected bool
}

// Stat is one aggregate figure shown above the list
type Stat struct {
	Key   string
	Value float64
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int

	Tabs     []Tab
	Filter   string
	Stats    []Stat
	Columns  []Column
	Rows     []Row
	Cursor   int
	Noun     string
	Spinner  string
	Loading  bool
	Loaded   bool
	LoadErr  string
	Activity []string

	Page          int
	TotalPages    int
	Total         int
	SelectedCount int

	Prompt    string
	TextInput string
	Notice    string
	NoticeErr bool
	HelpLine  string

	ShowInfo    bool
	InfoContent string
}

// chrome is the number of lines around the list: title, tabs, filter,
// stats, header, footer, prompt, notice, help and container padding.
const chrome = 12

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		popupRender: NewPopupRenderer(styles),
	}
}

// Styles exposes the styles used by the renderer
func (r *Renderer) Styles() *Styles { return r.styles }

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	if state.ShowInfo && state.InfoContent != "" {
		return r.popupRender.RenderPopup(state.InfoContent, state.Height, state.Width)
	}

	content := &strings.Builder{}

	title := r.styles.Title.Render("fedadmin")
	if len(state.Activity) > 0 {
		title += "  " + r.styles.StatusLoading.Render(state.Spinner+" "+strings.Join(state.Activity, " | "))
	}
	content.WriteString(title)
	content.WriteString("\n\n")
	content.WriteString(r.renderTabs(state.Tabs))
	content.WriteString("\n")

	filter := state.Filter
	if filter == "" {
		filter = "none"
	}
	content.WriteString(r.styles.Filter.Render("Filter: " + filter))
	content.WriteString("\n")
	content.WriteString(r.renderStats(state.Stats))
	content.WriteString("\n\n")

	content.WriteString(r.renderList(state))
	content.WriteString("\n")
	content.WriteString(r.renderFooter(state))
	content.WriteString("\n")

	if state.Prompt != "" {
		content.WriteString(r.styles.Confirm.Render(state.Prompt))
		content.WriteString(state.TextInput)
		content.WriteString("\n")
	}
	if state.Notice != "" {
		if state.NoticeErr {
			content.WriteString(r.styles.StatusError.Render(state.Notice))
		} else {
			content.WriteString(r.styles.StatusSuccess.Render(state.Notice))
		}
		content.WriteString("\n")
	}
	if state.HelpLine != "" {
		content.WriteString(r.styles.Help.Render(state.HelpLine))
	}

	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	return mainStyle.Render(content.String())
}

func (r *Renderer) renderTabs(tabs []Tab) string {
	parts := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		label := fmt.Sprintf("%d %s", i+1, tab.Title)
		if tab.Busy {
			label += " •"
		}
		if tab.Active {
			parts = append(parts, r.styles.ActiveTab.Render(label))
		} else {
			parts = append(parts, r.styles.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (r *Renderer) renderStats(stats []Stat) string {
	parts := make([]string, 0, len(stats))
	for _, s := range stats {
		parts = append(parts, fmt.Sprintf("%s %s", s.Key, formatStat(s.Value)))
	}
	return r.styles.Stats.Render(strings.Join(parts, "  ·  "))
}

func formatStat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

func (r *Renderer) renderList(state ViewState) string {
	switch {
	case state.LoadErr != "":
		msg := r.styles.StatusError.Render("Could not load " + state.Noun + ": " + state.LoadErr)
		return msg + "\n" + r.styles.Dim.Render("Press r to retry.")
	case !state.Loaded && state.Loading:
		return r.styles.Dim.Render(state.Spinner + " Loading " + state.Noun + "…")
	case len(state.Rows) == 0:
		return r.styles.Dim.Render("No " + state.Noun + " match the filter.")
	}

	var lines []string
	header := make([]string, len(state.Columns))
	for i, col := range state.Columns {
		header[i] = pad(col.Title, col.Width)
	}
	lines = append(lines, "    "+r.styles.Header.Render(strings.Join(header, " ")))

	height := state.Height - chrome
	if height < 3 {
		height = 3
	}
	offset := 0
	if state.Cursor >= height {
		offset = state.Cursor - height + 1
	}
	end := offset + height
	if end > len(state.Rows) {
		end = len(state.Rows)
	}

	for i := offset; i < end; i++ {
		lines = append(lines, r.renderRow(state, i))
	}
	if end < len(state.Rows) || offset > 0 {
		lines = append(lines, r.styles.Dim.Render(fmt.Sprintf("    rows %d-%d of %d on this page", offset+1, end, len(state.Rows))))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderRow(state ViewState, i int) string {
	row := state.Rows[i]
	cells := make([]string, len(row.Cells))
	for c, cell := range row.Cells {
		width := 0
		if c < len(state.Columns) {
			width = state.Columns[c].Width
		}
		cells[c] = pad(cell, width)
		if cell == row.Status && row.Status != "" {
			cells[c] = lipgloss.NewStyle().Foreground(lipgloss.Color(StatusColor(row.Status))).Render(cells[c])
		}
	}

	mark := "[ ]"
	if row.Selected {
		mark = r.styles.SelectionBg.Render("[x]")
	}
	line := mark + " " + strings.Join(cells, " ")
	if i == state.Cursor {
		return r.styles.HighlightBg.Render(line)
	}
	return line
}

func (r *Renderer) renderFooter(state ViewState) string {
	footer := fmt.Sprintf("Page %d/%d · %d %s", state.Page, state.TotalPages, state.Total, state.Noun)
	if state.SelectedCount > 0 {
		footer += fmt.Sprintf(" · %d selected", state.SelectedCount)
	}
	if state.Loading && state.Loaded {
		footer += " · " + state.Spinner + " refreshing"
	}
	return r.styles.Dim.Render(footer)
}

func pad(s string, width int) string {
	w := lipgloss.Width(s)
	if width <= 0 || w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
