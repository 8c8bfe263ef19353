package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// keyMap documents the normal mode bindings for the help views
type keyMap struct {
	Up, Down, Top, Bottom   key.Binding
	PrevPage, NextPage      key.Binding
	GoToPage, Tabs          key.Binding
	Select, SelectAll       key.Binding
	Filter, ClearFilter     key.Binding
	Refresh, Detail         key.Binding
	Bulk, Status            key.Binding
	Export, Notify          key.Binding
	Help, Dismiss, Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:         key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("gg", "first row")),
		Bottom:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last row")),
		PrevPage:    key.NewBinding(key.WithKeys("left", "h", "["), key.WithHelp("←/h", "previous page")),
		NextPage:    key.NewBinding(key.WithKeys("right", "l", "]"), key.WithHelp("→/l", "next page")),
		GoToPage:    key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "go to page")),
		Tabs:        key.NewBinding(key.WithKeys("tab", "shift+tab", "1", "2", "3", "4"), key.WithHelp("tab/1-4", "switch domain")),
		Select:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select row")),
		SelectAll:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select page / clear")),
		Filter:      key.NewBinding(key.WithKeys("/", "f"), key.WithHelp("/", "filter")),
		ClearFilter: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filter")),
		Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Detail:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Bulk:        key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bulk action")),
		Status:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "set status")),
		Export:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Notify:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "notify")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Dismiss:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear selection / message")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tabs, k.Select, k.Filter, k.Bulk, k.Export, k.Notify, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.PrevPage, k.NextPage, k.GoToPage, k.Tabs},
		{k.Select, k.SelectAll, k.Filter, k.ClearFilter, k.Refresh, k.Detail},
		{k.Bulk, k.Status, k.Export, k.Notify},
		{k.Help, k.Dismiss, k.Quit},
	}
}

var helpSections = []string{"Navigation", "Selection and filter", "Actions", "Other"}

// renderHelpContent renders the help information
func renderHelpContent(keys keyMap) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39"))

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder
	help.WriteString(titleStyle.Render("fedadmin Help"))
	help.WriteString("\n")

	for i, group := range keys.FullHelp() {
		help.WriteString(sectionStyle.Render(helpSections[i]))
		help.WriteString("\n")
		for _, b := range group {
			h := b.Help()
			help.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(fmt.Sprintf("%-10s", h.Key)), descStyle.Render(h.Desc)))
		}
		help.WriteString("\n")
	}

	help.WriteString(sectionStyle.Render("Prompts"))
	help.WriteString("\n")
	help.WriteString(descStyle.Render("  Filter input takes words (searched) and field=value pairs, e.g. \"ana status=pending\".\n"))
	help.WriteString(descStyle.Render("  Suspensions take \"<days> <reason>\", e.g. \"7 repeated no-shows\".\n"))
	help.WriteString(descStyle.Render("  Menus are answered with a single key; esc goes back."))

	return help.String()
}

// Pager shows long text outside of the list view
type Pager interface {
	Show(content string) error
}

// ovPager hands the terminal to ov for the duration of one document
type ovPager struct {
	program *tea.Program
}

// Show runs ov over content and gives the terminal back afterwards
func (p *ovPager) Show(content string) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}

	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}

	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
