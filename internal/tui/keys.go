package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// interruptKey ends any session immediately, whatever the mode.
var interruptKey = key.NewBinding(key.WithKeys("ctrl+c"))

type navKeys struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
}

type logKeys struct {
	navKeys
	Search   key.Binding
	Checkout key.Binding
	Quit     key.Binding
}

type queryKeys struct {
	Accept    key.Binding
	Clear     key.Binding
	Backspace key.Binding
}

type pickerKeys struct {
	navKeys
	Select    key.Binding
	Cancel    key.Binding
	Backspace key.Binding
}

func newLogKeys() logKeys {
	return logKeys{
		navKeys: navKeys{
			Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("j/k", "navigate")),
			Down:     key.NewBinding(key.WithKeys("j", "down")),
			PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup/pgdn", "page")),
			PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d")),
			Home:     key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g/G", "top/bottom")),
			End:      key.NewBinding(key.WithKeys("G", "end")),
		},
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Checkout: key.NewBinding(key.WithKeys("enter", "c"), key.WithHelp("enter/c", "checkout")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q/esc", "quit")),
	}
}

func newQueryKeys() queryKeys {
	return queryKeys{
		Accept:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "keep filter")),
		Clear:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		Backspace: key.NewBinding(key.WithKeys("backspace")),
	}
}

func newPickerKeys() pickerKeys {
	return pickerKeys{
		navKeys: navKeys{
			Up:       key.NewBinding(key.WithKeys("up", "ctrl+k", "ctrl+p"), key.WithHelp("↑/↓", "navigate")),
			Down:     key.NewBinding(key.WithKeys("down", "ctrl+j", "ctrl+n")),
			PageUp:   key.NewBinding(key.WithKeys("pgup")),
			PageDown: key.NewBinding(key.WithKeys("pgdown")),
			Home:     key.NewBinding(key.WithKeys("home")),
			End:      key.NewBinding(key.WithKeys("end")),
		},
		Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Backspace: key.NewBinding(key.WithKeys("backspace")),
	}
}

func (k logKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.PageUp, k.Home, k.Search, k.Checkout, k.Quit}
}

func (k logKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

func (k queryKeys) ShortHelp() []key.Binding { return []key.Binding{k.Accept, k.Clear} }

func (k queryKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

func (k pickerKeys) ShortHelp() []key.Binding { return []key.Binding{k.Up, k.Select, k.Cancel} }

func (k pickerKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

// navigate applies a navigation binding to l. It reports whether msg matched
// one.
func navigate[T any](k navKeys, l *List[T], msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, k.Up):
		l.Up()
	case key.Matches(msg, k.Down):
		l.Down()
	case key.Matches(msg, k.PageUp):
		l.PageUp()
	case key.Matches(msg, k.PageDown):
		l.PageDown()
	case key.Matches(msg, k.Home):
		l.Home()
	case key.Matches(msg, k.End):
		l.End()
	default:
		return false
	}
	return true
}
