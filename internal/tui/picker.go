package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// pollInterval is how often the model wakes up to check whether the detail
// pane should be fetched, even when no key is pressed.
const pollInterval = 50 * time.Millisecond

// Result is what a picker returns: the chosen item, or Chosen == false when
// the user cancelled.
type Result[T any] struct {
	Item   T
	Chosen bool
}

type tickMsg time.Time

// noticeMsg sets the status line, e.g. when the repository changed on disk.
type noticeMsg string

// paneView is what a detail renderer gets to draw.
type paneView[D any] struct {
	Value    D
	Ready    bool
	Loading  bool
	Selected bool
}

// pickerConfig describes one screen.
type pickerConfig[T, D any] struct {
	items     []T
	label     func(T) string // text matched by the query
	key       func(T) string // identity of an item for the detail cache
	keepOrder bool
	// typing screens send every printable key to the query.
	typing bool
	window time.Duration
	fetch  func(key string) (D, error)

	header func(s Styles, l *List[T], query string, querying bool) string
	row    func(s Styles, r Row[T], width int) string
	pane   func(s Styles, v paneView[D]) string
	// listShare is the fraction of the width given to the list.
	listShare float64
}

// Picker is the interactive model shared by the history browser and the branch
// picker: a List on the left, a debounced Detail pane on the right and a help
// line at the bottom.
type Picker[T, D any] struct {
	cfg    pickerConfig[T, D]
	styles Styles
	list   *List[T]
	detail *Detail[D]
	help   help.Model

	logKeys    logKeys
	queryKeys  queryKeys
	pickerKeys pickerKeys

	querying bool
	width    int
	height   int
	notice   string
	result   Result[T]
	now      func() time.Time
}

func newPicker[T, D any](cfg pickerConfig[T, D], styles Styles) *Picker[T, D] {
	l := NewList(cfg.items, cfg.label)
	if cfg.keepOrder {
		l.KeepOrder()
	}
	if cfg.listShare <= 0 || cfg.listShare >= 1 {
		cfg.listShare = 0.5
	}
	m := &Picker[T, D]{
		cfg:        cfg,
		styles:     styles,
		list:       l,
		detail:     NewDetail(cfg.window, cfg.fetch),
		help:       help.New(),
		logKeys:    newLogKeys(),
		queryKeys:  newQueryKeys(),
		pickerKeys: newPickerKeys(),
		width:      80,
		height:     24,
		now:        time.Now,
	}
	m.querying = cfg.typing
	m.resize()
	return m
}

func (m *Picker[T, D]) Result() Result[T] { return m.result }

func (m *Picker[T, D]) Init() tea.Cmd {
	m.observe()
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Picker[T, D]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.resize()
	case tickMsg:
		m.detail.Poll(m.now())
		return m, tick()
	case noticeMsg:
		m.notice = string(msg)
	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			return m, cmd
		}
		m.observe()
	}
	return m, nil
}

func (m *Picker[T, D]) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, interruptKey):
		return tea.Quit
	case m.cfg.typing:
		return m.handleTyping(msg)
	case m.querying:
		m.handleQuery(msg)
		return nil
	default:
		return m.handleBrowse(msg)
	}
}

// handleTyping serves screens that are always in query mode.
func (m *Picker[T, D]) handleTyping(msg tea.KeyMsg) tea.Cmd {
	k := m.pickerKeys
	switch {
	case key.Matches(msg, k.Cancel):
		return tea.Quit
	case key.Matches(msg, k.Select):
		return m.choose()
	case key.Matches(msg, k.Backspace):
		m.list.Backspace()
	case navigate(k.navKeys, m.list, msg):
	default:
		m.typeRunes(msg)
	}
	return nil
}

func (m *Picker[T, D]) handleQuery(msg tea.KeyMsg) {
	k := m.queryKeys
	switch {
	case key.Matches(msg, k.Accept):
		m.querying = false
	case key.Matches(msg, k.Clear):
		m.clearQuery()
		m.querying = false
	case key.Matches(msg, k.Backspace):
		m.list.Backspace()
	case msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace:
		m.typeRunes(msg)
	default:
		navigate(m.logKeys.navKeys, m.list, msg)
	}
}

func (m *Picker[T, D]) handleBrowse(msg tea.KeyMsg) tea.Cmd {
	k := m.logKeys
	switch {
	case key.Matches(msg, k.Quit):
		return tea.Quit
	case key.Matches(msg, k.Checkout):
		return m.choose()
	case key.Matches(msg, k.Search):
		m.querying = true
	default:
		navigate(k.navKeys, m.list, msg)
	}
	return nil
}

func (m *Picker[T, D]) typeRunes(msg tea.KeyMsg) {
	if msg.Type == tea.KeySpace {
		m.list.Type(' ')
		return
	}
	if msg.Type != tea.KeyRunes || msg.Alt {
		return
	}
	for _, r := range msg.Runes {
		m.list.Type(r)
	}
}

// clearQuery drops the filter and keeps the selected item selected.
func (m *Picker[T, D]) clearQuery() {
	item, ok := m.list.Selected()
	m.list.SetQuery("")
	if ok {
		want := m.cfg.key(item)
		m.list.Select(func(t T) bool { return m.cfg.key(t) == want })
	}
}

func (m *Picker[T, D]) choose() tea.Cmd {
	item, ok := m.list.Selected()
	if !ok {
		return nil
	}
	m.result = Result[T]{Item: item, Chosen: true}
	return tea.Quit
}

func (m *Picker[T, D]) observe() {
	item, ok := m.list.Selected()
	var k string
	if ok {
		k = m.cfg.key(item)
	}
	m.detail.Observe(k, ok, m.now())
}

// Frame layout: header line, bordered panes, help line.
const (
	headerRows = 1
	helpRows   = 1
	paneChrome = 2 // border
	paneInset  = 4 // border and horizontal padding
)

func (m *Picker[T, D]) bodyHeight() int {
	return max(m.height-headerRows-helpRows-paneChrome, 1)
}

func (m *Picker[T, D]) paneWidths() (int, int) {
	listOuter := int(float64(m.width) * m.cfg.listShare)
	detailOuter := m.width - listOuter
	return max(listOuter-paneInset, 1), max(detailOuter-paneInset, 1)
}

func (m *Picker[T, D]) resize() {
	m.list.Resize(m.bodyHeight())
}

func (m *Picker[T, D]) View() string {
	listWidth, detailWidth := m.paneWidths()
	h := m.bodyHeight()

	rows := make([]string, 0, h)
	for _, r := range m.list.Visible() {
		line := ansi.Truncate(m.cfg.row(m.styles, r, listWidth), listWidth, "")
		if r.Selected {
			line = m.styles.Selected.Width(listWidth).Render(line)
		}
		rows = append(rows, line)
	}
	if len(rows) == 0 {
		rows = append(rows, m.styles.Muted.Render(m.emptyText()))
	}
	left := m.styles.Pane.Width(listWidth + 2).Height(h).Render(strings.Join(rows, "\n"))

	value, ready := m.detail.Value()
	_, selected := m.list.Selected()
	content := m.cfg.pane(m.styles, paneView[D]{
		Value:    value,
		Ready:    ready,
		Loading:  m.detail.Loading(),
		Selected: selected,
	})
	right := m.styles.Pane.Width(detailWidth + 2).Height(h).Render(clipLines(wrap(content, detailWidth), h))

	header := m.cfg.header(m.styles, m.list, m.list.Query(), m.querying)
	if m.notice != "" {
		header += "  " + m.styles.Notice.Render(m.notice)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		ansi.Truncate(header, m.width, "…"),
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		m.helpView(),
	)
}

func (m *Picker[T, D]) helpView() string {
	switch {
	case m.cfg.typing:
		return m.help.View(m.pickerKeys)
	case m.querying:
		return m.help.View(m.queryKeys)
	default:
		return m.help.View(m.logKeys)
	}
}

func (m *Picker[T, D]) emptyText() string {
	if m.list.Total() == 0 {
		return "Nothing to show"
	}
	return fmt.Sprintf("No match for %q", m.list.Query())
}

func wrap(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}

func clipLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
