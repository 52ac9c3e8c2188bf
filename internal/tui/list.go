package tui

import (
	"slices"

	"github.com/thiagokokada/gx-go/internal/fuzzy"
)

// Row is one visible line of a List.
type Row[T any] struct {
	Item     T
	Index    int // position in the filtered list
	Selected bool
	// Positions holds the byte offsets in the label matched by the query.
	Positions []int
}

// List is the navigation state shared by the history browser and the branch
// picker: a filtered view over a fixed set of items, a selection that always
// points into that view (or nowhere when it is empty) and a scroll offset that
// keeps the selection visible.
type List[T any] struct {
	items     []T
	labels    []string
	keepOrder bool

	query    []rune
	view     []fuzzy.Match
	selected int // -1 when the view is empty
	offset   int
	height   int
}

// NewList builds a list whose filter ranks matches by score.
func NewList[T any](items []T, label func(T) string) *List[T] {
	l := &List[T]{items: items, labels: make([]string, len(items)), height: 1}
	for i, item := range items {
		l.labels[i] = label(item)
	}
	l.refilter()
	return l
}

// KeepOrder makes the filter keep matches in item order instead of ranking
// them, so rows that are meaningful in sequence stay in sequence.
func (l *List[T]) KeepOrder() *List[T] {
	l.keepOrder = true
	l.refilter()
	return l
}

func (l *List[T]) Len() int { return len(l.view) }

func (l *List[T]) Total() int { return len(l.items) }

func (l *List[T]) Query() string { return string(l.query) }

func (l *List[T]) Height() int { return l.height }

func (l *List[T]) Offset() int { return l.offset }

// Type appends r to the query and selects the best match.
func (l *List[T]) Type(r rune) {
	l.query = append(l.query, r)
	l.refilter()
}

// Backspace removes the last rune of the query. It reports whether the query
// changed.
func (l *List[T]) Backspace() bool {
	if len(l.query) == 0 {
		return false
	}
	l.query = l.query[:len(l.query)-1]
	l.refilter()
	return true
}

// SetQuery replaces the query and selects the best match.
func (l *List[T]) SetQuery(q string) {
	l.query = []rune(q)
	l.refilter()
}

func (l *List[T]) refilter() {
	l.view = fuzzy.Rank(string(l.query), l.labels)
	if l.keepOrder {
		slices.SortStableFunc(l.view, func(a, b fuzzy.Match) int { return a.Index - b.Index })
	}
	l.selected = 0
	l.offset = 0
	l.clamp()
}

func (l *List[T]) Up()   { l.Move(-1) }
func (l *List[T]) Down() { l.Move(1) }

func (l *List[T]) PageUp()   { l.Move(-l.height) }
func (l *List[T]) PageDown() { l.Move(l.height) }

func (l *List[T]) Home() { l.moveTo(0) }
func (l *List[T]) End()  { l.moveTo(len(l.view) - 1) }

// Move shifts the selection by delta rows, stopping at either end.
func (l *List[T]) Move(delta int) {
	if len(l.view) == 0 {
		return
	}
	l.moveTo(l.selected + delta)
}

func (l *List[T]) moveTo(i int) {
	l.selected = i
	l.clamp()
}

// Select moves the selection to the first visible item matching match. The
// current selection is kept when nothing matches.
func (l *List[T]) Select(match func(T) bool) bool {
	for i, m := range l.view {
		if match(l.items[m.Index]) {
			l.moveTo(i)
			return true
		}
	}
	return false
}

// Selected returns the selected item, or false when the filtered view is
// empty.
func (l *List[T]) Selected() (T, bool) {
	if l.selected < 0 || l.selected >= len(l.view) {
		var zero T
		return zero, false
	}
	return l.items[l.view[l.selected].Index], true
}

// SelectedIndex is the position of the selection in the filtered view, or -1.
func (l *List[T]) SelectedIndex() int { return l.selected }

// Resize sets the number of visible rows.
func (l *List[T]) Resize(height int) {
	l.height = max(height, 1)
	l.clamp()
}

func (l *List[T]) clamp() {
	if len(l.view) == 0 {
		l.selected = -1
		l.offset = 0
		return
	}
	l.selected = min(max(l.selected, 0), len(l.view)-1)
	if l.selected < l.offset {
		l.offset = l.selected
	}
	if l.selected >= l.offset+l.height {
		l.offset = l.selected - l.height + 1
	}
	l.offset = min(max(l.offset, 0), max(len(l.view)-l.height, 0))
}

// Visible returns the rows inside the viewport.
func (l *List[T]) Visible() []Row[T] {
	end := min(l.offset+l.height, len(l.view))
	rows := make([]Row[T], 0, max(end-l.offset, 0))
	for i := l.offset; i < end; i++ {
		m := l.view[i]
		rows = append(rows, Row[T]{
			Item:      l.items[m.Index],
			Index:     i,
			Selected:  i == l.selected,
			Positions: m.Positions,
		})
	}
	return rows
}
