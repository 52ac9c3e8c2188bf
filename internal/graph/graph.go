// Package graph lays out a linear commit sequence as text lanes.
//
// Each row uses a small alphabet: '*' is the commit itself, '|' a lane passing
// through, '/' a lane converging into the commit and '\' a new lane opened for a
// merge parent. Empty slots are dropped after every row, so a line of history
// does not keep a fixed column.
package graph

import (
	"slices"
	"strings"
)

const (
	Commit   = '*'
	Lane     = '|'
	Converge = '/'
	Diverge  = '\\'
	Empty    = ' '
)

// laneTable holds, per slot, the commit id the slot is waiting for. An empty
// string is a free slot.
type laneTable []string

func (t laneTable) pending(id string) []int {
	var idx []int
	for i, want := range t {
		if want == id {
			idx = append(idx, i)
		}
	}
	return idx
}

func (t laneTable) compact() laneTable {
	out := t[:0]
	for _, want := range t {
		if want != "" {
			out = append(out, want)
		}
	}
	return out
}

type newLane struct {
	pos    int
	parent string
}

// Render returns one lane string per id. ids must be in display order
// (children before parents); parents maps an id to its ordered parent ids.
func Render(ids []string, parents map[string][]string) []string {
	lines := make([]string, 0, len(ids))
	var lanes laneTable

	for _, id := range ids {
		ps := parents[id]
		matching := lanes.pending(id)

		var at int
		switch {
		case len(matching) > 0:
			at = matching[0]
		case slices.Contains(lanes, ""):
			at = slices.Index(lanes, "")
			lanes[at] = id
		default:
			lanes = append(lanes, id)
			at = len(lanes) - 1
		}

		var closing []int
		for _, i := range matching {
			if i != at {
				closing = append(closing, i)
			}
		}

		var opened []newLane
		if len(ps) > 1 {
			for _, p := range ps[1:] {
				if !slices.Contains(lanes, p) {
					opened = append(opened, newLane{pos: len(lanes) + len(opened), parent: p})
				}
			}
		}

		width := len(lanes)
		for _, nl := range opened {
			width = max(width, nl.pos+1)
		}

		var b strings.Builder
		for i := range width {
			switch {
			case i == at:
				b.WriteByte(Commit)
			case slices.Contains(closing, i):
				b.WriteByte(Converge)
			case opens(opened, i):
				b.WriteByte(Diverge)
			case i < len(lanes) && lanes[i] != "":
				b.WriteByte(Lane)
			default:
				b.WriteByte(Empty)
			}
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))

		for _, i := range closing {
			lanes[i] = ""
		}
		if len(ps) == 0 {
			lanes[at] = ""
		} else {
			lanes[at] = ps[0]
		}
		for _, nl := range opened {
			for len(lanes) <= nl.pos {
				lanes = append(lanes, "")
			}
			lanes[nl.pos] = nl.parent
		}
		lanes = lanes.compact()
	}
	return lines
}

// Width returns the widest row in lines, in lane columns.
func Width(lines []string) int {
	w := 0
	for _, l := range lines {
		w = max(w, len(l))
	}
	return w
}

func opens(opened []newLane, i int) bool {
	for _, nl := range opened {
		if nl.pos == i {
			return true
		}
	}
	return false
}
