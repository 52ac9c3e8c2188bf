package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/thiagokokada/gx-go/internal/git"
)

type branchItem struct {
	Name    string
	Current bool
}

// PickBranch lets the user fuzzy-search names and returns the chosen branch.
func PickBranch(ctx context.Context, names []string, current string, info func(name string) (git.BranchInfo, error), opts Options) (Result[string], error) {
	m := newBranchPicker(names, current, info, NewStyles(opts.Theme))
	res, err := runPicker(ctx, m, opts.WatchPath)
	if err != nil {
		return Result[string]{}, err
	}
	return Result[string]{Item: res.Item.Name, Chosen: res.Chosen}, nil
}

func newBranchPicker(names []string, current string, info func(name string) (git.BranchInfo, error), styles Styles) *Picker[branchItem, git.BranchInfo] {
	items := make([]branchItem, len(names))
	for i, name := range names {
		items[i] = branchItem{Name: name, Current: name == current}
	}
	return newPicker(pickerConfig[branchItem, git.BranchInfo]{
		items:     items,
		label:     func(b branchItem) string { return b.Name },
		key:       func(b branchItem) string { return b.Name },
		typing:    true,
		window:    branchDetailWindow,
		fetch:     info,
		header:    branchHeader,
		row:       renderBranchRow,
		pane:      renderBranchPane,
		listShare: 0.5,
	}, styles)
}

func branchHeader(s Styles, l *List[branchItem], query string, _ bool) string {
	return s.Prompt.Render("> ") + query + "█  " + s.Muted.Render(fmt.Sprintf("%d/%d branches", l.Len(), l.Total()))
}

func renderBranchRow(s Styles, r Row[branchItem], _ int) string {
	marker := "   "
	if r.Selected {
		marker = s.Prompt.Render(">> ")
	}
	name := highlight(r.Item.Name, r.Positions, s.Match, lipgloss.NewStyle())
	if r.Item.Current {
		name += s.Muted.Render(" (current)")
	}
	return marker + name
}

// highlight styles the bytes at positions in s with match.
func highlight(s string, positions []int, match, rest lipgloss.Style) string {
	if len(positions) == 0 {
		return rest.Render(s)
	}
	runeIdx := make([]int, 0, len(positions))
	byteToRune := map[int]int{}
	i := 0
	for b := range s {
		byteToRune[b] = i
		i++
	}
	for _, p := range positions {
		if r, ok := byteToRune[p]; ok {
			runeIdx = append(runeIdx, r)
		}
	}
	return lipgloss.StyleRunes(s, runeIdx, match, rest)
}

func renderBranchPane(s Styles, v paneView[git.BranchInfo]) string {
	switch {
	case !v.Selected:
		return s.Muted.Render("Select a branch to view details")
	case v.Loading:
		return "Loading..."
	case !v.Ready:
		return ""
	}
	info := v.Value
	title := s.Bold.Render(info.Name)
	if info.IsCurrent {
		title += s.Muted.Render(" (current)")
	}
	lines := []string{title, ""}
	if ab := info.AheadBehind; ab != nil && (ab.Ahead > 0 || ab.Behind > 0) {
		var parts []string
		if ab.Ahead > 0 {
			parts = append(parts, s.Added.Render(fmt.Sprintf("+%d ahead", ab.Ahead)))
		}
		if ab.Behind > 0 {
			parts = append(parts, s.Removed.Render(fmt.Sprintf("-%d behind", ab.Behind)))
		}
		lines = append(lines, strings.Join(parts, ", "), "")
	}
	lines = append(lines,
		"Latest commit:",
		fmt.Sprintf("  %s %s", s.ShortID.Render(info.ShortID), info.Summary),
		fmt.Sprintf("  %s <%s>", info.AuthorName, info.AuthorEmail),
		"  "+s.Muted.Render(info.RelativeTime),
	)
	if len(info.RecentCommits) > 1 {
		lines = append(lines, "", "Recent commits:")
		for _, msg := range info.RecentCommits[1:] {
			lines = append(lines, "  > "+msg)
		}
	}
	return strings.Join(lines, "\n")
}
