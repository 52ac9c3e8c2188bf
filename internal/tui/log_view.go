package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/thiagokokada/gx-go/internal/git"
)

// Options configures an interactive session.
type Options struct {
	Theme ThemePreference
	// WatchPath is the repository root to watch for changes; empty disables
	// watching.
	WatchPath string
}

type logRow struct {
	git.CommitDescriptor
	Graph string
}

// BrowseLog shows the history snapshot and returns the commit the user chose
// to check out.
func BrowseLog(ctx context.Context, lg *git.LogGraph, details func(id string) (git.CommitDetail, error), opts Options) (Result[git.CommitDescriptor], error) {
	m := newLogPicker(lg, details, NewStyles(opts.Theme))
	res, err := runPicker(ctx, m, opts.WatchPath)
	if err != nil {
		return Result[git.CommitDescriptor]{}, err
	}
	return Result[git.CommitDescriptor]{Item: res.Item.CommitDescriptor, Chosen: res.Chosen}, nil
}

func newLogPicker(lg *git.LogGraph, details func(id string) (git.CommitDetail, error), styles Styles) *Picker[logRow, git.CommitDetail] {
	rows := make([]logRow, len(lg.Entries))
	refs := make(map[string][]string, len(lg.Entries))
	for i, e := range lg.Entries {
		e.Refs = decorateRefs(lg, e)
		rows[i] = logRow{CommitDescriptor: e, Graph: lg.GraphLines[i]}
		refs[e.ID] = e.Refs
	}
	return newPicker(pickerConfig[logRow, git.CommitDetail]{
		items:     rows,
		label:     logLabel,
		key:       func(r logRow) string { return r.ID },
		keepOrder: true,
		window:    logDetailWindow,
		fetch: func(id string) (git.CommitDetail, error) {
			d, err := details(id)
			if err != nil {
				return d, err
			}
			d.Refs = refs[id]
			return d, nil
		},
		header:    logHeader(lg.Skipped),
		row:       renderLogRow,
		pane:      renderCommitPane,
		listShare: 0.7,
	}, styles)
}

// decorateRefs marks the commit HEAD points at: "HEAD -> main" stands in for
// the checked out branch, and a detached HEAD shows as "HEAD" first.
func decorateRefs(lg *git.LogGraph, e git.CommitDescriptor) []string {
	if lg.HeadID == "" || e.ID != lg.HeadID {
		return e.Refs
	}
	if lg.Head == "HEAD" {
		return append([]string{"HEAD"}, e.Refs...)
	}
	out := []string{"HEAD -> " + lg.Head}
	for _, name := range e.Refs {
		if name != lg.Head {
			out = append(out, name)
		}
	}
	return out
}

func logLabel(r logRow) string {
	parts := []string{r.ShortID, r.Summary, r.AuthorName}
	parts = append(parts, r.Refs...)
	return strings.Join(parts, " ")
}

// logHeader shows the commit count, how many commits or refs could not be
// read, and the filter state.
func logHeader(skipped int) func(Styles, *List[logRow], string, bool) string {
	return func(s Styles, l *List[logRow], query string, querying bool) string {
		title := s.Title.Render(fmt.Sprintf("Log (%d commits)", l.Total()))
		if skipped > 0 {
			title += " " + s.Muted.Render(fmt.Sprintf("%d unreadable skipped", skipped))
		}
		switch {
		case querying:
			return title + "  " + s.Prompt.Render("/") + query + "█"
		case query != "":
			return title + "  " + s.Muted.Render(fmt.Sprintf("filter %q: %d shown", query, l.Len()))
		default:
			return title
		}
	}
}

func renderGraph(s Styles, graph string) string {
	var b strings.Builder
	for _, c := range graph {
		switch c {
		case '*':
			b.WriteString(s.GraphCommit.Render("* "))
		case '|':
			b.WriteString(s.GraphLane.Render("| "))
		case '/', '\\':
			b.WriteString(s.GraphBranch.Render(string(c) + " "))
		default:
			b.WriteString("  ")
		}
	}
	return b.String()
}

func renderLogRow(s Styles, r Row[logRow], width int) string {
	e := r.Item
	prefix := renderGraph(s, e.Graph) + s.ShortID.Render(e.ShortID) + " "
	prefixWidth := runewidth.StringWidth(e.Graph)*2 + runewidth.StringWidth(e.ShortID) + 1
	if e.IsMerge {
		prefix += s.Merge.Render("Merge") + " "
		prefixWidth += len("Merge ")
	}
	if len(e.Refs) > 0 {
		refs := "(" + strings.Join(e.Refs, ", ") + ")"
		prefix += s.Refs.Render(refs) + " "
		prefixWidth += runewidth.StringWidth(refs) + 1
	}
	suffix := " - " + e.AuthorName + " " + e.RelativeTime
	room := max(width-prefixWidth-runewidth.StringWidth(suffix), 10)

	summary := runewidth.Truncate(e.Summary, room, "...")
	if r.Selected {
		summary = s.SelectedText.Render(summary)
	}
	return prefix + summary + s.Author.Render(" - "+e.AuthorName) + s.Muted.Render(" "+e.RelativeTime)
}

func renderCommitPane(s Styles, v paneView[git.CommitDetail]) string {
	switch {
	case !v.Selected:
		return s.Muted.Render("No commit selected")
	case v.Loading:
		return "Loading..."
	case !v.Ready:
		return ""
	}
	d := v.Value
	label := func(name string) string { return s.Muted.Render(name + ": ") }
	lines := []string{label("Commit") + s.ShortID.Render(d.ID)}
	if len(d.Refs) > 0 {
		lines = append(lines, label("Refs")+s.Refs.Render(strings.Join(d.Refs, ", ")))
	}
	lines = append(lines, "", s.Bold.Render(d.Summary))
	if d.Body != "" {
		lines = append(lines, "")
		body := strings.Split(d.Body, "\n")
		for _, l := range body[:min(len(body), 5)] {
			lines = append(lines, s.Muted.Render(l))
		}
	}
	lines = append(lines,
		"",
		label("Author")+d.AuthorName,
		label("Email")+d.AuthorEmail,
		label("Date")+d.RelativeTime,
	)
	if len(d.ParentIDs) > 0 {
		lines = append(lines, label("Parents")+strings.Join(d.ParentIDs, ", "))
	}
	lines = append(lines,
		"",
		label("Changes")+d.StatLine(),
	)
	return strings.Join(lines, "\n")
}
