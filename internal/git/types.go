package git

import "time"

// CommitDescriptor is the minimal per-commit metadata shown in the history
// browser. Values are built once per session and never mutated.
type CommitDescriptor struct {
	ID           string
	ShortID      string
	Summary      string
	AuthorName   string
	When         time.Time
	RelativeTime string
	IsMerge      bool
	Refs         []string
}

// ParentLinks maps a commit id to its ordered parent ids. The first parent is
// the mainline continuation.
type ParentLinks map[string][]string

// RefMap maps a commit id to the names pointing at it, in discovery order.
type RefMap map[string][]string

// LogGraph pairs commits in display order with their rendered lane strings.
// len(Entries) == len(GraphLines) always holds.
type LogGraph struct {
	// Head is the checked out branch, or "HEAD" when detached.
	Head       string
	// HeadID is the commit HEAD points at, empty for an unborn branch.
	HeadID     string
	Entries    []CommitDescriptor
	GraphLines []string
	Parents    ParentLinks

	// Skipped counts commits and references that could not be resolved while
	// loading and were left out.
	Skipped int
}

type WalkResult struct {
	Commits []CommitDescriptor
	Parents ParentLinks
	Skipped int
}

type CommitDetail struct {
	ID           string
	Summary      string
	Body         string
	AuthorName   string
	AuthorEmail  string
	When         time.Time
	RelativeTime string
	ParentIDs    []string // abbreviated
	// Refs is not filled by Service.CommitDetail; the log view copies it from
	// the loaded snapshot.
	Refs         []string

	FilesChanged int
	Insertions   int
	Deletions    int
}

type AheadBehind struct {
	Ahead  int
	Behind int
}

type BranchInfo struct {
	Name      string
	IsCurrent bool

	// AheadBehind is nil when it could not be computed, e.g. on an unborn
	// HEAD or when the histories are too long to compare.
	AheadBehind *AheadBehind

	ShortID      string
	Summary      string
	AuthorName   string
	AuthorEmail  string
	When         time.Time
	RelativeTime string

	// RecentCommits holds first-parent summaries starting with the tip.
	RecentCommits []string
}
