package git

import (
	"container/heap"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/thiagokokada/gx-go/internal/graph"
)

const (
	DefaultLimit = 500
	minShortLen  = 7
)

type Service struct {
	// mu serializes walks and ref enumeration, which share the object cache.
	mu sync.Mutex

	repo *gitlib.Repository
	path string
	now  func() time.Time

	version versionCheck
}

func Open(repoPath string) (*Service, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	repo, err := gitlib.PlainOpenWithOptions(abs, &gitlib.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gitlib.ErrRepositoryNotExists) {
			return nil, newError(KindNotInRepo, "open repository", err)
		}
		return nil, newError(KindEngine, "open repository", err)
	}
	root := abs
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}
	slog.Debug("repository opened", slog.String("path", root))
	return NewWithRepository(repo, root), nil
}

// NewWithRepository wraps an already opened repository, e.g. one kept in
// memory.
func NewWithRepository(repo *gitlib.Repository, path string) *Service {
	return &Service{repo: repo, path: path, now: time.Now}
}

func (s *Service) RepoPath() string {
	return s.path
}

// LoadLog walks at most limit commits from start (HEAD when empty), attaches
// reference names and renders the lane graph. The result is never mutated.
func (s *Service) LoadLog(start string, limit int) (*LogGraph, error) {
	res, err := s.Walk(start, limit)
	if err != nil {
		return nil, err
	}
	refs, skippedRefs, err := s.RefMap()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(res.Commits))
	for i := range res.Commits {
		res.Commits[i].Refs = refs[res.Commits[i].ID]
		ids[i] = res.Commits[i].ID
	}
	lg := &LogGraph{
		Head:       s.headName(),
		HeadID:     s.headID(),
		Entries:    res.Commits,
		GraphLines: graph.Render(ids, res.Parents),
		Parents:    res.Parents,
		Skipped:    res.Skipped + skippedRefs,
	}
	slog.Debug("log loaded",
		slog.String("head", lg.Head),
		slog.Int("commits", len(lg.Entries)),
		slog.Int("skipped", lg.Skipped),
		slog.Int("lanes", graph.Width(lg.GraphLines)),
	)
	return lg, nil
}

type walkNode struct {
	commit   *object.Commit
	seq      int // discovery order, used as the tie breaker
	children int // children still waiting to be emitted
	index    int // heap position
}

// Walk returns at most limit commits reachable from start, children before
// parents, newest committer time first among commits whose children have all
// been emitted. Commits that cannot be read are skipped and counted.
func (s *Service) Walk(start string, limit int) (WalkResult, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	from, err := s.startHash(start)
	if err != nil {
		if errors.Is(err, ErrUnbornHead) {
			return WalkResult{Parents: ParentLinks{}}, nil
		}
		return WalkResult{}, err
	}
	nodes, skipped := s.discover(from)
	ordered := topoOrder(nodes[from], nodes, limit)

	ids := make([]string, len(ordered))
	for i, n := range ordered {
		ids[i] = n.commit.Hash.String()
	}
	short := abbreviate(ids, minShortLen)
	now := s.now()

	res := WalkResult{
		Commits: make([]CommitDescriptor, 0, len(ordered)),
		Parents: make(ParentLinks, len(ordered)),
		Skipped: skipped,
	}
	for _, n := range ordered {
		c := n.commit
		id := c.Hash.String()
		parents := make([]string, len(c.ParentHashes))
		for i, p := range c.ParentHashes {
			parents[i] = p.String()
		}
		res.Parents[id] = parents
		res.Commits = append(res.Commits, CommitDescriptor{
			ID:           id,
			ShortID:      short[id],
			Summary:      summary(c.Message),
			AuthorName:   authorName(c.Author),
			When:         c.Committer.When,
			RelativeTime: relativeTime(c.Committer.When, now),
			IsMerge:      len(c.ParentHashes) > 1,
		})
	}
	slog.Debug("walk done",
		slog.String("start", start),
		slog.Int("limit", limit),
		slog.Int("reachable", len(nodes)),
		slog.Int("returned", len(res.Commits)),
		slog.Int("skipped", skipped),
	)
	return res, nil
}

// discover reads every commit reachable from from. A commit that fails to load
// is left out, along with any history only reachable through it. The
// topological order needs child counts, so this costs O(history) regardless
// of the walk limit.
func (s *Service) discover(from plumbing.Hash) (map[plumbing.Hash]*walkNode, int) {
	nodes := map[plumbing.Hash]*walkNode{}
	failed := map[plumbing.Hash]struct{}{}
	queue := []plumbing.Hash{from}
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if _, ok := nodes[h]; ok {
			continue
		}
		if _, ok := failed[h]; ok {
			continue
		}
		c, err := s.repo.CommitObject(h)
		if err != nil {
			slog.Debug("skipping unreadable commit", slog.String("hash", h.String()), slog.Any("error", err))
			failed[h] = struct{}{}
			continue
		}
		nodes[h] = &walkNode{commit: c, seq: len(nodes)}
		queue = append(queue, c.ParentHashes...)
	}
	for _, n := range nodes {
		for _, p := range n.commit.ParentHashes {
			if pn, ok := nodes[p]; ok {
				pn.children++
			}
		}
	}
	return nodes, len(failed)
}

func topoOrder(root *walkNode, nodes map[plumbing.Hash]*walkNode, limit int) []*walkNode {
	if root == nil {
		return nil
	}
	out := make([]*walkNode, 0, min(limit, len(nodes)))
	ready := &readyQueue{}
	heap.Push(ready, root)
	for ready.Len() > 0 && len(out) < limit {
		n := heap.Pop(ready).(*walkNode)
		out = append(out, n)
		for _, p := range n.commit.ParentHashes {
			pn, ok := nodes[p]
			if !ok {
				continue
			}
			pn.children--
			if pn.children == 0 {
				heap.Push(ready, pn)
			}
		}
	}
	return out
}

// readyQueue orders commits whose children were all emitted: newest committer
// time first, then closest to the start point.
type readyQueue []*walkNode

func (q readyQueue) Len() int { return len(q) }

func (q readyQueue) Less(i, j int) bool {
	ti, tj := q[i].commit.Committer.When, q[j].commit.Committer.When
	if !ti.Equal(tj) {
		return ti.After(tj)
	}
	return q[i].seq < q[j].seq
}

func (q readyQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *readyQueue) Push(x any) {
	n := x.(*walkNode)
	n.index = len(*q)
	*q = append(*q, n)
}

func (q *readyQueue) Pop() any {
	old := *q
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*q = old[:len(old)-1]
	return n
}

func (s *Service) Parents(id string) ([]string, error) {
	c, err := s.commit(id)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(c.ParentHashes))
	for i, p := range c.ParentHashes {
		out[i] = p.String()
	}
	return out, nil
}

// Resolve looks up a branch, tag, revision expression or (abbreviated) commit
// id and returns the commit it names.
func (s *Service) Resolve(ref string) (CommitDescriptor, error) {
	c, err := s.commit(ref)
	if err != nil {
		return CommitDescriptor{}, err
	}
	id := c.Hash.String()
	return CommitDescriptor{
		ID:           id,
		ShortID:      id[:minShortLen],
		Summary:      summary(c.Message),
		AuthorName:   authorName(c.Author),
		When:         c.Committer.When,
		RelativeTime: relativeTime(c.Committer.When, s.now()),
		IsMerge:      len(c.ParentHashes) > 1,
	}, nil
}

// IsCommit reports whether ref resolves to a commit.
func (s *Service) IsCommit(ref string) bool {
	_, err := s.commit(ref)
	return err == nil
}

func (s *Service) commit(ref string) (*object.Commit, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, newError(KindNotFound, "resolve", fmt.Errorf("empty reference"))
	}
	h, err := s.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, newError(KindNotFound, fmt.Sprintf("resolve %s", ref), err)
	}
	c, err := s.repo.CommitObject(*h)
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, newError(KindNotFound, fmt.Sprintf("read commit %s", ref), err)
		}
		return nil, newError(KindEngine, fmt.Sprintf("read commit %s", ref), err)
	}
	return c, nil
}

func (s *Service) startHash(start string) (plumbing.Hash, error) {
	if start == "" || start == "HEAD" {
		ref, err := s.repo.Head()
		if err != nil {
			if errors.Is(err, plumbing.ErrReferenceNotFound) {
				return plumbing.ZeroHash, newError(KindUnbornHead, "resolve HEAD", err)
			}
			return plumbing.ZeroHash, newError(KindEngine, "resolve HEAD", err)
		}
		return ref.Hash(), nil
	}
	h, err := s.repo.ResolveRevision(plumbing.Revision(start))
	if err != nil {
		return plumbing.ZeroHash, newError(KindNotFound, fmt.Sprintf("resolve %s", start), err)
	}
	return *h, nil
}

// headName returns the short branch name HEAD points at, or "HEAD" when it is
// detached or unreadable.
func (s *Service) headName() string {
	name, err := s.CurrentBranch()
	if err != nil {
		return "HEAD"
	}
	return name
}

func (s *Service) headID() string {
	head, err := s.repo.Head()
	if err != nil {
		return ""
	}
	return head.Hash().String()
}

// CurrentBranch returns the branch HEAD points at, including an unborn one.
func (s *Service) CurrentBranch() (string, error) {
	ref, err := s.repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", newError(KindEngine, "read HEAD", err)
	}
	if ref.Type() == plumbing.SymbolicReference {
		return ref.Target().Short(), nil
	}
	return "", newError(KindDetached, "read HEAD", nil)
}

func summary(msg string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(msg), "\n")
	return strings.TrimSpace(first)
}

func body(msg string) string {
	_, rest, _ := strings.Cut(strings.TrimSpace(msg), "\n")
	return strings.TrimSpace(rest)
}

func authorName(sig object.Signature) string {
	if sig.Name == "" {
		return "Unknown"
	}
	return sig.Name
}

// abbreviate returns, for every id, the shortest prefix of at least minLen
// characters that is unique among ids.
func abbreviate(ids []string, minLen int) map[string]string {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	out := make(map[string]string, len(sorted))
	for i, id := range sorted {
		n := minLen
		if i > 0 {
			n = max(n, commonPrefix(id, sorted[i-1])+1)
		}
		if i+1 < len(sorted) {
			n = max(n, commonPrefix(id, sorted[i+1])+1)
		}
		out[id] = id[:min(n, len(id))]
	}
	return out
}

func commonPrefix(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}
