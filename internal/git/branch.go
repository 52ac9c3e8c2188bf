package git

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	recentCommitCount = 5
	// aheadBehindCap bounds the ancestry walked for ahead/behind counts.
	aheadBehindCap = 10000
)

var errAncestryTooLarge = errors.New("ancestry too large")

// BranchNames returns local branch names sorted, followed by remote branches
// with the remote prefix stripped, without duplicates. The current branch, when
// there is one, comes first and is also returned on its own.
func (s *Service) BranchNames() ([]string, string, error) {
	iter, err := s.repo.References()
	if err != nil {
		return nil, "", newError(KindEngine, "list branches", err)
	}
	var local, remote []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name()
		switch {
		case name.IsBranch():
			local = append(local, name.Short())
		case name.IsRemote():
			_, branch, ok := strings.Cut(name.Short(), "/")
			if ok && branch != "HEAD" {
				remote = append(remote, branch)
			}
		}
		return nil
	})
	iter.Close()
	if err != nil {
		return nil, "", newError(KindEngine, "list branches", err)
	}
	slices.Sort(local)
	slices.Sort(remote)

	current, _ := s.CurrentBranch()
	names := make([]string, 0, len(local)+len(remote)+1)
	seen := map[string]struct{}{}
	add := func(name string) {
		if _, ok := seen[name]; ok || name == "" {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	if current != "" && (slices.Contains(local, current) || slices.Contains(remote, current)) {
		add(current)
	}
	for _, name := range local {
		add(name)
	}
	for _, name := range remote {
		add(name)
	}
	return names, current, nil
}

// BranchInfo describes a local branch, or a remote one of the same name when
// no local branch exists.
func (s *Service) BranchInfo(name string) (BranchInfo, error) {
	ref, err := s.branchRef(name)
	if err != nil {
		return BranchInfo{}, err
	}
	tip, err := s.repo.CommitObject(ref.Hash())
	if err != nil {
		return BranchInfo{}, newError(KindEngine, fmt.Sprintf("read branch %s", name), err)
	}
	current, _ := s.CurrentBranch()
	info := BranchInfo{
		Name:         name,
		IsCurrent:    ref.Name().IsBranch() && current == name,
		ShortID:      tip.Hash.String()[:minShortLen],
		Summary:      summary(tip.Message),
		AuthorName:   authorName(tip.Author),
		AuthorEmail:  tip.Author.Email,
		When:         tip.Author.When,
		RelativeTime: relativeTime(tip.Author.When, s.now()),
	}
	if head, err := s.repo.Head(); err == nil {
		ab, err := s.aheadBehind(tip.Hash, head.Hash())
		if err != nil {
			slog.Debug("ahead/behind unavailable", slog.String("branch", name), slog.Any("error", err))
		} else {
			info.AheadBehind = &ab
		}
	}
	c := tip
	for len(info.RecentCommits) < recentCommitCount {
		info.RecentCommits = append(info.RecentCommits, summary(c.Message))
		if c.NumParents() == 0 {
			break
		}
		parent, err := c.Parent(0)
		if err != nil {
			break
		}
		c = parent
	}
	return info, nil
}

func (s *Service) branchRef(name string) (*plumbing.Reference, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newError(KindNotFound, "find branch", errors.New("branch not specified"))
	}
	if ref, err := s.repo.Reference(plumbing.NewBranchReferenceName(name), true); err == nil {
		return ref, nil
	}
	remotes, err := s.repo.Remotes()
	if err != nil {
		return nil, newError(KindEngine, "list remotes", err)
	}
	slices.SortFunc(remotes, func(a, b *gitlib.Remote) int {
		return strings.Compare(a.Config().Name, b.Config().Name)
	})
	for _, remote := range remotes {
		ref, err := s.repo.Reference(plumbing.NewRemoteReferenceName(remote.Config().Name, name), true)
		if err == nil {
			return ref, nil
		}
	}
	return nil, newError(KindNotFound, fmt.Sprintf("find branch %s", name), plumbing.ErrReferenceNotFound)
}

func (s *Service) aheadBehind(branch, head plumbing.Hash) (AheadBehind, error) {
	if branch == head {
		return AheadBehind{}, nil
	}
	fromBranch, err := s.ancestry(branch)
	if err != nil {
		return AheadBehind{}, err
	}
	fromHead, err := s.ancestry(head)
	if err != nil {
		return AheadBehind{}, err
	}
	var ab AheadBehind
	for h := range fromBranch {
		if _, ok := fromHead[h]; !ok {
			ab.Ahead++
		}
	}
	for h := range fromHead {
		if _, ok := fromBranch[h]; !ok {
			ab.Behind++
		}
	}
	return ab, nil
}

func (s *Service) ancestry(from plumbing.Hash) (map[plumbing.Hash]struct{}, error) {
	c, err := s.repo.CommitObject(from)
	if err != nil {
		return nil, err
	}
	seen := map[plumbing.Hash]struct{}{}
	iter := object.NewCommitPreorderIter(c, nil, nil)
	defer iter.Close()
	err = iter.ForEach(func(c *object.Commit) error {
		seen[c.Hash] = struct{}{}
		if len(seen) > aheadBehindCap {
			return errAncestryTooLarge
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return seen, nil
}
