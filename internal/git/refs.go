package git

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

// maxTagDepth bounds the chain of tags pointing at tags.
const maxTagDepth = 8

// RefMap maps commit ids to the short names of every reference pointing at
// them ("main", "origin/main", "v1.0", "stash"), ordered by full reference
// name. HEAD itself is not listed. The second result counts references that
// could not be resolved to a commit.
func (s *Service) RefMap() (RefMap, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	iter, err := s.repo.References()
	if err != nil {
		return nil, 0, newError(KindEngine, "list references", err)
	}
	var refs []*plumbing.Reference
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name() != plumbing.HEAD {
			refs = append(refs, ref)
		}
		return nil
	})
	iter.Close()
	if err != nil {
		return nil, 0, newError(KindEngine, "list references", err)
	}
	slices.SortFunc(refs, func(a, b *plumbing.Reference) int {
		return strings.Compare(a.Name().String(), b.Name().String())
	})

	out := RefMap{}
	skipped := 0
	for _, ref := range refs {
		hash, ok := s.resolveRef(ref)
		if !ok {
			slog.Debug("skipping unresolvable reference", slog.String("ref", ref.Name().String()))
			skipped++
			continue
		}
		key := hash.String()
		out[key] = append(out[key], ref.Name().Short())
	}
	return out, skipped, nil
}

// resolveRef follows symbolic references and peels annotated tags down to a
// commit hash.
func (s *Service) resolveRef(ref *plumbing.Reference) (plumbing.Hash, bool) {
	if ref.Type() == plumbing.SymbolicReference {
		resolved, err := s.repo.Reference(ref.Name(), true)
		if err != nil {
			return plumbing.ZeroHash, false
		}
		ref = resolved
	}
	return s.peelToCommit(ref.Hash())
}

func (s *Service) peelToCommit(hash plumbing.Hash) (plumbing.Hash, bool) {
	if hash.IsZero() {
		return plumbing.ZeroHash, false
	}
	cur := hash
	for range maxTagDepth {
		if _, err := s.repo.CommitObject(cur); err == nil {
			return cur, true
		}
		tag, err := s.repo.TagObject(cur)
		if err != nil {
			return plumbing.ZeroHash, false
		}
		switch tag.TargetType {
		case plumbing.CommitObject, plumbing.TagObject:
			cur = tag.Target
		default:
			return plumbing.ZeroHash, false
		}
	}
	return plumbing.ZeroHash, false
}
