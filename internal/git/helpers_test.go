package git

import (
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/require"
)

var testEpoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// testRepo is an in-memory repository whose commits are written straight to
// the object store with explicit timestamps.
type testRepo struct {
	t    *testing.T
	repo *gitlib.Repository
	svc  *Service
	tree plumbing.Hash
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	repo, err := gitlib.Init(memory.NewStorage(), memfs.New())
	require.NoError(t, err)
	svc := NewWithRepository(repo, "")
	svc.now = func() time.Time { return testEpoch.Add(48 * time.Hour) }
	r := &testRepo{t: t, repo: repo, svc: svc}
	r.tree = r.store(&object.Tree{})
	return r
}

func (r *testRepo) store(obj interface {
	Encode(plumbing.EncodedObject) error
}) plumbing.Hash {
	r.t.Helper()
	enc := r.repo.Storer.NewEncodedObject()
	require.NoError(r.t, obj.Encode(enc))
	h, err := r.repo.Storer.SetEncodedObject(enc)
	require.NoError(r.t, err)
	return h
}

// commit stores a commit made offset after testEpoch.
func (r *testRepo) commit(msg string, offset time.Duration, parents ...plumbing.Hash) plumbing.Hash {
	r.t.Helper()
	sig := object.Signature{Name: "Alice", Email: "alice@example.com", When: testEpoch.Add(offset)}
	return r.store(&object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      msg,
		TreeHash:     r.tree,
		ParentHashes: parents,
	})
}

func (r *testRepo) setRef(name plumbing.ReferenceName, h plumbing.Hash) {
	r.t.Helper()
	require.NoError(r.t, r.repo.Storer.SetReference(plumbing.NewHashReference(name, h)))
}

func (r *testRepo) branch(name string, h plumbing.Hash) {
	r.setRef(plumbing.NewBranchReferenceName(name), h)
}

func (r *testRepo) remoteBranch(remote, name string, h plumbing.Hash) {
	r.setRef(plumbing.NewRemoteReferenceName(remote, name), h)
}

func (r *testRepo) addRemote(name string) {
	r.t.Helper()
	_, err := r.repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{"https://example.com/" + name + ".git"}})
	require.NoError(r.t, err)
}

func (r *testRepo) switchTo(name string) {
	r.t.Helper()
	ref := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(name))
	require.NoError(r.t, r.repo.Storer.SetReference(ref))
}

func (r *testRepo) detach(h plumbing.Hash) {
	r.setRef(plumbing.HEAD, h)
}

// linear stores n commits one minute apart on main and returns them oldest
// first.
func (r *testRepo) linear(n int) []plumbing.Hash {
	r.t.Helper()
	var hashes []plumbing.Hash
	for i := range n {
		var parents []plumbing.Hash
		if i > 0 {
			parents = append(parents, hashes[i-1])
		}
		hashes = append(hashes, r.commit("commit "+string(rune('a'+i)), time.Duration(i)*time.Minute, parents...))
	}
	r.branch("main", hashes[n-1])
	r.switchTo("main")
	return hashes
}

// writeCommit commits real file contents through the worktree.
func writeCommit(t *testing.T, repo *gitlib.Repository, msg string, when time.Time, files map[string]string) plumbing.Hash {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)
	for name, content := range files {
		require.NoError(t, util.WriteFile(wt.Filesystem, name, []byte(content), 0o644))
		_, err := wt.Add(name)
		require.NoError(t, err)
	}
	sig := &object.Signature{Name: "Bob", Email: "bob@example.com", When: when}
	h, err := wt.Commit(msg, &gitlib.CommitOptions{Author: sig, Committer: sig, AllowEmptyCommits: true})
	require.NoError(t, err)
	return h
}

func ids(commits []CommitDescriptor) []string {
	out := make([]string, len(commits))
	for i, c := range commits {
		out[i] = c.ID
	}
	return out
}

func hashStrings(hashes ...plumbing.Hash) []string {
	out := make([]string, len(hashes))
	for i, h := range hashes {
		out[i] = h.String()
	}
	return out
}
