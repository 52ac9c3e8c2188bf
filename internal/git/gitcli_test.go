package git

import (
	"context"
	"os/exec"
	"testing"
	"time"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/require"
)

func TestRunGitCommandMissingExecutable(t *testing.T) {
	orig := gitExecutable
	gitExecutable = "gx-test-missing-git"
	t.Cleanup(func() { gitExecutable = orig })

	svc := &Service{path: t.TempDir(), now: time.Now}
	err := svc.Fetch(context.Background())
	require.ErrorIs(t, err, ErrCommand)
	require.Contains(t, Help(err), "PATH")
}

func TestRunGitCommandWithoutRoot(t *testing.T) {
	svc := &Service{now: time.Now}
	err := svc.CheckoutBranch(context.Background(), "main")
	require.ErrorIs(t, err, ErrCommand)
}

func TestCheckoutBranchRejectsOptions(t *testing.T) {
	svc := &Service{path: t.TempDir(), now: time.Now}
	err := svc.CheckoutBranch(context.Background(), "--force")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCheckoutThroughGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	repo, err := gitlib.PlainInit(dir, false)
	require.NoError(t, err)
	first := writeCommit(t, repo, "first", testEpoch, map[string]string{"a.txt": "one\n"})
	second := writeCommit(t, repo, "second", testEpoch.Add(time.Minute), map[string]string{"a.txt": "two\n"})
	require.NoError(t, repo.Storer.SetReference(plumbing.NewHashReference(plumbing.NewBranchReferenceName("feature"), first)))

	svc, err := Open(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, svc.CheckoutBranch(ctx, "feature"))
	name, err := svc.CurrentBranch()
	require.NoError(t, err)
	require.Equal(t, "feature", name)

	short, err := svc.CheckoutCommit(ctx, second.String())
	require.NoError(t, err)
	require.Equal(t, second.String()[:minShortLen], short)
	_, err = svc.CurrentBranch()
	require.ErrorIs(t, err, ErrDetached)

	err = svc.CheckoutBranch(ctx, "does-not-exist")
	require.ErrorIs(t, err, ErrCommand)
	require.Empty(t, Help(err))
}
