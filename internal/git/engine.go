package git

import "context"

// Engine is the repository collaborator used by the commands and the
// interactive views.
type Engine interface {
	RepoPath() string
	LoadLog(start string, limit int) (*LogGraph, error)
	Walk(start string, limit int) (WalkResult, error)
	RefMap() (RefMap, int, error)
	Parents(id string) ([]string, error)
	CommitDetail(id string) (CommitDetail, error)
	Resolve(ref string) (CommitDescriptor, error)
	IsCommit(ref string) bool
	BranchNames() (names []string, current string, err error)
	BranchInfo(name string) (BranchInfo, error)
	Fetch(ctx context.Context) error
	CheckoutBranch(ctx context.Context, name string) error
	CheckoutCommit(ctx context.Context, id string) (string, error)
}

var _ Engine = (*Service)(nil)
