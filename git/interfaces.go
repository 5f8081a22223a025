package git

import "context"

// BranchProvider answers "which branch is checked out in this directory".
type BranchProvider interface {
	CurrentBranch(ctx context.Context, dir string) (string, error)
}

// RepositoryProvider adds the queries used when registering a directory.
type RepositoryProvider interface {
	BranchProvider

	GetGitRoot(ctx context.Context, dir string) (string, error)
	GetRepoInfo(ctx context.Context, dir string) (repo string, branch string, err error)
}
