package git

import (
	"context"
	"path/filepath"

	"github.com/grovetools/workon/command"
)

// CLIRepository implements RepositoryProvider using git CLI
type CLIRepository struct {
	cmdBuilder *command.SafeBuilder
}

// Ensure it implements the interface
var _ RepositoryProvider = (*CLIRepository)(nil)

// NewCLIRepository creates a new CLI repository provider
func NewCLIRepository() *CLIRepository {
	return NewCLIRepositoryWithBuilder(command.NewSafeBuilder())
}

// NewCLIRepositoryWithBuilder uses the given builder for every git call.
func NewCLIRepositoryWithBuilder(sb *command.SafeBuilder) *CLIRepository {
	return &CLIRepository{cmdBuilder: sb}
}

// CurrentBranch returns the checked-out branch of dir, bounded by BranchTimeout.
func (r *CLIRepository) CurrentBranch(ctx context.Context, dir string) (string, error) {
	return currentBranch(ctx, r.cmdBuilder, dir)
}

// GetGitRoot returns the root directory of the git repository
func (r *CLIRepository) GetGitRoot(ctx context.Context, dir string) (string, error) {
	return output(ctx, r.cmdBuilder, BranchTimeout, dir, "rev-parse", "--show-toplevel")
}

// GetRepoInfo returns the repository name and current branch. The name comes
// from the origin remote, falling back to the root directory name.
func (r *CLIRepository) GetRepoInfo(ctx context.Context, dir string) (string, string, error) {
	root, err := r.GetGitRoot(ctx, dir)
	if err != nil {
		return "", "", err
	}
	branch, err := r.CurrentBranch(ctx, dir)
	if err != nil {
		return "", "", err
	}

	remote, err := output(ctx, r.cmdBuilder, BranchTimeout, root, "config", "--get", "remote.origin.url")
	if err != nil || remote == "" {
		return filepath.Base(root), branch, nil
	}
	return extractRepoName(remote), branch, nil
}
