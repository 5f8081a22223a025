package git

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/grovetools/workon/command"
	"github.com/grovetools/workon/util/pathutil"
)

// BranchTimeout bounds the branch query.
const BranchTimeout = 5 * time.Second

// HasGitDir reports whether a .git entry is discoverable from dir upward.
// It does not run git.
func HasGitDir(dir string) bool {
	_, ok := FindGitDir(dir)
	return ok
}

// FindGitDir returns the nearest ancestor of dir (inclusive) that contains
// a .git entry. Worktrees and submodules use a .git file, which counts.
func FindGitDir(dir string) (string, bool) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	return pathutil.FindUp(abs, ".git")
}

func output(ctx context.Context, sb *command.SafeBuilder, timeout time.Duration, dir string, args ...string) (string, error) {
	cmd, err := sb.Build(ctx, "git", args...)
	if err != nil {
		return "", fmt.Errorf("failed to build command: %w", err)
	}
	defer cmd.Release()
	cmd.WithTimeout(timeout)

	execCmd := cmd.Exec()
	execCmd.Dir = dir
	out, err := execCmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s: %w", cmd.String(), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// currentBranch runs `git rev-parse --abbrev-ref HEAD`. A detached HEAD
// reports "HEAD".
func currentBranch(ctx context.Context, sb *command.SafeBuilder, dir string) (string, error) {
	branch, err := output(ctx, sb, BranchTimeout, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("get current branch: %w", err)
	}
	if branch == "" {
		return "", fmt.Errorf("get current branch: empty output")
	}
	return branch, nil
}

// extractRepoName extracts repository name from git URL
func extractRepoName(url string) string {
	url = strings.TrimSuffix(url, ".git")

	// Handle SSH URLs (git@github.com:user/repo)
	if strings.HasPrefix(url, "git@") {
		parts := strings.SplitN(url, ":", 2)
		if len(parts) == 2 {
			url = parts[1]
		}
	}

	parts := strings.Split(url, "/")
	if last := parts[len(parts)-1]; last != "" {
		return last
	}
	return "unknown"
}
