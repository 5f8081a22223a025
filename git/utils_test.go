package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/workon/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentBranch(t *testing.T) {
	dir := t.TempDir()
	testutil.InitGitRepo(t, dir)

	repo := NewCLIRepository()
	ctx := context.Background()

	branch, err := repo.CurrentBranch(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, "main", branch)

	testutil.CreateBranch(t, dir, "feature-x")
	branch, err = repo.CurrentBranch(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, "feature-x", branch)

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))
	branch, err = repo.CurrentBranch(ctx, sub)
	require.NoError(t, err)
	assert.Equal(t, "feature-x", branch)
}

func TestCurrentBranchOutsideRepo(t *testing.T) {
	testutil.RequireGit(t)
	dir := t.TempDir()
	// Stop discovery at the temp dir even if /tmp sits inside a repo.
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	_, err := NewCLIRepository().CurrentBranch(context.Background(), dir)
	assert.Error(t, err)
}

func TestFindGitDir(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0755))
	found, ok := FindGitDir(nested)
	require.True(t, ok)
	assert.Equal(t, dir, found)
	assert.True(t, HasGitDir(nested))
}

func TestGetRepoInfo(t *testing.T) {
	dir := t.TempDir()
	testutil.InitGitRepo(t, dir)

	r := NewCLIRepository()
	repo, branch, err := r.GetRepoInfo(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
	assert.Equal(t, filepath.Base(dir), repo)

	root, err := r.GetGitRoot(context.Background(), dir)
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, want, root)

	testutil.RunGitCommand(t, dir, "remote", "add", "origin", "git@github.com:grovetools/workon.git")
	repo, _, err = r.GetRepoInfo(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "workon", repo)
}

func TestExtractRepoName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"git@github.com:user/repo.git", "repo"},
		{"https://github.com/user/repo.git", "repo"},
		{"https://gitlab.example.com/group/sub/tool", "tool"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, extractRepoName(tt.url))
		})
	}
}
