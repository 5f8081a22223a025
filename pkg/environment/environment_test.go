package environment

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/workon/config"
	"github.com/grovetools/workon/errors"
	"github.com/grovetools/workon/git"
	"github.com/grovetools/workon/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBranches struct {
	branch string
	err    error
	calls  int
}

func (f *fakeBranches) CurrentBranch(ctx context.Context, dir string) (string, error) {
	f.calls++
	return f.branch, f.err
}

func quiet() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// setup creates base/demo (with a .git dir when vcs is set) and base/other.
func setup(t *testing.T, vcs bool, projects map[string]interface{}) (string, *config.FileStore) {
	t.Helper()
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "demo"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(base, "other"), 0755))
	if vcs {
		require.NoError(t, os.Mkdir(filepath.Join(base, "demo", ".git"), 0755))
	}
	store := config.NewMemoryStore(map[string]interface{}{
		"project_defaults": map[string]interface{}{"base": base},
		"projects":         projects,
	})
	return base, store
}

func TestRecognizeNoMatchIsNeutral(t *testing.T) {
	_, store := setup(t, false, map[string]interface{}{
		"demo": map[string]interface{}{"path": "demo"},
	})
	r := NewRecognizer(store, &fakeBranches{}, quiet())

	env, err := r.Recognize(context.Background(), t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, env)
	assert.False(t, env.IsProject())
	assert.Empty(t, env.Matching)
}

func TestRecognizeWithoutVCS(t *testing.T) {
	base, store := setup(t, false, map[string]interface{}{
		"demo":  map[string]interface{}{"path": "demo"},
		"other": map[string]interface{}{"path": "other"},
	})
	branches := &fakeBranches{branch: "main"}
	r := NewRecognizer(store, branches, quiet())

	env, err := r.Recognize(context.Background(), filepath.Join(base, "demo"))
	require.NoError(t, err)
	require.True(t, env.IsProject())
	assert.Equal(t, "demo", env.Project.Name)
	assert.Empty(t, env.ExactName)
	assert.Zero(t, branches.calls, "no .git means no branch query")
}

func TestRecognizePrefersBranchRecord(t *testing.T) {
	base, store := setup(t, true, map[string]interface{}{
		"demo":           map[string]interface{}{"path": "demo"},
		"demo#feature-x": map[string]interface{}{"path": "demo", "branch": "feature-x"},
	})
	r := NewRecognizer(store, &fakeBranches{branch: "feature-x"}, quiet())

	env, err := r.Recognize(context.Background(), filepath.Join(base, "demo"))
	require.NoError(t, err)
	require.True(t, env.IsProject())
	assert.Equal(t, "demo#feature-x", env.Project.Name)
	assert.Equal(t, "demo#feature-x", env.ExactName)
	assert.Len(t, env.Matching, 2)
}

func TestRecognizeAnnotatesAnchorWithBranch(t *testing.T) {
	base, store := setup(t, true, map[string]interface{}{
		"demo":           map[string]interface{}{"path": "demo"},
		"demo#feature-x": map[string]interface{}{"path": "demo"},
	})
	r := NewRecognizer(store, &fakeBranches{branch: "main"}, quiet())

	env, err := r.Recognize(context.Background(), filepath.Join(base, "demo"))
	require.NoError(t, err)
	assert.Equal(t, "demo", env.Project.Name)
	assert.Equal(t, "main", env.Project.Branch)
	assert.Equal(t, "demo#main", env.ExactName)

	// The snapshot record itself is not mutated.
	all, err := r.Projects(false)
	require.NoError(t, err)
	for _, p := range all {
		if p.Name == "demo" {
			assert.Empty(t, p.Branch)
		}
	}
}

func TestRecognizeBranchFailurePropagates(t *testing.T) {
	base, store := setup(t, true, map[string]interface{}{
		"demo": map[string]interface{}{"path": "demo"},
	})
	r := NewRecognizer(store, &fakeBranches{err: fmt.Errorf("signal: killed")}, quiet())

	_, err := r.Recognize(context.Background(), filepath.Join(base, "demo"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeRecognitionFailed, errors.GetCode(err))
}

func TestRecognizeThroughSymlink(t *testing.T) {
	base, store := setup(t, false, map[string]interface{}{
		"demo": map[string]interface{}{"path": "demo"},
	})
	link := filepath.Join(t.TempDir(), "link")
	require.NoError(t, os.Symlink(filepath.Join(base, "demo"), link))

	r := NewRecognizer(store, &fakeBranches{}, quiet())
	env, err := r.Recognize(context.Background(), link)
	require.NoError(t, err)
	require.True(t, env.IsProject())
	assert.Equal(t, "demo", env.Project.Name)
}

func TestSnapshotRefresh(t *testing.T) {
	base, store := setup(t, false, map[string]interface{}{})
	r := NewRecognizer(store, &fakeBranches{}, quiet())

	env, err := r.Recognize(context.Background(), filepath.Join(base, "other"))
	require.NoError(t, err)
	assert.False(t, env.IsProject())

	require.NoError(t, store.Set("projects.other.path", "other"))

	// Cached snapshot: no automatic invalidation.
	env, err = r.Recognize(context.Background(), filepath.Join(base, "other"))
	require.NoError(t, err)
	assert.False(t, env.IsProject())

	_, err = r.Projects(true)
	require.NoError(t, err)
	env, err = r.Recognize(context.Background(), filepath.Join(base, "other"))
	require.NoError(t, err)
	assert.True(t, env.IsProject())
}

func TestRecognizeWithRealGit(t *testing.T) {
	base, store := setup(t, false, map[string]interface{}{
		"demo":           map[string]interface{}{"path": "demo", "ide": "code"},
		"demo#feature-x": map[string]interface{}{"path": "demo", "ide": "vim"},
	})
	dir := filepath.Join(base, "demo")
	testutil.InitGitRepo(t, dir)
	testutil.CreateBranch(t, dir, "feature-x")

	r := NewRecognizer(store, git.NewCLIRepository(), quiet())
	env, err := r.Recognize(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "demo#feature-x", env.Project.Name)
	assert.Equal(t, "vim", env.Project.IDE)
}
