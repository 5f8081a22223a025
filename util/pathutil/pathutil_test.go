package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("WORKON_TEST_DIR", "/opt/src")

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/code", filepath.Join(home, "code")},
		{"$WORKON_TEST_DIR/demo", "/opt/src/demo"},
		{"relative/dir", "relative/dir"},
		{"~user/x", "~user/x"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Expand(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAbsolutify(t *testing.T) {
	got, err := Absolutify("/home/dev/src", "demo")
	require.NoError(t, err)
	assert.Equal(t, "/home/dev/src/demo", got)

	got, err = Absolutify("/home/dev/src", "/elsewhere/demo")
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere/demo", got)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	got, err = Absolutify("", "demo")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, "demo"), got)
}

func TestCanonicalizeResolvesSymlinks(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real")
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Mkdir(real, 0755))
	require.NoError(t, os.Symlink(real, link))

	canonReal, err := Canonicalize(real)
	require.NoError(t, err)
	canonLink, err := Canonicalize(link)
	require.NoError(t, err)
	assert.Equal(t, canonReal, canonLink)
	assert.True(t, SamePath(real, link))

	missing := filepath.Join(dir, "missing", "child")
	got, err := Canonicalize(missing)
	require.NoError(t, err)
	assert.Equal(t, missing, got)
}

func TestFindUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0755))

	found, ok := FindUp(nested, ".git")
	require.True(t, ok)
	assert.Equal(t, root, found)

	_, ok = FindUp(nested, ".definitely-not-here-workon")
	assert.False(t, ok)
}
