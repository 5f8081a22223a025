package project

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/workon/config"
	"github.com/grovetools/workon/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnabled(t *testing.T) {
	tests := []struct {
		value interface{}
		want  bool
	}{
		{true, true},
		{false, false},
		{"true", true},
		{"false", false},
		{"dev", true},
		{map[string]interface{}{"flags": []interface{}{"-c"}}, true},
		{nil, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.value), func(t *testing.T) {
			assert.Equal(t, tt.want, Enabled(tt.value))
		})
	}
}

func TestEnabledEvents(t *testing.T) {
	p := &Project{Events: map[string]interface{}{
		"npm":    "dev",
		"cwd":    true,
		"ide":    "false",
		"web":    false,
		"claude": map[string]interface{}{},
	}}
	assert.Equal(t, []string{"claude", "cwd", "npm"}, p.EnabledEvents())
	assert.True(t, p.HasEvent("cwd"))
	assert.False(t, p.HasEvent("web"))
	assert.False(t, p.HasEvent("docker"))
}

func TestSplitName(t *testing.T) {
	base, branch := SplitName("demo#feature-x")
	assert.Equal(t, "demo", base)
	assert.Equal(t, "feature-x", branch)

	base, branch = SplitName("demo")
	assert.Equal(t, "demo", base)
	assert.Empty(t, branch)

	assert.Equal(t, "demo#main", QualifiedName("demo", "main"))
	assert.True(t, (&Project{Name: "demo#main"}).IsBranchQualified())
	assert.Equal(t, "demo", (&Project{Name: "demo#main"}).BaseName())
}

func TestDeriveBranch(t *testing.T) {
	base := &Project{
		Name:     "demo",
		Path:     "/src/demo",
		IDE:      "code",
		Homepage: "http://localhost:3000",
		Events: map[string]interface{}{
			"cwd":    true,
			"claude": map[string]interface{}{"flags": []interface{}{"--continue"}, "split_terminal": true},
		},
	}

	derived, err := DeriveBranch(base, "feature-x", map[string]interface{}{
		"events": map[string]interface{}{
			"claude": map[string]interface{}{"flags": []interface{}{"--resume"}},
			"npm":    "test",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "demo#feature-x", derived.Name)
	assert.Equal(t, "feature-x", derived.Branch)
	assert.Equal(t, "/src/demo", derived.Path)
	assert.Equal(t, "code", derived.IDE)

	claude := derived.Events["claude"].(map[string]interface{})
	assert.Equal(t, []interface{}{"--resume"}, claude["flags"])
	assert.Equal(t, true, claude["split_terminal"], "deep merge keeps sibling keys")
	assert.Equal(t, "test", derived.Events["npm"])

	// No aliasing in either direction.
	claude["split_terminal"] = false
	derived.Events["cwd"] = false
	baseClaude := base.Events["claude"].(map[string]interface{})
	assert.Equal(t, true, baseClaude["split_terminal"])
	assert.Equal(t, true, base.Events["cwd"])
	assert.Equal(t, []interface{}{"--continue"}, baseClaude["flags"])
	assert.NotContains(t, base.Events, "npm")
}

func TestDeriveBranchRejects(t *testing.T) {
	base := &Project{Name: "demo", Path: "/src/demo"}

	tests := []struct {
		name   string
		base   *Project
		branch string
	}{
		{"hash in branch", base, "a#b"},
		{"empty branch", base, ""},
		{"space in branch", base, "bad branch"},
		{"dot in branch", base, "v1.2"},
		{"nil base", nil, "main"},
		{"branch of branch", &Project{Name: "demo#main"}, "other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeriveBranch(tt.base, tt.branch, nil)
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))
		})
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]interface{}{
		"a": map[string]interface{}{"x": 1, "y": 2},
		"b": "keep",
	}
	src := map[string]interface{}{
		"a": map[string]interface{}{"y": 3, "z": 4},
		"c": []interface{}{"new"},
	}

	out := DeepMerge(dst, src)
	assert.Equal(t, map[string]interface{}{
		"a": map[string]interface{}{"x": 1, "y": 3, "z": 4},
		"b": "keep",
		"c": []interface{}{"new"},
	}, out)
	assert.Equal(t, 2, dst["a"].(map[string]interface{})["y"])
}

func newStore(t *testing.T, base string) *config.FileStore {
	t.Helper()
	return config.NewMemoryStore(map[string]interface{}{
		"project_defaults": map[string]interface{}{"base": base, "ide": "vim"},
		"projects": map[string]interface{}{
			"demo": map[string]interface{}{
				"path":   "demo",
				"ide":    "code",
				"events": map[string]interface{}{"cwd": true, "ide": true},
			},
			"demo#feature-x": map[string]interface{}{
				"path":   "demo",
				"branch": "feature-x",
				"events": map[string]interface{}{"cwd": true, "claude": true},
			},
			"abs": map[string]interface{}{"path": "/opt/abs"},
		},
	})
}

func TestLoad(t *testing.T) {
	s := newStore(t, "/home/dev/src")

	p, err := Load(s, "demo")
	require.NoError(t, err)
	assert.Equal(t, "demo", p.Name)
	assert.Equal(t, "/home/dev/src/demo", p.Path)
	assert.Equal(t, "code", p.IDE)

	abs, err := Load(s, "abs")
	require.NoError(t, err)
	assert.Equal(t, "/opt/abs", abs.Path)
	assert.Equal(t, "vim", abs.IDE, "falls back to project_defaults.ide")
	assert.NotNil(t, abs.Events)

	_, err = Load(s, "missing")
	assert.Equal(t, errors.ErrCodeProjectNotFound, errors.GetCode(err))
}

func TestLoadAll(t *testing.T) {
	s := newStore(t, "/home/dev/src")

	all, err := LoadAll(s)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "abs", all[0].Name)
	assert.Equal(t, "demo", all[1].Name)
	assert.Equal(t, "demo#feature-x", all[2].Name)
	assert.Equal(t, "/home/dev/src/demo", all[2].Path)

	assert.Equal(t, []string{"abs", "demo", "demo#feature-x"}, Names(s))
	assert.True(t, Exists(s, "demo#feature-x"))
	assert.False(t, Exists(s, "nope"))
}

func TestSaveAndRemove(t *testing.T) {
	s := newStore(t, "/home/dev/src")

	p := &Project{
		Name:   "api",
		Path:   "/home/dev/src/api",
		Events: map[string]interface{}{"cwd": true},
	}
	require.NoError(t, Save(s, p))

	path, ok := s.Get("projects.api.path")
	require.True(t, ok)
	assert.Equal(t, "api", path, "paths under base are stored relative")

	loaded, err := Load(s, "api")
	require.NoError(t, err)
	assert.Equal(t, "/home/dev/src/api", loaded.Path)

	require.NoError(t, Remove(s, "api"))
	assert.False(t, Exists(s, "api"))
	assert.Error(t, Remove(s, "api"))
}

func TestRecordKeepsOutsidePathsAbsolute(t *testing.T) {
	rec := Record(&Project{Name: "x", Path: "/elsewhere/x"}, "/home/dev/src")
	assert.Equal(t, "/elsewhere/x", rec["path"])
}

type fakeCatalog map[string]bool

func (f fakeCatalog) ValidateEvent(name string, value interface{}) error {
	if !f[name] {
		return errors.EventNotFound(name)
	}
	return nil
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	catalog := fakeCatalog{"cwd": true, "ide": true}

	valid := &Project{Name: "demo", Path: dir, Homepage: "https://example.com", Events: map[string]interface{}{"cwd": true}}
	assert.NoError(t, valid.Validate(catalog))

	branch := &Project{Name: "demo#feature-x", Path: dir}
	assert.NoError(t, branch.Validate(catalog))

	bad := &Project{
		Name:     "bad name",
		Path:     file,
		Homepage: "not a url",
		Events:   map[string]interface{}{"teleport": true},
	}
	err := bad.Validate(catalog)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetCode(err))

	we, _ := errors.As(err)
	problems := we.Details["problems"].([]string)
	assert.Len(t, problems, 4)
	assert.Contains(t, err.Error(), "not a directory")
	assert.Contains(t, err.Error(), "teleport")
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL(""))
	assert.NoError(t, ValidateURL("http://localhost:3000/app"))
	assert.Error(t, ValidateURL("localhost"))
	assert.Error(t, ValidateURL("http//broken"))
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"demo", false},
		{"demo#feature-x", false},
		{"demo#feature/login", false},
		{"", true},
		{"my demo", true},
		{"demo#v1.2", true},
		{"demo#", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.name)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))
		})
	}
}
