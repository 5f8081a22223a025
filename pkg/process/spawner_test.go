package process

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/grovetools/workon/command"
	"github.com/grovetools/workon/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInheritsStdio(t *testing.T) {
	var out bytes.Buffer
	s := NewExecSpawner(&command.RealExecutor{})
	s.stdout = &out
	s.stdin = nil

	dir := t.TempDir()
	err := s.Run(context.Background(), Spec{Name: "pwd", Dir: dir})
	require.NoError(t, err)
	assert.Contains(t, out.String(), filepath.Base(dir))
}

func TestRunFailureIsCommandFailed(t *testing.T) {
	s := NewExecSpawner(nil)
	s.stdout = &bytes.Buffer{}
	s.stderr = &bytes.Buffer{}

	err := s.Run(context.Background(), Spec{Name: "false"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeCommandFailed, errors.GetCode(err))
}

func TestStartDoesNotWait(t *testing.T) {
	s := NewExecSpawner(nil)
	err := s.Start(context.Background(), Spec{Name: "sleep", Args: []string{"0"}})
	require.NoError(t, err)

	err = s.Start(context.Background(), Spec{Name: "definitely-not-a-binary-workon"})
	assert.Error(t, err)
}

func TestSpecString(t *testing.T) {
	assert.Equal(t, "npm run dev", Spec{Name: "npm", Args: []string{"run", "dev"}}.String())
	assert.Equal(t, "claude", Spec{Name: "claude"}.String())
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.Start(context.Background(), Spec{Name: "code"}))
	require.NoError(t, r.Run(context.Background(), Spec{Name: "claude"}))

	assert.Equal(t, []string{"code", "claude"}, r.Names())
	assert.True(t, r.Calls[0].Detached)
	assert.False(t, r.Calls[1].Detached)
}
