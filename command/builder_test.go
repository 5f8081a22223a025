package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidators(t *testing.T) {
	sb := NewSafeBuilder()

	tests := []struct {
		kind    string
		value   string
		wantErr string
	}{
		{"projectName", "demo", ""},
		{"projectName", "My_Project-2", ""},
		{"projectName", "", "cannot be empty"},
		{"projectName", "   ", "cannot be empty"},
		{"projectName", "demo#feature", "letters, numbers"},
		{"projectName", "my project", "letters, numbers"},
		{"projectName", "demo.api", "letters, numbers"},

		{"branchName", "feature-x", ""},
		{"branchName", "feature/login", ""},
		{"branchName", "release-1.2", ""},
		{"branchName", "", "cannot be empty"},
		{"branchName", "feat#1", `"#" sign`},
		{"branchName", "main; rm -rf /", "invalid git ref"},

		{"eventName", "cwd", ""},
		{"eventName", "run-tests", ""},
		{"eventName", "Claude", "invalid event name"},
		{"eventName", "1npm", "invalid event name"},
		{"eventName", "", "cannot be empty"},

		{"fileName", "docker-compose.dev.yml", ""},
		{"fileName", "/etc/compose.yml", ""},
		{"fileName", "../compose.yml", "'..'"},
		{"fileName", "compose.yml | cat", "invalid characters"},
		{"fileName", "$(whoami).yml", "invalid characters"},
		{"fileName", "", "cannot be empty"},

		{"gitRef", "v1.2.3", ""},
		{"gitRef", "my branch", "invalid git ref"},

		{"shellWord", "x", "no validator"},
	}

	for _, tt := range tests {
		t.Run(tt.kind+"/"+tt.value, func(t *testing.T) {
			err := sb.Validate(tt.kind, tt.value)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBuild(t *testing.T) {
	sb := NewSafeBuilder()

	cmd, err := sb.Build(context.Background(), "tmux", "has-session", "-t", "=workon-demo")
	require.NoError(t, err)
	defer cmd.Release()
	assert.Equal(t, "tmux has-session -t =workon-demo", cmd.String())
	assert.Equal(t, DefaultTimeout, cmd.timeout)

	c := cmd.Exec()
	assert.Equal(t, []string{"tmux", "has-session", "-t", "=workon-demo"}, c.Args)

	_, err = sb.Build(context.Background(), "")
	assert.Error(t, err)
}

func TestWithTimeout(t *testing.T) {
	cmd, err := NewSafeBuilder().Build(context.Background(), "git", "rev-parse")
	require.NoError(t, err)
	defer cmd.Release()

	cmd.WithTimeout(ProbeTimeout)
	assert.Equal(t, ProbeTimeout, cmd.timeout)
	deadline, ok := cmd.ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(ProbeTimeout), deadline, time.Second)

	cmd.WithTimeout(time.Hour)
	assert.Equal(t, MaxTimeout, cmd.timeout)
}

func TestWithTimeoutKeepsParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	cmd, err := NewSafeBuilder().Build(parent, "git", "status")
	require.NoError(t, err)
	defer cmd.Release()

	cmd.WithTimeout(time.Minute)
	cancel()
	<-cmd.ctx.Done()
	assert.ErrorIs(t, cmd.ctx.Err(), context.Canceled)
}
