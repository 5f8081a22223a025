package shell

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"/src/demo", "/src/demo"},
		{"--continue", "--continue"},
		{"demo#branch", "'demo#branch'"},
		{"/path/with spaces", "'/path/with spaces'"},
		{"it's", `'it'\''s'`},
		{`say "hi"`, `'say "hi"'`},
		{"$HOME `x`", "'$HOME `x`'"},
		{"", "''"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Quote(tt.in))
		})
	}
}

func TestCommand(t *testing.T) {
	assert.Equal(t, "claude", Command("claude"))
	assert.Equal(t, "npm run dev", Command("npm", "run", "dev"))
	assert.Equal(t, "claude --resume 'my prompt'", Command("claude", "--resume", "my prompt"))
}

func TestQuoteRoundTripsThroughShell(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	inputs := []string{
		`/home/dev/my "odd" project's dir`,
		"tab\there",
		"semi;colon && rm -rf nothing",
	}
	for _, in := range inputs {
		out, err := exec.Command("sh", "-c", "printf '%s' "+Quote(in)).Output()
		require.NoError(t, err)
		assert.Equal(t, in, string(out))
	}
}
