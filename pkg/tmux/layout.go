package tmux

// Layout names a pane arrangement.
type Layout string

const (
	LayoutNone          Layout = "none"
	LayoutSplitTerminal Layout = "split-terminal"
	LayoutTwoPaneNPM    Layout = "two-pane-npm"
	LayoutThreePane     Layout = "three-pane"
)

// Role is what a pane hosts. Events declare the role they fill; the shell
// role is always a plain login shell.
type Role string

const (
	RoleShell     Role = "shell"
	RoleAssistant Role = "assistant"
	RoleScript    Role = "script"
)

// slot is one pane of an arrangement. The first slot is created with
// new-session; the rest with split-window.
type slot struct {
	role   Role
	split  string // "-h" or "-v"
	target string // pane the split applies to, relative to the session
}

var arrangements = map[Layout][]slot{
	// assistant | shell
	LayoutSplitTerminal: {
		{role: RoleAssistant},
		{role: RoleShell, split: "-h"},
	},
	// shell | script
	LayoutTwoPaneNPM: {
		{role: RoleShell},
		{role: RoleScript, split: "-h"},
	},
	// assistant | shell / script
	LayoutThreePane: {
		{role: RoleAssistant},
		{role: RoleShell, split: "-h"},
		{role: RoleScript, split: "-v", target: "0.1"},
	},
}

// Roles returns the roles a layout places, in pane order. LayoutNone and
// unknown layouts place nothing.
func (l Layout) Roles() []Role {
	slots := arrangements[l]
	roles := make([]Role, len(slots))
	for i, s := range slots {
		roles[i] = s.role
	}
	return roles
}

// Multiplexed reports whether the layout needs a tmux session.
func (l Layout) Multiplexed() bool {
	return len(arrangements[l]) > 0
}

// PaneCommands maps a role to the command its pane runs. The shell role is
// ignored.
type PaneCommands map[Role]string
