package events

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/grovetools/workon/command"
	"github.com/grovetools/workon/pkg/process"
	"github.com/grovetools/workon/pkg/project"
	"github.com/grovetools/workon/pkg/registry"
	"github.com/grovetools/workon/pkg/tmux"
	"github.com/grovetools/workon/util/shell"
)

const (
	defaultScript      = "dev"
	defaultComposeFile = "docker-compose.yml"
)

// Extension returns the optional events: claude, npm and docker.
func Extension() registry.Catalog {
	return registry.Catalog{
		Name:        "extension",
		Descriptors: []registry.Descriptor{claudeDescriptor(), npmDescriptor(), dockerDescriptor()},
	}
}

func claudeDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:         "claude",
		DisplayName:  "Launch Claude Code",
		Description:  "Launch Claude Code with optional flags and configuration",
		Category:     "development",
		RequiresTmux: true,
		Dependencies: []string{"claude"},
		RequiresCwd:  true,
		Validate:     validateClaude,
		Configure:    configureClaude,
		DefaultConfig: func() interface{} {
			return true
		},
		Process: func(ctx context.Context, a *registry.Activation) error {
			flags := claudeFlags(a.Project)
			if a.ShellMode {
				a.Emit(shell.Command("claude", flags...))
				return nil
			}
			return a.Spawner.Run(ctx, process.Spec{Name: "claude", Args: flags, Dir: a.Project.Path})
		},
		Tmux: &registry.TmuxHint{
			Priority: 100,
			Role:     tmux.RoleAssistant,
			Contribute: func(present map[string]bool) tmux.Layout {
				switch {
				case present["cwd"] && present["npm"]:
					return tmux.LayoutThreePane
				case present["cwd"]:
					return tmux.LayoutSplitTerminal
				default:
					return tmux.LayoutNone
				}
			},
			PaneCommand: func(p *project.Project) string {
				return shell.Command("claude", claudeFlags(p)...)
			},
		},
		Help: registry.Help{
			Usage:       "claude: <configuration>",
			Description: "Launch Claude Code with optional flags and configuration",
			Examples: []registry.Example{
				{Config: "claude: true", Description: "Launch Claude Code with default settings"},
				{Config: `claude: { flags: ["--resume", "--debug"] }`, Description: "Launch Claude with specific flags"},
				{Config: "claude: { split_terminal: true }", Description: "Launch Claude in split terminal with tmux"},
			},
		},
	}
}

func validateClaude(v interface{}) error {
	if isToggle(v) {
		return nil
	}
	m, ok := asMap(v)
	if !ok {
		return fmt.Errorf(`Claude configuration must be a boolean, string "true"/"false", or configuration object`)
	}
	if raw, ok := m["flags"]; ok && raw != nil {
		flags, ok := stringList(raw)
		if !ok {
			return fmt.Errorf("Claude flags must be an array of strings")
		}
		var invalid []string
		for _, f := range flags {
			if !strings.HasPrefix(f, "-") {
				invalid = append(invalid, f)
			}
		}
		if len(invalid) > 0 {
			return fmt.Errorf("Invalid Claude flags: %s. Flags must start with - or --", strings.Join(invalid, ", "))
		}
	}
	if raw, ok := m["split_terminal"]; ok {
		if _, isBool := raw.(bool); !isBool {
			return fmt.Errorf("Claude split_terminal must be a boolean")
		}
	}
	return nil
}

func configureClaude(p registry.Prompter) (interface{}, error) {
	advanced, err := p.Confirm("Configure advanced Claude options?", false)
	if err != nil || !advanced {
		return true, err
	}
	rawFlags, err := p.Input("Claude flags (comma-separated, e.g. --resume,--debug):", "")
	if err != nil {
		return nil, err
	}
	split, err := p.Confirm("Enable split terminal (Claude + shell side-by-side with tmux)?", false)
	if err != nil {
		return nil, err
	}

	cfg := map[string]interface{}{}
	if flags := splitList(rawFlags); len(flags) > 0 {
		cfg["flags"] = toInterfaces(flags)
	}
	if split {
		cfg["split_terminal"] = true
	}
	if len(cfg) == 0 {
		return true, nil
	}
	if err := validateClaude(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func claudeFlags(p *project.Project) []string {
	raw, _ := p.EventConfig("claude")
	m, ok := asMap(raw)
	if !ok {
		return nil
	}
	flags, _ := stringList(m["flags"])
	return flags
}

func npmDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:         "npm",
		DisplayName:  "Run NPM command",
		Description:  "Execute NPM scripts in project directory",
		Category:     "development",
		RequiresTmux: true,
		Dependencies: []string{"npm"},
		RequiresCwd:  true,
		Validate:     validateNpm,
		Configure:    configureNpm,
		DefaultConfig: func() interface{} {
			return defaultScript
		},
		Process: func(ctx context.Context, a *registry.Activation) error {
			script := npmScript(a.Project)
			if a.ShellMode {
				a.Emit(shell.Command("npm", "run", script))
				return nil
			}
			return a.Spawner.Run(ctx, process.Spec{Name: "npm", Args: []string{"run", script}, Dir: a.Project.Path})
		},
		Tmux: &registry.TmuxHint{
			Priority: 50,
			Role:     tmux.RoleScript,
			Contribute: func(present map[string]bool) tmux.Layout {
				switch {
				case present["cwd"] && present["claude"]:
					return tmux.LayoutThreePane
				case present["cwd"]:
					return tmux.LayoutTwoPaneNPM
				default:
					return tmux.LayoutNone
				}
			},
			PaneCommand: func(p *project.Project) string {
				return shell.Command("npm", "run", npmScript(p))
			},
		},
		Help: registry.Help{
			Usage:       "npm: <script-name> | <configuration>",
			Description: "Execute NPM scripts in the project directory",
			Examples: []registry.Example{
				{Config: `npm: "dev"`, Description: "Run npm run dev"},
				{Config: `npm: { command: "test", watch: true }`, Description: "Run tests in watch mode"},
				{Config: `npm: { command: "start", auto_restart: true }`, Description: "Run start with auto-restart on crashes"},
			},
		},
	}
}

func validateNpm(v interface{}) error {
	if isToggle(v) {
		return nil
	}
	if s, ok := v.(string); ok {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("NPM command must be a non-empty string")
		}
		return nil
	}
	m, ok := asMap(v)
	if !ok {
		return fmt.Errorf("NPM configuration must be a boolean, string command, or configuration object")
	}
	if raw, ok := m["command"]; ok {
		if s, isStr := raw.(string); !isStr || strings.TrimSpace(s) == "" {
			return fmt.Errorf("NPM command must be a non-empty string")
		}
	}
	for _, key := range []string{"watch", "auto_restart"} {
		if raw, ok := m[key]; ok {
			if _, isBool := raw.(bool); !isBool {
				return fmt.Errorf("NPM %s must be a boolean", key)
			}
		}
	}
	return nil
}

func configureNpm(p registry.Prompter) (interface{}, error) {
	script, err := p.Input("NPM script to run (e.g., dev, start, test):", defaultScript)
	if err != nil {
		return nil, err
	}
	script = strings.TrimSpace(script)
	if script == "" {
		return nil, fmt.Errorf("NPM command cannot be empty")
	}

	advanced, err := p.Confirm("Configure advanced NPM options?", false)
	if err != nil {
		return nil, err
	}
	if !advanced {
		return script, nil
	}

	watch, err := p.Confirm("Enable watch mode (if supported by command)?", true)
	if err != nil {
		return nil, err
	}
	restart, err := p.Confirm("Auto-restart on crashes?", false)
	if err != nil {
		return nil, err
	}

	cfg := map[string]interface{}{"command": script}
	if watch {
		cfg["watch"] = true
	}
	if restart {
		cfg["auto_restart"] = true
	}
	return cfg, nil
}

// npmScript returns the script name; toggles mean the default script.
func npmScript(p *project.Project) string {
	raw, _ := p.EventConfig("npm")
	switch v := raw.(type) {
	case string:
		if v != "true" && v != "false" && strings.TrimSpace(v) != "" {
			return v
		}
	case map[string]interface{}:
		if cmd, ok := v["command"].(string); ok && cmd != "" {
			return cmd
		}
	}
	return defaultScript
}

func dockerDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:         "docker",
		DisplayName:  "Docker container management",
		Description:  "Start/stop Docker containers for the project",
		Category:     "development",
		Dependencies: []string{"docker"},
		Validate:     validateDocker,
		Configure:    configureDocker,
		DefaultConfig: func() interface{} {
			return map[string]interface{}{"compose_file": defaultComposeFile}
		},
		Process: func(ctx context.Context, a *registry.Activation) error {
			args := dockerArgs(a.Project)
			if a.ShellMode {
				a.Emit(shell.Command("docker-compose", args...))
				return nil
			}
			// `up -d` returns once containers are started.
			return a.Spawner.Run(ctx, process.Spec{Name: "docker-compose", Args: args, Dir: a.Project.Path})
		},
		Help: registry.Help{
			Usage:       "docker: <compose-file> | <configuration>",
			Description: "Start Docker containers using docker-compose",
			Examples: []registry.Example{
				{Config: "docker: true", Description: "Start containers using default docker-compose.yml"},
				{Config: `docker: "docker-compose.dev.yml"`, Description: "Use specific compose file"},
				{Config: `docker: { compose_file: "docker-compose.yml", services: ["web", "db"] }`, Description: "Start only specific services"},
			},
		},
	}
}

func validateDocker(v interface{}) error {
	if isToggle(v) {
		return nil
	}
	if s, ok := v.(string); ok {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("Docker compose file cannot be empty")
		}
		return validateComposeFile(s)
	}
	m, ok := asMap(v)
	if !ok {
		return fmt.Errorf("Docker configuration must be a boolean, string, or configuration object")
	}
	if raw, ok := m["compose_file"]; ok {
		file, isStr := raw.(string)
		if !isStr {
			return fmt.Errorf("Docker compose_file must be a string")
		}
		if err := validateComposeFile(file); err != nil {
			return err
		}
	}
	if raw, ok := m["services"]; ok {
		if _, isList := stringList(raw); !isList {
			return fmt.Errorf("Docker services must be an array")
		}
	}
	return nil
}

func validateComposeFile(path string) error {
	if err := command.NewSafeBuilder().Validate("fileName", path); err != nil {
		return fmt.Errorf("Docker compose file: %v", err)
	}
	return nil
}

func configureDocker(p registry.Prompter) (interface{}, error) {
	file, err := p.Input("Docker Compose file path (relative to project):", defaultComposeFile)
	if err != nil {
		return nil, err
	}
	rawServices, err := p.Input("Services to start (comma-separated, or leave empty for all):", "")
	if err != nil {
		return nil, err
	}

	file = strings.TrimSpace(file)
	if file == "" {
		file = defaultComposeFile
	}
	cfg := map[string]interface{}{"compose_file": file}
	if services := splitList(rawServices); len(services) > 0 {
		cfg["services"] = toInterfaces(services)
	}
	return cfg, nil
}

// dockerArgs builds `-f <file> up -d [services]`. Relative compose files
// resolve against the project directory.
func dockerArgs(p *project.Project) []string {
	file := defaultComposeFile
	var services []string

	raw, _ := p.EventConfig("docker")
	switch v := raw.(type) {
	case string:
		if v != "true" && v != "false" && strings.TrimSpace(v) != "" {
			file = v
		}
	case map[string]interface{}:
		if f, ok := v["compose_file"].(string); ok && f != "" {
			file = f
		}
		services, _ = stringList(v["services"])
	}

	if !filepath.IsAbs(file) {
		file = filepath.Join(p.Path, file)
	}
	return append([]string{"-f", file, "up", "-d"}, services...)
}
