// Package project models the projects workon switches between and their
// persisted records.
package project

import (
	"sort"
	"strings"

	"github.com/grovetools/workon/config"
)

// BranchSeparator joins a base project name and a branch name.
const BranchSeparator = "#"

// Project is one registered working directory and its activation events.
// Event values are true, "true", a string, or an object; false and
// "false" disable the event.
type Project struct {
	Name     string                 `yaml:"-" json:"-"`
	Path     string                 `yaml:"path" json:"path" jsonschema:"description=Project directory; relative paths are joined to project_defaults.base"`
	Branch   string                 `yaml:"branch,omitempty" json:"branch,omitempty" jsonschema:"description=Git branch a branch-qualified project tracks"`
	IDE      string                 `yaml:"ide,omitempty" json:"ide,omitempty" jsonschema:"description=Command used to open the project in an editor"`
	Homepage string                 `yaml:"homepage,omitempty" json:"homepage,omitempty" jsonschema:"description=URL opened by the web event,format=uri"`
	Events   map[string]interface{} `yaml:"events,omitempty" json:"events,omitempty" jsonschema:"description=Activation events keyed by name"`
	Scripts  map[string]interface{} `yaml:"scripts,omitempty" json:"scripts,omitempty" jsonschema:"description=Reserved for event hooks; not executed"`
}

// Defaults is the project_defaults section.
type Defaults struct {
	Base string `yaml:"base" json:"base,omitempty" jsonschema:"description=Directory relative project paths are resolved against"`
	IDE  string `yaml:"ide" json:"ide,omitempty" jsonschema:"description=Editor used when a project sets none"`
}

// QualifiedName returns "base#branch".
func QualifiedName(base, branch string) string {
	return base + BranchSeparator + branch
}

// SplitName splits a possibly branch-qualified name.
func SplitName(name string) (base, branch string) {
	if i := strings.Index(name, BranchSeparator); i >= 0 {
		return name[:i], name[i+1:]
	}
	return name, ""
}

// IsBranchQualified reports whether the project is a "base#branch" record.
func (p *Project) IsBranchQualified() bool {
	return strings.Contains(p.Name, BranchSeparator)
}

// BaseName returns the unqualified part of the project name.
func (p *Project) BaseName() string {
	base, _ := SplitName(p.Name)
	return base
}

// Enabled reports whether an event value turns the event on.
func Enabled(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != "false"
	default:
		return true
	}
}

// EnabledEvents returns the names of events switched on for the project,
// sorted by name.
func (p *Project) EnabledEvents() []string {
	var names []string
	for name, value := range p.Events {
		if Enabled(value) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// HasEvent reports whether the named event is enabled.
func (p *Project) HasEvent(name string) bool {
	value, ok := p.Events[name]
	return ok && Enabled(value)
}

// EventConfig returns the raw configuration for an event.
func (p *Project) EventConfig(name string) (interface{}, bool) {
	value, ok := p.Events[name]
	return value, ok
}

// Clone returns a deep copy sharing no maps with p.
func (p *Project) Clone() *Project {
	cp := *p
	cp.Events = cloneMap(p.Events)
	cp.Scripts = cloneMap(p.Scripts)
	return &cp
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	return config.DeepCopy(m).(map[string]interface{})
}
