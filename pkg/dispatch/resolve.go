package dispatch

import (
	"github.com/grovetools/workon/errors"
	"github.com/grovetools/workon/pkg/project"
	"github.com/grovetools/workon/pkg/registry"
)

const cwdEvent = "cwd"

// ConfiguredEvents lists the project's enabled events in registration
// order. Enabled names the registry does not know are left out.
func ConfiguredEvents(reg *registry.Registry, p *project.Project) ([]string, error) {
	names, err := reg.Names()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, name := range names {
		if p.HasEvent(name) {
			out = append(out, name)
		}
	}
	return out, nil
}

// Resolve expands the requested events into the ordered list to run. A nil
// request means every configured event. Every requested event must be
// enabled on the project. Events that run inside the project directory pull
// in cwd, which is then placed first; nothing else is reordered and
// duplicates are dropped.
func Resolve(reg *registry.Registry, p *project.Project, requested []string) ([]string, error) {
	if requested == nil {
		configured, err := ConfiguredEvents(reg, p)
		if err != nil {
			return nil, err
		}
		requested = configured
	}

	var invalid []string
	for _, name := range requested {
		if !p.HasEvent(name) && !contains(invalid, name) {
			invalid = append(invalid, name)
		}
	}
	if len(invalid) > 0 {
		return nil, errors.EventsNotConfigured(p.Name, invalid, p.EnabledEvents())
	}

	resolved := make([]string, 0, len(requested)+1)
	needsCwd := false
	for _, name := range requested {
		if contains(resolved, name) {
			continue
		}
		d, err := reg.ByName(name)
		if err != nil {
			return nil, err
		}
		needsCwd = needsCwd || d.RequiresCwd
		resolved = append(resolved, name)
	}

	if needsCwd && !contains(resolved, cwdEvent) {
		resolved = append([]string{cwdEvent}, resolved...)
	}
	return resolved, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
