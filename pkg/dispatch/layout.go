package dispatch

import (
	"github.com/grovetools/workon/pkg/project"
	"github.com/grovetools/workon/pkg/registry"
	"github.com/grovetools/workon/pkg/tmux"
)

// Plan is the layout decision for a resolved event list.
type Plan struct {
	Layout   tmux.Layout
	Commands tmux.PaneCommands
	// Panes are the events the layout hosts, in resolved order.
	Panes []string
	// Independent are the events that run outside the layout, in resolved
	// order. With LayoutNone this is every event.
	Independent []string
}

// SelectLayout picks a layout from the set of resolved events. Only cwd and
// events with a tmux hint take part; the result does not depend on their
// order. Hinted descriptors are asked highest priority first and the first
// one proposing a layout wins.
func SelectLayout(reg *registry.Registry, p *project.Project, events []string) (Plan, error) {
	present := map[string]bool{}
	for _, name := range events {
		if name == cwdEvent {
			present[name] = true
			continue
		}
		d, err := reg.ByName(name)
		if err != nil {
			return Plan{}, err
		}
		if d.Tmux != nil {
			present[name] = true
		}
	}

	hinted, err := reg.TmuxEnabled()
	if err != nil {
		return Plan{}, err
	}

	layout := tmux.LayoutNone
	for _, d := range hinted {
		if !present[d.Name] {
			continue
		}
		if l := d.Tmux.Contribute(present); l != tmux.LayoutNone {
			layout = l
			break
		}
	}

	plan := Plan{Layout: layout}
	if !layout.Multiplexed() {
		plan.Independent = append([]string(nil), events...)
		return plan, nil
	}

	roles := map[tmux.Role]bool{}
	for _, r := range layout.Roles() {
		roles[r] = true
	}
	plan.Commands = tmux.PaneCommands{}
	for _, d := range hinted {
		if present[d.Name] && roles[d.Tmux.Role] {
			plan.Commands[d.Tmux.Role] = d.Tmux.PaneCommand(p)
		}
	}

	for _, name := range events {
		if inLayout(reg, name, roles) {
			plan.Panes = append(plan.Panes, name)
		} else {
			plan.Independent = append(plan.Independent, name)
		}
	}
	return plan, nil
}

func inLayout(reg *registry.Registry, name string, roles map[tmux.Role]bool) bool {
	if name == cwdEvent {
		return roles[tmux.RoleShell]
	}
	d, err := reg.ByName(name)
	return err == nil && d.Tmux != nil && roles[d.Tmux.Role]
}
