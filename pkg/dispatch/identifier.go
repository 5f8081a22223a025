// Package dispatch turns an activation request into resolved events, a
// layout decision and the processes or shell lines that carry it out.
package dispatch

import (
	"fmt"
	"strings"

	"github.com/grovetools/workon/errors"
)

const (
	eventSeparator = ":"
	helpEvent      = "help"
)

// Identifier is a parsed "<project>[:<event>,<event>|:help]" argument.
type Identifier struct {
	Project string
	// Events is nil when every configured event should run.
	Events []string
	Help   bool
	// Current is set for "this" and ".", which name the project recognized
	// from the working directory.
	Current bool
}

// ParseIdentifier splits a command-line identifier into project and events.
// Event order is kept and empty entries are dropped.
func ParseIdentifier(raw string) (Identifier, error) {
	raw = strings.TrimSpace(raw)
	name, selector, hasSelector := strings.Cut(raw, eventSeparator)
	name = strings.TrimSpace(name)
	if name == "" {
		return Identifier{}, errors.InvalidInput(fmt.Sprintf("missing project name in '%s'", raw))
	}

	id := Identifier{Project: name, Current: name == "this" || name == "."}
	if !hasSelector {
		return id, nil
	}

	selector = strings.TrimSpace(selector)
	if selector == helpEvent {
		id.Help = true
		return id, nil
	}
	for _, e := range strings.Split(selector, ",") {
		if e = strings.TrimSpace(e); e != "" {
			id.Events = append(id.Events, e)
		}
	}
	if len(id.Events) == 0 {
		return Identifier{}, errors.InvalidInput(fmt.Sprintf("no events given after '%s' in '%s'", eventSeparator, raw))
	}
	return id, nil
}

// String renders the identifier back to its command-line form.
func (id Identifier) String() string {
	switch {
	case id.Help:
		return id.Project + eventSeparator + helpEvent
	case len(id.Events) > 0:
		return id.Project + eventSeparator + strings.Join(id.Events, ",")
	default:
		return id.Project
	}
}
