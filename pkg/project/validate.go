package project

import (
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/grovetools/workon/command"
	"github.com/grovetools/workon/errors"
)

// EventValidator checks one event's configuration. The command registry
// implements it.
type EventValidator interface {
	ValidateEvent(name string, value interface{}) error
}

// ValidateName checks a project name. Branch-qualified names validate both
// halves.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.InvalidInput("project name cannot be empty")
	}
	sb := command.NewSafeBuilder()
	base, branch := SplitName(name)
	if err := sb.Validate("projectName", base); err != nil {
		return errors.InvalidInput("project name can only contain letters, numbers, underscores, and hyphens")
	}
	if strings.Contains(name, BranchSeparator) {
		if err := sb.Validate("branchName", branch); err != nil {
			return errors.InvalidInput(fmt.Sprintf("invalid branch in project name '%s': %v", name, err))
		}
		if strings.Contains(branch, ".") {
			return errors.InvalidInput(fmt.Sprintf("invalid branch in project name '%s': project keys can't contain '.'", name))
		}
	}
	return nil
}

// ValidatePath checks that path is an existing directory.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.InvalidInput("project path cannot be empty")
	}
	info, err := os.Stat(path)
	if err != nil {
		return errors.InvalidInput(fmt.Sprintf("directory does not exist: %s", path))
	}
	if !info.IsDir() {
		return errors.InvalidInput(fmt.Sprintf("path is not a directory: %s", path))
	}
	return nil
}

// ValidateURL checks an optional homepage.
func ValidateURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.InvalidInput(fmt.Sprintf("invalid URL format: %s", raw))
	}
	return nil
}

// Validate checks the record: name, directory, homepage, and every
// configured event against the catalog. All problems are reported together.
func (p *Project) Validate(events EventValidator) error {
	var problems []string
	add := func(err error) {
		if err == nil {
			return
		}
		if we, ok := errors.As(err); ok {
			problems = append(problems, we.Message)
			return
		}
		problems = append(problems, err.Error())
	}

	add(ValidateName(p.Name))
	add(ValidatePath(p.Path))
	add(ValidateURL(p.Homepage))

	if events != nil {
		names := make([]string, 0, len(p.Events))
		for name := range p.Events {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			add(events.ValidateEvent(name, p.Events[name]))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.ConfigInvalid(fmt.Sprintf("project '%s': %s", p.Name, strings.Join(problems, "; "))).
		WithDetail("project", p.Name).
		WithDetail("problems", problems)
}
