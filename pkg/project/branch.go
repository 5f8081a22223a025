package project

import (
	"fmt"
	"strings"

	"github.com/grovetools/workon/command"
	"github.com/grovetools/workon/errors"
)

// DeriveBranch creates the branch-qualified record for base. Named fields
// are copied, then overrides are deep-merged over the copy. Neither input is
// modified and the result shares no maps with them.
func DeriveBranch(base *Project, branch string, overrides map[string]interface{}) (*Project, error) {
	if base == nil {
		return nil, errors.InvalidInput("base project is required to start a branch")
	}
	if base.IsBranchQualified() {
		return nil, errors.InvalidInput(fmt.Sprintf("'%s' is already a branch project", base.Name))
	}
	if strings.Contains(branch, BranchSeparator) {
		return nil, errors.InvalidInput(`branch name can't contain the "#" sign`)
	}
	if err := command.NewSafeBuilder().Validate("branchName", branch); err != nil {
		return nil, errors.InvalidInput(err.Error())
	}
	if strings.Contains(branch, ".") {
		return nil, errors.InvalidInput(fmt.Sprintf("branch '%s' can't be stored: project keys can't contain '.'", branch))
	}

	derived := &Project{
		Name:     QualifiedName(base.Name, branch),
		Path:     base.Path,
		Branch:   branch,
		IDE:      base.IDE,
		Homepage: base.Homepage,
		Events:   cloneMap(base.Events),
		Scripts:  cloneMap(base.Scripts),
	}

	for key, value := range overrides {
		switch key {
		case "path":
			derived.Path = fmt.Sprint(value)
		case "ide":
			derived.IDE = fmt.Sprint(value)
		case "homepage":
			derived.Homepage = fmt.Sprint(value)
		case "events":
			derived.Events = mergeInto(derived.Events, value)
		case "scripts":
			derived.Scripts = mergeInto(derived.Scripts, value)
		}
	}
	return derived, nil
}

func mergeInto(dst map[string]interface{}, src interface{}) map[string]interface{} {
	m, ok := src.(map[string]interface{})
	if !ok {
		return dst
	}
	if dst == nil {
		dst = make(map[string]interface{})
	}
	return DeepMerge(dst, m)
}

// DeepMerge merges src into a copy of dst. Nested maps merge recursively;
// any other value in src replaces the one in dst.
func DeepMerge(dst, src map[string]interface{}) map[string]interface{} {
	out := cloneMap(dst)
	if out == nil {
		out = make(map[string]interface{})
	}
	for key, sv := range src {
		sm, sIsMap := sv.(map[string]interface{})
		dm, dIsMap := out[key].(map[string]interface{})
		if sIsMap && dIsMap {
			out[key] = DeepMerge(dm, sm)
			continue
		}
		if sIsMap {
			out[key] = cloneMap(sm)
			continue
		}
		out[key] = cloneValue(sv)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	if s, ok := v.([]interface{}); ok {
		out := make([]interface{}, len(s))
		for i, e := range s {
			if m, ok := e.(map[string]interface{}); ok {
				out[i] = cloneMap(m)
			} else {
				out[i] = cloneValue(e)
			}
		}
		return out
	}
	return v
}
