package project

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/grovetools/workon/config"
	"github.com/grovetools/workon/errors"
	"github.com/grovetools/workon/util/pathutil"
)

const (
	projectsKey = "projects"
	defaultsKey = "project_defaults"
)

// LoadDefaults reads project_defaults from the store.
func LoadDefaults(store config.Store) (Defaults, error) {
	var d Defaults
	raw, ok := store.Get(defaultsKey)
	if !ok {
		return d, nil
	}
	if err := config.Decode(raw, &d); err != nil {
		return d, errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid project_defaults")
	}
	return d, nil
}

// Load reads one project record and resolves its path.
func Load(store config.Store, name string) (*Project, error) {
	if strings.Contains(name, ".") {
		return nil, errors.ProjectNotFound(name)
	}
	raw, ok := store.Get(projectsKey + "." + name)
	if !ok {
		return nil, errors.ProjectNotFound(name)
	}
	defaults, err := LoadDefaults(store)
	if err != nil {
		return nil, err
	}
	return decode(name, raw, defaults)
}

// LoadAll reads every project record, base and branch-qualified, sorted by
// name.
func LoadAll(store config.Store) ([]*Project, error) {
	raw, ok := store.Get(projectsKey)
	if !ok {
		return nil, nil
	}
	records, ok := raw.(map[string]interface{})
	if !ok {
		return nil, errors.ConfigInvalid("'projects' must be a map")
	}
	defaults, err := LoadDefaults(store)
	if err != nil {
		return nil, err
	}

	projects := make([]*Project, 0, len(records))
	for name, rec := range records {
		p, err := decode(name, rec, defaults)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	return projects, nil
}

// Names returns the stored project names, sorted.
func Names(store config.Store) []string {
	raw, _ := store.Get(projectsKey)
	records, _ := raw.(map[string]interface{})
	names := make([]string, 0, len(records))
	for name := range records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Exists reports whether a record with this name is stored.
func Exists(store config.Store, name string) bool {
	return !strings.Contains(name, ".") && store.Has(projectsKey+"."+name)
}

func decode(name string, raw interface{}, defaults Defaults) (*Project, error) {
	p := &Project{}
	if raw != nil {
		if err := config.Decode(raw, p); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid,
				fmt.Sprintf("invalid record for project '%s'", name)).WithDetail("project", name)
		}
	}
	p.Name = name
	if p.Path == "" {
		p.Path, _ = SplitName(name)
	}
	if p.IDE == "" {
		p.IDE = defaults.IDE
	}
	if p.Events == nil {
		p.Events = make(map[string]interface{})
	}

	abs, err := pathutil.Absolutify(defaults.Base, p.Path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid,
			fmt.Sprintf("invalid path for project '%s'", name)).WithDetail("project", name)
	}
	p.Path = abs
	return p, nil
}

// Save writes the whole record for p. Paths under the configured base are
// stored relative to it.
func Save(store config.Store, p *Project) error {
	if p.Name == "" || strings.Contains(p.Name, ".") {
		return errors.InvalidInput(fmt.Sprintf("invalid project name '%s'", p.Name))
	}
	defaults, err := LoadDefaults(store)
	if err != nil {
		return err
	}
	return store.Set(projectsKey+"."+p.Name, Record(p, defaults.Base))
}

// Remove deletes a project record.
func Remove(store config.Store, name string) error {
	if !Exists(store, name) {
		return errors.ProjectNotFound(name)
	}
	return store.Delete(projectsKey + "." + name)
}

// Record renders p as the map persisted in the store.
func Record(p *Project, base string) map[string]interface{} {
	rec := map[string]interface{}{
		"path": relativeTo(base, p.Path),
	}
	if p.Branch != "" {
		rec["branch"] = p.Branch
	}
	if p.IDE != "" {
		rec["ide"] = p.IDE
	}
	if p.Homepage != "" {
		rec["homepage"] = p.Homepage
	}
	if len(p.Events) > 0 {
		rec["events"] = cloneMap(p.Events)
	}
	if len(p.Scripts) > 0 {
		rec["scripts"] = cloneMap(p.Scripts)
	}
	return rec
}

func relativeTo(base, path string) string {
	if base == "" || !filepath.IsAbs(path) {
		return path
	}
	expanded, err := pathutil.Expand(base)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(expanded, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
