// Package schema describes the workon config file as JSON Schema and
// validates stored documents against it.
package schema

import (
	"encoding/json"

	"github.com/grovetools/workon/logging"
	"github.com/grovetools/workon/pkg/project"
	"github.com/invopop/jsonschema"
)

//go:generate sh -c "cd .. && go run ./tools/schema-generator/"

// Document is the persisted part of the config file. Other top-level keys
// are allowed and ignored.
type Document struct {
	ProjectDefaults *project.Defaults          `yaml:"project_defaults,omitempty" jsonschema:"description=Defaults applied to every project"`
	Projects        map[string]project.Project `yaml:"projects,omitempty" jsonschema:"description=Registered projects keyed by name; branch projects are named base#branch"`
	Logging         *logging.Config            `yaml:"logging,omitempty" jsonschema:"description=Log level, format and sinks"`
}

// Sections lists the top-level keys Document covers.
var Sections = []string{"project_defaults", "projects", "logging"}

// GenerateSchema reflects Document into a draft-07 schema. Nested records
// reject unknown fields; the top level does not.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		FieldNameTag:               "yaml",
	}

	s := r.Reflect(&Document{})
	s.Title = "workon configuration"
	s.Description = "Projects, defaults and logging settings read by workon."
	s.Version = "http://json-schema.org/draft-07/schema#"
	s.AdditionalProperties = nil

	return json.MarshalIndent(s, "", "  ")
}
