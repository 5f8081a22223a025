package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grovetools/workon/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const resourceName = "workon.json"

// Validator validates config documents against the generated schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator generates and compiles the schema.
func NewValidator() (*Validator, error) {
	data, err := GenerateSchema()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to generate schema")
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resourceName, bytes.NewReader(data)); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to add schema resource")
	}
	s, err := compiler.Compile(resourceName)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to compile schema")
	}
	return &Validator{schema: s}, nil
}

// Validate checks a decoded config document. Problems are reported as one
// CONFIG_INVALID error listing every failing location.
func (v *Validator) Validate(doc interface{}) error {
	// Round-trip through JSON so YAML and TOML values become plain JSON types.
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "config is not representable as JSON")
	}
	var plain interface{}
	if err := json.Unmarshal(data, &plain); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "config is not representable as JSON")
	}

	if err := v.schema.Validate(plain); err != nil {
		verr, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return errors.Wrap(err, errors.ErrCodeConfigInvalid, "schema validation failed")
		}
		var problems []string
		collectErrors(verr, &problems)
		return errors.ConfigInvalid("schema validation failed:\n"+strings.Join(problems, "\n")).
			WithDetail("problems", problems)
	}
	return nil
}

// collectErrors flattens the leaf causes of a validation error.
func collectErrors(err *jsonschema.ValidationError, messages *[]string) {
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*messages = append(*messages, fmt.Sprintf("- %s: %s", loc, err.Message))
		return
	}
	for _, cause := range err.Causes {
		collectErrors(cause, messages)
	}
}
