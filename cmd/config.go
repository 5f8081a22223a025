package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/grovetools/workon/cli"
	"github.com/grovetools/workon/config"
	"github.com/grovetools/workon/errors"
	"github.com/grovetools/workon/pkg/project"
	"github.com/grovetools/workon/schema"
	"github.com/grovetools/workon/tui/theme"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and change the workon configuration",
	}
	cmd.AddCommand(newConfigListCmd(), newConfigSetCmd(), newConfigUnsetCmd(),
		newConfigValidateCmd(), newConfigSchemaCmd())
	return cmd
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every configured key with its value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			flat := map[string]interface{}{}
			config.Flatten("", a.store.Snapshot(), flat)

			if cli.GetOptions(cmd).JSONOutput {
				return writeJSON(cmd.OutOrStdout(), flat)
			}
			keys := make([]string, 0, len(flat))
			for k := range flat {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			t := theme.DefaultTheme
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%v\n", t.Accent.Render(k), flat[k])
			}
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a key; the value is parsed as YAML",
		Example: `workon config set project_defaults.ide vim
workon config set projects.demo.events.claude true`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			value, err := parseValue(args[1])
			if err != nil {
				return err
			}
			if err := a.store.Set(args[0], value); err != nil {
				return err
			}
			a.logger.WithField("key", args[0]).Debug("Config key set")
			return nil
		},
	}
}

// parseValue reads a command-line value as a YAML scalar or flow
// collection, so "true" is a bool and "[a, b]" a list.
func parseValue(raw string) (interface{}, error) {
	var v interface{}
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return nil, errors.InvalidInput(fmt.Sprintf("cannot parse value %q: %v", raw, err))
	}
	if v == nil {
		return raw, nil
	}
	return v, nil
}

func newConfigUnsetCmd() *cobra.Command {
	var silent bool
	cmd := &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if !a.store.Has(args[0]) {
				if silent {
					return nil
				}
				return errors.InvalidInput(fmt.Sprintf("key '%s' is not set", args[0]))
			}
			return a.store.Delete(args[0])
		},
	}
	cmd.Flags().BoolVarP(&silent, "silent", "s", false, "Do not fail when the key is missing")
	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration file and every project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			problems, err := validateConfig(a)
			if err != nil {
				return err
			}
			if len(problems) > 0 {
				return errors.ConfigInvalid(fmt.Sprintf("%d problem(s):\n%s", len(problems), strings.Join(problems, "\n"))).
					WithDetail("problems", problems)
			}
			fmt.Fprintln(cmd.OutOrStdout(), theme.DefaultTheme.Success.Render("✓")+" Configuration is valid")
			return nil
		},
	}
}

// validateConfig checks the document against the schema, then each project
// record against the event registry.
func validateConfig(a *app) ([]string, error) {
	v, err := schema.NewValidator()
	if err != nil {
		return nil, err
	}

	snapshot := a.store.Snapshot()
	doc := map[string]interface{}{}
	for _, key := range schema.Sections {
		if val, ok := snapshot[key]; ok {
			doc[key] = val
		}
	}

	var problems []string
	if err := v.Validate(doc); err != nil {
		if werr, ok := errors.As(err); ok {
			if list, ok := werr.Details["problems"].([]string); ok {
				problems = append(problems, list...)
			}
		}
		if len(problems) == 0 {
			problems = append(problems, err.Error())
		}
		// Records that fail the schema may not decode.
		return problems, nil
	}

	all, err := project.LoadAll(a.store)
	if err != nil {
		return append(problems, err.Error()), nil
	}
	for _, p := range all {
		if err := p.Validate(a.registry); err != nil {
			if werr, ok := errors.As(err); ok {
				if list, ok := werr.Details["problems"].([]string); ok {
					for _, msg := range list {
						problems = append(problems, fmt.Sprintf("- %s: %s", p.Name, msg))
					}
					continue
				}
			}
			problems = append(problems, fmt.Sprintf("- %s: %v", p.Name, err))
		}
	}
	return problems, nil
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := schema.GenerateSchema()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
