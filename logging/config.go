package logging

// Config is the `logging` section of the workon config file.
type Config struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// WORKON_LOG_LEVEL overrides it.
	Level string `yaml:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=warning,enum=error"`

	// ReportCaller includes file, line and function in each entry.
	ReportCaller bool `yaml:"report_caller"`

	File   FileSinkConfig `yaml:"file"`
	Format FormatConfig   `yaml:"format"`
}

// FileSinkConfig configures the optional log file. When Path is empty the
// file lives under the state directory.
type FileSinkConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// FormatConfig controls the log output format.
type FormatConfig struct {
	// Preset can be "default", "simple", or "json".
	Preset           string `yaml:"preset" jsonschema:"enum=default,enum=simple,enum=json"`
	DisableTimestamp bool   `yaml:"disable_timestamp"`
	DisableComponent bool   `yaml:"disable_component"`
	// Stderr is "auto" (default), "always", or "never".
	Stderr string `yaml:"stderr" jsonschema:"enum=auto,enum=always,enum=never"`
}
