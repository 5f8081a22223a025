package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/grovetools/workon/config"
	"github.com/grovetools/workon/pkg/paths"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
	debugMode bool

	// stderr is swapped in tests.
	stderr io.Writer = os.Stderr
)

// NewLogger returns the cached logger for a component, creating it on first
// use. Output never goes to stdout: shell mode reserves it for emitted lines.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	logger := logrus.New()
	configure(logger, loadConfig())

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

// SetDebug forces debug level on every logger, existing and future.
func SetDebug(enabled bool) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	debugMode = enabled
	cfg := loadConfig()
	for _, entry := range loggers {
		configure(entry.Logger, cfg)
	}
}

func loadConfig() Config {
	var cfg Config
	store, err := config.Open(paths.ConfigFile())
	if err != nil {
		return cfg
	}
	if err := store.UnmarshalKey("logging", &cfg); err != nil {
		logrus.Warnf("Failed to parse 'logging' config: %v", err)
	}
	return cfg
}

func configure(logger *logrus.Logger, cfg Config) {
	levelStr := "info"
	if env := os.Getenv("WORKON_LOG_LEVEL"); env != "" {
		levelStr = env
	} else if cfg.Level != "" {
		levelStr = cfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	if debugMode {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	if os.Getenv("WORKON_LOG_CALLER") == "true" || cfg.ReportCaller {
		logger.SetReportCaller(true)
	}

	switch cfg.Format.Preset {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "simple":
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}})
	default:
		logger.SetFormatter(&TextFormatter{Config: cfg.Format})
	}

	var writers []io.Writer
	if cfg.File.Enabled {
		if w := openLogFile(logger, FilePath(cfg.File, time.Now())); w != nil {
			writers = append(writers, w)
		}
	}
	if shouldLogToStderr(cfg.Format.Stderr, level) {
		writers = append(writers, stderr)
	}

	switch len(writers) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}
}

// shouldLogToStderr implements the stderr modes. In "auto" an interactive
// terminal only sees logs in debug mode; piped or CI output always does.
func shouldLogToStderr(mode string, level logrus.Level) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		if debugMode || level >= logrus.DebugLevel {
			return true
		}
		fd := os.Stderr.Fd()
		return !(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
	}
}

// FilePath returns the log file a sink config writes to on the given day.
// Every component shares the file; entries carry the component field.
func FilePath(cfg FileSinkConfig, now time.Time) string {
	if cfg.Path != "" {
		return expandPath(cfg.Path)
	}
	return filepath.Join(paths.LogDir(), fmt.Sprintf("workon-%s.log", now.Format("2006-01-02")))
}

// CurrentFile returns today's log file and whether the file sink is enabled.
func CurrentFile() (string, bool) {
	cfg := loadConfig()
	return FilePath(cfg.File, time.Now()), cfg.File.Enabled
}

func openLogFile(logger *logrus.Logger, path string) io.Writer {

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger.Warnf("Failed to create log directory %s: %v", filepath.Dir(path), err)
		return nil
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logger.Warnf("Failed to open log file %s: %v", path, err)
		return nil
	}
	return file
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
