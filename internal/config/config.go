// Package config handles persistent user configuration for actionrunner.
//
// Configuration is stored as JSON at ~/.config/actionrunner/config.json (or
// the platform-equivalent path returned by os.UserConfigDir).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	appDir   = "actionrunner"
	fileName = "config.json"
)

// Defaults used when a key is unset.
const (
	DefaultWorkdir      = "/home/project"
	DefaultBuildCommand = "npm run build"
	DefaultStartGrace   = 2 * time.Second
	DefaultLogLevel     = "warn"
)

// pathOverride, when non-empty, replaces the default config file path.
// Intended for testing. Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the config file path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override, reverting to the default. Intended for testing.
func ResetPath() { pathOverride = "" }

// Config holds user preferences that persist across invocations.
type Config struct {
	Workdir      string `json:"workdir,omitempty"`
	BuildCommand string `json:"build_command,omitempty"`
	StartGrace   string `json:"start_grace,omitempty"`
	DatabasePath string `json:"database_path,omitempty"`
	LogLevel     string `json:"log_level,omitempty"`
	LogFile      string `json:"log_file,omitempty"`
}

// WorkdirOrDefault returns the sandbox working directory.
func (c *Config) WorkdirOrDefault() string {
	if c.Workdir == "" {
		return DefaultWorkdir
	}
	return c.Workdir
}

// BuildArgs splits the build command into a program and its arguments.
func (c *Config) BuildArgs() []string {
	if strings.TrimSpace(c.BuildCommand) == "" {
		return strings.Fields(DefaultBuildCommand)
	}
	return strings.Fields(c.BuildCommand)
}

// StartGraceDuration parses the start grace period.
func (c *Config) StartGraceDuration() (time.Duration, error) {
	if c.StartGrace == "" {
		return DefaultStartGrace, nil
	}
	d, err := time.ParseDuration(c.StartGrace)
	if err != nil {
		return 0, fmt.Errorf("config: invalid start-grace %q: %w", c.StartGrace, err)
	}
	return d, nil
}

// LogLevelOrDefault returns the console log level name.
func (c *Config) LogLevelOrDefault() string {
	if c.LogLevel == "" {
		return DefaultLogLevel
	}
	return c.LogLevel
}

// Path returns the absolute path to the config file.
// If SetPath has been called, that value is returned instead.
// Otherwise it uses os.UserConfigDir which resolves to
// ~/Library/Application Support on macOS, ~/.config on Linux, and
// %AppData% on Windows.
func Path() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Load reads the config file from disk and returns the parsed Config.
// If the file does not exist, a zero-value Config is returned (not an error).
func Load() (*Config, error) {
	return loadFrom("")
}

func loadFrom(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the parent directory if needed.
func (c *Config) Save() error {
	return c.saveTo("")
}

func (c *Config) saveTo(path string) error {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: failed to create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}

	return nil
}

// LoadFrom reads the config from the given path. Intended for testing.
func LoadFrom(path string) (*Config, error) {
	return loadFrom(path)
}

// SaveTo writes the config to the given path. Intended for testing.
func (c *Config) SaveTo(path string) error {
	return c.saveTo(path)
}
