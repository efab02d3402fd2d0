package config

import (
	"fmt"
	"path"
	"strings"
	"time"

	"nathanbeddoewebdev/actionrunner/internal/util"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "build-command").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Default is shown when the key is unset. Empty means no default.
	Default string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set applies a value for this key to the given Config (in memory only;
	// the caller is responsible for calling Save).
	Set func(cfg *Config, value string)

	// Validate, when set, rejects values before Set is called.
	Validate func(value string) error
}

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        "workdir",
		Description: "Sandbox working directory that action paths are relative to",
		Default:     DefaultWorkdir,
		Get:         func(cfg *Config) string { return cfg.Workdir },
		Set:         func(cfg *Config, v string) { cfg.Workdir = v },
		Validate:    validateAbsolute,
	},
	{
		Name:        "build-command",
		Description: "Command spawned for build actions",
		Default:     DefaultBuildCommand,
		Get:         func(cfg *Config) string { return cfg.BuildCommand },
		Set:         func(cfg *Config, v string) { cfg.BuildCommand = v },
		Validate:    validateNonEmpty,
	},
	{
		Name:        "start-grace",
		Description: "Delay after launching a start action before the next action runs",
		Default:     DefaultStartGrace.String(),
		Get:         func(cfg *Config) string { return cfg.StartGrace },
		Set:         func(cfg *Config, v string) { cfg.StartGrace = v },
		Validate:    validateDuration,
	},
	{
		Name:        "database-path",
		Description: "SQLite database confirmed queries and migrations run against",
		Get:         func(cfg *Config) string { return cfg.DatabasePath },
		Set:         func(cfg *Config, v string) { cfg.DatabasePath = v },
	},
	{
		Name:        "log-level",
		Description: "Console log level (debug, info, warn, error)",
		Default:     DefaultLogLevel,
		Get:         func(cfg *Config) string { return cfg.LogLevel },
		Set:         func(cfg *Config, v string) { cfg.LogLevel = util.NormalizeKey(v) },
		Validate:    validateLogLevel,
	},
	{
		Name:        "log-file",
		Description: "Rotating debug log file",
		Get:         func(cfg *Config) string { return cfg.LogFile },
		Set:         func(cfg *Config, v string) { cfg.LogFile = v },
	},
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := util.NormalizeKey(name)
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// Apply validates value and sets it on cfg.
func (k *KeySpec) Apply(cfg *Config, value string) error {
	if k.Validate != nil {
		if err := k.Validate(value); err != nil {
			return fmt.Errorf("config: invalid value for %s: %w", k.Name, err)
		}
	}
	k.Set(cfg, value)
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s", maxLen, k.Name, k.Description)
		if k.Default != "" {
			fmt.Fprintf(&b, " (default %s)", k.Default)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func validateNonEmpty(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("must not be empty")
	}
	return nil
}

func validateAbsolute(v string) error {
	if !path.IsAbs(v) {
		return fmt.Errorf("%q must be an absolute path", v)
	}
	return nil
}

func validateDuration(v string) error {
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	if d < 0 {
		return fmt.Errorf("%q must not be negative", v)
	}
	return nil
}

func validateLogLevel(v string) error {
	switch util.NormalizeKey(v) {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("%q is not one of debug, info, warn, error", v)
}
