package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file name looked up in the working directory.
const DefaultFile = "lockjs.yaml"

// Config holds the tool-level settings read from lockjs.yaml. Command-line
// flags override anything set here.
type Config struct {
	// Output is the path the generated JavaScript is written to.
	// Empty means stdout.
	Output string `yaml:"output"`

	// LogLevel is a zerolog level name: trace, debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Color controls colored diagnostics. Nil means auto.
	Color *bool `yaml:"color"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{LogLevel: "warn"}
}

// Load reads and parses the config file at path.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// LoadIfPresent loads path when it exists and falls back to the defaults
// when it does not. Any other read or parse failure is an error.
func LoadIfPresent(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}
