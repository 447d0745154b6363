package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigLoader defines the interface for loading configuration files
type ConfigLoader interface {
	// Load reads the run configuration from a YAML file
	Load(path string) (*Config, error)
	// Validate checks the configuration for inconsistent values
	Validate(config *Config) error
}

// Loader handles loading configuration files
type Loader struct{}

// Ensure Loader implements ConfigLoader
var _ ConfigLoader = (*Loader)(nil)

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the run configuration from a YAML file
func (l *Loader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := l.Validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the configuration for inconsistent values. Unset fields
// are fine; they keep their flag defaults.
func (l *Loader) Validate(config *Config) error {
	if config.ScriptExtension != "" && !strings.HasPrefix(config.ScriptExtension, ".") {
		return fmt.Errorf("scriptExtension must start with a dot, got: %s", config.ScriptExtension)
	}
	if config.GitTimeoutSeconds < 0 {
		return fmt.Errorf("gitTimeoutSeconds cannot be negative, got: %d", config.GitTimeoutSeconds)
	}
	if strings.ContainsAny(config.DataPath, "\n") {
		return fmt.Errorf("dataPath contains invalid characters")
	}
	return nil
}
