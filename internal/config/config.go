package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tjmonk/varcreate/pkg/varserver"
)

// DefaultServerURL is used when no server address is configured anywhere.
const DefaultServerURL = "redis://localhost:6379"

// DefaultFileName is the tool configuration looked for in the working
// directory when --config is not given.
const DefaultFileName = "varcreate.yml"

// ToolConfig represents the top-level varcreate.yml configuration
type ToolConfig struct {
	Version  string          `yaml:"version"`
	Server   *ServerConfig   `yaml:"server,omitempty"`
	Defaults *DefaultsConfig `yaml:"defaults,omitempty"`
}

// ServerConfig selects the variable server to talk to
type ServerConfig struct {
	URL string `yaml:"url"`
}

// DefaultsConfig supplies creation options applied when the matching
// command line flag is not given
type DefaultsConfig struct {
	Instance *uint32 `yaml:"instance,omitempty"` // Instance ID stamped on every variable
	Prefix   string  `yaml:"prefix,omitempty"`   // Prepended to every variable name
	Flags    string  `yaml:"flags,omitempty"`    // Flag specifier unioned into every variable
	Verbose  *bool   `yaml:"verbose,omitempty"`
}

// Validate performs strict validation on the configuration
func (c *ToolConfig) Validate() error {
	// Required: version
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	if c.Server != nil && c.Server.URL == "" {
		return fmt.Errorf("server section present but url is empty")
	}

	// Reject unknown flag names up front rather than on every record.
	if c.Defaults != nil && c.Defaults.Flags != "" {
		if _, err := varserver.StrToFlags(c.Defaults.Flags); err != nil {
			return fmt.Errorf("invalid default flags: %w", err)
		}
	}

	return nil
}

// FlagSet returns the configured default flags. Validate has already
// rejected unknown flag names, so the specifier parses cleanly here.
func (c *ToolConfig) FlagSet() varserver.Flags {
	if c.Defaults == nil || c.Defaults.Flags == "" {
		return varserver.FlagNone
	}
	flags, _ := varserver.StrToFlags(c.Defaults.Flags)
	return flags
}

// Load reads and validates varcreate.yml from the specified path
func Load(path string) (*ToolConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config ToolConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}
