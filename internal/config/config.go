// Package config loads the pclint.yaml analysis configuration. The
// configuration is an explicit value handed to every analysis invocation;
// there is no process-wide mutable state.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level pclint.yaml configuration.
type Config struct {
	// ToolsRelease is the target PeopleTools release used to resolve #If
	// compiler directives (e.g. "8.54.27"). Empty means no release is
	// configured and the #Else branch of each directive is preferred.
	ToolsRelease string `yaml:"tools_release,omitempty"`

	// MetadataStore is the path to the SQLite application-class metadata
	// database consumed by the cross-unit resolver. Empty disables it.
	MetadataStore string `yaml:"metadata_store,omitempty"`

	// DisabledCodes suppresses diagnostics by code (e.g. ["T006"]).
	DisabledCodes []string `yaml:"disabled_codes,omitempty"`

	// Severity overrides the default severity per code: "error" or
	// "warning".
	Severity map[string]string `yaml:"severity,omitempty"`
}

// Default returns the configuration used when no pclint.yaml exists.
func Default() *Config {
	return &Config{}
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for code, sev := range cfg.Severity {
		if sev != "error" && sev != "warning" {
			return nil, fmt.Errorf("%s: severity for %s must be \"error\" or \"warning\", got %q", path, code, sev)
		}
	}
	return &cfg, nil
}

// Disabled reports whether diagnostics with the given code are suppressed.
func (c *Config) Disabled(code string) bool {
	if c == nil {
		return false
	}
	for _, d := range c.DisabledCodes {
		if d == code {
			return true
		}
	}
	return false
}
