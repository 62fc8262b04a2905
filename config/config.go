// Package config loads per-project checker configuration from a
// .markcheck.yml file at the project root.
//
// The file tunes which checks run and which flags every unit receives:
//
//	enable: [md-link, url]   # enable default-disabled checks project-wide
//	disable: [bbcode]        # force-disable checks by ID
//	flags: [md-text]         # extra flags applied to every unit
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lingokit/markcheck/checks"
)

// FileName is the project configuration file name.
const FileName = ".markcheck.yml"

// Config is the per-project checker configuration.
type Config struct {
	// Enable lists check IDs to enable even though they are disabled by
	// default.
	Enable []string `yaml:"enable"`
	// Disable lists check IDs that never run for this project.
	Disable []string `yaml:"disable"`
	// Flags are applied to every unit in addition to its own flags.
	Flags []string `yaml:"flags"`
}

// Load reads the configuration from root. A missing file yields an empty
// configuration; a malformed file is an error.
func Load(root string) (*Config, error) {
	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// Registry applies the disable list to the given registry.
func (c *Config) Registry(reg *checks.Registry) *checks.Registry {
	if len(c.Disable) == 0 {
		return reg
	}
	return reg.Without(c.Disable...)
}

// UnitFlags returns the flags every unit should carry: the configured
// extra flags plus the enable flag of every enabled check.
func (c *Config) UnitFlags(reg *checks.Registry) checks.Flags {
	flags := checks.NewFlags(c.Flags...)
	for _, id := range c.Enable {
		if chk := reg.Get(id); chk != nil {
			flags.Add(chk.EnableFlag())
		}
	}
	return flags
}
