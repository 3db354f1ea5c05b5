// Package config merges an optional YAML config file with command-line flags.
//
// Precedence, highest first: flags set on the command line, values from the
// config file, built-in defaults.
//
// Example file:
//
//	exclude:
//	  - ".git/"
//	  - "**/.DS_Store"
//	checksum: crc32
//	concurrency: 16
//	format: text
package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultChecksum    = "none"
	DefaultConcurrency = 8
	DefaultFormat      = "text"
)

// Config holds the comparison settings that may come from a file.
type Config struct {
	Exclude     []string `mapstructure:"exclude"`
	Include     []string `mapstructure:"include"`
	Checksum    string   `mapstructure:"checksum"`
	Concurrency int      `mapstructure:"concurrency"`
	Format      string   `mapstructure:"format"`
}

var keys = []string{"exclude", "include", "checksum", "concurrency", "format"}

// Load reads path (when non-empty) and overlays any of flags that the user
// set explicitly. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("exclude", []string{})
	v.SetDefault("include", []string{})
	v.SetDefault("checksum", DefaultChecksum)
	v.SetDefault("concurrency", DefaultConcurrency)
	v.SetDefault("format", DefaultFormat)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		for _, key := range keys {
			if f := flags.Lookup(key); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", key, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Exclude == nil {
		cfg.Exclude = []string{}
	}
	if cfg.Include == nil {
		cfg.Include = []string{}
	}

	return &cfg, nil
}
