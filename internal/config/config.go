// Package config loads cmd/tagtplctl's runtime options from flags,
// environment variables, and an optional TOML file, per SPEC_FULL.md §4.10.
// The core tagtpl/cache packages take no dependency on this package or on
// viper — configuration is a CLI-only concern.
package config

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/spf13/viper"
)

// Config holds the options cmd/tagtplctl needs to locate and render
// templates.
type Config struct {
	// SearchPath is the root directory Cache resolves template names under.
	SearchPath string `mapstructure:"search_path"`
	// NoParse switches the cache into no-parse mode (§4.6).
	NoParse bool `mapstructure:"no_parse"`
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `mapstructure:"log_level"`
}

// Load reads configuration from, in ascending priority order: defaults, an
// optional TOML file at configFile, TAGTPL_-prefixed environment variables,
// then explicit overrides already bound to flags by the caller via v.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	v.SetDefault("search_path", ".")
	v.SetDefault("no_parse", false)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("TAGTPL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		data, err := readTOMLFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
		if err := v.MergeConfigMap(data); err != nil {
			return nil, fmt.Errorf("merge config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// readTOMLFile decodes a TOML document into the generic map shape viper's
// MergeConfigMap expects, using the same go-toml decoder the teacher pack's
// manifest tooling standardizes on.
func readTOMLFile(path string) (map[string]any, error) {
	tree, err := toml.LoadFile(path)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	for _, key := range tree.Keys() {
		out[key] = tree.Get(key)
	}
	return out, nil
}
