// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Playbooks Contributors

// Package config loads application configuration from an optional YAML file
// with command-line flag overrides. Precedence: flags > file > defaults.
package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/playbookshq/playbooks/internal/auth/sessionfile"
	"github.com/playbookshq/playbooks/internal/database"
	"github.com/playbookshq/playbooks/internal/xdg"
)

// FileName is the config file name under the XDG config directory.
const FileName = "config.yaml"

// Config is the full application configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Session  SessionConfig  `koanf:"session"`
	Log      LogConfig      `koanf:"log"`
}

// DatabaseConfig configures the SQLite database.
type DatabaseConfig struct {
	Path string `koanf:"path"`
}

// SessionConfig configures the persisted session record.
type SessionConfig struct {
	Path string `koanf:"path"`
}

// LogConfig configures structured logging output.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigDir(), FileName)
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database: DatabaseConfig{Path: database.DefaultPath()},
		Session:  SessionConfig{Path: sessionfile.DefaultPath()},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// Load builds the configuration from defaults, the YAML file at path, and
// any explicitly set flags. A missing file at the default path is fine; a
// missing file at an operator-supplied path is an error.
func Load(path string, explicitPath bool, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()

	// Seed the defaults under their final keys before the flag pass: posflag
	// skips an unset flag only when its key already exists, so a missing
	// default would let a flag's empty value through.
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(map[string]any{
		"database.path": cfg.Database.Path,
		"session.path":  cfg.Session.Path,
		"log.level":     cfg.Log.Level,
		"log.format":    cfg.Log.Format,
	}, "."), nil); err != nil {
		return Config{}, oops.Code("CONFIG_LOAD_FAILED").Wrap(err)
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if explicitPath || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
		}
	}

	if flags != nil {
		// Flag names use dashes where config keys use dots, e.g.
		// --database-path maps to database.path. Passing k means only
		// explicitly set flags override existing values.
		p := posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, any) {
			return strings.ReplaceAll(key, "-", "."), value
		})
		if err := k.Load(p, nil); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").Wrap(err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Database.Path == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database.path cannot be empty")
	}
	if c.Session.Path == "" {
		return oops.Code("CONFIG_INVALID").Errorf("session.path cannot be empty")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return oops.Code("CONFIG_INVALID").Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
