// Package config resolves tock settings from defaults, an optional YAML
// file and TOCK_* environment variables, in increasing precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/alexanderramin/tock/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfig   = "TOCK_CONFIG"
	EnvDB       = "TOCK_DB"
	EnvLog      = "TOCK_LOG"
	EnvTimezone = "TOCK_TZ"
)

// Config holds everything the tock binary needs before wiring services.
type Config struct {
	DBPath       string `yaml:"db_path"`
	LogFile      string `yaml:"log_file"`
	Timezone     string `yaml:"timezone"`
	DefaultColor string `yaml:"default_color"`
}

// DefaultConfig places the ledger under home/.tock. Logging is off and
// day boundaries follow the local zone.
func DefaultConfig(home string) Config {
	return Config{
		DBPath:       filepath.Join(home, ".tock", "tock.db"),
		DefaultColor: domain.DefaultColor,
	}
}

// Load resolves the configuration for the current user. The file is read
// from $TOCK_CONFIG when set, which must then exist, or from
// ~/.tock/config.yaml when present.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("finding home directory: %w", err)
	}

	path, required := os.Getenv(EnvConfig), true
	if path == "" {
		path, required = filepath.Join(home, ".tock", "config.yaml"), false
	}
	return LoadFrom(home, path, required)
}

// LoadFrom applies defaults, then the YAML file at path, then the
// environment, and validates the result. A missing file is an error only
// when required is set.
func LoadFrom(home, path string, required bool) (Config, error) {
	cfg := DefaultConfig(home)

	if path != "" {
		fileCfg, err := loadFile(path)
		switch {
		case err == nil:
			mergeFile(&cfg, fileCfg)
		case errors.Is(err, os.ErrNotExist) && !required:
		default:
			return cfg, fmt.Errorf("loading config file: %w", err)
		}
	}

	mergeEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadFile decodes strictly: unknown keys and trailing documents are errors.
func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var fileCfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fileCfg); err != nil {
		if err == io.EOF {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("parsing %s: multiple documents or trailing content", path)
	}
	return &fileCfg, nil
}

func mergeFile(dst *Config, src *Config) {
	if src.DBPath != "" {
		dst.DBPath = src.DBPath
	}
	if src.LogFile != "" {
		dst.LogFile = src.LogFile
	}
	if src.Timezone != "" {
		dst.Timezone = src.Timezone
	}
	if src.DefaultColor != "" {
		dst.DefaultColor = src.DefaultColor
	}
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv(EnvDB); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvLog); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv(EnvTimezone); v != "" {
		cfg.Timezone = v
	}
}

// Validate checks the timezone and color and normalizes the color.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path is empty")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	color, err := domain.NormalizeColor(c.DefaultColor)
	if err != nil {
		return fmt.Errorf("default_color: %w", err)
	}
	c.DefaultColor = color
	return nil
}

// Location returns the zone used for day boundaries. Empty means
// time.Local.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
