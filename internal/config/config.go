// Package config loads readgate runtime configuration from a TOML file and
// environment variables, exposing typed structs for every section. The
// defaults are complete on their own; a config file is never required.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config is the runtime configuration loaded from defaults, config.toml,
// and env vars.
type Config struct {
	// HomeDir is runtime-resolved from READGATE_HOME and not read from config.
	HomeDir string      `mapstructure:"-"`
	Limits  Limits      `mapstructure:"limits"`
	Skip    SkipConfig  `mapstructure:"skip"`
	Audit   AuditConfig `mapstructure:"audit"`
}

// Limits holds the file-level paging thresholds and per-request ceilings.
// Files exceeding MaxFileLines or MaxFileBytes may only be read with
// explicit offset+limit; no single read may request more than MaxReadLines.
type Limits struct {
	MaxFileLines int   `mapstructure:"max_file_lines"`
	MaxFileBytes int64 `mapstructure:"max_file_bytes"`
	MaxReadLines int   `mapstructure:"max_read_lines"`
	MaxReadBytes int64 `mapstructure:"max_read_bytes"`
}

// SkipConfig lists file extensions the guard never inspects.
type SkipConfig struct {
	Extensions []string `mapstructure:"extensions"`
}

// AuditConfig controls the best-effort decision log.
type AuditConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// LogFile overrides the default audit log location when set.
	LogFile string `mapstructure:"log_file"`
}

var defaultConfig = Config{
	Limits: Limits{
		MaxFileLines: 1000,
		MaxFileBytes: 50 * 1024,
		MaxReadLines: 500,
		MaxReadBytes: 20 * 1024,
	},
	Skip: SkipConfig{
		Extensions: []string{
			".png", ".jpg", ".jpeg", ".gif", ".bmp", ".ico",
			".pdf", ".exe", ".dll", ".so", ".dylib",
		},
	},
	Audit: AuditConfig{
		Enabled: true,
	},
}

// homeDir returns the readgate home directory.
// Uses READGATE_HOME env var if set, otherwise defaults to ~/.readgate.
func homeDir() (string, error) {
	if dir := os.Getenv("READGATE_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return defaultHomePath(home), nil
}

// Load merges hardcoded defaults and config file values in that order.
// Config is always at $READGATE_HOME/config.toml.
func Load() (*Config, error) {
	homeDir, err := homeDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(homeConfigPath(homeDir))
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	decodeHook := mapstructure.ComposeDecodeHookFunc(
		expandEnvStringHook(),
		mapstructure.StringToSliceHookFunc(","),
	)

	if err := v.Unmarshal(&cfg, func(c *mapstructure.DecoderConfig) {
		c.DecodeHook = decodeHook
	}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.HomeDir = homeDir

	return &cfg, nil
}

// Write writes the merged configuration (defaults overlaid by user
// config) to w in TOML format.
func Write(w io.Writer) error {
	if w == nil {
		return errors.New("writer is required")
	}

	homeDir, err := homeDir()
	if err != nil {
		return err
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(homeConfigPath(homeDir))
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read config file: %w", err)
		}
	}

	if err := v.WriteConfigTo(w); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("limits.max_file_lines", defaultConfig.Limits.MaxFileLines)
	v.SetDefault("limits.max_file_bytes", defaultConfig.Limits.MaxFileBytes)
	v.SetDefault("limits.max_read_lines", defaultConfig.Limits.MaxReadLines)
	v.SetDefault("limits.max_read_bytes", defaultConfig.Limits.MaxReadBytes)

	v.SetDefault("skip.extensions", defaultConfig.Skip.Extensions)

	v.SetDefault("audit.enabled", defaultConfig.Audit.Enabled)
	v.SetDefault("audit.log_file", defaultConfig.Audit.LogFile)
}

// Validatable is implemented by config sections that can self-validate.
type Validatable interface {
	Validate() error
}

// Validate checks threshold sanity.
func (c Limits) Validate() error {
	if c.MaxFileLines <= 0 {
		return errors.New("max_file_lines must be > 0")
	}
	if c.MaxFileBytes <= 0 {
		return errors.New("max_file_bytes must be > 0")
	}
	if c.MaxReadLines <= 0 {
		return errors.New("max_read_lines must be > 0")
	}
	if c.MaxReadBytes <= 0 {
		return errors.New("max_read_bytes must be > 0")
	}
	return nil
}

// Validate checks that every skip entry looks like a file extension.
func (c SkipConfig) Validate() error {
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("skip extension %q must start with a dot", ext)
		}
	}
	return nil
}

// Validate validates audit settings.
func (c AuditConfig) Validate() error {
	return nil
}

// Validate validates startup configuration and returns the first fatal error.
func (cfg *Config) Validate() error {
	if err := cfg.Limits.Validate(); err != nil {
		return fmt.Errorf("limits: %w", err)
	}
	if err := cfg.Skip.Validate(); err != nil {
		return fmt.Errorf("skip: %w", err)
	}
	if err := cfg.Audit.Validate(); err != nil {
		return fmt.Errorf("audit: %w", err)
	}
	return nil
}

func expandEnvStringHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.String {
			return data, nil
		}
		value, ok := data.(string)
		if !ok {
			return data, nil
		}
		return os.ExpandEnv(value), nil
	}
}
