// Package config handles client configuration using Viper.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	apperrors "github.com/reciplore/reciplore/internal/errors"
)

// EnvPrefix prefixes every environment override, e.g. RECIPLORE_API_BASE_URL.
const EnvPrefix = "RECIPLORE"

// Config holds the client configuration.
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Log       LogConfig       `mapstructure:"log"`
	Output    OutputConfig    `mapstructure:"output"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// APIConfig locates the backend.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// StorageConfig locates local state.
type StorageConfig struct {
	CookiePath string `mapstructure:"cookie_path"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig holds display configuration.
type OutputConfig struct {
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// TelemetryConfig toggles tracing.
type TelemetryConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sample_rate"`
}

// Dir returns the per-user configuration directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeDirectoryFailed, apperrors.KindUnknown,
			"failed to resolve home directory", err)
	}
	return filepath.Join(home, ".reciplore"), nil
}

// Load reads configuration from file and environment. An empty path
// looks for config.yaml in Dir(). A missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure paths
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeConfigInvalid, apperrors.KindUnknown,
				"config file not found", err)
		}
		v.SetConfigFile(configPath)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, apperrors.Wrap(apperrors.ErrCodeConfigInvalid, apperrors.KindUnknown,
				"failed to read config file", err).
				WithSuggestion("Check the YAML syntax of the config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeConfigInvalid, apperrors.KindUnknown,
			"failed to decode config", err)
	}

	path, err := expandHome(cfg.Storage.CookiePath)
	if err != nil {
		return nil, err
	}
	cfg.Storage.CookiePath = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:5000/api")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("storage.cookie_path", filepath.Join("~", ".reciplore", "cookies.json"))
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("output.format", "text")
	v.SetDefault("output.no_color", false)
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.sample_rate", 1.0)
}

// Validate checks values that would otherwise fail at first use.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperrors.New(apperrors.ErrCodeConfigInvalid, apperrors.KindUnknown,
			fmt.Sprintf("api.base_url must be an absolute http(s) URL, got %q", c.API.BaseURL)).
			WithSuggestion("Set api.base_url in config.yaml or " + EnvPrefix + "_API_BASE_URL")
	}

	if c.API.Timeout <= 0 {
		return apperrors.New(apperrors.ErrCodeConfigInvalid, apperrors.KindUnknown,
			"api.timeout must be positive")
	}

	switch c.Output.Format {
	case "text", "json", "yaml":
	default:
		return apperrors.New(apperrors.ErrCodeConfigInvalid, apperrors.KindUnknown,
			fmt.Sprintf("unknown output.format %q (supported: text, json, yaml)", c.Output.Format))
	}

	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return apperrors.New(apperrors.ErrCodeConfigInvalid, apperrors.KindUnknown,
			"telemetry.sample_rate must be between 0 and 1")
	}

	if c.Storage.CookiePath == "" {
		return apperrors.New(apperrors.ErrCodeConfigInvalid, apperrors.KindUnknown,
			"storage.cookie_path must not be empty")
	}
	return nil
}

// expandHome expands a leading ~ in storage paths.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeDirectoryFailed, apperrors.KindUnknown,
			"failed to resolve home directory", err)
	}
	return filepath.Join(home, path[1:]), nil
}
