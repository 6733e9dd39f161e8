// Package config loads collaborator configuration for sc13dg: SEC access,
// storage locations, batch sizing and logging. The extraction core takes
// no configuration.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	SEC     SECConfig     `mapstructure:"sec"`
	Storage StorageConfig `mapstructure:"storage"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Log     LogConfig     `mapstructure:"log"`
}

// SECConfig controls requests to EDGAR.
type SECConfig struct {
	Email             string        `mapstructure:"email"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxRetries        uint64        `mapstructure:"max_retries"`
	// ResolveDocuments fetches primary documents found on index pages
	// instead of full .txt submissions.
	ResolveDocuments bool `mapstructure:"resolve_documents"`
}

// StorageConfig locates the database and the document cache.
type StorageConfig struct {
	Database string `mapstructure:"database"`
	CacheDir string `mapstructure:"cache_dir"`
}

// BatchConfig sizes the worker pool.
type BatchConfig struct {
	Workers int `mapstructure:"workers"`
}

// LogConfig selects the log level and handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text, json
}

// Load reads configuration. An empty path searches for sc13dg.yaml in the
// working directory and ~/.sc13dg; a missing file is not an error.
//
// Environment variables override file values.
// Format: SC13DG_<SECTION>_<KEY>, e.g. SC13DG_SEC_EMAIL. SEC_EMAIL is
// honoured when no email is configured.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("sc13dg")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".sc13dg"))
		}
	}

	v.SetEnvPrefix("SC13DG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if cfg.SEC.Email == "" {
		cfg.SEC.Email = os.Getenv("SEC_EMAIL")
	}
	return &cfg, cfg.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sec.email", "")
	v.SetDefault("sec.requests_per_second", 10.0)
	v.SetDefault("sec.timeout", "30s")
	v.SetDefault("sec.max_retries", 3)
	v.SetDefault("sec.resolve_documents", false)

	v.SetDefault("storage.database", "sc13dg.db")
	v.SetDefault("storage.cache_dir", "")

	v.SetDefault("batch.workers", 4)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Validate rejects values no collaborator can work with.
func (c *Config) Validate() error {
	if c.SEC.RequestsPerSecond <= 0 || c.SEC.RequestsPerSecond > 10 {
		return fmt.Errorf("sec.requests_per_second must be in (0, 10], got %v", c.SEC.RequestsPerSecond)
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch.workers must be positive, got %d", c.Batch.Workers)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// NewLogger builds the configured slog handler writing to w.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("invalid log.level %q", s)
	}
	return level, nil
}
