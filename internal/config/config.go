// Package config loads service settings from flags, SURVEY_* environment
// variables, an optional YAML file and built-in defaults, in that order.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"go-survey-stats/internal/model"
	"go-survey-stats/internal/store"
)

// EnvPrefix is prepended to every environment variable, e.g. SURVEY_SERVER_ADDR.
const EnvPrefix = "SURVEY"

// Config holds all configuration values for the application.
type Config struct {
	Server   ServerConfig     `mapstructure:"server"`
	Dataset  DatasetConfig    `mapstructure:"dataset"`
	Pool     model.PoolConfig `mapstructure:"pool"`
	Results  store.Config     `mapstructure:"results"`
	Journal  JournalConfig    `mapstructure:"journal"`
	Log      LogConfig        `mapstructure:"log"`
	Trace    TraceConfig      `mapstructure:"trace"`
	Shutdown ShutdownConfig   `mapstructure:"shutdown"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DatasetConfig struct {
	Path string `mapstructure:"path"`
}

// JournalConfig enables the sqlite job journal (stored at results.sqlite_path).
type JournalConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

type TraceConfig struct {
	Stdout bool `mapstructure:"stdout"`
}

type ShutdownConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// SetDefaults registers every key so environment overrides are picked up
// by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("dataset.path", "nutrition_activity_obesity_usa_subset.csv")
	v.SetDefault("pool.workers", 0)
	v.SetDefault("pool.retry.max_attempts", model.DefaultPersistRetry.MaxAttempts)
	v.SetDefault("pool.retry.initial_delay", model.DefaultPersistRetry.InitialDelay)
	v.SetDefault("pool.retry.max_delay", model.DefaultPersistRetry.MaxDelay)
	v.SetDefault("pool.retry.backoff_multiplier", model.DefaultPersistRetry.BackoffMultiplier)
	v.SetDefault("results.backend", store.BackendFile)
	v.SetDefault("results.dir", "results")
	v.SetDefault("results.sqlite_path", "jobs.db")
	v.SetDefault("results.badger_path", "results.badger")
	v.SetDefault("journal.enabled", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 1)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("trace.stdout", false)
	v.SetDefault("shutdown.timeout", "30s")
}

// New returns a viper instance with defaults and environment binding. If
// configFile is set it is read as well.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// the worker count has always been settable through TP_NUM_OF_THREADS
	if err := v.BindEnv("pool.workers", EnvPrefix+"_POOL_WORKERS", "TP_NUM_OF_THREADS"); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}
	return v, nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.Results.Backend {
	case store.BackendFile, store.BackendSQLite, store.BackendBadger, store.BackendMemory:
	default:
		return fmt.Errorf("invalid results.backend %q", c.Results.Backend)
	}
	if c.Pool.Workers < 0 {
		return fmt.Errorf("invalid pool.workers %d: must not be negative", c.Pool.Workers)
	}
	if c.Pool.Retry.MaxAttempts < 1 {
		return fmt.Errorf("invalid pool.retry.max_attempts %d", c.Pool.Retry.MaxAttempts)
	}
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset.path is required")
	}
	if c.Shutdown.Timeout <= 0 {
		return fmt.Errorf("invalid shutdown.timeout %s", c.Shutdown.Timeout)
	}
	return nil
}
