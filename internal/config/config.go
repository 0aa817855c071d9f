// Package config loads lina's configuration from flags, environment, an
// optional YAML file and built-in defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	lerrors "github.com/abhisek/lina/internal/errors"
	"github.com/abhisek/lina/internal/logging"
	"github.com/abhisek/lina/internal/mastery"
	"github.com/abhisek/lina/internal/reminders"
	"github.com/abhisek/lina/internal/store"
)

// EnvPrefix prefixes every environment variable, e.g. LINA_DB_BACKEND.
const EnvPrefix = "LINA"

// Config is the full application configuration.
type Config struct {
	DB        DBConfig        `mapstructure:"db"`
	Catalog   string          `mapstructure:"catalog"`
	Log       LogConfig       `mapstructure:"log"`
	Server    ServerConfig    `mapstructure:"server"`
	Mastery   MasteryConfig   `mapstructure:"mastery"`
	Reminders RemindersConfig `mapstructure:"reminders"`
}

type DBConfig struct {
	Backend string `mapstructure:"backend"`
	DSN     string `mapstructure:"dsn"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type MasteryConfig struct {
	Window           int           `mapstructure:"window"`
	StreakLength     int           `mapstructure:"streak-length"`
	InactivityAfter  time.Duration `mapstructure:"inactivity-after"`
	MinSamples       int           `mapstructure:"min-samples"`
	PromoteThreshold float64       `mapstructure:"promote-threshold"`
}

type RemindersConfig struct {
	ReviveAfter     time.Duration `mapstructure:"revive-after"`
	PerKind         int           `mapstructure:"per-kind"`
	WarmupMaxLevel  int           `mapstructure:"warmup-max-level"`
	WarmupBelow     float64       `mapstructure:"warmup-below"`
	PromoteMinLevel int           `mapstructure:"promote-min-level"`
	PromoteMaxLevel int           `mapstructure:"promote-max-level"`
	PromoteAtLeast  float64       `mapstructure:"promote-at-least"`
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	m := mastery.DefaultConfig()
	r := reminders.DefaultConfig()

	v.SetDefault("db.backend", string(store.BackendSQLite))
	v.SetDefault("db.dsn", "")
	v.SetDefault("catalog", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logging.FormatConsole)
	v.SetDefault("server.addr", ":8080")

	v.SetDefault("mastery.window", m.Window)
	v.SetDefault("mastery.streak-length", m.StreakLength)
	v.SetDefault("mastery.inactivity-after", m.InactivityAfter)
	v.SetDefault("mastery.min-samples", m.MinSamples)
	v.SetDefault("mastery.promote-threshold", m.PromoteThreshold)

	v.SetDefault("reminders.revive-after", r.ReviveAfter)
	v.SetDefault("reminders.per-kind", r.PerKind)
	v.SetDefault("reminders.warmup-max-level", int(r.WarmupMaxLevel))
	v.SetDefault("reminders.warmup-below", r.WarmupBelow)
	v.SetDefault("reminders.promote-min-level", int(r.PromoteMinLevel))
	v.SetDefault("reminders.promote-max-level", int(r.PromoteMaxLevel))
	v.SetDefault("reminders.promote-at-least", r.PromoteAtLeast)
}

// Load reads the config file, if any, and decodes v into a validated Config.
// An empty configFile searches for .lina.yaml in the working and home
// directories; a missing file is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".lina")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if _, err := store.ParseBackend(c.DB.Backend); err != nil {
		return fmt.Errorf("%w: db.backend: %v", lerrors.ErrInvalidInput, err)
	}
	if c.DB.Backend != string(store.BackendSQLite) && c.DB.Backend != string(store.BackendMemory) && c.DB.DSN == "" {
		return fmt.Errorf("%w: db.dsn is required for backend %s", lerrors.ErrInvalidInput, c.DB.Backend)
	}
	switch c.Log.Format {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		return fmt.Errorf("%w: log.format must be console or json, got %q", lerrors.ErrInvalidInput, c.Log.Format)
	}
	if err := c.MasteryConfig().Validate(); err != nil {
		return fmt.Errorf("mastery: %w", err)
	}
	if err := c.ReminderConfig().Validate(); err != nil {
		return fmt.Errorf("reminders: %w", err)
	}
	return nil
}

// MasteryConfig converts the mastery section to the engine configuration.
func (c *Config) MasteryConfig() mastery.Config {
	return mastery.Config{
		Window:           c.Mastery.Window,
		StreakLength:     c.Mastery.StreakLength,
		InactivityAfter:  c.Mastery.InactivityAfter,
		MinSamples:       c.Mastery.MinSamples,
		PromoteThreshold: c.Mastery.PromoteThreshold,
	}
}

// ReminderConfig converts the reminders section to the reminder thresholds.
func (c *Config) ReminderConfig() reminders.Config {
	return reminders.Config{
		ReviveAfter:     c.Reminders.ReviveAfter,
		PerKind:         c.Reminders.PerKind,
		WarmupMaxLevel:  mastery.Level(c.Reminders.WarmupMaxLevel),
		WarmupBelow:     c.Reminders.WarmupBelow,
		PromoteMinLevel: mastery.Level(c.Reminders.PromoteMinLevel),
		PromoteMaxLevel: mastery.Level(c.Reminders.PromoteMaxLevel),
		PromoteAtLeast:  c.Reminders.PromoteAtLeast,
	}
}
