package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mcoot/flashdeck/pkg/validator"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypeSQLite   = "sqlite"
	StorageTypePostgres = "postgres"
)

// EnvPrefix is prepended to every environment override, e.g.
// FLASHDECK_STORAGE_TYPE
const EnvPrefix = "FLASHDECK"

type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Streak  StreakConfig  `mapstructure:"streak"`
	Log     LogConfig     `mapstructure:"log"`
}

type StorageConfig struct {
	Type        string `mapstructure:"type" validate:"oneof=memory redis sqlite postgres"`
	RedisURL    string `mapstructure:"redis_url" validate:"required_if=Type redis"`
	RedisPrefix string `mapstructure:"redis_prefix"`
	SQLitePath  string `mapstructure:"sqlite_path" validate:"required_if=Type sqlite"`
	PostgresDSN string `mapstructure:"postgres_dsn" validate:"required_if=Type postgres"`
}

type AuthConfig struct {
	BcryptCost        int `mapstructure:"bcrypt_cost" validate:"min=4,max=31"`
	MinPasswordLength int `mapstructure:"min_password_length" validate:"min=1,max=72"`
}

type StreakConfig struct {
	// Timezone is an IANA name; empty or "Local" uses the system zone
	Timezone string `mapstructure:"timezone"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// DefaultDataDir is where the sqlite store lives unless configured
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".flashdeck"
	}
	return filepath.Join(home, ".flashdeck")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.type", StorageTypeSQLite)
	v.SetDefault("storage.redis_url", "")
	v.SetDefault("storage.redis_prefix", "flashdeck")
	v.SetDefault("storage.sqlite_path", filepath.Join(DefaultDataDir(), "flashdeck.db"))
	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.min_password_length", 1)
	v.SetDefault("streak.timezone", "Local")
	v.SetDefault("log.level", "warn")
}

// Load reads configuration from, in increasing priority: defaults, the
// config file, a .env file in the working directory and FLASHDECK_*
// environment variables. When path is empty, flashdeck.{yaml,toml,json}
// is looked up in the working directory and DefaultDataDir; a missing
// file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("flashdeck")
		v.AddConfigPath(".")
		v.AddConfigPath(DefaultDataDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and the time zone name
func (c *Config) Validate() error {
	if err := validator.ValidateStruct(c); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the streak time zone
func (c *Config) Location() (*time.Location, error) {
	tz := c.Streak.Timezone
	if tz == "" || tz == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid streak.timezone %q: %w", tz, err)
	}
	return loc, nil
}

// SlogLevel maps log.level onto a slog level
func (c *Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
