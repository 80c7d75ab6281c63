// Package config loads the finovate configuration.
//
// Values come, by increasing priority, from the defaults, an optional yaml
// file, a ".env" file in the working directory and FINOVATE_ prefixed
// environment variables (FINOVATE_STORE_PATH overrides store.path).
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type StoreConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type QRConfig struct {
	Size int `mapstructure:"size"`
}

type Config struct {
	Store    StoreConfig  `mapstructure:"store"`
	Currency string       `mapstructure:"currency"`
	Output   OutputConfig `mapstructure:"output"`
	Log      LogConfig    `mapstructure:"log"`
	QR       QRConfig     `mapstructure:"qr"`
}

// EnvPrefix is the prefix of environment variables.
const EnvPrefix = "FINOVATE"

// Backends lists the accepted store backends.
var Backends = []string{"dir", "sqlite"}

// defaultStorePath returns "~/.finovate", or ".finovate" when there is no home.
func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".finovate"
	}
	return filepath.Join(home, ".finovate")
}

// Load loads configuration from the given yaml file path.
//
// If path is empty, it looks for an optional "finovate.yaml" in the working
// directory then in the user config directory.
func Load(path string) (*Config, error) {
	// a missing .env file is not an error.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("store.backend", "dir")
	v.SetDefault("store.path", defaultStorePath())
	v.SetDefault("currency", money.USD)
	v.SetDefault("output.dir", ".")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("qr.size", 256)

	if path == "" {
		v.SetConfigName("finovate")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "finovate"))
		}
	} else {
		v.SetConfigFile(path)
	}

	// environment overrides, e.g. FINOVATE_STORE_BACKEND=sqlite
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Currency = strings.ToUpper(c.Currency)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the values that cannot be checked later.
func (c *Config) Validate() error {
	var errs error
	if !slices.Contains(Backends, c.Store.Backend) {
		errs = errors.Join(errs, fmt.Errorf("store.backend %q is not one of %q", c.Store.Backend, Backends))
	}
	if c.Store.Path == "" {
		errs = errors.Join(errs, errors.New("store.path is empty"))
	}
	if money.GetCurrency(c.Currency) == nil {
		errs = errors.Join(errs, fmt.Errorf("currency %q is not an ISO 4217 code", c.Currency))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = errors.Join(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = errors.Join(errs, fmt.Errorf("log.format %q is not one of text or json", c.Log.Format))
	}
	if errs != nil {
		return fmt.Errorf("invalid config: %w", errs)
	}
	return nil
}

// SQLitePath returns the database file of the sqlite backend.
func (c *Config) SQLitePath() string { return filepath.Join(c.Store.Path, "finovate.db") }

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("log.level %q: %w", s, err)
	}
	return level, nil
}

// NewLogger returns the logger described by the configuration, writing to w.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Level)
	if err != nil {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
