package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// SelectorKey is the property carrying the environment selector.
// With the env key replacer it is also read from KARATE_ENV.
const SelectorKey = "karate.env"

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

type KarateConfig struct {
	Env string `mapstructure:"env"`
}

type EnvironmentConfig struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

type LoggingConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	AddSource bool   `mapstructure:"add_source"`
}

type Config struct {
	Karate       KarateConfig        `mapstructure:"karate"`
	DefaultURL   string              `mapstructure:"default_url"`
	Environments []EnvironmentConfig `mapstructure:"environments"`
	Logging      LoggingConfig       `mapstructure:"logging"`
}

// Load reads environments.yaml from the given directories (./config and .
// when none are given), then environment variables, and validates the result.
// A missing config file is not an error.
func Load(paths ...string) (*Config, error) {
	v := viper.New()

	v.SetDefault(SelectorKey, "")
	v.SetDefault("default_url", DefaultAppURL)
	v.SetDefault("logging.level", LogLevelInfo)
	v.SetDefault("logging.format", LogFormatText)
	v.SetDefault("logging.add_source", false)

	v.SetConfigName("environments")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./config", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, fmt.Errorf("read config: %w", err)
		}
		slog.Debug("config file not found, using defaults and environment variables")
	} else {
		slog.Debug("loaded config file", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadDotEnv loads variables from a .env file into the process environment.
// Variables that are already set keep their value. A missing file is ignored.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Selector returns the raw environment selector, possibly empty.
func (c *Config) Selector() string {
	return c.Karate.Env
}

// Table builds the effective lookup table: built-in entries, then the
// configured default URL, then configured entries.
func (c *Config) Table() *Table {
	t := DefaultTable()
	if c.DefaultURL != "" {
		t = t.WithDefault(c.DefaultURL)
	}

	entries := make([]Entry, 0, len(c.Environments))
	for _, e := range c.Environments {
		entries = append(entries, Entry{Name: e.Name, URL: e.URL})
	}

	return t.With(entries...)
}

func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.DefaultURL,
			validation.Required,
			validation.By(validateAppURL),
		),
		validation.Field(&c.Environments,
			validation.Each(validation.By(validateEnvironmentConfig)),
		),
		validation.Field(&c.Logging,
			validation.Required,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
					validation.Field(&lc.Format,
						validation.Required,
						validation.In(LogFormatText, LogFormatJSON),
					),
				)
			}),
		),
	)
	if err != nil {
		return err
	}

	return validateUniqueNames(c.Environments)
}

func validateEnvironmentConfig(value interface{}) error {
	ec, ok := value.(EnvironmentConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be an EnvironmentConfig")
	}

	return validateEntry(Entry{Name: ec.Name, URL: ec.URL})
}

func validateUniqueNames(envs []EnvironmentConfig) error {
	seen := make(map[string]struct{}, len(envs))
	for _, e := range envs {
		if _, dup := seen[e.Name]; dup {
			return validation.Errors{
				"environments": validation.NewError("validation_duplicate_environment",
					fmt.Sprintf("environment %q is declared more than once", e.Name)),
			}
		}
		seen[e.Name] = struct{}{}
	}
	return nil
}
