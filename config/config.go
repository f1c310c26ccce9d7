// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads lithic.Client options from environment
// variables, a .env file and an optional YAML configuration file.
//
// Every setting has an environment variable prefixed with LITHIC_, such
// as LITHIC_API_KEY or LITHIC_MAX_RETRIES. Command-line flags win over
// environment variables, which win over the configuration file, which
// wins over the defaults. A .env
// file only sets variables which are not already set.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gogama/lithic"
	"github.com/gogama/lithic/timeout"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variable of every setting.
const EnvPrefix = "LITHIC"

// DefaultEnvFile is loaded by Load when no env file is given and it
// exists in the working directory.
const DefaultEnvFile = ".env"

// Config holds the settings of a client.
type Config struct {
	// APIKey is sent in the Authorization header of every request.
	APIKey string `mapstructure:"api_key" validate:"required"`

	// BaseURL overrides the URL of Environment when set.
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`

	// Environment names the deployment to call when BaseURL is empty.
	Environment string `mapstructure:"environment" validate:"omitempty,oneof=production sandbox"`

	MaxRetries int `mapstructure:"max_retries" validate:"gte=0"`

	// Timeout bounds each attempt. Zero means attempts never time out.
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`

	ConnectTimeout time.Duration `mapstructure:"connect_timeout" validate:"gte=0"`

	StrictValidation bool `mapstructure:"strict_validation"`

	// LogLevel enables call logging at the given zerolog level. An
	// empty level disables logging.
	LogLevel string `mapstructure:"log_level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
}

// A LoadOption configures Load.
type LoadOption func(l *loader)

type loader struct {
	configFile string
	envFile    string
	flags      *pflag.FlagSet
}

// WithConfigFile makes Load read settings from a YAML, JSON or TOML
// file. The file must exist.
func WithConfigFile(path string) LoadOption {
	return func(l *loader) { l.configFile = path }
}

// WithFlags makes Load read settings from the flags of fs which were
// set on the command line. A flag named after a setting, with dashes
// for underscores, sets that setting: --api-key sets api_key. Flags win
// over every other source.
func WithFlags(fs *pflag.FlagSet) LoadOption {
	return func(l *loader) { l.flags = fs }
}

// WithEnvFile makes Load read the .env file at path instead of
// DefaultEnvFile. The file must exist.
func WithEnvFile(path string) LoadOption {
	return func(l *loader) { l.envFile = path }
}

var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})
	return v
}()

var defaults = map[string]any{
	"api_key":           "",
	"base_url":          "",
	"environment":       string(lithic.EnvironmentProduction),
	"max_retries":       lithic.DefaultMaxRetries,
	"timeout":           timeout.Default.Total,
	"connect_timeout":   timeout.Default.Connect,
	"strict_validation": true,
	"log_level":         "",
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if _, ok := defaults[key]; ok && err == nil {
			err = v.BindPFlag(key, f)
		}
	})
	return err
}

// Load loads and validates the configuration.
func Load(opts ...LoadOption) (*Config, error) {
	var l loader
	for _, opt := range opts {
		opt(&l)
	}

	envFile := l.envFile
	if envFile == "" {
		if _, err := os.Stat(DefaultEnvFile); err == nil {
			envFile = DefaultEnvFile
		}
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("lithic/config: load env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	if l.flags != nil {
		if err := bindFlags(v, l.flags); err != nil {
			return nil, fmt.Errorf("lithic/config: bind flags: %w", err)
		}
	}
	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("lithic/config: read config file %s: %w", l.configFile, err)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("lithic/config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings for consistency.
func (cfg *Config) Validate() error {
	err := validate.Struct(cfg)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		return fmt.Errorf("lithic/config: invalid %s: failed %q check", f.Field(), f.Tag())
	} else if err != nil {
		return fmt.Errorf("lithic/config: %w", err)
	}
	return nil
}

// Logger returns a logger writing to w at the configured level, and
// false if logging is disabled.
func (cfg *Config) Logger(w io.Writer) (zerolog.Logger, bool) {
	if cfg.LogLevel == "" {
		return zerolog.Nop(), false
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.Disabled {
		return zerolog.Nop(), false
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), true
}

// Options returns the client options which apply the configuration.
// Log output, if enabled, goes to standard error.
func (cfg *Config) Options() []lithic.Option {
	opts := []lithic.Option{
		lithic.WithAPIKey(cfg.APIKey),
		lithic.WithMaxRetries(cfg.MaxRetries),
		lithic.WithTimeout(timeout.Timeout{Total: cfg.Timeout, Connect: cfg.ConnectTimeout}),
		lithic.WithStrictValidation(cfg.StrictValidation),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, lithic.WithBaseURL(cfg.BaseURL))
	} else {
		env := lithic.Environment(cfg.Environment)
		if env == "" {
			env = lithic.EnvironmentProduction
		}
		opts = append(opts, lithic.WithEnvironment(env))
	}
	if logger, ok := cfg.Logger(os.Stderr); ok {
		opts = append(opts, lithic.WithLogger(logger))
	}
	return opts
}
