package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"golang.org/x/text/language"
)

// Environment variable names.
const (
	EnvPrefix = "APPPROFILES_"
	EnvFile   = EnvPrefix + "CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if APPPROFILES_CONFIG is set
//  3. env (prefix APPPROFILES_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// APPPROFILES_DATA_DIR -> data_dir; underscores are kept to match the koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values Load cannot type-check.
func (c *Config) Validate() error {
	switch {
	case c.AppleFile == "":
		return fmt.Errorf("%w: apple_file must not be empty", ErrInvalidConfig)
	case c.GoogleFile == "":
		return fmt.Errorf("%w: google_file must not be empty", ErrInvalidConfig)
	case c.MaxNonASCII < 0:
		return fmt.Errorf("%w: max_non_ascii must not be negative", ErrInvalidConfig)
	case c.TopN < 0:
		return fmt.Errorf("%w: top_n must not be negative", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	case utf8.RuneCountInString(c.CSVComma) != 1 || strings.ContainsAny(c.CSVComma, "\"\r\n\uFFFD"):
		return fmt.Errorf("%w: csv_comma must be one delimiter character, got %q", ErrInvalidConfig, c.CSVComma)
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("%w: locale %q: %w", ErrInvalidConfig, c.Locale, err)
	}
	return nil
}
