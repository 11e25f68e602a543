// Package config defines the run configuration and how it is loaded.
//
// Conventions:
// - Defaults live in New; Load layers a YAML file and env vars on top.
// - Validation errors wrap ErrInvalidConfig, source errors wrap ErrLoadConfig.
package config

import (
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/text/language"

	"github.com/okian/appprofiles/internal/domain/filter"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// DataDir holds the two source files.
	DataDir string `koanf:"data_dir"`

	// AppleFile and GoogleFile are file names relative to DataDir.
	AppleFile  string `koanf:"apple_file"`
	GoogleFile string `koanf:"google_file"`

	// MaxNonASCII is the English-name tolerance.
	MaxNonASCII int `koanf:"max_non_ascii"`

	// TopN truncates printed tables; 0 prints every group.
	TopN int `koanf:"top_n"`

	// InspectApp names the app whose duplicate rows are printed.
	InspectApp string `koanf:"inspect_app"`

	// CSVComma is the single-character field delimiter of both sources.
	CSVComma string `koanf:"csv_comma"`

	// Locale is a BCP 47 tag for report number formatting.
	Locale string `koanf:"locale"`

	// MetricsFile, when set, receives a Prometheus textfile after the run.
	MetricsFile string `koanf:"metrics_file"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		LogFormat:   "text",
		DataDir:     "data",
		AppleFile:   "AppleStore.csv",
		GoogleFile:  "googleplaystore.csv",
		MaxNonASCII: filter.DefaultMaxNonASCII,
		TopN:        0,
		InspectApp:  "Instagram",
		CSVComma:    ",",
		Locale:      "en",
	}
}

// ApplePath returns the App Store file path.
func (c *Config) ApplePath() string { return filepath.Join(c.DataDir, c.AppleFile) }

// GooglePath returns the Google Play file path.
func (c *Config) GooglePath() string { return filepath.Join(c.DataDir, c.GoogleFile) }

// Comma returns the configured delimiter rune.
func (c *Config) Comma() rune {
	r, _ := utf8.DecodeRuneInString(c.CSVComma)
	return r
}

// Language returns the parsed locale, English when it does not parse.
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}
