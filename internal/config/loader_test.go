package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/appprofiles/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.DataDir, convey.ShouldEqual, "data")
				convey.So(cfg.AppleFile, convey.ShouldEqual, "AppleStore.csv")
				convey.So(cfg.GoogleFile, convey.ShouldEqual, "googleplaystore.csv")
				convey.So(cfg.MaxNonASCII, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("APPPROFILES_DATA_DIR", "/srv/data")
			_ = os.Setenv("APPPROFILES_MAX_NON_ASCII", "5")
			_ = os.Setenv("APPPROFILES_TOP_N", "10")
			_ = os.Setenv("APPPROFILES_METRICS_FILE", "/tmp/appprofiles.prom")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DataDir, convey.ShouldEqual, "/srv/data")
				convey.So(cfg.MaxNonASCII, convey.ShouldEqual, 5)
				convey.So(cfg.TopN, convey.ShouldEqual, 10)
				convey.So(cfg.MetricsFile, convey.ShouldEqual, "/tmp/appprofiles.prom")
				convey.So(cfg.AppleFile, convey.ShouldEqual, "AppleStore.csv")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
log_level: debug
data_dir: ./fixtures
apple_file: apple.csv
google_file: google.csv
top_n: 5
inspect_app: Slack
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("APPPROFILES_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.DataDir, convey.ShouldEqual, "./fixtures")
				convey.So(cfg.AppleFile, convey.ShouldEqual, "apple.csv")
				convey.So(cfg.GoogleFile, convey.ShouldEqual, "google.csv")
				convey.So(cfg.TopN, convey.ShouldEqual, 5)
				convey.So(cfg.InspectApp, convey.ShouldEqual, "Slack")
				convey.So(cfg.MaxNonASCII, convey.ShouldEqual, 3) // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
data_dir: ./fixtures
top_n: 5
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("APPPROFILES_CONFIG", tmpFile)
			_ = os.Setenv("APPPROFILES_TOP_N", "20")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DataDir, convey.ShouldEqual, "./fixtures") // From file
				convey.So(cfg.TopN, convey.ShouldEqual, 20)              // Overridden by env
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("APPPROFILES_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("APPPROFILES_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an empty file name", func() {
			_ = os.Setenv("APPPROFILES_APPLE_FILE", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "apple_file must not be empty")
			})
		})

		convey.Convey("When loading config with a negative threshold", func() {
			_ = os.Setenv("APPPROFILES_MAX_NON_ASCII", "-1")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with a mistyped log format", func() {
			_ = os.Setenv("APPPROFILES_LOG_FORMAT", "jsno")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading delimiter and locale from the environment", func() {
			_ = os.Setenv("APPPROFILES_CSV_COMMA", ";")
			_ = os.Setenv("APPPROFILES_LOCALE", "de")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then both are applied", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Comma(), convey.ShouldEqual, ';')
				convey.So(cfg.Locale, convey.ShouldEqual, "de")
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("APPPROFILES_TOP_N", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with YAML file containing comments", func() {
			yamlContent := `
# Source files
data_dir: ./fixtures  # Inline comment
top_n: 3
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("APPPROFILES_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should parse YAML with comments", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DataDir, convey.ShouldEqual, "./fixtures")
				convey.So(cfg.TopN, convey.ShouldEqual, 3)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"APPPROFILES_CONFIG",
		"APPPROFILES_LOG_LEVEL",
		"APPPROFILES_DATA_DIR",
		"APPPROFILES_APPLE_FILE",
		"APPPROFILES_GOOGLE_FILE",
		"APPPROFILES_MAX_NON_ASCII",
		"APPPROFILES_TOP_N",
		"APPPROFILES_INSPECT_APP",
		"APPPROFILES_METRICS_FILE",
		"APPPROFILES_LOG_FORMAT",
		"APPPROFILES_CSV_COMMA",
		"APPPROFILES_LOCALE",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "appprofiles-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
