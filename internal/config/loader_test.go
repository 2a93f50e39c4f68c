package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/holical/internal/config"
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
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.WeekStart, convey.ShouldEqual, "monday")
				convey.So(cfg.CalendarName, convey.ShouldEqual, "Staff Holidays")
				convey.So(cfg.SeedDemo, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("HOLICAL_ADDR", ":8080")
			_ = os.Setenv("HOLICAL_WEEK_START", "sunday")
			_ = os.Setenv("HOLICAL_INITIAL_YEAR", "2024")
			_ = os.Setenv("HOLICAL_INITIAL_MONTH", "12")
			_ = os.Setenv("HOLICAL_MAX_IMPORT_ROWS", "250")
			_ = os.Setenv("HOLICAL_SEED_DEMO", "false")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.WeekStart, convey.ShouldEqual, "sunday")
				convey.So(cfg.InitialYear, convey.ShouldEqual, 2024)
				convey.So(cfg.InitialMonth, convey.ShouldEqual, 12)
				convey.So(cfg.MaxImportRows, convey.ShouldEqual, 250)
				convey.So(cfg.SeedDemo, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
log_format: json
week_start: sunday
timezone: Europe/Berlin
calendar_name: Kitchen rota
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("HOLICAL_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.Timezone, convey.ShouldEqual, "Europe/Berlin")
				convey.So(cfg.CalendarName, convey.ShouldEqual, "Kitchen rota")
				convey.So(cfg.MaxImportRows, convey.ShouldEqual, 5000) // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
week_start: sunday
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("HOLICAL_CONFIG", tmpFile)
			_ = os.Setenv("HOLICAL_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")        // Overridden by env
				convey.So(cfg.WeekStart, convey.ShouldEqual, "sunday") // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("HOLICAL_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("HOLICAL_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("HOLICAL_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an out of range month", func() {
			_ = os.Setenv("HOLICAL_INITIAL_YEAR", "2026")
			_ = os.Setenv("HOLICAL_INITIAL_MONTH", "13")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should fail validation rather than clamp", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("HOLICAL_MAX_IMPORT_ROWS", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, k := range []string{
		"HOLICAL_CONFIG",
		"HOLICAL_ADDR",
		"HOLICAL_LOG_LEVEL",
		"HOLICAL_LOG_FORMAT",
		"HOLICAL_WEEK_START",
		"HOLICAL_INITIAL_YEAR",
		"HOLICAL_INITIAL_MONTH",
		"HOLICAL_TIMEZONE",
		"HOLICAL_SEED_DEMO",
		"HOLICAL_MAX_IMPORT_ROWS",
		"HOLICAL_CALENDAR_NAME",
	} {
		_ = os.Unsetenv(k)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "holical-config-*.yaml")
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
