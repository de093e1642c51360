package config_test

import (
	"context"
	"os"
	"runtime"
	"testing"

	"github.com/Naveen701372/Networking-Wingman/internal/config"
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
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.SegmentQueueSize, convey.ShouldEqual, 10_000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*4)
				convey.So(cfg.OracleEnabled, convey.ShouldBeFalse)
				convey.So(cfg.OracleModel, convey.ShouldEqual, "gpt-4o-mini")
				convey.So(cfg.OracleTimeoutMS, convey.ShouldEqual, 8_000)
				convey.So(cfg.DebounceChars, convey.ShouldEqual, 400)
				convey.So(cfg.DebounceIntervalMS, convey.ShouldEqual, 2_000)
				convey.So(cfg.TranscriptWindowChars, convey.ShouldEqual, 1_200)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			clearConfigEnvVars()
			_ = os.Setenv("WINGMAN_ADDR", ":8080")
			_ = os.Setenv("WINGMAN_SEGMENT_QUEUE_SIZE", "500")
			_ = os.Setenv("WINGMAN_WORKER_COUNT", "16")
			_ = os.Setenv("WINGMAN_ORACLE_ENABLED", "true")
			_ = os.Setenv("WINGMAN_ORACLE_MODEL", "gpt-4o")
			_ = os.Setenv("WINGMAN_DEBOUNCE_CHARS", "800")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env values override the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SegmentQueueSize, convey.ShouldEqual, 500)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.OracleEnabled, convey.ShouldBeTrue)
				convey.So(cfg.OracleModel, convey.ShouldEqual, "gpt-4o")
				convey.So(cfg.DebounceChars, convey.ShouldEqual, 800)

				convey.Convey("And untouched fields keep their defaults", func() {
					convey.So(cfg.OracleTimeoutMS, convey.ShouldEqual, 8_000)
				})
			})
		})

		convey.Convey("When a numeric setting is invalid", func() {
			clearConfigEnvVars()
			_ = os.Setenv("WINGMAN_WORKER_COUNT", "0")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then validation rejects the config", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "worker_count")
			})
		})

		convey.Convey("When the config file does not exist", func() {
			clearConfigEnvVars()
			_ = os.Setenv("WINGMAN_CONFIG", "/nonexistent/wingman.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then loading fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When a config file is provided", func() {
			clearConfigEnvVars()
			path := writeTempConfig(t, "addr: \":7070\"\noracle_model: gpt-4.1-mini\n")
			_ = os.Setenv("WINGMAN_CONFIG", path)
			_ = os.Setenv("WINGMAN_ADDR", ":6060")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env still wins over the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
				convey.So(cfg.OracleModel, convey.ShouldEqual, "gpt-4.1-mini")
			})
		})
	})
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "wingman-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp config: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close temp config: %v", err)
	}
	return f.Name()
}

func clearConfigEnvVars() {
	vars := []string{
		"WINGMAN_CONFIG",
		"WINGMAN_LOG_LEVEL",
		"WINGMAN_ADDR",
		"WINGMAN_SEGMENT_QUEUE_SIZE",
		"WINGMAN_WORKER_COUNT",
		"WINGMAN_SELF_NAMES",
		"WINGMAN_ORACLE_ENABLED",
		"WINGMAN_ORACLE_MODEL",
		"WINGMAN_ORACLE_BASE_URL",
		"WINGMAN_ORACLE_TIMEOUT_MS",
		"WINGMAN_DEBOUNCE_CHARS",
		"WINGMAN_DEBOUNCE_INTERVAL_MS",
		"WINGMAN_TRANSCRIPT_WINDOW_CHARS",
	}
	for _, v := range vars {
		_ = os.Unsetenv(v)
	}
}
