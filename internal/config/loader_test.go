package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/mmolbparse/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"MMOLB_CONFIG",
	"MMOLB_ADDR",
	"MMOLB_LOG_LEVEL",
	"MMOLB_QUEUE_SIZE",
	"MMOLB_WORKER_COUNT",
	"MMOLB_DEDUPE_SIZE",
	"MMOLB_STORE_DRIVER",
	"MMOLB_STORE_DSN",
	"MMOLB_MAX_BATCH_SIZE",
}

func clearConfigEnvVars() {
	for _, name := range configEnvVars {
		_ = os.Unsetenv(name)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it matches New", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New(ctx))
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("MMOLB_ADDR", ":8080")
			_ = os.Setenv("MMOLB_QUEUE_SIZE", "5000")
			_ = os.Setenv("MMOLB_WORKER_COUNT", "16")
			_ = os.Setenv("MMOLB_STORE_DRIVER", "sqlite")
			_ = os.Setenv("MMOLB_STORE_DSN", "/tmp/results.db")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 5000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.StoreDriver, convey.ShouldEqual, config.StoreSQLite)
				convey.So(cfg.StoreDSN, convey.ShouldEqual, "/tmp/results.db")
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			path := createTempConfigFile(t, `
# service settings
addr: ":9090"
log_level: debug
queue_size: 300
dedupe_size: 600
max_batch_size: 50
`)
			_ = os.Setenv("MMOLB_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 300)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 600)
				convey.So(cfg.MaxBatchSize, convey.ShouldEqual, 50)
				convey.So(cfg.StoreDriver, convey.ShouldEqual, config.StoreMemory)
			})
		})

		convey.Convey("When both a file and env vars are set", func() {
			path := createTempConfigFile(t, "addr: \":9090\"\nworker_count: 3\n")
			_ = os.Setenv("MMOLB_CONFIG", path)
			_ = os.Setenv("MMOLB_ADDR", ":7070")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables win", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When the YAML file is malformed", func() {
			path := createTempConfigFile(t, "addr: [unclosed\n")
			_ = os.Setenv("MMOLB_CONFIG", path)

			_, err := config.Load(ctx)

			convey.Convey("Then a load error is returned", func() {
				convey.So(err, convey.ShouldWrap, config.ErrLoadConfig)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("MMOLB_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

			_, err := config.Load(ctx)

			convey.Convey("Then a load error is returned", func() {
				convey.So(err, convey.ShouldWrap, config.ErrLoadConfig)
			})
		})

		convey.Convey("When a numeric env var is not a number", func() {
			_ = os.Setenv("MMOLB_WORKER_COUNT", "many")

			_, err := config.Load(ctx)

			convey.Convey("Then a load error is returned", func() {
				convey.So(err, convey.ShouldWrap, config.ErrLoadConfig)
			})
		})

		convey.Convey("When a value fails validation", func() {
			_ = os.Setenv("MMOLB_QUEUE_SIZE", "0")

			_, err := config.Load(ctx)

			convey.Convey("Then an invalid config error is returned", func() {
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
			})
		})

		convey.Convey("When addr is emptied by the file", func() {
			path := createTempConfigFile(t, "addr: \"\"\n")
			_ = os.Setenv("MMOLB_CONFIG", path)

			_, err := config.Load(ctx)

			convey.Convey("Then an invalid config error is returned", func() {
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
			})
		})
	})
}
