package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	app "github.com/okian/mmolbparse/internal/app"
	"github.com/okian/mmolbparse/internal/config"
	"github.com/okian/mmolbparse/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func TestConfigFromEnvironment(t *testing.T) {
	convey.Convey("Given environment overrides", t, func() {
		t.Setenv("MMOLB_ADDR", ":8080")
		t.Setenv("MMOLB_QUEUE_SIZE", "1000")
		t.Setenv("MMOLB_WORKER_COUNT", "4")
		t.Setenv("MMOLB_STORE_DRIVER", "sqlite")

		convey.Convey("When the configuration is loaded", func() {
			cfg, err := config.Load(context.Background())

			convey.Convey("Then the overrides win over the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
				convey.So(cfg.StoreDriver, convey.ShouldEqual, config.StoreSQLite)
			})
		})
	})

	convey.Convey("Given an empty address", t, func() {
		t.Setenv("MMOLB_ADDR", "")

		convey.Convey("Then loading fails validation", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

func TestOpenStore(t *testing.T) {
	convey.Convey("Given the default configuration", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)

		convey.Convey("When the memory driver is selected", func() {
			store, err := openStore(ctx, cfg)

			convey.Convey("Then a memory store is opened", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(store, convey.ShouldNotBeNil)
				convey.So(store.Close(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the sqlite driver is selected", func() {
			cfg.StoreDriver = config.StoreSQLite
			cfg.StoreDSN = filepath.Join(t.TempDir(), "results.db")
			store, err := openStore(ctx, cfg)

			convey.Convey("Then the database is created", func() {
				convey.So(err, convey.ShouldBeNil)
				counts, err := store.Counts(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(counts, convey.ShouldBeEmpty)
				convey.So(store.Close(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the driver is unknown", func() {
			cfg.StoreDriver = "redis"
			_, err := openStore(ctx, cfg)

			convey.Convey("Then opening fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestRoutes(t *testing.T) {
	convey.Convey("Given a started service behind the mux", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		svc := app.New(app.WithWorkerCount(2), app.WithQueueSize(10))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		srv := httptest.NewServer(newMux(ctx, cfg, svc))
		defer srv.Close()

		convey.Convey("When the health endpoint is called", func() {
			resp, err := http.Get(srv.URL + "/healthz")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then it answers OK", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			})
		})

		convey.Convey("When the API docs are requested", func() {
			resp, err := http.Get(srv.URL + "/openapi.yaml")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then the description is served", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			})
		})

		convey.Convey("When a message is parsed", func() {
			body := `{"family":"player","kind":"Augment","text":"Nancy Bright gained +50 Awareness.","moment":{"season":4,"day":20}}`
			resp, err := http.Post(srv.URL+"/parse", "application/json", strings.NewReader(body))
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			var out struct {
				Outcome string `json:"outcome"`
				Matched bool   `json:"matched"`
			}
			convey.So(json.NewDecoder(resp.Body).Decode(&out), convey.ShouldBeNil)

			convey.Convey("Then the round trip matches", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(out.Outcome, convey.ShouldEqual, "matched")
				convey.So(out.Matched, convey.ShouldBeTrue)
			})
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the metrics updaters", t, func() {
		svc := app.New(app.WithWorkerCount(1), app.WithQueueSize(1))

		convey.Convey("When they run once", func() {
			convey.Convey("Then they do not panic", func() {
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
				convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When their context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			done := make(chan struct{})
			go func() {
				startSystemMetricsUpdater(ctx)
				startServiceMetricsUpdater(ctx, svc)
				close(done)
			}()

			convey.Convey("Then they return", func() {
				select {
				case <-done:
				case <-time.After(2 * time.Second):
					convey.So("updaters still running", convey.ShouldBeEmpty)
				}
			})
		})
	})
}
