// Package config defines the service configuration and how it is loaded.
package config

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

// Store drivers.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory message queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of round-trip workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many message keys are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// StoreDriver selects where results go: memory or sqlite.
	StoreDriver string `koanf:"store_driver"`

	// StoreDSN is the SQLite database path. Ignored by the memory store.
	StoreDSN string `koanf:"store_dsn"`

	// StoreCapacity bounds the memory store. Zero keeps every result.
	StoreCapacity int `koanf:"store_capacity"`

	// MaxResultsLimit caps GET /results?limit.
	MaxResultsLimit int `koanf:"max_results_limit"`

	// MaxBatchSize caps the number of messages in one POST /messages.
	MaxBatchSize int `koanf:"max_batch_size"`

	// ShutdownTimeoutSeconds bounds the graceful HTTP shutdown.
	ShutdownTimeoutSeconds int `koanf:"shutdown_timeout_seconds"`

	// CorpusPath is the default corpus for the roundtrip command.
	CorpusPath string `koanf:"corpus_path"`
}

// New creates a Config holding the defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		QueueSize:              100_000,
		WorkerCount:            runtime.NumCPU() * 2,
		DedupeSize:             500_000,
		StoreDriver:            StoreMemory,
		StoreDSN:               "mmolb-results.db",
		StoreCapacity:          1_000_000,
		MaxResultsLimit:        1000,
		MaxBatchSize:           1000,
		ShutdownTimeoutSeconds: 30,
	}
}

// ShutdownTimeout returns ShutdownTimeoutSeconds as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive, got %d", ErrInvalidConfig, c.QueueSize)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive, got %d", ErrInvalidConfig, c.WorkerCount)
	case c.StoreDriver != StoreMemory && c.StoreDriver != StoreSQLite:
		return fmt.Errorf("%w: store_driver must be %q or %q, got %q", ErrInvalidConfig, StoreMemory, StoreSQLite, c.StoreDriver)
	case c.StoreDriver == StoreSQLite && c.StoreDSN == "":
		return fmt.Errorf("%w: store_dsn is required for sqlite", ErrInvalidConfig)
	case c.MaxResultsLimit <= 0:
		return fmt.Errorf("%w: max_results_limit must be positive, got %d", ErrInvalidConfig, c.MaxResultsLimit)
	case c.MaxBatchSize <= 0:
		return fmt.Errorf("%w: max_batch_size must be positive, got %d", ErrInvalidConfig, c.MaxBatchSize)
	case c.ShutdownTimeoutSeconds <= 0:
		return fmt.Errorf("%w: shutdown_timeout_seconds must be positive, got %d", ErrInvalidConfig, c.ShutdownTimeoutSeconds)
	}
	return nil
}
