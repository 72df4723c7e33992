// Package service wires the queue, worker pool, de-duplication and result
// store around the round-trip checker. It implements the dependencies the
// HTTP API needs.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	msgqueue "github.com/okian/mmolbparse/internal/adapters/mq/queue"
	workerpool "github.com/okian/mmolbparse/internal/adapters/mq/worker"
	"github.com/okian/mmolbparse/internal/adapters/repository"
	"github.com/okian/mmolbparse/internal/domain/dedupe"
	"github.com/okian/mmolbparse/internal/domain/model"
	"github.com/okian/mmolbparse/internal/domain/roundtrip"
	"github.com/okian/mmolbparse/pkg/logger"
	"github.com/okian/mmolbparse/pkg/metrics"
)

// ErrNotStarted is returned by Enqueue before Start or after Stop.
var ErrNotStarted = errors.New("service not started")

// Ack reports what happened to one submitted message.
type Ack struct {
	ID        string `json:"id"`
	Duplicate bool   `json:"duplicate"`
}

// Service runs round trips synchronously for single messages and
// asynchronously for queued ones.
type Service struct {
	mu sync.RWMutex

	store   repository.Store
	deduper dedupe.Deduper
	queue   msgqueue.Queue
	checker *roundtrip.Checker
	pool    *workerpool.Pool

	workerCount int
	queueSize   int
	dedupeSize  int

	started   bool
	startedAt time.Time

	accepted   atomic.Int64
	duplicates atomic.Int64
	rejected   atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of queued messages.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many message keys are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithStore sets the result store. The service closes it on Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithChecker sets the round-trip checker.
func WithChecker(checker *roundtrip.Checker) Option {
	return func(s *Service) {
		if checker != nil {
			s.checker = checker
		}
	}
}

// New constructs a new Service with default configuration. Without
// WithStore, results are kept in memory.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   100000,
		dedupeSize:  50000,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.checker == nil {
		s.checker = roundtrip.NewChecker(roundtrip.WithLogger(s.logger))
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}

	return s
}

// Start initializes the queue and starts the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting round-trip service...")

	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = msgqueue.NewInMemoryQueue(
		msgqueue.WithCapacity(s.queueSize),
		msgqueue.WithBufferSize(s.queueSize),
	)
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.checker, s.store)
	s.pool.Start(ctx)

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "round-trip service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop drains the queue, waits for the workers and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping round-trip service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Error(ctx, "worker pool shutdown failed", logger.Error(err))
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error(ctx, "closing store failed", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "round-trip service stopped")
}

// Enqueue validates msg and queues it for a round-trip check. A message
// without an ID gets one derived from its content, so resubmitting it maps
// to the same result. Messages whose content was already accepted are
// acknowledged as duplicates and not queued again.
func (s *Service) Enqueue(ctx context.Context, msg model.Message) (Ack, error) {
	if err := msg.Validate(); err != nil {
		s.rejected.Add(1)
		return Ack{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return Ack{}, ErrNotStarted
	}

	key := msg.Key()
	if msg.ID == "" {
		msg.ID = key
	}
	ack := Ack{ID: msg.ID}

	if s.deduper.SeenAndRecord(ctx, key) {
		s.duplicates.Add(1)
		metrics.RecordMessageDuplicate()
		s.logger.Debug(ctx, "duplicate message skipped",
			logger.String("id", msg.ID),
			logger.String("kind", msg.Kind),
		)
		ack.Duplicate = true
		return ack, nil
	}

	if err := s.queue.Enqueue(ctx, msg); err != nil {
		s.deduper.Unrecord(ctx, key)
		s.rejected.Add(1)
		return Ack{}, fmt.Errorf("enqueue %s: %w", msg.ID, err)
	}
	s.accepted.Add(1)
	return ack, nil
}

// Parse runs one round trip synchronously. The result is not stored.
func (s *Service) Parse(ctx context.Context, msg model.Message) (roundtrip.Result, error) {
	if err := msg.Validate(); err != nil {
		return roundtrip.Result{}, err
	}
	start := time.Now()
	res := s.checker.Check(ctx, msg)
	metrics.RecordParseLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.RecordMessageChecked(string(res.Family), string(res.Outcome))
	return res, nil
}

// Unparse prints a record produced by Parse back to text, using the context
// carried by msg. msg.Text is ignored.
func (s *Service) Unparse(ctx context.Context, msg model.Message, record json.RawMessage) (string, error) {
	if _, err := model.ParseFamily(string(msg.Family)); err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrInvalidMessage, err)
	}
	return s.checker.Unparse(msg, record)
}

// Result returns the stored result for id.
func (s *Service) Result(ctx context.Context, id string) (roundtrip.Result, error) {
	return s.store.Get(ctx, id)
}

// Results lists stored results.
func (s *Service) Results(ctx context.Context, filter repository.Filter) ([]roundtrip.Result, error) {
	return s.store.List(ctx, filter)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"accepted":    s.accepted.Load(),
		"duplicates":  s.duplicates.Load(),
		"rejected":    s.rejected.Load(),
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["processed"] = s.pool.Processed()
		stats["dedupeEntries"] = s.deduper.Size()
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerActiveCount(s.pool.Size())
	}

	if counts, err := s.store.Counts(ctx); err == nil {
		outcomes := make(map[string]int, len(roundtrip.Outcomes))
		total := 0
		for _, o := range roundtrip.Outcomes {
			outcomes[string(o)] = counts[o]
			total += counts[o]
		}
		stats["outcomes"] = outcomes
		stats["results"] = total
		metrics.UpdateRepositoryResultsTotal(total)
	}

	return stats
}
