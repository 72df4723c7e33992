// Package worker runs round-trip checks for queued messages and stores the
// results.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/mmolbparse/internal/adapters/mq/queue"
	"github.com/okian/mmolbparse/internal/domain/roundtrip"
	"github.com/okian/mmolbparse/pkg/logger"
	"github.com/okian/mmolbparse/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	metricsUpdateInterval   = 5 * time.Second
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Message is what workers read off the queue.
type Message = queue.Message

// Checker round-trips one message.
type Checker interface {
	Check(ctx context.Context, msg Message) roundtrip.Result
}

// Saver persists a checked result.
type Saver interface {
	Save(ctx context.Context, res roundtrip.Result) error
}

// Queue defines how workers receive messages.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Message
}

// Worker checks messages and stores the results.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after the message in hand.
	Shutdown(ctx context.Context) error
}

type counter struct {
	total   atomic.Int64
	pending atomic.Int64
}

func (c *counter) add() {
	c.total.Add(1)
	c.pending.Add(1)
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue   Queue
	checker Checker
	saver   Saver
	name    string
	counter *counter

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, checker Checker, saver Saver, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		checker:  checker,
		saver:    saver,
		name:     "worker",
		counter:  &counter{},
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	messages := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if err := w.process(ctx, msg); err != nil {
				w.logger.Error(ctx, "error processing message", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process checks one message and saves the result.
func (w *InMemoryWorker) process(ctx context.Context, msg Message) error { //nolint:gocritic // hugeParam: Message must be passed by value for channel semantics
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	checkStart := time.Now()
	res := w.checker.Check(ctx, msg)
	metrics.RecordParseLatency(float64(time.Since(checkStart).Microseconds()) / 1000)
	metrics.RecordMessageChecked(string(res.Family), string(res.Outcome))

	switch res.Outcome {
	case roundtrip.OutcomeMismatch:
		w.logger.Warn(ctx, "round trip mismatch",
			logger.String("id", res.ID),
			logger.String("kind", res.Kind),
			logger.String("event", res.Event),
			logger.Int("offset", res.Offset),
			logger.String("text", res.Text),
			logger.String("unparsed", res.Unparsed),
		)
	case roundtrip.OutcomeParseError, roundtrip.OutcomeUnknownKind, roundtrip.OutcomeMarshalError:
		metrics.RecordErrorByType(string(res.Outcome), "low")
	}

	if err := w.saver.Save(ctx, res); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		metrics.RecordErrorByType("store_error", "high")
		w.logger.Error(ctx, "saving result failed",
			logger.String("id", res.ID),
			logger.Error(err),
		)
		return fmt.Errorf("save result %s: %w", res.ID, err)
	}

	w.counter.add()
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	counter *counter

	shutdown chan struct{}

	lastProcessedTime time.Time

	logger logger.Logger
}

// NewPool creates a new worker pool. A count below one means twice the
// number of CPUs.
func NewPool(workerCount int, queue Queue, checker Checker, saver Saver) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:           make([]*InMemoryWorker, workerCount),
		queue:             queue,
		counter:           &counter{},
		shutdown:          make(chan struct{}),
		lastProcessedTime: time.Now(),
		logger:            logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			checker,
			saver,
			WithName("worker-"+strconv.Itoa(i)),
			withCounter(pool.counter),
		)
	}

	metrics.UpdateWorkerActiveCount(workerCount)
	metrics.UpdateWorkerMessagesPerSecond(0.0)

	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Processed returns how many messages were checked and stored.
func (p *Pool) Processed() int64 { return p.counter.total.Load() }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}

	go p.startMetricsUpdater(ctx)
}

func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			p.updateMetrics()
		}
	}
}

func (p *Pool) updateMetrics() {
	now := time.Now()
	if elapsed := now.Sub(p.lastProcessedTime).Seconds(); elapsed > 0 {
		metrics.UpdateWorkerMessagesPerSecond(float64(p.counter.pending.Swap(0)) / elapsed)
	}
	p.lastProcessedTime = now
}

// Stop signals every worker and waits briefly for each.
func (p *Pool) Stop() {
	close(p.shutdown)

	for _, worker := range p.workers {
		close(worker.shutdown)
		select {
		case <-worker.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
	metrics.UpdateWorkerActiveCount(0)
}

// Shutdown closes the queue and lets workers drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	close(p.shutdown)

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	metrics.UpdateWorkerActiveCount(0)

	return nil
}
