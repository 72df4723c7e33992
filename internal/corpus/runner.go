package corpus

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/okian/mmolbparse/internal/domain/model"
	"github.com/okian/mmolbparse/internal/domain/roundtrip"
	"github.com/okian/mmolbparse/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Default runner settings.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultBatchSize    = 500
	DefaultPollInterval = 50 * time.Millisecond
	backpressureDelay   = 100 * time.Millisecond
)

// Config holds the settings of one corpus run.
type Config struct {
	Path        string        // Corpus file
	Concurrency int           // Parallel checks or result fetches
	Verbose     bool          // List parse errors and unknown kinds too
	URL         string        // Service base URL; empty runs in process
	Timeout     time.Duration // HTTP timeout and the wait for remote results
	BatchSize   int           // Messages per POST /messages
}

func (c *Config) defaults() {
	if c.Concurrency < 1 {
		c.Concurrency = runtime.NumCPU() * 2
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.BatchSize < 1 {
		c.BatchSize = DefaultBatchSize
	}
}

// Runner round-trips a corpus.
type Runner struct {
	cfg          Config
	checker      *roundtrip.Checker
	logger       logger.Logger
	pollInterval time.Duration
}

// NewRunner creates a runner. The default checker logs through the runner's
// logger.
func NewRunner(cfg Config, opts ...Option) *Runner {
	cfg.defaults()
	r := &Runner{
		cfg:          cfg,
		logger:       logger.NewDiscard(),
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.checker == nil {
		r.checker = roundtrip.NewChecker(roundtrip.WithLogger(r.logger))
	}
	return r
}

// Run loads the configured corpus and checks it.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	msgs, err := Load(r.cfg.Path)
	if err != nil {
		return Summary{}, err
	}
	r.logger.Info(ctx, "corpus loaded",
		logger.String("path", r.cfg.Path),
		logger.Int("messages", len(msgs)))
	return r.Check(ctx, msgs)
}

// Check round-trips msgs, in process or against the service when a URL is
// configured.
func (r *Runner) Check(ctx context.Context, msgs []model.Message) (Summary, error) {
	start := time.Now()
	var (
		results []roundtrip.Result
		err     error
	)
	if r.cfg.URL == "" {
		results, err = r.checkLocal(ctx, msgs)
	} else {
		results, err = r.checkRemote(ctx, msgs)
	}
	if err != nil {
		return Summary{}, err
	}
	s := Summarize(results, time.Since(start))
	s.Skipped = len(msgs) - len(results)

	r.logger.Info(ctx, "corpus checked",
		logger.Int("total", s.Total),
		logger.Int("skipped", s.Skipped),
		logger.Int("mismatches", s.Mismatches()),
		logger.String("duration", s.Duration.String()))
	return s, nil
}

func (r *Runner) checkLocal(ctx context.Context, msgs []model.Message) ([]roundtrip.Result, error) {
	results := make([]roundtrip.Result, len(msgs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)
	for i, msg := range msgs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.checker.Check(ctx, msg)
			if r.cfg.Verbose && results[i].Outcome != roundtrip.OutcomeMatched {
				r.logger.Debug(ctx, "round trip failed",
					logger.String("id", msg.ID),
					logger.String("outcome", string(results[i].Outcome)))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// checkRemote submits msgs in batches and then collects the stored result
// of every message the service accepted. Duplicates are not stored under
// their own ID and are skipped.
func (r *Runner) checkRemote(ctx context.Context, msgs []model.Message) ([]roundtrip.Result, error) {
	client := NewHTTPClient(r.cfg.URL, r.cfg.Timeout)
	if err := client.Health(ctx); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	var ids []string
	for start := 0; start < len(msgs); start += r.cfg.BatchSize {
		batch := msgs[start:min(start+r.cfg.BatchSize, len(msgs))]
		acks, err := r.submit(ctx, client, batch)
		if err != nil {
			return nil, fmt.Errorf("submit batch at %d: %w", start, err)
		}
		for _, ack := range acks {
			if !ack.Duplicate {
				ids = append(ids, ack.ID)
			}
		}
	}
	r.logger.Info(ctx, "corpus submitted", logger.Int("accepted", len(ids)))

	waitCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	results := make([]roundtrip.Result, len(ids))
	g, gctx := errgroup.WithContext(waitCtx)
	g.SetLimit(r.cfg.Concurrency)
	for i, id := range ids {
		g.Go(func() error {
			res, err := r.await(gctx, client, id)
			if err != nil {
				return fmt.Errorf("result %s: %w", id, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// submit posts batch, retrying the unqueued tail while the service reports
// backpressure.
func (r *Runner) submit(ctx context.Context, client *HTTPClient, batch []model.Message) ([]Ack, error) {
	var all []Ack
	for len(batch) > 0 {
		acks, err := client.Submit(ctx, batch)
		all = append(all, acks...)
		if err == nil {
			return all, nil
		}
		if !errors.Is(err, ErrBackpressure) {
			return nil, err
		}
		batch = batch[len(acks):]
		r.logger.Debug(ctx, "backpressure, retrying", logger.Int("remaining", len(batch)))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backpressureDelay):
		}
	}
	return all, nil
}

// await polls until the result for id is stored.
func (r *Runner) await(ctx context.Context, client *HTTPClient, id string) (roundtrip.Result, error) {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()
	for {
		res, err := client.Result(ctx, id)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, errPending) {
			return roundtrip.Result{}, err
		}
		select {
		case <-ctx.Done():
			return roundtrip.Result{}, ctx.Err()
		case <-ticker.C:
		}
	}
}
