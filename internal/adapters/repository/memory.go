package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/mmolbparse/internal/domain/roundtrip"
	"github.com/okian/mmolbparse/pkg/metrics"
)

// MemoryStore keeps results in a map plus their insertion order.
type MemoryStore struct {
	mu       sync.RWMutex
	byID     map[string]Result
	order    []string // IDs, oldest first
	capacity int
	closed   bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{byID: make(map[string]Result)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, res Result) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositorySaveLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(&res); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	if _, ok := s.byID[res.ID]; ok {
		s.byID[res.ID] = res
		return nil
	}

	if s.capacity > 0 && len(s.order) >= s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.byID, oldest)
	}
	s.byID[res.ID] = res
	s.order = append(s.order, res.ID)
	metrics.UpdateRepositoryResultsTotal(len(s.byID))
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, id string) (Result, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return Result{}, ErrClosed
	}
	res, ok := s.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Result{}, ErrNotFound
	}
	return res, nil
}

// List implements Store.
func (s *MemoryStore) List(ctx context.Context, filter Filter) ([]Result, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	limit, err := filter.limit()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	out := make([]Result, 0, min(limit, len(s.byID)))
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		res := s.byID[s.order[i]]
		if !filter.match(&res) {
			continue
		}
		out = append(out, res)
	}
	return out, nil
}

// Counts implements Store.
func (s *MemoryStore) Counts(ctx context.Context) (map[roundtrip.Outcome]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	counts := make(map[roundtrip.Outcome]int, len(roundtrip.Outcomes))
	for _, res := range s.byID {
		counts[res.Outcome]++
	}
	return counts, nil
}

// Len returns the number of stored results.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Close implements Store. Calls after the first are no-ops.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
