// Package repository stores round-trip results.
package repository

import (
	"context"
	"fmt"

	"github.com/okian/mmolbparse/internal/domain/model"
	"github.com/okian/mmolbparse/internal/domain/roundtrip"
)

// Result is one stored round trip.
type Result = roundtrip.Result

// Default and maximum number of results a List call returns.
const (
	DefaultLimit = 100
	MaxLimit     = 10000
)

// Filter narrows a List call. Empty fields match everything.
type Filter struct {
	Outcome roundtrip.Outcome
	Family  model.Family
	Limit   int
}

// limit resolves the effective limit of f.
func (f Filter) limit() (int, error) {
	switch {
	case f.Limit < 0:
		return 0, fmt.Errorf("%w: %d", ErrInvalidLimit, f.Limit)
	case f.Limit == 0:
		return DefaultLimit, nil
	case f.Limit > MaxLimit:
		return MaxLimit, nil
	}
	return f.Limit, nil
}

func (f Filter) match(r *Result) bool {
	if f.Outcome != "" && r.Outcome != f.Outcome {
		return false
	}
	if f.Family != "" && r.Family != f.Family {
		return false
	}
	return true
}

// Store persists results keyed by message ID.
type Store interface {
	// Save inserts res, replacing an earlier result with the same ID. A
	// replaced result keeps its place in List order.
	Save(ctx context.Context, res Result) error

	// Get returns the result for id or ErrNotFound.
	Get(ctx context.Context, id string) (Result, error)

	// List returns matching results, most recently inserted first.
	List(ctx context.Context, filter Filter) ([]Result, error)

	// Counts returns the number of stored results per outcome.
	Counts(ctx context.Context) (map[roundtrip.Outcome]int, error)

	Close() error
}

func validate(res *Result) error {
	if res.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidResult)
	}
	if _, err := roundtrip.ParseOutcome(string(res.Outcome)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResult, err)
	}
	return nil
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)
