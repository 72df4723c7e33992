package combinator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoMatch is matched by every *Error.
var ErrNoMatch = errors.New("no match")

// Error is a parse failure: the input left when it happened and a trail of
// what was expected, outermost first.
type Error struct {
	Input    string
	Expected []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("expected %s at %s", strings.Join(e.Expected, " > "), quote(clip(e.Input)))
}

// Is makes errors.Is(err, ErrNoMatch) hold.
func (e *Error) Is(target error) bool { return target == ErrNoMatch }

// Remainder returns the unmatched input recorded in err, or "" when err is
// not a parse failure.
func Remainder(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Input
	}
	return ""
}

func wrap(label string, err error) error {
	var pe *Error
	if !errors.As(err, &pe) {
		return fmt.Errorf("%s: %w", label, err)
	}
	return &Error{Input: pe.Input, Expected: append([]string{label}, pe.Expected...)}
}

// merge keeps the failure that got furthest into the input.
func merge(input string, failures []error) error {
	var best *Error
	for _, err := range failures {
		var pe *Error
		if !errors.As(err, &pe) {
			continue
		}
		if best == nil || len(pe.Input) < len(best.Input) {
			best = pe
		}
	}
	if best == nil {
		return &Error{Input: input, Expected: []string{"one of alternatives"}}
	}
	return best
}

func quote(s string) string { return strconv.Quote(s) }

func clip(s string) string {
	const max = 40
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
