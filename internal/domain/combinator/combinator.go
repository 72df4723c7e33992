// Package combinator is a small parser-combinator toolkit over immutable
// string slices. A parser returns the unconsumed remainder, its value, and an
// *Error when it does not match.
package combinator

import (
	"strings"
)

// Parser consumes a prefix of input and returns what is left.
type Parser[T any] func(input string) (rest string, out T, err error)

// Pair holds the two results of a sequenced parse.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Fail returns a no-match error at input expecting the given label.
func Fail[T any](input, expected string) (string, T, error) {
	var zero T
	return input, zero, &Error{Input: input, Expected: []string{expected}}
}

// Context prefixes any failure of p with label.
func Context[T any](label string, p Parser[T]) Parser[T] {
	return func(input string) (string, T, error) {
		rest, out, err := p(input)
		if err != nil {
			return input, out, wrap(label, err)
		}
		return rest, out, nil
	}
}

// Tag matches the literal s.
func Tag(s string) Parser[string] {
	return func(input string) (string, string, error) {
		if strings.HasPrefix(input, s) {
			return input[len(s):], s, nil
		}
		return Fail[string](input, "tag "+quote(s))
	}
}

// Value runs p and replaces its output with v.
func Value[T, U any](v U, p Parser[T]) Parser[U] {
	return func(input string) (string, U, error) {
		rest, _, err := p(input)
		if err != nil {
			var zero U
			return input, zero, err
		}
		return rest, v, nil
	}
}

// Strip discards whitespace on both sides of p.
func Strip[T any](p Parser[T]) Parser[T] {
	return func(input string) (string, T, error) {
		rest, out, err := p(strings.TrimLeft(input, " \t\n"))
		if err != nil {
			return input, out, err
		}
		return strings.TrimLeft(rest, " \t\n"), out, nil
	}
}

// Bold matches p wrapped in <strong></strong>.
func Bold[T any](p Parser[T]) Parser[T] {
	return Context("bold", Delimited(Tag("<strong>"), p, Tag("</strong>")))
}

// Sentence matches p followed by a full stop.
func Sentence[T any](p Parser[T]) Parser[T] {
	return Terminated(p, Tag("."))
}

// Exclamation matches p followed by an exclamation mark.
func Exclamation[T any](p Parser[T]) Parser[T] {
	return Terminated(p, Tag("!"))
}

// Preceded runs first, discards it, then returns p.
func Preceded[A, T any](first Parser[A], p Parser[T]) Parser[T] {
	return func(input string) (string, T, error) {
		rest, _, err := first(input)
		if err != nil {
			var zero T
			return input, zero, err
		}
		rest, out, err := p(rest)
		if err != nil {
			return input, out, err
		}
		return rest, out, nil
	}
}

// Terminated returns p and discards the following last.
func Terminated[T, B any](p Parser[T], last Parser[B]) Parser[T] {
	return func(input string) (string, T, error) {
		rest, out, err := p(input)
		if err != nil {
			return input, out, err
		}
		rest, _, err = last(rest)
		if err != nil {
			var zero T
			return input, zero, err
		}
		return rest, out, nil
	}
}

// Delimited returns p surrounded by open and closing.
func Delimited[A, T, B any](open Parser[A], p Parser[T], closing Parser[B]) Parser[T] {
	return Terminated(Preceded(open, p), closing)
}

// Seq runs a then b.
func Seq[A, B any](a Parser[A], b Parser[B]) Parser[Pair[A, B]] {
	return func(input string) (string, Pair[A, B], error) {
		rest, first, err := a(input)
		if err != nil {
			return input, Pair[A, B]{}, err
		}
		rest, second, err := b(rest)
		if err != nil {
			return input, Pair[A, B]{}, err
		}
		return rest, Pair[A, B]{First: first, Second: second}, nil
	}
}

// Map transforms the output of p.
func Map[T, U any](p Parser[T], f func(T) U) Parser[U] {
	return func(input string) (string, U, error) {
		rest, out, err := p(input)
		if err != nil {
			var zero U
			return input, zero, err
		}
		return rest, f(out), nil
	}
}

// Verify fails when check rejects the output of p.
func Verify[T any](label string, p Parser[T], check func(T) bool) Parser[T] {
	return func(input string) (string, T, error) {
		rest, out, err := p(input)
		if err != nil {
			return input, out, err
		}
		if !check(out) {
			return Fail[T](input, label)
		}
		return rest, out, nil
	}
}

// Alt returns the result of the first alternative that matches.
func Alt[T any](alternatives ...Parser[T]) Parser[T] {
	return func(input string) (string, T, error) {
		var failures []error
		for _, p := range alternatives {
			rest, out, err := p(input)
			if err == nil {
				return rest, out, nil
			}
			failures = append(failures, err)
		}
		var zero T
		return input, zero, merge(input, failures)
	}
}

// Opt returns nil instead of failing.
func Opt[T any](p Parser[T]) Parser[*T] {
	return func(input string) (string, *T, error) {
		rest, out, err := p(input)
		if err != nil {
			return input, nil, nil
		}
		return rest, &out, nil
	}
}

// Flag reports whether p matched, consuming it if so.
func Flag[T any](p Parser[T]) Parser[bool] {
	return func(input string) (string, bool, error) {
		rest, _, err := p(input)
		if err != nil {
			return input, false, nil
		}
		return rest, true, nil
	}
}

// Many0 applies p until it fails or stops consuming.
func Many0[T any](p Parser[T]) Parser[[]T] {
	return func(input string) (string, []T, error) {
		var out []T
		for {
			rest, v, err := p(input)
			if err != nil || len(rest) == len(input) {
				return input, out, nil
			}
			out = append(out, v)
			input = rest
		}
	}
}

// Many1 is Many0 requiring at least one match.
func Many1[T any](p Parser[T]) Parser[[]T] {
	return func(input string) (string, []T, error) {
		rest, out, _ := Many0(p)(input)
		if len(out) == 0 {
			_, _, err := p(input)
			if err == nil {
				err = &Error{Input: input, Expected: []string{"progress"}}
			}
			return input, nil, err
		}
		return rest, out, nil
	}
}

// SeparatedList1 matches one or more p separated by sep.
func SeparatedList1[T, S any](sep Parser[S], p Parser[T]) Parser[[]T] {
	return func(input string) (string, []T, error) {
		rest, first, err := p(input)
		if err != nil {
			return input, nil, err
		}
		out := []T{first}
		for {
			afterSep, _, err := sep(rest)
			if err != nil {
				return rest, out, nil
			}
			next, v, err := p(afterSep)
			if err != nil {
				return rest, out, nil
			}
			out = append(out, v)
			rest = next
		}
	}
}

// AllConsuming fails unless p consumes the whole input.
func AllConsuming[T any](p Parser[T]) Parser[T] {
	return func(input string) (string, T, error) {
		rest, out, err := p(input)
		if err != nil {
			return input, out, err
		}
		if rest != "" {
			return Fail[T](rest, "end of input")
		}
		return rest, out, nil
	}
}

// AndThen runs q over the text p consumed and requires q to consume all of it.
func AndThen[T any](p Parser[string], q Parser[T]) Parser[T] {
	return func(input string) (string, T, error) {
		rest, text, err := p(input)
		if err != nil {
			var zero T
			return input, zero, err
		}
		_, out, err := AllConsuming(q)(text)
		if err != nil {
			return input, out, err
		}
		return rest, out, nil
	}
}

// Rest consumes everything.
func Rest(input string) (string, string, error) {
	return "", input, nil
}

// TakeUntil returns the text before the first delim, leaving delim unconsumed.
func TakeUntil(delim string) Parser[string] {
	return func(input string) (string, string, error) {
		i := strings.Index(input, delim)
		if i < 0 {
			return Fail[string](input, "text until "+quote(delim))
		}
		return input[i:], input[:i], nil
	}
}

// ParseTerminated returns the text before the first delim and consumes delim.
func ParseTerminated(delim string) Parser[string] {
	return func(input string) (string, string, error) {
		i := strings.Index(input, delim)
		if i < 0 {
			return Fail[string](input, "text terminated by "+quote(delim))
		}
		return input[i+len(delim):], input[:i], nil
	}
}

// ParseTerminatedAnd is ParseTerminated that skips delimiter occurrences whose
// preceding text is rejected by validate.
func ParseTerminatedAnd(delim string, validate func(string) bool) Parser[string] {
	return func(input string) (string, string, error) {
		for from := 0; from <= len(input); {
			i := strings.Index(input[from:], delim)
			if i < 0 {
				break
			}
			i += from
			if validate(input[:i]) {
				return input[i+len(delim):], input[:i], nil
			}
			from = i + 1
		}
		return Fail[string](input, "validated text terminated by "+quote(delim))
	}
}

// ParseAnd searches delim occurrences in order and stops at the first one
// after which child matches. The text before that occurrence is returned
// alongside child's value.
func ParseAnd[T any](child Parser[T], delim string) Parser[Pair[string, T]] {
	return searchAnd(delim, func(string) bool { return true }, child)
}

// NameAnd is ParseAnd where the text before the delimiter must also be a name.
func NameAnd[T any](delim string, child Parser[T]) Parser[Pair[string, T]] {
	return searchAnd(delim, IsName, child)
}

func searchAnd[T any](delim string, accept func(string) bool, child Parser[T]) Parser[Pair[string, T]] {
	return func(input string) (string, Pair[string, T], error) {
		var last error
		for from := 0; from <= len(input); {
			i := strings.Index(input[from:], delim)
			if i < 0 {
				break
			}
			i += from
			from = i + 1
			head := input[:i]
			if !accept(head) {
				continue
			}
			rest, out, err := child(input[i+len(delim):])
			if err != nil {
				last = err
				continue
			}
			return rest, Pair[string, T]{First: head, Second: out}, nil
		}
		if last != nil {
			return input, Pair[string, T]{}, wrap("search "+quote(delim), last)
		}
		return Fail[Pair[string, T]](input, "delimiter "+quote(delim))
	}
}

// MaxSentenceAttempts bounds the split points AllConsumingSentenceAnd tries.
const MaxSentenceAttempts = 10

// AllConsumingSentenceAnd splits input at a full stop, requires left to
// consume the clause before it and right to consume everything after it. On
// failure it retries at the next full stop.
func AllConsumingSentenceAnd[A, B any](left Parser[A], right Parser[B]) Parser[Pair[A, B]] {
	l := AllConsuming(left)
	r := AllConsuming(right)
	return func(input string) (string, Pair[A, B], error) {
		var last error
		from := 0
		for attempt := 0; attempt < MaxSentenceAttempts; attempt++ {
			i := strings.IndexByte(input[from:], '.')
			if i < 0 {
				break
			}
			i += from
			from = i + 1
			_, a, err := l(input[:i])
			if err != nil {
				last = err
				continue
			}
			_, b, err := r(input[i+1:])
			if err != nil {
				last = err
				continue
			}
			return "", Pair[A, B]{First: a, Second: b}, nil
		}
		if last == nil {
			return Fail[Pair[A, B]](input, "sentence")
		}
		return input, Pair[A, B]{}, wrap("sentence", last)
	}
}
