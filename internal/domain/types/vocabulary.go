// Package types holds the word vocabularies that appear inside game and feed
// messages. Closed vocabularies are small integer enums that only ever come
// from an exact lookup; open vocabularies are strings that remember whether
// they were recognised.
package types

import (
	"fmt"
)

// vocabulary maps a closed enum to the exact text it renders as.
type vocabulary[T comparable] struct {
	kind   string
	names  map[T]string
	values map[string]T
}

func newVocabulary[T comparable](kind string, names map[T]string) vocabulary[T] {
	values := make(map[string]T, len(names))
	for v, n := range names {
		values[n] = v
	}
	return vocabulary[T]{kind: kind, names: names, values: values}
}

func (v vocabulary[T]) name(t T) string {
	if n, ok := v.names[t]; ok {
		return n
	}
	return fmt.Sprintf("%s(%v)", v.kind, t)
}

func (v vocabulary[T]) lookup(s string) (T, bool) {
	t, ok := v.values[s]
	return t, ok
}

func (v vocabulary[T]) unmarshal(dst *T, b []byte) error {
	t, ok := v.values[string(b)]
	if !ok {
		return fmt.Errorf("%w: %s %q", ErrUnknownWord, v.kind, b)
	}
	*dst = t
	return nil
}

// openSet is the known membership of an open vocabulary.
type openSet map[string]struct{}

func newOpenSet(words ...string) openSet {
	s := make(openSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func (s openSet) has(w string) bool {
	_, ok := s[w]
	return ok
}
