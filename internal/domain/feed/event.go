// Package feed parses player and team feed entries, and the older generic
// feed, into typed events and prints them back.
package feed

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/okian/mmolbparse/internal/domain/model"
)

// Event is a parsed feed entry.
type Event interface {
	Name() string
	Unparse(f model.Frame) string
}

type vocabularyChecker interface {
	Unrecognized() []string
}

// Reason says why an entry became a ParseError.
type Reason string

// Parse failure reasons.
const (
	ReasonUnknownKind   Reason = "event_type_not_recognized"
	ReasonFailedParsing Reason = "failed_parsing_text"
)

// ParseError keeps an entry no grammar could read.
type ParseError struct {
	Reason Reason `json:"reason"`
	Kind   string `json:"kind"`
	Text   string `json:"text"`
}

func (ParseError) Name() string { return "ParseError" }

func (e ParseError) Unparse(model.Frame) string { return e.Text }

var registry = map[string]reflect.Type{}

func register(prototypes ...Event) {
	for _, ev := range prototypes {
		registry[ev.Name()] = reflect.TypeOf(ev)
	}
}

func init() {
	register(ParseError{})
}

// Record is the stored form of a feed event.
type Record struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Marshal encodes ev as a Record.
func Marshal(ev Event) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", ev.Name(), err)
	}
	return json.Marshal(Record{Type: ev.Name(), Data: data})
}

// Unmarshal decodes a Record produced by Marshal.
func Unmarshal(b []byte) (Event, error) {
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	typ, ok := registry[rec.Type]
	if !ok {
		return nil, fmt.Errorf("record type %q: %w", rec.Type, model.ErrUnknownKind)
	}
	ptr := reflect.New(typ)
	if err := json.Unmarshal(rec.Data, ptr.Interface()); err != nil {
		return nil, fmt.Errorf("decode %s: %w", rec.Type, err)
	}
	return ptr.Elem().Interface().(Event), nil
}
