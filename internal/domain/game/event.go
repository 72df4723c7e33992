// Package game parses game play-by-play messages into typed events and
// prints them back byte for byte.
package game

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/okian/mmolbparse/internal/domain/model"
)

// Event is a parsed game message.
type Event interface {
	// Name is the record tag used when the event is stored.
	Name() string
	// Unparse prints the message the event was parsed from.
	Unparse(f model.Frame) string
}

// vocabularyChecker is implemented by events carrying open vocabulary words.
type vocabularyChecker interface {
	Unrecognized() []string
}

// Reason says why a message became a ParseError.
type Reason string

// Parse failure reasons.
const (
	ReasonUnknownKind   Reason = "event_type_not_recognized"
	ReasonFailedParsing Reason = "failed_parsing_message"
)

// ParseError keeps a message the grammar could not read. It prints its text
// unchanged.
type ParseError struct {
	Reason Reason `json:"reason"`
	Kind   string `json:"kind"`
	Text   string `json:"text"`
}

func (ParseError) Name() string { return "ParseError" }

func (e ParseError) Unparse(model.Frame) string { return e.Text }

// BugKind names a known malformed message the simulation emitted.
type BugKind string

// Known bugs.
const (
	BugFirstBasemanChoosesAGhost BugKind = "first_baseman_chooses_a_ghost"
	BugNoOneProspers             BugKind = "no_one_prospers"
)

// KnownBug is a message that is wrong in a known way. It still round-trips.
type KnownBug struct {
	Bug          BugKind `json:"bug"`
	Batter       string  `json:"batter,omitempty"`
	FirstBaseman string  `json:"first_baseman,omitempty"`
}

func (KnownBug) Name() string { return "KnownBug" }

func (b KnownBug) Unparse(model.Frame) string {
	if b.Bug == BugFirstBasemanChoosesAGhost {
		return b.Batter + " reaches on a fielder's choice out, 1B " + b.FirstBaseman
	}
	return ""
}

var registry = map[string]reflect.Type{}

// register records the concrete type of each prototype under its name.
func register(prototypes ...Event) {
	for _, ev := range prototypes {
		registry[ev.Name()] = reflect.TypeOf(ev)
	}
}

func init() {
	register(ParseError{}, KnownBug{})
}

// Record is the stored form of an event: its tag plus its fields.
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
