// Package roundtrip parses a message, prints the result back and compares
// the two. It is the harness behind the corpus runner and the worker pool.
package roundtrip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/okian/mmolbparse/internal/domain/feed"
	"github.com/okian/mmolbparse/internal/domain/game"
	"github.com/okian/mmolbparse/internal/domain/model"
	"github.com/okian/mmolbparse/internal/domain/timeline"
	"github.com/okian/mmolbparse/pkg/logger"
)

// Outcome classifies a round trip.
type Outcome string

// Round trip outcomes.
const (
	OutcomeMatched     Outcome = "matched"
	OutcomeMismatch    Outcome = "mismatch"
	OutcomeParseError  Outcome = "parse_error"
	OutcomeUnknownKind  Outcome = "unknown_kind"
	OutcomeMarshalError Outcome = "marshal_error"
)

// Outcomes lists every outcome in reporting order.
var Outcomes = []Outcome{OutcomeMatched, OutcomeMismatch, OutcomeParseError, OutcomeUnknownKind, OutcomeMarshalError}

// ParseOutcome validates an outcome name.
func ParseOutcome(s string) (Outcome, error) {
	for _, o := range Outcomes {
		if string(o) == s {
			return o, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOutcome, s)
}

var (
	// ErrUnknownOutcome is returned by ParseOutcome.
	ErrUnknownOutcome = errors.New("unknown outcome")
	// ErrMarshal marks a parsed event that could not be stored as a record.
	ErrMarshal = errors.New("marshal record")
)

// Result is one checked message.
type Result struct {
	ID        string          `json:"id"`
	Family    model.Family    `json:"family"`
	Kind      string          `json:"kind"`
	Outcome   Outcome         `json:"outcome"`
	Event     string          `json:"event"`
	Record    json.RawMessage `json:"record,omitempty"`
	Text      string          `json:"text"`
	Unparsed  string          `json:"unparsed"`
	Offset    int             `json:"offset"`
	CheckedAt time.Time       `json:"checked_at"`
}

// Option configures a Checker.
type Option func(*Checker)

// WithLogger sets the logger handed to both grammars.
func WithLogger(l logger.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.log = l
		}
	}
}

// WithTable sets the breakpoint table.
func WithTable(t *timeline.Table) Option {
	return func(c *Checker) { c.table = t }
}

// Checker runs round trips. It is safe for concurrent use.
type Checker struct {
	log        logger.Logger
	table      *timeline.Table
	game       *game.Parser
	feed       *feed.Parser
	now        func() time.Time
	encodeGame func(game.Event) ([]byte, error)
	encodeFeed func(feed.Event) ([]byte, error)
}

// NewChecker creates a Checker with game and feed parsers sharing its logger
// and table.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{log: logger.NewDiscard(), now: time.Now, encodeGame: game.Marshal, encodeFeed: feed.Marshal}
	for _, opt := range opts {
		opt(c)
	}
	c.game = game.NewParser(game.WithLogger(c.log.Named("game")), game.WithTable(c.table))
	c.feed = feed.NewParser(feed.WithLogger(c.log.Named("feed")), feed.WithTable(c.table))
	return c
}

// parsed is what both grammars hand back.
type parsed struct {
	name     string
	record   []byte
	unparsed string
	failed   Outcome
}

func failure[R ~string](reason, unknown R) Outcome {
	if reason == unknown {
		return OutcomeUnknownKind
	}
	return OutcomeParseError
}

func (p parsed) encode(marshal func() ([]byte, error)) (parsed, error) {
	record, err := marshal()
	if err != nil {
		return p, fmt.Errorf("%w %s: %w", ErrMarshal, p.name, err)
	}
	p.record = record
	return p, nil
}

func (c *Checker) parse(ctx context.Context, msg model.Message) (parsed, error) {
	switch msg.Family {
	case model.FamilyGame:
		ev := c.game.Parse(ctx, msg)
		p := parsed{name: ev.Name(), unparsed: c.game.Unparse(msg, ev)}
		if pe, ok := ev.(game.ParseError); ok {
			p.failed = failure(pe.Reason, game.ReasonUnknownKind)
		}
		return p.encode(func() ([]byte, error) { return c.encodeGame(ev) })
	case model.FamilyPlayer, model.FamilyTeam, model.FamilyGeneric:
		ev := c.feed.Parse(ctx, msg)
		p := parsed{name: ev.Name(), unparsed: c.feed.Unparse(msg, ev)}
		if pe, ok := ev.(feed.ParseError); ok {
			p.failed = failure(pe.Reason, feed.ReasonUnknownKind)
		}
		return p.encode(func() ([]byte, error) { return c.encodeFeed(ev) })
	}
	return parsed{}, fmt.Errorf("family %q: %w", msg.Family, model.ErrUnknownFamily)
}

// Check parses msg, prints it back and classifies the result.
func (c *Checker) Check(ctx context.Context, msg model.Message) Result {
	res := Result{
		ID:        msg.ID,
		Family:    msg.Family,
		Kind:      msg.Kind,
		Text:      msg.Text,
		Offset:    -1,
		CheckedAt: c.now().UTC(),
	}
	p, err := c.parse(ctx, msg)
	if errors.Is(err, ErrMarshal) {
		c.log.Error(ctx, "storing record failed", logger.String("id", msg.ID), logger.Error(err))
		res.Outcome = OutcomeMarshalError
		res.Event = p.name
		res.Unparsed = p.unparsed
		return res
	}
	if err != nil {
		c.log.Error(ctx, "round trip failed", logger.String("id", msg.ID), logger.Error(err))
		res.Outcome = OutcomeUnknownKind
		res.Event = "ParseError"
		res.Unparsed = msg.Text
		return res
	}
	res.Event = p.name
	res.Record = p.record
	res.Unparsed = p.unparsed
	if p.failed != "" {
		res.Outcome = p.failed
		return res
	}
	res.Offset = FirstDifference(msg.Text, p.unparsed)
	res.Outcome = OutcomeMatched
	if res.Offset >= 0 {
		res.Outcome = OutcomeMismatch
		c.log.Debug(ctx, "round trip mismatch",
			logger.String("id", msg.ID),
			logger.String("event", p.name),
			logger.Int("offset", res.Offset),
		)
	}
	return res
}

// Parse returns the stored record for msg and its printed form.
func (c *Checker) Parse(ctx context.Context, msg model.Message) (record json.RawMessage, unparsed string, err error) {
	p, err := c.parse(ctx, msg)
	if err != nil {
		return nil, "", err
	}
	return p.record, p.unparsed, nil
}

// Unparse prints a stored record in the wording of msg's family and moment.
func (c *Checker) Unparse(msg model.Message, record []byte) (string, error) {
	switch msg.Family {
	case model.FamilyGame:
		ev, err := game.Unmarshal(record)
		if err != nil {
			return "", err
		}
		return c.game.Unparse(msg, ev), nil
	case model.FamilyPlayer, model.FamilyTeam, model.FamilyGeneric:
		ev, err := feed.Unmarshal(record)
		if err != nil {
			return "", err
		}
		return c.feed.Unparse(msg, ev), nil
	}
	return "", fmt.Errorf("family %q: %w", msg.Family, model.ErrUnknownFamily)
}

// FirstDifference returns the first byte offset at which a and b differ, or
// -1 when they are equal.
func FirstDifference(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) == len(b) {
		return -1
	}
	return n
}
