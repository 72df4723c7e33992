// Package model contains the message and record types passed between the
// grammars, the round-trip checker and the service layers.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okian/mmolbparse/internal/domain/timeline"
	"github.com/okian/mmolbparse/internal/domain/types"
)

// Family selects which grammar a message is parsed with.
type Family string

// Message families.
const (
	FamilyGame    Family = "game"
	FamilyPlayer  Family = "player"
	FamilyTeam    Family = "team"
	FamilyGeneric Family = "generic"
)

// Families lists every known family.
var Families = []Family{FamilyGame, FamilyPlayer, FamilyTeam, FamilyGeneric}

// ParseFamily looks up a family name.
func ParseFamily(s string) (Family, error) {
	for _, f := range Families {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFamily, s)
}

// Message is one historical game event or feed entry as handed over by the
// retrieval layer. It is never mutated once built.
type Message struct {
	ID     string          `json:"id,omitempty" yaml:"id,omitempty"`
	Family Family          `json:"family" yaml:"family"`
	Kind   string          `json:"kind" yaml:"kind"`
	Text   string          `json:"text" yaml:"text"`
	Moment timeline.Moment `json:"moment" yaml:"moment"`

	// Game events only.
	Home         EmojiTeam       `json:"home,omitzero" yaml:"home,omitempty"`
	Away         EmojiTeam       `json:"away,omitzero" yaml:"away,omitempty"`
	PitchingSide *types.HomeAway `json:"pitching_side,omitempty" yaml:"pitching_side,omitempty"`

	// Feed entries carry the wall-clock time they were posted.
	Timestamp time.Time `json:"timestamp,omitzero" yaml:"timestamp,omitempty"`
}

// Validate checks the fields every grammar relies on. Empty text is allowed:
// some events are legitimately blank.
func (m Message) Validate() error {
	if _, err := ParseFamily(string(m.Family)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}
	if strings.TrimSpace(m.Kind) == "" {
		return fmt.Errorf("%w: kind is required", ErrInvalidMessage)
	}
	return nil
}

var keyNamespace = uuid.MustParse("1f0c6a0e-6d53-4a8e-9a52-3c1d2b7e4f10")

// Key identifies the message content for de-duplication. Two messages that
// agree on everything that selects wording share a key whatever their IDs.
func (m Message) Key() string {
	var b strings.Builder
	field := func(s string) {
		b.WriteString(s)
		b.WriteByte('|')
	}
	field(string(m.Family))
	field(m.Kind)
	field(strconv.FormatUint(uint64(m.Moment.Season), 10))
	if m.Moment.Day != nil {
		b.WriteString(m.Moment.Day.String())
	}
	b.WriteByte('|')
	if m.Moment.Index != nil {
		b.WriteString(strconv.FormatUint(uint64(*m.Moment.Index), 10))
	}
	b.WriteByte('|')
	if !m.Timestamp.IsZero() {
		b.WriteString(strconv.FormatInt(m.Timestamp.UnixNano(), 10))
	}
	b.WriteByte('|')
	field(m.Home.String())
	field(m.Away.String())
	if m.PitchingSide != nil {
		b.WriteString(m.PitchingSide.String())
	}
	b.WriteByte('|')
	b.WriteString(m.Text)
	return uuid.NewSHA1(keyNamespace, []byte(b.String())).String()
}

// Frame returns the parsing context for m resolved against table. A nil
// table means the default one.
func (m Message) Frame(table *timeline.Table) Frame {
	return Frame{
		Moment:       m.Moment,
		Timestamp:    m.Timestamp,
		Home:         m.Home,
		Away:         m.Away,
		PitchingSide: m.PitchingSide,
		Table:        table,
	}
}
