package model

import (
	"strconv"
	"strings"

	c "github.com/okian/mmolbparse/internal/domain/combinator"
	"github.com/okian/mmolbparse/internal/domain/types"
)

// WitherStruggle is the Wither reaching for a player at the end of a pitch.
// Season 6 did not name the source.
type WitherStruggle struct {
	TeamEmoji string       `json:"team_emoji"`
	Target    PlacedPlayer `json:"target"`
	Source    *string      `json:"source,omitempty"`
}

// Render prints the struggle with its leading space.
func (w WitherStruggle) Render() string {
	if w.Source == nil {
		return " " + w.TeamEmoji + " " + w.Target.String() + " struggles against the 🥀 Wither."
	}
	return " " + *w.Source + " is trying to spread the 🥀 Wither to " + w.TeamEmoji + " " + w.Target.String() + "!"
}

// WitherClause reads a struggle sentence, leading space included.
func WitherClause(f Frame) c.Parser[WitherStruggle] {
	emoji := c.Terminated(EitherEmoji(f), c.Tag(" "))
	struggles := c.Map(
		c.Seq(emoji, c.AndThen(c.ParseTerminated(" struggles against the 🥀 Wither."), PlacedPlayerEOF)),
		func(p c.Pair[string, PlacedPlayer]) WitherStruggle {
			return WitherStruggle{TeamEmoji: p.First, Target: p.Second}
		},
	)
	spreads := c.Map(
		c.Seq(
			c.NameUntil(" is trying to spread the 🥀 Wither to "),
			c.Seq(emoji, c.AndThen(c.ParseTerminated("!"), PlacedPlayerEOF)),
		),
		func(p c.Pair[string, c.Pair[string, PlacedPlayer]]) WitherStruggle {
			source := p.First
			return WitherStruggle{TeamEmoji: p.Second.First, Target: p.Second.Second, Source: &source}
		},
	)
	return c.Context("wither", c.Preceded(c.Tag(" "), c.Alt(struggles, spreads)))
}

// GrowChange is one signed attribute change from growing.
type GrowChange struct {
	Amount    int16           `json:"amount"`
	Attribute types.Attribute `json:"attribute"`
}

func (g GrowChange) String() string {
	sign := "+"
	if g.Amount < 0 {
		sign = ""
	}
	return sign + strconv.Itoa(int(g.Amount)) + " " + g.Attribute.String()
}

// Efflorescence is a player growing, or shedding corruption, after a pitch.
// Effloresced entries carry no changes.
type Efflorescence struct {
	Player      string       `json:"player"`
	Effloresced bool         `json:"effloresced,omitempty"`
	Changes     []GrowChange `json:"changes,omitempty"`
}

// Render prints the entry with its "<br>🌹 " lead.
func (e Efflorescence) Render() string {
	if e.Effloresced {
		return "<br>🌹 " + e.Player + " Effloresced, shedding their Corrupted Modification."
	}
	parts := make([]string, len(e.Changes))
	for i, ch := range e.Changes {
		parts[i] = ch.String()
	}
	return "<br>🌹 " + e.Player + " grew: " + strings.Join(parts, ", ") + "."
}

// RenderEfflorescence prints every entry in order.
func RenderEfflorescence(es []Efflorescence) string {
	var b strings.Builder
	for _, e := range es {
		b.WriteString(e.Render())
	}
	return b.String()
}

var growChange = c.Map(
	c.Seq(
		c.Alt(c.Value(int16(1), c.Tag("+")), c.Value(int16(-1), c.Tag("-"))),
		c.Seq(c.Terminated(c.Uint8, c.Tag(" ")), c.TryFromWord("attribute", types.ParseAttribute)),
	),
	func(p c.Pair[int16, c.Pair[uint8, types.Attribute]]) GrowChange {
		return GrowChange{Amount: p.First * int16(p.Second.First), Attribute: p.Second.Second}
	},
)

var (
	effloresced = c.Map(
		c.AndThen(c.ParseTerminated(" Effloresced, shedding their Corrupted Modification."), c.NameEOF),
		func(p string) Efflorescence { return Efflorescence{Player: p, Effloresced: true} },
	)
	grew = c.Map(
		c.Seq(
			c.NameUntil(" grew: "),
			c.Terminated(c.SeparatedList1(c.Tag(", "), growChange), c.Tag(".")),
		),
		func(p c.Pair[string, []GrowChange]) Efflorescence {
			return Efflorescence{Player: p.First, Changes: p.Second}
		},
	)
)

// Efflorescences reads zero or more "<br>🌹 " entries.
func Efflorescences(input string) (string, []Efflorescence, error) {
	return c.Many0(c.Preceded(c.Tag("<br>🌹 "), c.Alt(grew, effloresced)))(input)
}

// WitherResult is how a player came through the Wither.
type WitherResult string

// Wither results.
const (
	WitherResisted            WitherResult = "resisted"
	WitherResistedEffloresced WitherResult = "resisted_effloresced"
	WitherResistedImmune      WitherResult = "resisted_immune"
	WitherCorrupted           WitherResult = "corrupted"
)

// WitherResults lists results longest wording first, so a plain resist
// never shadows one with a qualifier.
var WitherResults = []WitherResult{WitherResistedEffloresced, WitherResistedImmune, WitherCorrupted, WitherResisted}

// Text is the wording between the player and the containment.
func (r WitherResult) Text(f Frame) string {
	switch r {
	case WitherResistedEffloresced:
		return " resisted the effects of the 🥀 Wither while Effloresced"
	case WitherResistedImmune:
		return " resisted the effects of the 🥀 Wither with 🦠 Immunity"
	case WitherCorrupted:
		return " was Corrupted by the 🥀 Wither"
	}
	return " " + f.WitherResists() + " the effects of the 🥀 Wither"
}

// Containment is what a corrupted team tried after the Wither struck. A nil
// containment means none was attempted.
type Containment struct {
	Success     bool   `json:"success"`
	Target      string `json:"target"`
	Replacement string `json:"replacement,omitempty"`
}

// RenderContainment prints the sentence end and any containment.
func RenderContainment(f Frame, ct *Containment) string {
	switch {
	case ct == nil:
		return "."
	case ct.Success:
		return f.ContainPeriod() + ", and Contained " + ct.Target + ". They were replaced by " + ct.Replacement + "."
	}
	return "., and tried to Contain " + ct.Target + ", but they wouldn't budge."
}

// ContainmentEOF reads the rest of a Wither sentence after the result.
func ContainmentEOF(f Frame) c.Parser[*Containment] {
	none := c.Value[string, *Containment](nil, c.Verify("sentence end", c.Rest, func(s string) bool { return s == "." }))
	contained := c.Map(
		c.Preceded(
			c.Tag(f.ContainPeriod()+", and Contained "),
			c.Seq(c.NameUntil(". They were replaced by "), sentenceEOF),
		),
		func(p c.Pair[string, string]) *Containment {
			return &Containment{Success: true, Target: p.First, Replacement: p.Second}
		},
	)
	failed := c.Map(
		c.Preceded(c.Tag("., and tried to Contain "), c.AndThen(c.ParseTerminated(", but they wouldn't budge."), c.NameEOF)),
		func(target string) *Containment { return &Containment{Target: target} },
	)
	return c.Context("containment", c.AllConsuming(c.Alt(none, contained, failed)))
}

// sentenceEOF consumes the rest of the input as a name closed by ".".
func sentenceEOF(input string) (string, string, error) {
	name, ok := strings.CutSuffix(input, ".")
	if !ok || !c.IsName(name) {
		return c.Fail[string](input, "name ending the sentence")
	}
	return "", name, nil
}
