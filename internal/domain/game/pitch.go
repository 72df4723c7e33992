package game

import (
	"strconv"
	"strings"

	c "github.com/okian/mmolbparse/internal/domain/combinator"
	"github.com/okian/mmolbparse/internal/domain/model"
	"github.com/okian/mmolbparse/internal/domain/types"
)

// Extras are the optional flourishes that may trail a pitch, in the order
// they print. Kinds that never carry one of them leave it empty.
type Extras struct {
	Aurora        *model.SnappedPhotos  `json:"aurora,omitempty"`
	Cheer         *types.Cheer          `json:"cheer,omitempty"`
	Ejection      *model.Ejection       `json:"ejection,omitempty"`
	DoorPrizes    []model.DoorPrize     `json:"door_prizes,omitempty"`
	Wither        *model.WitherStruggle `json:"wither,omitempty"`
	Efflorescence []model.Efflorescence `json:"efflorescence,omitempty"`
}

func (x Extras) render(f model.Frame) string {
	var b strings.Builder
	if x.Aurora != nil {
		b.WriteString(x.Aurora.Render())
	}
	b.WriteString(model.RenderCheer(f, x.Cheer))
	if x.Ejection != nil {
		b.WriteString(x.Ejection.Render())
	}
	b.WriteString(model.RenderDoorPrizes(x.DoorPrizes))
	if x.Wither != nil {
		b.WriteString(x.Wither.Render())
	}
	b.WriteString(model.RenderEfflorescence(x.Efflorescence))
	return b.String()
}

// Unrecognized lists unknown cheer and ejection words.
func (x Extras) Unrecognized() []string {
	var out []string
	if x.Cheer != nil && !x.Cheer.Recognized() {
		out = append(out, "cheer "+strconv.Quote(string(*x.Cheer)))
	}
	if x.Ejection != nil {
		out = append(out, x.Ejection.Unrecognized()...)
	}
	return out
}

// flourish is the set of extras beyond aurora and cheer a pitch kind may
// carry.
type flourish uint8

const (
	withEjection flourish = 1 << iota
	withPrizes
	withWither
	withEfflorescence
)

// extras reads the trailing flourishes a pitch kind allows.
func extras(f model.Frame, allowed flourish) c.Parser[Extras] {
	aurora := c.Opt(model.Aurora(f))
	cheer := c.Opt(model.CheerClause(f))
	ejection := c.Opt(model.EjectionClause(f))
	wither := c.Opt(model.WitherClause(f))
	return func(input string) (string, Extras, error) {
		var x Extras
		rest, a, _ := aurora(input)
		x.Aurora = a
		rest, ch, _ := cheer(rest)
		x.Cheer = ch
		if allowed&withEjection != 0 {
			rest, x.Ejection, _ = ejection(rest)
		}
		if allowed&withPrizes != 0 {
			rest, x.DoorPrizes, _ = model.DoorPrizes(rest)
		}
		if allowed&withWither != 0 {
			rest, x.Wither, _ = wither(rest)
		}
		if allowed&withEfflorescence != 0 {
			rest, x.Efflorescence, _ = model.Efflorescences(rest)
		}
		return rest, x, nil
	}
}

// Ball is a called ball.
type Ball struct {
	Count  Count             `json:"count"`
	Steals []model.BaseSteal `json:"steals,omitempty"`
	Extras
}

func (Ball) Name() string { return "Ball" }

func (e Ball) Unparse(f model.Frame) string {
	return f.OldSpace() + "Ball. " + e.Count.String() + "." + model.RenderSteals(e.Steals) + e.Extras.render(f)
}

// Strike is a called or swinging strike that did not end the at bat.
type Strike struct {
	Strike types.StrikeType  `json:"strike"`
	Count  Count             `json:"count"`
	Steals []model.BaseSteal `json:"steals,omitempty"`
	Extras
}

func (Strike) Name() string { return "Strike" }

func (e Strike) Unparse(f model.Frame) string {
	return f.OldSpace() + "Strike, " + e.Strike.String() + ". " + e.Count.String() + "." +
		model.RenderSteals(e.Steals) + e.Extras.render(f)
}

// Foul is a foul ball or tip.
type Foul struct {
	Foul   types.FoulType    `json:"foul"`
	Count  Count             `json:"count"`
	Steals []model.BaseSteal `json:"steals,omitempty"`
	Extras
}

func (Foul) Name() string { return "Foul" }

func (e Foul) Unparse(f model.Frame) string {
	return f.OldSpace() + "Foul " + e.Foul.String() + ". " + e.Count.String() + "." +
		model.RenderSteals(e.Steals) + e.Extras.render(f)
}

// Walk is ball four.
type Walk struct {
	Batter  string        `json:"batter"`
	Runners model.Runners `json:"runners"`
	Extras
}

func (Walk) Name() string { return "Walk" }

func (e Walk) Unparse(f model.Frame) string {
	return f.OldSpace() + "Ball 4. " + e.Batter + " walks." + e.Runners.Render() + e.Extras.render(f)
}

// HitByPitch puts the batter on first.
type HitByPitch struct {
	Batter  string        `json:"batter"`
	Runners model.Runners `json:"runners"`
	Extras
}

func (HitByPitch) Name() string { return "HitByPitch" }

func (e HitByPitch) Unparse(f model.Frame) string {
	return f.OldSpace() + e.Batter + f.HitByPitchText() + "." + e.Runners.Render() + e.Extras.render(f)
}

// FairBall is a ball put in play. The outcome follows as a Field event.
type FairBall struct {
	Batter      string                    `json:"batter"`
	Type        types.FairBallType        `json:"fair_ball_type"`
	Destination types.FairBallDestination `json:"destination"`
	Extras
}

func (FairBall) Name() string { return "FairBall" }

func (e FairBall) Unparse(f model.Frame) string {
	return f.OldSpace() + e.Batter + " hits a " + e.Type.String() + " to " + e.Destination.String() + "." +
		e.Extras.render(f)
}

// StrikeOut ends the at bat, sometimes after a foul on the same pitch
// sequence.
type StrikeOut struct {
	Foul   *types.FoulType   `json:"foul,omitempty"`
	Batter string            `json:"batter"`
	Strike types.StrikeType  `json:"strike"`
	Steals []model.BaseSteal `json:"steals,omitempty"`
	Extras
}

func (StrikeOut) Name() string { return "StrikeOut" }

func (e StrikeOut) Unparse(f model.Frame) string {
	foul := ""
	if e.Foul != nil {
		foul = "Foul " + e.Foul.String() + ". "
	}
	return f.OldSpace() + foul + e.Batter + f.StrikeOutText() + e.Strike.String() + "." +
		model.RenderSteals(e.Steals) + e.Extras.render(f)
}

func init() {
	register(Ball{}, Strike{}, Foul{}, Walk{}, HitByPitch{}, FairBall{}, StrikeOut{})
}

// pitchRule reads a Pitch event. Alternatives are tried in a fixed order;
// strike outs go first because they may open with a foul.
func pitchRule(f model.Frame) c.Parser[Event] {
	struckOut := func(input string) (string, Event, error) {
		var e StrikeOut
		rest, foul, _ := c.Opt(c.Delimited(c.Tag("Foul "), foulType, c.Tag(". ")))(input)
		e.Foul = foul
		rest, batter, err := c.ParseTerminated(f.StrikeOutText())(rest)
		if err != nil {
			return input, nil, err
		}
		e.Batter = batter
		rest, e.Strike, err = c.Terminated(strikeType, c.Tag("."))(rest)
		if err != nil {
			return input, nil, err
		}
		rest, e.Steals, _ = model.Steals(rest)
		rest, e.Extras, _ = extras(f, withEjection|withWither)(rest)
		return rest, e, nil
	}

	walk := func(input string) (string, Event, error) {
		rest, batter, err := c.Preceded(c.Tag("Ball 4. "), c.ParseTerminated(" walks."))(input)
		if err != nil {
			return input, nil, err
		}
		e := Walk{Batter: batter}
		rest, e.Runners, _ = model.ScoresAndAdvances(rest)
		rest, e.Extras, _ = extras(f, withEjection|withWither)(rest)
		return rest, e, nil
	}

	ball := func(input string) (string, Event, error) {
		rest, n, err := c.Delimited(c.Tag("Ball. "), count, c.Tag("."))(input)
		if err != nil {
			return input, nil, err
		}
		e := Ball{Count: n}
		rest, e.Steals, _ = model.Steals(rest)
		rest, e.Extras, _ = extras(f, withEjection|withPrizes|withWither|withEfflorescence)(rest)
		return rest, e, nil
	}

	strike := func(input string) (string, Event, error) {
		rest, st, err := c.Delimited(c.Tag("Strike, "), strikeType, c.Tag(". "))(input)
		if err != nil {
			return input, nil, err
		}
		e := Strike{Strike: st}
		rest, e.Count, err = c.Terminated(count, c.Tag("."))(rest)
		if err != nil {
			return input, nil, err
		}
		rest, e.Steals, _ = model.Steals(rest)
		rest, e.Extras, _ = extras(f, withEjection|withPrizes|withWither|withEfflorescence)(rest)
		return rest, e, nil
	}

	foul := func(input string) (string, Event, error) {
		rest, ft, err := c.Delimited(c.Tag("Foul "), foulType, c.Tag(". "))(input)
		if err != nil {
			return input, nil, err
		}
		e := Foul{Foul: ft}
		rest, e.Count, err = c.Terminated(count, c.Tag("."))(rest)
		if err != nil {
			return input, nil, err
		}
		rest, e.Steals, _ = model.Steals(rest)
		rest, e.Extras, _ = extras(f, withPrizes|withWither|withEfflorescence)(rest)
		return rest, e, nil
	}

	fairBall := func(input string) (string, Event, error) {
		rest, batter, err := c.ParseTerminated(" hits a ")(input)
		if err != nil {
			return input, nil, err
		}
		e := FairBall{Batter: batter}
		rest, e.Type, err = fairBallType(rest)
		if err != nil {
			return input, nil, err
		}
		rest, e.Destination, err = c.Delimited(c.Tag(" to "), destination, c.Tag("."))(rest)
		if err != nil {
			return input, nil, err
		}
		rest, e.Extras, _ = extras(f, withPrizes|withEfflorescence)(rest)
		return rest, e, nil
	}

	hitByPitch := func(input string) (string, Event, error) {
		rest, batter, err := c.ParseTerminated(f.HitByPitchText() + ".")(input)
		if err != nil {
			return input, nil, err
		}
		e := HitByPitch{Batter: batter}
		rest, e.Runners, _ = model.ScoresAndAdvances(rest)
		rest, e.Extras, _ = extras(f, withEjection|withPrizes|withWither|withEfflorescence)(rest)
		return rest, e, nil
	}

	return c.Context("pitch", c.Preceded(c.Tag(f.OldSpace()), c.Alt(
		c.Context("strike out", c.AllConsuming(struckOut)),
		c.Context("walk", c.AllConsuming(walk)),
		c.Context("ball", c.AllConsuming(ball)),
		c.Context("strike", c.AllConsuming(strike)),
		c.Context("foul", c.AllConsuming(foul)),
		c.Context("fair ball", c.AllConsuming(fairBall)),
		c.Context("hit by pitch", c.AllConsuming(hitByPitch)),
	)))
}
