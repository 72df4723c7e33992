package game

import (
	"strings"

	c "github.com/okian/mmolbparse/internal/domain/combinator"
	"github.com/okian/mmolbparse/internal/domain/model"
	"github.com/okian/mmolbparse/internal/domain/types"
)

func renderEjection(e *model.Ejection) string {
	if e == nil {
		return ""
	}
	return e.Render()
}

func ejectionWords(e *model.Ejection) []string {
	if e == nil {
		return nil
	}
	return e.Unrecognized()
}

// BatterToBase is a single, double or triple.
type BatterToBase struct {
	Batter   string             `json:"batter"`
	Distance types.Distance     `json:"distance"`
	Type     types.FairBallType `json:"fair_ball_type"`
	Fielder  model.PlacedPlayer `json:"fielder"`
	Runners  model.Runners      `json:"runners"`
	Ejection *model.Ejection    `json:"ejection,omitempty"`
}

func (BatterToBase) Name() string { return "BatterToBase" }

func (e BatterToBase) Unparse(model.Frame) string {
	return e.Batter + " " + e.Distance.String() + " on a " + e.Type.String() + " to " + e.Fielder.String() + "." +
		e.Runners.Render() + renderEjection(e.Ejection)
}

func (e BatterToBase) Unrecognized() []string { return ejectionWords(e.Ejection) }

// HomeRun is a homer or a grand slam. Every runner scores, so there are no
// advances.
type HomeRun struct {
	Batter      string                    `json:"batter"`
	Type        types.FairBallType        `json:"fair_ball_type"`
	Destination types.FairBallDestination `json:"destination"`
	Scores      []string                  `json:"scores,omitempty"`
	GrandSlam   bool                      `json:"grand_slam,omitempty"`
	Ejection    *model.Ejection           `json:"ejection,omitempty"`
}

func (HomeRun) Name() string { return "HomeRun" }

func (e HomeRun) Unparse(model.Frame) string {
	verb := " homers on a "
	if e.GrandSlam {
		verb = " hits a grand slam on a "
	}
	return "<strong>" + e.Batter + verb + e.Type.String() + " to " + e.Destination.String() + "!</strong>" +
		model.Runners{Scores: e.Scores}.Render() + renderEjection(e.Ejection)
}

func (e HomeRun) Unrecognized() []string { return ejectionWords(e.Ejection) }

// CaughtOut is a fly ball, line drive or popup caught for an out.
type CaughtOut struct {
	Batter    string             `json:"batter"`
	Type      types.FairBallType `json:"fair_ball_type"`
	Sacrifice bool               `json:"sacrifice,omitempty"`
	CaughtBy  model.PlacedPlayer `json:"caught_by"`
	Runners   model.Runners      `json:"runners"`
	Perfect   bool               `json:"perfect,omitempty"`
	Ejection  *model.Ejection    `json:"ejection,omitempty"`
}

func (CaughtOut) Name() string { return "CaughtOut" }

func (e CaughtOut) Unparse(model.Frame) string {
	var b strings.Builder
	b.WriteString(e.Batter + " " + e.Type.Verb() + " out ")
	if e.Sacrifice {
		b.WriteString("on a sacrifice fly ")
	}
	b.WriteString("to " + e.CaughtBy.String() + ".")
	b.WriteString(e.Runners.Render())
	if e.Perfect {
		b.WriteString(" <strong>Perfect catch!</strong>")
	}
	b.WriteString(renderEjection(e.Ejection))
	return b.String()
}

func (e CaughtOut) Unrecognized() []string { return ejectionWords(e.Ejection) }

// GroundedOut is a ground ball fielded for an out at first.
type GroundedOut struct {
	Batter   string               `json:"batter"`
	Fielders []model.PlacedPlayer `json:"fielders"`
	Runners  model.Runners        `json:"runners"`
	Amazing  bool                 `json:"amazing,omitempty"`
	Ejection *model.Ejection      `json:"ejection,omitempty"`
}

func (GroundedOut) Name() string { return "GroundedOut" }

func (e GroundedOut) Unparse(f model.Frame) string {
	amazing := ""
	if e.Amazing {
		amazing = " <strong>" + f.PerfectPlay() + "!</strong>"
	}
	return e.Batter + " grounds out" + model.RenderFielders(e.Fielders) + "." + e.Runners.Render() +
		amazing + renderEjection(e.Ejection)
}

func (e GroundedOut) Unrecognized() []string { return ejectionWords(e.Ejection) }

// ForceOut puts a runner out on a force play while the batter reaches.
type ForceOut struct {
	Batter   string               `json:"batter"`
	Type     types.FairBallType   `json:"fair_ball_type"`
	Fielders []model.PlacedPlayer `json:"fielders"`
	Out      model.RunnerOut      `json:"out"`
	Runners  model.Runners        `json:"runners"`
	Ejection *model.Ejection      `json:"ejection,omitempty"`
}

func (ForceOut) Name() string { return "ForceOut" }

func (e ForceOut) Unparse(model.Frame) string {
	return e.Batter + " " + e.Type.Verb() + " into a force out" + model.RenderFieldersForPlay(e.Fielders) + ". " +
		e.Out.String() + e.Runners.Render() + renderEjection(e.Ejection)
}

func (e ForceOut) Unrecognized() []string { return ejectionWords(e.Ejection) }

// FieldingError is a misplay charged to a fielder by name.
type FieldingError struct {
	Fielder string                  `json:"fielder"`
	Type    types.FieldingErrorType `json:"error"`
}

// FieldingAttempt is how a fielder's choice ended. Exactly one field is set.
type FieldingAttempt struct {
	Out   *model.RunnerOut `json:"out,omitempty"`
	Error *FieldingError   `json:"error,omitempty"`
}

// ReachOnFieldersChoice is a fielder's choice, either retiring another runner
// or botching the play.
type ReachOnFieldersChoice struct {
	Batter   string               `json:"batter"`
	Fielders []model.PlacedPlayer `json:"fielders"`
	Result   FieldingAttempt      `json:"result"`
	Runners  model.Runners        `json:"runners"`
	Ejection *model.Ejection      `json:"ejection,omitempty"`
}

func (ReachOnFieldersChoice) Name() string { return "ReachOnFieldersChoice" }

func (e ReachOnFieldersChoice) Unparse(model.Frame) string {
	if fe := e.Result.Error; fe != nil {
		fielded := ""
		if len(e.Fielders) > 0 {
			fielded = e.Fielders[0].String()
		}
		return e.Batter + " reaches on a fielder's choice, fielded by " + fielded + "." + e.Runners.Render() +
			" " + fe.Type.Upper() + " error by " + fe.Fielder + "." + renderEjection(e.Ejection)
	}
	out := ""
	if e.Result.Out != nil {
		out = e.Result.Out.String()
	}
	return e.Batter + " reaches on a fielder's choice out" + model.RenderFieldersForPlay(e.Fielders) + ". " +
		out + e.Runners.Render() + renderEjection(e.Ejection)
}

func (e ReachOnFieldersChoice) Unrecognized() []string { return ejectionWords(e.Ejection) }

// ReachOnFieldingError puts the batter on base through an error.
type ReachOnFieldingError struct {
	Batter   string                  `json:"batter"`
	Fielder  model.PlacedPlayer      `json:"fielder"`
	Error    types.FieldingErrorType `json:"error"`
	Runners  model.Runners           `json:"runners"`
	Ejection *model.Ejection         `json:"ejection,omitempty"`
}

func (ReachOnFieldingError) Name() string { return "ReachOnFieldingError" }

func (e ReachOnFieldingError) Unparse(model.Frame) string {
	return e.Batter + " reaches on a " + e.Error.Lower() + " error by " + e.Fielder.String() + "." +
		e.Runners.Render() + renderEjection(e.Ejection)
}

func (e ReachOnFieldingError) Unrecognized() []string { return ejectionWords(e.Ejection) }

// DoublePlayGrounded is a ground ball turned into two outs.
type DoublePlayGrounded struct {
	Batter    string               `json:"batter"`
	Fielders  []model.PlacedPlayer `json:"fielders"`
	OutOne    model.RunnerOut      `json:"out_one"`
	OutTwo    model.RunnerOut      `json:"out_two"`
	Runners   model.Runners        `json:"runners"`
	Sacrifice bool                 `json:"sacrifice,omitempty"`
	Ejection  *model.Ejection      `json:"ejection,omitempty"`
}

func (DoublePlayGrounded) Name() string { return "DoublePlayGrounded" }

func (e DoublePlayGrounded) Unparse(f model.Frame) string {
	sacrifice := ""
	if e.Sacrifice {
		sacrifice = "sacrifice "
	}
	return e.Batter + " " + f.DoublePlayVerb() + " into a " + sacrifice + "double play" +
		model.RenderFieldersForPlay(e.Fielders) + ". " + e.OutOne.String() + " " + e.OutTwo.String() +
		e.Runners.Render() + renderEjection(e.Ejection)
}

func (e DoublePlayGrounded) Unrecognized() []string { return ejectionWords(e.Ejection) }

// DoublePlayCaught is a caught ball followed by a runner doubled off. The
// batter's out is implied.
type DoublePlayCaught struct {
	Batter   string               `json:"batter"`
	Type     types.FairBallType   `json:"fair_ball_type"`
	Fielders []model.PlacedPlayer `json:"fielders"`
	OutTwo   model.RunnerOut      `json:"out_two"`
	Runners  model.Runners        `json:"runners"`
	Ejection *model.Ejection      `json:"ejection,omitempty"`
}

func (DoublePlayCaught) Name() string { return "DoublePlayCaught" }

func (e DoublePlayCaught) Unparse(model.Frame) string {
	return e.Batter + " " + e.Type.Verb() + " into a double play" + model.RenderFieldersForPlay(e.Fielders) +
		". " + e.OutTwo.String() + e.Runners.Render() + renderEjection(e.Ejection)
}

func (e DoublePlayCaught) Unrecognized() []string { return ejectionWords(e.Ejection) }

func init() {
	register(BatterToBase{}, HomeRun{}, CaughtOut{}, GroundedOut{}, ForceOut{}, ReachOnFieldersChoice{},
		ReachOnFieldingError{}, DoublePlayGrounded{}, DoublePlayCaught{})
}

type trailer struct {
	Runners  model.Runners
	Ejection *model.Ejection
}

// runnersThen reads scores and advances, an optional flourish, then an
// optional ejection.
func runnersThen(f model.Frame, flourish c.Parser[bool]) c.Parser[c.Pair[trailer, bool]] {
	ejection := c.Opt(model.EjectionClause(f))
	return func(input string) (string, c.Pair[trailer, bool], error) {
		var out c.Pair[trailer, bool]
		rest, runners, _ := model.ScoresAndAdvances(input)
		out.First.Runners = runners
		if flourish != nil {
			rest, out.Second, _ = flourish(rest)
		}
		rest, out.First.Ejection, _ = ejection(rest)
		return rest, out, nil
	}
}

var spacedOut = c.Preceded(c.Tag(" "), model.Out)

// verbBatter reads "Batter flies" and the like: the text before the first
// space that a fair ball verb follows.
var verbBatter = c.ParseAnd(fairBallVerb, " ")

// fieldRule reads a Field event: the outcome of a ball in play.
func fieldRule(f model.Frame) c.Parser[Event] {
	plain := runnersThen(f, nil)

	batterToBase := c.Map(c.AllConsumingSentenceAnd(
		func(input string) (string, BatterToBase, error) {
			var e BatterToBase
			rest, p, err := c.ParseAnd(distance, " ")(input)
			if err != nil {
				return input, e, err
			}
			e.Batter, e.Distance = p.First, p.Second
			rest, e.Type, err = c.Preceded(c.Tag(" on a "), fairBallType)(rest)
			if err != nil {
				return input, e, err
			}
			rest, e.Fielder, err = c.Preceded(c.Tag(" to "), model.PlacedPlayerEOF)(rest)
			if err != nil {
				return input, e, err
			}
			return rest, e, nil
		},
		plain,
	), func(p c.Pair[BatterToBase, c.Pair[trailer, bool]]) Event {
		e := p.First
		e.Runners, e.Ejection = p.Second.First.Runners, p.Second.First.Ejection
		return e
	})

	homeRun := func(verb string, grandSlam bool) c.Parser[Event] {
		head := c.Bold(c.Exclamation(func(input string) (string, HomeRun, error) {
			e := HomeRun{GrandSlam: grandSlam}
			rest, batter, err := c.ParseTerminated(verb)(input)
			if err != nil {
				return input, e, err
			}
			e.Batter = batter
			rest, e.Type, err = fairBallType(rest)
			if err != nil {
				return input, e, err
			}
			rest, e.Destination, err = c.Preceded(c.Tag(" to "), destination)(rest)
			if err != nil {
				return input, e, err
			}
			return rest, e, nil
		}))
		return func(input string) (string, Event, error) {
			rest, e, err := head(input)
			if err != nil {
				return input, nil, err
			}
			rest, e.Scores, _ = c.Many0(model.Score)(rest)
			rest, e.Ejection, _ = c.Opt(model.EjectionClause(f))(rest)
			return rest, e, nil
		}
	}

	groundedOut := c.Map(c.AllConsumingSentenceAnd(
		c.Seq(
			c.AndThen(c.ParseTerminated(" grounds out"), c.NameEOF),
			c.Alt(
				c.Preceded(c.Tag(" to "), c.Map(model.PlacedPlayerEOF, func(p model.PlacedPlayer) []model.PlacedPlayer {
					return []model.PlacedPlayer{p}
				})),
				c.Preceded(c.Tag(", "), model.FieldersEOF(2)),
			),
		),
		runnersThen(f, c.Flag(c.Tag(" <strong>"+f.PerfectPlay()+"!</strong>"))),
	), func(p c.Pair[c.Pair[string, []model.PlacedPlayer], c.Pair[trailer, bool]]) Event {
		return GroundedOut{
			Batter:   p.First.First,
			Fielders: p.First.Second,
			Runners:  p.Second.First.Runners,
			Amazing:  p.Second.Second,
			Ejection: p.Second.First.Ejection,
		}
	})

	caughtOut := c.Map(c.AllConsumingSentenceAnd(
		func(input string) (string, CaughtOut, error) {
			var e CaughtOut
			rest, p, err := c.Terminated(verbBatter, c.Tag(" out "))(input)
			if err != nil {
				return input, e, err
			}
			// ground balls go through groundedOut
			if p.Second == types.GroundBall {
				return c.Fail[CaughtOut](input, "caught out")
			}
			e.Batter, e.Type = p.First, p.Second
			rest, e.Sacrifice, _ = c.Flag(c.Tag("on a sacrifice fly "))(rest)
			rest, e.CaughtBy, err = c.Preceded(c.Tag("to "), model.PlacedPlayerEOF)(rest)
			if err != nil {
				return input, e, err
			}
			return rest, e, nil
		},
		runnersThen(f, c.Flag(c.Tag(" <strong>Perfect catch!</strong>"))),
	), func(p c.Pair[CaughtOut, c.Pair[trailer, bool]]) Event {
		e := p.First
		e.Runners, e.Perfect, e.Ejection = p.Second.First.Runners, p.Second.Second, p.Second.First.Ejection
		return e
	})

	forceOut := c.Map(c.AllConsumingSentenceAnd(
		c.Seq(c.Terminated(verbBatter, c.Tag(" into a force out, ")), model.FieldersForPlayEOF),
		c.Seq(spacedOut, plain),
	), func(p c.Pair[c.Pair[c.Pair[string, types.FairBallType], []model.PlacedPlayer], c.Pair[model.RunnerOut, c.Pair[trailer, bool]]]) Event {
		t := p.Second.Second.First
		return ForceOut{
			Batter:   p.First.First.First,
			Type:     p.First.First.Second,
			Fielders: p.First.Second,
			Out:      p.Second.First,
			Runners:  t.Runners,
			Ejection: t.Ejection,
		}
	})

	choiceOut := c.Map(c.AllConsumingSentenceAnd(
		c.Seq(c.AndThen(c.ParseTerminated(" reaches on a fielder's choice out, "), c.NameEOF), model.FieldersForPlayEOF),
		c.Seq(spacedOut, plain),
	), func(p c.Pair[c.Pair[string, []model.PlacedPlayer], c.Pair[model.RunnerOut, c.Pair[trailer, bool]]]) Event {
		out := p.Second.First
		t := p.Second.Second.First
		return ReachOnFieldersChoice{
			Batter:   p.First.First,
			Fielders: p.First.Second,
			Result:   FieldingAttempt{Out: &out},
			Runners:  t.Runners,
			Ejection: t.Ejection,
		}
	})

	errorFielder := c.Alt(
		c.Map(c.Seq(c.ParseTerminated(". 🤖 ROBO-UMP ejected "), model.EjectionTail(f)),
			func(p c.Pair[string, model.Ejection]) c.Pair[string, *model.Ejection] {
				return c.Pair[string, *model.Ejection]{First: p.First, Second: &p.Second}
			}),
		func(input string) (string, c.Pair[string, *model.Ejection], error) {
			name, ok := strings.CutSuffix(input, ".")
			if !ok || !c.IsName(name) {
				return c.Fail[c.Pair[string, *model.Ejection]](input, "erring fielder")
			}
			return "", c.Pair[string, *model.Ejection]{First: name}, nil
		},
	)
	choiceError := c.Map(c.AllConsumingSentenceAnd(
		c.Seq(c.AndThen(c.ParseTerminated(" reaches on a fielder's choice, fielded by "), c.NameEOF), model.PlacedPlayerEOF),
		c.Seq(model.ScoresAndAdvances, c.Seq(
			c.Delimited(c.Tag(" "), fieldingError, c.Tag(" error by ")),
			errorFielder,
		)),
	), func(p c.Pair[c.Pair[string, model.PlacedPlayer], c.Pair[model.Runners, c.Pair[types.FieldingErrorType, c.Pair[string, *model.Ejection]]]]) Event {
		fe := p.Second.Second
		return ReachOnFieldersChoice{
			Batter:   p.First.First,
			Fielders: []model.PlacedPlayer{p.First.Second},
			Result:   FieldingAttempt{Error: &FieldingError{Fielder: fe.Second.First, Type: fe.First}},
			Runners:  p.Second.First,
			Ejection: fe.Second.Second,
		}
	})

	reachOnError := c.Map(c.AllConsumingSentenceAnd(
		func(input string) (string, ReachOnFieldingError, error) {
			var e ReachOnFieldingError
			rest, batter, err := c.AndThen(c.ParseTerminated(" reaches on a "), c.NameEOF)(input)
			if err != nil {
				return input, e, err
			}
			e.Batter = batter
			rest, e.Error, err = c.Terminated(fieldingError, c.Tag(" error by "))(rest)
			if err != nil {
				return input, e, err
			}
			rest, e.Fielder, err = model.PlacedPlayerEOF(rest)
			if err != nil {
				return input, e, err
			}
			return rest, e, nil
		},
		plain,
	), func(p c.Pair[ReachOnFieldingError, c.Pair[trailer, bool]]) Event {
		e := p.First
		e.Runners, e.Ejection = p.Second.First.Runners, p.Second.First.Ejection
		return e
	})

	doublePlayGrounded := c.Map(c.AllConsumingSentenceAnd(
		func(input string) (string, DoublePlayGrounded, error) {
			var e DoublePlayGrounded
			rest, batter, err := c.AndThen(c.Alt(
				c.ParseTerminated(" grounds into a "),
				c.ParseTerminated(" grounded into a "),
			), c.NameEOF)(input)
			if err != nil {
				return input, e, err
			}
			e.Batter = batter
			rest, e.Sacrifice, _ = c.Flag(c.Tag("sacrifice "))(rest)
			rest, e.Fielders, err = c.Preceded(c.Tag("double play, "), model.FieldersForPlayEOF)(rest)
			if err != nil {
				return input, e, err
			}
			return rest, e, nil
		},
		c.Seq(c.Seq(spacedOut, spacedOut), plain),
	), func(p c.Pair[DoublePlayGrounded, c.Pair[c.Pair[model.RunnerOut, model.RunnerOut], c.Pair[trailer, bool]]]) Event {
		e := p.First
		e.OutOne, e.OutTwo = p.Second.First.First, p.Second.First.Second
		e.Runners, e.Ejection = p.Second.Second.First.Runners, p.Second.Second.First.Ejection
		return e
	})

	doublePlayCaught := c.Map(c.AllConsumingSentenceAnd(
		c.Seq(c.Terminated(verbBatter, c.Tag(" into a double play, ")), model.FieldersForPlayEOF),
		c.Seq(spacedOut, plain),
	), func(p c.Pair[c.Pair[c.Pair[string, types.FairBallType], []model.PlacedPlayer], c.Pair[model.RunnerOut, c.Pair[trailer, bool]]]) Event {
		t := p.Second.Second.First
		return DoublePlayCaught{
			Batter:   p.First.First.First,
			Type:     p.First.First.Second,
			Fielders: p.First.Second,
			OutTwo:   p.Second.First,
			Runners:  t.Runners,
			Ejection: t.Ejection,
		}
	})

	ghost := c.Map(
		c.Seq(c.AndThen(c.ParseTerminated(" reaches on a fielder's choice out, 1B "), c.NameEOF), c.NameEOF),
		func(p c.Pair[string, string]) Event {
			return KnownBug{Bug: BugFirstBasemanChoosesAGhost, Batter: p.First, FirstBaseman: p.Second}
		},
	)

	return c.Context("field", c.Alt(
		c.Context("batter to base", batterToBase),
		c.Context("home run", c.AllConsuming(homeRun(" homers on a ", false))),
		c.Context("grand slam", c.AllConsuming(homeRun(" hits a grand slam on a ", true))),
		c.Context("grounded out", groundedOut),
		c.Context("caught out", caughtOut),
		c.Context("force out", forceOut),
		c.Context("fielder's choice out", choiceOut),
		c.Context("fielder's choice error", choiceError),
		c.Context("reach on error", reachOnError),
		c.Context("double play grounded", doublePlayGrounded),
		c.Context("double play caught", doublePlayCaught),
		c.Context("first baseman chooses a ghost", c.AllConsuming(ghost)),
	))
}
