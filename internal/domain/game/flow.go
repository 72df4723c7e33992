package game

import (
	"strconv"
	"strings"

	c "github.com/okian/mmolbparse/internal/domain/combinator"
	"github.com/okian/mmolbparse/internal/domain/model"
	"github.com/okian/mmolbparse/internal/domain/timeline"
	"github.com/okian/mmolbparse/internal/domain/types"
)

// LiveNow opens a game. Stadiums were added in season 3.
type LiveNow struct {
	Away    model.EmojiTeam `json:"away_team"`
	Home    model.EmojiTeam `json:"home_team"`
	Stadium *string         `json:"stadium,omitempty"`
}

func (LiveNow) Name() string { return "LiveNow" }

func (e LiveNow) Unparse(model.Frame) string {
	if e.Stadium != nil {
		return e.Away.String() + " vs " + e.Home.String() + " @ " + *e.Stadium
	}
	return e.Away.String() + " @ " + e.Home.String()
}

// PitchingMatchup names both starting pitchers.
type PitchingMatchup struct {
	Away        model.EmojiTeam `json:"away_team"`
	AwayPitcher string          `json:"away_pitcher"`
	Home        model.EmojiTeam `json:"home_team"`
	HomePitcher string          `json:"home_pitcher"`
}

func (PitchingMatchup) Name() string { return "PitchingMatchup" }

func (e PitchingMatchup) Unparse(model.Frame) string {
	return e.Away.String() + " " + e.AwayPitcher + " vs. " + e.Home.String() + " " + e.HomePitcher
}

// Lineup is one team's batting order.
type Lineup struct {
	Side    types.HomeAway       `json:"side"`
	Players []model.PlacedPlayer `json:"players"`
}

func (Lineup) Name() string { return "Lineup" }

func (e Lineup) Unparse(model.Frame) string {
	var b strings.Builder
	for i, p := range e.Players {
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(p.String())
		b.WriteString("<br>")
	}
	return b.String()
}

// PlayBall is the umpire's call.
type PlayBall struct{}

func (PlayBall) Name() string { return "PlayBall" }

func (PlayBall) Unparse(model.Frame) string { return `"PLAY BALL."` }

// GameOver closes a game.
type GameOver struct {
	Message types.GameOverMessage `json:"message"`
}

func (GameOver) Name() string { return "GameOver" }

func (e GameOver) Unparse(model.Frame) string { return string(e.Message) }

func (e GameOver) Unrecognized() []string {
	if e.Message.Recognized() {
		return nil
	}
	return []string{"game over message " + strconv.Quote(string(e.Message))}
}

// Recordkeeping is the final score line.
type Recordkeeping struct {
	Winner      model.EmojiTeam `json:"winning_team"`
	Loser       model.EmojiTeam `json:"losing_team"`
	WinnerScore uint16          `json:"winning_score"`
	LoserScore  uint16          `json:"losing_score"`
}

func (Recordkeeping) Name() string { return "Recordkeeping" }

func (e Recordkeeping) Unparse(model.Frame) string {
	return e.Winner.String() + " defeated " + e.Loser.String() + ". Final score: " +
		itoa(e.WinnerScore) + "-" + itoa(e.LoserScore)
}

// SamePitcher keeps the previous half inning's pitcher on the mound.
type SamePitcher struct {
	Emoji string `json:"emoji"`
	Name  string `json:"name"`
}

// PitcherChange replaces the pitcher. Either emoji may be missing.
type PitcherChange struct {
	LeavingEmoji  *string            `json:"leaving_emoji,omitempty"`
	Leaving       model.PlacedPlayer `json:"leaving"`
	ArrivingEmoji *string            `json:"arriving_emoji,omitempty"`
	Arriving      model.PlacedPlayer `json:"arriving"`
}

func (p PitcherChange) String() string {
	return withEmoji(p.LeavingEmoji) + p.Leaving.String() + " is leaving the game. " +
		withEmoji(p.ArrivingEmoji) + p.Arriving.String() + " takes the mound."
}

func withEmoji(e *string) string {
	if e == nil {
		return ""
	}
	return *e + " "
}

// InningStart opens a half inning. At most one of Same and Change is set;
// both are nil only in the superstar game.
type InningStart struct {
	Number          uint8           `json:"number"`
	Side            types.TopBottom `json:"side"`
	BattingTeam     model.EmojiTeam `json:"batting_team"`
	AutomaticRunner *string         `json:"automatic_runner,omitempty"`
	Same            *SamePitcher    `json:"same_pitcher,omitempty"`
	Change          *PitcherChange  `json:"pitcher_change,omitempty"`
}

func (InningStart) Name() string { return "InningStart" }

func (e InningStart) Unparse(model.Frame) string {
	var b strings.Builder
	b.WriteString("Start of the " + e.Side.String() + " of the " + types.Ordinal(e.Number) + ". ")
	b.WriteString(e.BattingTeam.String() + " batting.")
	if e.AutomaticRunner != nil {
		b.WriteString(" " + *e.AutomaticRunner + " starts the inning on second base.")
	}
	switch {
	case e.Same != nil:
		b.WriteString(" " + e.Same.Emoji + " " + e.Same.Name + " pitching.")
	case e.Change != nil:
		b.WriteString(" " + e.Change.String())
	}
	return b.String()
}

// NowBatting announces the batter, with their line for the game so far.
type NowBatting struct {
	Batter  string             `json:"batter"`
	FirstPA bool               `json:"first_pa,omitempty"`
	Stats   []types.BatterStat `json:"stats,omitempty"`
}

func (NowBatting) Name() string { return "NowBatting" }

func (e NowBatting) Unparse(model.Frame) string {
	switch {
	case e.FirstPA:
		return "Now batting: " + e.Batter + " (1st PA of game)"
	case len(e.Stats) > 0:
		parts := make([]string, len(e.Stats))
		for i, s := range e.Stats {
			parts[i] = s.String()
		}
		return "Now batting: " + e.Batter + " (" + strings.Join(parts, ", ") + ")"
	}
	return "Now batting: " + e.Batter
}

// InningEnd closes a half inning.
type InningEnd struct {
	Number uint8           `json:"number"`
	Side   types.TopBottom `json:"side"`
}

func (InningEnd) Name() string { return "InningEnd" }

func (e InningEnd) Unparse(model.Frame) string {
	return "End of the " + e.Side.String() + " of the " + types.EndOrdinal(e.Number) + "."
}

// MoundVisit is a manager walking out, before the outcome is known.
type MoundVisit struct {
	Team model.EmojiTeam      `json:"team"`
	Type types.MoundVisitType `json:"mound_visit_type"`
}

func (MoundVisit) Name() string { return "MoundVisit" }

func (e MoundVisit) Unparse(model.Frame) string {
	if e.Type == types.PitchingChange {
		return "The " + e.Team.String() + " manager is making a pitching change."
	}
	return "The " + e.Team.String() + " manager is making a mound visit."
}

// PitcherRemains ends a mound visit with no change.
type PitcherRemains struct {
	Pitcher model.PlacedPlayer `json:"remaining_pitcher"`
}

func (PitcherRemains) Name() string { return "PitcherRemains" }

func (e PitcherRemains) Unparse(model.Frame) string { return e.Pitcher.String() + " remains in the game." }

// PitcherSwap ends a mound visit with a new pitcher. The arriving place was
// always printed before season 2 day 152.
type PitcherSwap struct {
	LeavingEmoji  *string            `json:"leaving_emoji,omitempty"`
	Leaving       model.PlacedPlayer `json:"leaving"`
	ArrivingEmoji *string            `json:"arriving_emoji,omitempty"`
	ArrivingPlace *types.Place       `json:"arriving_place,omitempty"`
	ArrivingName  string             `json:"arriving_name"`
}

func (PitcherSwap) Name() string { return "PitcherSwap" }

func (e PitcherSwap) Unparse(model.Frame) string {
	place := ""
	if e.ArrivingPlace != nil {
		place = e.ArrivingPlace.String() + " "
	}
	return withEmoji(e.LeavingEmoji) + e.Leaving.String() + " is leaving the game. " +
		withEmoji(e.ArrivingEmoji) + place + e.ArrivingName + " takes the mound."
}

func init() {
	register(LiveNow{}, PitchingMatchup{}, Lineup{}, PlayBall{}, GameOver{}, Recordkeeping{}, InningStart{},
		NowBatting{}, InningEnd{}, MoundVisit{}, PitcherRemains{}, PitcherSwap{})
}

func liveNowRule(f model.Frame) c.Parser[Event] {
	if f.After(timeline.Season3) {
		return func(input string) (string, Event, error) {
			rest, away, err := c.AndThen(c.ParseTerminated(" vs "), model.EmojiTeamEOF)(input)
			if err != nil {
				return input, nil, err
			}
			rest, home, err := c.AndThen(c.ParseTerminated(" @ "), model.EmojiTeamEOF)(rest)
			if err != nil {
				return input, nil, err
			}
			if rest == "" {
				return c.Fail[Event](rest, "stadium")
			}
			stadium := rest
			return "", LiveNow{Away: away, Home: home, Stadium: &stadium}, nil
		}
	}
	return c.Map(
		c.Seq(c.AndThen(c.ParseTerminated(" @ "), model.EmojiTeamEOF), model.EmojiTeamEOF),
		func(p c.Pair[model.EmojiTeam, model.EmojiTeam]) Event { return LiveNow{Away: p.First, Home: p.Second} },
	)
}

func pitchingMatchupRule(f model.Frame) c.Parser[Event] {
	return func(input string) (string, Event, error) {
		var e PitchingMatchup
		rest, away, err := c.Terminated(model.TeamOf(f.Away), c.Tag(" "))(input)
		if err != nil {
			return input, nil, err
		}
		e.Away = away
		rest, e.AwayPitcher, err = c.ParseTerminated(" vs. ")(rest)
		if err != nil {
			return input, nil, err
		}
		rest, e.Home, err = c.Terminated(model.TeamOf(f.Home), c.Tag(" "))(rest)
		if err != nil {
			return input, nil, err
		}
		rest, e.HomePitcher, err = c.NameEOF(rest)
		if err != nil {
			return input, nil, err
		}
		return rest, e, nil
	}
}

func lineupRule(side types.HomeAway) c.Parser[Event] {
	entry := c.Delimited(
		c.Terminated(c.Uint8, c.Tag(". ")),
		c.AndThen(c.TakeUntil("<br>"), model.PlacedPlayerEOF),
		c.Tag("<br>"),
	)
	return c.Map(c.Many1(entry), func(players []model.PlacedPlayer) Event {
		return Lineup{Side: side, Players: players}
	})
}

var playBallRule = c.Value[string, Event](PlayBall{}, c.Tag(`"PLAY BALL."`))

func gameOverRule(input string) (string, Event, error) {
	if input == "" {
		return c.Fail[Event](input, "game over message")
	}
	return "", GameOver{Message: types.GameOverMessage(input)}, nil
}

var recordkeepingRule = c.Map(c.AllConsumingSentenceAnd(
	c.Seq(c.AndThen(c.ParseTerminated(" defeated "), model.EmojiTeamEOF), model.EmojiTeamEOF),
	c.Preceded(c.Tag(" Final score: "), c.Seq(c.Terminated(c.Uint16, c.Tag("-")), c.Uint16)),
), func(p c.Pair[c.Pair[model.EmojiTeam, model.EmojiTeam], c.Pair[uint16, uint16]]) Event {
	return Recordkeeping{
		Winner:      p.First.First,
		Loser:       p.First.Second,
		WinnerScore: p.Second.First,
		LoserScore:  p.Second.Second,
	}
})

var inningEndRule = c.Map(
	c.Seq(
		c.Preceded(c.Tag("End of the "), topBottom),
		c.Delimited(c.Tag(" of the "), ordinal, c.Tag(".")),
	),
	func(p c.Pair[types.TopBottom, uint8]) Event { return InningEnd{Side: p.First, Number: p.Second} },
)

var nowBattingRule c.Parser[Event] = func(input string) (string, Event, error) {
	body, ok := strings.CutPrefix(input, "Now batting: ")
	if !ok {
		return c.Fail[Event](input, "now batting")
	}
	batter, line, hasLine := strings.Cut(body, " (")
	if !hasLine {
		if !c.IsName(body) {
			return c.Fail[Event](body, "batter")
		}
		return "", NowBatting{Batter: body}, nil
	}
	line, ok = strings.CutSuffix(line, ")")
	if !ok {
		return c.Fail[Event](line, "closing parenthesis")
	}
	e := NowBatting{Batter: batter}
	if line == "1st PA of game" {
		e.FirstPA = true
		return "", e, nil
	}
	for _, part := range strings.Split(line, ", ") {
		s, ok := types.ParseBatterStat(part)
		if !ok {
			return c.Fail[Event](part, "batter stat")
		}
		e.Stats = append(e.Stats, s)
	}
	return "", e, nil
}

// pitchingEmoji matches the fielding team's emoji, or either team's when the
// half inning is unknown.
func pitchingEmoji(f model.Frame) c.Parser[string] {
	if _, ok := f.PitchingTeam(); ok {
		return model.PitchingEmoji(f)
	}
	return model.EitherEmoji(f)
}

func optEmoji(f model.Frame) c.Parser[*string] {
	return c.Opt(c.Terminated(pitchingEmoji(f), c.Tag(" ")))
}

func pitcherChange(f model.Frame) c.Parser[PitcherChange] {
	return func(input string) (string, PitcherChange, error) {
		var p PitcherChange
		rest, le, _ := optEmoji(f)(input)
		p.LeavingEmoji = le
		rest, leaving, err := c.AndThen(c.ParseTerminated(" is leaving the game. "), model.PlacedPlayerEOF)(rest)
		if err != nil {
			return input, p, err
		}
		p.Leaving = leaving
		rest, p.ArrivingEmoji, _ = optEmoji(f)(rest)
		rest, p.Arriving, err = c.AndThen(c.ParseTerminated(" takes the mound."), model.PlacedPlayerEOF)(rest)
		if err != nil {
			return input, p, err
		}
		return rest, p, nil
	}
}

func inningStartRule(f model.Frame) c.Parser[Event] {
	return func(input string) (string, Event, error) {
		var e InningStart
		rest, side, err := c.Preceded(c.Tag("Start of the "), topBottom)(input)
		if err != nil {
			return input, nil, err
		}
		e.Side = side
		rest, e.Number, err = c.Delimited(c.Tag(" of the "), ordinal, c.Tag(". "))(rest)
		if err != nil {
			return input, nil, err
		}
		rest, e.BattingTeam, err = c.AndThen(c.ParseTerminated(" batting."), model.EmojiTeamEOF)(rest)
		if err != nil {
			return input, nil, err
		}
		rest, e.AutomaticRunner, _ = c.Opt(c.Preceded(c.Tag(" "), c.ParseTerminated(" starts the inning on second base.")))(rest)

		pf := f
		if pf.PitchingSide == nil {
			fielding := side.Batting().Flip()
			pf.PitchingSide = &fielding
		}
		same := c.Map(
			c.Seq(c.Terminated(model.PitchingEmoji(pf), c.Tag(" ")), c.ParseTerminated(" pitching.")),
			func(p c.Pair[string, string]) *SamePitcher { return &SamePitcher{Emoji: p.First, Name: p.Second} },
		)
		r, s, err := c.Preceded(c.Tag(" "), same)(rest)
		if err == nil {
			e.Same = s
			return r, e, nil
		}
		r, change, err := c.Preceded(c.Tag(" "), pitcherChange(pf))(rest)
		if err == nil {
			e.Change = &change
			return r, e, nil
		}
		if pf.Superstar() {
			return rest, e, nil
		}
		return input, nil, err
	}
}

func moundVisitRule(f model.Frame) c.Parser[Event] {
	visit := func(tail string, kind types.MoundVisitType) c.Parser[Event] {
		return c.Map(
			c.Preceded(c.Tag("The "), c.AndThen(c.ParseTerminated(tail), model.EmojiTeamEOF)),
			func(t model.EmojiTeam) Event { return MoundVisit{Team: t, Type: kind} },
		)
	}
	arriving := func(s string) (string, c.Pair[*types.Place, string], error) {
		if p, ok := model.ParsePlacedPlayer(s); ok {
			return "", c.Pair[*types.Place, string]{First: &p.Place, Second: p.Name}, nil
		}
		if f.After(timeline.S2D152) && c.IsName(s) {
			return "", c.Pair[*types.Place, string]{Second: s}, nil
		}
		return c.Fail[c.Pair[*types.Place, string]](s, "arriving pitcher")
	}
	swap := func(input string) (string, Event, error) {
		var e PitcherSwap
		rest, le, _ := optEmoji(f)(input)
		e.LeavingEmoji = le
		rest, leaving, err := c.AndThen(c.ParseTerminated(" is leaving the game. "), model.PlacedPlayerEOF)(rest)
		if err != nil {
			return input, nil, err
		}
		e.Leaving = leaving
		rest, e.ArrivingEmoji, _ = optEmoji(f)(rest)
		rest, p, err := c.AndThen(c.ParseTerminated(" takes the mound."), arriving)(rest)
		if err != nil {
			return input, nil, err
		}
		e.ArrivingPlace, e.ArrivingName = p.First, p.Second
		return rest, e, nil
	}
	remains := c.Map(
		c.AndThen(c.ParseTerminated(" remains in the game."), model.PlacedPlayerEOF),
		func(p model.PlacedPlayer) Event { return PitcherRemains{Pitcher: p} },
	)
	return c.Alt(
		visit(" manager is making a mound visit.", types.MoundVisit),
		visit(" manager is making a pitching change.", types.PitchingChange),
		swap,
		remains,
	)
}
