package game

import (
	"strings"

	c "github.com/okian/mmolbparse/internal/domain/combinator"
	"github.com/okian/mmolbparse/internal/domain/model"
	"github.com/okian/mmolbparse/internal/domain/timeline"
	"github.com/okian/mmolbparse/internal/domain/types"
)

// WeatherDelivery hands a single item to a team.
type WeatherDelivery struct {
	Delivery model.Delivery `json:"delivery"`
}

func (WeatherDelivery) Name() string { return "WeatherDelivery" }

func (e WeatherDelivery) Unparse(f model.Frame) string { return e.Delivery.Render(f, "Delivery") }

// WeatherShipment hands out several items at once.
type WeatherShipment struct {
	Deliveries []model.Delivery `json:"deliveries"`
}

func (WeatherShipment) Name() string { return "WeatherShipment" }

func (e WeatherShipment) Unparse(f model.Frame) string {
	parts := make([]string, len(e.Deliveries))
	for i, d := range e.Deliveries {
		parts[i] = d.Render(f, "Shipment")
	}
	return strings.Join(parts, " ")
}

// WeatherSpecialDelivery is a delivery of a rare item.
type WeatherSpecialDelivery struct {
	Delivery model.Delivery `json:"delivery"`
}

func (WeatherSpecialDelivery) Name() string { return "WeatherSpecialDelivery" }

func (e WeatherSpecialDelivery) Unparse(f model.Frame) string {
	return e.Delivery.Render(f, "Special Delivery")
}

// FallingStar announces that a star is about to land on a player.
type FallingStar struct {
	Player string `json:"player"`
}

func (FallingStar) Name() string { return "FallingStar" }

func (e FallingStar) Unparse(model.Frame) string {
	return "<strong>🌠 " + e.Player + " is hit by a Falling Star!</strong>"
}

// StarOutcome is what a falling star did to the player it hit.
type StarOutcome string

// Falling star outcomes.
const (
	StarInjury    StarOutcome = "injury"
	StarRetired   StarOutcome = "retired"
	StarInfusion  StarOutcome = "infusion"
	StarDeflected StarOutcome = "deflected_harmlessly"
)

// FallingStarOutcome follows a FallingStar. Deflection names the player the
// star bounced off before it struck Player.
type FallingStarOutcome struct {
	Deflection  *string                    `json:"deflection,omitempty"`
	Player      string                     `json:"player"`
	Outcome     StarOutcome                `json:"outcome"`
	Tier        *types.CelestialEnergyTier `json:"tier,omitempty"`
	Replacement *string                    `json:"replacement,omitempty"`
}

func (FallingStarOutcome) Name() string { return "FallingStarOutcome" }

func (e FallingStarOutcome) Unparse(f model.Frame) string {
	var b strings.Builder
	b.WriteString(" <strong>")
	if e.Deflection != nil {
		b.WriteString("It deflected off " + *e.Deflection + " and struck " + e.Player + "!</strong> <strong>")
	}
	switch e.Outcome {
	case StarInjury:
		b.WriteString(e.Player + " " + f.WasIs() + " injured by the extreme force of the impact!")
	case StarRetired:
		b.WriteString("😇 " + e.Player + " retired from MMOLB!")
		if e.Replacement != nil {
			b.WriteString(" " + *e.Replacement + " " + f.WasIs() + " called up to take their place.")
		}
	case StarInfusion:
		tier := types.Infused
		if e.Tier != nil {
			tier = *e.Tier
		}
		b.WriteString(e.Player + " " + infusionVerb(f, tier) + " " + infusionTails[tier])
	case StarDeflected:
		b.WriteString("It " + f.Deflected() + " off " + e.Player + " harmlessly.")
	}
	b.WriteString("</strong>")
	return b.String()
}

var infusionTails = map[types.CelestialEnergyTier]string{
	types.BeganToGlow:  "to glow brightly with celestial energy!",
	types.Infused:      "infused with a glimmer of celestial energy!",
	types.FullyCharged: "fully charged with an abundance of celestial energy!",
}

func infusionVerb(f model.Frame, tier types.CelestialEnergyTier) string {
	if tier == types.BeganToGlow {
		return f.BeganBegins()
	}
	return f.WasIs()
}

// WeatherProsperity pays teams for being Prosperous. A zero income means the
// team was not mentioned.
type WeatherProsperity struct {
	HomeIncome uint8 `json:"home_income"`
	AwayIncome uint8 `json:"away_income"`
}

func (WeatherProsperity) Name() string { return "WeatherProsperity" }

func (e WeatherProsperity) Unparse(f model.Frame) string {
	line := func(t model.EmojiTeam, n uint8) string {
		if n == 0 {
			return ""
		}
		return t.String() + " are Prosperous! They " + f.Earn() + " " + itoa(n) + " 🪙."
	}
	home, away := line(f.Home, e.HomeIncome), line(f.Away, e.AwayIncome)
	gap := ""
	if home != "" && away != "" {
		gap = " "
	}
	if !f.Before(timeline.Season3PreSuperstarBreakUpdate) && e.HomeIncome > e.AwayIncome {
		return away + gap + home
	}
	return home + gap + away
}

// WeatherReflection shatters a reflection and gives the team a fragment.
type WeatherReflection struct {
	Team model.EmojiTeam `json:"team"`
}

func (WeatherReflection) Name() string { return "WeatherReflection" }

func (e WeatherReflection) Unparse(model.Frame) string {
	return "🪞 The reflection shatters. " + e.Team.String() + " received a Fragment of Reflection."
}

// Balk advances every runner.
type Balk struct {
	Pitcher string        `json:"pitcher"`
	Runners model.Runners `json:"runners"`
}

func (Balk) Name() string { return "Balk" }

func (e Balk) Unparse(model.Frame) string {
	return "Balk. " + e.Pitcher + " dropped the ball." + e.Runners.Render()
}

// PhotoContest pays both teams and names each side's best photographer.
type PhotoContest struct {
	WinningTeam   model.EmojiTeam `json:"winning_team"`
	WinningTokens uint8           `json:"winning_tokens"`
	WinningPlayer string          `json:"winning_player"`
	WinningScore  uint16          `json:"winning_score"`
	LosingTeam    model.EmojiTeam `json:"losing_team"`
	LosingTokens  uint8           `json:"losing_tokens"`
	LosingPlayer  string          `json:"losing_player"`
	LosingScore   uint16          `json:"losing_score"`
}

func (PhotoContest) Name() string { return "PhotoContest" }

func (e PhotoContest) Unparse(f model.Frame) string {
	return e.WinningTeam.String() + " " + f.Earn() + " " + itoa(e.WinningTokens) + " 🪙. " +
		e.LosingTeam.String() + " " + f.Earn() + " " + itoa(e.LosingTokens) + " 🪙." +
		"<br>Top scoring Photos:<br>" +
		e.WinningTeam.Emoji + " " + e.WinningPlayer + " - " + itoa(e.WinningScore) + " " +
		e.LosingTeam.Emoji + " " + e.LosingPlayer + " - " + itoa(e.LosingScore)
}

// Party boosts the pitcher and the batter at some cost to durability.
type Party struct {
	model.Partying
}

func (Party) Name() string { return "Party" }

func (e Party) Unparse(model.Frame) string { return e.Partying.String() }

// WeatherWither is the Wither striking a player. Containment is set when
// the team tried to contain someone afterwards.
type WeatherWither struct {
	TeamEmoji   string             `json:"team_emoji"`
	Player      model.PlacedPlayer `json:"player"`
	Result      model.WitherResult `json:"result"`
	Containment *model.Containment `json:"containment,omitempty"`
}

func (WeatherWither) Name() string { return "WeatherWither" }

func (e WeatherWither) Unparse(f model.Frame) string {
	return e.TeamEmoji + " " + e.Player.String() + e.Result.Text(f) + model.RenderContainment(f, e.Containment)
}

// LinealBeltTransfer moves the belt to the winning team.
type LinealBeltTransfer struct {
	ClaimedBy   model.EmojiTeam `json:"claimed_by"`
	ClaimedFrom model.EmojiTeam `json:"claimed_from"`
}

func (LinealBeltTransfer) Name() string { return "LinealBeltTransfer" }

func (e LinealBeltTransfer) Unparse(f model.Frame) string {
	if f.Before(timeline.Season10) {
		return "➰ " + e.ClaimedBy.String() + " claimed the Lineal Belt from " + e.ClaimedFrom.String() + "!"
	}
	return e.ClaimedBy.String() + " claimed the ➰ Lineal Belt from " + e.ClaimedFrom.String() + "!"
}

func init() {
	register(WeatherDelivery{}, WeatherShipment{}, WeatherSpecialDelivery{}, FallingStar{},
		FallingStarOutcome{}, WeatherProsperity{}, WeatherReflection{}, Balk{}, PhotoContest{}, Party{},
		WeatherWither{}, LinealBeltTransfer{})
}

func weatherDeliveryRule(f model.Frame) c.Parser[Event] {
	return c.Context("weather delivery", c.AllConsuming(c.Map(model.DeliveryClause(f, "Delivery"),
		func(d model.Delivery) Event { return WeatherDelivery{Delivery: d} })))
}

func weatherShipmentRule(f model.Frame) c.Parser[Event] {
	return c.Context("weather shipment", c.AllConsuming(c.Map(
		c.SeparatedList1(c.Tag(" "), model.DeliveryClause(f, "Shipment")),
		func(ds []model.Delivery) Event { return WeatherShipment{Deliveries: ds} })))
}

func specialDeliveryRule(f model.Frame) c.Parser[Event] {
	return c.Context("special delivery", c.AllConsuming(c.Map(model.DeliveryClause(f, "Special Delivery"),
		func(d model.Delivery) Event { return WeatherSpecialDelivery{Delivery: d} })))
}

var fallingStarRule = c.Context("falling star", c.AllConsuming(c.Map(
	c.Preceded(c.Tag("<strong>🌠 "), c.ParseTerminated(" is hit by a Falling Star!</strong>")),
	func(p string) Event { return FallingStar{Player: p} },
)))

// starOutcome reads the body of the outcome sentence in f's tense.
func starOutcome(f model.Frame, input string) (string, FallingStarOutcome, error) {
	tensed := func(verb, tail string) c.Parser[string] {
		return c.ParseTerminated(" " + verb + " " + tail)
	}
	if rest, p, err := tensed(f.WasIs(), "injured by the extreme force of the impact!")(input); err == nil {
		return rest, FallingStarOutcome{Player: p, Outcome: StarInjury}, nil
	}
	if rest, p, err := c.Preceded(c.Tag("😇 "), c.ParseTerminated(" retired from MMOLB!"))(input); err == nil {
		e := FallingStarOutcome{Player: p, Outcome: StarRetired}
		replacement := c.Opt(c.Preceded(c.Tag(" "), tensed(f.WasIs(), "called up to take their place.")))
		rest, e.Replacement, _ = replacement(rest)
		return rest, e, nil
	}
	for _, tier := range types.CelestialEnergyTiers {
		if rest, p, err := tensed(infusionVerb(f, tier), infusionTails[tier])(input); err == nil {
			return rest, FallingStarOutcome{Player: p, Outcome: StarInfusion, Tier: &tier}, nil
		}
	}
	deflected := c.AndThen(
		c.Preceded(c.Tag("It "+f.Deflected()+" off "), c.ParseTerminated(" harmlessly.")),
		c.NameEOF,
	)
	rest, p, err := deflected(input)
	if err != nil {
		return c.Fail[FallingStarOutcome](input, "falling star outcome")
	}
	return rest, FallingStarOutcome{Player: p, Outcome: StarDeflected}, nil
}

func weatherRule(f model.Frame) c.Parser[Event] {
	return c.Context("weather", c.AllConsuming(func(input string) (string, Event, error) {
		rest, err := skip(c.Tag(" <strong>"), input)
		if err != nil {
			return input, nil, err
		}
		deflection := c.Delimited(
			c.Tag("It deflected off "),
			c.Seq(c.ParseTerminated(" and struck "), c.TakeUntil("!</strong> <strong>")),
			c.Tag("!</strong> <strong>"),
		)
		rest, defl, _ := c.Opt(deflection)(rest)
		outcome := func(in string) (string, FallingStarOutcome, error) { return starOutcome(f, in) }
		rest, e, err := c.Terminated(outcome, c.Tag("</strong>"))(rest)
		if err != nil {
			return input, nil, err
		}
		if defl != nil {
			if defl.Second != e.Player {
				return c.Fail[Event](input, "struck player matching the outcome")
			}
			e.Deflection = &defl.First
		}
		return rest, e, nil
	}))
}

func skip[T any](p c.Parser[T], input string) (string, error) {
	rest, _, err := p(input)
	return rest, err
}

func prosperityRule(f model.Frame) c.Parser[Event] {
	prosperous := func(t model.EmojiTeam) c.Parser[uint8] {
		return c.Delimited(
			c.Seq(model.TeamOf(t), c.Tag(" are Prosperous! They "+f.Earn()+" ")),
			c.Uint8,
			c.Tag(" 🪙."),
		)
	}
	home, away := prosperous(f.Home), prosperous(f.Away)
	both := func(first, second c.Parser[uint8], homeFirst bool) c.Parser[Event] {
		return c.Map(c.Seq(c.Terminated(first, c.Tag(" ")), second), func(p c.Pair[uint8, uint8]) Event {
			if homeFirst {
				return WeatherProsperity{HomeIncome: p.First, AwayIncome: p.Second}
			}
			return WeatherProsperity{HomeIncome: p.Second, AwayIncome: p.First}
		})
	}
	return c.Context("weather prosperity", c.AllConsuming(c.Alt(
		both(home, away, true),
		both(away, home, false),
		c.Map(away, func(n uint8) Event { return WeatherProsperity{AwayIncome: n} }),
		c.Map(home, func(n uint8) Event { return WeatherProsperity{HomeIncome: n} }),
		c.Value[string, Event](KnownBug{Bug: BugNoOneProspers}, c.Verify("empty message", c.Rest, func(s string) bool { return s == "" })),
	)))
}

func reflectionRule(f model.Frame) c.Parser[Event] {
	return c.Context("weather reflection", c.AllConsuming(c.Map(
		c.Delimited(c.Tag("🪞 The reflection shatters. "), model.EitherTeam(f), c.Tag(" received a Fragment of Reflection.")),
		func(t model.EmojiTeam) Event { return WeatherReflection{Team: t} },
	)))
}

var balkRule = c.Context("balk", c.AllConsuming(c.Map(
	c.Seq(c.Preceded(c.Tag("Balk. "), c.ParseTerminated(" dropped the ball.")), model.ScoresAndAdvances),
	func(p c.Pair[string, model.Runners]) Event { return Balk{Pitcher: p.First, Runners: p.Second} },
)))

type photoTeam struct {
	team   model.EmojiTeam
	tokens uint8
}

type photoPlayer struct {
	emoji string
	name  string
	score uint16
}

func photoContestRule(f model.Frame) c.Parser[Event] {
	team := func(t model.EmojiTeam) c.Parser[photoTeam] {
		return c.Map(
			c.Seq(
				c.Terminated(model.TeamOf(t), c.Tag(" "+f.Earn()+" ")),
				c.Terminated(c.Uint8, c.Tag(" 🪙.")),
			),
			func(p c.Pair[model.EmojiTeam, uint8]) photoTeam { return photoTeam{team: p.First, tokens: p.Second} },
		)
	}
	player := func(emoji string) c.Parser[photoPlayer] {
		return c.Map(
			c.Seq(c.Preceded(c.Tag(emoji+" "), c.ParseTerminated(" - ")), c.Uint16),
			func(p c.Pair[string, uint16]) photoPlayer { return photoPlayer{emoji: emoji, name: p.First, score: p.Second} },
		)
	}
	pair := func(a, b c.Parser[photoTeam]) c.Parser[c.Pair[photoTeam, photoTeam]] {
		return c.Seq(c.Terminated(a, c.Tag(" ")), b)
	}
	players := func(a, b c.Parser[photoPlayer]) c.Parser[c.Pair[photoPlayer, photoPlayer]] {
		return c.Seq(c.Terminated(a, c.Tag(" ")), b)
	}
	home, away := f.Home, f.Away
	if home.IsZero() || away.IsZero() {
		return func(input string) (string, Event, error) {
			return c.Fail[Event](input, "photo contest with known teams")
		}
	}
	body := c.Seq(
		c.Alt(pair(team(away), team(home)), pair(team(home), team(away))),
		c.Preceded(c.Tag("<br>Top scoring Photos:<br>"), c.Alt(
			players(player(home.Emoji), player(away.Emoji)),
			players(player(away.Emoji), player(home.Emoji)),
		)),
	)
	type photoBody = c.Pair[c.Pair[photoTeam, photoTeam], c.Pair[photoPlayer, photoPlayer]]
	checked := c.Verify("photo winner emoji", body, func(p photoBody) bool {
		return p.First.First.team.Emoji == p.Second.First.emoji && p.First.Second.team.Emoji == p.Second.Second.emoji
	})
	return c.Context("photo contest", c.AllConsuming(c.Map(checked, func(p photoBody) Event {
		win, lose := p.First.First, p.First.Second
		wp, lp := p.Second.First, p.Second.Second
		return PhotoContest{
			WinningTeam: win.team, WinningTokens: win.tokens, WinningPlayer: wp.name, WinningScore: wp.score,
			LosingTeam: lose.team, LosingTokens: lose.tokens, LosingPlayer: lp.name, LosingScore: lp.score,
		}
	})))
}

var partyRule = c.Context("party", c.AllConsuming(c.Map(model.PartyClause,
	func(p model.Partying) Event { return Party{Partying: p} })))

func weatherWitherRule(f model.Frame) c.Parser[Event] {
	placed := func(s string) bool {
		_, ok := model.ParsePlacedPlayer(s)
		return ok
	}
	return c.Context("weather wither", c.AllConsuming(func(input string) (string, Event, error) {
		rest, emoji, err := c.Terminated(model.EitherEmoji(f), c.Tag(" "))(input)
		if err != nil {
			return input, nil, err
		}
		for _, result := range model.WitherResults {
			tail, head, err := c.ParseTerminatedAnd(result.Text(f), placed)(rest)
			if err != nil {
				continue
			}
			_, ct, err := model.ContainmentEOF(f)(tail)
			if err != nil {
				continue
			}
			player, _ := model.ParsePlacedPlayer(head)
			return "", WeatherWither{TeamEmoji: emoji, Player: player, Result: result, Containment: ct}, nil
		}
		return c.Fail[Event](input, "wither result")
	}))
}

func linealBeltRule(f model.Frame) c.Parser[Event] {
	team := model.EitherTeam(f)
	var claim c.Parser[c.Pair[model.EmojiTeam, model.EmojiTeam]]
	if f.Before(timeline.Season10) {
		claim = c.Preceded(c.Tag("➰ "), c.Seq(c.Terminated(team, c.Tag(" claimed the Lineal Belt from ")), team))
	} else {
		claim = c.Seq(c.Terminated(team, c.Tag(" claimed the ➰ Lineal Belt from ")), team)
	}
	return c.Context("lineal belt", c.AllConsuming(c.Map(
		c.Verify("two different teams", c.Terminated(claim, c.Tag("!")), func(p c.Pair[model.EmojiTeam, model.EmojiTeam]) bool {
			return p.First != p.Second
		}),
		func(p c.Pair[model.EmojiTeam, model.EmojiTeam]) Event {
			return LinealBeltTransfer{ClaimedBy: p.First, ClaimedFrom: p.Second}
		},
	)))
}
