package feed

import (
	"strconv"
	"strings"
	"unicode"

	c "github.com/okian/mmolbparse/internal/domain/combinator"
	"github.com/okian/mmolbparse/internal/domain/model"
	"github.com/okian/mmolbparse/internal/domain/timeline"
	"github.com/okian/mmolbparse/internal/domain/types"
)

// GameResult is the final score line. Early season 1 feeds sometimes glued
// the away team's name to its emoji.
type GameResult struct {
	Away        model.EmojiTeam `json:"away"`
	AwayNoSpace bool            `json:"away_no_space,omitempty"`
	Home        model.EmojiTeam `json:"home"`
	AwayScore   uint8           `json:"away_score"`
	HomeScore   uint8           `json:"home_score"`
}

func (GameResult) Name() string { return "GameResult" }

func (e GameResult) Unparse(model.Frame) string {
	away := e.Away.String()
	if e.AwayNoSpace {
		away = e.Away.Emoji + e.Away.Name
	}
	return away + " vs. " + e.Home.String() + " - FINAL " +
		strconv.Itoa(int(e.AwayScore)) + "-" + strconv.Itoa(int(e.HomeScore))
}

// EmojiPlayer is a player shown with the emoji of their team.
type EmojiPlayer struct {
	Emoji string `json:"emoji"`
	Name  string `json:"name"`
}

// PhotoContestEarned is a team's photo contest payout. Player is set when
// the entry names who won it.
type PhotoContestEarned struct {
	Player *EmojiPlayer `json:"player,omitempty"`
	Tokens uint32       `json:"tokens"`
}

func (PhotoContestEarned) Name() string { return "PhotoContest" }

func (e PhotoContestEarned) Unparse(model.Frame) string {
	n := strconv.FormatUint(uint64(e.Tokens), 10)
	if e.Player == nil {
		return "Earned " + n + " 🪙 in the Photo Contest."
	}
	return e.Player.Emoji + " " + e.Player.Name + " won " + n + " 🪙 in a Photo Contest."
}

// Prosperous is income from the Prosperity weather.
type Prosperous struct {
	Team   model.EmojiTeam `json:"team"`
	Income uint8           `json:"income"`
}

func (Prosperous) Name() string { return "Prosperous" }

func (e Prosperous) Unparse(f model.Frame) string {
	return e.Team.String() + " are Prosperous! They " + f.Earn() + " " + strconv.Itoa(int(e.Income)) + " 🪙."
}

// CorruptedByWither marks a player the Wither reached.
type CorruptedByWither struct {
	Player string `json:"player"`
}

func (CorruptedByWither) Name() string { return "CorruptedByWither" }

func (e CorruptedByWither) Unparse(model.Frame) string {
	return e.Player + " was Corrupted by the 🥀 Wither."
}

// Purified clears corruption and pays the team.
type Purified struct {
	Player  string `json:"player"`
	Payment uint32 `json:"payment"`
}

func (Purified) Name() string { return "Purified" }

func (e Purified) Unparse(model.Frame) string {
	return e.Player + " was Purified of 🫀 Corruption and earned " + strconv.FormatUint(uint64(e.Payment), 10) + " 🪙."
}

// Party is the party game event copied into the team feed.
type Party struct {
	model.Partying
}

func (Party) Name() string { return "Party" }

func (e Party) Unparse(model.Frame) string { return e.Partying.String() }

// DoorPrize is one door prize line.
type DoorPrize struct {
	Prize model.DoorPrize `json:"prize"`
}

func (DoorPrize) Name() string { return "DoorPrize" }

func (e DoorPrize) Unparse(model.Frame) string { return e.Prize.String() }

// DonatedToLottery is a team's lottery donation.
type DonatedToLottery struct {
	Team   string `json:"team"`
	Amount uint32 `json:"amount"`
	League string `json:"league"`
}

func (DonatedToLottery) Name() string { return "DonatedToLottery" }

func (e DonatedToLottery) Unparse(model.Frame) string {
	return "The " + e.Team + " donated " + strconv.FormatUint(uint64(e.Amount), 10) + " 🪙 to the " + e.League + " Lottery."
}

// WonLottery is a lottery win.
type WonLottery struct {
	Amount uint32 `json:"amount"`
	League string `json:"league"`
}

func (WonLottery) Name() string { return "WonLottery" }

func (e WonLottery) Unparse(model.Frame) string {
	return "Won " + strconv.FormatUint(uint64(e.Amount), 10) + " 🪙 from the " + e.League + " Lottery!"
}

// NameReset is a moderation rename.
type NameReset struct{}

func (NameReset) Name() string { return "NameReset" }

func (NameReset) Unparse(model.Frame) string {
	return "The team's name was reset in accordance with site policy."
}

// PlayerMoved sends a player to the bench.
type PlayerMoved struct {
	Player string `json:"player"`
}

func (PlayerMoved) Name() string { return "PlayerMoved" }

func (e PlayerMoved) Unparse(model.Frame) string { return "🐵 " + e.Player + " was moved to the Bench." }

// PlayerRelegated sends a player down a league.
type PlayerRelegated struct {
	Player string `json:"player"`
}

func (PlayerRelegated) Name() string { return "PlayerRelegated" }

func (e PlayerRelegated) Unparse(model.Frame) string {
	return "🧳 " + e.Player + " was relegated to the Even Lesser League."
}

// PositionsSwapped trades a rostered player for a benched one.
type PositionsSwapped struct {
	Benched    string          `json:"benched"`
	BenchSlot  types.BenchSlot `json:"bench_slot"`
	Promoted   string          `json:"promoted"`
	RosterSlot types.Slot      `json:"roster_slot"`
}

func (PositionsSwapped) Name() string { return "PositionsSwapped" }

func (e PositionsSwapped) Unparse(model.Frame) string {
	return e.Benched + " and " + e.Promoted + " swapped positions: " +
		e.Benched + " moved to " + e.BenchSlot.String() + ", " +
		e.Promoted + " moved to " + string(e.RosterSlot) + "."
}

func (e PositionsSwapped) Unrecognized() []string {
	if e.RosterSlot.Recognized() {
		return nil
	}
	return []string{"slot " + strconv.Quote(string(e.RosterSlot))}
}

// LineupPlayer is one player a mass attribute change touched. Slot is only
// printed from season 3.
type LineupPlayer struct {
	Slot *types.Slot `json:"slot,omitempty"`
	Name string      `json:"name"`
}

// MassAttributeEquals sets the same attribute pair for many players.
type MassAttributeEquals struct {
	Changing types.Attribute `json:"changing_attribute"`
	Value    types.Attribute `json:"value_attribute"`
	Players  []LineupPlayer  `json:"players"`
}

func (MassAttributeEquals) Name() string { return "MassAttributeEquals" }

func (e MassAttributeEquals) Unparse(f model.Frame) string {
	if f.After(timeline.Season3) {
		lines := make([]string, len(e.Players))
		for i, p := range e.Players {
			slot := ""
			if p.Slot != nil {
				slot = string(*p.Slot)
			}
			lines[i] = " " + strconv.Itoa(i+1) + ". " + slot + " " + p.Name
		}
		return "Batters' " + e.Changing.String() + " was set to their " + e.Value.String() + ". Lineup:" + strings.Join(lines, ",")
	}
	phrase := massEqualPhrase(f)
	sentences := make([]string, len(e.Players))
	for i, p := range e.Players {
		sentences[i] = p.Name + "'s " + e.Changing.String() + phrase + e.Value.String() + "."
	}
	return strings.Join(sentences, " ")
}

func (e MassAttributeEquals) Unrecognized() []string {
	var out []string
	for _, p := range e.Players {
		if p.Slot != nil && !p.Slot.Recognized() {
			out = append(out, "slot "+strconv.Quote(string(*p.Slot)))
		}
	}
	return out
}

func massEqualPhrase(f model.Frame) string {
	if f.After(timeline.S1AttributeEqualChange) {
		return " became equal to their current base "
	}
	return " became equal to their base "
}

func init() {
	register(GameResult{}, PhotoContestEarned{}, Prosperous{}, CorruptedByWither{}, Purified{}, Party{}, DoorPrize{},
		DonatedToLottery{}, WonLottery{}, NameReset{}, PlayerMoved{}, PlayerRelegated{}, PositionsSwapped{},
		MassAttributeEquals{})
}

// gluedTeam reads "emoji name", also accepting the emoji glued to the name.
func gluedTeam(s string) (model.EmojiTeam, bool, bool) {
	if t, ok := model.ParseEmojiTeam(s); ok && strings.IndexFunc(t.Emoji, isWordRune) < 0 {
		return t, false, true
	}
	i := strings.IndexFunc(s, isWordRune)
	if i <= 0 {
		return model.EmojiTeam{}, false, false
	}
	return model.EmojiTeam{Emoji: s[:i], Name: s[i:]}, true, true
}

func isWordRune(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

var gameResultRule = c.Context("game result", func(input string) (string, Event, error) {
	rest, awayText, err := c.ParseTerminated(" vs. ")(input)
	if err != nil {
		return input, nil, err
	}
	away, glued, ok := gluedTeam(awayText)
	if !ok {
		return c.Fail[Event](input, "away team")
	}
	rest, home, err := c.AndThen(c.ParseTerminated(" - FINAL "), model.EmojiTeamEOF)(rest)
	if err != nil {
		return input, nil, err
	}
	rest, scores, err := c.Seq(c.Terminated(c.Uint8, c.Tag("-")), c.Uint8)(rest)
	if err != nil {
		return input, nil, err
	}
	return rest, GameResult{Away: away, AwayNoSpace: glued, Home: home, AwayScore: scores.First, HomeScore: scores.Second}, nil
})

var photoContestRule = c.Context("photo contest", c.Alt(
	c.Map(c.Delimited(c.Tag("Earned "), c.Uint32, c.Tag(" 🪙 in the Photo Contest.")),
		func(n uint32) Event { return PhotoContestEarned{Tokens: n} }),
	func(input string) (string, Event, error) {
		rest, emoji, err := c.ParseTerminated(" ")(input)
		if err != nil || emoji == "" || strings.IndexFunc(emoji, isWordRune) >= 0 {
			return c.Fail[Event](input, "player emoji")
		}
		rest, name, err := c.ParseTerminated(" won ")(rest)
		if err != nil {
			return input, nil, err
		}
		rest, n, err := c.Terminated(c.Uint32, c.Tag(" 🪙 in a Photo Contest."))(rest)
		if err != nil {
			return input, nil, err
		}
		return rest, PhotoContestEarned{Player: &EmojiPlayer{Emoji: emoji, Name: name}, Tokens: n}, nil
	},
))

var prosperousRule = c.Context("prosperous", func(input string) (string, Event, error) {
	rest, team, err := c.AndThen(c.ParseTerminated(" are Prosperous! They "), model.EmojiTeamEOF)(input)
	if err != nil {
		return input, nil, err
	}
	rest, err = skip(c.Alt(c.Tag("earned "), c.Tag("earn ")), rest)
	if err != nil {
		return input, nil, err
	}
	rest, income, err := c.Terminated(c.Uint8, c.Tag(" 🪙."))(rest)
	if err != nil {
		return input, nil, err
	}
	return rest, Prosperous{Team: team, Income: income}, nil
})

var witherRule = c.Context("wither", c.Map(c.ParseTerminated(" was Corrupted by the 🥀 Wither."),
	func(p string) Event { return CorruptedByWither{Player: p} }))

var purifiedRule = c.Context("purified", c.Map(
	c.Seq(c.ParseTerminated(" was Purified of 🫀 Corruption and earned "), c.Terminated(c.Uint32, c.Tag(" 🪙."))),
	func(p c.Pair[string, uint32]) Event { return Purified{Player: p.First, Payment: p.Second} },
))

var teamPartyRule = c.Context("party", c.Map(model.PartyClause,
	func(p model.Partying) Event { return Party{Partying: p} }))

func doorPrizeRule(input string) (string, Event, error) {
	d, ok := model.ParseDoorPrize(input)
	if !ok {
		return c.Fail[Event](input, "door prize")
	}
	return "", DoorPrize{Prize: d}, nil
}

var lotteryRule = c.Context("lottery", c.Alt(
	func(input string) (string, Event, error) {
		rest, team, err := c.Preceded(c.Tag("The "), c.ParseTerminated(" donated "))(input)
		if err != nil {
			return input, nil, err
		}
		rest, amount, err := c.Terminated(c.Uint32, c.Tag(" 🪙 to the "))(rest)
		if err != nil {
			return input, nil, err
		}
		rest, league, err := c.ParseTerminated(" Lottery.")(rest)
		if err != nil {
			return input, nil, err
		}
		return rest, DonatedToLottery{Team: team, Amount: amount, League: league}, nil
	},
	c.Map(c.Seq(c.Delimited(c.Tag("Won "), c.Uint32, c.Tag(" 🪙 from the ")), c.ParseTerminated(" Lottery!")),
		func(p c.Pair[uint32, string]) Event { return WonLottery{Amount: p.First, League: p.Second} }),
))

var maintenanceRule = c.Context("maintenance",
	c.Value[string, Event](NameReset{}, c.Tag("The team's name was reset in accordance with site policy.")))

var rosterRule = c.Context("roster", c.Alt(
	c.Map(c.Preceded(c.Tag("🐵 "), c.ParseTerminated(" was moved to the Bench.")),
		func(p string) Event { return PlayerMoved{Player: p} }),
	c.Map(c.Preceded(c.Tag("🧳 "), c.ParseTerminated(" was relegated to the Even Lesser League.")),
		func(p string) Event { return PlayerRelegated{Player: p} }),
))

var benchSlot = c.Alt(
	c.Map(c.Preceded(c.Tag("Bench Batter "), c.Uint8), func(n uint8) types.BenchSlot { return types.BenchSlot{Number: n} }),
	c.Map(c.Preceded(c.Tag("Bench Pitcher "), c.Uint8), func(n uint8) types.BenchSlot {
		return types.BenchSlot{Pitcher: true, Number: n}
	}),
)

var slotWord = c.Map(c.Word, func(s string) types.Slot { return types.Slot(s) })

// positionsSwappedRule reads the anded names as one unit and checks them
// against the names the rest of the sentence gives.
var positionsSwappedRule = c.Context("positions swapped", func(input string) (string, Event, error) {
	rest, anded, err := c.ParseTerminated(" swapped positions: ")(input)
	if err != nil {
		return input, nil, err
	}
	var e PositionsSwapped
	if rest, e.Benched, err = c.ParseTerminated(" moved to ")(rest); err != nil {
		return input, nil, err
	}
	if rest, e.BenchSlot, err = c.Terminated(benchSlot, c.Tag(", "))(rest); err != nil {
		return input, nil, err
	}
	if rest, e.Promoted, err = c.ParseTerminated(" moved to ")(rest); err != nil {
		return input, nil, err
	}
	if rest, e.RosterSlot, err = c.Terminated(slotWord, c.Tag("."))(rest); err != nil {
		return input, nil, err
	}
	if anded != e.Benched+" and "+e.Promoted {
		return c.Fail[Event](input, "swapped names matching")
	}
	return rest, e, nil
})

func lineupEntry(want int) c.Parser[LineupPlayer] {
	return func(input string) (string, LineupPlayer, error) {
		rest, n, err := c.Delimited(c.Tag(" "), c.Uint8, c.Tag(". "))(input)
		if err != nil {
			return input, LineupPlayer{}, err
		}
		if int(n) != want {
			return c.Fail[LineupPlayer](input, "lineup number "+strconv.Itoa(want))
		}
		rest, slot, err := c.Terminated(slotWord, c.Tag(" "))(rest)
		if err != nil {
			return input, LineupPlayer{}, err
		}
		name := rest
		if i := strings.IndexByte(rest, ','); i >= 0 {
			name, rest = rest[:i], rest[i:]
		} else {
			rest = ""
		}
		if !c.IsName(name) {
			return c.Fail[LineupPlayer](input, "lineup name")
		}
		return rest, LineupPlayer{Slot: &slot, Name: name}, nil
	}
}

// lineupEntries reads the numbered players, which must count up from 1.
func lineupEntries(input string) (string, []LineupPlayer, error) {
	rest, first, err := lineupEntry(1)(input)
	if err != nil {
		return input, nil, err
	}
	out := []LineupPlayer{first}
	for strings.HasPrefix(rest, ",") {
		next, p, err := lineupEntry(len(out) + 1)(rest[1:])
		if err != nil {
			return input, nil, err
		}
		out = append(out, p)
		rest = next
	}
	return rest, out, nil
}

func massAttributeEqualRule(f model.Frame) c.Parser[Event] {
	if f.After(timeline.Season3) {
		return c.Context("mass attribute equal", func(input string) (string, Event, error) {
			rest, changing, err := c.Delimited(c.Tag("Batters' "), attribute, c.Tag(" was set to their "))(input)
			if err != nil {
				return input, nil, err
			}
			rest, value, err := c.Terminated(attribute, c.Tag(". Lineup:"))(rest)
			if err != nil {
				return input, nil, err
			}
			rest, players, err := lineupEntries(rest)
			if err != nil {
				return input, nil, err
			}
			return rest, MassAttributeEquals{Changing: changing, Value: value, Players: players}, nil
		})
	}
	phrase := massEqualPhrase(f)
	type equal struct {
		name            string
		changing, value types.Attribute
	}
	one := func(input string) (string, equal, error) {
		rest, name, err := c.ParseTerminated("'s ")(input)
		if err != nil {
			return input, equal{}, err
		}
		rest, changing, err := attribute(rest)
		if err != nil {
			return input, equal{}, err
		}
		rest, value, err := c.Delimited(c.Tag(phrase), attribute, c.Tag("."))(rest)
		if err != nil {
			return input, equal{}, err
		}
		return rest, equal{name: name, changing: changing, value: value}, nil
	}
	return c.Context("mass attribute equal", func(input string) (string, Event, error) {
		rest, all, err := c.SeparatedList1(c.Tag(" "), one)(input)
		if err != nil {
			return input, nil, err
		}
		e := MassAttributeEquals{Changing: all[0].changing, Value: all[0].value}
		for _, q := range all {
			if q.changing != e.Changing || q.value != e.Value {
				return c.Fail[Event](input, "matching attributes")
			}
			e.Players = append(e.Players, LineupPlayer{Name: q.name})
		}
		return rest, e, nil
	})
}

func teamGame(f model.Frame) c.Parser[Event] {
	rules := []c.Parser[Event]{gameResultRule}
	rules = append(rules, deliveries()...)
	rules = append(rules,
		photoContestRule,
		injuredRule(f),
		infusedRule,
		deflectedRule,
		teamPartyRule,
		doorPrizeRule,
		prosperousRule,
		retirementRule(true),
		witherRule,
	)
	return c.Alt(rules...)
}

func teamAugment(f model.Frame) c.Parser[Event] {
	rules := append([]c.Parser[Event]{attributeGainsRule, modificationRule}, enchantments(f)...)
	rules = append(rules,
		massAttributeEqualRule(f),
		recomposeRule(f),
		takeTheMoundRule,
		takeThePlateRule,
		swapPlacesRule,
		purifiedRule,
		positionsSwappedRule,
	)
	return c.Alt(rules...)
}

// teamRule picks the team feed grammar for kind.
func teamRule(kind Kind, f model.Frame) c.Parser[Event] {
	switch kind {
	case KindGame:
		return teamGame(f)
	case KindAugment:
		return teamAugment(f)
	case KindRelease:
		return releasedRule
	case KindSeason:
		return retirementRule(false)
	case KindLottery:
		return lotteryRule
	case KindMaintenance:
		return maintenanceRule
	case KindRoster:
		return rosterRule
	}
	return nil
}
