package model

import (
	"strings"

	c "github.com/okian/mmolbparse/internal/domain/combinator"
	"github.com/okian/mmolbparse/internal/domain/types"
)

// Clause parsers shared by the game and feed grammars. Parsers for trailing
// clauses consume their own leading separator (" " or "<br>").

// EmojiTeamEOF consumes the rest of the input as "emoji name".
func EmojiTeamEOF(input string) (string, EmojiTeam, error) {
	t, ok := ParseEmojiTeam(input)
	if !ok {
		return c.Fail[EmojiTeam](input, "emoji team")
	}
	return "", t, nil
}

// TeamOf matches exactly t.
func TeamOf(t EmojiTeam) c.Parser[EmojiTeam] {
	if t.IsZero() {
		return func(input string) (string, EmojiTeam, error) {
			return c.Fail[EmojiTeam](input, "known team")
		}
	}
	return c.Value(t, c.Tag(t.String()))
}

// EitherTeam matches the home or the away team of f.
func EitherTeam(f Frame) c.Parser[EmojiTeam] {
	return c.Context("team", c.Alt(TeamOf(f.Home), TeamOf(f.Away)))
}

// TeamEmoji matches the emoji of t.
func TeamEmoji(t EmojiTeam) c.Parser[string] {
	if t.Emoji == "" {
		return func(input string) (string, string, error) {
			return c.Fail[string](input, "team emoji")
		}
	}
	return c.Tag(t.Emoji)
}

// EitherEmoji matches the emoji of either team of f.
func EitherEmoji(f Frame) c.Parser[string] {
	return c.Alt(TeamEmoji(f.Home), TeamEmoji(f.Away))
}

// PitchingEmoji matches the emoji of the team in the field. It fails when
// the frame does not know which half of the inning it is.
func PitchingEmoji(f Frame) c.Parser[string] {
	t, ok := f.PitchingTeam()
	if !ok {
		return func(input string) (string, string, error) {
			return c.Fail[string](input, "pitching team emoji")
		}
	}
	return TeamEmoji(t)
}

// ParsePlacedPlayer reads "SS Ellen Updog".
func ParsePlacedPlayer(s string) (PlacedPlayer, bool) {
	place, name, ok := strings.Cut(s, " ")
	if !ok || !c.IsName(name) {
		return PlacedPlayer{}, false
	}
	p, ok := types.ParsePlace(place)
	if !ok {
		return PlacedPlayer{}, false
	}
	return PlacedPlayer{Name: name, Place: p}, true
}

// PlacedPlayerEOF consumes the rest of the input as a placed player.
func PlacedPlayerEOF(input string) (string, PlacedPlayer, error) {
	p, ok := ParsePlacedPlayer(input)
	if !ok {
		return c.Fail[PlacedPlayer](input, "placed player")
	}
	return "", p, nil
}

func startsWithPlace(s string) bool {
	head, _, ok := strings.Cut(s, " ")
	if !ok {
		return false
	}
	_, ok = types.ParsePlace(head)
	return ok
}

// ParseFielders reads "SS Ellen Updog to 2B Chalia Jr. to 1B Elena
// Karapetyan". A " to " only separates fielders when a position follows it.
func ParseFielders(s string) ([]PlacedPlayer, bool) {
	var out []PlacedPlayer
	parts := strings.Split(s, " to ")
	cur := parts[0]
	for _, part := range parts[1:] {
		if !startsWithPlace(part) {
			cur += " to " + part
			continue
		}
		p, ok := ParsePlacedPlayer(cur)
		if !ok {
			return nil, false
		}
		out = append(out, p)
		cur = part
	}
	p, ok := ParsePlacedPlayer(cur)
	if !ok {
		return nil, false
	}
	return append(out, p), true
}

// FieldersEOF consumes the rest of the input as at least min fielders.
func FieldersEOF(min int) c.Parser[[]PlacedPlayer] {
	return func(input string) (string, []PlacedPlayer, error) {
		fs, ok := ParseFielders(input)
		if !ok || len(fs) < min {
			return c.Fail[[]PlacedPlayer](input, "fielders")
		}
		return "", fs, nil
	}
}

// FieldersForPlayEOF reads the fielders of a force out or double play: one
// fielder followed by "unassisted", or a chain of two or more.
func FieldersForPlayEOF(input string) (string, []PlacedPlayer, error) {
	if single, ok := strings.CutSuffix(input, " unassisted"); ok {
		if p, ok := ParsePlacedPlayer(single); ok {
			return "", []PlacedPlayer{p}, nil
		}
	}
	return FieldersEOF(2)(input)
}

// RenderFielders prints " to X" for one fielder and ", A to B" for more.
func RenderFielders(fs []PlacedPlayer) string {
	if len(fs) == 1 {
		return " to " + fs[0].String()
	}
	return ", " + joinFielders(fs)
}

// RenderFieldersForPlay prints ", X unassisted" for one fielder and
// ", A to B" for more.
func RenderFieldersForPlay(fs []PlacedPlayer) string {
	if len(fs) == 1 {
		return ", " + fs[0].String() + " unassisted"
	}
	return ", " + joinFielders(fs)
}

func joinFielders(fs []PlacedPlayer) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = f.String()
	}
	return strings.Join(parts, " to ")
}

var baseName = c.TryFromWordsMN(1, 2, "base name", types.ParseBaseNameVariant)

var longBase = c.TryFromWordsMN(1, 2, "base", types.ParseLongBase)

// Out reads "Dolorenine Lomidze out at third base.".
func Out(input string) (string, RunnerOut, error) {
	return c.Context("out", c.Map(
		c.Seq(c.NameUntil(" out at "), c.Terminated(baseName, c.Tag("."))),
		func(p c.Pair[string, types.BaseNameVariant]) RunnerOut {
			return RunnerOut{Runner: p.First, Base: p.Second}
		},
	))(input)
}

// Score reads " <strong>Sam Lee scores!</strong>".
func Score(input string) (string, string, error) {
	return c.Preceded(c.Tag(" <strong>"), c.NameUntil(" scores!</strong>"))(input)
}

// Advance reads " Myra Roussel to third base.".
func Advance(input string) (string, RunnerAdvance, error) {
	return c.Preceded(c.Tag(" "), c.Map(
		c.NameAnd(" to ", c.Terminated(longBase, c.Tag("."))),
		func(p c.Pair[string, types.Base]) RunnerAdvance {
			return RunnerAdvance{Runner: p.First, Base: p.Second}
		},
	))(input)
}

// ScoresAndAdvances reads any scores followed by any advances.
func ScoresAndAdvances(input string) (string, Runners, error) {
	return c.Map(c.Seq(c.Many0(Score), c.Many0(Advance)),
		func(p c.Pair[[]string, []RunnerAdvance]) Runners {
			return Runners{Scores: p.First, Advances: p.Second}
		},
	)(input)
}

var (
	stealHome = c.Map(
		c.Delimited(c.Tag("<strong>"), c.NameUntil(" steals home!"), c.Tag("</strong>")),
		func(runner string) BaseSteal { return BaseSteal{Runner: runner, Base: types.HomeBase} },
	)
	steal = c.Map(
		c.NameAnd(" steals ", c.Terminated(longBase, c.Tag("!"))),
		func(p c.Pair[string, types.Base]) BaseSteal { return BaseSteal{Runner: p.First, Base: p.Second} },
	)
	caughtStealing = c.Map(
		c.NameAnd(" is caught stealing ", c.Terminated(longBase, c.Tag("."))),
		func(p c.Pair[string, types.Base]) BaseSteal {
			return BaseSteal{Runner: p.First, Base: p.Second, Caught: true}
		},
	)
)

// Steals reads zero or more steal sentences, each after a space.
func Steals(input string) (string, []BaseSteal, error) {
	return c.Many0(c.Preceded(c.Tag(" "), c.Alt(stealHome, steal, caughtStealing)))(input)
}

// CheerClause reads " A tremendous cheer fills the air!" behind the prefix
// f's era printed.
func CheerClause(f Frame) c.Parser[types.Cheer] {
	return c.Map(
		c.Preceded(c.Tag(f.CheerPrefix()), c.Terminated(
			c.Verify("cheer", c.TakeUntil("!"), func(s string) bool {
				return s != "" && !strings.ContainsAny(s, ".<>") && !strings.Contains(s, "🤖") &&
					!strings.HasPrefix(s, "📣")
			}),
			c.Tag("!"),
		)),
		func(s string) types.Cheer { return types.Cheer(s) },
	)
}

// RenderCheer prints a cheer the way f's era did, or nothing.
func RenderCheer(f Frame, cheer *types.Cheer) string {
	if cheer == nil {
		return ""
	}
	return f.CheerPrefix() + string(*cheer) + "!"
}

// Aurora reads the geomagnetic storm photos, leading space included.
func Aurora(f Frame) c.Parser[SnappedPhotos] {
	emoji := EitherEmoji(f)
	first := c.Seq(c.Terminated(emoji, c.Tag(" ")), c.AndThen(c.ParseTerminated(" and "), PlacedPlayerEOF))
	second := c.Seq(c.Terminated(emoji, c.Tag(" ")), c.AndThen(c.ParseTerminated(" snapped photos of the aurora."), PlacedPlayerEOF))
	return c.Context("aurora", c.Map(
		c.Preceded(c.Tag(" The Geomagnetic Storms Intensify! "), c.Seq(first, second)),
		func(p c.Pair[c.Pair[string, PlacedPlayer], c.Pair[string, PlacedPlayer]]) SnappedPhotos {
			return SnappedPhotos{
				FirstEmoji:  p.First.First,
				First:       p.First.Second,
				SecondEmoji: p.Second.First,
				Second:      p.Second.Second,
			}
		},
	))
}

// EjectionClause reads a ROBO-UMP ejection or failed ejection, leading space
// included.
func EjectionClause(f Frame) c.Parser[Ejection] {
	return c.Context("ejection", c.Alt(
		c.Preceded(c.Tag(" 🤖 ROBO-UMP ejected "), EjectionTail(f)),
		failedEjection,
	))
}

var failedEjection = c.Map(
	c.Preceded(c.Tag(" 🤖 ROBO-UMP attempted an ejection, but "),
		c.Seq(c.ParseTerminated(", "), c.ParseTerminated(" would not budge."))),
	func(p c.Pair[string, string]) Ejection {
		return Ejection{Failed: true, Holdouts: [2]string{p.First, p.Second}}
	},
)

// EjectionTail reads an ejection after "ROBO-UMP ejected ".
func EjectionTail(f Frame) c.Parser[Ejection] {
	team := EitherTeam(f)
	ejected := c.AndThen(c.ParseTerminated(" for a "), PlacedPlayerEOF)
	bench := c.Preceded(c.Tag("Bench Player "), c.Verify("bench player", c.ParseTerminated(" takes their place."), c.IsName))
	return func(input string) (string, Ejection, error) {
		rest, t, err := c.Terminated(team, c.Tag(" "))(input)
		if err != nil {
			return input, Ejection{}, err
		}
		rest, player, err := ejected(rest)
		if err != nil {
			return input, Ejection{}, err
		}
		rest, violation, err := c.ParseTerminated(" Violation (")(rest)
		if err != nil {
			return input, Ejection{}, err
		}
		rest, reason, err := c.ParseTerminated("). ")(rest)
		if err != nil {
			return input, Ejection{}, err
		}
		e := Ejection{
			Team:      t,
			Ejected:   player,
			Violation: types.ViolationType(violation),
			Reason:    types.EjectionReason(reason),
		}
		if r, name, err := bench(rest); err == nil {
			e.BenchPlayer = name
			return r, e, nil
		}
		roster := c.Preceded(c.Tag(t.Emoji+" "), c.AndThen(c.ParseTerminated(" takes the mound."), PlacedPlayerEOF))
		r, relief, err := roster(rest)
		if err != nil {
			return input, Ejection{}, err
		}
		e.RosterPlayer = &relief
		return r, e, nil
	}
}

// ItemEOF consumes the rest of the input as "emoji name".
func ItemEOF(input string) (string, Item, error) {
	it, ok := ParseItem(input)
	if !ok {
		return c.Fail[Item](input, "item")
	}
	return "", it, nil
}

// ItemUntil reads an item terminated by delim.
func ItemUntil(delim string) c.Parser[Item] {
	return c.AndThen(c.ParseTerminated(delim), ItemEOF)
}

// DoorPrizes reads zero or more "<br>🥳 ..." lines.
func DoorPrizes(input string) (string, []DoorPrize, error) {
	return c.Many0(c.Preceded(c.Tag("<br>"), doorPrizeLine))(input)
}

func doorPrizeLine(input string) (string, DoorPrize, error) {
	line, rest := input, ""
	if i := strings.Index(input, "<br>"); i >= 0 {
		line, rest = input[:i], input[i:]
	}
	d, ok := ParseDoorPrize(line)
	if !ok {
		return c.Fail[DoorPrize](input, "door prize")
	}
	return rest, d, nil
}

// ParseDoorPrize reads one door prize line without its "<br>".
func ParseDoorPrize(line string) (DoorPrize, bool) {
	body, ok := strings.CutPrefix(line, "🥳 ")
	if !ok {
		return DoorPrize{}, false
	}
	if player, ok := strings.CutSuffix(body, " didn't win a Door Prize."); ok {
		return DoorPrize{Player: player}, player != ""
	}
	player, tail, ok := strings.Cut(body, " won a Door Prize")
	if !ok || player == "" || len(tail) < 2 {
		return DoorPrize{}, false
	}
	equip := tail[0] == '!'
	if !equip && tail[0] != ':' {
		return DoorPrize{}, false
	}
	tail, ok = strings.CutPrefix(tail[1:], " ")
	if !ok {
		return DoorPrize{}, false
	}
	tail, ok = strings.CutSuffix(tail, ".")
	if !ok {
		return DoorPrize{}, false
	}
	prize, ok := parsePrize(tail, equip)
	if !ok || prize.anyEquip() != equip {
		return DoorPrize{}, false
	}
	return DoorPrize{Player: player, Prize: &prize}, true
}

func parsePrize(s string, equip bool) (Prize, bool) {
	if n, ok := strings.CutSuffix(s, " 🪙"); ok && !equip {
		if _, tokens, err := c.AllConsuming(c.Uint16)(n); err == nil {
			return Prize{Tokens: tokens}, true
		}
	}
	sep := ", "
	if equip {
		sep = ". "
	}
	var parts []string
	for _, part := range strings.Split(s, sep) {
		if equip && strings.HasPrefix(part, "They discard their ") && len(parts) > 0 {
			parts[len(parts)-1] += sep + part
			continue
		}
		parts = append(parts, part)
	}
	items := make([]ItemPrize, 0, len(parts))
	for _, part := range parts {
		it, ok := parseItemPrize(part)
		if !ok {
			return Prize{}, false
		}
		items = append(items, it)
	}
	return Prize{Items: items}, true
}

func parseItemPrize(s string) (ItemPrize, bool) {
	if player, rest, ok := strings.Cut(s, " equips "); ok && c.IsName(player) {
		itemText, discarded, hasDiscard := strings.Cut(rest, " from the Door Prize. They discard their ")
		if !hasDiscard {
			itemText, ok = strings.CutSuffix(rest, " from the Door Prize")
			if !ok {
				return ItemPrize{}, false
			}
		}
		it, ok := ParseItem(itemText)
		if !ok {
			return ItemPrize{}, false
		}
		p := ItemPrize{Item: it, Equip: EquipEquipped, Player: player}
		if hasDiscard {
			d, ok := ParseItem(discarded)
			if !ok {
				return ItemPrize{}, false
			}
			p.Discarded = &d
		}
		return p, true
	}
	if itemText, ok := strings.CutSuffix(s, " is discarded; nobody can use it"); ok {
		it, ok := ParseItem(itemText)
		return ItemPrize{Item: it, Equip: EquipDiscarded}, ok
	}
	it, ok := ParseItem(s)
	return ItemPrize{Item: it}, ok
}

func discardedItem(f Frame) c.Parser[Item] {
	return c.Preceded(c.Tag(f.DiscardedText()), ItemUntil("."))
}

// deliveredItem reads the item up to " {from }{label}." and rejects names
// that only matched because a longer label shares the suffix.
func deliveredItem(label string, equipped bool) c.Parser[Item] {
	end := " " + label + "."
	if equipped {
		end = " from " + label + "."
	}
	return c.Verify("delivered item", ItemUntil(end), func(it Item) bool {
		return !strings.HasSuffix(it.Name, " Special")
	})
}

// DeliveryClause reads one game delivery: a team (and maybe a player)
// receiving or equipping an item, or an item nobody had room for.
func DeliveryClause(f Frame, label string) c.Parser[Delivery] {
	team := EitherTeam(f)
	received := func(verb string, equipped bool) c.Parser[Delivery] {
		tail := c.Seq(deliveredItem(label, equipped), c.Opt(discardedItem(f)))
		return func(input string) (string, Delivery, error) {
			rest, t, err := team(input)
			if err != nil {
				return input, Delivery{}, err
			}
			rest, p, err := c.ParseAnd(tail, verb)(rest)
			if err != nil {
				return input, Delivery{}, err
			}
			d := Delivery{Team: t, Item: p.Second.First, Equipped: equipped, Discarded: p.Second.Second}
			if p.First != "" {
				name, ok := strings.CutPrefix(p.First, " ")
				if !ok || !c.IsName(name) {
					return c.Fail[Delivery](input, "delivery recipient")
				}
				d.Player = name
			}
			return rest, d, nil
		}
	}
	noSpace := c.Map(ItemUntil(f.NoSpaceText()), func(it Item) Delivery { return Delivery{Item: it, NoSpace: true} })
	return c.Context("delivery", c.Alt(
		received(f.ReceivedText(), false),
		received(" equips ", true),
		noSpace,
	))
}

// FeedDeliveryClause reads "Player received a 🧢 Cap Delivery." with an
// optional discard sentence.
func FeedDeliveryClause(label string) c.Parser[FeedDelivery] {
	return c.Context("feed delivery", c.Map(
		c.Seq(c.NameUntil(" received a "), c.Seq(deliveredItem(label, false), c.Opt(
			c.Preceded(c.Tag(" They discarded their "), ItemUntil(".")),
		))),
		func(p c.Pair[string, c.Pair[Item, *Item]]) FeedDelivery {
			return FeedDelivery{Player: p.First, Item: p.Second.First, Discarded: p.Second.Second}
		},
	))
}

// partyGain reads "Name gained +N Attribute. " with its trailing space.
var partyGain = c.Seq(
	c.ParseTerminated(" gained +"),
	c.Seq(c.Terminated(c.Uint8, c.Tag(" ")), c.Terminated(c.TryFromWord("attribute", types.ParseAttribute), c.Tag(". "))),
)

var durabilityLoss = c.Alt(
	c.Map(c.Delimited(c.Tag("Both players lose "), c.Uint8, c.Tag(" Durability.")),
		func(n uint8) PartyDurabilityLoss { return PartyDurabilityLoss{Amount: n} }),
	func(input string) (string, PartyDurabilityLoss, error) {
		rest, who, err := c.ParseTerminated(" loses ")(input)
		if err != nil {
			return input, PartyDurabilityLoss{}, err
		}
		rest, n, err := c.Terminated(c.Uint8, c.Tag(" Durability, but "))(rest)
		if err != nil {
			return input, PartyDurabilityLoss{}, err
		}
		rest, protected, err := c.ParseTerminated("'s Prolific Greater Boon protects them from harm.")(rest)
		if err != nil {
			return input, PartyDurabilityLoss{}, err
		}
		return rest, PartyDurabilityLoss{Amount: n, Protected: protected, Unprotected: who}, nil
	},
)

// PartyClause reads a whole Party message. Both gains and any protected
// player must name the two partying players.
func PartyClause(input string) (string, Partying, error) {
	rest, names, err := c.Preceded(c.Tag("<strong>🥳 "), c.Seq(
		c.ParseTerminated(" and "),
		c.ParseTerminated(" are Partying!</strong> "),
	))(input)
	if err != nil {
		return input, Partying{}, err
	}
	rest, pg, err := partyGain(rest)
	if err != nil {
		return input, Partying{}, err
	}
	rest, bg, err := partyGain(rest)
	if err != nil {
		return input, Partying{}, err
	}
	rest, loss, err := durabilityLoss(rest)
	if err != nil {
		return input, Partying{}, err
	}
	if pg.First != names.First || bg.First != names.Second {
		return c.Fail[Partying](input, "party gains naming the partying players")
	}
	if loss.Protected != "" {
		pair := (loss.Protected == names.First && loss.Unprotected == names.Second) ||
			(loss.Protected == names.Second && loss.Unprotected == names.First)
		if !pair {
			return c.Fail[Partying](input, "durability loss naming the partying players")
		}
	}
	return rest, Partying{
		Pitcher:          names.First,
		PitcherAmount:    pg.Second.First,
		PitcherAttribute: pg.Second.Second,
		Batter:           names.Second,
		BatterAmount:     bg.Second.First,
		BatterAttribute:  bg.Second.Second,
		Durability:       loss,
	}, nil
}
