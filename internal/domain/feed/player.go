package feed

import (
	"math"
	"strconv"
	"strings"

	c "github.com/okian/mmolbparse/internal/domain/combinator"
	"github.com/okian/mmolbparse/internal/domain/model"
	"github.com/okian/mmolbparse/internal/domain/timeline"
	"github.com/okian/mmolbparse/internal/domain/types"
)

var attribute = c.TryFromWord("attribute", types.ParseAttribute)

// Delivery is an item handed to a player. Label is "Delivery", "Shipment"
// or "Special Delivery".
type Delivery struct {
	Label    string             `json:"label"`
	Delivery model.FeedDelivery `json:"delivery"`
}

func (Delivery) Name() string { return "Delivery" }

func (e Delivery) Unparse(model.Frame) string { return e.Delivery.Render(e.Label) }

// StarOutcome is what a falling star did to the player it hit.
type StarOutcome string

// Falling star outcomes as feeds report them.
const (
	StarInjury    StarOutcome = "injury"
	StarInfusion  StarOutcome = "infusion"
	StarDeflected StarOutcome = "deflected_harmlessly"
)

// FallingStar is the feed line left by a falling star.
type FallingStar struct {
	Player  string                     `json:"player"`
	Outcome StarOutcome                `json:"outcome"`
	Tier    *types.CelestialEnergyTier `json:"tier,omitempty"`
}

func (FallingStar) Name() string { return "FallingStar" }

func (e FallingStar) Unparse(f model.Frame) string {
	switch e.Outcome {
	case StarInfusion:
		tier := types.Infused
		if e.Tier != nil {
			tier = *e.Tier
		}
		return e.Player + " " + tier.Phrase()
	case StarDeflected:
		return "It deflected off " + e.Player + " harmlessly."
	}
	if f.After(timeline.EternalBattle) {
		return e.Player + " was injured by the extreme force of the impact!"
	}
	return e.Player + " was hit by a Falling Star!"
}

// Retirement replaces a retired player. Game feeds open with an emoji.
type Retirement struct {
	Previous    string  `json:"previous"`
	Replacement *string `json:"replacement,omitempty"`
	Emoji       bool    `json:"emoji,omitempty"`
}

func (Retirement) Name() string { return "Retirement" }

func (e Retirement) Unparse(model.Frame) string {
	var b strings.Builder
	if e.Emoji {
		b.WriteString("😇 ")
	}
	b.WriteString(e.Previous + " retired from MMOLB!")
	if e.Replacement != nil {
		b.WriteString(" " + *e.Replacement + " was called up to take their place.")
	}
	return b.String()
}

// AttributeChange is one "+N Attribute" line.
type AttributeChange struct {
	Player       string          `json:"player"`
	Amount       int16           `json:"amount"`
	Attribute    types.Attribute `json:"attribute"`
	LeadingSpace bool            `json:"leading_space,omitempty"`
}

func (a AttributeChange) String() string {
	lead := ""
	if a.LeadingSpace {
		lead = " "
	}
	return lead + a.Player + " gained +" + strconv.Itoa(int(a.Amount)) + " " + a.Attribute.String() + "."
}

// AttributeChanges lists attribute gains. Player feeds carry exactly one.
type AttributeChanges struct {
	Changes []AttributeChange `json:"changes"`
}

func (AttributeChanges) Name() string { return "AttributeChanges" }

func (e AttributeChanges) Unparse(model.Frame) string {
	var b strings.Builder
	for _, ch := range e.Changes {
		b.WriteString(ch.String())
	}
	return b.String()
}

// AttributeEquals sets one attribute to the value of another.
type AttributeEquals struct {
	Player   string          `json:"player"`
	Changing types.Attribute `json:"changing_attribute"`
	Value    types.Attribute `json:"value_attribute"`
}

func (AttributeEquals) Name() string { return "AttributeEquals" }

func (e AttributeEquals) Unparse(f model.Frame) string {
	return e.Player + "'s " + e.Changing.String() + attributeEqualPhrase(f) + e.Value.String() + "."
}

// attributeEqualPhrase is the single-player wording, which changed at
// S1AttributeEqualChange and changed back in season 3.
func attributeEqualPhrase(f model.Frame) string {
	if f.Before(timeline.Season3) && f.After(timeline.S1AttributeEqualChange) {
		return " became equal to their current base "
	}
	return " was set to their "
}

// Modification adds a modification, sometimes replacing another.
type Modification struct {
	Player string                  `json:"player"`
	Lost   *types.ModificationType `json:"lost,omitempty"`
	Gained types.ModificationType  `json:"gained"`
}

func (Modification) Name() string { return "Modification" }

func (e Modification) Unparse(model.Frame) string {
	gained := e.Player + " gained the " + string(e.Gained) + " Modification."
	if e.Lost == nil {
		return gained
	}
	return e.Player + " lost the " + string(*e.Lost) + " Modification. " + gained
}

func (e Modification) Unrecognized() []string {
	var out []string
	if !e.Gained.Recognized() {
		out = append(out, "modification "+strconv.Quote(string(e.Gained)))
	}
	if e.Lost != nil && !e.Lost.Recognized() {
		out = append(out, "modification "+strconv.Quote(string(*e.Lost)))
	}
	return out
}

// Phrasing pins an enchantment to one era's wording. Player and team feeds
// leave it empty and take the wording from the moment.
type Phrasing string

// Enchantment wordings.
const (
	PhrasingS1A Phrasing = "season1a"
	PhrasingS1B Phrasing = "season1b"
	PhrasingS2  Phrasing = "season2"
)

// Bonus is one attribute bonus on an item.
type Bonus struct {
	Amount    uint8           `json:"amount"`
	Attribute types.Attribute `json:"attribute"`
}

func (b Bonus) String() string { return "+" + strconv.Itoa(int(b.Amount)) + " " + b.Attribute.String() }

// Enchantment adds one or two bonuses to an item.
type Enchantment struct {
	Player       string   `json:"player"`
	Item         string   `json:"item"`
	Bonus        Bonus    `json:"bonus"`
	Second       *Bonus   `json:"second,omitempty"`
	Compensatory bool     `json:"compensatory,omitempty"`
	Article      bool     `json:"article,omitempty"`
	Phrasing     Phrasing `json:"phrasing,omitempty"`
}

func (Enchantment) Name() string { return "Enchantment" }

func (e Enchantment) Unparse(f model.Frame) string {
	phrasing := e.Phrasing
	if phrasing == "" {
		phrasing = enchantmentEra(f)
	}
	if e.Compensatory {
		phrasing = PhrasingS2
	}
	owner := e.Player + "'s " + e.Item
	switch phrasing {
	case PhrasingS1A:
		return owner + " was enchanted with +" + strconv.Itoa(int(e.Bonus.Amount)) + " to " + e.Bonus.Attribute.String() + "."
	case PhrasingS1B:
		return "The Item Enchantment was a success! " + owner + " gained a " + e.Bonus.String() + " bonus."
	}
	kind := "Item"
	if e.Compensatory {
		kind = "Compensatory"
	}
	head := "The " + kind + " Enchantment was a success! " + owner
	if e.Second == nil {
		return head + " gained a " + e.Bonus.String() + " bonus."
	}
	article := ""
	if e.Article {
		article = "a "
	}
	return head + " was enchanted with " + article + e.Bonus.String() + " and " + e.Second.String() + "."
}

func enchantmentEra(f model.Frame) Phrasing {
	switch {
	case f.Before(timeline.Season1EnchantmentChange):
		return PhrasingS1A
	case f.BeforeSeason(2):
		return PhrasingS1B
	}
	return PhrasingS2
}

// Recomposed replaces a player with a new one.
type Recomposed struct {
	Previous string `json:"previous"`
	New      string `json:"new"`
}

func (Recomposed) Name() string { return "Recomposed" }

func (e Recomposed) Unparse(f model.Frame) string {
	if timeline.AfterRecompose(f.Timestamp) {
		return e.Previous + " was Recomposed into " + e.New + "."
	}
	return e.Previous + " was Recomposed using " + e.New + "."
}

// TakeTheMound moves a batter to pitch.
type TakeTheMound struct {
	ToMound  string `json:"to_mound"`
	ToLineup string `json:"to_lineup"`
}

func (TakeTheMound) Name() string { return "TakeTheMound" }

func (e TakeTheMound) Unparse(model.Frame) string {
	return e.ToMound + " was moved to the mound. " + e.ToLineup + " was sent to the lineup."
}

// TakeThePlate moves a pitcher to bat.
type TakeThePlate struct {
	ToPlate    string `json:"to_plate"`
	FromLineup string `json:"from_lineup"`
}

func (TakeThePlate) Name() string { return "TakeThePlate" }

func (e TakeThePlate) Unparse(model.Frame) string {
	return e.ToPlate + " was sent to the plate. " + e.FromLineup + " was pulled from the lineup."
}

// SwapPlaces exchanges two players' positions.
type SwapPlaces struct {
	One string `json:"player_one"`
	Two string `json:"player_two"`
}

func (SwapPlaces) Name() string { return "SwapPlaces" }

func (e SwapPlaces) Unparse(model.Frame) string { return e.One + " swapped places with " + e.Two + "." }

// Released drops a player from a team.
type Released struct {
	Team string `json:"team"`
}

func (Released) Name() string { return "Released" }

func (e Released) Unparse(model.Frame) string { return "Released by the " + e.Team + "." }

func init() {
	register(Delivery{}, FallingStar{}, Retirement{}, AttributeChanges{}, AttributeEquals{}, Modification{},
		Enchantment{}, Recomposed{}, TakeTheMound{}, TakeThePlate{}, SwapPlaces{}, Released{})
}

func deliveryRule(label string) c.Parser[Event] {
	return c.Context(strings.ToLower(label), c.Map(model.FeedDeliveryClause(label),
		func(d model.FeedDelivery) Event { return Delivery{Label: label, Delivery: d} }))
}

func deliveries() []c.Parser[Event] {
	return []c.Parser[Event]{deliveryRule("Delivery"), deliveryRule("Shipment"), deliveryRule("Special Delivery")}
}

func injuredRule(f model.Frame) c.Parser[Event] {
	tail := " was hit by a Falling Star!"
	if f.After(timeline.EternalBattle) {
		tail = " was injured by the extreme force of the impact!"
	}
	return c.Context("falling star injury", c.Map(c.AndThen(c.ParseTerminated(tail), c.NameEOF),
		func(p string) Event { return FallingStar{Player: p, Outcome: StarInjury} }))
}

func infusedRule(input string) (string, Event, error) {
	for _, tier := range types.CelestialEnergyTiers {
		if rest, p, err := c.AndThen(c.ParseTerminated(" "+tier.Phrase()), c.NameEOF)(input); err == nil {
			return rest, FallingStar{Player: p, Outcome: StarInfusion, Tier: &tier}, nil
		}
	}
	return c.Fail[Event](input, "falling star infusion")
}

var deflectedRule = c.Context("falling star deflected", c.Map(
	c.Preceded(c.Tag("It deflected off "), c.AndThen(c.ParseTerminated(" harmlessly."), c.NameEOF)),
	func(p string) Event { return FallingStar{Player: p, Outcome: StarDeflected} },
))

func retirementRule(emoji bool) c.Parser[Event] {
	return c.Context("retirement", func(input string) (string, Event, error) {
		rest := input
		if emoji {
			var ok bool
			if rest, ok = strings.CutPrefix(rest, "😇 "); !ok {
				return c.Fail[Event](input, "retirement emoji")
			}
		}
		rest, previous, err := c.AndThen(c.ParseTerminated(" retired from MMOLB!"), c.NameEOF)(rest)
		if err != nil {
			return input, nil, err
		}
		e := Retirement{Previous: previous, Emoji: emoji}
		rest, e.Replacement, _ = c.Opt(c.Preceded(c.Tag(" "),
			c.AndThen(c.ParseTerminated(" was called up to take their place."), c.NameEOF)))(rest)
		return rest, e, nil
	})
}

// attributeChange reads one gain, with the stray leading space some feeds
// carry.
func attributeChange(input string) (string, AttributeChange, error) {
	rest, lead, _ := c.Flag(c.Tag(" "))(input)
	rest, player, err := c.ParseTerminated(" gained +")(rest)
	if err != nil {
		return input, AttributeChange{}, err
	}
	rest, amount, err := c.Verify("attribute amount", c.Uint16, func(n uint16) bool { return n <= math.MaxInt16 })(rest)
	if err != nil {
		return input, AttributeChange{}, err
	}
	rest, attr, err := c.Delimited(c.Tag(" "), attribute, c.Tag("."))(rest)
	if err != nil {
		return input, AttributeChange{}, err
	}
	return rest, AttributeChange{Player: player, Amount: int16(amount), Attribute: attr, LeadingSpace: lead}, nil
}

var attributeGainRule = c.Context("attribute gain", c.Map(attributeChange,
	func(a AttributeChange) Event { return AttributeChanges{Changes: []AttributeChange{a}} }))

var attributeGainsRule = c.Context("attribute gains", c.Map(c.Many1(attributeChange),
	func(as []AttributeChange) Event { return AttributeChanges{Changes: as} }))

func attributeEqualRule(f model.Frame) c.Parser[Event] {
	return c.Context("attribute equal", func(input string) (string, Event, error) {
		rest, player, err := c.ParseTerminated("'s ")(input)
		if err != nil {
			return input, nil, err
		}
		rest, changing, err := attribute(rest)
		if err != nil {
			return input, nil, err
		}
		rest, value, err := c.Delimited(c.Tag(attributeEqualPhrase(f)), attribute, c.Tag("."))(rest)
		if err != nil {
			return input, nil, err
		}
		return rest, AttributeEquals{Player: player, Changing: changing, Value: value}, nil
	})
}

var modificationRule = c.Context("modification", func(input string) (string, Event, error) {
	modification := c.Map(c.ParseTerminated(" Modification."), func(s string) types.ModificationType {
		return types.ModificationType(s)
	})
	if rest, player, err := c.AndThen(c.ParseTerminated(" lost the "), c.NameEOF)(input); err == nil {
		rest, lost, err := c.ParseTerminated(" Modification. ")(rest)
		if err != nil {
			return input, nil, err
		}
		rest, gained, err := c.Preceded(c.Tag(player+" gained the "), modification)(rest)
		if err != nil {
			return input, nil, err
		}
		l := types.ModificationType(lost)
		return rest, Modification{Player: player, Lost: &l, Gained: gained}, nil
	}
	rest, player, err := c.ParseTerminated(" gained the ")(input)
	if err != nil {
		return input, nil, err
	}
	rest, gained, err := modification(rest)
	if err != nil {
		return input, nil, err
	}
	return rest, Modification{Player: player, Gained: gained}, nil
})

var bonus = c.Map(c.Seq(c.Terminated(c.Uint8, c.Tag(" ")), attribute),
	func(p c.Pair[uint8, types.Attribute]) Bonus { return Bonus{Amount: p.First, Attribute: p.Second} })

// owner reads "Player's Item" up to the verb that follows the item.
func owner(input string, verbs ...string) (string, string, string, error) {
	rest, player, err := c.ParseTerminated("'s ")(input)
	if err != nil {
		return input, "", "", err
	}
	for _, verb := range verbs {
		if rest, item, err := c.ParseTerminated(verb)(rest); err == nil && item != "" {
			return rest, player, item, nil
		}
	}
	_, _, err = c.Fail[string](rest, "enchanted item")
	return input, "", "", err
}

func enchantmentS1A(phrasing Phrasing) c.Parser[Event] {
	return c.Context("enchantment s1a", func(input string) (string, Event, error) {
		rest, player, item, err := owner(input, " was enchanted with +")
		if err != nil {
			return input, nil, err
		}
		rest, n, err := c.Terminated(c.Uint8, c.Tag(" to "))(rest)
		if err != nil {
			return input, nil, err
		}
		rest, attr, err := c.Terminated(attribute, c.Tag("."))(rest)
		if err != nil {
			return input, nil, err
		}
		return rest, Enchantment{Player: player, Item: item, Bonus: Bonus{Amount: n, Attribute: attr}, Phrasing: phrasing}, nil
	})
}

func enchantmentS1B(phrasing Phrasing) c.Parser[Event] {
	return c.Context("enchantment s1b", func(input string) (string, Event, error) {
		rest, err := skip(c.Tag("The Item Enchantment was a success! "), input)
		if err != nil {
			return input, nil, err
		}
		rest, player, item, err := owner(rest, " gained a +")
		if err != nil {
			return input, nil, err
		}
		rest, b, err := c.Terminated(bonus, c.Tag(" bonus."))(rest)
		if err != nil {
			return input, nil, err
		}
		return rest, Enchantment{Player: player, Item: item, Bonus: b, Phrasing: phrasing}, nil
	})
}

// twoBonuses reads " was enchanted with {a }+N A and +M B." after the item.
func twoBonuses(input string) (string, Enchantment, error) {
	var e Enchantment
	rest, article, _ := c.Flag(c.Tag("a "))(input)
	e.Article = article
	rest, b, err := c.Preceded(c.Tag("+"), bonus)(rest)
	if err != nil {
		return input, e, err
	}
	e.Bonus = b
	rest, second, err := c.Delimited(c.Tag(" and +"), bonus, c.Tag("."))(rest)
	if err != nil {
		return input, e, err
	}
	e.Second = &second
	return rest, e, nil
}

var enchantmentS2 = c.Context("enchantment s2", func(input string) (string, Event, error) {
	rest, err := skip(c.Tag("The Item Enchantment was a success! "), input)
	if err != nil {
		return input, nil, err
	}
	rest, player, item, err := owner(rest, " was enchanted with ")
	if err != nil {
		return input, nil, err
	}
	rest, e, err := twoBonuses(rest)
	if err != nil {
		return input, nil, err
	}
	e.Player, e.Item = player, item
	return rest, e, nil
})

// enchantments lists the enchantment wordings f's era printed. A single
// bonus in the two-bonus era still reads the way season 1B wrote it.
func enchantments(f model.Frame) []c.Parser[Event] {
	switch enchantmentEra(f) {
	case PhrasingS1A:
		return []c.Parser[Event]{enchantmentS1A(""), enchantmentCompensatory}
	case PhrasingS1B:
		return []c.Parser[Event]{enchantmentS1B(""), enchantmentCompensatory}
	}
	return []c.Parser[Event]{enchantmentS1B(""), enchantmentS2, enchantmentCompensatory}
}

var enchantmentCompensatory = c.Context("enchantment compensatory", func(input string) (string, Event, error) {
	rest, err := skip(c.Tag("The Compensatory Enchantment was a success! "), input)
	if err != nil {
		return input, nil, err
	}
	rest, player, item, err := owner(rest, " was enchanted with ", " gained a +")
	if err != nil {
		return input, nil, err
	}
	if r, e, err := twoBonuses(rest); err == nil {
		e.Player, e.Item, e.Compensatory = player, item, true
		return r, e, nil
	}
	rest, b, err := c.Terminated(bonus, c.Tag(" bonus."))(rest)
	if err != nil {
		return input, nil, err
	}
	return rest, Enchantment{Player: player, Item: item, Bonus: b, Compensatory: true}, nil
})

func recomposeRule(f model.Frame) c.Parser[Event] {
	delim := " was Recomposed using "
	if timeline.AfterRecompose(f.Timestamp) {
		delim = " was Recomposed into "
	}
	return c.Context("recompose", func(input string) (string, Event, error) {
		rest, previous, err := c.ParseTerminated(delim)(input)
		if err != nil {
			return input, nil, err
		}
		rest, next, err := sentenceName(rest)
		if err != nil {
			return input, nil, err
		}
		return rest, Recomposed{Previous: previous, New: next}, nil
	})
}

// sentenceName consumes the rest of the input as a name closed by ".".
func sentenceName(input string) (string, string, error) {
	name, ok := strings.CutSuffix(input, ".")
	if !ok || !c.IsName(name) {
		return c.Fail[string](input, "name ending the sentence")
	}
	return "", name, nil
}

var takeTheMoundRule = c.Context("take the mound", c.Map(
	c.Seq(c.ParseTerminated(" was moved to the mound. "), c.ParseTerminated(" was sent to the lineup.")),
	func(p c.Pair[string, string]) Event { return TakeTheMound{ToMound: p.First, ToLineup: p.Second} },
))

var takeThePlateRule = c.Context("take the plate", c.Map(
	c.Seq(c.ParseTerminated(" was sent to the plate. "), c.ParseTerminated(" was pulled from the lineup.")),
	func(p c.Pair[string, string]) Event { return TakeThePlate{ToPlate: p.First, FromLineup: p.Second} },
))

var swapPlacesRule = c.Context("swap places", c.Map(
	c.Seq(c.ParseTerminated(" swapped places with "), sentenceName),
	func(p c.Pair[string, string]) Event { return SwapPlaces{One: p.First, Two: p.Second} },
))

var releasedRule = c.Context("released", c.Map(c.Preceded(c.Tag("Released by the "), sentenceName),
	func(t string) Event { return Released{Team: t} }))

func skip[T any](p c.Parser[T], input string) (string, error) {
	rest, _, err := p(input)
	return rest, err
}

func playerGame(f model.Frame) c.Parser[Event] {
	rules := append(deliveries(), injuredRule(f), infusedRule, deflectedRule, retirementRule(true))
	return c.Alt(rules...)
}

func playerAugment(f model.Frame) c.Parser[Event] {
	rules := append([]c.Parser[Event]{attributeGainRule, modificationRule}, enchantments(f)...)
	rules = append(rules,
		attributeEqualRule(f),
		recomposeRule(f),
		takeTheMoundRule,
		takeThePlateRule,
		swapPlacesRule,
	)
	return c.Alt(rules...)
}

// playerRule picks the player feed grammar for kind. Lottery, maintenance
// and roster entries never appear on player feeds.
func playerRule(kind Kind, f model.Frame) c.Parser[Event] {
	switch kind {
	case KindGame:
		return playerGame(f)
	case KindAugment:
		return playerAugment(f)
	case KindRelease:
		return releasedRule
	case KindSeason:
		return retirementRule(false)
	}
	return nil
}
