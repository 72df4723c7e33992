package feed

import (
	"strings"

	c "github.com/okian/mmolbparse/internal/domain/combinator"
	"github.com/okian/mmolbparse/internal/domain/model"
	"github.com/okian/mmolbparse/internal/domain/types"
)

// The generic feed is the season 1 feed that predates the split into player
// and team feeds. Only game and augment entries exist there, and wording
// never depends on the moment.

// BaseEqual is one "became equal to their base" sentence.
type BaseEqual struct {
	Player       string          `json:"player"`
	Changing     types.Attribute `json:"changing_attribute"`
	Value        types.Attribute `json:"value_attribute"`
	LeadingSpace bool            `json:"leading_space,omitempty"`
}

// BaseEquals lists attribute resets from the generic feed.
type BaseEquals struct {
	Equals []BaseEqual `json:"equals"`
}

func (BaseEquals) Name() string { return "BaseEquals" }

func (e BaseEquals) Unparse(model.Frame) string {
	var b strings.Builder
	for _, q := range e.Equals {
		if q.LeadingSpace {
			b.WriteByte(' ')
		}
		b.WriteString(q.Player + "'s " + q.Changing.String() + " became equal to their base " + q.Value.String() + ".")
	}
	return b.String()
}

func init() {
	register(BaseEquals{})
}

func baseEqual(input string) (string, BaseEqual, error) {
	rest, lead, _ := c.Flag(c.Tag(" "))(input)
	rest, player, err := c.ParseTerminated("'s ")(rest)
	if err != nil {
		return input, BaseEqual{}, err
	}
	rest, changing, err := attribute(rest)
	if err != nil {
		return input, BaseEqual{}, err
	}
	rest, value, err := c.Delimited(c.Tag(" became equal to their base "), attribute, c.Tag("."))(rest)
	if err != nil {
		return input, BaseEqual{}, err
	}
	return rest, BaseEqual{Player: player, Changing: changing, Value: value, LeadingSpace: lead}, nil
}

var baseEqualsRule = c.Context("base equals", c.Map(c.Many1(baseEqual),
	func(qs []BaseEqual) Event { return BaseEquals{Equals: qs} }))

var roboRule = c.Context("robo", c.Map(c.ParseTerminated(" gained the ROBO Modification."),
	func(p string) Event { return Modification{Player: p, Gained: types.ModificationType("ROBO")} }))

func genericGame() c.Parser[Event] {
	return c.Alt(gameResultRule, deliveryRule("Delivery"))
}

func genericAugment() c.Parser[Event] {
	return c.Alt(
		attributeGainsRule,
		enchantmentS1A(PhrasingS1A),
		enchantmentS1B(PhrasingS1B),
		roboRule,
		takeTheMoundRule,
		takeThePlateRule,
		baseEqualsRule,
		swapPlacesRule,
	)
}

// genericRule picks the generic feed grammar for kind.
func genericRule(kind Kind) c.Parser[Event] {
	switch kind {
	case KindGame:
		return genericGame()
	case KindAugment:
		return genericAugment()
	}
	return nil
}
