package model

import (
	"strconv"
	"strings"

	"github.com/okian/mmolbparse/internal/domain/types"
)

// EmojiTeam is a team the way messages print it: "🦊 Fox Valley Foxes".
type EmojiTeam struct {
	Emoji string `json:"emoji" yaml:"emoji"`
	Name  string `json:"name" yaml:"name"`
}

func (t EmojiTeam) String() string { return t.Emoji + " " + t.Name }

// IsZero reports whether neither emoji nor name is set.
func (t EmojiTeam) IsZero() bool { return t.Emoji == "" && t.Name == "" }

// ParseEmojiTeam splits "emoji name" at the first space.
func ParseEmojiTeam(s string) (EmojiTeam, bool) {
	emoji, name, ok := strings.Cut(s, " ")
	if !ok || emoji == "" || name == "" {
		return EmojiTeam{}, false
	}
	return EmojiTeam{Emoji: emoji, Name: name}, true
}

// PlacedPlayer is a player prefixed by their position: "SS Ellen Updog".
type PlacedPlayer struct {
	Name  string      `json:"name"`
	Place types.Place `json:"place"`
}

func (p PlacedPlayer) String() string { return p.Place.String() + " " + p.Name }

// RunnerOut is "Lance Green out at second base." in its original spelling.
type RunnerOut struct {
	Runner string                `json:"runner"`
	Base   types.BaseNameVariant `json:"base"`
}

func (o RunnerOut) String() string {
	return o.Runner + " out at " + o.Base.String() + "."
}

// RunnerAdvance is "Myra Roussel to third base.".
type RunnerAdvance struct {
	Runner string     `json:"runner"`
	Base   types.Base `json:"base"`
}

func (a RunnerAdvance) String() string {
	return a.Runner + " to " + a.Base.Long() + "."
}

// BaseSteal is a steal attempt tacked onto a pitch.
type BaseSteal struct {
	Runner string     `json:"runner"`
	Base   types.Base `json:"base"`
	Caught bool       `json:"caught,omitempty"`
}

func (s BaseSteal) String() string {
	switch {
	case s.Caught:
		return s.Runner + " is caught stealing " + s.Base.Long() + "."
	case s.Base == types.HomeBase:
		return "<strong>" + s.Runner + " steals home!</strong>"
	}
	return s.Runner + " steals " + s.Base.Long() + "!"
}

// Runners are the trailing score and advance sentences of a play. All
// scores print before all advances.
type Runners struct {
	Scores   []string        `json:"scores,omitempty"`
	Advances []RunnerAdvance `json:"advances,omitempty"`
}

// Render prints each runner with its leading space.
func (r Runners) Render() string {
	var b strings.Builder
	for _, s := range r.Scores {
		b.WriteString(" <strong>")
		b.WriteString(s)
		b.WriteString(" scores!</strong>")
	}
	for _, a := range r.Advances {
		b.WriteByte(' ')
		b.WriteString(a.String())
	}
	return b.String()
}

// RenderSteals prints steals with their leading spaces.
func RenderSteals(steals []BaseSteal) string {
	var b strings.Builder
	for _, s := range steals {
		b.WriteByte(' ')
		b.WriteString(s.String())
	}
	return b.String()
}

// Item is an item with its emoji. The name keeps any rarity or affix words
// verbatim.
type Item struct {
	Emoji string `json:"emoji"`
	Name  string `json:"name"`
}

func (i Item) String() string { return i.Emoji + " " + i.Name }

// ParseItem splits "emoji name" at the first space.
func ParseItem(s string) (Item, bool) {
	emoji, name, ok := strings.Cut(s, " ")
	if !ok || emoji == "" || name == "" || strings.ContainsAny(name, "<>") {
		return Item{}, false
	}
	return Item{Emoji: emoji, Name: name}, true
}

// Delivery is one item handed out by a Delivery, Shipment or Special
// Delivery. NoSpace deliveries only carry the item.
type Delivery struct {
	Team      EmojiTeam `json:"team,omitzero"`
	Player    string    `json:"player,omitempty"`
	Item      Item      `json:"item"`
	Equipped  bool      `json:"equipped,omitempty"`
	Discarded *Item     `json:"discarded,omitempty"`
	NoSpace   bool      `json:"no_space,omitempty"`
}

// Render prints the delivery with the given label ("Delivery", "Shipment"
// or "Special Delivery").
func (d Delivery) Render(f Frame, label string) string {
	if d.NoSpace {
		return d.Item.String() + f.NoSpaceText()
	}
	var b strings.Builder
	b.WriteString(d.Team.String())
	if d.Player != "" {
		b.WriteByte(' ')
		b.WriteString(d.Player)
	}
	if d.Equipped {
		b.WriteString(" equips ")
	} else {
		b.WriteString(f.ReceivedText())
	}
	b.WriteString(d.Item.String())
	b.WriteByte(' ')
	if d.Equipped {
		b.WriteString("from ")
	}
	b.WriteString(label)
	b.WriteByte('.')
	if d.Discarded != nil {
		b.WriteString(f.DiscardedText())
		b.WriteString(d.Discarded.String())
		b.WriteByte('.')
	}
	return b.String()
}

// SnappedPhotos is the aurora flourish two players share.
type SnappedPhotos struct {
	FirstEmoji  string       `json:"first_emoji"`
	First       PlacedPlayer `json:"first"`
	SecondEmoji string       `json:"second_emoji"`
	Second      PlacedPlayer `json:"second"`
}

// Render prints the photos with their leading space.
func (p SnappedPhotos) Render() string {
	return " The Geomagnetic Storms Intensify! " + p.FirstEmoji + " " + p.First.String() +
		" and " + p.SecondEmoji + " " + p.Second.String() + " snapped photos of the aurora."
}

// Ejection is a ROBO-UMP ejection or a failed attempt at one. A failed
// attempt only sets Holdouts.
type Ejection struct {
	Failed    bool                 `json:"failed,omitempty"`
	Holdouts  [2]string            `json:"holdouts,omitzero"`
	Team      EmojiTeam            `json:"team,omitzero"`
	Ejected   PlacedPlayer         `json:"ejected,omitzero"`
	Violation types.ViolationType  `json:"violation,omitempty"`
	Reason    types.EjectionReason `json:"reason,omitempty"`
	// Exactly one replacement is set on a successful ejection.
	BenchPlayer  string        `json:"bench_player,omitempty"`
	RosterPlayer *PlacedPlayer `json:"roster_player,omitempty"`
}

// Render prints the ejection with its leading space.
func (e Ejection) Render() string {
	if e.Failed {
		return " 🤖 ROBO-UMP attempted an ejection, but " + e.Holdouts[0] + ", " + e.Holdouts[1] + " would not budge."
	}
	return " 🤖 ROBO-UMP ejected " + e.Tail()
}

// Tail is everything after "ROBO-UMP ejected ".
func (e Ejection) Tail() string {
	head := e.Team.String() + " " + e.Ejected.String() + " for a " + string(e.Violation) +
		" Violation (" + string(e.Reason) + "). "
	if e.RosterPlayer != nil {
		return head + e.Team.Emoji + " " + e.RosterPlayer.String() + " takes the mound."
	}
	return head + "Bench Player " + e.BenchPlayer + " takes their place."
}

// Unrecognized lists the open vocabulary words the ejection used that are
// not known yet.
func (e Ejection) Unrecognized() []string {
	if e.Failed {
		return nil
	}
	var out []string
	if !e.Violation.Recognized() {
		out = append(out, "violation "+strconv.Quote(string(e.Violation)))
	}
	if !e.Reason.Recognized() {
		out = append(out, "ejection reason "+strconv.Quote(string(e.Reason)))
	}
	return out
}

// EquipKind says what happened to a door prize item.
type EquipKind string

// Door prize item outcomes.
const (
	EquipNone      EquipKind = ""
	EquipDiscarded EquipKind = "discarded"
	EquipEquipped  EquipKind = "equipped"
)

// ItemPrize is one item of a door prize.
type ItemPrize struct {
	Item      Item      `json:"item"`
	Equip     EquipKind `json:"equip,omitempty"`
	Player    string    `json:"player,omitempty"`
	Discarded *Item     `json:"discarded,omitempty"`
}

func (p ItemPrize) String() string {
	switch p.Equip {
	case EquipDiscarded:
		return p.Item.String() + " is discarded; nobody can use it"
	case EquipEquipped:
		s := p.Player + " equips " + p.Item.String() + " from the Door Prize"
		if p.Discarded != nil {
			s += ". They discard their " + p.Discarded.String()
		}
		return s
	}
	return p.Item.String()
}

// Prize is either tokens or a list of items.
type Prize struct {
	Tokens uint16      `json:"tokens,omitempty"`
	Items  []ItemPrize `json:"items,omitempty"`
}

func (p Prize) anyEquip() bool {
	for _, it := range p.Items {
		if it.Equip != EquipNone {
			return true
		}
	}
	return false
}

func (p Prize) String() string {
	if len(p.Items) == 0 {
		return strconv.FormatUint(uint64(p.Tokens), 10) + " 🪙"
	}
	sep := ", "
	if p.anyEquip() {
		sep = ". "
	}
	parts := make([]string, len(p.Items))
	for i, it := range p.Items {
		parts[i] = it.String()
	}
	return strings.Join(parts, sep)
}

// DoorPrize is one "🥳" line. Prize is nil when the player won nothing.
type DoorPrize struct {
	Player string `json:"player"`
	Prize  *Prize `json:"prize,omitempty"`
}

func (d DoorPrize) String() string {
	if d.Prize == nil {
		return "🥳 " + d.Player + " didn't win a Door Prize."
	}
	punct := ":"
	if d.Prize.anyEquip() {
		punct = "!"
	}
	return "🥳 " + d.Player + " won a Door Prize" + punct + " " + d.Prize.String() + "."
}

// RenderDoorPrizes prints each prize on its own line.
func RenderDoorPrizes(prizes []DoorPrize) string {
	var b strings.Builder
	for _, p := range prizes {
		b.WriteString("<br>")
		b.WriteString(p.String())
	}
	return b.String()
}

// PartyDurabilityLoss is the closing sentence of a party. Protected is empty
// when both players lost durability.
type PartyDurabilityLoss struct {
	Amount      uint8  `json:"amount"`
	Protected   string `json:"protected,omitempty"`
	Unprotected string `json:"unprotected,omitempty"`
}

func (l PartyDurabilityLoss) String() string {
	n := strconv.FormatUint(uint64(l.Amount), 10)
	if l.Protected == "" {
		return "Both players lose " + n + " Durability."
	}
	return l.Unprotected + " loses " + n + " Durability, but " + l.Protected +
		"'s Prolific Greater Boon protects them from harm."
}

// Partying is a Party: both players gain an attribute and lose durability.
type Partying struct {
	Pitcher          string              `json:"pitcher"`
	PitcherAmount    uint8               `json:"pitcher_amount"`
	PitcherAttribute types.Attribute     `json:"pitcher_attribute"`
	Batter           string              `json:"batter"`
	BatterAmount     uint8               `json:"batter_amount"`
	BatterAttribute  types.Attribute     `json:"batter_attribute"`
	Durability       PartyDurabilityLoss `json:"durability"`
}

func (p Partying) String() string {
	return "<strong>🥳 " + p.Pitcher + " and " + p.Batter + " are Partying!</strong> " +
		p.Pitcher + " gained +" + strconv.FormatUint(uint64(p.PitcherAmount), 10) + " " + p.PitcherAttribute.String() + ". " +
		p.Batter + " gained +" + strconv.FormatUint(uint64(p.BatterAmount), 10) + " " + p.BatterAttribute.String() + ". " +
		p.Durability.String()
}

// FeedDelivery is a delivery as a player or team feed words it. Feeds never
// changed tense.
type FeedDelivery struct {
	Player    string `json:"player"`
	Item      Item   `json:"item"`
	Discarded *Item  `json:"discarded,omitempty"`
}

// Render prints the delivery with the given label.
func (d FeedDelivery) Render(label string) string {
	s := d.Player + " received a " + d.Item.String() + " " + label + "."
	if d.Discarded != nil {
		s += " They discarded their " + d.Discarded.String() + "."
	}
	return s
}
