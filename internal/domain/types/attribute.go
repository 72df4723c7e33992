package types

// Attribute is a player attribute name.
type Attribute uint8

// Attributes.
const (
	Accuracy Attribute = iota + 1
	Acrobatics
	Agility
	Aiming
	Arm
	Awareness
	Composure
	Contact
	Control
	Cunning
	Defiance
	Determination
	Dexterity
	Discipline
	Greed
	Guts
	Insight
	Intimidation
	Lift
	Muscle
	Patience
	Performance
	Persuasion
	Presence
	Reaction
	Rotation
	Selflessness
	Speed
	Stamina
	Stealth
	Stuff
	Velocity
	Vision
	Wisdom
	Luck
	Priority
)

var attributes = newVocabulary("Attribute", map[Attribute]string{
	Accuracy:      "Accuracy",
	Acrobatics:    "Acrobatics",
	Agility:       "Agility",
	Aiming:        "Aiming",
	Arm:           "Arm",
	Awareness:     "Awareness",
	Composure:     "Composure",
	Contact:       "Contact",
	Control:       "Control",
	Cunning:       "Cunning",
	Defiance:      "Defiance",
	Determination: "Determination",
	Dexterity:     "Dexterity",
	Discipline:    "Discipline",
	Greed:         "Greed",
	Guts:          "Guts",
	Insight:       "Insight",
	Intimidation:  "Intimidation",
	Lift:          "Lift",
	Muscle:        "Muscle",
	Patience:      "Patience",
	Performance:   "Performance",
	Persuasion:    "Persuasion",
	Presence:      "Presence",
	Reaction:      "Reaction",
	Rotation:      "Rotation",
	Selflessness:  "Selflessness",
	Speed:         "Speed",
	Stamina:       "Stamina",
	Stealth:       "Stealth",
	Stuff:         "Stuff",
	Velocity:      "Velocity",
	Vision:        "Vision",
	Wisdom:        "Wisdom",
	Luck:          "Luck",
	Priority:      "Priority",
})

func (a Attribute) String() string { return attributes.name(a) }

// ParseAttribute looks up an attribute by its exact name.
func ParseAttribute(s string) (Attribute, bool) { return attributes.lookup(s) }

func (a Attribute) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Attribute) UnmarshalText(b []byte) error { return attributes.unmarshal(a, b) }

// CelestialEnergyTier is the strength of a Falling Star infusion.
type CelestialEnergyTier uint8

// Infusion tiers.
const (
	BeganToGlow CelestialEnergyTier = iota + 1
	Infused
	FullyCharged
)

var celestialTiers = newVocabulary("CelestialEnergyTier", map[CelestialEnergyTier]string{
	BeganToGlow:  "BeganToGlow",
	Infused:      "Infused",
	FullyCharged: "FullyCharged",
})

func (c CelestialEnergyTier) String() string { return celestialTiers.name(c) }

func (c CelestialEnergyTier) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *CelestialEnergyTier) UnmarshalText(b []byte) error { return celestialTiers.unmarshal(c, b) }

var celestialPhrases = newVocabulary("CelestialEnergyPhrase", map[CelestialEnergyTier]string{
	BeganToGlow:  "began to glow brightly with celestial energy!",
	Infused:      "was infused with a glimmer of celestial energy!",
	FullyCharged: "was fully charged with an abundance of celestial energy!",
})

// Phrase is the feed sentence tail for the tier, after the player name.
func (c CelestialEnergyTier) Phrase() string { return celestialPhrases.name(c) }

// CelestialEnergyTiers lists the tiers in the order feeds are matched.
var CelestialEnergyTiers = []CelestialEnergyTier{BeganToGlow, Infused, FullyCharged}
