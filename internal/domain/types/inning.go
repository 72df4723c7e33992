package types

// TopBottom is the half of an inning.
type TopBottom uint8

// Inning halves.
const (
	Top TopBottom = iota + 1
	Bottom
)

var halves = newVocabulary("TopBottom", map[TopBottom]string{Top: "top", Bottom: "bottom"})

func (t TopBottom) String() string { return halves.name(t) }

// Batting returns the side that bats in this half.
func (t TopBottom) Batting() HomeAway {
	if t == Top {
		return Away
	}
	return Home
}

// ParseTopBottom looks up "top" or "bottom".
func ParseTopBottom(s string) (TopBottom, bool) { return halves.lookup(s) }

func (t TopBottom) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *TopBottom) UnmarshalText(b []byte) error { return halves.unmarshal(t, b) }

// HomeAway identifies a side of a game.
type HomeAway uint8

// Sides.
const (
	Away HomeAway = iota + 1
	Home
)

var sides = newVocabulary("HomeAway", map[HomeAway]string{Away: "Away", Home: "Home"})

func (h HomeAway) String() string { return sides.name(h) }

// Flip returns the other side.
func (h HomeAway) Flip() HomeAway {
	if h == Home {
		return Away
	}
	return Home
}

// ParseHomeAway looks up "Home" or "Away".
func ParseHomeAway(s string) (HomeAway, bool) { return sides.lookup(s) }

func (h HomeAway) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

func (h *HomeAway) UnmarshalText(b []byte) error { return sides.unmarshal(h, b) }

// MoundVisitType distinguishes a visit from a pitching change.
type MoundVisitType uint8

// Mound visit kinds.
const (
	MoundVisit MoundVisitType = iota + 1
	PitchingChange
)

var moundVisits = newVocabulary("MoundVisitType", map[MoundVisitType]string{
	MoundVisit:     "mound visit",
	PitchingChange: "pitching change",
})

func (m MoundVisitType) String() string { return moundVisits.name(m) }

// ParseMoundVisitType looks up "mound visit" or "pitching change".
func ParseMoundVisitType(s string) (MoundVisitType, bool) { return moundVisits.lookup(s) }

func (m MoundVisitType) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *MoundVisitType) UnmarshalText(b []byte) error { return moundVisits.unmarshal(m, b) }

// Ordinal renders the inning number the way inning start messages do. They
// only special-case one through three.
func Ordinal(n uint8) string {
	switch n {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	}
	return itoa(n) + "th"
}

// EndOrdinal renders the inning number the way inning end messages do.
func EndOrdinal(n uint8) string {
	switch n {
	case 11, 12, 13:
		return itoa(n) + "th"
	}
	switch n % 10 {
	case 1:
		return itoa(n) + "st"
	case 2:
		return itoa(n) + "nd"
	case 3:
		return itoa(n) + "rd"
	}
	return itoa(n) + "th"
}

// OrdinalSuffixes are the suffixes either ordinal form may end in.
var OrdinalSuffixes = []string{"st", "nd", "rd", "th"}
