// Package timeline orders seasons, days and event indexes onto one scale and
// answers which side of a historical wording change a moment falls on.
package timeline

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DayKind discriminates the variants of Day.
type DayKind uint8

// Day kinds.
const (
	KindNumbered DayKind = iota
	KindPreseason
	KindSuperstarBreak
	KindSuperstarDay
	KindSuperstarGame
	KindPostseasonPreview
	KindPostseasonRound
	KindElection
	KindHoliday
	KindEvent
	KindSpecialEvent
	KindOffseason
)

// Day is a day designator: a numbered regular-season day or a named period.
// N carries the day number, superstar day or postseason round where relevant.
type Day struct {
	Kind DayKind
	N    uint16
}

// Named periods that carry no number.
var (
	Preseason         = Day{Kind: KindPreseason}
	SuperstarBreak    = Day{Kind: KindSuperstarBreak}
	SuperstarGame     = Day{Kind: KindSuperstarGame}
	PostseasonPreview = Day{Kind: KindPostseasonPreview}
	Election          = Day{Kind: KindElection}
	Holiday           = Day{Kind: KindHoliday}
	Event             = Day{Kind: KindEvent}
	SpecialEvent      = Day{Kind: KindSpecialEvent}
	Offseason         = Day{Kind: KindOffseason}
)

// NumberedDay returns regular-season day n.
func NumberedDay(n uint16) Day { return Day{Kind: KindNumbered, N: n} }

// SuperstarDay returns superstar day n.
func SuperstarDay(n uint8) Day { return Day{Kind: KindSuperstarDay, N: uint16(n)} }

// PostseasonRound returns postseason round n.
func PostseasonRound(n uint8) Day { return Day{Kind: KindPostseasonRound, N: uint16(n)} }

var namedDays = map[DayKind]string{
	KindPreseason:         "Preseason",
	KindSuperstarBreak:    "Superstar Break",
	KindSuperstarGame:     "Superstar Game",
	KindPostseasonPreview: "Postseason Preview",
	KindElection:          "Election",
	KindHoliday:           "Holiday",
	KindEvent:             "Event",
	KindSpecialEvent:      "Special Event",
	KindOffseason:         "Offseason",
}

// String renders the day the way the upstream API spells it.
func (d Day) String() string {
	switch d.Kind {
	case KindNumbered:
		return strconv.Itoa(int(d.N))
	case KindSuperstarDay:
		return fmt.Sprintf("Superstar Day %d", d.N)
	case KindPostseasonRound:
		return fmt.Sprintf("Postseason Round %d", d.N)
	}
	if name, ok := namedDays[d.Kind]; ok {
		return name
	}
	return fmt.Sprintf("DayKind(%d)", d.Kind)
}

// ParseDay is the inverse of Day.String.
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseUint(s, 10, 16); err == nil {
		return NumberedDay(uint16(n)), nil
	}
	for prefix, build := range map[string]func(uint8) Day{
		"Superstar Day ":    SuperstarDay,
		"Postseason Round ": PostseasonRound,
	} {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			n, err := strconv.ParseUint(rest, 10, 8)
			if err != nil {
				return Day{}, fmt.Errorf("%w: %q", ErrUnknownDay, s)
			}
			return build(uint8(n)), nil
		}
	}
	for kind, name := range namedDays {
		if name == s {
			return Day{Kind: kind}, nil
		}
	}
	return Day{}, fmt.Errorf("%w: %q", ErrUnknownDay, s)
}

// MarshalJSON writes numbered days as numbers and named periods as strings.
func (d Day) MarshalJSON() ([]byte, error) {
	if d.Kind == KindNumbered {
		return []byte(strconv.Itoa(int(d.N))), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a number or one of the named period strings.
func (d *Day) UnmarshalJSON(b []byte) error {
	var n uint16
	if err := json.Unmarshal(b, &n); err == nil {
		*d = NumberedDay(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownDay, b)
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// UnmarshalText lets YAML fixtures and query strings carry days as plain scalars.
func (d *Day) UnmarshalText(b []byte) error {
	parsed, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalText mirrors UnmarshalText.
func (d Day) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// DayEquivalent places every Day onto one linear scale, ordered by Day then Offset.
type DayEquivalent struct {
	Day    uint16
	Offset uint8
}

// Equivalent maps d onto the linear scale.
func (d Day) Equivalent() DayEquivalent {
	switch d.Kind {
	case KindNumbered:
		return DayEquivalent{Day: d.N}
	case KindSuperstarBreak:
		return DayEquivalent{Day: 120, Offset: 255}
	case KindSuperstarDay:
		return DayEquivalent{Day: 120, Offset: uint8(d.N) + 1}
	case KindSuperstarGame:
		return DayEquivalent{Day: 120, Offset: 1}
	case KindPostseasonPreview:
		return DayEquivalent{Day: 254}
	case KindPostseasonRound:
		return DayEquivalent{Day: 254, Offset: uint8(d.N)}
	case KindPreseason:
		return DayEquivalent{}
	case KindElection:
		return DayEquivalent{Day: 255, Offset: 1}
	default:
		// holiday, event, special event and offseason share the end of the season
		return DayEquivalent{Day: 255, Offset: 2}
	}
}

// Compare returns -1, 0 or 1 as a sorts before, with or after b.
func Compare(a, b DayEquivalent) int {
	switch {
	case a.Day < b.Day:
		return -1
	case a.Day > b.Day:
		return 1
	case a.Offset < b.Offset:
		return -1
	case a.Offset > b.Offset:
		return 1
	}
	return 0
}

// IsSuperstarGame reports whether day is the superstar game proper, which
// upstream files under superstar day 2.
func IsSuperstarGame(day *Day) bool {
	return day != nil && *day == SuperstarDay(2)
}
