package timeline

import (
	"fmt"
	"time"
)

// Breakpoint names a moment at which upstream changed the wording of some message.
type Breakpoint uint8

// Known breakpoints. SeasonStart builds the generic "start of season n" one.
const (
	Season1EnchantmentChange Breakpoint = iota + 1
	S1AttributeEqualChange
	S2D152
	S2D169
	Season3
	CheersGetEmoji
	Season3PreSuperstarBreakUpdate
	EternalBattle
	Season5TenseChange
	Season7WitherTenseChange
	Season7SuccessfulContainPeriodFix
	Season8ItemDiscardedMessageChange
	Season10
)

var breakpointNames = map[Breakpoint]string{
	Season1EnchantmentChange:          "Season1EnchantmentChange",
	S1AttributeEqualChange:            "S1AttributeEqualChange",
	S2D152:                            "S2D152",
	S2D169:                            "S2D169",
	Season3:                           "Season3",
	CheersGetEmoji:                    "CheersGetEmoji",
	Season3PreSuperstarBreakUpdate:    "Season3PreSuperstarBreakUpdate",
	EternalBattle:                     "EternalBattle",
	Season5TenseChange:                "Season5TenseChange",
	Season7WitherTenseChange:          "Season7WitherTenseChange",
	Season7SuccessfulContainPeriodFix: "Season7SuccessfulContainPeriodFix",
	Season8ItemDiscardedMessageChange: "Season8ItemDiscardedMessageChange",
	Season10:                          "Season10",
}

func (b Breakpoint) String() string {
	if name, ok := breakpointNames[b]; ok {
		return name
	}
	return fmt.Sprintf("Breakpoint(%d)", b)
}

// Season3RecomposeChange is the instant the recompose message switched from
// "using" to "into". Feed timestamps strictly after it use the new wording.
var Season3RecomposeChange = time.Date(2025, time.July, 14, 11, 30, 0, 0, time.UTC)

// AfterRecompose reports whether ts uses the post-change recompose wording.
func AfterRecompose(ts time.Time) bool {
	return ts.After(Season3RecomposeChange)
}

// GuardPoint is a day position plus the first event index that counts as
// being on or after it.
type GuardPoint struct {
	Day   DayEquivalent
	Index uint16
}

// Point describes where a breakpoint falls: a season and ascending guard points
// within it.
type Point struct {
	Season uint32
	Points []GuardPoint
}

// SeasonStart returns the point at the very start of season n.
func SeasonStart(n uint32) Point {
	return Point{Season: n, Points: []GuardPoint{{}}}
}

// Before reports whether (season, day, index) precedes p.
func (p Point) Before(season uint32, day *Day, index *uint16) bool {
	switch {
	case season < p.Season:
		return true
	case season > p.Season:
		return false
	case day == nil:
		// an unknown day in the breakpoint's own season counts as late
		return false
	}
	idx := uint16(0)
	if index != nil {
		idx = *index
	}
	eq := day.Equivalent()
	for _, gp := range p.Points {
		switch Compare(eq, gp.Day) {
		case 1:
			continue
		case 0:
			return idx < gp.Index
		default:
			return true
		}
	}
	return false
}

// Table maps breakpoints to points. The zero value is empty; use Default for
// the canonical table.
type Table struct {
	points map[Breakpoint]Point
}

// Option configures a Table.
type Option func(*Table)

// WithPoint overrides or adds the point for b.
func WithPoint(b Breakpoint, p Point) Option {
	return func(t *Table) {
		t.points[b] = p
	}
}

func guard(day, offset uint16, idx uint16) GuardPoint {
	return GuardPoint{Day: DayEquivalent{Day: day, Offset: uint8(offset)}, Index: idx}
}

// NewTable returns the canonical table with opts applied on top.
func NewTable(opts ...Option) *Table {
	t := &Table{points: map[Breakpoint]Point{
		Season1EnchantmentChange:          {Season: 1, Points: []GuardPoint{guard(120, 255, 0)}},
		S1AttributeEqualChange:            {Season: 1, Points: []GuardPoint{guard(215, 0, 0)}},
		S2D152:                            {Season: 2, Points: []GuardPoint{guard(152, 0, 70)}},
		S2D169:                            {Season: 2, Points: []GuardPoint{guard(168, 0, 584), guard(169, 0, 94)}},
		Season3:                           SeasonStart(3),
		CheersGetEmoji:                    {Season: 3, Points: []GuardPoint{guard(5, 0, 330)}},
		Season3PreSuperstarBreakUpdate:    {Season: 3, Points: []GuardPoint{guard(112, 0, 0)}},
		EternalBattle:                     {Season: 2, Points: []GuardPoint{guard(255, 0, 0)}},
		Season5TenseChange:                {Season: 5, Points: []GuardPoint{guard(863, 0, 0)}},
		Season7WitherTenseChange:          SeasonStart(7),
		Season7SuccessfulContainPeriodFix: {Season: 7, Points: []GuardPoint{guard(46, 0, 24)}},
		Season8ItemDiscardedMessageChange: SeasonStart(8),
		Season10:                          SeasonStart(10),
	}}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var defaultTable = NewTable()

// Default returns the shared canonical table.
func Default() *Table { return defaultTable }

// Point returns the point registered for b.
func (t *Table) Point(b Breakpoint) (Point, bool) {
	if t == nil {
		t = defaultTable
	}
	p, ok := t.points[b]
	return p, ok
}

// Before reports whether m precedes breakpoint b. Unknown breakpoints are
// treated as never reached.
func (t *Table) Before(b Breakpoint, m Moment) bool {
	p, ok := t.Point(b)
	if !ok {
		return true
	}
	return p.Before(m.Season, m.Day, m.Index)
}

// After is the complement of Before: on or after b.
func (t *Table) After(b Breakpoint, m Moment) bool {
	return !t.Before(b, m)
}

// BeforeSeason reports whether m precedes the start of season n.
func (t *Table) BeforeSeason(n uint32, m Moment) bool {
	return SeasonStart(n).Before(m.Season, m.Day, m.Index)
}

// Before checks m against the default table.
func Before(b Breakpoint, m Moment) bool { return defaultTable.Before(b, m) }

// After checks m against the default table.
func After(b Breakpoint, m Moment) bool { return defaultTable.After(b, m) }
