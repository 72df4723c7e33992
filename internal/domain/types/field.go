package types

import (
	"strconv"
	"strings"
)

// Position is a fielding or roster position.
type Position uint8

// Positions.
const (
	Pitcher Position = iota + 1
	Catcher
	FirstBaseman
	SecondBaseman
	ThirdBaseman
	ShortStop
	LeftField
	CenterField
	RightField
	StartingPitcher
	ReliefPitcher
	Closer
	DesignatedHitter
)

var positions = newVocabulary("Position", map[Position]string{
	Pitcher:          "P",
	Catcher:          "C",
	FirstBaseman:     "1B",
	SecondBaseman:    "2B",
	ThirdBaseman:     "3B",
	ShortStop:        "SS",
	LeftField:        "LF",
	CenterField:      "CF",
	RightField:       "RF",
	StartingPitcher:  "SP",
	ReliefPitcher:    "RP",
	Closer:           "CL",
	DesignatedHitter: "DH",
})

func (p Position) String() string { return positions.name(p) }

// Place is a position with the optional rotation number starting and relief
// pitchers carry ("SP2").
type Place struct {
	Position Position
	Number   uint8
}

// PlaceOf returns an unnumbered place.
func PlaceOf(p Position) Place { return Place{Position: p} }

func (p Place) String() string {
	if p.Number == 0 {
		return p.Position.String()
	}
	return p.Position.String() + strconv.Itoa(int(p.Number))
}

// ParsePlace looks up "SS", "SP", "RP3" and the like.
func ParsePlace(s string) (Place, bool) {
	if pos, ok := positions.lookup(s); ok {
		return Place{Position: pos}, true
	}
	for _, pos := range []Position{StartingPitcher, ReliefPitcher} {
		rest, ok := strings.CutPrefix(s, pos.String())
		if !ok || rest == "" || rest[0] == '0' {
			continue
		}
		n, err := strconv.ParseUint(rest, 10, 8)
		if err == nil {
			return Place{Position: pos, Number: uint8(n)}, true
		}
	}
	return Place{}, false
}

func (p Place) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Place) UnmarshalText(b []byte) error {
	v, ok := ParsePlace(string(b))
	if !ok {
		return wordError("Place", b)
	}
	*p = v
	return nil
}

// FairBallDestination is where a batted ball goes.
type FairBallDestination uint8

// Destinations.
const (
	ToShortStop FairBallDestination = iota + 1
	ToCatcher
	ToPitcher
	ToFirstBase
	ToSecondBase
	ToThirdBase
	ToLeftField
	ToCenterField
	ToRightField
)

var destinations = newVocabulary("FairBallDestination", map[FairBallDestination]string{
	ToShortStop:   "the shortstop",
	ToCatcher:     "the catcher",
	ToPitcher:     "the pitcher",
	ToFirstBase:   "first base",
	ToSecondBase:  "second base",
	ToThirdBase:   "third base",
	ToLeftField:   "left field",
	ToCenterField: "center field",
	ToRightField:  "right field",
})

func (d FairBallDestination) String() string { return destinations.name(d) }

// ParseFairBallDestination looks up a destination phrase.
func ParseFairBallDestination(s string) (FairBallDestination, bool) { return destinations.lookup(s) }

func (d FairBallDestination) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *FairBallDestination) UnmarshalText(b []byte) error { return destinations.unmarshal(d, b) }

// FairBallType is the kind of batted ball.
type FairBallType uint8

// Batted ball kinds.
const (
	GroundBall FairBallType = iota + 1
	FlyBall
	LineDrive
	Popup
)

var fairBallTypes = newVocabulary("FairBallType", map[FairBallType]string{
	GroundBall: "ground ball",
	FlyBall:    "fly ball",
	LineDrive:  "line drive",
	Popup:      "popup",
})

var fairBallVerbs = newVocabulary("FairBallVerb", map[FairBallType]string{
	GroundBall: "grounds",
	FlyBall:    "flies",
	LineDrive:  "lines",
	Popup:      "pops",
})

func (t FairBallType) String() string { return fairBallTypes.name(t) }

// Verb is the third-person verb used in out messages ("flies out").
func (t FairBallType) Verb() string { return fairBallVerbs.name(t) }

// ParseFairBallType looks up "ground ball" and the like.
func ParseFairBallType(s string) (FairBallType, bool) { return fairBallTypes.lookup(s) }

// ParseFairBallVerb looks up "grounds" and the like.
func ParseFairBallVerb(s string) (FairBallType, bool) { return fairBallVerbs.lookup(s) }

func (t FairBallType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *FairBallType) UnmarshalText(b []byte) error { return fairBallTypes.unmarshal(t, b) }

// StrikeType is how a strike was thrown past the batter.
type StrikeType uint8

// Strike kinds.
const (
	Looking StrikeType = iota + 1
	Swinging
)

var strikeTypes = newVocabulary("StrikeType", map[StrikeType]string{Looking: "looking", Swinging: "swinging"})

func (t StrikeType) String() string { return strikeTypes.name(t) }

// ParseStrikeType looks up "looking" or "swinging".
func ParseStrikeType(s string) (StrikeType, bool) { return strikeTypes.lookup(s) }

func (t StrikeType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *StrikeType) UnmarshalText(b []byte) error { return strikeTypes.unmarshal(t, b) }

// FoulType distinguishes foul tips from foul balls.
type FoulType uint8

// Foul kinds.
const (
	FoulTip FoulType = iota + 1
	FoulBall
)

var foulTypes = newVocabulary("FoulType", map[FoulType]string{FoulTip: "tip", FoulBall: "ball"})

func (t FoulType) String() string { return foulTypes.name(t) }

// ParseFoulType looks up "tip" or "ball".
func ParseFoulType(s string) (FoulType, bool) { return foulTypes.lookup(s) }

func (t FoulType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *FoulType) UnmarshalText(b []byte) error { return foulTypes.unmarshal(t, b) }

// FieldingErrorType is the kind of error charged to a fielder.
type FieldingErrorType uint8

// Fielding error kinds.
const (
	Throwing FieldingErrorType = iota + 1
	Fielding
)

var fieldingErrors = newVocabulary("FieldingErrorType", map[FieldingErrorType]string{Throwing: "Throwing", Fielding: "Fielding"})

func (t FieldingErrorType) String() string { return fieldingErrors.name(t) }

// Lower renders "throwing"; Upper renders "THROWING".
func (t FieldingErrorType) Lower() string { return strings.ToLower(t.String()) }

func (t FieldingErrorType) Upper() string { return strings.ToUpper(t.String()) }

// ParseFieldingErrorType matches case-insensitively.
func ParseFieldingErrorType(s string) (FieldingErrorType, bool) {
	for t, name := range fieldingErrors.names {
		if strings.EqualFold(name, s) {
			return t, true
		}
	}
	return 0, false
}

func (t FieldingErrorType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *FieldingErrorType) UnmarshalText(b []byte) error { return fieldingErrors.unmarshal(t, b) }

// Base is one of the four bases.
type Base uint8

// Bases.
const (
	HomeBase Base = iota + 1
	FirstBase
	SecondBase
	ThirdBase
)

var bases = newVocabulary("Base", map[Base]string{HomeBase: "home", FirstBase: "first", SecondBase: "second", ThirdBase: "third"})

func (b Base) String() string { return bases.name(b) }

// Long renders "first base", except home which stays "home".
func (b Base) Long() string {
	if b == HomeBase {
		return "home"
	}
	return b.String() + " base"
}

// ParseBase looks up a base word.
func ParseBase(s string) (Base, bool) { return bases.lookup(s) }

// ParseLongBase is the inverse of Base.Long.
func ParseLongBase(s string) (Base, bool) {
	if s == "home" {
		return HomeBase, true
	}
	short, ok := strings.CutSuffix(s, " base")
	if !ok || short == "home" {
		return 0, false
	}
	return bases.lookup(short)
}

func (b Base) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *Base) UnmarshalText(text []byte) error { return bases.unmarshal(b, text) }

// BaseNameVariant preserves which spelling of a base an out message used.
type BaseNameVariant uint8

// Base spellings.
const (
	BaseFirst BaseNameVariant = iota + 1
	BaseFirstBase
	BaseOneB
	BaseSecond
	BaseSecondBase
	BaseTwoB
	BaseThird
	BaseThirdBase
	BaseThreeB
	BaseHome
)

var baseNames = newVocabulary("BaseNameVariant", map[BaseNameVariant]string{
	BaseFirst:      "first",
	BaseFirstBase:  "first base",
	BaseOneB:       "1B",
	BaseSecond:     "second",
	BaseSecondBase: "second base",
	BaseTwoB:       "2B",
	BaseThird:      "third",
	BaseThirdBase:  "third base",
	BaseThreeB:     "3B",
	BaseHome:       "home",
})

func (v BaseNameVariant) String() string { return baseNames.name(v) }

// Base returns the base this spelling names.
func (v BaseNameVariant) Base() Base {
	switch v {
	case BaseFirst, BaseFirstBase, BaseOneB:
		return FirstBase
	case BaseSecond, BaseSecondBase, BaseTwoB:
		return SecondBase
	case BaseThird, BaseThirdBase, BaseThreeB:
		return ThirdBase
	}
	return HomeBase
}

// ParseBaseNameVariant looks up a base spelling.
func ParseBaseNameVariant(s string) (BaseNameVariant, bool) { return baseNames.lookup(s) }

func (v BaseNameVariant) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *BaseNameVariant) UnmarshalText(b []byte) error { return baseNames.unmarshal(v, b) }

// Distance is how far a batter ran on a hit.
type Distance uint8

// Hit distances.
const (
	Single Distance = iota + 1
	Double
	Triple
)

var distances = newVocabulary("Distance", map[Distance]string{Single: "singles", Double: "doubles", Triple: "triples"})

func (d Distance) String() string { return distances.name(d) }

// ParseDistance looks up "singles", "doubles" or "triples".
func ParseDistance(s string) (Distance, bool) { return distances.lookup(s) }

func (d Distance) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Distance) UnmarshalText(b []byte) error { return distances.unmarshal(d, b) }

func wordError(kind string, b []byte) error {
	return &unknownWord{kind: kind, word: string(b)}
}

type unknownWord struct{ kind, word string }

func (e *unknownWord) Error() string { return ErrUnknownWord.Error() + ": " + e.kind + " " + strconv.Quote(e.word) }

func (e *unknownWord) Unwrap() error { return ErrUnknownWord }
