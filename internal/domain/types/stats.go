package types

import (
	"strconv"
	"strings"
)

// StatKind is a box score column shown when a batter comes up.
type StatKind uint8

// Box score columns.
const (
	HitsForAtBats StatKind = iota + 1
	Singles
	Doubles
	Triples
	HomeRuns
	SacrificeFlies
	PopOuts
	LineOuts
	StrikeOuts
	ForceOuts
	BaseOnBalls
	HitByPitches
	GroundIntoDoublePlays
	CaughtDoublePlays
	FieldersChoices
	Fouls
)

var statKinds = newVocabulary("StatKind", map[StatKind]string{
	HitsForAtBats:         "for",
	Singles:               "1B",
	Doubles:               "2B",
	Triples:               "3B",
	HomeRuns:              "HR",
	SacrificeFlies:        "SF",
	PopOuts:               "PO",
	LineOuts:              "LO",
	StrikeOuts:            "SO",
	ForceOuts:             "FO",
	BaseOnBalls:           "BB",
	HitByPitches:          "HBP",
	GroundIntoDoublePlays: "GIDP",
	CaughtDoublePlays:     "CDP",
	FieldersChoices:       "FC",
	Fouls:                 "F",
})

func (k StatKind) String() string { return statKinds.name(k) }

func (k StatKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *StatKind) UnmarshalText(b []byte) error { return statKinds.unmarshal(k, b) }

// BatterStat is one entry of a "Now batting" box score. Hits and AtBats are
// only set for HitsForAtBats; Count is used by every other kind.
type BatterStat struct {
	Kind   StatKind `json:"kind"`
	Count  uint8    `json:"count,omitempty"`
	Hits   uint8    `json:"hits,omitempty"`
	AtBats uint8    `json:"at_bats,omitempty"`
}

func (s BatterStat) String() string {
	if s.Kind == HitsForAtBats {
		return itoa(s.Hits) + " for " + itoa(s.AtBats)
	}
	return itoa(s.Count) + " " + s.Kind.String()
}

// ParseBatterStat reads "2 for 3" or "1 HR".
func ParseBatterStat(s string) (BatterStat, bool) {
	head, tail, ok := strings.Cut(s, " ")
	if !ok {
		return BatterStat{}, false
	}
	n, err := strconv.ParseUint(head, 10, 8)
	if err != nil {
		return BatterStat{}, false
	}
	if ab, ok := strings.CutPrefix(tail, "for "); ok {
		m, err := strconv.ParseUint(ab, 10, 8)
		if err != nil {
			return BatterStat{}, false
		}
		return BatterStat{Kind: HitsForAtBats, Hits: uint8(n), AtBats: uint8(m)}, true
	}
	kind, ok := statKinds.lookup(tail)
	if !ok || kind == HitsForAtBats {
		return BatterStat{}, false
	}
	return BatterStat{Kind: kind, Count: uint8(n)}, true
}

func itoa[T uint8 | uint16 | uint32 | int16](n T) string {
	return strconv.FormatInt(int64(n), 10)
}
