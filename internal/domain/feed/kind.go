package feed

import (
	"fmt"

	"github.com/okian/mmolbparse/internal/domain/model"
)

// Kind is the type tag of a feed entry.
type Kind uint8

// Feed kinds.
const (
	KindUnrecognized Kind = iota
	KindGame
	KindAugment
	KindRelease
	KindSeason
	KindLottery
	KindMaintenance
	KindRoster
)

var kindNames = [...]string{
	KindUnrecognized: "Unrecognized",
	KindGame:         "Game",
	KindAugment:      "Augment",
	KindRelease:      "Release",
	KindSeason:       "Season",
	KindLottery:      "Lottery",
	KindMaintenance:  "Maintenance",
	KindRoster:       "Roster",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind maps a feed tag to its kind.
func ParseKind(s string) (Kind, error) {
	for k := KindGame; int(k) < len(kindNames); k++ {
		if kindNames[k] == s {
			return k, nil
		}
	}
	return KindUnrecognized, fmt.Errorf("feed kind %q: %w", s, model.ErrUnknownKind)
}

// Kinds lists every recognized kind.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames)-1)
	for k := KindGame; int(k) < len(kindNames); k++ {
		out = append(out, k)
	}
	return out
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
