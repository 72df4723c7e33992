package game

import (
	"strconv"

	c "github.com/okian/mmolbparse/internal/domain/combinator"
	"github.com/okian/mmolbparse/internal/domain/types"
)

var (
	fairBallType  = c.TryFromWordsMN(1, 2, "fair ball type", types.ParseFairBallType)
	fairBallVerb  = c.TryFromWord("fair ball verb", types.ParseFairBallVerb)
	destination   = c.TryFromWordsMN(2, 2, "destination", types.ParseFairBallDestination)
	strikeType    = c.TryFromWord("strike type", types.ParseStrikeType)
	foulType      = c.TryFromWord("foul type", types.ParseFoulType)
	distance      = c.TryFromWord("distance", types.ParseDistance)
	topBottom     = c.TryFromWord("inning half", types.ParseTopBottom)
	fieldingError = c.TryFromWord("fielding error", types.ParseFieldingErrorType)
)

// Count is the balls and strikes after a pitch.
type Count struct {
	Balls   uint8 `json:"balls"`
	Strikes uint8 `json:"strikes"`
}

func (n Count) String() string {
	return strconv.Itoa(int(n.Balls)) + "-" + strconv.Itoa(int(n.Strikes))
}

// count reads "2-1".
var count = c.Map(
	c.Seq(c.Terminated(c.Uint8, c.Tag("-")), c.Uint8),
	func(p c.Pair[uint8, uint8]) Count { return Count{Balls: p.First, Strikes: p.Second} },
)

// ordinal reads "3rd" in either spelling family.
var ordinal = c.Terminated(c.Uint8, c.Alt(c.Tag("th"), c.Tag("rd"), c.Tag("nd"), c.Tag("st")))

func itoa[T uint8 | uint16](n T) string { return strconv.Itoa(int(n)) }
