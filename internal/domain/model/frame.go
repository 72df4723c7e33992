package model

import (
	"time"

	"github.com/okian/mmolbparse/internal/domain/timeline"
	"github.com/okian/mmolbparse/internal/domain/types"
)

// Frame is everything outside the text that selects wording: when the
// message happened and, for game events, who is playing.
type Frame struct {
	Moment       timeline.Moment
	Timestamp    time.Time
	Home         EmojiTeam
	Away         EmojiTeam
	PitchingSide *types.HomeAway
	Table        *timeline.Table
}

// FrameAt builds a frame with only a moment, against the default table.
func FrameAt(m timeline.Moment) Frame {
	return Frame{Moment: m}
}

// Before reports whether the frame precedes breakpoint b.
func (f Frame) Before(b timeline.Breakpoint) bool { return f.Table.Before(b, f.Moment) }

// After reports whether the frame is on or after breakpoint b.
func (f Frame) After(b timeline.Breakpoint) bool { return f.Table.After(b, f.Moment) }

// BeforeSeason reports whether the frame precedes the start of season n.
func (f Frame) BeforeSeason(n uint32) bool { return f.Table.BeforeSeason(n, f.Moment) }

// Team returns the team playing on side.
func (f Frame) Team(side types.HomeAway) EmojiTeam {
	if side == types.Home {
		return f.Home
	}
	return f.Away
}

// PitchingTeam returns the fielding team for the current half inning.
func (f Frame) PitchingTeam() (EmojiTeam, bool) {
	if f.PitchingSide == nil {
		return EmojiTeam{}, false
	}
	return f.Team(*f.PitchingSide), true
}

// Superstar reports whether the frame is the superstar game, where inning
// starts may omit the pitcher.
func (f Frame) Superstar() bool { return timeline.IsSuperstarGame(f.Moment.Day) }

func (f Frame) tense(past, present string) string {
	if f.After(timeline.Season5TenseChange) {
		return present
	}
	return past
}

// OldSpace is the stray leading space early pitch messages carried.
func (f Frame) OldSpace() string {
	if f.Before(timeline.S2D169) {
		return " "
	}
	return ""
}

// StrikeOutText joins the batter and the strike type.
func (f Frame) StrikeOutText() string { return f.tense(" struck out ", " strikes out ") }

// HitByPitchText follows the batter in a hit by pitch.
func (f Frame) HitByPitchText() string {
	return f.tense(" was hit by the pitch", " is hit by the pitch")
}

// ReceivedText joins the recipient and the item of a delivery.
func (f Frame) ReceivedText() string { return f.tense(" received a ", " receives a ") }

// DiscardedText introduces the item a recipient threw away.
func (f Frame) DiscardedText() string {
	return f.tense(" They discarded their ", " They discard their ")
}

// NoSpaceText ends a delivery nobody could take.
func (f Frame) NoSpaceText() string {
	switch {
	case f.After(timeline.Season8ItemDiscardedMessageChange):
		return " is discarded as no player can use it."
	case f.After(timeline.Season5TenseChange):
		return " is discarded as no player has space."
	}
	return " was discarded as no player had space."
}

// Earn is the verb for tokens a team was paid.
func (f Frame) Earn() string { return f.tense("earned", "earn") }

// WasIs is the auxiliary for falling star outcomes.
func (f Frame) WasIs() string { return f.tense("was", "is") }

// BeganBegins is the verb for the second infusion tier.
func (f Frame) BeganBegins() string { return f.tense("began", "begins") }

// Deflected is the verb for a harmless falling star.
func (f Frame) Deflected() string { return f.tense("deflected", "deflects") }

// DoublePlayVerb is the verb of a grounded double play.
func (f Frame) DoublePlayVerb() string { return f.tense("grounded", "grounds") }

// PerfectPlay is the bold flourish after a grounded out.
func (f Frame) PerfectPlay() string {
	if f.Moment.Season < 5 {
		return "Perfect catch"
	}
	return "Amazing throw"
}

// CheerPrefix comes before the cheer text.
func (f Frame) CheerPrefix() string {
	if f.Before(timeline.CheersGetEmoji) {
		return " "
	}
	return " 📣 "
}

// WitherResists is the verb of a player who shrugged off the Wither. The
// tense moved from present to past in season 7.
func (f Frame) WitherResists() string {
	if f.Before(timeline.Season7WitherTenseChange) {
		return "resists"
	}
	return "resisted"
}

// ContainPeriod closes the Wither sentence ahead of a successful
// containment. It was dropped partway through season 7.
func (f Frame) ContainPeriod() string {
	if f.Before(timeline.Season7SuccessfulContainPeriodFix) {
		return "."
	}
	return ""
}
