package types

import (
	"strconv"
	"strings"
)

// Open vocabularies keep whatever text the message carried. Recognized
// reports whether the word is one this package knows; unknown words still
// round-trip unchanged.

// Cheer is the crowd line appended to a pitch.
type Cheer string

var cheers = newOpenSet(
	"A tremendous cheer fills the air",
	"A thunderous cheer echoes across the field",
	"Chants thunder around the stadium",
	"Everyone cheers at once",
	"Everyone is chanting the team's name",
	"The cheers drown out everything else",
	"Cheers roll through the stadium",
	"Supporters pound on the railings",
	"Hands clap and whistles pierce the air",
	"Home fans stomp their feet in unison",
	"No one is sitting anymore",
	"The hometown supporters give a roar",
	"The hometown section is deafening",
	"The home faithful go berserk",
	"Fans are losing their minds",
	"The stands explode in noise",
	"It's a wall of sound",
	"The entire ballpark is rocking",
	"The ballpark comes alive",
	"Excitement pours from the crowd",
	"The home supporters can't contain themselves",
	"The crowd lets out a collective howl",
	"A rumble of excitement rolls through the stadium",
	"Banners wave wildly",
	"The noise level skyrockets",
	"The energy in here is palpable",
	"The ballpark erupts in applause",
	"The bleachers are booming",
	"Fans slap the walls in rhythm",
	"The hometown fans roar their support",
	"Noise rains down from the seats",
	"Fans wave their arms wildly",
	"Energy pulses from the stands",
	"The stands shake with noise",
	"The ballpark is in an uproar",
	"The stadium swell with cheers",
	"The stadium erupts",
	"Fans roar in support",
	"A chant grows louder and louder",
	"Fans shout encouragement",
	"The stadium is buzzing",
	"The hometown faithful are loving this",
	"Fans whoop and holler",
	"The home crowd is fired up",
	"It's pandemonium in the stands",
	"The noise is overwhelming",
	"Home supporters whistle and cheer",
	"The home fans make themselves heard",
	"The crowd rallies behind the team",
	"The stands are rumbling",
	"It's pure pandemonium",
	"The place is rocking",
	"A wave of cheers sweeps the stadium",
	"The hometown fans roar",
	"The fans thunder their approval",
	"Supporters yell at full volume",
	"The crowd goes absolutely bonkers",
	"The cheering is relentless",
	"Fans pump their fists in the air",
	"The home crowd won't stop cheering",
	"The crowd erupts into cheers",
	"A roar builds from the seats",
	"Everyone in the stands is on their feet",
	"It's a roar from the rafters",
	"Chants rise from the bleachers",
	"A cheer rips through the park",
	"Everyone's clapping in rhythm",
	"The crowd is pumped up",
	"The stadium swells with cheers",
	"You can barely hear the announcer",
	"The fans are fired up",
	"The decibels rise to a frenzy",
	"The energy in the park surges",
	"Fans yell themselves hoarse",
	"A mighty cheer erupts",
	"The stands are electric",
	"Fans jump and shout",
	"The cheers echo off the walls",
	"You can feel the stands vibrating",
	"Noise levels spike",
	"Everyone is cheering at once",
	"A huge cheer erupts",
	"The noise just keeps building",
	"The faithful are shouting at the top of their lungs",
	"They cheer like there's no tomorrow",
	"You can feel the hype building",
	"The excitement is off the charts",
	"Excitement surges through the park",
	"Every fan is making noise",
	"The supporters fuel their team",
	"The park vibrates with noise",
	"The stands are shaking",
	"The fans bellow encouragement",
	"The stadium shakes with excitement",
	"Supporters wave their banners high",
	"The faithful rise as one",
	"Cheers cascade from every section",
	"The crowd belts out the team's chant",
	"The fans scream for their heroes",
	"The crowd is ecstatic",
	"The crowd is pumped",
)

// Recognized reports whether c is a known cheer.
func (c Cheer) Recognized() bool { return cheers.has(string(c)) }

// EjectionReason is the parenthesised reason a ROBO-UMP gives.
type EjectionReason string

var ejectionReasons = newOpenSet(
	"eating a hotdog",
	"spitting",
	"looking at them the wrong way",
	"whispering something to another player",
	"dancing",
	"not looking excited enough",
	"picking their nose",
	"drinking beer",
	"taking a phone call",
	"using a foreign substance",
	"eating nachos",
	"chewing gum too loud",
	"texting during play",
	"hat worn at improper rotational value",
	"mismatched socks",
	"wrinkled shirt",
	"shoe untied",
	"making weird hand signals",
	"laughing",
	"something they said earlier in the locker room",
	"telling a bad joke",
	"winking at someone in the crowd",
	"saying a bad word",
	"humming",
)

// Recognized reports whether r is a known ejection reason.
func (r EjectionReason) Recognized() bool { return ejectionReasons.has(string(r)) }

// ViolationType is the rule category an ejection cites.
type ViolationType string

var violationTypes = newOpenSet("Sportsmanship", "Uniform", "Communication")

// Recognized reports whether v is a known violation category.
func (v ViolationType) Recognized() bool { return violationTypes.has(string(v)) }

// ModificationType names a player modification.
type ModificationType string

var modifications = newOpenSet(
	"ROBO", "Demonic", "Angelic", "Undead", "Giant", "Fire Elemental", "Water Elemental",
	"Air Elemental", "Earth Elemental", "Draconic", "Fae", "One With All", "Archer's Mark",
	"Geometry Expert", "Scooter", "The Light", "Tenacious Badger", "Stormrider", "Insectoid",
	"Clean", "Shiny", "Psychic", "UFO", "Spectral", "Amphibian", "Mer", "Calculated",
	"Corrupted", "Retired", "Relegated", "Cursed", "Contained", "Prolific Greater Boon",
)

// Recognized reports whether m is a known modification.
func (m ModificationType) Recognized() bool { return modifications.has(string(m)) }

// Slot is a roster slot as team feeds print it ("C", "SP3", "Bench Batter 2").
type Slot string

var slots = newOpenSet(
	"C", "1B", "2B", "3B", "SS", "LF", "CF", "RF", "DH",
	"SP", "SP1", "SP2", "SP3", "SP4", "SP5",
	"RP", "RP1", "RP2", "RP3", "RP4", "RP5", "RP6", "RP7", "RP8", "CL",
)

// Recognized reports whether s is a known slot.
func (s Slot) Recognized() bool {
	if slots.has(string(s)) {
		return true
	}
	_, ok := ParseBenchSlot(string(s))
	return ok
}

// GameOverMessage is the text of a game over event.
type GameOverMessage string

var gameOverMessages = newOpenSet(`"GAME OVER."`)

// Recognized reports whether g is a known game over line.
func (g GameOverMessage) Recognized() bool { return gameOverMessages.has(string(g)) }

// BenchSlot is "Bench Batter N" or "Bench Pitcher N".
type BenchSlot struct {
	Pitcher bool  `json:"pitcher"`
	Number  uint8 `json:"number"`
}

func (b BenchSlot) String() string {
	if b.Pitcher {
		return "Bench Pitcher " + itoa(b.Number)
	}
	return "Bench Batter " + itoa(b.Number)
}

// ParseBenchSlot reads a bench slot label.
func ParseBenchSlot(s string) (BenchSlot, bool) {
	var b BenchSlot
	rest, ok := strings.CutPrefix(s, "Bench Batter ")
	if !ok {
		rest, ok = strings.CutPrefix(s, "Bench Pitcher ")
		b.Pitcher = true
	}
	if !ok {
		return BenchSlot{}, false
	}
	n, err := strconv.ParseUint(rest, 10, 8)
	if err != nil {
		return BenchSlot{}, false
	}
	b.Number = uint8(n)
	return b, true
}
