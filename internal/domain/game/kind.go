package game

import (
	"fmt"

	"github.com/okian/mmolbparse/internal/domain/model"
)

// EventType is the kind tag the game API attaches to every event.
type EventType uint8

// Event kinds. EventUnrecognized stands for any tag this package does not
// know.
const (
	EventUnrecognized EventType = iota
	EventPitchingMatchup
	EventMoundVisit
	EventGameOver
	EventField
	EventHomeLineup
	EventRecordkeeping
	EventLiveNow
	EventInningStart
	EventPitch
	EventAwayLineup
	EventInningEnd
	EventPlayBall
	EventNowBatting
	EventWeatherDelivery
	EventFallingStar
	EventWeather
	EventHrcLiveNow
	EventHrcPitchingMatchup
	EventHrcBattingMatchup
	EventHrcPlayBall
	EventHrcChange
	EventWeatherShipment
	EventWeatherSpecialDelivery
	EventWeatherProsperity
	EventBalk
	EventPhotoContest
	EventParty
	EventWeatherReflection
	EventWeatherWither
	EventLinealBelt
)

var eventTypeNames = [...]string{
	EventUnrecognized:           "Unrecognized",
	EventPitchingMatchup:        "PitchingMatchup",
	EventMoundVisit:             "MoundVisit",
	EventGameOver:               "GameOver",
	EventField:                  "Field",
	EventHomeLineup:             "HomeLineup",
	EventRecordkeeping:          "Recordkeeping",
	EventLiveNow:                "LiveNow",
	EventInningStart:            "InningStart",
	EventPitch:                  "Pitch",
	EventAwayLineup:             "AwayLineup",
	EventInningEnd:              "InningEnd",
	EventPlayBall:               "PlayBall",
	EventNowBatting:             "NowBatting",
	EventWeatherDelivery:        "WeatherDelivery",
	EventFallingStar:            "FallingStar",
	EventWeather:                "Weather",
	EventHrcLiveNow:             "HrcLiveNow",
	EventHrcPitchingMatchup:     "HrcPitchingMatchup",
	EventHrcBattingMatchup:      "HrcBattingMatchup",
	EventHrcPlayBall:            "HrcPlayBall",
	EventHrcChange:              "HrcChange",
	EventWeatherShipment:        "WeatherShipment",
	EventWeatherSpecialDelivery: "WeatherSpecialDelivery",
	EventWeatherProsperity:      "WeatherProsperity",
	EventBalk:                   "Balk",
	EventPhotoContest:           "PhotoContest",
	EventParty:                  "Party",
	EventWeatherReflection:      "WeatherReflection",
	EventWeatherWither:          "WeatherWither",
	EventLinealBelt:             "LinealBelt",
}

var eventTypesByName = func() map[string]EventType {
	m := make(map[string]EventType, len(eventTypeNames))
	for t, name := range eventTypeNames {
		if EventType(t) != EventUnrecognized {
			m[name] = EventType(t)
		}
	}
	return m
}()

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return fmt.Sprintf("EventType(%d)", uint8(t))
}

// ParseEventType maps an API tag to its kind.
func ParseEventType(s string) (EventType, error) {
	t, ok := eventTypesByName[s]
	if !ok {
		return EventUnrecognized, fmt.Errorf("game event %q: %w", s, model.ErrUnknownKind)
	}
	return t, nil
}

// EventTypes lists every recognized kind in declaration order.
func EventTypes() []EventType {
	out := make([]EventType, 0, len(eventTypeNames)-1)
	for t := EventPitchingMatchup; int(t) < len(eventTypeNames); t++ {
		out = append(out, t)
	}
	return out
}

// Hrc reports whether t is a home run challenge kind. Those events have no
// grammar.
func (t EventType) Hrc() bool {
	switch t {
	case EventHrcLiveNow, EventHrcPitchingMatchup, EventHrcBattingMatchup, EventHrcPlayBall, EventHrcChange:
		return true
	}
	return false
}

func (t EventType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *EventType) UnmarshalText(b []byte) error {
	v, err := ParseEventType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
