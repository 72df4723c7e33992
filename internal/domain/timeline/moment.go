package timeline

// Moment locates an event: a season, an optional day and an optional index
// of the event within its game.
type Moment struct {
	Season uint32  `json:"season" yaml:"season"`
	Day    *Day    `json:"day,omitempty" yaml:"day,omitempty"`
	Index  *uint16 `json:"index,omitempty" yaml:"index,omitempty"`
}

// At builds a Moment with both day and index present.
func At(season uint32, day Day, index uint16) Moment {
	return Moment{Season: season, Day: &day, Index: &index}
}

// OnDay builds a Moment without an event index.
func OnDay(season uint32, day Day) Moment {
	return Moment{Season: season, Day: &day}
}

// InSeason builds a Moment with only a season.
func InSeason(season uint32) Moment {
	return Moment{Season: season}
}

// IndexOrZero returns the event index, treating a missing one as 0.
func (m Moment) IndexOrZero() uint16 {
	if m.Index == nil {
		return 0
	}
	return *m.Index
}
