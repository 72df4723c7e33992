package types_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/okian/mmolbparse/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPlaces(t *testing.T) {
	Convey("Given place labels", t, func() {
		Convey("When parsing plain and numbered pitcher slots", func() {
			ss, ok1 := types.ParsePlace("SS")
			sp, ok2 := types.ParsePlace("SP3")
			_, ok3 := types.ParsePlace("SS2")
			_, ok4 := types.ParsePlace("SP0")

			Convey("Then numbers are only accepted on pitchers", func() {
				So(ok1, ShouldBeTrue)
				So(ss, ShouldResemble, types.PlaceOf(types.ShortStop))
				So(ok2, ShouldBeTrue)
				So(sp.String(), ShouldEqual, "SP3")
				So(ok3, ShouldBeFalse)
				So(ok4, ShouldBeFalse)
			})
		})

		Convey("When decoding an unknown place from JSON", func() {
			var p types.Place
			err := json.Unmarshal([]byte(`"XX"`), &p)

			Convey("Then the error wraps ErrUnknownWord", func() {
				So(errors.Is(err, types.ErrUnknownWord), ShouldBeTrue)
			})
		})
	})
}

func TestClosedVocabularies(t *testing.T) {
	Convey("Given base spellings", t, func() {
		Convey("Then every spelling maps to its base", func() {
			v, ok := types.ParseBaseNameVariant("3B")
			So(ok, ShouldBeTrue)
			So(v.Base(), ShouldEqual, types.ThirdBase)
			So(types.HomeBase.Long(), ShouldEqual, "home")
			So(types.SecondBase.Long(), ShouldEqual, "second base")

			b, ok := types.ParseLongBase("first base")
			So(ok, ShouldBeTrue)
			So(b, ShouldEqual, types.FirstBase)
			_, ok = types.ParseLongBase("home base")
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given fielding error words", t, func() {
		Convey("Then lookup ignores case and rendering picks one", func() {
			e, ok := types.ParseFieldingErrorType("THROWING")
			So(ok, ShouldBeTrue)
			So(e.Lower(), ShouldEqual, "throwing")
			So(e.Upper(), ShouldEqual, "THROWING")
		})
	})

	Convey("Given fair ball types", t, func() {
		Convey("Then the noun and verb forms agree", func() {
			ft, ok := types.ParseFairBallVerb("pops")
			So(ok, ShouldBeTrue)
			So(ft, ShouldEqual, types.Popup)
			So(ft.String(), ShouldEqual, "popup")
		})
	})

	Convey("Given attribute JSON", t, func() {
		raw, err := json.Marshal(types.Awareness)

		Convey("Then it encodes as the attribute name", func() {
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, `"Awareness"`)

			var a types.Attribute
			So(json.Unmarshal(raw, &a), ShouldBeNil)
			So(a, ShouldEqual, types.Awareness)
		})
	})
}

func TestOrdinals(t *testing.T) {
	Convey("Given inning numbers", t, func() {
		Convey("Then inning start only special-cases one to three", func() {
			So(types.Ordinal(1), ShouldEqual, "1st")
			So(types.Ordinal(3), ShouldEqual, "3rd")
			So(types.Ordinal(21), ShouldEqual, "21th")
		})

		Convey("Then inning end uses English ordinals", func() {
			So(types.EndOrdinal(11), ShouldEqual, "11th")
			So(types.EndOrdinal(21), ShouldEqual, "21st")
			So(types.EndOrdinal(12), ShouldEqual, "12th")
			So(types.EndOrdinal(22), ShouldEqual, "22nd")
		})
	})
}

func TestOpenVocabularies(t *testing.T) {
	Convey("Given open vocabulary words", t, func() {
		Convey("Then known words are recognised and unknown words are kept", func() {
			So(types.Cheer("The crowd is pumped").Recognized(), ShouldBeTrue)
			So(types.Cheer("The crowd hums").Recognized(), ShouldBeFalse)
			So(types.EjectionReason("humming").Recognized(), ShouldBeTrue)
			So(types.Slot("Bench Pitcher 2").Recognized(), ShouldBeTrue)
			So(types.ViolationType("Vibes").Recognized(), ShouldBeFalse)
		})
	})

	Convey("Given batter stats", t, func() {
		Convey("Then both stat shapes round trip", func() {
			s, ok := types.ParseBatterStat("2 for 3")
			So(ok, ShouldBeTrue)
			So(s.String(), ShouldEqual, "2 for 3")

			s, ok = types.ParseBatterStat("1 HBP")
			So(ok, ShouldBeTrue)
			So(s.Kind, ShouldEqual, types.HitByPitches)
			So(s.String(), ShouldEqual, "1 HBP")

			_, ok = types.ParseBatterStat("1 XYZ")
			So(ok, ShouldBeFalse)
		})
	})
}
