package game_test

import (
	"context"
	"testing"

	"github.com/okian/mmolbparse/internal/domain/game"
	"github.com/okian/mmolbparse/internal/domain/model"
	"github.com/okian/mmolbparse/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWither(t *testing.T) {
	Convey("Given a game parser during the Wither seasons", t, func() {
		ctx := context.Background()
		p := game.NewParser()

		roundTrip := func(msg model.Message) game.Event {
			ev := p.Parse(ctx, msg)
			So(p.Unparse(msg, ev), ShouldEqual, msg.Text)
			return ev
		}
		failed := func(msg model.Message) {
			perr, ok := p.Parse(ctx, msg).(game.ParseError)
			So(ok, ShouldBeTrue)
			So(perr.Reason, ShouldEqual, game.ReasonFailedParsing)
		}
		amy := model.PlacedPlayer{Place: types.PlaceOf(types.ShortStop), Name: "Amy Ito"}

		Convey("When a ball ends with a player struggling", func() {
			ev := roundTrip(message("Pitch", "Ball. 2-1. 🦊 SS Amy Ito struggles against the 🥀 Wither.", 6))

			Convey("Then the struggle has no source", func() {
				ball, ok := ev.(game.Ball)
				So(ok, ShouldBeTrue)
				So(ball.Wither, ShouldNotBeNil)
				So(ball.Wither.TeamEmoji, ShouldEqual, "🦊")
				So(ball.Wither.Target, ShouldResemble, amy)
				So(ball.Wither.Source, ShouldBeNil)
			})
		})

		Convey("When a strike ends with the Wither spreading", func() {
			ev := roundTrip(message("Pitch", "Strike, looking. 1-2. Bo Diaz is trying to spread the 🥀 Wither to 🐦 CF Rod Kim!", 7))

			Convey("Then the spreading player is the source", func() {
				strike, ok := ev.(game.Strike)
				So(ok, ShouldBeTrue)
				So(strike.Wither, ShouldNotBeNil)
				So(*strike.Wither.Source, ShouldEqual, "Bo Diaz")
				So(strike.Wither.Target.Name, ShouldEqual, "Rod Kim")
			})
		})

		Convey("When a foul is followed by two roses", func() {
			ev := roundTrip(message("Pitch", "Foul tip. 1-2.<br>🌹 Amy Ito grew: +3 Contact, -2 Speed."+
				"<br>🌹 Bo Diaz Effloresced, shedding their Corrupted Modification.", 7))

			Convey("Then growth and shedding are both kept in order", func() {
				foul, ok := ev.(game.Foul)
				So(ok, ShouldBeTrue)
				So(foul.Efflorescence, ShouldResemble, []model.Efflorescence{
					{Player: "Amy Ito", Changes: []model.GrowChange{
						{Amount: 3, Attribute: types.Contact},
						{Amount: -2, Attribute: types.Speed},
					}},
					{Player: "Bo Diaz", Effloresced: true},
				})
			})
		})

		Convey("When a walk carries a rose", func() {
			Convey("Then it is not read, since walks never bloom", func() {
				failed(message("Pitch", "Ball 4. Jo Lee walks.<br>🌹 Amy Ito grew: +3 Contact.", 7))
			})
		})

		Convey("When an immune player resists", func() {
			ev := roundTrip(message("WeatherWither", "🐦 CF Rod Kim resisted the effects of the 🥀 Wither with 🦠 Immunity.", 8))

			Convey("Then no containment is recorded", func() {
				w, ok := ev.(game.WeatherWither)
				So(ok, ShouldBeTrue)
				So(w.Result, ShouldEqual, model.WitherResistedImmune)
				So(w.Containment, ShouldBeNil)
			})
		})

		Convey("When a corrupted player's containment fails", func() {
			ev := roundTrip(message("WeatherWither",
				"🦊 SS Amy Ito was Corrupted by the 🥀 Wither., and tried to Contain Bo Diaz, but they wouldn't budge.", 7))

			Convey("Then the failed target is kept", func() {
				w, ok := ev.(game.WeatherWither)
				So(ok, ShouldBeTrue)
				So(w.Player, ShouldResemble, amy)
				So(w.Result, ShouldEqual, model.WitherCorrupted)
				So(*w.Containment, ShouldResemble, model.Containment{Target: "Bo Diaz"})
			})
		})

		Convey("When a team claims the belt from itself", func() {
			Convey("Then it is not read", func() {
				failed(message("LinealBelt", "🦊 Fox Valley Foxes claimed the ➰ Lineal Belt from 🦊 Fox Valley Foxes!", 10))
			})
		})

		Convey("When the belt changes hands", func() {
			ev := roundTrip(message("LinealBelt", "🐦 Stork City Storks claimed the ➰ Lineal Belt from 🦊 Fox Valley Foxes!", 10))

			Convey("Then both teams are named", func() {
				belt, ok := ev.(game.LinealBeltTransfer)
				So(ok, ShouldBeTrue)
				So(belt.ClaimedBy, ShouldResemble, storks)
				So(belt.ClaimedFrom, ShouldResemble, foxes)
			})
		})
	})
}
