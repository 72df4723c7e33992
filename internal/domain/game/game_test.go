package game_test

import (
	"context"
	"testing"

	"github.com/okian/mmolbparse/internal/domain/game"
	"github.com/okian/mmolbparse/internal/domain/model"
	"github.com/okian/mmolbparse/internal/domain/timeline"
	"github.com/okian/mmolbparse/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

var (
	foxes  = model.EmojiTeam{Emoji: "🦊", Name: "Fox Valley Foxes"}
	storks = model.EmojiTeam{Emoji: "🐦", Name: "Stork City Storks"}
)

func message(kind, text string, season uint32) model.Message {
	return model.Message{
		Family: model.FamilyGame,
		Kind:   kind,
		Text:   text,
		Moment: timeline.At(season, timeline.NumberedDay(20), 10),
		Home:   foxes,
		Away:   storks,
	}
}

func TestParseScenarios(t *testing.T) {
	Convey("Given a game parser", t, func() {
		ctx := context.Background()
		p := game.NewParser()

		roundTrip := func(msg model.Message) game.Event {
			ev := p.Parse(ctx, msg)
			So(p.Unparse(msg, ev), ShouldEqual, msg.Text)
			return ev
		}

		Convey("When a called ball is parsed", func() {
			ev := roundTrip(message("Pitch", "Ball. 2-1.", 4))

			Convey("Then it is a Ball with the count and no steals", func() {
				ball, ok := ev.(game.Ball)
				So(ok, ShouldBeTrue)
				So(ball.Count, ShouldResemble, game.Count{Balls: 2, Strikes: 1})
				So(ball.Steals, ShouldBeEmpty)
			})
		})

		Convey("When a home run with a scoring runner is parsed", func() {
			text := "<strong>Jordan Diaz homers on a line drive to left field!</strong> <strong>Sam Lee scores!</strong>"
			ev := roundTrip(message("Field", text, 4))

			Convey("Then it is a HomeRun with one runner scoring", func() {
				hr, ok := ev.(game.HomeRun)
				So(ok, ShouldBeTrue)
				So(hr.Batter, ShouldEqual, "Jordan Diaz")
				So(hr.GrandSlam, ShouldBeFalse)
				So(hr.Scores, ShouldResemble, []string{"Sam Lee"})
			})
		})

		Convey("When a grounded double play names a fielder ending in a period", func() {
			text := "Traci Rivers grounded into a double play, SS Ellen Updog to 2B Chalia Jr. to 1B Elena Karapetyan. " +
				"Lance Green out at second base. Traci Rivers out at first base."
			ev := roundTrip(message("Field", text, 4))

			Convey("Then the fielders and both outs are read", func() {
				dp, ok := ev.(game.DoublePlayGrounded)
				So(ok, ShouldBeTrue)
				So(dp.Batter, ShouldEqual, "Traci Rivers")
				So(dp.Fielders, ShouldResemble, []model.PlacedPlayer{
					{Place: types.PlaceOf(types.ShortStop), Name: "Ellen Updog"},
					{Place: types.PlaceOf(types.SecondBaseman), Name: "Chalia Jr."},
					{Place: types.PlaceOf(types.FirstBaseman), Name: "Elena Karapetyan"},
				})
				So(dp.OutOne, ShouldResemble, model.RunnerOut{Runner: "Lance Green", Base: types.BaseSecondBase})
				So(dp.OutTwo, ShouldResemble, model.RunnerOut{Runner: "Traci Rivers", Base: types.BaseFirstBase})
			})

			Convey("Then a later era prints the present tense", func() {
				later := message("Field", text, 6)
				So(p.Unparse(later, ev), ShouldStartWith, "Traci Rivers grounds into a double play")
			})
		})

		Convey("When a single is fielded by a player with an initial", func() {
			text := "Victor Rodriguez singles on a line drive to RF Bob E. Quiros. Myra Roussel to third base."
			ev := roundTrip(message("Field", text, 4))

			Convey("Then the fielder and the advance are read", func() {
				hit, ok := ev.(game.BatterToBase)
				So(ok, ShouldBeTrue)
				So(hit.Distance, ShouldEqual, types.Single)
				So(hit.Type, ShouldEqual, types.LineDrive)
				So(hit.Fielder, ShouldResemble, model.PlacedPlayer{Place: types.PlaceOf(types.RightField), Name: "Bob E. Quiros"})
				So(hit.Runners.Advances, ShouldHaveLength, 1)
			})
		})

		Convey("When a live now message names the stadium", func() {
			justice := model.EmojiTeam{Emoji: "🔨", Name: "Springfield Just Just Justice"}
			caecilians := model.EmojiTeam{Emoji: "🪱", Name: "Cabo Verde Caecilians"}
			msg := message("LiveNow", "🔨 Springfield Just Just Justice vs 🪱 Cabo Verde Caecilians @ A Big Pile of Dirt", 5)
			msg.Home, msg.Away = caecilians, justice
			ev := roundTrip(msg)

			Convey("Then both teams and the stadium are read", func() {
				live, ok := ev.(game.LiveNow)
				So(ok, ShouldBeTrue)
				So(live.Away, ShouldResemble, justice)
				So(live.Home, ShouldResemble, caecilians)
				So(live.Stadium, ShouldNotBeNil)
				So(*live.Stadium, ShouldEqual, "A Big Pile of Dirt")
			})
		})

		Convey("When the kind tag is unknown", func() {
			msg := message("HrcTeleport", "Something new happened.", 4)
			ev := p.Parse(ctx, msg)

			Convey("Then a ParseError keeps the text", func() {
				perr, ok := ev.(game.ParseError)
				So(ok, ShouldBeTrue)
				So(perr.Reason, ShouldEqual, game.ReasonUnknownKind)
				So(perr.Text, ShouldEqual, msg.Text)
				So(p.Unparse(msg, ev), ShouldEqual, msg.Text)
			})
		})

		Convey("When the grammar cannot read the text", func() {
			msg := message("Pitch", "Ball. two-one.", 4)
			ev := p.Parse(ctx, msg)

			Convey("Then a ParseError reports a failed parse", func() {
				perr, ok := ev.(game.ParseError)
				So(ok, ShouldBeTrue)
				So(perr.Reason, ShouldEqual, game.ReasonFailedParsing)
				So(perr.Kind, ShouldEqual, "Pitch")
			})
		})

		Convey("When an HRC kind is parsed", func() {
			ev := p.Parse(ctx, message("HrcLiveNow", "Welcome to the Home Run Challenge!", 6))
			So(ev, ShouldHaveSameTypeAs, game.ParseError{})
			So(ev.(game.ParseError).Reason, ShouldEqual, game.ReasonFailedParsing)
		})
	})
}

func TestPriority(t *testing.T) {
	Convey("Given a strike out that opens with a foul", t, func() {
		p := game.NewParser()
		msg := message("Pitch", "Foul tip. Jane Doe struck out swinging.", 4)

		Convey("When it is parsed", func() {
			ev := p.Parse(context.Background(), msg)

			Convey("Then the earlier strike out rule wins", func() {
				so, ok := ev.(game.StrikeOut)
				So(ok, ShouldBeTrue)
				So(so.Foul, ShouldNotBeNil)
				So(so.Batter, ShouldEqual, "Jane Doe")
				So(p.Unparse(msg, ev), ShouldEqual, msg.Text)
			})
		})
	})
}

func TestWeather(t *testing.T) {
	Convey("Given weather messages", t, func() {
		ctx := context.Background()
		p := game.NewParser()

		Convey("When a party is parsed", func() {
			text := "<strong>🥳 Ann Lee and Bo Diaz are Partying!</strong> Ann Lee gained +5 Luck. " +
				"Bo Diaz gained +3 Speed. Both players lose 3 Durability."
			msg := message("Party", text, 6)
			ev := p.Parse(ctx, msg)

			So(p.Unparse(msg, ev), ShouldEqual, text)
			party, ok := ev.(game.Party)
			So(ok, ShouldBeTrue)
			So(party.PitcherAttribute, ShouldEqual, types.Luck)
			So(party.BatterAmount, ShouldEqual, 3)
			So(party.Durability.Amount, ShouldEqual, 3)
		})

		Convey("When the party gains name someone else", func() {
			text := "<strong>🥳 Ann Lee and Bo Diaz are Partying!</strong> Cy Young gained +5 Luck. " +
				"Bo Diaz gained +3 Speed. Both players lose 3 Durability."
			So(p.Parse(ctx, message("Party", text, 6)), ShouldHaveSameTypeAs, game.ParseError{})
		})

		Convey("When a photo contest is parsed", func() {
			text := "🦊 Fox Valley Foxes earn 12 🪙. 🐦 Stork City Storks earn 7 🪙.<br>Top scoring Photos:<br>" +
				"🦊 Ann Lee - 340 🐦 Bo Diaz - 120"
			msg := message("PhotoContest", text, 6)
			ev := p.Parse(ctx, msg)

			So(p.Unparse(msg, ev), ShouldEqual, text)
			contest, ok := ev.(game.PhotoContest)
			So(ok, ShouldBeTrue)
			So(contest.WinningTeam, ShouldResemble, foxes)
			So(contest.LosingScore, ShouldEqual, 120)
		})

		Convey("When a deflected star infuses a player", func() {
			text := " <strong>It deflected off Ann Lee and struck Bo Diaz!</strong> <strong>" +
				"Bo Diaz was infused with a glimmer of celestial energy!</strong>"
			msg := message("Weather", text, 4)
			ev := p.Parse(ctx, msg)

			So(p.Unparse(msg, ev), ShouldEqual, text)
			out, ok := ev.(game.FallingStarOutcome)
			So(ok, ShouldBeTrue)
			So(*out.Deflection, ShouldEqual, "Ann Lee")
			So(out.Outcome, ShouldEqual, game.StarInfusion)
			So(*out.Tier, ShouldEqual, types.Infused)
		})

		Convey("When prosperity pays nobody", func() {
			ev := p.Parse(ctx, message("WeatherProsperity", "", 4))
			So(ev, ShouldResemble, game.KnownBug{Bug: game.BugNoOneProspers})
		})

		Convey("When one team prospers", func() {
			text := "🐦 Stork City Storks are Prosperous! They earned 4 🪙."
			msg := message("WeatherProsperity", text, 4)
			ev := p.Parse(ctx, msg)

			So(ev, ShouldResemble, game.WeatherProsperity{AwayIncome: 4})
			So(p.Unparse(msg, ev), ShouldEqual, text)
		})

		Convey("When a balk scores a runner", func() {
			text := "Balk. Ann Lee dropped the ball. <strong>Bo Diaz scores!</strong>"
			msg := message("Balk", text, 4)
			ev := p.Parse(ctx, msg)

			So(p.Unparse(msg, ev), ShouldEqual, text)
			So(ev.(game.Balk).Runners.Scores, ShouldResemble, []string{"Bo Diaz"})
		})
	})
}

func TestTotality(t *testing.T) {
	Convey("Given malformed text for every kind", t, func() {
		p := game.NewParser()
		inputs := []string{"", " ", ".", "<strong>", "Ball. 2-", "🦊 Fox Valley Foxes", "Start of the top of the"}

		Convey("Then parsing never panics and always returns an event", func() {
			for _, kind := range game.EventTypes() {
				for _, text := range inputs {
					msg := message(kind.String(), text, 6)
					var ev game.Event
					So(func() { ev = p.Parse(context.Background(), msg) }, ShouldNotPanic)
					So(ev, ShouldNotBeNil)
				}
			}
		})

		Convey("Then parsing twice gives equal events", func() {
			msg := message("Pitch", "Strike, looking. 1-2.", 4)
			So(p.Parse(context.Background(), msg), ShouldResemble, p.Parse(context.Background(), msg))
		})
	})
}

func TestRecord(t *testing.T) {
	Convey("Given a parsed event", t, func() {
		p := game.NewParser()
		msg := message("Field", "<strong>Jordan Diaz homers on a line drive to left field!</strong> <strong>Sam Lee scores!</strong>", 4)
		ev := p.Parse(context.Background(), msg)

		Convey("When it is stored and loaded", func() {
			b, err := game.Marshal(ev)
			So(err, ShouldBeNil)
			back, err := game.Unmarshal(b)
			So(err, ShouldBeNil)

			Convey("Then it is unchanged", func() {
				So(back, ShouldResemble, ev)
				So(p.Unparse(msg, back), ShouldEqual, msg.Text)
			})
		})

		Convey("When the record tag is unknown", func() {
			_, err := game.Unmarshal([]byte(`{"type":"Teleport","data":{}}`))
			So(err, ShouldBeError)
		})
	})
}

func TestEventType(t *testing.T) {
	Convey("Given the kind names", t, func() {
		Convey("Then each name parses back to its kind", func() {
			for _, kind := range game.EventTypes() {
				back, err := game.ParseEventType(kind.String())
				So(err, ShouldBeNil)
				So(back, ShouldEqual, kind)
			}
		})

		Convey("Then unknown names are rejected", func() {
			_, err := game.ParseEventType("Teleport")
			So(err, ShouldBeError)
		})
	})
}
