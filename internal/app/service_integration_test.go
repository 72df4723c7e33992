package service_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/okian/mmolbparse/internal/adapters/repository"
	service "github.com/okian/mmolbparse/internal/app"
	"github.com/okian/mmolbparse/internal/domain/model"
	"github.com/okian/mmolbparse/internal/domain/roundtrip"
	"github.com/okian/mmolbparse/internal/domain/timeline"
	. "github.com/smartystreets/goconvey/convey"
)

func game(id, kind, text string, index uint16) model.Message {
	msg := pitch(text)
	msg.ID = id
	msg.Kind = kind
	msg.Moment = timeline.At(4, timeline.NumberedDay(3), index)
	return msg
}

func waitForResults(ctx context.Context, svc *service.Service, want int) int {
	deadline := time.Now().Add(5 * time.Second)
	for {
		stats := svc.GetStats()
		got, _ := stats["results"].(int)
		if got >= want || time.Now().After(deadline) {
			return got
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service backed by SQLite", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		store, err := repository.OpenSQLite(ctx, filepath.Join(t.TempDir(), "results.db"))
		So(err, ShouldBeNil)

		svc := service.New(
			service.WithWorkerCount(4),
			service.WithQueueSize(1000),
			service.WithStore(store),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a mixed batch is enqueued", func() {
			messages := []model.Message{
				game("ok-game", "Pitch", "Ball. 2-1.", 7),
				game("bad-game", "Pitch", "Ball. two-one.", 8),
				game("hrc", "HrcTeleport", "Whoosh.", 9),
				{ID: "ok-player", Family: model.FamilyPlayer, Kind: "Augment", Text: "Nancy Bright gained +50 Awareness.",
					Moment: timeline.OnDay(4, timeline.NumberedDay(3))},
				{ID: "ok-team", Family: model.FamilyTeam, Kind: "Lottery", Text: "Won 300 🪙 from the Lesser League Lottery!",
					Moment: timeline.OnDay(4, timeline.NumberedDay(3))},
			}
			for _, msg := range messages {
				ack, err := svc.Enqueue(ctx, msg)
				So(err, ShouldBeNil)
				So(ack.ID, ShouldEqual, msg.ID)
			}
			got := waitForResults(ctx, svc, len(messages))

			Convey("Then every message gets a stored result", func() {
				So(got, ShouldEqual, len(messages))
			})

			Convey("And each outcome is classified", func() {
				res, err := svc.Result(ctx, "ok-game")
				So(err, ShouldBeNil)
				So(res.Outcome, ShouldEqual, roundtrip.OutcomeMatched)

				res, err = svc.Result(ctx, "bad-game")
				So(err, ShouldBeNil)
				So(res.Outcome, ShouldEqual, roundtrip.OutcomeParseError)

				res, err = svc.Result(ctx, "hrc")
				So(err, ShouldBeNil)
				So(res.Outcome, ShouldEqual, roundtrip.OutcomeUnknownKind)
			})

			Convey("And results can be filtered", func() {
				matched, err := svc.Results(ctx, repository.Filter{Outcome: roundtrip.OutcomeMatched})
				So(err, ShouldBeNil)
				So(len(matched), ShouldEqual, 3)

				games, err := svc.Results(ctx, repository.Filter{Family: model.FamilyGame, Limit: 2})
				So(err, ShouldBeNil)
				So(len(games), ShouldEqual, 2)
			})

			Convey("And unknown IDs are not found", func() {
				_, err := svc.Result(ctx, "missing")
				So(err, ShouldEqual, repository.ErrNotFound)
			})
		})

		Convey("When many goroutines enqueue distinct messages", func() {
			const goroutines = 8
			const perGoroutine = 25
			var wg sync.WaitGroup
			var mu sync.Mutex
			accepted := 0
			for g := 0; g < goroutines; g++ {
				wg.Add(1)
				go func(g int) {
					defer wg.Done()
					for i := 0; i < perGoroutine; i++ {
						msg := pitch("Ball. 2-1.")
						msg.ID = fmt.Sprintf("m-%d-%d", g, i)
						msg.Moment = timeline.At(4, timeline.NumberedDay(uint16(g+1)), uint16(i))
						if ack, err := svc.Enqueue(ctx, msg); err == nil && !ack.Duplicate {
							mu.Lock()
							accepted++
							mu.Unlock()
						}
					}
				}(g)
			}
			wg.Wait()
			got := waitForResults(ctx, svc, accepted)

			Convey("Then every accepted message is stored", func() {
				So(accepted, ShouldEqual, goroutines*perGoroutine)
				So(got, ShouldEqual, accepted)
			})
		})
	})
}
