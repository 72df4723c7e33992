package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/okian/mmolbparse/internal/adapters/repository"
	"github.com/okian/mmolbparse/internal/domain/model"
	"github.com/okian/mmolbparse/internal/domain/roundtrip"
	. "github.com/smartystreets/goconvey/convey"
)

func result(id string, family model.Family, outcome roundtrip.Outcome) repository.Result {
	return repository.Result{
		ID:        id,
		Family:    family,
		Kind:      "Pitch",
		Outcome:   outcome,
		Event:     "Ball",
		Record:    []byte(`{"type":"Ball","data":{}}`),
		Text:      "Ball. 2-1.",
		Unparsed:  "Ball. 2-1.",
		Offset:    -1,
		CheckedAt: time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestMemoryStore(t *testing.T) {
	Convey("Given an empty memory store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()

		Convey("When a result is saved", func() {
			So(store.Save(ctx, result("r1", model.FamilyGame, roundtrip.OutcomeMatched)), ShouldBeNil)

			Convey("Then it can be read back", func() {
				got, err := store.Get(ctx, "r1")
				So(err, ShouldBeNil)
				So(got.Outcome, ShouldEqual, roundtrip.OutcomeMatched)
				So(store.Len(), ShouldEqual, 1)
			})
		})

		Convey("When an unknown id is requested", func() {
			_, err := store.Get(ctx, "nope")

			Convey("Then ErrNotFound is returned", func() {
				So(err, ShouldEqual, repository.ErrNotFound)
			})
		})

		Convey("When an invalid result is saved", func() {
			errNoID := store.Save(ctx, result("", model.FamilyGame, roundtrip.OutcomeMatched))
			errOutcome := store.Save(ctx, result("r1", model.FamilyGame, "maybe"))

			Convey("Then it is refused", func() {
				So(errNoID, ShouldWrap, repository.ErrInvalidResult)
				So(errOutcome, ShouldWrap, repository.ErrInvalidResult)
			})
		})

		Convey("When several results are saved and one is replaced", func() {
			So(store.Save(ctx, result("r1", model.FamilyGame, roundtrip.OutcomeMatched)), ShouldBeNil)
			So(store.Save(ctx, result("r2", model.FamilyTeam, roundtrip.OutcomeMismatch)), ShouldBeNil)
			So(store.Save(ctx, result("r3", model.FamilyGame, roundtrip.OutcomeParseError)), ShouldBeNil)
			So(store.Save(ctx, result("r1", model.FamilyGame, roundtrip.OutcomeMismatch)), ShouldBeNil)

			Convey("Then List returns newest first and keeps the replaced slot", func() {
				all, err := store.List(ctx, repository.Filter{})
				So(err, ShouldBeNil)
				So(len(all), ShouldEqual, 3)
				So(all[0].ID, ShouldEqual, "r3")
				So(all[2].ID, ShouldEqual, "r1")
				So(all[2].Outcome, ShouldEqual, roundtrip.OutcomeMismatch)
			})

			Convey("Then filters narrow the list", func() {
				mismatches, err := store.List(ctx, repository.Filter{Outcome: roundtrip.OutcomeMismatch})
				So(err, ShouldBeNil)
				So(len(mismatches), ShouldEqual, 2)

				games, err := store.List(ctx, repository.Filter{Family: model.FamilyGame, Limit: 1})
				So(err, ShouldBeNil)
				So(len(games), ShouldEqual, 1)
				So(games[0].ID, ShouldEqual, "r3")
			})

			Convey("Then Counts groups by outcome", func() {
				counts, err := store.Counts(ctx)
				So(err, ShouldBeNil)
				So(counts[roundtrip.OutcomeMismatch], ShouldEqual, 2)
				So(counts[roundtrip.OutcomeParseError], ShouldEqual, 1)
				So(counts[roundtrip.OutcomeMatched], ShouldEqual, 0)
			})
		})

		Convey("When a negative limit is given", func() {
			_, err := store.List(ctx, repository.Filter{Limit: -1})

			Convey("Then ErrInvalidLimit is returned", func() {
				So(err, ShouldWrap, repository.ErrInvalidLimit)
			})
		})

		Convey("When the store is closed", func() {
			So(store.Close(), ShouldBeNil)

			Convey("Then every call fails with ErrClosed", func() {
				So(store.Save(ctx, result("r1", model.FamilyGame, roundtrip.OutcomeMatched)), ShouldEqual, repository.ErrClosed)
				_, err := store.Get(ctx, "r1")
				So(err, ShouldEqual, repository.ErrClosed)
				So(store.Close(), ShouldBeNil)
			})
		})
	})

	Convey("Given a bounded memory store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore(repository.WithCapacity(3))

		Convey("When more results arrive than it holds", func() {
			for i := 1; i <= 5; i++ {
				So(store.Save(ctx, result(fmt.Sprintf("r%d", i), model.FamilyGame, roundtrip.OutcomeMatched)), ShouldBeNil)
			}

			Convey("Then the oldest are dropped", func() {
				So(store.Len(), ShouldEqual, 3)
				_, err := store.Get(ctx, "r2")
				So(err, ShouldEqual, repository.ErrNotFound)
				all, err := store.List(ctx, repository.Filter{})
				So(err, ShouldBeNil)
				So(all[0].ID, ShouldEqual, "r5")
				So(all[2].ID, ShouldEqual, "r3")
			})
		})
	})
}
