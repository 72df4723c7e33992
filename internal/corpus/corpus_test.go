package corpus_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/mmolbparse/internal/adapters/http/api"
	service "github.com/okian/mmolbparse/internal/app"
	"github.com/okian/mmolbparse/internal/corpus"
	"github.com/okian/mmolbparse/internal/domain/model"
	"github.com/okian/mmolbparse/internal/domain/roundtrip"
	"github.com/okian/mmolbparse/internal/domain/timeline"
	"github.com/okian/mmolbparse/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

var (
	yamlCorpus  = filepath.Join("testdata", "sample.yaml")
	jsonlCorpus = filepath.Join("testdata", "sample.jsonl")
)

func TestLoad(t *testing.T) {
	Convey("Given a YAML corpus", t, func() {
		msgs, err := corpus.Load(yamlCorpus)

		Convey("Then every message is read", func() {
			So(err, ShouldBeNil)
			So(msgs, ShouldHaveLength, 6)
			So(msgs[0].ID, ShouldEqual, "pitch-1")
			So(msgs[0].Home.Name, ShouldEqual, "Fox Valley Foxes")
			So(*msgs[0].Moment.Index, ShouldEqual, uint16(10))
			So(*msgs[0].Moment.Day, ShouldResemble, timeline.NumberedDay(20))
		})

		Convey("Then a message without an ID gets its position", func() {
			So(err, ShouldBeNil)
			So(msgs[4].ID, ShouldEqual, "entry-5")
			So(msgs[4].Moment.Day.Kind, ShouldEqual, timeline.KindHoliday)
		})
	})

	Convey("Given a JSON lines corpus", t, func() {
		msgs, err := corpus.Load(jsonlCorpus)

		Convey("Then comments and blank lines are skipped and IDs follow line numbers", func() {
			So(err, ShouldBeNil)
			So(msgs, ShouldHaveLength, 4)
			ids := []string{msgs[0].ID, msgs[1].ID, msgs[2].ID, msgs[3].ID}
			So(ids, ShouldResemble, []string{"pitch-1", "line-3", "line-5", "line-6"})
		})
	})

	Convey("Given a JSON array", t, func() {
		in := `[{"family":"player","kind":"Augment","text":"Nancy Bright gained +50 Awareness.","moment":{"season":4}}]`
		msgs, err := corpus.Read(strings.NewReader(in), corpus.FormatJSON)

		Convey("Then it is read like the other formats", func() {
			So(err, ShouldBeNil)
			So(msgs, ShouldHaveLength, 1)
			So(msgs[0].ID, ShouldEqual, "entry-1")
			So(msgs[0].Family, ShouldEqual, model.FamilyPlayer)
		})
	})

	Convey("Given bad input", t, func() {
		Convey("When the extension is unknown", func() {
			_, err := corpus.Load("messages.csv")

			Convey("Then the format is rejected", func() {
				So(err, ShouldWrap, corpus.ErrUnknownFormat)
			})
		})

		Convey("When a message names an unknown family", func() {
			_, err := corpus.Read(strings.NewReader(`[{"family":"league","kind":"Pitch"}]`), corpus.FormatJSON)

			Convey("Then the message is rejected", func() {
				So(err, ShouldWrap, model.ErrInvalidMessage)
			})
		})

		Convey("When a JSON line is malformed", func() {
			_, err := corpus.Read(strings.NewReader("{\"family\":\"game\"\n"), corpus.FormatJSONLines)

			Convey("Then the line number is reported", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "line 1")
			})
		})
	})
}

func TestRunnerLocal(t *testing.T) {
	Convey("Given an in-process runner", t, func() {
		ctx := context.Background()

		Convey("When the YAML corpus is checked", func() {
			runner := corpus.NewRunner(corpus.Config{Path: yamlCorpus, Concurrency: 3})
			summary, err := runner.Run(ctx)

			Convey("Then known kinds match and the unknown one is reported", func() {
				So(err, ShouldBeNil)
				So(summary.Total, ShouldEqual, 6)
				So(summary.Outcomes[roundtrip.OutcomeMatched], ShouldEqual, 5)
				So(summary.Outcomes[roundtrip.OutcomeUnknownKind], ShouldEqual, 1)
				So(summary.Failures, ShouldHaveLength, 1)
				So(summary.Failures[0].ID, ShouldEqual, "teleport-1")
				So(summary.OK(), ShouldBeTrue)
			})
		})

		Convey("When the JSON lines corpus is checked", func() {
			runner := corpus.NewRunner(corpus.Config{Path: jsonlCorpus})
			summary, err := runner.Run(ctx)

			Convey("Then the unreadable pitch is a parse error", func() {
				So(err, ShouldBeNil)
				So(summary.Outcomes[roundtrip.OutcomeMatched], ShouldEqual, 3)
				So(summary.Outcomes[roundtrip.OutcomeParseError], ShouldEqual, 1)
				So(summary.Failures[0].ID, ShouldEqual, "line-6")
				So(summary.OK(), ShouldBeTrue)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			msgs, err := corpus.Load(yamlCorpus)
			So(err, ShouldBeNil)
			_, err = corpus.NewRunner(corpus.Config{}).Check(cctx, msgs)

			Convey("Then the run stops with the context error", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})

		Convey("When the corpus file is missing", func() {
			_, err := corpus.NewRunner(corpus.Config{Path: "testdata/missing.yaml"}).Run(ctx)

			Convey("Then the error is returned", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestRunnerRemote(t *testing.T) {
	Convey("Given a running service", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithWorkerCount(2), service.WithQueueSize(100))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		mux := http.NewServeMux()
		api.NewServer(svc, svc).Register(ctx, mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		Convey("When the YAML corpus is submitted in small batches", func() {
			runner := corpus.NewRunner(corpus.Config{
				Path:      yamlCorpus,
				URL:       srv.URL,
				BatchSize: 2,
				Timeout:   5 * time.Second,
			}, corpus.WithPollInterval(10*time.Millisecond))
			summary, err := runner.Run(ctx)

			Convey("Then the stored results match the in-process outcomes", func() {
				So(err, ShouldBeNil)
				So(summary.Total, ShouldEqual, 6)
				So(summary.Skipped, ShouldEqual, 0)
				So(summary.Outcomes[roundtrip.OutcomeMatched], ShouldEqual, 5)
				So(summary.Outcomes[roundtrip.OutcomeUnknownKind], ShouldEqual, 1)
			})

			Convey("And a second run skips every message as a duplicate", func() {
				again, err := runner.Run(ctx)
				So(err, ShouldBeNil)
				So(again.Total, ShouldEqual, 0)
				So(again.Skipped, ShouldEqual, 6)
			})
		})

		Convey("When the service is unreachable", func() {
			runner := corpus.NewRunner(corpus.Config{Path: yamlCorpus, URL: "http://127.0.0.1:1", Timeout: time.Second})
			_, err := runner.Run(ctx)

			Convey("Then the health check fails", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "health check")
			})
		})
	})
}

func TestSummary(t *testing.T) {
	Convey("Given results with a mismatch", t, func() {
		results := []roundtrip.Result{
			{ID: "b", Family: model.FamilyGame, Kind: "Pitch", Outcome: roundtrip.OutcomeMatched, Offset: -1},
			{ID: "c", Family: model.FamilyGame, Kind: "Pitch", Outcome: roundtrip.OutcomeParseError, Text: "Ball. two-one."},
			{ID: "a", Family: model.FamilyTeam, Kind: "Lottery", Event: "Lottery", Outcome: roundtrip.OutcomeMismatch,
				Text: "Won 300 coins", Unparsed: "Won 30 coins", Offset: 6},
		}
		summary := corpus.Summarize(results, time.Second)

		Convey("Then the run is not OK", func() {
			So(summary.Mismatches(), ShouldEqual, 1)
			So(summary.OK(), ShouldBeFalse)
			So(summary.Failures[0].ID, ShouldEqual, "a")
		})

		Convey("When it is written", func() {
			var buf bytes.Buffer
			summary.Write(&buf, false)
			out := buf.String()

			Convey("Then the mismatch is shown with its divergence", func() {
				So(out, ShouldContainSubstring, "checked 3 messages")
				So(out, ShouldContainSubstring, "mismatch a [team Lottery] Lottery")
				So(out, ShouldContainSubstring, `diverges at byte 6: "0 coins" vs " coins"`)
				So(out, ShouldNotContainSubstring, "Ball. two-one.")
			})
		})

		Convey("When it is written verbosely", func() {
			var buf bytes.Buffer
			summary.Write(&buf, true)

			Convey("Then parse errors are listed too", func() {
				So(buf.String(), ShouldContainSubstring, "Ball. two-one.")
			})
		})
	})
}
