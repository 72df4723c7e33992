package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/mmolbparse/internal/adapters/http/api"
	"github.com/okian/mmolbparse/internal/adapters/mq/queue"
	"github.com/okian/mmolbparse/internal/adapters/repository"
	service "github.com/okian/mmolbparse/internal/app"
	"github.com/okian/mmolbparse/internal/domain/model"
	"github.com/okian/mmolbparse/internal/domain/roundtrip"
	. "github.com/smartystreets/goconvey/convey"
)

type mockDeps struct {
	enqueued []model.Message
	seen     map[string]bool
	fullAt   int // Enqueue fails with ErrFull once this many were accepted; 0 disables
	stopped  bool
	results  map[string]roundtrip.Result
	filter   repository.Filter
	storeErr error
}

func newMockDeps() *mockDeps {
	return &mockDeps{seen: map[string]bool{}, results: map[string]roundtrip.Result{}}
}

func (m *mockDeps) Enqueue(ctx context.Context, msg model.Message) (service.Ack, error) {
	if m.stopped {
		return service.Ack{}, service.ErrNotStarted
	}
	if msg.ID == "" {
		msg.ID = msg.Key()
	}
	if m.seen[msg.Key()] {
		return service.Ack{ID: msg.ID, Duplicate: true}, nil
	}
	if m.fullAt > 0 && len(m.enqueued) >= m.fullAt {
		return service.Ack{}, fmt.Errorf("enqueue %s: %w", msg.ID, queue.ErrFull)
	}
	m.seen[msg.Key()] = true
	m.enqueued = append(m.enqueued, msg)
	return service.Ack{ID: msg.ID}, nil
}

func (m *mockDeps) Parse(ctx context.Context, msg model.Message) (roundtrip.Result, error) {
	if err := msg.Validate(); err != nil {
		return roundtrip.Result{}, err
	}
	return roundtrip.NewChecker().Check(ctx, msg), nil
}

func (m *mockDeps) Unparse(ctx context.Context, msg model.Message, record json.RawMessage) (string, error) {
	return roundtrip.NewChecker().Unparse(msg, record)
}

func (m *mockDeps) Result(ctx context.Context, id string) (roundtrip.Result, error) {
	if m.storeErr != nil {
		return roundtrip.Result{}, m.storeErr
	}
	res, ok := m.results[id]
	if !ok {
		return roundtrip.Result{}, repository.ErrNotFound
	}
	return res, nil
}

func (m *mockDeps) Results(ctx context.Context, filter repository.Filter) ([]roundtrip.Result, error) {
	m.filter = filter
	if m.storeErr != nil {
		return nil, m.storeErr
	}
	var out []roundtrip.Result
	for _, res := range m.results {
		out = append(out, res)
	}
	return out, nil
}

type mockStats struct{}

func (mockStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true, "workerCount": 4}
}

func newMux(deps *mockDeps, opts ...api.Option) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, mockStats{}, opts...).Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

const pitchJSON = `{"family":"game","kind":"Pitch","text":"Ball. 2-1.","moment":{"season":4,"day":12,"index":3},` +
	`"home":{"emoji":"🦊","name":"Fox Valley Foxes"},"away":{"emoji":"🐦","name":"Stork City Storks"}}`

func TestParseEndpoints(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := newMockDeps()
		mux := newMux(deps)

		Convey("When a well-formed message is posted to /parse", func() {
			w := do(mux, http.MethodPost, "/parse", pitchJSON)

			Convey("Then the round trip matches", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Outcome  string          `json:"outcome"`
					Matched  bool            `json:"matched"`
					Unparsed string          `json:"unparsed"`
					Record   json.RawMessage `json:"record"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Matched, ShouldBeTrue)
				So(body.Outcome, ShouldEqual, "matched")
				So(body.Unparsed, ShouldEqual, "Ball. 2-1.")

				Convey("And the record prints back through /unparse", func() {
					req := fmt.Sprintf(`{"message":%s,"record":%s}`, pitchJSON, body.Record)
					w := do(mux, http.MethodPost, "/unparse", req)
					So(w.Code, ShouldEqual, http.StatusOK)
					So(w.Body.String(), ShouldContainSubstring, `"text":"Ball. 2-1."`)
				})
			})
		})

		Convey("When text the grammar cannot read is posted", func() {
			w := do(mux, http.MethodPost, "/parse", strings.Replace(pitchJSON, "2-1", "two-one", 1))

			Convey("Then it is a 200 with a parse_error outcome", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"outcome":"parse_error"`)
				So(w.Body.String(), ShouldContainSubstring, `"matched":false`)
			})
		})

		Convey("When the body is not JSON", func() {
			w := do(mux, http.MethodPost, "/parse", "{")

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "bad_request")
			})
		})

		Convey("When the message has no family", func() {
			w := do(mux, http.MethodPost, "/parse", `{"kind":"Pitch","text":"Ball. 2-1."}`)

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When /unparse gets no record", func() {
			w := do(mux, http.MethodPost, "/unparse", fmt.Sprintf(`{"message":%s}`, pitchJSON))

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When /parse is called with GET", func() {
			w := do(mux, http.MethodGet, "/parse", "")

			Convey("Then it is not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func batch(texts ...string) string {
	parts := make([]string, len(texts))
	for i, text := range texts {
		parts[i] = strings.Replace(pitchJSON, "Ball. 2-1.", text, 1)
	}
	return `{"messages":[` + strings.Join(parts, ",") + `]}`
}

func TestMessagesEndpoint(t *testing.T) {
	Convey("Given the API server", t, func() {
		deps := newMockDeps()
		mux := newMux(deps, api.WithMaxBatchSize(3))

		Convey("When a batch is posted", func() {
			w := do(mux, http.MethodPost, "/messages", batch("Ball. 2-1.", "Ball. 3-1."))

			Convey("Then it is accepted", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				So(w.Body.String(), ShouldContainSubstring, `"accepted":2`)
				So(len(deps.enqueued), ShouldEqual, 2)
			})

			Convey("And resubmitting reports duplicates", func() {
				w := do(mux, http.MethodPost, "/messages", batch("Ball. 2-1."))
				So(w.Code, ShouldEqual, http.StatusAccepted)
				So(w.Body.String(), ShouldContainSubstring, `"duplicates":1`)
				So(w.Body.String(), ShouldContainSubstring, `"duplicate":true`)
			})
		})

		Convey("When the queue fills mid-batch", func() {
			deps.fullAt = 1
			w := do(mux, http.MethodPost, "/messages", batch("Ball. 2-1.", "Ball. 3-1."))

			Convey("Then it is 429 and reports what was queued", func() {
				So(w.Code, ShouldEqual, http.StatusTooManyRequests)
				So(w.Body.String(), ShouldContainSubstring, "backpressure")
				So(w.Body.String(), ShouldContainSubstring, `"accepted":1`)
			})
		})

		Convey("When the service is stopped", func() {
			deps.stopped = true
			w := do(mux, http.MethodPost, "/messages", batch("Ball. 2-1."))

			Convey("Then it is unavailable", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			})
		})

		Convey("When one message in the batch is invalid", func() {
			body := `{"messages":[` + pitchJSON + `,{"family":"game","text":"x"}]}`
			w := do(mux, http.MethodPost, "/messages", body)

			Convey("Then nothing is queued", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "message 1")
				So(len(deps.enqueued), ShouldEqual, 0)
			})
		})

		Convey("When the batch is empty or too large", func() {
			empty := do(mux, http.MethodPost, "/messages", `{"messages":[]}`)
			large := do(mux, http.MethodPost, "/messages", batch("a.", "b.", "c.", "d."))

			Convey("Then both are bad requests", func() {
				So(empty.Code, ShouldEqual, http.StatusBadRequest)
				So(large.Code, ShouldEqual, http.StatusBadRequest)
				So(large.Body.String(), ShouldContainSubstring, "batch_too_large")
			})
		})
	})
}

func TestResultsEndpoints(t *testing.T) {
	Convey("Given the API server with one stored result", t, func() {
		deps := newMockDeps()
		deps.results["r1"] = roundtrip.Result{ID: "r1", Family: model.FamilyGame, Outcome: roundtrip.OutcomeMismatch, Offset: 3}
		mux := newMux(deps, api.WithMaxResultsLimit(50))

		Convey("When it is fetched by ID", func() {
			w := do(mux, http.MethodGet, "/results/r1", "")

			Convey("Then it is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"outcome":"mismatch"`)
			})
		})

		Convey("When an unknown ID is fetched", func() {
			w := do(mux, http.MethodGet, "/results/nope", "")

			Convey("Then it is not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the store fails", func() {
			deps.storeErr = fmt.Errorf("disk gone")
			w := do(mux, http.MethodGet, "/results/r1", "")

			Convey("Then it is an internal error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})

		Convey("When results are listed with filters", func() {
			w := do(mux, http.MethodGet, "/results?outcome=mismatch&family=game&limit=10", "")

			Convey("Then the filter reaches the store", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.filter.Outcome, ShouldEqual, roundtrip.OutcomeMismatch)
				So(deps.filter.Family, ShouldEqual, model.FamilyGame)
				So(deps.filter.Limit, ShouldEqual, 10)
			})
		})

		Convey("When results are listed without a limit", func() {
			do(mux, http.MethodGet, "/results", "")

			Convey("Then the default limit is used", func() {
				So(deps.filter.Limit, ShouldEqual, 50)
			})
		})

		Convey("When the filters are invalid", func() {
			badOutcome := do(mux, http.MethodGet, "/results?outcome=maybe", "")
			badFamily := do(mux, http.MethodGet, "/results?family=league", "")
			badLimit := do(mux, http.MethodGet, "/results?limit=0", "")
			bigLimit := do(mux, http.MethodGet, "/results?limit=51", "")

			Convey("Then each is a bad request", func() {
				So(badOutcome.Code, ShouldEqual, http.StatusBadRequest)
				So(badFamily.Code, ShouldEqual, http.StatusBadRequest)
				So(badLimit.Code, ShouldEqual, http.StatusBadRequest)
				So(bigLimit.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the store is empty", func() {
			delete(deps.results, "r1")
			w := do(mux, http.MethodGet, "/results", "")

			Convey("Then an empty array is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
			})
		})
	})
}

func TestHealthAndStats(t *testing.T) {
	Convey("Given the API server", t, func() {
		mux := newMux(newMockDeps())

		Convey("When /healthz is requested", func() {
			w := do(mux, http.MethodGet, "/healthz", "")

			Convey("Then Prometheus metrics are served", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "mmolb_parse_")
			})
		})

		Convey("When /stats is requested", func() {
			w := do(mux, http.MethodGet, "/stats", "")

			Convey("Then the provider's stats are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"workerCount":4`)
			})
		})

		Convey("When /stats is posted to", func() {
			w := do(mux, http.MethodPost, "/stats", "")

			Convey("Then it is not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}
