package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/mmolbparse/internal/adapters/mq/worker"
	"github.com/okian/mmolbparse/internal/domain/model"
	"github.com/okian/mmolbparse/internal/domain/roundtrip"
	logging "github.com/okian/mmolbparse/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockQueue struct {
	ch chan model.Message
}

func newMockQueue() *mockQueue {
	return &mockQueue{ch: make(chan model.Message, 10)}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan model.Message {
	return mq.ch
}

func (mq *mockQueue) Close() error {
	close(mq.ch)
	return nil
}

type mockChecker struct {
	outcome roundtrip.Outcome
}

func (mc *mockChecker) Check(ctx context.Context, msg model.Message) roundtrip.Result {
	outcome := mc.outcome
	if outcome == "" {
		outcome = roundtrip.OutcomeMatched
	}
	return roundtrip.Result{
		ID:       msg.ID,
		Family:   msg.Family,
		Kind:     msg.Kind,
		Outcome:  outcome,
		Text:     msg.Text,
		Unparsed: msg.Text,
		Offset:   -1,
	}
}

type mockSaver struct {
	mu      sync.Mutex
	results map[string]roundtrip.Result
	err     error
}

func newMockSaver() *mockSaver {
	return &mockSaver{results: make(map[string]roundtrip.Result)}
}

func (ms *mockSaver) Save(ctx context.Context, res roundtrip.Result) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.err != nil {
		return ms.err
	}
	ms.results[res.ID] = res
	return nil
}

func (ms *mockSaver) count() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.results)
}

func (ms *mockSaver) get(id string) (roundtrip.Result, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	r, ok := ms.results[id]
	return r, ok
}

func message(id string) model.Message {
	return model.Message{ID: id, Family: model.FamilyGame, Kind: "Pitch", Text: "Ball. 2-1."}
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestInMemoryWorker(t *testing.T) {
	if err := logging.Init(); err != nil {
		t.Fatalf("init logger: %v", err)
	}

	convey.Convey("Given a worker with a mock queue, checker and saver", t, func() {
		q := newMockQueue()
		saver := newMockSaver()
		w := worker.NewInMemoryWorker(q, &mockChecker{}, saver,
			worker.WithName("test-worker"),
			worker.WithLogger(logging.NewDiscard()),
		)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		convey.Convey("When messages are queued", func() {
			go w.Run(ctx)
			q.ch <- message("m1")
			q.ch <- message("m2")

			convey.Convey("Then each result is saved", func() {
				convey.So(waitFor(func() bool { return saver.count() == 2 }), convey.ShouldBeTrue)
				res, ok := saver.get("m1")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(res.Outcome, convey.ShouldEqual, roundtrip.OutcomeMatched)
			})
		})

		convey.Convey("When the queue is closed", func() {
			done := make(chan struct{})
			go func() {
				w.Run(ctx)
				close(done)
			}()
			_ = q.Close()

			convey.Convey("Then the worker returns", func() {
				select {
				case <-done:
				case <-time.After(time.Second):
					t.Error("worker did not stop after the queue closed")
				}
			})
		})

		convey.Convey("When Shutdown is called on a running worker", func() {
			go w.Run(ctx)
			shutdownCtx, stop := context.WithTimeout(context.Background(), time.Second)
			defer stop()

			convey.Convey("Then it stops without error", func() {
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("Given a saver that fails", t, func() {
		q := newMockQueue()
		saver := newMockSaver()
		saver.err = errors.New("disk full")
		w := worker.NewInMemoryWorker(q, &mockChecker{outcome: roundtrip.OutcomeMismatch}, saver,
			worker.WithLogger(logging.NewDiscard()),
		)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		convey.Convey("When a message is processed", func() {
			go w.Run(ctx)
			q.ch <- message("m1")
			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then nothing is stored and the worker keeps running", func() {
				convey.So(saver.count(), convey.ShouldEqual, 0)
				shutdownCtx, stop := context.WithTimeout(context.Background(), time.Second)
				defer stop()
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	if err := logging.Init(); err != nil {
		t.Fatalf("init logger: %v", err)
	}

	convey.Convey("Given a pool of three workers", t, func() {
		q := newMockQueue()
		saver := newMockSaver()
		pool := worker.NewPool(3, q, &mockChecker{}, saver)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		convey.So(pool.Size(), convey.ShouldEqual, 3)

		convey.Convey("When it processes messages and shuts down", func() {
			pool.Start(ctx)
			for _, id := range []string{"a", "b", "c", "d", "e"} {
				q.ch <- message(id)
			}
			convey.So(waitFor(func() bool { return pool.Processed() == 5 }), convey.ShouldBeTrue)
			err := pool.Shutdown(context.Background())

			convey.Convey("Then all results are saved", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(saver.count(), convey.ShouldEqual, 5)
			})
		})
	})

	convey.Convey("Given a pool with no explicit size", t, func() {
		pool := worker.NewPool(0, newMockQueue(), &mockChecker{}, newMockSaver())

		convey.Convey("Then it sizes itself from the CPU count", func() {
			convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
		})
	})

	convey.Convey("Given a started pool", t, func() {
		q := newMockQueue()
		pool := worker.NewPool(2, q, &mockChecker{}, newMockSaver())
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.Convey("When Stop is called", func() {
			done := make(chan struct{})
			go func() {
				pool.Stop()
				close(done)
			}()

			convey.Convey("Then it returns", func() {
				select {
				case <-done:
				case <-time.After(2 * time.Second):
					t.Error("pool did not stop")
				}
			})
		})
	})
}
