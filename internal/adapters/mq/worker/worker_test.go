package worker_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/shortlist/internal/adapters/mq/queue"
	"github.com/okian/shortlist/internal/adapters/mq/worker"
	"github.com/okian/shortlist/internal/domain/types"
	"github.com/okian/shortlist/pkg/logger"
)

var errBoom = errors.New("boom")

type mockRecommender struct {
	calls    atomic.Int64
	inflight atomic.Int64
	peak     atomic.Int64
	delay    time.Duration
}

func (m *mockRecommender) Recommend(ctx context.Context, q string, topK int) ([]types.Recommendation, error) {
	m.calls.Add(1)
	cur := m.inflight.Add(1)
	defer m.inflight.Add(-1)
	for {
		peak := m.peak.Load()
		if cur <= peak || m.peak.CompareAndSwap(peak, cur) {
			break
		}
	}

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if strings.Contains(q, "fail") {
		return nil, errBoom
	}
	out := make([]types.Recommendation, topK)
	for i := range out {
		out[i] = types.Recommendation{Name: q, URL: q + "/" + string(rune('a'+i))}
	}
	return out, nil
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker reading a closed queue", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		convey.So(q.Enqueue(ctx, queue.NewJob(0, "java", 2)), convey.ShouldBeTrue)
		convey.So(q.Enqueue(ctx, queue.NewJob(1, "fail please", 2)), convey.ShouldBeTrue)
		convey.So(q.Close(), convey.ShouldBeNil)

		var (
			mu  sync.Mutex
			got []worker.Result
		)
		rec := &mockRecommender{}
		w := worker.NewInMemoryWorker(q, rec, func(r worker.Result) {
			mu.Lock()
			got = append(got, r)
			mu.Unlock()
		}, worker.WithName("test-worker"), worker.WithLogger(logger.Nop()))

		convey.Convey("Run drains every job and returns nil", func() {
			convey.So(w.Run(ctx), convey.ShouldBeNil)
			convey.So(len(got), convey.ShouldEqual, 2)

			convey.So(got[0].Err, convey.ShouldBeNil)
			convey.So(len(got[0].Recommendations), convey.ShouldEqual, 2)

			convey.So(errors.Is(got[1].Err, errBoom), convey.ShouldBeTrue)
			convey.So(got[1].Err.Error(), convey.ShouldContainSubstring, got[1].Job.ID)
		})
	})

	convey.Convey("Given a worker on an open, empty queue", t, func() {
		q := queue.NewInMemoryQueue()
		w := worker.NewInMemoryWorker(q, &mockRecommender{}, func(worker.Result) {})

		convey.Convey("Run returns the context error on cancel", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- w.Run(ctx) }()
			cancel()

			select {
			case err := <-done:
				convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
			case <-time.After(time.Second):
				convey.So("worker did not stop", convey.ShouldBeEmpty)
			}
		})
	})
}

func TestPool_Run(t *testing.T) {
	convey.Convey("Given a pool of four workers", t, func() {
		rec := &mockRecommender{delay: 2 * time.Millisecond}
		pool := worker.NewPool(rec,
			worker.WithWorkers(4),
			worker.WithQueueCapacity(2),
			worker.WithPoolLogger(logger.Nop()),
		)
		convey.So(pool.Workers(), convey.ShouldEqual, 4)

		queries := []string{"java", "python", "fail now", "sql", "excel", "selenium", "css", "html"}

		convey.Convey("Results come back in input order", func() {
			results, err := pool.Run(context.Background(), queries, 3)
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(results), convey.ShouldEqual, len(queries))
			convey.So(rec.calls.Load(), convey.ShouldEqual, int64(len(queries)))

			ids := make(map[string]bool)
			for i, r := range results {
				convey.So(r.Job.Index, convey.ShouldEqual, i)
				convey.So(r.Job.Query, convey.ShouldEqual, queries[i])
				convey.So(ids[r.Job.ID], convey.ShouldBeFalse)
				ids[r.Job.ID] = true
				if queries[i] == "fail now" {
					convey.So(errors.Is(r.Err, errBoom), convey.ShouldBeTrue)
					continue
				}
				convey.So(r.Err, convey.ShouldBeNil)
				convey.So(len(r.Recommendations), convey.ShouldEqual, 3)
				convey.So(r.Recommendations[0].Name, convey.ShouldEqual, queries[i])
			}
		})

		convey.Convey("Workers run concurrently", func() {
			_, err := pool.Run(context.Background(), queries, 1)
			convey.So(err, convey.ShouldBeNil)
			convey.So(rec.peak.Load(), convey.ShouldBeGreaterThan, int64(1))
			convey.So(rec.peak.Load(), convey.ShouldBeLessThanOrEqualTo, int64(4))
		})

		convey.Convey("An empty batch returns immediately", func() {
			results, err := pool.Run(context.Background(), nil, 10)
			convey.So(err, convey.ShouldBeNil)
			convey.So(results, convey.ShouldBeEmpty)
		})

		convey.Convey("A canceled context interrupts the batch", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := pool.Run(ctx, queries, 3)
			convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given no worker count", t, func() {
		pool := worker.NewPool(&mockRecommender{}, worker.WithWorkers(0))
		convey.So(pool.Workers(), convey.ShouldBeGreaterThan, 0)
	})
}
