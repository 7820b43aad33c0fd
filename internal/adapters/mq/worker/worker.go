// Package worker runs batches of recommendation queries over a pool of
// workers that share one engine.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/shortlist/internal/adapters/mq/queue"
	"github.com/okian/shortlist/internal/domain/types"
	"github.com/okian/shortlist/pkg/logger"
	"github.com/okian/shortlist/pkg/metrics"
)

const defaultQueueCapacity = 256

// Recommender ranks assessments for a query. *service.Engine satisfies it.
type Recommender interface {
	Recommend(ctx context.Context, q string, topK int) ([]types.Recommendation, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Result is the outcome of one job.
type Result struct {
	Job             queue.Job
	Recommendations []types.Recommendation
	Err             error
	Latency         time.Duration
}

// InMemoryWorker pulls jobs off a queue and hands each result to a sink.
type InMemoryWorker struct {
	queue       Queue
	recommender Recommender
	sink        func(Result)
	name        string

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, rec Recommender, sink func(Result), opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:       q,
		recommender: rec,
		sink:        sink,
		name:        "worker",
		logger:      logger.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run processes jobs until the queue is drained or ctx is canceled.
func (w *InMemoryWorker) Run(ctx context.Context) error {
	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job, ok := <-jobs:
			if !ok {
				return nil
			}
			w.sink(w.process(ctx, job))
		}
	}
}

func (w *InMemoryWorker) process(ctx context.Context, job queue.Job) Result {
	start := time.Now()
	recs, err := w.recommender.Recommend(ctx, job.Query, job.TopK)
	latency := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
		metrics.RecordErrorByType("batch_job", "medium")
		w.logger.Error(ctx, "batch job failed",
			logger.String("job_id", job.ID),
			logger.Int("index", job.Index),
			logger.Error(err),
		)
		err = fmt.Errorf("job %s: %w", job.ID, err)
	}
	metrics.RecordBatchJob(status, float64(latency.Milliseconds()))

	return Result{Job: job, Recommendations: recs, Err: err, Latency: latency}
}

// Pool fans a batch of queries out over a fixed number of workers.
type Pool struct {
	recommender   Recommender
	workers       int
	queueCapacity int

	logger logger.Logger
}

// NewPool creates a worker pool around rec.
func NewPool(rec Recommender, opts ...PoolOption) *Pool {
	p := &Pool{
		recommender:   rec,
		workers:       runtime.NumCPU(),
		queueCapacity: defaultQueueCapacity,
		logger:        logger.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.Named("worker-pool")
	return p
}

// Workers returns the configured worker count.
func (p *Pool) Workers() int { return p.workers }

// Run recommends for every query and returns results in input order. Per-job
// failures are reported in Result.Err; the returned error is set only when
// the batch itself was interrupted.
func (p *Pool) Run(ctx context.Context, queries []string, topK int) ([]Result, error) {
	results := make([]Result, len(queries))
	if len(queries) == 0 {
		return results, nil
	}
	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("run batch: %w", err)
	}

	q := queue.NewInMemoryQueue(queue.WithCapacity(p.queueCapacity))
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer func() { _ = q.Close() }()
		for i, text := range queries {
			if err := q.Put(gctx, queue.NewJob(i, text, topK)); err != nil {
				return fmt.Errorf("enqueue: %w", err)
			}
		}
		return nil
	})

	// Each index is written by exactly one worker.
	sink := func(r Result) { results[r.Job.Index] = r }

	metrics.UpdateBatchWorkers(p.workers)
	defer metrics.UpdateBatchWorkers(0)

	start := time.Now()
	for i := 0; i < p.workers; i++ {
		w := NewInMemoryWorker(q, p.recommender, sink,
			WithName("worker-"+strconv.Itoa(i)),
			WithLogger(p.logger),
		)
		g.Go(func() error { return w.Run(gctx) })
	}

	if err := g.Wait(); err != nil {
		p.logger.Warn(ctx, "batch interrupted", logger.Error(err))
		return results, fmt.Errorf("run batch: %w", err)
	}

	p.logger.Info(ctx, "batch complete",
		logger.Int("jobs", len(queries)),
		logger.Int("workers", p.workers),
		logger.Duration("elapsed", time.Since(start)),
	)
	return results, nil
}
