// Package worker runs scoring jobs off the queue and stores the results.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/ribophase/internal/adapters/mq/queue"
	"github.com/okian/ribophase/internal/domain/scoring"
	"github.com/okian/ribophase/internal/domain/types"
	"github.com/okian/ribophase/pkg/logger"
	"github.com/okian/ribophase/pkg/metrics"
)

// Job abstracts what workers read off the queue.
type Job = queue.Job

// Scorer computes a record for a job.
type Scorer interface {
	Score(ctx context.Context, in scoring.Input) (types.Record, error)
}

// Recorder stores scored records.
type Recorder interface {
	Put(ctx context.Context, rec types.Record) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// InMemoryWorker scores jobs until the queue channel closes.
type InMemoryWorker struct {
	queue    Queue
	scorer   Scorer
	recorder Recorder
	name     string
	logger   logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, scorer Scorer, recorder Recorder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		scorer:   scorer,
		recorder: recorder,
		name:     "worker",
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run processes jobs until the queue is drained or ctx is cancelled. The
// first failing job stops the worker and its error is returned.
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
			if err := w.processJob(ctx, job); err != nil {
				return err
			}
		}
	}
}

func (w *InMemoryWorker) processJob(ctx context.Context, job Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	scoreStart := time.Now()
	rec, err := w.scorer.Score(ctx, scoring.Input{Seq: job.Seq, ORF: job.ORF, Coverage: job.Coverage})
	metrics.RecordScoringLatency(float64(time.Since(scoreStart).Microseconds()) / 1000)
	if err != nil {
		metrics.RecordScoringError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "scoring_error")
		w.logger.Error(ctx, "scoring failed",
			logger.String("orf_id", job.ORF.ID),
			logger.Error(err),
		)
		return fmt.Errorf("score ORF %s: %w", job.ORF.ID, err)
	}

	metrics.RecordORFScored(string(rec.Status))
	metrics.ObservePhaseScore(rec.PhaseScore)
	metrics.ObserveValidCodons(rec.ValidCodons / 3)

	if err := w.recorder.Put(ctx, rec); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		w.logger.Error(ctx, "storing record failed",
			logger.String("orf_id", job.ORF.ID),
			logger.Error(err),
		)
		return fmt.Errorf("store ORF %s: %w", job.ORF.ID, err)
	}

	w.logger.Debug(ctx, "scored ORF",
		logger.String("orf_id", rec.ORF.ID),
		logger.String("status", string(rec.Status)),
		logger.Float64("phase_score", rec.PhaseScore),
	)
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers; values below 1 use one
// worker per CPU.
func NewPool(workerCount int, queue Queue, scorer Scorer, recorder Recorder) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(queue, scorer, recorder, WithName("worker-"+strconv.Itoa(i)))
	}
	return pool
}

// Size is the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Run starts every worker and waits for all of them. The first worker
// error cancels the others and is returned.
func (p *Pool) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	metrics.UpdateWorkerActiveCount(len(p.workers))
	defer metrics.UpdateWorkerActiveCount(0)

	for _, w := range p.workers {
		w := w
		g.Go(func() error {
			return w.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		p.logger.Error(ctx, "worker pool stopped", logger.Error(err))
		return err
	}
	return nil
}
