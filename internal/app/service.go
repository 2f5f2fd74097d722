// Package service wires index parsing, coverage extraction, the scoring
// worker pool and the output writers into a single detection run.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	eventqueue "github.com/okian/ribophase/internal/adapters/mq/queue"
	workerpool "github.com/okian/ribophase/internal/adapters/mq/worker"
	repository "github.com/okian/ribophase/internal/adapters/repository"
	"github.com/okian/ribophase/internal/adapters/tsv"
	"github.com/okian/ribophase/internal/adapters/wig"
	"github.com/okian/ribophase/internal/config"
	"github.com/okian/ribophase/internal/domain/coverage"
	"github.com/okian/ribophase/internal/domain/dedupe"
	"github.com/okian/ribophase/internal/domain/model"
	"github.com/okian/ribophase/internal/domain/orf"
	"github.com/okian/ribophase/internal/domain/scoring"
	"github.com/okian/ribophase/internal/domain/types"
	"github.com/okian/ribophase/pkg/logger"
	"github.com/okian/ribophase/pkg/metrics"
)

// topScoresLogged is how many of the best ORFs are logged after a run.
const topScoresLogged = 5

// Service runs ORF detection for one configuration.
type Service struct {
	cfg    *config.Config
	scorer scoring.Scorer
	logger logger.Logger
	now    func() time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithScorer replaces the phase scorer built from the config thresholds.
func WithScorer(scorer scoring.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// WithClock sets the time source used for run timing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service for cfg.
func New(cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		cfg: cfg,
		scorer: scoring.NewPhaseScorer(
			scoring.WithThresholds(cfg.Thresholds()),
			scoring.WithReportAll(cfg.ReportAll),
		),
		now: time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Run scores every ORF of the index and writes the reported ones to
// <prefix>_translating_ORFs.tsv in index order.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	start := s.now()
	runID := uuid.NewString()
	log := s.logger.With(logger.String("run_id", runID))
	metrics.Init(metrics.WithCustomLabels(map[string]string{"run_id": runID}))

	log.Info(ctx, "starting detection run",
		logger.String("index", s.cfg.Index),
		logger.String("prefix", s.cfg.Prefix),
		logger.Int("workers", s.cfg.WorkerCount),
	)

	alignments, err := s.loadAlignments(ctx, log)
	if err != nil {
		metrics.RecordErrorByComponent("service", "load_coverage")
		return Summary{}, err
	}

	if err := ensureDir(s.cfg.Prefix); err != nil {
		return Summary{}, err
	}
	if s.cfg.ExportWig {
		if err := wig.Export(s.cfg.Prefix, alignments); err != nil {
			metrics.RecordErrorByComponent("service", "export_wig")
			return Summary{}, fmt.Errorf("export merged coverage: %w", err)
		}
		pos, neg := wig.FileNames(s.cfg.Prefix)
		log.Info(ctx, "exported merged coverage", logger.String("pos", pos), logger.String("neg", neg))
	}

	index, err := os.Open(s.cfg.Index)
	if err != nil {
		metrics.RecordErrorByComponent("service", "open_index")
		return Summary{}, fmt.Errorf("open index: %w", err)
	}
	defer index.Close()

	// The queue size doubles as a pre-size hint; both grow past it.
	store := repository.NewMemoryStore(
		repository.WithExpectedSize(s.cfg.QueueSize),
		repository.WithoutUnreportedProfiles(),
	)
	deduper := dedupe.NewInMemoryDeduper(dedupe.WithExpectedSize(s.cfg.QueueSize))
	queue := eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.cfg.QueueSize))
	pool := workerpool.NewPool(s.cfg.WorkerCount, queue, s.scorer, store)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer queue.Close()
		return s.produce(gctx, log, orf.NewReader(index), alignments, deduper, queue)
	})
	g.Go(func() error {
		return pool.Run(gctx)
	})
	if err := g.Wait(); err != nil {
		metrics.RecordErrorByComponent("service", "scoring")
		return Summary{}, err
	}

	output := tsv.FileName(s.cfg.Prefix)
	records := store.Ordered(ctx)
	reported, err := writeTable(output, records)
	if err != nil {
		metrics.RecordErrorByComponent("service", "write_output")
		return Summary{}, err
	}

	summary := summarize(records)
	summary.RunID = runID
	summary.Output = output
	summary.Reported = reported
	summary.Duplicates = deduper.Duplicates()
	summary.Duration = s.now().Sub(start)

	top, err := store.TopN(ctx, topScoresLogged)
	if err != nil {
		return Summary{}, err
	}
	for i, rec := range top {
		log.Debug(ctx, "top phase score",
			logger.Int("rank", i+1),
			logger.String("orf_id", rec.ORF.ID),
			logger.Float64("phase_score", rec.PhaseScore),
		)
	}
	summary.log(ctx, log)

	metrics.RecordRunCompleted(summary.Duration.Seconds(), s.now().Unix())
	if s.cfg.MetricsPath != "" {
		if err := metrics.WriteTextfile(s.cfg.MetricsPath); err != nil {
			return summary, fmt.Errorf("write metrics: %w", err)
		}
	}
	return summary, nil
}

// produce streams the index into the queue. Repeated ORF IDs are logged and
// counted but still scored.
func (s *Service) produce(
	ctx context.Context,
	log logger.Logger,
	reader *orf.Reader,
	alignments coverage.Alignments,
	deduper dedupe.Deduper,
	queue eventqueue.Queue,
) error {
	var seq int64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		o, err := reader.Next()
		if errors.Is(err, io.EOF) {
			log.Info(ctx, "index read", logger.Int("orfs", int(seq)))
			return nil
		}
		if err != nil {
			metrics.RecordErrorByComponent("index", "malformed_line")
			return err
		}
		metrics.RecordIndexLine()

		if deduper.SeenAndRecord(ctx, o.ID) {
			metrics.RecordDuplicateORF()
			log.Warn(ctx, "duplicate ORF ID in index",
				logger.String("orf_id", o.ID),
				logger.Int("line", reader.Line()),
			)
		}

		job := model.Job{
			Seq:      seq,
			ORF:      o,
			Coverage: coverage.ORFCoverage(o, alignments, s.cfg.Flank5p, s.cfg.Flank3p),
		}
		if err := queue.Enqueue(ctx, job); err != nil {
			return err
		}
		seq++
	}
}

func (s *Service) loadAlignments(ctx context.Context, log logger.Logger) (coverage.Alignments, error) {
	if len(s.cfg.ReadLengthTracks) == 0 {
		a, err := wig.Load(s.cfg.PosWig, s.cfg.NegWig)
		if err != nil {
			return nil, fmt.Errorf("load coverage: %w", err)
		}
		log.Info(ctx, "loaded coverage", logger.Int("sites", a.Sites()))
		return a, nil
	}

	byLength := make(map[int]coverage.Alignments, len(s.cfg.ReadLengthTracks))
	for _, t := range s.cfg.ReadLengthTracks {
		a, err := wig.Load(t.PosWig, t.NegWig)
		if err != nil {
			return nil, fmt.Errorf("load read length %d: %w", t.Length, err)
		}
		byLength[t.Length] = a
		log.Debug(ctx, "loaded read length track",
			logger.Int("length", t.Length),
			logger.Int("offset", t.Offset),
			logger.Int("sites", a.Sites()),
		)
	}
	merged := coverage.MergeReadLengths(byLength, s.cfg.Offsets())
	log.Info(ctx, "merged read lengths",
		logger.Int("lengths", len(byLength)),
		logger.Int("sites", merged.Sites()),
	)
	return merged, nil
}

func writeTable(path string, records []types.Record) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create output: %w", err)
	}
	w := tsv.NewWriter(f)
	if err := w.WriteHeader(); err != nil {
		f.Close()
		return 0, fmt.Errorf("write output: %w", err)
	}
	for _, rec := range records {
		if !rec.Reported {
			continue
		}
		if err := w.Write(rec); err != nil {
			f.Close()
			return 0, fmt.Errorf("write output: %w", err)
		}
		metrics.RecordORFReported()
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return 0, fmt.Errorf("write output: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close output: %w", err)
	}
	return w.Rows(), nil
}

func ensureDir(prefix string) error {
	dir := filepath.Dir(prefix)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}
