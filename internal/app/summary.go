package service

import (
	"context"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/okian/ribophase/internal/domain/types"
	"github.com/okian/ribophase/pkg/logger"
)

// Summary describes a finished run.
type Summary struct {
	RunID       string
	Output      string
	ORFs        int
	Translating int
	Reported    int
	Duplicates  int64
	Duration    time.Duration

	// Phase score and read density statistics over every scored ORF.
	MeanPhaseScore   float64
	MedianPhaseScore float64
	P90PhaseScore    float64
	MeanReadDensity  float64
}

func summarize(records []types.Record) Summary {
	sum := Summary{ORFs: len(records)}
	if len(records) == 0 {
		return sum
	}

	scores := make(stats.Float64Data, 0, len(records))
	densities := make(stats.Float64Data, 0, len(records))
	for _, rec := range records {
		if rec.Status.Translating() {
			sum.Translating++
		}
		scores = append(scores, rec.PhaseScore)
		densities = append(densities, rec.ReadDensity)
	}

	// stats only errors on empty input.
	sum.MeanPhaseScore, _ = stats.Mean(scores)
	sum.MedianPhaseScore, _ = stats.Median(scores)
	sum.P90PhaseScore, _ = stats.Percentile(scores, 90)
	sum.MeanReadDensity, _ = stats.Mean(densities)
	return sum
}

func (s Summary) log(ctx context.Context, l logger.Logger) {
	l.Info(ctx, "detection run finished",
		logger.String("output", s.Output),
		logger.Int("orfs", s.ORFs),
		logger.Int("translating", s.Translating),
		logger.Int("reported", s.Reported),
		logger.Int("duplicates", int(s.Duplicates)),
		logger.Float64("mean_phase_score", s.MeanPhaseScore),
		logger.Float64("median_phase_score", s.MedianPhaseScore),
		logger.Float64("p90_phase_score", s.P90PhaseScore),
		logger.Float64("mean_read_density", s.MeanReadDensity),
		logger.Duration("duration", s.Duration),
	)
}
