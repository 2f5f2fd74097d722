// Package scoring classifies ORFs as translating from their coverage
// periodicity.
package scoring

import (
	"context"
	"fmt"

	"github.com/okian/ribophase/internal/domain/coverage"
	"github.com/okian/ribophase/internal/domain/orf"
	"github.com/okian/ribophase/internal/domain/periodicity"
	"github.com/okian/ribophase/internal/domain/types"
)

// Default gate values.
const (
	DefaultPhaseScoreCutoff    = 0.4275
	DefaultMinValidCodons      = 5
	DefaultMinReadsPerCodon    = 0
	DefaultMinValidCodonsRatio = 0
	DefaultMinDensityOverORF   = 0
)

// Thresholds are the gates an ORF must pass to be called translating. All
// comparisons are inclusive.
type Thresholds struct {
	PhaseScoreCutoff    float64
	MinValidCodons      int
	MinReadsPerCodon    int
	MinValidCodonsRatio float64
	MinDensityOverORF   float64
}

// DefaultThresholds returns the stock gates.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PhaseScoreCutoff:    DefaultPhaseScoreCutoff,
		MinValidCodons:      DefaultMinValidCodons,
		MinReadsPerCodon:    DefaultMinReadsPerCodon,
		MinValidCodonsRatio: DefaultMinValidCodonsRatio,
		MinDensityOverORF:   DefaultMinDensityOverORF,
	}
}

// Option applies a configuration option to the PhaseScorer.
type Option func(*PhaseScorer)

// WithThresholds replaces the default gates.
func WithThresholds(t Thresholds) Option {
	return func(s *PhaseScorer) {
		s.thresholds = t
	}
}

// WithReportAll keeps nontranslating ORFs in the report.
func WithReportAll(all bool) Option {
	return func(s *PhaseScorer) {
		s.reportAll = all
	}
}

// Input abstracts the job fields needed for scoring.
type Input struct {
	Seq      int64
	ORF      orf.ORF
	Coverage []int
}

// Scorer computes a scored record from an input.
type Scorer interface {
	// Score computes a record, honoring ctx for cancellation.
	Score(ctx context.Context, in Input) (types.Record, error)
}

// PhaseScorer implements Scorer with the coherence estimator. It holds no
// mutable state and is safe for concurrent use.
type PhaseScorer struct {
	thresholds Thresholds
	reportAll  bool
}

// NewPhaseScorer creates a scorer with default thresholds.
func NewPhaseScorer(opts ...Option) *PhaseScorer {
	s := &PhaseScorer{thresholds: DefaultThresholds()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Thresholds returns the gates in use.
func (s *PhaseScorer) Thresholds() Thresholds {
	return s.thresholds
}

// Score computes the phase score and classification of one ORF.
func (s *PhaseScorer) Score(ctx context.Context, in Input) (types.Record, error) {
	if err := ctx.Err(); err != nil {
		return types.Record{}, fmt.Errorf("context cancelled: %w", err)
	}

	coh := periodicity.Coherence(in.Coverage)
	codonCoverage := coverage.CollapseToCodons(in.Coverage)

	length := len(in.Coverage)
	readCount := 0
	for _, c := range in.Coverage {
		readCount += c
	}

	nCodons := length / 3
	var ratio, density float64
	if nCodons > 0 {
		codonReads := 0
		for _, c := range codonCoverage {
			codonReads += c
		}
		ratio = float64(coh.Codons()) / float64(nCodons)
		density = float64(codonReads) / float64(nCodons)
	}

	status := types.StatusNontranslating
	if s.passes(coh, codonCoverage, ratio, density) {
		status = types.StatusTranslating
	}

	return types.Record{
		Seq:              in.Seq,
		ORF:              in.ORF,
		Status:           status,
		PhaseScore:       coh.Score,
		PValue:           coh.PValue,
		ReadCount:        readCount,
		Length:           length,
		ValidCodons:      coh.ValidCodons,
		ValidCodonsRatio: ratio,
		ReadDensity:      density,
		Profile:          in.Coverage,
		Reported:         s.reportAll || status.Translating(),
	}, nil
}

func (s *PhaseScorer) passes(coh periodicity.Result, codonCoverage []int, ratio, density float64) bool {
	t := s.thresholds
	if coh.Score < t.PhaseScoreCutoff || coh.Codons() < t.MinValidCodons {
		return false
	}
	for _, c := range codonCoverage {
		if c < t.MinReadsPerCodon {
			return false
		}
	}
	return ratio >= t.MinValidCodonsRatio && density >= t.MinDensityOverORF
}
