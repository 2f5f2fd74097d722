// Package config defines run configuration and its loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"context"
	"fmt"
	"runtime"

	"github.com/okian/ribophase/internal/domain/scoring"
)

// Profile modes accepted by the profile key.
const (
	ProfileOff = ""
	ProfileCPU = "cpu"
	ProfileMem = "mem"
)

// ReadLengthTrack is the offset-uncorrected coverage of a single read
// length, shifted by Offset before merging.
type ReadLengthTrack struct {
	Length int    `koanf:"length"`
	Offset int    `koanf:"offset"`
	PosWig string `koanf:"pos_wig"`
	NegWig string `koanf:"neg_wig"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Index is the ORF index TSV produced by prepare-orfs.
	Index string `koanf:"index"`

	// PosWig and NegWig hold merged P-site coverage per strand.
	PosWig string `koanf:"pos_wig"`
	NegWig string `koanf:"neg_wig"`

	// ReadLengthTracks replace PosWig/NegWig when set.
	ReadLengthTracks []ReadLengthTrack `koanf:"read_length_tracks"`

	// Prefix names every output file.
	Prefix string `koanf:"prefix"`

	// ReportAll writes nontranslating ORFs too.
	ReportAll bool `koanf:"report_all"`

	PhaseScoreCutoff    float64 `koanf:"phase_score_cutoff"`
	MinValidCodons      int     `koanf:"min_valid_codons"`
	MinReadsPerCodon    int     `koanf:"min_reads_per_codon"`
	MinValidCodonsRatio float64 `koanf:"min_valid_codons_ratio"`
	MinDensityOverORF   float64 `koanf:"min_density_over_orf"`

	// Flank5p and Flank3p extend the extracted profile around each ORF.
	Flank5p int `koanf:"flank_5p"`
	Flank3p int `koanf:"flank_3p"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory job queue.
	QueueSize int `koanf:"queue_size"`

	// ExportWig writes the merged coverage next to the output table.
	ExportWig bool `koanf:"export_wig"`

	// MetricsPath receives a Prometheus textfile at the end of the run.
	MetricsPath string `koanf:"metrics_path"`

	// Profile enables cpu or mem profiling into ProfileDir.
	Profile    string `koanf:"profile"`
	ProfileDir string `koanf:"profile_dir"`
}

// New creates a Config with defaults. The context is reserved for loaders
// that need it.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Prefix:              "ribophase",
		PhaseScoreCutoff:    scoring.DefaultPhaseScoreCutoff,
		MinValidCodons:      scoring.DefaultMinValidCodons,
		MinReadsPerCodon:    scoring.DefaultMinReadsPerCodon,
		MinValidCodonsRatio: scoring.DefaultMinValidCodonsRatio,
		MinDensityOverORF:   scoring.DefaultMinDensityOverORF,
		WorkerCount:         runtime.NumCPU(),
		QueueSize:           4096,
		ProfileDir:          ".",
	}
}

// Thresholds returns the scoring gates carried by c.
func (c *Config) Thresholds() scoring.Thresholds {
	return scoring.Thresholds{
		PhaseScoreCutoff:    c.PhaseScoreCutoff,
		MinValidCodons:      c.MinValidCodons,
		MinReadsPerCodon:    c.MinReadsPerCodon,
		MinValidCodonsRatio: c.MinValidCodonsRatio,
		MinDensityOverORF:   c.MinDensityOverORF,
	}
}

// Offsets maps each read length track to its P-site offset.
func (c *Config) Offsets() map[int]int {
	offsets := make(map[int]int, len(c.ReadLengthTracks))
	for _, t := range c.ReadLengthTracks {
		offsets[t.Length] = t.Offset
	}
	return offsets
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	switch {
	case c.Index == "":
		return fmt.Errorf("%w: index must not be empty", ErrInvalidConfig)
	case c.Prefix == "":
		return fmt.Errorf("%w: prefix must not be empty", ErrInvalidConfig)
	case len(c.ReadLengthTracks) == 0 && (c.PosWig == "" || c.NegWig == ""):
		return fmt.Errorf("%w: pos_wig and neg_wig are required without read_length_tracks", ErrInvalidConfig)
	case c.PhaseScoreCutoff < 0 || c.PhaseScoreCutoff > 1:
		return fmt.Errorf("%w: phase_score_cutoff %v outside [0, 1]", ErrInvalidConfig, c.PhaseScoreCutoff)
	case c.MinValidCodons < 0 || c.MinReadsPerCodon < 0:
		return fmt.Errorf("%w: codon minimums must not be negative", ErrInvalidConfig)
	case c.MinValidCodonsRatio < 0 || c.MinValidCodonsRatio > 1:
		return fmt.Errorf("%w: min_valid_codons_ratio %v outside [0, 1]", ErrInvalidConfig, c.MinValidCodonsRatio)
	case c.MinDensityOverORF < 0:
		return fmt.Errorf("%w: min_density_over_orf must not be negative", ErrInvalidConfig)
	case c.Flank5p < 0 || c.Flank3p < 0:
		return fmt.Errorf("%w: flanks must not be negative", ErrInvalidConfig)
	case c.WorkerCount < 0:
		return fmt.Errorf("%w: worker_count must not be negative", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	case c.Profile != ProfileOff && c.Profile != ProfileCPU && c.Profile != ProfileMem:
		return fmt.Errorf("%w: profile %q", ErrInvalidConfig, c.Profile)
	}

	seen := make(map[int]bool, len(c.ReadLengthTracks))
	for _, t := range c.ReadLengthTracks {
		if t.Length <= 0 || t.PosWig == "" || t.NegWig == "" {
			return fmt.Errorf("%w: read length track %d needs a length and both wig files", ErrInvalidConfig, t.Length)
		}
		if seen[t.Length] {
			return fmt.Errorf("%w: read length %d listed twice", ErrInvalidConfig, t.Length)
		}
		seen[t.Length] = true
	}
	return nil
}
