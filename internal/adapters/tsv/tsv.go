// Package tsv writes the translating-ORFs table.
package tsv

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/okian/ribophase/internal/domain/types"
)

// Columns is the output header, in order.
var Columns = []string{
	"ORF_ID",
	"ORF_type",
	"status",
	"phase_score",
	"read_count",
	"length",
	"valid_codons",
	"valid_codons_ratio",
	"read_density",
	"transcript_id",
	"transcript_type",
	"gene_id",
	"gene_name",
	"gene_type",
	"chrom",
	"strand",
	"start_codon",
	"profile",
}

// missingStartCodon fills start_codon when the ORF has no sequence.
const missingStartCodon = "None"

// FileName returns the output path for prefix.
func FileName(prefix string) string {
	return prefix + "_translating_ORFs.tsv"
}

// Writer emits the header once and one row per record.
type Writer struct {
	w      *bufio.Writer
	header bool
	rows   int
}

// NewWriter returns a buffered Writer over w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write appends rec, writing the header first if needed.
func (w *Writer) Write(rec types.Record) error {
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if _, err := w.w.WriteString(FormatRow(rec)); err != nil {
		return fmt.Errorf("write row %s: %w", rec.ORF.ID, err)
	}
	w.rows++
	return nil
}

// WriteHeader writes the header line. Later calls are no-ops.
func (w *Writer) WriteHeader() error {
	if w.header {
		return nil
	}
	w.header = true
	if _, err := w.w.WriteString(strings.Join(Columns, "\t") + "\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

// Rows is the number of data rows written.
func (w *Writer) Rows() int {
	return w.rows
}

// Flush writes buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// FormatRow renders rec as a tab-separated line with a trailing newline.
func FormatRow(rec types.Record) string {
	o := rec.ORF
	codon, ok := o.StartCodon()
	if !ok {
		codon = missingStartCodon
	}
	fields := []string{
		o.ID,
		o.Category,
		string(rec.Status),
		FormatFloat(rec.PhaseScore),
		strconv.Itoa(rec.ReadCount),
		strconv.Itoa(rec.Length),
		strconv.Itoa(rec.ValidCodons),
		FormatFloat(rec.ValidCodonsRatio),
		FormatFloat(rec.ReadDensity),
		o.TranscriptID,
		o.TranscriptType,
		o.GeneID,
		o.GeneName,
		o.GeneType,
		o.Chrom,
		o.Strand,
		codon,
		FormatProfile(rec.Profile),
	}
	return strings.Join(fields, "\t") + "\n"
}

// FormatFloat renders f as the shortest round-tripping decimal, always
// with a fractional part or exponent: 1 is "1.0", 1e-05 stays "1e-05".
// Exponent form is used below 1e-4 and from 1e16.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// FormatProfile renders coverage as "[a, b, c]".
func FormatProfile(cov []int) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, c := range cov {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(c))
	}
	b.WriteByte(']')
	return b.String()
}
