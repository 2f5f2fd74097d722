// Package orf models candidate open reading frames from a ribotricer index.
package orf

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Strands accepted in the index.
const (
	StrandPlus  = "+"
	StrandMinus = "-"
)

// indexFields is the column count of an index line.
const indexFields = 10

// Interval is a 1-based, inclusive genomic span.
type Interval struct {
	Start int
	End   int
}

// Len returns the number of nucleotides in the interval.
func (iv Interval) Len() int {
	return iv.End - iv.Start + 1
}

// ORF is one candidate open reading frame.
type ORF struct {
	ID             string // tid_start_end_length
	Category       string // annotated, uORF, dORF, ...
	TranscriptID   string
	TranscriptType string
	GeneID         string
	GeneName       string
	GeneType       string
	Chrom          string
	Strand         string
	Intervals      []Interval // sorted by Start
	Seq            string     // optional nucleotide sequence
}

// New builds an ORF, sorting intervals by start and deriving its ID.
func New(category, transcriptID, transcriptType, geneID, geneName, geneType, chrom, strand string, intervals []Interval) ORF {
	ivs := make([]Interval, len(intervals))
	copy(ivs, intervals)
	sort.SliceStable(ivs, func(i, j int) bool { return ivs[i].Start < ivs[j].Start })

	o := ORF{
		Category:       category,
		TranscriptID:   transcriptID,
		TranscriptType: transcriptType,
		GeneID:         geneID,
		GeneName:       geneName,
		GeneType:       geneType,
		Chrom:          chrom,
		Strand:         strand,
		Intervals:      ivs,
	}
	o.ID = fmt.Sprintf("%s_%d_%d_%d", transcriptID, o.Start(), o.End(), o.Length())
	return o
}

// Start is the leftmost genomic coordinate, or 0 without intervals.
func (o ORF) Start() int {
	if len(o.Intervals) == 0 {
		return 0
	}
	return o.Intervals[0].Start
}

// End is the rightmost genomic coordinate of the last interval.
func (o ORF) End() int {
	if len(o.Intervals) == 0 {
		return 0
	}
	return o.Intervals[len(o.Intervals)-1].End
}

// Length sums the interval lengths.
func (o ORF) Length() int {
	n := 0
	for _, iv := range o.Intervals {
		n += iv.Len()
	}
	return n
}

// StartCodon returns the first three bases of Seq. ok is false when the
// sequence is shorter than a codon, which is always the case for ORFs read
// from an index.
func (o ORF) StartCodon() (codon string, ok bool) {
	if len(o.Seq) < 3 {
		return "", false
	}
	return o.Seq[:3], true
}

// ParseLine parses one tab-separated index line:
//
//	ORF_ID ORF_type transcript_id transcript_type gene_id gene_name gene_type chrom strand coordinate
//
// coordinate is a comma-separated list of start-end pairs. The ORF ID is
// rebuilt from the transcript and the coordinates.
func ParseLine(line string) (ORF, error) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return ORF{}, fmt.Errorf("%w: empty line", ErrMalformedIndex)
	}

	fields := strings.Split(line, "\t")
	if len(fields) != indexFields {
		return ORF{}, fmt.Errorf("%w: expected %d columns, found %d", ErrMalformedIndex, indexFields, len(fields))
	}

	strand := fields[8]
	if strand != StrandPlus && strand != StrandMinus {
		return ORF{}, fmt.Errorf("%w: unknown strand %q", ErrMalformedIndex, strand)
	}

	intervals, err := parseCoordinates(fields[9])
	if err != nil {
		return ORF{}, err
	}

	return New(fields[1], fields[2], fields[3], fields[4], fields[5], fields[6], fields[7], strand, intervals), nil
}

func parseCoordinates(s string) ([]Interval, error) {
	groups := strings.Split(s, ",")
	out := make([]Interval, 0, len(groups))
	for _, g := range groups {
		start, end, found := strings.Cut(g, "-")
		if !found {
			return nil, fmt.Errorf("%w: bad interval %q", ErrMalformedIndex, g)
		}
		a, err := strconv.Atoi(start)
		if err != nil {
			return nil, fmt.Errorf("%w: bad start in %q", ErrMalformedIndex, g)
		}
		b, err := strconv.Atoi(end)
		if err != nil {
			return nil, fmt.Errorf("%w: bad end in %q", ErrMalformedIndex, g)
		}
		if b < a {
			return nil, fmt.Errorf("%w: interval %q ends before it starts", ErrMalformedIndex, g)
		}
		out = append(out, Interval{Start: a, End: b})
	}
	return out, nil
}
