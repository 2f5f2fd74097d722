// Package wig reads and writes per-strand variableStep wiggle tracks of
// P-site coverage.
package wig

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/ribophase/internal/domain/coverage"
	"github.com/okian/ribophase/internal/domain/orf"
)

const (
	variableStep = "variableStep"
	fixedStep    = "fixedStep"
)

// FileNames returns the plus and minus strand wig paths for prefix.
func FileNames(prefix string) (pos, neg string) {
	return prefix + "_pos.wig", prefix + "_neg.wig"
}

// Read parses a variableStep track and adds its counts to a under strand.
// track, browser and comment lines are ignored. Values are rounded to the
// nearest integer count.
func Read(r io.Reader, strand string, a coverage.Alignments) error {
	sc := bufio.NewScanner(r)
	chrom := ""
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		switch {
		case text == "", strings.HasPrefix(text, "#"),
			strings.HasPrefix(text, "track"), strings.HasPrefix(text, "browser"):
			continue
		case strings.HasPrefix(text, fixedStep):
			return fmt.Errorf("line %d: %w: fixedStep is not supported", line, ErrMalformedWig)
		case strings.HasPrefix(text, variableStep):
			c, err := declaredChrom(text)
			if err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
			chrom = c
			continue
		}

		if chrom == "" {
			return fmt.Errorf("line %d: %w: data before variableStep", line, ErrMalformedWig)
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return fmt.Errorf("line %d: %w: expected position and value", line, ErrMalformedWig)
		}
		pos, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("line %d: %w: bad position %q", line, ErrMalformedWig, fields[0])
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || v < 0 {
			return fmt.Errorf("line %d: %w: bad value %q", line, ErrMalformedWig, fields[1])
		}
		a.Add(strand, chrom, pos, int(math.Round(v)))
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read wig: %w", err)
	}
	return nil
}

func declaredChrom(header string) (string, error) {
	for _, f := range strings.Fields(header)[1:] {
		if v, ok := strings.CutPrefix(f, "chrom="); ok && v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q has no chrom", ErrMalformedWig, header)
}

// Write emits the strand's counts as variableStep blocks, sorted by
// chromosome then position.
func Write(w io.Writer, a coverage.Alignments, strand string) error {
	sites := make([]coverage.Site, 0, len(a[strand]))
	for s := range a[strand] {
		sites = append(sites, s)
	}
	sort.Slice(sites, func(i, j int) bool {
		if sites[i].Chrom != sites[j].Chrom {
			return sites[i].Chrom < sites[j].Chrom
		}
		return sites[i].Pos < sites[j].Pos
	})

	bw := bufio.NewWriter(w)
	chrom := ""
	for _, s := range sites {
		if s.Chrom != chrom {
			chrom = s.Chrom
			if _, err := fmt.Fprintf(bw, "%s chrom=%s\n", variableStep, chrom); err != nil {
				return fmt.Errorf("write wig: %w", err)
			}
		}
		if _, err := fmt.Fprintf(bw, "%d\t%d\n", s.Pos, a[strand][s]); err != nil {
			return fmt.Errorf("write wig: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write wig: %w", err)
	}
	return nil
}

// Load reads the plus and minus strand tracks into a new Alignments.
func Load(posPath, negPath string) (coverage.Alignments, error) {
	a := coverage.NewAlignments()
	if err := LoadInto(a, posPath, negPath); err != nil {
		return nil, err
	}
	return a, nil
}

// LoadInto reads the plus and minus strand tracks into a.
func LoadInto(a coverage.Alignments, posPath, negPath string) error {
	for _, track := range []struct{ path, strand string }{
		{posPath, orf.StrandPlus},
		{negPath, orf.StrandMinus},
	} {
		if err := readFile(track.path, track.strand, a); err != nil {
			return err
		}
	}
	return nil
}

func readFile(path, strand string, a coverage.Alignments) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open wig: %w", err)
	}
	defer f.Close()
	if err := Read(f, strand, a); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Export writes <prefix>_pos.wig and <prefix>_neg.wig for every strand
// present in a.
func Export(prefix string, a coverage.Alignments) error {
	pos, neg := FileNames(prefix)
	for strand, path := range map[string]string{orf.StrandPlus: pos, orf.StrandMinus: neg} {
		if _, ok := a[strand]; !ok {
			continue
		}
		if err := writeFile(path, a, strand); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, a coverage.Alignments, strand string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wig: %w", err)
	}
	if err := Write(f, a, strand); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close wig: %w", err)
	}
	return nil
}
