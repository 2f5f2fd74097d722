package orf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLineBytes bounds a single index line; long multi-exon coordinate lists
// overflow bufio's default.
const maxLineBytes = 4 << 20

// Reader streams ORFs from an index file. The first line is the header.
type Reader struct {
	sc     *bufio.Scanner
	line   int
	header bool
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Reader{sc: sc}
}

// Next returns the next ORF, or io.EOF when the index is exhausted. Blank
// lines are skipped. Parse failures carry the line number.
func (r *Reader) Next() (ORF, error) {
	for r.sc.Scan() {
		r.line++
		text := r.sc.Text()
		if !r.header {
			r.header = true
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		o, err := ParseLine(text)
		if err != nil {
			return ORF{}, fmt.Errorf("index line %d: %w; regenerate the index with prepare-orfs", r.line, err)
		}
		return o, nil
	}
	if err := r.sc.Err(); err != nil {
		return ORF{}, fmt.Errorf("read index: %w", err)
	}
	return ORF{}, io.EOF
}

// Line is the number of lines consumed so far, header included.
func (r *Reader) Line() int {
	return r.line
}
