package orf_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/okian/ribophase/internal/domain/orf"
	. "github.com/smartystreets/goconvey/convey"
)

const header = "ORF_ID\tORF_type\ttranscript_id\ttranscript_type\tgene_id\tgene_name\tgene_type\tchrom\tstrand\tcoordinate"

func indexLine(strand, coords string) string {
	return strings.Join([]string{
		"ignored", "annotated", "ENST01", "protein_coding", "ENSG01", "ABC1", "protein_coding", "chr1", strand, coords,
	}, "\t")
}

func TestParseLine(t *testing.T) {
	Convey("Given a multi-exon index line", t, func() {
		o, err := orf.ParseLine(indexLine("-", "300-305,100-111") + "\n")

		Convey("Then fields are mapped and intervals sorted", func() {
			So(err, ShouldBeNil)
			So(o.Category, ShouldEqual, "annotated")
			So(o.TranscriptID, ShouldEqual, "ENST01")
			So(o.GeneName, ShouldEqual, "ABC1")
			So(o.Chrom, ShouldEqual, "chr1")
			So(o.Strand, ShouldEqual, orf.StrandMinus)
			So(o.Intervals, ShouldResemble, []orf.Interval{{Start: 100, End: 111}, {Start: 300, End: 305}})
		})

		Convey("Then the ID is derived from transcript and span", func() {
			So(o.Start(), ShouldEqual, 100)
			So(o.End(), ShouldEqual, 305)
			So(o.Length(), ShouldEqual, 18)
			So(o.ID, ShouldEqual, "ENST01_100_305_18")
		})

		Convey("Then there is no start codon", func() {
			_, ok := o.StartCodon()
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given malformed lines", t, func() {
		bad := []string{
			"",
			"a\tb\tc",
			indexLine("+", "100-111") + "\textra",
			indexLine("*", "100-111"),
			indexLine("+", "100:111"),
			indexLine("+", "x-111"),
			indexLine("+", "100-y"),
			indexLine("+", "200-100"),
		}
		for _, line := range bad {
			_, err := orf.ParseLine(line)
			So(errors.Is(err, orf.ErrMalformedIndex), ShouldBeTrue)
		}
	})
}

func TestStartCodon(t *testing.T) {
	Convey("An ORF with a sequence reports its first codon", t, func() {
		o := orf.New("uORF", "T1", "t", "G1", "g", "t", "chr2", "+", []orf.Interval{{Start: 1, End: 6}})
		o.Seq = "ATGAAA"
		codon, ok := o.StartCodon()
		So(ok, ShouldBeTrue)
		So(codon, ShouldEqual, "ATG")
	})
}

func TestReader(t *testing.T) {
	Convey("Given an index with a header and a blank line", t, func() {
		input := strings.Join([]string{
			header,
			indexLine("+", "10-18"),
			"",
			indexLine("-", "40-45"),
		}, "\n") + "\n"
		r := orf.NewReader(strings.NewReader(input))

		Convey("Then ORFs stream in order until EOF", func() {
			first, err := r.Next()
			So(err, ShouldBeNil)
			So(first.ID, ShouldEqual, "ENST01_10_18_9")

			second, err := r.Next()
			So(err, ShouldBeNil)
			So(second.ID, ShouldEqual, "ENST01_40_45_6")
			So(r.Line(), ShouldEqual, 4)

			_, err = r.Next()
			So(err, ShouldEqual, io.EOF)
		})
	})

	Convey("Given an index with a broken line", t, func() {
		input := header + "\n" + indexLine("+", "10-18") + "\nbroken\tline\n"
		r := orf.NewReader(strings.NewReader(input))

		_, err := r.Next()
		So(err, ShouldBeNil)

		_, err = r.Next()
		So(errors.Is(err, orf.ErrMalformedIndex), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "index line 3")
		So(err.Error(), ShouldContainSubstring, "prepare-orfs")
	})

	Convey("Given only a header", t, func() {
		r := orf.NewReader(strings.NewReader(header + "\n"))
		_, err := r.Next()
		So(err, ShouldEqual, io.EOF)
	})
}
