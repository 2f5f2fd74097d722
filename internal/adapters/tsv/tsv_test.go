package tsv_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/okian/ribophase/internal/adapters/tsv"
	"github.com/okian/ribophase/internal/domain/orf"
	"github.com/okian/ribophase/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func record() types.Record {
	o := orf.New("annotated", "ENST01", "protein_coding", "ENSG01", "ABC1", "protein_coding", "chr1", "+",
		[]orf.Interval{{Start: 100, End: 108}})
	return types.Record{
		ORF:              o,
		Status:           types.StatusNontranslating,
		PhaseScore:       1,
		ReadCount:        6,
		Length:           9,
		ValidCodons:      9,
		ValidCodonsRatio: 1,
		ReadDensity:      2,
		Profile:          []int{3, 0, 0, 2, 0, 0, 1, 0, 0},
	}
}

func TestFormatFloat(t *testing.T) {
	Convey("Floats use the shortest round-tripping form", t, func() {
		cases := map[float64]string{
			0:            "0.0",
			1:            "1.0",
			0.5:          "0.5",
			0.4275:       "0.4275",
			2.0 / 3:      "0.6666666666666666",
			100:          "100.0",
			1e-05:        "1e-05",
			0.0001:       "0.0001",
			1.5e16:       "1.5e+16",
			-0.25:        "-0.25",
			1234567.5:    "1234567.5",
			math.Inf(1):  "inf",
			math.Inf(-1): "-inf",
		}
		for in, want := range cases {
			So(tsv.FormatFloat(in), ShouldEqual, want)
		}
		So(tsv.FormatFloat(math.NaN()), ShouldEqual, "nan")
	})
}

func TestFormatProfile(t *testing.T) {
	Convey("Profiles render as bracketed lists", t, func() {
		So(tsv.FormatProfile([]int{3, 0, 1}), ShouldEqual, "[3, 0, 1]")
		So(tsv.FormatProfile([]int{7}), ShouldEqual, "[7]")
		So(tsv.FormatProfile(nil), ShouldEqual, "[]")
	})
}

func TestWriter(t *testing.T) {
	Convey("Given a writer", t, func() {
		var buf bytes.Buffer
		w := tsv.NewWriter(&buf)

		Convey("When writing a record", func() {
			So(w.Write(record()), ShouldBeNil)
			So(w.Write(record()), ShouldBeNil)
			So(w.Flush(), ShouldBeNil)

			lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")

			Convey("Then the header comes first, once", func() {
				So(lines, ShouldHaveLength, 3)
				So(lines[0], ShouldEqual, strings.Join(tsv.Columns, "\t"))
				So(strings.HasSuffix(lines[0], "start_codon\tprofile"), ShouldBeTrue)
				So(w.Rows(), ShouldEqual, 2)
			})

			Convey("Then the row follows the column order", func() {
				fields := strings.Split(lines[1], "\t")
				So(fields, ShouldHaveLength, len(tsv.Columns))
				So(fields, ShouldResemble, []string{
					"ENST01_100_108_9", "annotated", "nontranslating", "1.0", "6", "9", "9", "1.0", "2.0",
					"ENST01", "protein_coding", "ENSG01", "ABC1", "protein_coding", "chr1", "+", "None",
					"[3, 0, 0, 2, 0, 0, 1, 0, 0]",
				})
			})
		})

		Convey("When nothing is written but the header", func() {
			So(w.WriteHeader(), ShouldBeNil)
			So(w.WriteHeader(), ShouldBeNil)
			So(w.Flush(), ShouldBeNil)
			So(buf.String(), ShouldEqual, strings.Join(tsv.Columns, "\t")+"\n")
		})
	})

	Convey("The output file name carries the prefix", t, func() {
		So(tsv.FileName("out/sample"), ShouldEqual, "out/sample_translating_ORFs.tsv")
	})

	Convey("A known start codon is written", t, func() {
		r := record()
		r.ORF.Seq = "ATGCCC"
		fields := strings.Split(strings.TrimSuffix(tsv.FormatRow(r), "\n"), "\t")
		So(fields[16], ShouldEqual, "ATG")
	})
}
