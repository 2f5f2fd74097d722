package model_test

import (
	"testing"

	model "github.com/okian/ribophase/internal/domain/model"
	"github.com/okian/ribophase/internal/domain/orf"
	. "github.com/smartystreets/goconvey/convey"
)

func TestJob(t *testing.T) {
	Convey("Given a Job", t, func() {
		o := orf.New("annotated", "T1", "t", "G1", "g", "t", "chr1", "+", []orf.Interval{{Start: 1, End: 3}})
		job := model.Job{Seq: 4, ORF: o, Coverage: []int{1, 0, 0}}

		Convey("Then it carries the ORF and its coverage", func() {
			So(job.Seq, ShouldEqual, 4)
			So(job.ORF.ID, ShouldEqual, "T1_1_3_3")
			So(job.Coverage, ShouldHaveLength, job.ORF.Length())
		})
	})
}
