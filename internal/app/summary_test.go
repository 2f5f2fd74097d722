package service

import (
	"testing"

	"github.com/okian/ribophase/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSummarize(t *testing.T) {
	Convey("An empty run has zero statistics", t, func() {
		So(summarize(nil), ShouldResemble, Summary{})
	})

	Convey("Given scored records", t, func() {
		records := []types.Record{
			{Status: types.StatusTranslating, PhaseScore: 1, ReadDensity: 2},
			{Status: types.StatusNontranslating, PhaseScore: 0, ReadDensity: 0},
			{Status: types.StatusTranslating, PhaseScore: 0.5, ReadDensity: 1},
		}
		sum := summarize(records)

		So(sum.ORFs, ShouldEqual, 3)
		So(sum.Translating, ShouldEqual, 2)
		So(sum.MeanPhaseScore, ShouldEqual, 0.5)
		So(sum.MedianPhaseScore, ShouldEqual, 0.5)
		So(sum.P90PhaseScore, ShouldBeBetweenOrEqual, 0.5, 1)
		So(sum.MeanReadDensity, ShouldEqual, 1)
	})
}
