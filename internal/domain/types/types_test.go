package types_test

import (
	"testing"

	types "github.com/okian/holical/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestImportResult(t *testing.T) {
	Convey("Given an import result", t, func() {
		Convey("When rows were rejected and duplicated", func() {
			res := types.ImportResult{
				Accepted:   3,
				Rejected:   []types.RowError{{Row: 4, Reason: "unreadable date"}},
				Stored:     2,
				Duplicates: []string{"e1"},
			}

			Convey("Then both should count as skipped", func() {
				So(res.Skipped(), ShouldEqual, 2)
			})
		})

		Convey("When the result is empty", func() {
			res := types.ImportResult{}

			Convey("Then nothing should be skipped", func() {
				So(res.Skipped(), ShouldEqual, 0)
				So(res.Truncated, ShouldBeFalse)
			})
		})
	})
}
