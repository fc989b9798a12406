package scoring

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestExtract(t *testing.T) {
	Convey("Given evaluator output", t, func() {
		Convey("When it contains an integer score", func() {
			score, ok := Extract("Score: 7/10 ...")

			Convey("Then the score is parsed as a float", func() {
				So(ok, ShouldBeTrue)
				So(score, ShouldEqual, 7.0)
			})
		})

		Convey("When it contains a decimal score", func() {
			score, ok := Extract("You got 8.5/10, well done")

			Convey("Then the decimal part is kept", func() {
				So(ok, ShouldBeTrue)
				So(score, ShouldEqual, 8.5)
			})
		})

		Convey("When it contains several scores", func() {
			score, ok := Extract("Q1 scored 2/10 overall 6/10")

			Convey("Then only the first one counts", func() {
				So(ok, ShouldBeTrue)
				So(score, ShouldEqual, 2.0)
			})
		})

		Convey("When the score is above the nominal range", func() {
			score, ok := Extract("Final: 12/10")

			Convey("Then it is returned unchanged", func() {
				So(ok, ShouldBeTrue)
				So(score, ShouldEqual, 12.0)
			})
		})

		Convey("When the number carries a minus sign", func() {
			score, ok := Extract("Score: -3/10")

			Convey("Then only the digits are matched", func() {
				So(ok, ShouldBeTrue)
				So(score, ShouldEqual, 3.0)
			})
		})

		Convey("When there is no score", func() {
			_, ok := Extract("No score here")

			Convey("Then nothing is found", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the slash is not followed by 10", func() {
			_, ok := Extract("3/5 correct")

			Convey("Then nothing is found", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestFormat(t *testing.T) {
	Convey("Given scores to render", t, func() {
		So(Format(4), ShouldEqual, "4.0")
		So(Format(9.0), ShouldEqual, "9.0")
		So(Format(8.5), ShouldEqual, "8.5")
		So(Format(7.25), ShouldEqual, "7.25")
		So(Format(0), ShouldEqual, "0.0")
	})
}
