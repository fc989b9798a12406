package model

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewRecord(t *testing.T) {
	Convey("Given a capture time", t, func() {
		at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)

		Convey("When a record is created", func() {
			r := NewRecord("Calculus", 4, at)

			Convey("Then the date uses the stored layout", func() {
				So(r.Topic, ShouldEqual, "Calculus")
				So(r.Score, ShouldEqual, 4.0)
				So(r.Date, ShouldEqual, "2024-03-09 14:05:07")
				So(r.Time().Equal(at), ShouldBeTrue)
			})
		})

		Convey("When the date cannot be parsed", func() {
			r := Record{Topic: "x", Date: "yesterday"}

			Convey("Then Time is zero", func() {
				So(r.Time().IsZero(), ShouldBeTrue)
			})
		})
	})
}

func TestSortByDate(t *testing.T) {
	Convey("Given records stored out of date order", t, func() {
		records := []Record{
			{Topic: "b", Score: 5, Date: "2024-01-03 10:00:00"},
			{Topic: "a", Score: 6, Date: "2024-01-01 10:00:00"},
			{Topic: "c", Score: 7, Date: "2024-01-02 10:00:00"},
			{Topic: "d", Score: 8, Date: "2024-01-01 10:00:00"},
		}

		Convey("When sorted", func() {
			sorted := SortByDate(records)

			Convey("Then they are ascending and ties keep stored order", func() {
				So(sorted[0].Topic, ShouldEqual, "a")
				So(sorted[1].Topic, ShouldEqual, "d")
				So(sorted[2].Topic, ShouldEqual, "c")
				So(sorted[3].Topic, ShouldEqual, "b")
			})

			Convey("And the input is untouched", func() {
				So(records[0].Topic, ShouldEqual, "b")
			})
		})
	})
}

func TestActiveQuiz(t *testing.T) {
	Convey("Given an active quiz", t, func() {
		So(ActiveQuiz{}.Empty(), ShouldBeTrue)
		So(ActiveQuiz{Text: "1. What?", Topic: "Math"}.Empty(), ShouldBeFalse)
	})
}
