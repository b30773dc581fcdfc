package model_test

import (
	"testing"
	"time"

	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDeliveryKey(t *testing.T) {
	Convey("Given a delivery", t, func() {
		d := model.Delivery{MatchID: "335982", Innings: 1, Over: 12, Ball: 4}

		Convey("Then its key identifies match, innings, over and ball", func() {
			So(d.Key(), ShouldEqual, "335982/1/12.4")
		})

		Convey("Then a different ball yields a different key", func() {
			other := d
			other.Ball = 5
			So(other.Key(), ShouldNotEqual, d.Key())
		})
	})
}

func TestDeliveryBefore(t *testing.T) {
	Convey("Given deliveries across matches and overs", t, func() {
		day1 := time.Date(2008, 4, 18, 0, 0, 0, 0, time.UTC)
		day2 := time.Date(2008, 4, 19, 0, 0, 0, 0, time.UTC)

		Convey("When the dates differ", func() {
			a := model.Delivery{MatchID: "b", Date: day1}
			b := model.Delivery{MatchID: "a", Date: day2}

			Convey("Then the earlier date comes first regardless of match id", func() {
				So(a.Before(b), ShouldBeTrue)
				So(b.Before(a), ShouldBeFalse)
			})
		})

		Convey("When the dates match but the matches differ", func() {
			a := model.Delivery{MatchID: "335982", Date: day1, Innings: 2}
			b := model.Delivery{MatchID: "335983", Date: day1, Innings: 1}

			Convey("Then match id breaks the tie", func() {
				So(a.Before(b), ShouldBeTrue)
			})
		})

		Convey("When only the in-match sequence differs", func() {
			a := model.Delivery{MatchID: "335982", Date: day1, Innings: 1, Over: 5, Ball: 6}
			b := model.Delivery{MatchID: "335982", Date: day1, Innings: 1, Over: 6, Ball: 1}
			c := model.Delivery{MatchID: "335982", Date: day1, Innings: 2, Over: 0, Ball: 1}

			Convey("Then over and ball order within the innings", func() {
				So(a.Before(b), ShouldBeTrue)
			})

			Convey("Then a later innings follows every ball of an earlier one", func() {
				So(b.Before(c), ShouldBeTrue)
				So(c.Before(a), ShouldBeFalse)
			})
		})

		Convey("When deliveries are identical", func() {
			a := model.Delivery{MatchID: "335982", Date: day1, Innings: 1, Over: 5, Ball: 6}

			Convey("Then neither precedes the other", func() {
				So(a.Before(a), ShouldBeFalse)
			})
		})
	})
}

func TestRatingKindValid(t *testing.T) {
	Convey("Given rating kinds", t, func() {
		So(model.Batting.Valid(), ShouldBeTrue)
		So(model.Bowling.Valid(), ShouldBeTrue)
		So(model.RatingKind("fielding").Valid(), ShouldBeFalse)
		So(model.RatingKind("").Valid(), ShouldBeFalse)
	})
}
