package venue_test

import (
	"context"
	"testing"
	"time"

	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/model"
	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/venue"
	. "github.com/smartystreets/goconvey/convey"
)

// balls builds n legal deliveries at a venue, each scoring runs off the bat.
func balls(venueName string, n, runs int) []model.Delivery {
	out := make([]model.Delivery, n)
	for i := range out {
		out[i] = model.Delivery{
			MatchID:    "m-" + venueName,
			Date:       time.Date(2019, 4, 1, 0, 0, 0, 0, time.UTC),
			Venue:      venueName,
			Innings:    1,
			Over:       i / 6,
			Ball:       i%6 + 1,
			Striker:    "bat",
			Bowler:     "bowl",
			RunsOffBat: runs,
		}
	}
	return out
}

func TestEstimate(t *testing.T) {
	Convey("Given an estimator with a low sample threshold", t, func() {
		est := venue.NewEstimator(venue.WithMinSamples(10))
		ctx := context.Background()

		Convey("When one venue scores twice the rate of the other", func() {
			deliveries := append(balls("Eden Gardens", 100, 2), balls("Chepauk", 100, 1)...)
			factors, err := est.Estimate(ctx, deliveries)
			So(err, ShouldBeNil)

			Convey("Then both venues get a factor", func() {
				So(factors, ShouldHaveLength, 2)
			})

			Convey("Then the high-scoring venue is batting-friendly and the other is not", func() {
				// League mean is 1.5 runs/ball; 2/1.5 and 1/1.5, clamped to [0.7, 1.3].
				So(factors["Eden Gardens"].Factor, ShouldAlmostEqual, 1.3)
				So(factors["Chepauk"].Factor, ShouldAlmostEqual, 0.7)
			})

			Convey("Then sample counts are reported", func() {
				So(factors["Eden Gardens"].Samples, ShouldEqual, 100)
			})
		})

		Convey("When every venue scores at the same rate", func() {
			deliveries := append(balls("A", 50, 1), balls("B", 50, 1)...)
			factors, err := est.Estimate(ctx, deliveries)
			So(err, ShouldBeNil)

			Convey("Then all factors are neutral", func() {
				So(factors["A"].Factor, ShouldAlmostEqual, venue.NeutralFactor)
				So(factors["B"].Factor, ShouldAlmostEqual, venue.NeutralFactor)
			})
		})

		Convey("When a venue is below the sample threshold", func() {
			deliveries := append(balls("Busy Ground", 100, 1), balls("Sparse Ground", 5, 6)...)
			factors, err := est.Estimate(ctx, deliveries)
			So(err, ShouldBeNil)

			Convey("Then it gets exactly the neutral factor despite its scoring rate", func() {
				So(factors["Sparse Ground"].Factor, ShouldEqual, venue.NeutralFactor)
				So(factors["Sparse Ground"].Samples, ShouldEqual, 5)
			})
		})

		Convey("When wides and no-balls are present", func() {
			deliveries := balls("A", 20, 1)
			for i := 0; i < 20; i++ {
				deliveries = append(deliveries, model.Delivery{
					MatchID: "m-A", Venue: "A", Innings: 2, Over: i / 6, Ball: i%6 + 1,
					Wides: 1, Extras: 1,
				})
			}
			factors, err := est.Estimate(ctx, deliveries)
			So(err, ShouldBeNil)

			Convey("Then they are excluded from the sample count", func() {
				So(factors["A"].Samples, ShouldEqual, 20)
			})
		})

		Convey("When a delivery has no venue", func() {
			deliveries := []model.Delivery{{MatchID: "m1", Innings: 1, Over: 0, Ball: 1}}
			_, err := est.Estimate(ctx, deliveries)

			Convey("Then estimation fails naming the record", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "m1/1/0.1")
			})
		})

		Convey("When there are no deliveries at all", func() {
			factors, err := est.Estimate(ctx, nil)
			So(err, ShouldBeNil)
			So(factors, ShouldBeEmpty)
		})
	})

	Convey("Given a custom clamp band", t, func() {
		est := venue.NewEstimator(venue.WithMinSamples(10), venue.WithClampBand(0.5, 2.0))

		Convey("Then extreme venues are held inside the band", func() {
			deliveries := append(balls("Hot", 100, 3), balls("Cold", 100, 0)...)
			factors, err := est.Estimate(context.Background(), deliveries)
			So(err, ShouldBeNil)
			So(factors["Hot"].Factor, ShouldAlmostEqual, 2.0)
			So(factors["Cold"].Factor, ShouldAlmostEqual, 0.5)
		})
	})
}

func TestFactorsFor(t *testing.T) {
	Convey("Given a factor set", t, func() {
		f := venue.Factors{"Eden Gardens": {Factor: 1.12, Samples: 5000}}

		Convey("Then known venues resolve to their factor", func() {
			So(f.For("Eden Gardens"), ShouldAlmostEqual, 1.12)
		})

		Convey("Then unknown venues fall back to neutral", func() {
			So(f.For("Never Seen Oval"), ShouldEqual, venue.NeutralFactor)
		})
	})
}

func TestFactorsList(t *testing.T) {
	Convey("Given factors for several venues", t, func() {
		f := venue.Factors{
			"B Ground": {Factor: 0.9, Samples: 300},
			"A Ground": {Factor: 1.1, Samples: 400},
		}

		Convey("Then List returns them sorted by venue name", func() {
			list := f.List()
			So(list, ShouldHaveLength, 2)
			So(list[0].Venue, ShouldEqual, "A Ground")
			So(list[1].Venue, ShouldEqual, "B Ground")
		})
	})
}

func TestEstimateDeterminism(t *testing.T) {
	Convey("Given the same dataset estimated twice", t, func() {
		est := venue.NewEstimator(venue.WithMinSamples(10), venue.WithParallelism(4))
		deliveries := append(balls("X", 80, 2), append(balls("Y", 90, 1), balls("Z", 70, 0)...)...)

		a, errA := est.Estimate(context.Background(), deliveries)
		b, errB := est.Estimate(context.Background(), deliveries)

		Convey("Then both runs produce identical factors", func() {
			So(errA, ShouldBeNil)
			So(errB, ShouldBeNil)
			So(a, ShouldResemble, b)
		})
	})
}
