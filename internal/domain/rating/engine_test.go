package rating_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/model"
	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/rating"
	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/venue"
	"github.com/PratikParm/IPL-Elo-Ratings/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// captureRecorder collects emitted snapshots in order.
type captureRecorder struct {
	snaps  []model.Snapshot
	reject bool
}

func (r *captureRecorder) Record(_ context.Context, snap model.Snapshot) bool {
	if r.reject {
		return false
	}
	r.snaps = append(r.snaps, snap)
	return true
}

func ball(over, b int, opts ...func(*model.Delivery)) model.Delivery {
	d := model.Delivery{
		MatchID: "m1",
		Season:  "2008",
		Date:    time.Date(2008, 4, 18, 0, 0, 0, 0, time.UTC),
		Venue:   "Neutral Park",
		Innings: 1,
		Over:    over,
		Ball:    b,
		Striker: "A",
		Bowler:  "B",
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func TestProcessScenarios(t *testing.T) {
	Convey("Given two fresh players at a neutral venue with K=4", t, func() {
		ctx := context.Background()
		store := rating.NewStore(rating.DefaultRating)
		eng := rating.NewEngine(store, venue.Factors{}, rating.WithKFactor(4))

		Convey("When the batter is dismissed", func() {
			rb, ro, rated, err := eng.Process(ctx, ball(0, 1, func(d *model.Delivery) {
				d.WicketType = "bowled"
				d.PlayerDismissed = "A"
			}))

			Convey("Then E=0.5, S=0, and two points move to the bowler", func() {
				So(err, ShouldBeNil)
				So(rated, ShouldBeTrue)
				So(rb, ShouldAlmostEqual, 1498.0)
				So(ro, ShouldAlmostEqual, 1502.0)
			})
		})

		Convey("When the batter hits a six", func() {
			rb, ro, rated, err := eng.Process(ctx, ball(0, 1, func(d *model.Delivery) {
				d.RunsOffBat = 6
			}))

			Convey("Then the batter gains 4*(0.95-0.5) = 1.8 points", func() {
				So(err, ShouldBeNil)
				So(rated, ShouldBeTrue)
				So(rb, ShouldAlmostEqual, 1501.8)
				So(ro, ShouldAlmostEqual, 1498.2)
			})
		})

		Convey("When a wide is bowled", func() {
			rec := &captureRecorder{}
			store2 := rating.NewStore(rating.DefaultRating)
			eng2 := rating.NewEngine(store2, venue.Factors{},
				rating.WithKFactor(4), rating.WithRecorder(rec))

			rb, ro, rated, err := eng2.Process(ctx, ball(0, 1, func(d *model.Delivery) {
				d.Wides = 1
				d.Extras = 1
			}))

			Convey("Then neither rating moves and no snapshot is emitted", func() {
				So(err, ShouldBeNil)
				So(rated, ShouldBeFalse)
				So(rb, ShouldEqual, rating.DefaultRating)
				So(ro, ShouldEqual, rating.DefaultRating)
				So(rec.snaps, ShouldBeEmpty)
			})
		})
	})
}

func TestProcessProperties(t *testing.T) {
	Convey("Given an engine over a mixed delivery sequence", t, func() {
		ctx := context.Background()

		deliveries := []model.Delivery{
			ball(0, 1),
			ball(0, 2, func(d *model.Delivery) { d.RunsOffBat = 4 }),
			ball(0, 3, func(d *model.Delivery) { d.RunsOffBat = 1 }),
			ball(0, 4, func(d *model.Delivery) { d.Wides = 1; d.Extras = 1 }),
			ball(0, 5, func(d *model.Delivery) { d.RunsOffBat = 6 }),
			ball(0, 6, func(d *model.Delivery) { d.WicketType = "caught"; d.PlayerDismissed = "A" }),
		}

		Convey("Then every rated delivery is exactly zero-sum", func() {
			store := rating.NewStore(rating.DefaultRating)
			eng := rating.NewEngine(store, venue.Factors{}, rating.WithKFactor(4))

			for _, d := range deliveries {
				beforeBat := store.GetBatting(d.Striker)
				beforeBowl := store.GetBowling(d.Bowler)
				rb, ro, rated, err := eng.Process(ctx, d)
				So(err, ShouldBeNil)
				if rated {
					So(rb-beforeBat, ShouldAlmostEqual, -(ro - beforeBowl))
				}
			}
		})

		Convey("Then no single step moves a rating by more than K", func() {
			store := rating.NewStore(rating.DefaultRating)
			eng := rating.NewEngine(store, venue.Factors{}, rating.WithKFactor(4))

			for _, d := range deliveries {
				before := store.GetBatting(d.Striker)
				rb, _, _, err := eng.Process(ctx, d)
				So(err, ShouldBeNil)
				So(rb-before, ShouldBeLessThanOrEqualTo, 4.0)
				So(rb-before, ShouldBeGreaterThanOrEqualTo, -4.0)
			}
		})

		Convey("Then a higher actual score yields a larger batter delta", func() {
			// Same starting state, different outcomes.
			outcomes := []func(*model.Delivery){
				func(d *model.Delivery) { d.WicketType = "bowled"; d.PlayerDismissed = "A" },
				func(d *model.Delivery) {},
				func(d *model.Delivery) { d.RunsOffBat = 1 },
				func(d *model.Delivery) { d.RunsOffBat = 2 },
				func(d *model.Delivery) { d.RunsOffBat = 4 },
				func(d *model.Delivery) { d.RunsOffBat = 6 },
			}
			prev := -5.0
			for _, mut := range outcomes {
				store := rating.NewStore(rating.DefaultRating)
				eng := rating.NewEngine(store, venue.Factors{}, rating.WithKFactor(4))
				rb, _, _, err := eng.Process(ctx, ball(0, 1, mut))
				So(err, ShouldBeNil)
				delta := rb - rating.DefaultRating
				So(delta, ShouldBeGreaterThan, prev)
				prev = delta
			}
		})

		Convey("Then folding the same input twice is bit-identical", func() {
			run := func() (map[string]float64, map[string]float64) {
				store := rating.NewStore(rating.DefaultRating)
				eng := rating.NewEngine(store, venue.Factors{}, rating.WithKFactor(4))
				So(eng.Run(ctx, deliveries), ShouldBeNil)
				return store.BattingRatings(), store.BowlingRatings()
			}
			bat1, bowl1 := run()
			bat2, bowl2 := run()
			So(bat1, ShouldResemble, bat2)
			So(bowl1, ShouldResemble, bowl2)
		})
	})
}

func TestVenueFactorModulation(t *testing.T) {
	Convey("Given a strong batter facing a weak bowler", t, func() {
		Convey("Then a batting-friendly venue raises the expected outcome", func() {
			neutral := rating.Expected(1600, 1400, 1.0)
			friendly := rating.Expected(1600, 1400, 1.3)
			hostile := rating.Expected(1600, 1400, 0.7)

			So(friendly, ShouldBeGreaterThan, neutral)
			So(hostile, ShouldBeLessThan, neutral)
			So(neutral, ShouldBeGreaterThan, 0.5)
		})

		Convey("Then a wider rating gap always raises the expected outcome", func() {
			So(rating.Expected(1700, 1400, 1.0), ShouldBeGreaterThan, rating.Expected(1600, 1400, 1.0))
		})

		Convey("Then equal ratings give E=0.5 at any venue", func() {
			So(rating.Expected(1500, 1500, 0.7), ShouldAlmostEqual, 0.5)
			So(rating.Expected(1500, 1500, 1.3), ShouldAlmostEqual, 0.5)
		})
	})

	Convey("Given an engine at a batting-friendly venue", t, func() {
		ctx := context.Background()
		factors := venue.Factors{"Eden Gardens": {Factor: 1.3, Samples: 5000}}

		Convey("When a strong batter is dismissed there", func() {
			store := rating.NewStore(rating.DefaultRating)
			store.SetBatting("A", 1600)
			eng := rating.NewEngine(store, factors, rating.WithKFactor(4))

			rb, _, _, err := eng.Process(ctx, ball(0, 1, func(d *model.Delivery) {
				d.Venue = "Eden Gardens"
				d.WicketType = "bowled"
				d.PlayerDismissed = "A"
			}))
			So(err, ShouldBeNil)

			Convey("Then the loss is steeper than at a neutral ground", func() {
				neutralStore := rating.NewStore(rating.DefaultRating)
				neutralStore.SetBatting("A", 1600)
				neutralEng := rating.NewEngine(neutralStore, venue.Factors{}, rating.WithKFactor(4))
				nrb, _, _, err := neutralEng.Process(ctx, ball(0, 1, func(d *model.Delivery) {
					d.WicketType = "bowled"
					d.PlayerDismissed = "A"
				}))
				So(err, ShouldBeNil)
				So(1600-rb, ShouldBeGreaterThan, 1600-nrb)
			})
		})
	})
}

func TestSnapshotEmission(t *testing.T) {
	Convey("Given an engine with a recorder", t, func() {
		ctx := context.Background()
		rec := &captureRecorder{}
		store := rating.NewStore(rating.DefaultRating)
		eng := rating.NewEngine(store, venue.Factors{},
			rating.WithKFactor(4), rating.WithRecorder(rec), rating.WithRunID("run-1"))

		Convey("When a rated delivery is processed", func() {
			_, _, _, err := eng.Process(ctx, ball(0, 1, func(d *model.Delivery) { d.RunsOffBat = 4 }))
			So(err, ShouldBeNil)

			Convey("Then one snapshot per participant is emitted", func() {
				So(rec.snaps, ShouldHaveLength, 2)
				So(rec.snaps[0].Player, ShouldEqual, "A")
				So(rec.snaps[0].Kind, ShouldEqual, model.Batting)
				So(rec.snaps[1].Player, ShouldEqual, "B")
				So(rec.snaps[1].Kind, ShouldEqual, model.Bowling)
			})

			Convey("Then snapshots carry the run id and match context", func() {
				So(rec.snaps[0].RunID, ShouldEqual, "run-1")
				So(rec.snaps[0].Match, ShouldEqual, "m1")
				So(rec.snaps[0].Seq, ShouldEqual, 1)
			})
		})

		Convey("When the recorder rejects snapshots", func() {
			rec.reject = true

			Convey("Then the fold itself still succeeds", func() {
				rb, _, rated, err := eng.Process(ctx, ball(0, 1, func(d *model.Delivery) { d.RunsOffBat = 6 }))
				So(err, ShouldBeNil)
				So(rated, ShouldBeTrue)
				So(rb, ShouldAlmostEqual, 1501.8)
			})
		})
	})
}

func TestValidationAndOrdering(t *testing.T) {
	Convey("Given an engine", t, func() {
		ctx := context.Background()
		store := rating.NewStore(rating.DefaultRating)
		eng := rating.NewEngine(store, venue.Factors{})

		Convey("When a delivery is missing the batter", func() {
			d := ball(0, 1, func(d *model.Delivery) { d.Striker = "" })
			_, _, _, err := eng.Process(ctx, d)

			Convey("Then it fails naming the record", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "m1/1/0.1")
			})
		})

		Convey("When a delivery is missing the venue", func() {
			d := ball(0, 1, func(d *model.Delivery) { d.Venue = "" })
			_, _, _, err := eng.Process(ctx, d)
			So(err, ShouldNotBeNil)
		})

		Convey("When deliveries arrive out of order", func() {
			_, _, _, err := eng.Process(ctx, ball(5, 1))
			So(err, ShouldBeNil)
			_, _, _, err = eng.Process(ctx, ball(4, 6))

			Convey("Then the engine rejects the regression", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "chronological")
			})
		})
	})
}

func TestLazySeeding(t *testing.T) {
	Convey("Given a fresh store", t, func() {
		store := rating.NewStore(rating.DefaultRating)

		Convey("Then first lookups return exactly the default for both kinds", func() {
			So(store.GetBatting("never seen"), ShouldEqual, 1500.0)
			So(store.GetBowling("never seen"), ShouldEqual, 1500.0)
		})

		Convey("Then seeded players are counted", func() {
			store.GetBatting("X")
			store.GetBowling("Y")
			So(store.Count(), ShouldEqual, 2)
			So(store.Players(), ShouldResemble, []string{"X", "Y"})
		})
	})
}

func TestSeasonalDecay(t *testing.T) {
	Convey("Given an engine with decay enabled", t, func() {
		ctx := context.Background()
		store := rating.NewStore(rating.DefaultRating)
		rec := &captureRecorder{}
		eng := rating.NewEngine(store, venue.Factors{},
			rating.WithKFactor(4),
			rating.WithRecorder(rec),
			rating.WithSeasonalDecay(400, 30),
		)

		Convey("When a player is idle across several seasons", func() {
			// Season 2008: A bats once.
			_, _, _, err := eng.Process(ctx, ball(0, 1, func(d *model.Delivery) { d.RunsOffBat = 1 }))
			So(err, ShouldBeNil)
			ratedAfter2008 := store.GetBatting("A")

			// Season 2012: different players; A has been idle ~4 years.
			later := ball(0, 1, func(d *model.Delivery) {
				d.MatchID = "m9"
				d.Season = "2012"
				d.Date = time.Date(2012, 4, 1, 0, 0, 0, 0, time.UTC)
				d.Striker = "C"
				d.Bowler = "D"
			})
			_, _, _, err = eng.Process(ctx, later)
			So(err, ShouldBeNil)

			Convey("Then the idle player's ratings decayed at the boundary", func() {
				So(store.GetBatting("A"), ShouldBeLessThan, ratedAfter2008)
			})

			Convey("Then decay snapshots were emitted with the season start date", func() {
				var decayed bool
				for _, s := range rec.snaps {
					if s.Player == "A" && s.Match == "" {
						decayed = true
						So(s.Date.Year(), ShouldEqual, 2012)
					}
				}
				So(decayed, ShouldBeTrue)
			})
		})
	})

	Convey("Given the default configuration", t, func() {
		ctx := context.Background()
		store := rating.NewStore(rating.DefaultRating)
		eng := rating.NewEngine(store, venue.Factors{}, rating.WithKFactor(4))

		Convey("Then season changes leave idle ratings untouched", func() {
			_, _, _, err := eng.Process(ctx, ball(0, 1))
			So(err, ShouldBeNil)
			before := store.GetBatting("A")

			later := ball(0, 1, func(d *model.Delivery) {
				d.MatchID = "m9"
				d.Season = "2015"
				d.Date = time.Date(2015, 4, 1, 0, 0, 0, 0, time.UTC)
				d.Striker = "C"
				d.Bowler = "D"
			})
			_, _, _, err = eng.Process(ctx, later)
			So(err, ShouldBeNil)
			So(store.GetBatting("A"), ShouldEqual, before)
		})
	})
}
