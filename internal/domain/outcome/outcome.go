// Package outcome classifies deliveries into the closed set of outcome
// categories used by the rating engine, and maps each category to its
// actual-outcome score.
package outcome

import (
	"github.com/PratikParm/IPL-Elo-Ratings/internal/domain/model"
)

// Category is one of the mutually exclusive delivery outcome kinds.
type Category int

// Outcome categories, ordered by increasing batter advantage among the
// rated kinds. Extra covers wides and no-balls, which are excluded from
// rating updates entirely.
const (
	Wicket Category = iota
	Dot
	Single
	TwoOrThree
	Four
	Six
	Extra
)

// String implements fmt.Stringer.
func (c Category) String() string {
	switch c {
	case Wicket:
		return "wicket"
	case Dot:
		return "dot"
	case Single:
		return "single"
	case TwoOrThree:
		return "two-or-three"
	case Four:
		return "four"
	case Six:
		return "six"
	case Extra:
		return "extra"
	default:
		return "unknown"
	}
}

// Actual-outcome scores per category. The mapping is fixed for a whole
// rating run and monotone in batter advantage: a wicket is a full win
// for the bowler, a dot nearly so, boundaries approach a full win for
// the batter.
const (
	wicketScore     = 0.0
	dotScore        = 0.05
	singleScore     = 0.35
	twoOrThreeScore = 0.55
	fourScore       = 0.85
	sixScore        = 0.95
)

// Classify maps a delivery to exactly one category. The mapping is
// total over legal delivery records and pure.
//
// Precedence: a dismissal dominates everything, including runs
// completed on the same ball (a run-out after two runs is a wicket for
// rating purposes). Wides and no-balls come next; neither player's
// skill is charged for the umpire's call, so they land in Extra.
// Everything else is categorised by runs off the bat.
func Classify(d model.Delivery) Category {
	switch {
	case d.WicketType != "":
		return Wicket
	case d.Wides > 0 || d.NoBalls > 0:
		return Extra
	}
	switch d.RunsOffBat {
	case 0:
		return Dot
	case 1:
		return Single
	case 2, 3:
		return TwoOrThree
	case 4:
		return Four
	default:
		// 5 is rare (overthrows) but possible; treat everything from
		// five up as a maximal batting outcome.
		return Six
	}
}

// Score returns the actual-outcome score S in [0,1] for a category.
// Extra has no score; callers must check Rated first.
func (c Category) Score() float64 {
	switch c {
	case Wicket:
		return wicketScore
	case Dot:
		return dotScore
	case Single:
		return singleScore
	case TwoOrThree:
		return twoOrThreeScore
	case Four:
		return fourScore
	case Six:
		return sixScore
	default:
		return 0
	}
}

// Rated reports whether the category participates in rating updates.
// Extras move neither rating and emit no snapshot.
func (c Category) Rated() bool {
	return c != Extra
}
