package scoring_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"review360/internal/domain/scoring"
)

func ptr(v float64) *float64 { return &v }

func eval(id string, self bool, level string, avg float64, cats ...scoring.CategoryScore) scoring.PerEvaluation {
	return scoring.PerEvaluation{
		AssignmentID:   id,
		TargetID:       "T1",
		IsSelf:         self,
		EvaluatorLevel: level,
		AvgScore:       avg,
		HasData:        avg > 0,
		Categories:     cats,
	}
}

func TestScore(t *testing.T) {
	Convey("Given equal evaluator weights", t, func() {
		coeffs := scoring.NewCoefficients(scoring.StandardDefaults())
		target := scoring.Target{ID: "T1", Name: "Target One"}

		Convey("When T1 has one self and two peer evaluations", func() {
			evals := []scoring.PerEvaluation{
				eval("a1", true, scoring.LevelSelf, 4.0),
				eval("a2", false, scoring.LevelPeer, 3.0),
				eval("a3", false, scoring.LevelPeer, 5.0),
			}
			result := scoring.Score(target, evals, coeffs)

			Convey("Then self, peer and overall scores follow the simple means", func() {
				So(result.SelfScore, ShouldEqual, 4.0)
				So(result.PeerAvg, ShouldEqual, 4.0)
				So(result.OverallAvg, ShouldEqual, 4.0)
				So(result.PeerCount, ShouldEqual, 2)
				So(result.EvaluationCount, ShouldEqual, 3)
			})

			Convey("And recomputing yields identical output", func() {
				again := scoring.Score(target, evals, coeffs)
				So(again, ShouldResemble, result)
			})
		})

		Convey("When there is no self evaluation", func() {
			result := scoring.Score(target, []scoring.PerEvaluation{eval("a2", false, scoring.LevelPeer, 3.0)}, coeffs)
			So(result.SelfScore, ShouldEqual, 0)
			So(result.PeerAvg, ShouldEqual, 3.0)
		})

		Convey("When an evaluation has no data", func() {
			evals := []scoring.PerEvaluation{
				eval("a2", false, scoring.LevelPeer, 4.0),
				eval("a3", false, scoring.LevelPeer, 0),
			}
			result := scoring.Score(target, evals, coeffs)

			Convey("Then it does not drag down any average or count", func() {
				So(result.PeerAvg, ShouldEqual, 4.0)
				So(result.OverallAvg, ShouldEqual, 4.0)
				So(result.PeerCount, ShouldEqual, 1)
			})
		})
	})

	Convey("Given weighted evaluator levels", t, func() {
		coeffs := scoring.NewCoefficients(scoring.StandardDefaults(), scoring.Tier{
			EvaluatorWeights: map[string]float64{scoring.LevelPeer: 1, scoring.LevelManager: 2},
		})

		Convey("When a peer gives 4 and a manager gives 2", func() {
			evals := []scoring.PerEvaluation{
				eval("a1", false, scoring.LevelPeer, 4),
				eval("a2", false, scoring.LevelManager, 2),
			}
			result := scoring.Score(scoring.Target{ID: "T1"}, evals, coeffs)

			Convey("Then overall is the weighted mean and peerAvg the simple mean", func() {
				So(result.OverallAvg, ShouldEqual, 2.7)
				So(result.PeerAvg, ShouldEqual, 3.0)
			})
		})

		Convey("When an evaluator level is unrecognised", func() {
			evals := []scoring.PerEvaluation{
				eval("a1", false, "director", 4),
				eval("a2", false, scoring.LevelManager, 2),
			}
			result := scoring.Score(scoring.Target{ID: "T1"}, evals, coeffs)

			Convey("Then it is weighted as a peer", func() {
				So(result.OverallAvg, ShouldEqual, 2.7)
			})
		})

		Convey("When every weight is zero", func() {
			zero := scoring.NewCoefficients(scoring.StandardDefaults(), scoring.Tier{
				EvaluatorWeights: map[string]float64{scoring.LevelPeer: 0},
			})
			result := scoring.Score(scoring.Target{ID: "T1"}, []scoring.PerEvaluation{eval("a1", false, scoring.LevelPeer, 4)}, zero)
			So(result.OverallAvg, ShouldEqual, 0)
		})
	})

	Convey("Given category scores on both sides", t, func() {
		coeffs := scoring.NewCoefficients(scoring.StandardDefaults(), scoring.Tier{
			CategoryWeights: map[string]float64{"Leadership": 2},
		})
		evals := []scoring.PerEvaluation{
			eval("a1", true, scoring.LevelSelf, 3.0,
				scoring.CategoryScore{Name: "Leadership", AvgScore: 4.0},
				scoring.CategoryScore{Name: "Teamwork", AvgScore: 2.0}),
			eval("a2", false, scoring.LevelPeer, 3.25,
				scoring.CategoryScore{Name: "Leadership", AvgScore: 3.0},
				scoring.CategoryScore{Name: "Teamwork", AvgScore: 3.5}),
		}
		result := scoring.Score(scoring.Target{ID: "T1"}, evals, coeffs)

		Convey("Then diff is self minus peer", func() {
			So(result.CategoryCompare, ShouldHaveLength, 2)
			leadership := result.CategoryCompare[0]
			So(leadership.Name, ShouldEqual, "Leadership")
			So(leadership.Diff, ShouldEqual, 1.0)
			So(leadership.Weight, ShouldEqual, 2.0)

			teamwork := result.CategoryCompare[1]
			So(teamwork.Diff, ShouldEqual, -1.5)
			So(teamwork.Weight, ShouldEqual, 1.0)
		})

		Convey("Then the category-weighted view applies category weights", func() {
			// Leadership combined 3.5 (w2), Teamwork combined 2.75 (w1).
			So(result.CategoryWeightedAvg, ShouldEqual, scoring.Round1((2*3.5+2.75)/3))
		})
	})

	Convey("Given a category answered only on the peer side", t, func() {
		evals := []scoring.PerEvaluation{
			eval("a1", true, scoring.LevelSelf, 4.0),
			eval("a2", false, scoring.LevelPeer, 3.0, scoring.CategoryScore{Name: "Focus", AvgScore: 3.0}),
		}
		result := scoring.Score(scoring.Target{ID: "T1"}, evals, scoring.NewCoefficients(scoring.StandardDefaults()))

		Convey("Then no diff is reported for it", func() {
			So(result.CategoryCompare, ShouldHaveLength, 1)
			So(result.CategoryCompare[0].HasSelf, ShouldBeFalse)
			So(result.CategoryCompare[0].Diff, ShouldEqual, 0)
		})
	})
}

func TestRound1(t *testing.T) {
	Convey("Round1 rounds half away from zero", t, func() {
		So(scoring.Round1(2.25), ShouldEqual, 2.3)
		So(scoring.Round1(-1.25), ShouldEqual, -1.3)
		So(scoring.Round1(8.0/3.0), ShouldEqual, 2.7)
	})
}

func TestEstimateConfidence(t *testing.T) {
	Convey("Given minHigh of 5", t, func() {
		cases := []struct {
			count int
			label string
			coeff float64
		}{
			{5, scoring.ConfidenceHigh, 1.0},
			{7, scoring.ConfidenceHigh, 1.0},
			{3, scoring.ConfidenceMedium, 0.9},
			{2, scoring.ConfidenceLow, 0.8},
			{0, scoring.ConfidenceLow, 0.8},
		}
		for _, tc := range cases {
			got := scoring.EstimateConfidence(tc.count, 5)
			So(got.Label, ShouldEqual, tc.label)
			So(got.Coeff, ShouldEqual, tc.coeff)
		}
	})

	Convey("Given minHigh of 1 the medium threshold floors at 1", t, func() {
		So(scoring.EstimateConfidence(1, 1).Label, ShouldEqual, scoring.ConfidenceHigh)
		So(scoring.EstimateConfidence(0, 1).Label, ShouldEqual, scoring.ConfidenceLow)
	})

	Convey("Given minHigh of 2 one peer is medium", t, func() {
		So(scoring.EstimateConfidence(1, 2).Label, ShouldEqual, scoring.ConfidenceMedium)
	})
}
