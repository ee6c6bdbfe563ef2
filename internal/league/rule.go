// Package league implements the scoring engine: the point-scoring rule, the
// per-week reconciliation of predictions against results, and the leaderboard
// aggregation with manual adjustments folded in.
package league

import "predleague/engine/internal/models"

// outcome is the win/draw/loss classification of a scoreline, taken from the
// sign of home minus away.
type outcome int

const (
	homeWin outcome = iota
	draw
	awayWin
)

func classify(home, away int) outcome {
	switch {
	case home > away:
		return homeWin
	case home < away:
		return awayWin
	default:
		return draw
	}
}

// Score returns the points awarded for one (prediction, result) pair under
// the given weights. It is total: a result with missing scores means the
// match has not been played and scores zero, never an error.
//
// An exact scoreline match earns the ExactScore weight alone. Otherwise the
// CorrectResult and GoalDifference weights are checked independently and
// added together; they are deliberately not exclusive branches.
func Score(pred models.Prediction, result models.Result, weights models.PointsSystem) int {
	if !result.Played() {
		return 0
	}

	actualHome := *result.HomeScore
	actualAway := *result.AwayScore

	if pred.HomeScore == actualHome && pred.AwayScore == actualAway {
		return weights.ExactScore
	}

	points := 0
	if classify(pred.HomeScore, pred.AwayScore) == classify(actualHome, actualAway) {
		points += weights.CorrectResult
	}
	if pred.HomeScore-pred.AwayScore == actualHome-actualAway {
		points += weights.GoalDifference
	}
	return points
}
