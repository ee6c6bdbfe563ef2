package league

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"predleague/engine/internal/models"
)

func intp(n int) *int { return &n }

func pred(home, away int) models.Prediction {
	return models.Prediction{HomeTeam: "TeamA", AwayTeam: "TeamB", HomeScore: home, AwayScore: away}
}

func result(home, away int) models.Result {
	return models.Result{HomeTeam: "TeamA", AwayTeam: "TeamB", HomeScore: intp(home), AwayScore: intp(away)}
}

func TestScore_Scenarios(t *testing.T) {
	weights := models.PointsSystem{ExactScore: 5, CorrectResult: 3, GoalDifference: 1}

	tests := []struct {
		name     string
		pred     models.Prediction
		result   models.Result
		expected int
	}{
		{"exact scoreline", pred(2, 1), result(2, 1), 5},
		{"correct outcome, wrong difference", pred(1, 0), result(3, 0), 3},
		{"correct outcome and difference, wrong scoreline", pred(2, 1), result(3, 2), 4},
		{"wrong outcome, wrong difference", pred(1, 1), result(2, 0), 0},
		{"exact nil-nil draw", pred(0, 0), result(0, 0), 5},
		{"draw predicted, draw played, different scoreline", pred(1, 1), result(2, 2), 4},
		{"away win predicted, home win played", pred(0, 2), result(2, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Score(tt.pred, tt.result, weights))
		})
	}
}

func TestScore_ExactScoreIgnoresOtherWeights(t *testing.T) {
	// The exact award stands alone regardless of the other two weights.
	weights := models.PointsSystem{ExactScore: 2, CorrectResult: 100, GoalDifference: 100}
	assert.Equal(t, 2, Score(pred(1, 0), result(1, 0), weights))
}

func TestScore_MissingResultScoresZero(t *testing.T) {
	weights := models.PointsSystem{ExactScore: 5, CorrectResult: 3, GoalDifference: 1}

	unplayed := models.Result{HomeTeam: "TeamA", AwayTeam: "TeamB"}
	assert.Equal(t, 0, Score(pred(2, 1), unplayed, weights))

	halfPlayed := models.Result{HomeTeam: "TeamA", AwayTeam: "TeamB", HomeScore: intp(2)}
	assert.Equal(t, 0, Score(pred(2, 1), halfPlayed, weights))
}

func TestScore_NeverNegative(t *testing.T) {
	weights := models.PointsSystem{ExactScore: 5, CorrectResult: 3, GoalDifference: 1}

	for home := 0; home <= 4; home++ {
		for away := 0; away <= 4; away++ {
			for actualHome := 0; actualHome <= 4; actualHome++ {
				for actualAway := 0; actualAway <= 4; actualAway++ {
					points := Score(pred(home, away), result(actualHome, actualAway), weights)
					assert.GreaterOrEqual(t, points, 0)
				}
			}
		}
	}
}

func TestScore_HistoricalWeightConfigurations(t *testing.T) {
	// 2/1/0, 3/1/0 and 5/3/1 have all been run; the rule must follow the
	// configured weights, not baked-in constants.
	configs := []models.PointsSystem{
		{ExactScore: 2, CorrectResult: 1, GoalDifference: 0},
		{ExactScore: 3, CorrectResult: 1, GoalDifference: 0},
		{ExactScore: 5, CorrectResult: 3, GoalDifference: 1},
	}

	for _, weights := range configs {
		assert.Equal(t, weights.ExactScore, Score(pred(2, 1), result(2, 1), weights))
		assert.Equal(t, weights.CorrectResult, Score(pred(1, 0), result(3, 0), weights))
		assert.Equal(t, weights.CorrectResult+weights.GoalDifference, Score(pred(2, 1), result(3, 2), weights))
	}
}
