package league

import (
	"context"

	"github.com/rs/zerolog/log"

	"predleague/engine/internal/metrics"
	"predleague/engine/internal/models"
	"predleague/engine/internal/repository"
	"predleague/engine/internal/store"
)

// Engine computes week points and leaderboards over the league repository.
type Engine struct {
	repo *repository.Repository
}

// NewEngine creates a scoring engine.
func NewEngine(repo *repository.Repository) *Engine {
	return &Engine{repo: repo}
}

// ReconcileWeek joins one week's predictions against its results and returns
// each user's week points. The second return is false when the week has no
// results document yet; such a week contributes nothing to anyone's totals
// and must not count as played.
//
// Users absent from the predictions document did not play the week and are
// absent from the returned map. The reserved admin identity is always
// excluded. Decode failures propagate; an unreadable document is not the
// same as an absent one.
func (e *Engine) ReconcileWeek(ctx context.Context, week int, weights models.PointsSystem) (map[string]int, bool, error) {
	results, err := e.repo.Results.GetWeek(ctx, week)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	// Fixtures bound the week's shape; a count mismatch against results is
	// worth flagging but scoring stays positional over predictions/results.
	if fixtures, err := e.repo.Fixtures.GetWeek(ctx, week); err == nil {
		if len(fixtures) != len(results) {
			log.Warn().
				Int("week", week).
				Int("fixtures", len(fixtures)).
				Int("results", len(results)).
				Msg("Fixture and result counts differ")
		}
	} else if !store.IsNotFound(err) {
		return nil, false, err
	}

	predictions, err := e.repo.Predictions.GetWeek(ctx, week)
	if err != nil {
		return nil, false, err
	}

	weekPoints := make(map[string]int, len(predictions))
	for username, set := range predictions {
		if username == models.AdminUsername {
			continue
		}

		points := 0
		limit := len(set.Predictions)
		if len(results) < limit {
			limit = len(results)
		}
		for i := 0; i < limit; i++ {
			points += Score(set.Predictions[i], results[i], weights)
		}
		weekPoints[username] = points
	}

	metrics.WeeksReconciledTotal.Inc()
	return weekPoints, true, nil
}
