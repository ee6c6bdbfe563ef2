package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"predleague/engine/internal/models"
	"predleague/engine/internal/store"
)

// PredictionRepository handles the per-week prediction documents. Each week
// is one encrypted document mapping username to that user's prediction set;
// saving is a full-set overwrite for one user inside a read-modify-write of
// the shared document.
type PredictionRepository struct {
	repo *Repository
}

// GetWeek returns every user's predictions for a week. An absent document
// means nobody has predicted yet and yields an empty map; a document that
// exists but will not decode is an error.
func (r *PredictionRepository) GetWeek(ctx context.Context, week int) (models.WeekPredictions, error) {
	predictions := models.WeekPredictions{}
	if _, err := r.repo.loadEncrypted(ctx, predictionsPath(week), &predictions); err != nil {
		if store.IsNotFound(err) {
			return models.WeekPredictions{}, nil
		}
		return nil, err
	}
	return predictions, nil
}

// GetUser returns one user's prediction list for a week, or an empty list if
// they have not predicted.
func (r *PredictionRepository) GetUser(ctx context.Context, week int, username string) ([]models.Prediction, error) {
	predictions, err := r.GetWeek(ctx, week)
	if err != nil {
		return nil, err
	}
	return predictions[username].Predictions, nil
}

// HasPredicted reports whether the user has submitted predictions for a week.
func (r *PredictionRepository) HasPredicted(ctx context.Context, week int, username string) (bool, error) {
	preds, err := r.GetUser(ctx, week, username)
	if err != nil {
		return false, err
	}
	return len(preds) > 0, nil
}

// Save overwrites one user's prediction set for a week, stamped with the
// submission time. Concurrent submissions by different users race on the
// shared document; the conflict retry inside updateEncrypted keeps both.
func (r *PredictionRepository) Save(ctx context.Context, week int, username string, preds []models.Prediction) error {
	if username == "" {
		return fmt.Errorf("%w: username is required", ErrValidation)
	}
	if len(preds) == 0 {
		return fmt.Errorf("%w: prediction list is empty", ErrValidation)
	}
	for i, pred := range preds {
		if pred.HomeScore < 0 || pred.AwayScore < 0 {
			return fmt.Errorf("%w: prediction %d has a negative score", ErrValidation, i)
		}
	}

	message := fmt.Sprintf("Update predictions for week %d", week)
	err := updateEncrypted(ctx, r.repo, predictionsPath(week), message,
		func() models.WeekPredictions { return models.WeekPredictions{} },
		func(all *models.WeekPredictions) error {
			(*all)[username] = models.PredictionSet{
				Predictions: preds,
				SubmittedAt: time.Now().UTC(),
			}
			return nil
		})
	if err != nil {
		return err
	}

	log.Info().
		Str("user", username).
		Int("week", week).
		Int("fixtures", len(preds)).
		Msg("Predictions saved")
	return nil
}
