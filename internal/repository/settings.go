package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"predleague/engine/internal/models"
	"predleague/engine/internal/store"
)

// SettingsRepository handles the single global settings document.
type SettingsRepository struct {
	repo *Repository
}

// Get returns the league settings, falling back to defaults when the
// document has not been created yet.
func (r *SettingsRepository) Get(ctx context.Context) (models.Settings, error) {
	var settings models.Settings
	if _, err := r.repo.loadEncrypted(ctx, settingsPath, &settings); err != nil {
		if store.IsNotFound(err) {
			return models.DefaultSettings(time.Now().UTC()), nil
		}
		return models.Settings{}, err
	}
	return settings, nil
}

// Update applies mutate inside a conflict-retried read-modify-write and
// stamps the update time.
func (r *SettingsRepository) Update(ctx context.Context, message string, mutate func(*models.Settings) error) error {
	return updateEncrypted(ctx, r.repo, settingsPath, message,
		func() models.Settings { return models.DefaultSettings(time.Now().UTC()) },
		func(settings *models.Settings) error {
			if err := mutate(settings); err != nil {
				return err
			}
			settings.SettingsUpdatedAt = time.Now().UTC()
			return nil
		})
}

// SetCurrentWeek moves the league to a new current week.
func (r *SettingsRepository) SetCurrentWeek(ctx context.Context, week int) error {
	if week < 1 {
		return fmt.Errorf("%w: week must be positive", ErrValidation)
	}

	message := fmt.Sprintf("Update current week to %d", week)
	if err := r.Update(ctx, message, func(s *models.Settings) error {
		s.CurrentWeek = week
		return nil
	}); err != nil {
		return err
	}

	log.Info().Int("week", week).Msg("Current week updated")
	return nil
}

// SetPredictionsOpen opens or closes prediction submission.
func (r *SettingsRepository) SetPredictionsOpen(ctx context.Context, open bool) error {
	message := fmt.Sprintf("Set predictions open to %t", open)
	return r.Update(ctx, message, func(s *models.Settings) error {
		s.PredictionsOpen = open
		return nil
	})
}

// SetFrontPageBlurb updates the front page text.
func (r *SettingsRepository) SetFrontPageBlurb(ctx context.Context, blurb string) error {
	return r.Update(ctx, "Update front page blurb", func(s *models.Settings) error {
		s.FrontPageBlurb = blurb
		return nil
	})
}
