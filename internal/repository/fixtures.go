package repository

import (
	"context"
	"fmt"
	"strings"

	"predleague/engine/internal/models"
	"predleague/engine/internal/store"
)

// FixtureRepository handles the per-week fixture documents.
type FixtureRepository struct {
	repo *Repository
}

// GetWeek returns the ordered fixture list for a week. Absence propagates as
// store.ErrNotFound.
func (r *FixtureRepository) GetWeek(ctx context.Context, week int) ([]models.Fixture, error) {
	doc, err := r.repo.store.Get(ctx, fixturesPath(week))
	if err != nil {
		return nil, err
	}

	rows, err := decodeResultsCSV(doc.Content)
	if err != nil {
		return nil, &store.DecodeError{Path: fixturesPath(week), Err: err}
	}

	fixtures := make([]models.Fixture, len(rows))
	for i, row := range rows {
		fixtures[i] = models.Fixture{HomeTeam: row.HomeTeam, AwayTeam: row.AwayTeam}
	}
	return fixtures, nil
}

// SaveWeek replaces the fixture list for a week. Admin operation.
func (r *FixtureRepository) SaveWeek(ctx context.Context, week int, fixtures []models.Fixture) error {
	if week < 1 {
		return fmt.Errorf("%w: week must be positive", ErrValidation)
	}
	if len(fixtures) == 0 {
		return fmt.Errorf("%w: fixture list is empty", ErrValidation)
	}
	for i, fixture := range fixtures {
		if strings.TrimSpace(fixture.HomeTeam) == "" || strings.TrimSpace(fixture.AwayTeam) == "" {
			return fmt.Errorf("%w: fixture %d is missing a team name", ErrValidation, i)
		}
	}

	content, err := encodeFixturesCSV(fixtures)
	if err != nil {
		return fmt.Errorf("failed to encode fixtures: %w", err)
	}

	message := fmt.Sprintf("Set fixtures for week %d", week)
	return r.repo.overwritePlain(ctx, fixturesPath(week), content, message)
}

// ResultRepository handles the per-week result documents.
type ResultRepository struct {
	repo *Repository
}

// GetWeek returns the ordered result list for a week. Absence means the week
// is not yet scorable and propagates as store.ErrNotFound.
func (r *ResultRepository) GetWeek(ctx context.Context, week int) ([]models.Result, error) {
	doc, err := r.repo.store.Get(ctx, resultsPath(week))
	if err != nil {
		return nil, err
	}

	results, err := decodeResultsCSV(doc.Content)
	if err != nil {
		return nil, &store.DecodeError{Path: resultsPath(week), Err: err}
	}
	return results, nil
}

// SaveWeek writes or replaces the result list for a week. Admin operation.
func (r *ResultRepository) SaveWeek(ctx context.Context, week int, results []models.Result) error {
	if week < 1 {
		return fmt.Errorf("%w: week must be positive", ErrValidation)
	}
	for i, result := range results {
		if strings.TrimSpace(result.HomeTeam) == "" || strings.TrimSpace(result.AwayTeam) == "" {
			return fmt.Errorf("%w: result %d is missing a team name", ErrValidation, i)
		}
	}

	content, err := encodeResultsCSV(results)
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	message := fmt.Sprintf("Set results for week %d", week)
	return r.repo.overwritePlain(ctx, resultsPath(week), content, message)
}
