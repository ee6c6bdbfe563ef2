package league

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"predleague/engine/internal/metrics"
	"predleague/engine/internal/models"
)

// Options controls leaderboard aggregation.
type Options struct {
	// IncludeCurrentWeek extends scoring to the week in progress. Either way
	// a week only counts once its results document exists.
	IncludeCurrentWeek bool
}

// Leaderboard computes the ranked standings as of the given settings. Every
// known non-admin user appears, with zero totals if they have never played.
// Manual adjustments are folded into TotalPoints and tracked separately in
// ManualAdjustments; weekly breakdown entries are never touched by them.
//
// Ranking is by total points descending. Ties order by user registration
// time, then username, so equal totals always render in the same order.
func (e *Engine) Leaderboard(ctx context.Context, settings models.Settings, opts Options) ([]models.LeaderboardEntry, error) {
	start := time.Now()
	defer func() {
		metrics.LeaderboardComputeDuration.Observe(time.Since(start).Seconds())
	}()

	users, err := e.repo.Users.All(ctx)
	if err != nil {
		return nil, err
	}

	weights := settings.PointsSystem
	if weights == (models.PointsSystem{}) {
		// Settings documents from before the configurable points system
		// carry no weights; score them the way that era did.
		weights = models.DefaultSettings(time.Now()).PointsSystem
	}

	entries := make(map[string]*models.LeaderboardEntry, len(users))
	for username, user := range users {
		if username == models.AdminUsername {
			continue
		}
		entries[username] = &models.LeaderboardEntry{
			Username:        username,
			DisplayName:     user.DisplayName,
			WeeklyBreakdown: map[int]int{},
		}
	}

	lastWeek := settings.CurrentWeek - 1
	if opts.IncludeCurrentWeek {
		lastWeek = settings.CurrentWeek
	}

	for week := 1; week <= lastWeek; week++ {
		weekPoints, scorable, err := e.ReconcileWeek(ctx, week, weights)
		if err != nil {
			return nil, err
		}
		if !scorable {
			continue
		}

		for username, points := range weekPoints {
			entry, known := entries[username]
			if !known {
				// Predictions from a user no longer in the users document.
				continue
			}
			entry.TotalPoints += points
			entry.WeeksPlayed++
			entry.WeeklyBreakdown[week] = points
		}
	}

	adjustments, err := e.repo.Adjustments.List(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, adj := range adjustments {
		entry, known := entries[adj.Username]
		if !known {
			log.Warn().Str("user", adj.Username).Msg("Adjustment targets unknown user, skipping")
			continue
		}
		entry.TotalPoints += adj.PointsChange
		entry.ManualAdjustments += adj.PointsChange
	}

	ranked := make([]models.LeaderboardEntry, 0, len(entries))
	for _, entry := range entries {
		divisor := entry.WeeksPlayed
		if divisor < 1 {
			divisor = 1
		}
		avg := float64(entry.TotalPoints) / float64(divisor)
		entry.AveragePoints = math.Round(avg*100) / 100
		ranked = append(ranked, *entry)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalPoints != ranked[j].TotalPoints {
			return ranked[i].TotalPoints > ranked[j].TotalPoints
		}
		ci := users[ranked[i].Username].CreatedAt
		cj := users[ranked[j].Username].CreatedAt
		if !ci.Equal(cj) {
			return ci.Before(cj)
		}
		return ranked[i].Username < ranked[j].Username
	})

	return ranked, nil
}
