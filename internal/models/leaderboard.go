package models

// LeaderboardEntry is one ranked row of the leaderboard. ManualAdjustments is
// kept separate from week-derived points so the audit trail stays visible;
// TotalPoints already includes it.
type LeaderboardEntry struct {
	Username          string      `json:"username"`
	DisplayName       string      `json:"display_name"`
	TotalPoints       int         `json:"total_points"`
	WeeksPlayed       int         `json:"weeks_played"`
	ManualAdjustments int         `json:"manual_adjustments"`
	AveragePoints     float64     `json:"average_points"`
	WeeklyBreakdown   map[int]int `json:"weekly_breakdown"`
}
