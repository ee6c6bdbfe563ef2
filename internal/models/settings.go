package models

import "time"

// PointsSystem holds the three scoring weights. Historical leagues have run
// 2/1/0, 3/1/0 and 5/3/1, so these are data, not constants.
type PointsSystem struct {
	ExactScore     int `json:"exact_score"`
	CorrectResult  int `json:"correct_result"`
	GoalDifference int `json:"goal_difference"`
}

// Settings is the single global league settings record.
type Settings struct {
	CurrentWeek       int          `json:"current_week"`
	SeasonStart       time.Time    `json:"season_start"`
	LeagueName        string       `json:"league_name"`
	PointsSystem      PointsSystem `json:"points_system"`
	FrontPageBlurb    string       `json:"front_page_blurb"`
	PredictionsOpen   bool         `json:"predictions_open"`
	SettingsUpdatedAt time.Time    `json:"settings_updated_at"`
}

// DefaultSettings returns the record written when the settings document does
// not exist yet.
func DefaultSettings(now time.Time) Settings {
	return Settings{
		CurrentWeek: 1,
		SeasonStart: now,
		LeagueName:  "Prediction League",
		PointsSystem: PointsSystem{
			ExactScore:     2,
			CorrectResult:  1,
			GoalDifference: 0,
		},
		PredictionsOpen:   true,
		SettingsUpdatedAt: now,
	}
}
