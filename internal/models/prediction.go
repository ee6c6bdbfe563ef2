package models

import (
	"encoding/json"
	"time"
)

// Prediction is one user's forecast scoreline for a fixture.
type Prediction struct {
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
}

// PredictionSet is a user's full prediction list for one week, aligned
// positionally to that week's fixtures.
type PredictionSet struct {
	Predictions []Prediction `json:"predictions"`
	SubmittedAt time.Time    `json:"submitted_at,omitempty"`
}

// submittedAtLayouts covers the timestamp formats found in stored prediction
// documents: RFC3339 from this service, bare ISO 8601 (with or without
// fractional seconds) from the earlier one.
var submittedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// UnmarshalJSON accepts both stored shapes for a user's weekly predictions:
// the current `{"predictions": [...], "submitted_at": ...}` record and the
// legacy bare list `[...]`. Everything past this boundary sees one canonical
// shape.
func (ps *PredictionSet) UnmarshalJSON(data []byte) error {
	var record struct {
		Predictions []Prediction `json:"predictions"`
		SubmittedAt string       `json:"submitted_at"`
	}
	if err := json.Unmarshal(data, &record); err == nil {
		ps.Predictions = record.Predictions
		ps.SubmittedAt = time.Time{}
		for _, layout := range submittedAtLayouts {
			if t, err := time.Parse(layout, record.SubmittedAt); err == nil {
				ps.SubmittedAt = t
				break
			}
		}
		return nil
	}

	var legacy []Prediction
	if err := json.Unmarshal(data, &legacy); err != nil {
		return err
	}
	*ps = PredictionSet{Predictions: legacy}
	return nil
}

// WeekPredictions maps username to that user's prediction set for a week.
type WeekPredictions map[string]PredictionSet
