package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"predleague/engine/internal/league"
	"predleague/engine/internal/models"
	"predleague/engine/internal/repository"
)

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	settings, err := s.repo.Settings.Get(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	entries, err := s.engine.Leaderboard(r.Context(), settings, league.Options{
		IncludeCurrentWeek: s.scoreCurrentWeek,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// publicSettings is the subset of the settings document anyone may see.
type publicSettings struct {
	CurrentWeek     int                 `json:"current_week"`
	LeagueName      string              `json:"league_name"`
	FrontPageBlurb  string              `json:"front_page_blurb"`
	PredictionsOpen bool                `json:"predictions_open"`
	PointsSystem    models.PointsSystem `json:"points_system"`
}

func (s *Server) handlePublicSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.repo.Settings.Get(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, publicSettings{
		CurrentWeek:     settings.CurrentWeek,
		LeagueName:      settings.LeagueName,
		FrontPageBlurb:  settings.FrontPageBlurb,
		PredictionsOpen: settings.PredictionsOpen,
		PointsSystem:    settings.PointsSystem,
	})
}

func (s *Server) handleGetFixtures(w http.ResponseWriter, r *http.Request) {
	fixtures, err := s.repo.Fixtures.GetWeek(r.Context(), weekParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fixtures)
}

func (s *Server) handleGetResults(w http.ResponseWriter, r *http.Request) {
	results, err := s.repo.Results.GetWeek(r.Context(), weekParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// predictionsResponse reports a user's own submission for a week.
type predictionsResponse struct {
	Week        int                 `json:"week"`
	Predictions []models.Prediction `json:"predictions"`
	Submitted   bool                `json:"submitted"`
}

func (s *Server) handleGetPredictions(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	week := weekParam(r)

	preds, err := s.repo.Predictions.GetUser(r.Context(), week, user.Username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, predictionsResponse{
		Week:        week,
		Predictions: preds,
		Submitted:   len(preds) > 0,
	})
}

func (s *Server) handleSavePredictions(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	week := weekParam(r)

	settings, err := s.repo.Settings.Get(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if !settings.PredictionsOpen {
		writeError(w, fmt.Errorf("%w: predictions are closed", repository.ErrValidation))
		return
	}
	if week != settings.CurrentWeek {
		writeError(w, fmt.Errorf("%w: predictions are only open for week %d", repository.ErrValidation, settings.CurrentWeek))
		return
	}

	var preds []models.Prediction
	if err := json.NewDecoder(r.Body).Decode(&preds); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body: %v", repository.ErrValidation, err))
		return
	}

	// Submissions must line up with the week's fixture list.
	fixtures, err := s.repo.Fixtures.GetWeek(r.Context(), week)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(preds) != len(fixtures) {
		writeError(w, fmt.Errorf("%w: expected %d predictions, got %d", repository.ErrValidation, len(fixtures), len(preds)))
		return
	}
	for i := range preds {
		preds[i].HomeTeam = fixtures[i].HomeTeam
		preds[i].AwayTeam = fixtures[i].AwayTeam
	}

	if err := s.repo.Predictions.Save(r.Context(), week, user.Username, preds); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, predictionsResponse{
		Week:        week,
		Predictions: preds,
		Submitted:   true,
	})
}

// adjustmentsRequest is the admin payload for one manual adjustment. The
// acting admin comes from the authenticated request, never the body.
type adjustmentRequest struct {
	Username     string `json:"username"`
	PointsChange int    `json:"points_change"`
	Reason       string `json:"reason"`
}

func (s *Server) handleAppendAdjustment(w http.ResponseWriter, r *http.Request) {
	admin, _ := userFrom(r.Context())

	var req adjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body: %v", repository.ErrValidation, err))
		return
	}

	adj := models.Adjustment{
		Username:     req.Username,
		PointsChange: req.PointsChange,
		Reason:       req.Reason,
		AdminUser:    admin.Username,
		Timestamp:    time.Now().UTC(),
	}
	if err := s.repo.Adjustments.Append(r.Context(), adj); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, adj)
}

func (s *Server) handleListAdjustments(w http.ResponseWriter, r *http.Request) {
	entries, err := s.repo.Adjustments.List(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []models.Adjustment{}
	}
	writeJSON(w, http.StatusOK, entries)
}
