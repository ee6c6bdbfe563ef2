package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"predleague/engine/internal/models"
	"predleague/engine/internal/repository"
)

func (s *Server) handleSaveFixtures(w http.ResponseWriter, r *http.Request) {
	var fixtures []models.Fixture
	if err := json.NewDecoder(r.Body).Decode(&fixtures); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body: %v", repository.ErrValidation, err))
		return
	}

	week := weekParam(r)
	if err := s.repo.Fixtures.SaveWeek(r.Context(), week, fixtures); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"week": week, "fixtures": len(fixtures)})
}

func (s *Server) handleSaveResults(w http.ResponseWriter, r *http.Request) {
	var results []models.Result
	if err := json.NewDecoder(r.Body).Decode(&results); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body: %v", repository.ErrValidation, err))
		return
	}

	week := weekParam(r)
	if err := s.repo.Results.SaveWeek(r.Context(), week, results); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"week": week, "results": len(results)})
}

// settingsRequest carries targeted settings updates; nil fields are left
// untouched.
type settingsRequest struct {
	CurrentWeek     *int                 `json:"current_week,omitempty"`
	PredictionsOpen *bool                `json:"predictions_open,omitempty"`
	FrontPageBlurb  *string              `json:"front_page_blurb,omitempty"`
	LeagueName      *string              `json:"league_name,omitempty"`
	PointsSystem    *models.PointsSystem `json:"points_system,omitempty"`
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body: %v", repository.ErrValidation, err))
		return
	}

	if req.CurrentWeek != nil && *req.CurrentWeek < 1 {
		writeError(w, fmt.Errorf("%w: week must be positive", repository.ErrValidation))
		return
	}

	err := s.repo.Settings.Update(r.Context(), "Update league settings", func(settings *models.Settings) error {
		if req.CurrentWeek != nil {
			settings.CurrentWeek = *req.CurrentWeek
		}
		if req.PredictionsOpen != nil {
			settings.PredictionsOpen = *req.PredictionsOpen
		}
		if req.FrontPageBlurb != nil {
			settings.FrontPageBlurb = *req.FrontPageBlurb
		}
		if req.LeagueName != nil {
			settings.LeagueName = *req.LeagueName
		}
		if req.PointsSystem != nil {
			settings.PointsSystem = *req.PointsSystem
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}

	settings, err := s.repo.Settings.Get(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

type addUserRequest struct {
	Username    string `json:"username"`
	Passcode    string `json:"passcode"`
	DisplayName string `json:"display_name"`
	IsAdmin     bool   `json:"is_admin"`
}

func (s *Server) handleAddUser(w http.ResponseWriter, r *http.Request) {
	var req addUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body: %v", repository.ErrValidation, err))
		return
	}

	if err := s.repo.Users.Add(r.Context(), req.Username, req.Passcode, req.DisplayName, req.IsAdmin); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"username": req.Username})
}
