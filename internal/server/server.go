// Package server exposes the league over a JSON HTTP API: public standings
// and settings, authenticated prediction submission, and admin endpoints for
// fixtures, results, users, settings and manual adjustments.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"predleague/engine/internal/league"
	"predleague/engine/internal/metrics"
	"predleague/engine/internal/repository"
	"predleague/engine/internal/store"
)

// Server wires the repositories and the scoring engine to HTTP routes.
type Server struct {
	repo   *repository.Repository
	engine *league.Engine

	scoreCurrentWeek bool
}

// New creates a Server.
func New(repo *repository.Repository, engine *league.Engine, scoreCurrentWeek bool) *Server {
	return &Server{
		repo:             repo,
		engine:           engine,
		scoreCurrentWeek: scoreCurrentWeek,
	}
}

// Router builds the full route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.instrument)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/leaderboard", s.handleLeaderboard).Methods(http.MethodGet)
	api.HandleFunc("/settings", s.handlePublicSettings).Methods(http.MethodGet)
	api.HandleFunc("/weeks/{week:[0-9]+}/fixtures", s.handleGetFixtures).Methods(http.MethodGet)
	api.HandleFunc("/weeks/{week:[0-9]+}/results", s.handleGetResults).Methods(http.MethodGet)

	authed := api.NewRoute().Subrouter()
	authed.Use(s.requireUser)
	authed.HandleFunc("/weeks/{week:[0-9]+}/predictions", s.handleGetPredictions).Methods(http.MethodGet)
	authed.HandleFunc("/weeks/{week:[0-9]+}/predictions", s.handleSavePredictions).Methods(http.MethodPut)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(s.requireUser, s.requireAdmin)
	admin.HandleFunc("/weeks/{week:[0-9]+}/fixtures", s.handleSaveFixtures).Methods(http.MethodPut)
	admin.HandleFunc("/weeks/{week:[0-9]+}/results", s.handleSaveResults).Methods(http.MethodPut)
	admin.HandleFunc("/settings", s.handleUpdateSettings).Methods(http.MethodPut)
	admin.HandleFunc("/users", s.handleAddUser).Methods(http.MethodPost)
	admin.HandleFunc("/adjustments", s.handleListAdjustments).Methods(http.MethodGet)
	admin.HandleFunc("/adjustments", s.handleAppendAdjustment).Methods(http.MethodPost)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// instrument records request count and duration per route.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		metrics.HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// weekParam extracts the {week} route variable.
func weekParam(r *http.Request) int {
	week, _ := strconv.Atoi(mux.Vars(r)["week"])
	return week
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeError maps the error taxonomy to HTTP statuses: validation failures
// are the client's fault, absent documents are 404, exhausted conflict
// retries are 409, and an undecodable document is a server-side data problem
// that must stay loud.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repository.ErrValidation):
		status = http.StatusBadRequest
	case store.IsNotFound(err):
		status = http.StatusNotFound
	case store.IsConflict(err):
		status = http.StatusConflict
	case store.IsDecodeError(err):
		log.Error().Err(err).Msg("Document decode failure")
	default:
		log.Error().Err(err).Msg("Request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
