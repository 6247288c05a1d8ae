package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/lp2m/internal/datasource"
	"github.com/yourusername/lp2m/internal/predictor"
	"github.com/yourusername/lp2m/internal/service"
)

const maxRequestBodyBytes = 1 << 20

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	predictions *service.PredictionService
	fixtures    *service.FixtureService
	logger      *logrus.Logger
}

// NewHandler creates a new handler
func NewHandler(predictions *service.PredictionService, fixtures *service.FixtureService, logger *logrus.Logger) *Handler {
	return &Handler{
		predictions: predictions,
		fixtures:    fixtures,
		logger:      logger,
	}
}

// Leagues returns the public league list
func (h *Handler) Leagues(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.fixtures.Leagues())
}

// Fixtures returns upcoming fixtures for ?league= (key or numeric id)
func (h *Handler) Fixtures(w http.ResponseWriter, r *http.Request) {
	fixtures, err := h.fixtures.UpcomingFixtures(r.Context(), r.URL.Query().Get("league"))
	if err != nil {
		status := fixtureErrorStatus(err)
		if status >= http.StatusInternalServerError {
			h.logger.WithError(err).WithField("league", r.URL.Query().Get("league")).Error("Fixture lookup failed")
		}
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, fixtures)
}

// Predict runs the Poisson model. An empty body predicts with defaults.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	req, err := predictor.DecodeRequest(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		respondError(w, predictErrorStatus(err), err.Error())
		return
	}

	resp, err := h.predictions.Predict(req)
	if err != nil {
		status := predictErrorStatus(err)
		if status >= http.StatusInternalServerError {
			h.logger.WithError(err).Error("Prediction failed")
		}
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func fixtureErrorStatus(err error) int {
	switch {
	case service.IsLeagueError(err):
		return http.StatusBadRequest
	case datasource.IsProviderError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func predictErrorStatus(err error) int {
	if errors.Is(err, predictor.ErrInvalidInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}
