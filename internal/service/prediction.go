// Package service wires the predictor and fixture providers to logging and metrics.
package service

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/lp2m/internal/config"
	"github.com/yourusername/lp2m/internal/logger"
	"github.com/yourusername/lp2m/internal/metrics"
	"github.com/yourusername/lp2m/internal/predictor"
)

// PredictionService runs the Poisson model for API and CLI callers
type PredictionService struct {
	predictor *predictor.Predictor
	defaults  predictor.Input
	logger    *logger.PredictionLogger
}

// NewPredictionService builds the predictor from configuration
func NewPredictionService(cfg config.PredictorConfig, log *logrus.Logger) (*PredictionService, error) {
	p, err := predictor.New(predictor.Params{
		BaseHomeXG:    cfg.BaseHomeXG,
		BaseAwayXG:    cfg.BaseAwayXG,
		MinXG:         cfg.MinXG,
		MaxGoalsLimit: cfg.MaxGoalsLimit,
	})
	if err != nil {
		return nil, err
	}

	defaults := predictor.DefaultInput()
	defaults.MaxGoals = cfg.DefaultMaxGoals

	return &PredictionService{
		predictor: p,
		defaults:  defaults,
		logger:    logger.NewPredictionLogger(log),
	}, nil
}

// Defaults returns the input used for omitted request fields
func (s *PredictionService) Defaults() predictor.Input {
	return s.defaults
}

// Predict merges req over the defaults and returns the rounded response.
// Invalid input is reported as predictor.ErrInvalidInput.
func (s *PredictionService) Predict(req predictor.Request) (predictor.Response, error) {
	in, err := req.Input(s.defaults)
	if err != nil {
		return predictor.Response{}, s.reject(err)
	}
	return s.PredictInput(in)
}

// PredictInput runs the model on a fully specified input
func (s *PredictionService) PredictInput(in predictor.Input) (predictor.Response, error) {
	start := time.Now()
	res, err := s.predictor.Predict(in)
	if err != nil {
		return predictor.Response{}, s.reject(err)
	}
	latency := time.Since(start)
	metrics.RecordPrediction(latency.Seconds())

	resp := predictor.NewResponse(res)
	rec := logger.PredictionRecord{
		StrengthHome: in.StrengthHome,
		StrengthAway: in.StrengthAway,
		MaxGoals:     in.MaxGoals,
		XGHome:       res.XGHome,
		XGAway:       res.XGAway,
		HomeWin:      res.Outcome.HomeWin,
		Draw:         res.Outcome.Draw,
		AwayWin:      res.Outcome.AwayWin,
		Over25:       res.Outcome.Over25,
		Latency:      latency,
	}
	if len(resp.TopScores) > 0 {
		rec.TopScore = resp.TopScores[0].Score
	}
	s.logger.LogPrediction(rec)

	return resp, nil
}

func (s *PredictionService) reject(err error) error {
	if errors.Is(err, predictor.ErrInvalidInput) {
		metrics.RecordPredictionError()
		s.logger.LogRejectedInput(err)
	}
	return err
}
