// Package logger provides prediction logging.
package logger

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PredictionLogger provides dedicated logging for match predictions.
type PredictionLogger struct {
	*logrus.Entry
}

// NewPredictionLogger creates a new prediction logger.
func NewPredictionLogger(baseLogger *logrus.Logger) *PredictionLogger {
	return &PredictionLogger{
		Entry: baseLogger.WithField("component", "prediction"),
	}
}

// PredictionRecord is what gets logged for one completed prediction.
type PredictionRecord struct {
	StrengthHome float64
	StrengthAway float64
	MaxGoals     int
	XGHome       float64
	XGAway       float64
	HomeWin      float64
	Draw         float64
	AwayWin      float64
	Over25       float64
	TopScore     string
	Latency      time.Duration
}

// LogPrediction logs a completed prediction and returns its id.
func (pl *PredictionLogger) LogPrediction(rec PredictionRecord) string {
	id := uuid.New().String()
	pl.WithFields(logrus.Fields{
		"prediction_id": id,
		"strength_home": rec.StrengthHome,
		"strength_away": rec.StrengthAway,
		"max_goals":     rec.MaxGoals,
		"xg_home":       rec.XGHome,
		"xg_away":       rec.XGAway,
		"home_win":      rec.HomeWin,
		"draw":          rec.Draw,
		"away_win":      rec.AwayWin,
		"over25":        rec.Over25,
		"top_score":     rec.TopScore,
		"latency_ms":    float64(rec.Latency.Microseconds()) / 1000,
	}).Debug("Prediction computed")
	return id
}

// LogRejectedInput logs a prediction request refused as invalid input.
func (pl *PredictionLogger) LogRejectedInput(err error) {
	pl.WithError(err).Info("Prediction input rejected")
}
