// Package predictor computes match outcome probabilities from an independent
// Poisson model of home and away goals.
package predictor

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Calibration defaults, taken from average scoring across the major European leagues.
const (
	DefaultBaseHomeXG = 1.45
	DefaultBaseAwayXG = 1.15
	DefaultMinXG      = 0.2
	DefaultStrength   = 1.0
	DefaultMaxGoals   = 7

	// TopScoresLimit is the number of most likely scorelines returned.
	TopScoresLimit = 5

	// MaxGoalsCeiling bounds the grid even when Params sets no limit, so the
	// (MaxGoals+1)² cell slice can always be allocated.
	MaxGoalsCeiling = 1000
)

// ErrInvalidInput is returned for negative, non-finite or non-numeric parameters.
var ErrInvalidInput = errors.New("invalid input")

// Params holds the model calibration. The zero value is not usable, start from DefaultParams.
type Params struct {
	BaseHomeXG float64
	BaseAwayXG float64
	MinXG      float64
	// MaxGoalsLimit caps the score grid. Zero means no cap.
	MaxGoalsLimit int
}

// DefaultParams returns the standard calibration with no grid cap.
func DefaultParams() Params {
	return Params{
		BaseHomeXG: DefaultBaseHomeXG,
		BaseAwayXG: DefaultBaseAwayXG,
		MinXG:      DefaultMinXG,
	}
}

// Input is a single prediction request.
type Input struct {
	StrengthHome float64
	StrengthAway float64
	MaxGoals     int
}

// DefaultInput returns evenly matched teams on the default grid.
func DefaultInput() Input {
	return Input{
		StrengthHome: DefaultStrength,
		StrengthAway: DefaultStrength,
		MaxGoals:     DefaultMaxGoals,
	}
}

// ScoreCell is one scoreline of the grid and its joint probability.
type ScoreCell struct {
	HomeGoals   int
	AwayGoals   int
	Probability float64
}

// Score formats the cell as "H-A".
func (c ScoreCell) Score() string {
	return fmt.Sprintf("%d-%d", c.HomeGoals, c.AwayGoals)
}

// Outcome aggregates the grid by result. Values are probabilities in [0, 1].
type Outcome struct {
	HomeWin float64
	Draw    float64
	AwayWin float64
	Over25  float64
}

// Result is the unrounded output of a prediction.
//
// Probability mass beyond MaxGoals is dropped, so HomeWin+Draw+AwayWin is
// slightly below 1 for small grids. This truncation is expected.
type Result struct {
	XGHome    float64
	XGAway    float64
	MaxGoals  int
	Outcome   Outcome
	Cells     []ScoreCell
	TopScores []ScoreCell
}

// Predictor evaluates the model for a fixed calibration. It holds no mutable
// state and is safe for concurrent use.
type Predictor struct {
	params Params
}

// New validates params and returns a Predictor.
func New(params Params) (*Predictor, error) {
	if !isFinite(params.BaseHomeXG) || params.BaseHomeXG <= 0 {
		return nil, fmt.Errorf("base home xG must be positive, got %v", params.BaseHomeXG)
	}
	if !isFinite(params.BaseAwayXG) || params.BaseAwayXG <= 0 {
		return nil, fmt.Errorf("base away xG must be positive, got %v", params.BaseAwayXG)
	}
	if !isFinite(params.MinXG) || params.MinXG <= 0 {
		return nil, fmt.Errorf("minimum xG must be positive, got %v", params.MinXG)
	}
	if params.MaxGoalsLimit < 0 {
		return nil, fmt.Errorf("max goals limit must be non-negative, got %d", params.MaxGoalsLimit)
	}
	return &Predictor{params: params}, nil
}

// Params returns the calibration in use.
func (p *Predictor) Params() Params {
	return p.params
}

// Predict runs the model with the default calibration.
func Predict(strengthHome, strengthAway float64, maxGoals int) (*Result, error) {
	p := Predictor{params: DefaultParams()}
	return p.Predict(Input{StrengthHome: strengthHome, StrengthAway: strengthAway, MaxGoals: maxGoals})
}

// Predict enumerates every scoreline in [0..MaxGoals]² and aggregates the
// joint probabilities into outcome buckets and the most likely scores.
func (p *Predictor) Predict(in Input) (*Result, error) {
	if err := p.validate(in); err != nil {
		return nil, err
	}

	xgHome := math.Max(p.params.MinXG, p.params.BaseHomeXG*in.StrengthHome)
	xgAway := math.Max(p.params.MinXG, p.params.BaseAwayXG*in.StrengthAway)

	// Marginals are computed once per side; the grid is their outer product.
	homePMF := poissonPMF(xgHome, in.MaxGoals)
	awayPMF := poissonPMF(xgAway, in.MaxGoals)

	res := &Result{
		XGHome:   xgHome,
		XGAway:   xgAway,
		MaxGoals: in.MaxGoals,
		Cells:    make([]ScoreCell, 0, (in.MaxGoals+1)*(in.MaxGoals+1)),
	}

	for s1 := 0; s1 <= in.MaxGoals; s1++ {
		for s2 := 0; s2 <= in.MaxGoals; s2++ {
			prob := homePMF[s1] * awayPMF[s2]

			switch {
			case s1 > s2:
				res.Outcome.HomeWin += prob
			case s1 == s2:
				res.Outcome.Draw += prob
			default:
				res.Outcome.AwayWin += prob
			}
			if s1+s2 >= 3 {
				res.Outcome.Over25 += prob
			}

			res.Cells = append(res.Cells, ScoreCell{HomeGoals: s1, AwayGoals: s2, Probability: prob})
		}
	}

	res.TopScores = topScores(res.Cells, TopScoresLimit)
	return res, nil
}

func (p *Predictor) validate(in Input) error {
	if in.MaxGoals < 0 {
		return fmt.Errorf("%w: maxGoals must be non-negative, got %d", ErrInvalidInput, in.MaxGoals)
	}
	if in.MaxGoals > MaxGoalsCeiling {
		return fmt.Errorf("%w: maxGoals must not exceed %d, got %d", ErrInvalidInput, MaxGoalsCeiling, in.MaxGoals)
	}
	if p.params.MaxGoalsLimit > 0 && in.MaxGoals > p.params.MaxGoalsLimit {
		return fmt.Errorf("%w: maxGoals must not exceed %d, got %d", ErrInvalidInput, p.params.MaxGoalsLimit, in.MaxGoals)
	}
	if !isFinite(in.StrengthHome) || in.StrengthHome < 0 {
		return fmt.Errorf("%w: strengthHome must be a non-negative number, got %v", ErrInvalidInput, in.StrengthHome)
	}
	if !isFinite(in.StrengthAway) || in.StrengthAway < 0 {
		return fmt.Errorf("%w: strengthAway must be a non-negative number, got %v", ErrInvalidInput, in.StrengthAway)
	}
	return nil
}

// topScores returns the n most likely cells. The sort is stable so equal
// probabilities keep enumeration order.
func topScores(cells []ScoreCell, n int) []ScoreCell {
	sorted := make([]ScoreCell, len(cells))
	copy(sorted, cells)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Probability > sorted[j].Probability
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// poissonPMF returns P(X = k) for k in [0, maxK] where X ~ Poisson(lambda).
func poissonPMF(lambda float64, maxK int) []float64 {
	pmf := make([]float64, maxK+1)
	for k := range pmf {
		pmf[k] = poissonProb(lambda, k)
	}
	return pmf
}

// poissonProb evaluates e^-λ λ^k / k! in log space so large k does not overflow.
func poissonProb(lambda float64, k int) float64 {
	if k == 0 {
		return math.Exp(-lambda)
	}
	logFact, _ := math.Lgamma(float64(k) + 1)
	return math.Exp(float64(k)*math.Log(lambda) - lambda - logFact)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
