package predictor

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const probTolerance = 1e-12

func TestPredictDefaultRates(t *testing.T) {
	res, err := Predict(1.0, 1.0, 7)
	require.NoError(t, err)

	assert.Equal(t, 1.45, res.XGHome)
	assert.Equal(t, 1.15, res.XGAway)
	assert.Len(t, res.Cells, 64)
}

func TestPredictDefaultOutcome(t *testing.T) {
	res, err := Predict(1.0, 1.0, 7)
	require.NoError(t, err)

	assert.InDelta(t, 0.4396873662770221, res.Outcome.HomeWin, 1e-9)
	assert.InDelta(t, 0.26038784935905408, res.Outcome.Draw, 1e-9)
	assert.InDelta(t, 0.29976224962257568, res.Outcome.AwayWin, 1e-9)
	assert.InDelta(t, 0.4814078893226014, res.Outcome.Over25, 1e-9)

	want := []string{"1-1", "1-0", "2-1", "0-1", "2-0"}
	require.Len(t, res.TopScores, len(want))
	for i, score := range want {
		assert.Equal(t, score, res.TopScores[i].Score())
	}
}

func TestPredictStrengthFloor(t *testing.T) {
	tests := []struct {
		name         string
		strengthHome float64
		strengthAway float64
		wantHome     float64
		wantAway     float64
	}{
		{"zero strengths", 0, 0, DefaultMinXG, DefaultMinXG},
		{"weak home only", 0.1, 1.0, DefaultMinXG, DefaultBaseAwayXG},
		{"above floor", 0.7, 1.3, DefaultBaseHomeXG * 0.7, DefaultBaseAwayXG * 1.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Predict(tt.strengthHome, tt.strengthAway, DefaultMaxGoals)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantHome, res.XGHome, probTolerance)
			assert.InDelta(t, tt.wantAway, res.XGAway, probTolerance)
		})
	}
}

func TestPredictZeroGoalGrid(t *testing.T) {
	res, err := Predict(1.0, 1.0, 0)
	require.NoError(t, err)

	require.Len(t, res.Cells, 1)
	cell := res.Cells[0]
	assert.Equal(t, 0, cell.HomeGoals)
	assert.Equal(t, 0, cell.AwayGoals)
	assert.InDelta(t, math.Exp(-1.45)*math.Exp(-1.15), cell.Probability, probTolerance)

	assert.Zero(t, res.Outcome.Over25)
	assert.Zero(t, res.Outcome.HomeWin)
	assert.Zero(t, res.Outcome.AwayWin)
	assert.InDelta(t, cell.Probability, res.Outcome.Draw, probTolerance)
	require.Len(t, res.TopScores, 1)
}

func TestPredictNegativeMaxGoals(t *testing.T) {
	_, err := Predict(1.0, 1.0, -1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestPredictInvalidStrengths(t *testing.T) {
	tests := []struct {
		name         string
		strengthHome float64
		strengthAway float64
	}{
		{"negative home", -0.5, 1.0},
		{"negative away", 1.0, -2},
		{"NaN home", math.NaN(), 1.0},
		{"infinite away", 1.0, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Predict(tt.strengthHome, tt.strengthAway, DefaultMaxGoals)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestPredictMaxGoalsLimit(t *testing.T) {
	params := DefaultParams()
	params.MaxGoalsLimit = 10
	p, err := New(params)
	require.NoError(t, err)

	_, err = p.Predict(Input{StrengthHome: 1, StrengthAway: 1, MaxGoals: 11})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = p.Predict(Input{StrengthHome: 1, StrengthAway: 1, MaxGoals: 10})
	assert.NoError(t, err)
}

func TestPredictMaxGoalsCeiling(t *testing.T) {
	for _, maxGoals := range []int{MaxGoalsCeiling + 1, math.MaxInt32, math.MaxInt} {
		_, err := Predict(1.0, 1.0, maxGoals)
		assert.ErrorIs(t, err, ErrInvalidInput, "maxGoals=%d", maxGoals)
	}

	res, err := Predict(1.0, 1.0, 60)
	require.NoError(t, err)
	assert.Len(t, res.Cells, 61*61)
}

func TestNewRejectsBadParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero home baseline", func(p *Params) { p.BaseHomeXG = 0 }},
		{"negative away baseline", func(p *Params) { p.BaseAwayXG = -1 }},
		{"zero floor", func(p *Params) { p.MinXG = 0 }},
		{"negative limit", func(p *Params) { p.MaxGoalsLimit = -3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := DefaultParams()
			tt.mutate(&params)
			_, err := New(params)
			assert.Error(t, err)
		})
	}
}

func TestCustomBaselines(t *testing.T) {
	p, err := New(Params{BaseHomeXG: 2.0, BaseAwayXG: 1.0, MinXG: 0.5})
	require.NoError(t, err)

	res, err := p.Predict(Input{StrengthHome: 1.5, StrengthAway: 0.25, MaxGoals: 5})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, res.XGHome, probTolerance)
	assert.InDelta(t, 0.5, res.XGAway, probTolerance)
}

func TestOutcomeTruncationBound(t *testing.T) {
	for _, maxGoals := range []int{7, 8, 10, 15, 25} {
		res, err := Predict(1.0, 1.0, maxGoals)
		require.NoError(t, err)

		total := (res.Outcome.HomeWin + res.Outcome.Draw + res.Outcome.AwayWin) * 100
		assert.GreaterOrEqual(t, total, 99.0, "maxGoals=%d", maxGoals)
		assert.LessOrEqual(t, total, 100.0+1e-9, "maxGoals=%d", maxGoals)
	}
}

func TestOver25MonotonicInMaxGoals(t *testing.T) {
	prev := -1.0
	for maxGoals := 0; maxGoals <= 20; maxGoals++ {
		res, err := Predict(1.2, 0.9, maxGoals)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.Outcome.Over25, prev, "maxGoals=%d", maxGoals)
		prev = res.Outcome.Over25
	}

	// Converges: the tail beyond 20 goals is negligible.
	far, err := Predict(1.2, 0.9, 40)
	require.NoError(t, err)
	assert.InDelta(t, far.Outcome.Over25, prev, 1e-9)
}

func TestHomeWinMonotonicInStrength(t *testing.T) {
	prev := -1.0
	for _, strength := range []float64{0.5, 0.7, 0.9, 1.0, 1.1, 1.3, 1.6} {
		res, err := Predict(strength, 1.0, DefaultMaxGoals)
		require.NoError(t, err)
		assert.Greater(t, res.Outcome.HomeWin, prev, "strengthHome=%v", strength)
		prev = res.Outcome.HomeWin
	}
}

func TestTopScoresOrdering(t *testing.T) {
	res, err := Predict(1.3, 0.7, 9)
	require.NoError(t, err)

	require.LessOrEqual(t, len(res.TopScores), TopScoresLimit)
	seen := make(map[string]bool)
	for i, cell := range res.TopScores {
		assert.False(t, seen[cell.Score()], "duplicate scoreline %s", cell.Score())
		seen[cell.Score()] = true
		if i > 0 {
			assert.LessOrEqual(t, cell.Probability, res.TopScores[i-1].Probability)
		}
	}
}

func TestTopScoresStableOnTies(t *testing.T) {
	cells := []ScoreCell{
		{HomeGoals: 0, AwayGoals: 0, Probability: 0.1},
		{HomeGoals: 0, AwayGoals: 1, Probability: 0.3},
		{HomeGoals: 1, AwayGoals: 0, Probability: 0.3},
		{HomeGoals: 1, AwayGoals: 1, Probability: 0.2},
	}

	top := topScores(cells, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "0-1", top[0].Score())
	assert.Equal(t, "1-0", top[1].Score())
	assert.Equal(t, "1-1", top[2].Score())
	assert.Equal(t, "0-0", cells[0].Score(), "input must not be reordered")
}

func TestPoissonProbSumsToOne(t *testing.T) {
	sum := 0.0
	for _, p := range poissonPMF(1.45, 60) {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestPredictConcurrentCallers(t *testing.T) {
	p, err := New(DefaultParams())
	require.NoError(t, err)

	want, err := p.Predict(DefaultInput())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := p.Predict(DefaultInput())
			if assert.NoError(t, err) {
				assert.Equal(t, want.Outcome, got.Outcome)
			}
		}()
	}
	wg.Wait()
}
