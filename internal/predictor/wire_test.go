package predictor

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequestEmptyBody(t *testing.T) {
	for _, body := range []string{"", "   ", "\n"} {
		req, err := DecodeRequest(strings.NewReader(body))
		require.NoError(t, err)

		in, err := req.Input(DefaultInput())
		require.NoError(t, err)
		assert.Equal(t, DefaultInput(), in)
	}
}

func TestDecodeRequestValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Input
	}{
		{"numbers", `{"strengthHome": 1.2, "strengthAway": 0.8, "maxGoals": 5}`, Input{1.2, 0.8, 5}},
		{"numeric strings", `{"strengthHome": "1.3", "strengthAway": " 0.7 ", "maxGoals": "6"}`, Input{1.3, 0.7, 6}},
		{"partial", `{"strengthAway": 1.1}`, Input{DefaultStrength, 1.1, DefaultMaxGoals}},
		{"nulls keep defaults", `{"strengthHome": null, "maxGoals": null}`, DefaultInput()},
		{"empty object", `{}`, DefaultInput()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := DecodeRequest(strings.NewReader(tt.body))
			require.NoError(t, err)

			in, err := req.Input(DefaultInput())
			require.NoError(t, err)
			assert.InDelta(t, tt.want.StrengthHome, in.StrengthHome, 1e-12)
			assert.InDelta(t, tt.want.StrengthAway, in.StrengthAway, 1e-12)
			assert.Equal(t, tt.want.MaxGoals, in.MaxGoals)
		})
	}
}

func TestDecodeRequestInvalid(t *testing.T) {
	bodies := []string{
		`{"strengthHome": "strong"}`,
		`{"strengthAway": true}`,
		`{"maxGoals": "NaN"}`,
		`{"strengthHome": [1]}`,
		`not json`,
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			_, err := DecodeRequest(strings.NewReader(body))
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRequestInputRejectsBadMaxGoals(t *testing.T) {
	for _, body := range []string{`{"maxGoals": -1}`, `{"maxGoals": 2.5}`, `{"maxGoals": 1e12}`} {
		t.Run(body, func(t *testing.T) {
			req, err := DecodeRequest(strings.NewReader(body))
			require.NoError(t, err)

			_, err = req.Input(DefaultInput())
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestNewResponseDefaults(t *testing.T) {
	res, err := Predict(1.0, 1.0, 7)
	require.NoError(t, err)

	resp := NewResponse(res)
	assert.Equal(t, 1.45, resp.XGHome)
	assert.Equal(t, 1.15, resp.XGAway)
	assert.Equal(t, Probabilities{Home: 44.0, Draw: 26.0, Away: 30.0, Over25: 48.1}, resp.Prob)
	assert.Equal(t, []ScoreProbability{
		{Score: "1-1", P: 12.4},
		{Score: "1-0", P: 10.8},
		{Score: "2-1", P: 9.0},
		{Score: "0-1", P: 8.5},
		{Score: "2-0", P: 7.8},
	}, resp.TopScores)
}

func TestNewResponseZeroGrid(t *testing.T) {
	res, err := Predict(1.0, 1.0, 0)
	require.NoError(t, err)

	resp := NewResponse(res)
	assert.Equal(t, Probabilities{Draw: 7.4}, resp.Prob)
	assert.Equal(t, []ScoreProbability{{Score: "0-0", P: 7.4}}, resp.TopScores)
}

func TestResponseJSONShape(t *testing.T) {
	res, err := Predict(1.1, 0.9, 7)
	require.NoError(t, err)

	data, err := json.Marshal(NewResponse(res))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "xgHome")
	assert.Contains(t, decoded, "xgAway")

	prob, ok := decoded["prob"].(map[string]interface{})
	require.True(t, ok)
	for _, key := range []string{"home", "draw", "away", "over25"} {
		assert.Contains(t, prob, key)
	}

	top, ok := decoded["topScores"].([]interface{})
	require.True(t, ok)
	assert.Len(t, top, TopScoresLimit)
	first := top[0].(map[string]interface{})
	assert.Contains(t, first, "score")
	assert.Contains(t, first, "p")
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 0.3, round(0.25, 1))
	assert.Equal(t, 1.46, round(1.455, 2))
	assert.Equal(t, 12.4, percent(0.12385119167240174))
}

func TestRoundUsesExactBinaryValue(t *testing.T) {
	tests := []struct {
		in     float64
		places int32
		want   float64
	}{
		{0.575, 2, 0.57},
		{1.005, 2, 1.0},
		{0.25, 2, 0.25},
		{12.25, 1, 12.3},
		{1.45, 2, 1.45},
		{2.675, 2, 2.67},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, round(tt.in, tt.places), "round(%v, %d)", tt.in, tt.places)
	}
}

func TestResponseHalfStrengthAway(t *testing.T) {
	res, err := Predict(1.0, 0.5, DefaultMaxGoals)
	require.NoError(t, err)

	resp := NewResponse(res)
	assert.Equal(t, 0.57, resp.XGAway, "1.15*0.5 sits just below 0.575")
	assert.Equal(t, 1.45, resp.XGHome)
}
