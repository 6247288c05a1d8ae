package predictor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// exactDigits is enough fractional digits to keep every float64 we display
// distinguishable from a rounding tie.
const exactDigits = 80

// Number is a JSON number that also accepts numeric strings such as "1.2".
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		raw = strings.TrimSpace(s)
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || !isFinite(f) {
		return fmt.Errorf("%w: %s is not a finite number", ErrInvalidInput, string(b))
	}
	*n = Number(f)
	return nil
}

// Request is the JSON body of a prediction call. Omitted fields take defaults.
type Request struct {
	StrengthHome *Number `json:"strengthHome,omitempty"`
	StrengthAway *Number `json:"strengthAway,omitempty"`
	MaxGoals     *Number `json:"maxGoals,omitempty"`
}

// DecodeRequest reads a Request from r. An empty body yields the zero Request.
// Every decoding failure is reported as ErrInvalidInput.
func DecodeRequest(r io.Reader) (Request, error) {
	var req Request
	body, err := io.ReadAll(r)
	if err != nil {
		return req, fmt.Errorf("reading request body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(body, &req); err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return req, err
		}
		return req, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return req, nil
}

// Input merges the request over defaults.
func (r Request) Input(defaults Input) (Input, error) {
	in := defaults
	if r.StrengthHome != nil {
		in.StrengthHome = float64(*r.StrengthHome)
	}
	if r.StrengthAway != nil {
		in.StrengthAway = float64(*r.StrengthAway)
	}
	if r.MaxGoals != nil {
		mg := float64(*r.MaxGoals)
		if mg != math.Trunc(mg) {
			return in, fmt.Errorf("%w: maxGoals must be an integer, got %v", ErrInvalidInput, mg)
		}
		if mg < 0 {
			return in, fmt.Errorf("%w: maxGoals must be non-negative, got %v", ErrInvalidInput, mg)
		}
		if mg > math.MaxInt32 {
			return in, fmt.Errorf("%w: maxGoals is too large, got %v", ErrInvalidInput, mg)
		}
		in.MaxGoals = int(mg)
	}
	return in, nil
}

// Probabilities are percentages rounded to one decimal.
type Probabilities struct {
	Home   float64 `json:"home"`
	Draw   float64 `json:"draw"`
	Away   float64 `json:"away"`
	Over25 float64 `json:"over25"`
}

// ScoreProbability is a scoreline with its percentage.
type ScoreProbability struct {
	Score string  `json:"score"`
	P     float64 `json:"p"`
}

// Response is the JSON shape returned to callers.
type Response struct {
	XGHome    float64            `json:"xgHome"`
	XGAway    float64            `json:"xgAway"`
	Prob      Probabilities      `json:"prob"`
	TopScores []ScoreProbability `json:"topScores"`
}

// NewResponse rounds a Result for display. Buckets are rounded independently
// and are not renormalised, so they need not sum to exactly 100.
func NewResponse(res *Result) Response {
	top := make([]ScoreProbability, 0, len(res.TopScores))
	for _, c := range res.TopScores {
		top = append(top, ScoreProbability{Score: c.Score(), P: percent(c.Probability)})
	}

	return Response{
		XGHome: round(res.XGHome, 2),
		XGAway: round(res.XGAway, 2),
		Prob: Probabilities{
			Home:   percent(res.Outcome.HomeWin),
			Draw:   percent(res.Outcome.Draw),
			Away:   percent(res.Outcome.AwayWin),
			Over25: percent(res.Outcome.Over25),
		},
		TopScores: top,
	}
}

func percent(p float64) float64 {
	return round(p*100, 1)
}

// round rounds half-up on the exact binary value of v, not its shortest
// decimal form: 1.15*0.5 is stored just below 0.575 and rounds to 0.57.
func round(v float64, places int32) float64 {
	if !isFinite(v) {
		return v
	}
	exact := new(big.Float).SetFloat64(v).Text('f', exactDigits)
	return decimal.RequireFromString(exact).Round(places).InexactFloat64()
}
