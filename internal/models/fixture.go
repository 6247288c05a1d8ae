package models

import (
	"encoding/json"
)

// Fixture represents an upcoming match as returned by a fixture provider.
type Fixture struct {
	ID     string          `json:"id"`
	Date   string          `json:"date"`
	Time   string          `json:"time,omitempty"`
	Home   string          `json:"home"`
	Away   string          `json:"away"`
	League string          `json:"league,omitempty"`
	Raw    json.RawMessage `json:"raw,omitempty"`
}

// Matchup returns "Home vs Away".
func (f *Fixture) Matchup() string {
	return f.Home + " vs " + f.Away
}
