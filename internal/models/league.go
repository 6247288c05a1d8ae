package models

import (
	"fmt"
	"strconv"
	"strings"
)

// League is a competition exposed to API consumers.
type League struct {
	Key  string `json:"key"`
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Public league keys.
const (
	LeagueLigue1     = "ligue1"
	LeaguePremier    = "premier"
	LeagueLaLiga     = "laliga"
	LeagueSerieA     = "seriea"
	LeagueBundesliga = "bundesliga"
	LeagueUCL        = "ucl"
)

// publicLeagues lists the supported competitions with their TheSportsDB ids.
var publicLeagues = []League{
	{Key: LeagueLigue1, ID: 4334, Name: "Ligue 1"},
	{Key: LeaguePremier, ID: 4328, Name: "Premier League"},
	{Key: LeagueLaLiga, ID: 4335, Name: "LaLiga"},
	{Key: LeagueSerieA, ID: 4332, Name: "Serie A"},
	{Key: LeagueBundesliga, ID: 4331, Name: "Bundesliga"},
	{Key: LeagueUCL, ID: 4480, Name: "UEFA Champions League"},
}

// PublicLeagues returns a copy of the public league list in display order.
func PublicLeagues() []League {
	out := make([]League, len(publicLeagues))
	copy(out, publicLeagues)
	return out
}

// LeagueIDs maps league keys to a provider's numeric ids.
type LeagueIDs map[string]int

// TheSportsDBLeagueIDs returns the key to id mapping used by TheSportsDB.
func TheSportsDBLeagueIDs() LeagueIDs {
	ids := make(LeagueIDs, len(publicLeagues))
	for _, l := range publicLeagues {
		ids[l.Key] = l.ID
	}
	return ids
}

// Resolve accepts either a numeric id or a known league key.
func (ids LeagueIDs) Resolve(param string) (int, error) {
	param = strings.TrimSpace(param)
	if param == "" {
		return 0, ErrLeagueRequired
	}

	if id, err := strconv.Atoi(param); err == nil {
		if id <= 0 {
			return 0, fmt.Errorf("%w: %d", ErrUnknownLeague, id)
		}
		return id, nil
	}

	id, ok := ids[strings.ToLower(param)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownLeague, param)
	}
	return id, nil
}

// APIFootballLeagueIDs returns the key to id mapping used by API-Football.
func APIFootballLeagueIDs() LeagueIDs {
	return LeagueIDs{
		LeagueLigue1:     61,
		LeaguePremier:    39,
		LeagueLaLiga:     140,
		LeagueSerieA:     135,
		LeagueBundesliga: 78,
		LeagueUCL:        2,
	}
}
