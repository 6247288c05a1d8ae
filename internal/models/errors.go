package models

import "errors"

// Custom errors
var (
	ErrLeagueRequired = errors.New("league required (key or id)")
	ErrUnknownLeague  = errors.New("unknown league key")
)
