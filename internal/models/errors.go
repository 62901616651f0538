package models

import "errors"

// Custom errors
var (
	ErrMissingRating   = errors.New("no rating available for team")
	ErrUnknownTeam     = errors.New("unknown team")
	ErrGameNotComplete = errors.New("game result not known")
	ErrOutOfOrderGame  = errors.New("game out of chronological order for team")
	ErrDuplicateResult = errors.New("result already applied for team")
	ErrNotFound        = errors.New("record not found")
)
