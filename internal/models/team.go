package models

// Team represents a league team and its current power rating.
// Rating is mutated only by the rating engine when a completed game is applied.
type Team struct {
	Name         string  `db:"name" json:"name" validate:"required"`
	Abbreviation string  `db:"abbreviation" json:"abbreviation" validate:"required,uppercase,min=2,max=4"`
	Rating       float64 `db:"rating" json:"rating"`
	GamesPlayed  int     `db:"games_played" json:"games_played" validate:"gte=0"`
	Wins         int     `db:"wins" json:"wins" validate:"gte=0"`
	Losses       int     `db:"losses" json:"losses" validate:"gte=0"`
	Ties         int     `db:"ties" json:"ties" validate:"gte=0"`
}

// Record returns the team's win-loss-tie record as a win percentage,
// counting ties as half a win.
func (t *Team) Record() float64 {
	games := t.Wins + t.Losses + t.Ties
	if games == 0 {
		return 0
	}
	return (float64(t.Wins) + 0.5*float64(t.Ties)) / float64(games)
}

// HasHistory reports whether the team has any completed games recorded.
func (t *Team) HasHistory() bool {
	return t.GamesPlayed > 0
}
