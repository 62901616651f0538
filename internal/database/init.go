package database

import (
	"context"

	"github.com/yourusername/gridiron-edge/internal/config"
)

// schema creates the persistence tables when they do not exist. The
// layer stores finished outputs only; the engine never reads them back
// during evaluation.
const schema = `
CREATE TABLE IF NOT EXISTS edge_assessments (
	id UUID PRIMARY KEY,
	game_id UUID NOT NULL,
	matchup TEXT NOT NULL,
	outcome TEXT NOT NULL,
	predicted_margin DOUBLE PRECISION NOT NULL,
	corrected_margin DOUBLE PRECISION NOT NULL,
	market_line DOUBLE PRECISION NOT NULL,
	edge_points DOUBLE PRECISION NOT NULL,
	classification TEXT NOT NULL,
	recommended_side TEXT NOT NULL,
	key_number_crossed BOOLEAN NOT NULL,
	tier_win_rate DOUBLE PRECISION NOT NULL,
	assessed_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS stake_recommendations (
	assessment_id UUID PRIMARY KEY REFERENCES edge_assessments(id),
	stars DOUBLE PRECISION NOT NULL,
	confidence TEXT NOT NULL,
	bet_percentage DOUBLE PRECISION NOT NULL,
	bet_amount NUMERIC(14,2) NOT NULL,
	kelly_full DOUBLE PRECISION NOT NULL,
	kelly_fractional DOUBLE PRECISION NOT NULL,
	expected_value DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS backtest_reports (
	id UUID PRIMARY KEY,
	generated_at TIMESTAMPTZ NOT NULL,
	games_processed INTEGER NOT NULL,
	winner_accuracy DOUBLE PRECISION NOT NULL,
	ats_win_rate DOUBLE PRECISION NOT NULL,
	mean_abs_error DOUBLE PRECISION NOT NULL,
	median_abs_error DOUBLE PRECISION NOT NULL,
	initial_bankroll DOUBLE PRECISION NOT NULL,
	final_bankroll DOUBLE PRECISION NOT NULL,
	max_drawdown DOUBLE PRECISION NOT NULL,
	report JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_edge_assessments_game ON edge_assessments (game_id);
CREATE INDEX IF NOT EXISTS idx_edge_assessments_assessed_at ON edge_assessments (assessed_at);
CREATE INDEX IF NOT EXISTS idx_backtest_reports_generated_at ON backtest_reports (generated_at);
`

// Initialize opens the pool and ensures the schema exists.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if _, err := db.pool.Exec(ctx, schema); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
