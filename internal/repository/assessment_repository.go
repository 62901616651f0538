package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/models"
)

const errScanAssessment = "failed to scan assessment: %w"

// PostgresAssessmentRepository implements AssessmentRepository.
type PostgresAssessmentRepository struct {
	db *database.DB
}

// NewPostgresAssessmentRepository creates an assessment repository.
func NewPostgresAssessmentRepository(db *database.DB) AssessmentRepository {
	return &PostgresAssessmentRepository{db: db}
}

// Save inserts one assessment.
func (r *PostgresAssessmentRepository) Save(ctx context.Context, assessment *models.EdgeAssessment) error {
	query := `
		INSERT INTO edge_assessments (
			id, game_id, matchup, outcome, predicted_margin, corrected_margin,
			market_line, edge_points, classification, recommended_side,
			key_number_crossed, tier_win_rate, assessed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`
	_, err := r.db.Pool().Exec(ctx, query,
		assessment.ID, assessment.GameID, assessment.Matchup, assessment.Outcome,
		assessment.PredictedMargin, assessment.CorrectedMargin,
		assessment.MarketLine, assessment.EdgePoints, assessment.Classification,
		assessment.RecommendedSide, assessment.KeyNumberCrossed,
		assessment.TierWinRate, assessment.AssessedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save assessment: %w", err)
	}
	return nil
}

// SaveStake inserts the stake sized for an assessment.
func (r *PostgresAssessmentRepository) SaveStake(ctx context.Context, stake *models.StakeRecommendation) error {
	query := `
		INSERT INTO stake_recommendations (
			assessment_id, stars, confidence, bet_percentage, bet_amount,
			kelly_full, kelly_fractional, expected_value
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (assessment_id) DO UPDATE SET
			stars = EXCLUDED.stars,
			confidence = EXCLUDED.confidence,
			bet_percentage = EXCLUDED.bet_percentage,
			bet_amount = EXCLUDED.bet_amount,
			kelly_full = EXCLUDED.kelly_full,
			kelly_fractional = EXCLUDED.kelly_fractional,
			expected_value = EXCLUDED.expected_value
	`
	_, err := r.db.Pool().Exec(ctx, query,
		stake.AssessmentID, stake.Stars, stake.Confidence, stake.BetPercentage,
		stake.BetAmount, stake.KellyFull, stake.KellyFractional, stake.ExpectedValue,
	)
	if err != nil {
		return fmt.Errorf("failed to save stake: %w", err)
	}
	return nil
}

// GetByGameID retrieves all assessments recorded for one game.
func (r *PostgresAssessmentRepository) GetByGameID(ctx context.Context, gameID uuid.UUID) ([]*models.EdgeAssessment, error) {
	query := selectAssessment + ` WHERE game_id = $1 ORDER BY assessed_at DESC`
	return r.queryAssessments(ctx, query, gameID)
}

// GetRecent retrieves assessments made since a cutoff, newest first.
func (r *PostgresAssessmentRepository) GetRecent(ctx context.Context, since time.Time, limit int) ([]*models.EdgeAssessment, error) {
	query := selectAssessment + ` WHERE assessed_at >= $1 ORDER BY assessed_at DESC LIMIT $2`
	return r.queryAssessments(ctx, query, since, limit)
}

const selectAssessment = `
	SELECT id, game_id, matchup, outcome, predicted_margin, corrected_margin,
		market_line, edge_points, classification, recommended_side,
		key_number_crossed, tier_win_rate, assessed_at
	FROM edge_assessments
`

func (r *PostgresAssessmentRepository) queryAssessments(ctx context.Context, query string, args ...any) ([]*models.EdgeAssessment, error) {
	rows, err := r.db.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	var assessments []*models.EdgeAssessment
	for rows.Next() {
		assessment := &models.EdgeAssessment{}
		if err := rows.Scan(
			&assessment.ID, &assessment.GameID, &assessment.Matchup, &assessment.Outcome,
			&assessment.PredictedMargin, &assessment.CorrectedMargin,
			&assessment.MarketLine, &assessment.EdgePoints, &assessment.Classification,
			&assessment.RecommendedSide, &assessment.KeyNumberCrossed,
			&assessment.TierWinRate, &assessment.AssessedAt,
		); err != nil {
			return nil, fmt.Errorf(errScanAssessment, err)
		}
		assessments = append(assessments, assessment)
	}
	return assessments, rows.Err()
}
