// Package repository persists engine outputs to PostgreSQL. It is an
// optional outer layer; nothing in the evaluation path depends on it.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/gridiron-edge/internal/backtest"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// AssessmentRepository stores edge assessments and their stakes.
type AssessmentRepository interface {
	Save(ctx context.Context, assessment *models.EdgeAssessment) error
	SaveStake(ctx context.Context, stake *models.StakeRecommendation) error
	GetByGameID(ctx context.Context, gameID uuid.UUID) ([]*models.EdgeAssessment, error)
	GetRecent(ctx context.Context, since time.Time, limit int) ([]*models.EdgeAssessment, error)
}

// ReportRepository stores completed backtest reports.
type ReportRepository interface {
	Save(ctx context.Context, report *backtest.Report) (uuid.UUID, error)
	GetLatest(ctx context.Context) (*backtest.Report, error)
}
