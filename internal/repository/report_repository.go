package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/yourusername/gridiron-edge/internal/backtest"
	"github.com/yourusername/gridiron-edge/internal/database"
)

// PostgresReportRepository implements ReportRepository.
type PostgresReportRepository struct {
	db *database.DB
}

// NewPostgresReportRepository creates a report repository.
func NewPostgresReportRepository(db *database.DB) ReportRepository {
	return &PostgresReportRepository{db: db}
}

// Save inserts a finished backtest report, keeping the headline numbers
// in columns and the full report as JSONB.
func (r *PostgresReportRepository) Save(ctx context.Context, report *backtest.Report) (uuid.UUID, error) {
	full, err := json.Marshal(report)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	id := uuid.New()
	query := `
		INSERT INTO backtest_reports (
			id, generated_at, games_processed, winner_accuracy, ats_win_rate,
			mean_abs_error, median_abs_error, initial_bankroll, final_bankroll,
			max_drawdown, report
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`
	_, err = r.db.Pool().Exec(ctx, query,
		id, report.GeneratedAt, report.GamesProcessed, report.WinnerAccuracy,
		report.ATSWinRate, report.MeanAbsError, report.MedianAbsError,
		report.InitialBankroll, report.FinalBankroll, report.MaxDrawdown, full,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save report: %w", err)
	}
	return id, nil
}

// GetLatest retrieves the most recent report.
func (r *PostgresReportRepository) GetLatest(ctx context.Context) (*backtest.Report, error) {
	query := `SELECT report FROM backtest_reports ORDER BY generated_at DESC LIMIT 1`

	var data []byte
	if err := r.db.Pool().QueryRow(ctx, query).Scan(&data); err != nil {
		return nil, fmt.Errorf("failed to query latest report: %w", err)
	}

	var report backtest.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}
