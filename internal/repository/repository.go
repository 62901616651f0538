package repository

import (
	"fmt"

	"github.com/yourusername/gridiron-edge/internal/database"
)

// Repositories holds all repository implementations.
type Repositories struct {
	Assessment AssessmentRepository
	Report     ReportRepository
}

// NewRepositories creates all repository implementations.
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Assessment: NewPostgresAssessmentRepository(db),
		Report:     NewPostgresReportRepository(db),
	}, nil
}
