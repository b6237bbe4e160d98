package ports

import (
	"context"
	"errors"
	"logistics-sim/internal/domain"
)

var ErrRunNotFound = errors.New("run not found")

// Port: a boundary for storing finished run reports.
type RunRepository interface {
	SaveRun(ctx context.Context, report *domain.RunReport) error
	// Return reports newest first, at most limit of them.
	ListRuns(ctx context.Context, limit int) ([]*domain.RunReport, error)
	GetRun(ctx context.Context, id string) (*domain.RunReport, error)
}
