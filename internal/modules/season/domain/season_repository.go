package domain

import (
	"context"
	"time"
)

// SeasonRepository defines the interface for season state persistence
type SeasonRepository interface {
	Create(ctx context.Context, season *Season) error
	GetByID(ctx context.Context, seasonID string) (*Season, error)
	// UpdatePhase records the transition the orchestrator is about to
	// suspend on. Must be durable before the suspension starts.
	UpdatePhase(ctx context.Context, seasonID string, day int, phase Phase, phaseEndsAt time.Time) error
	UpdateStatus(ctx context.Context, seasonID string, status Status) error
	ListByStatus(ctx context.Context, status Status) ([]*Season, error)
}
