package domain

import (
	"context"
)

// ChallengeRepository defines the interface for challenge persistence
type ChallengeRepository interface {
	Create(ctx context.Context, challenge *Challenge) error
	GetByID(ctx context.Context, challengeID string) (*Challenge, error)
	// GetBySeasonDay returns nil, nil when no challenge exists for the day.
	GetBySeasonDay(ctx context.Context, seasonID string, day int) (*Challenge, error)
}

// SeedRepository defines the interface for commit-reveal seed persistence
type SeedRepository interface {
	CreateRecord(ctx context.Context, record *SeedRecord, subjects []*SubjectSeed) error
	GetRecord(ctx context.Context, challengeID string) (*SeedRecord, error)
	GetSubjectSeeds(ctx context.Context, challengeID string) ([]*SubjectSeed, error)
	// Reveal populates the server seed and all client seeds atomically.
	// Revealing an already-revealed record is a no-op: the stored seeds are
	// immutable once published.
	Reveal(ctx context.Context, challengeID string, serverSeed string, clientSeeds map[string]string) error
}

// OutcomeRepository defines the interface for challenge outcome persistence
type OutcomeRepository interface {
	// Create persists an outcome. When a row for the challenge already
	// exists it is left untouched and returned, so retried scoring cannot
	// duplicate or rewrite results.
	Create(ctx context.Context, outcome *Outcome) (*Outcome, error)
	GetByChallengeID(ctx context.Context, challengeID string) (*Outcome, error)
}
