package domain

import (
	"context"
	"time"
)

// VoteRepository defines the interface for vote persistence
type VoteRepository interface {
	// Cast stores a ballot. A voter's second ballot for the same day is a
	// conflict: votes are write-once until tally.
	Cast(ctx context.Context, vote *Vote) error
	ListForDay(ctx context.Context, seasonID string, day int) ([]*Vote, error)
	// RevealDay stamps RevealedAt on every still-hidden vote of the day.
	// Already-revealed votes are left untouched, so the reveal happens
	// exactly once no matter how often tally is retried.
	RevealDay(ctx context.Context, seasonID string, day int, revealedAt time.Time) error
	// AllRevealed reports whether every vote of the day carries RevealedAt.
	AllRevealed(ctx context.Context, seasonID string, day int) (bool, error)
}
