package domain

import (
	"context"
)

// TribeRepository defines the interface for tribe and membership persistence
type TribeRepository interface {
	CreateTribe(ctx context.Context, tribe *Tribe) error
	ListBySeason(ctx context.Context, seasonID string) ([]*Tribe, error)
	AddMember(ctx context.Context, member *Member) error
	ListMembers(ctx context.Context, seasonID string) ([]*Member, error)
	ListActiveMembers(ctx context.Context, seasonID string) ([]*Member, error)
	// MarkEliminated flags the player out of the game as of the given day.
	// Re-marking an already-eliminated player is a no-op.
	MarkEliminated(ctx context.Context, seasonID, playerID string, day int) error
	GetEliminatedOnDay(ctx context.Context, seasonID string, day int) (*Member, error)
	// MergeInto moves every member of the season into the target tribe and
	// removes the emptied tribes.
	MergeInto(ctx context.Context, seasonID, targetTribeID string) error
}
