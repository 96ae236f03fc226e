// Package memory provides a memory-based vote repository for tests and
// single-process runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/vote/domain"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
)

type dayKey struct {
	seasonID string
	day      int
}

// VoteRepository implements domain.VoteRepository using memory
type VoteRepository struct {
	votes map[dayKey][]*domain.Vote
	mu    sync.RWMutex
}

// NewVoteRepository creates a new memory vote repository
func NewVoteRepository() *VoteRepository {
	return &VoteRepository{
		votes: make(map[dayKey][]*domain.Vote),
	}
}

func (r *VoteRepository) Cast(ctx context.Context, vote *domain.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := dayKey{vote.SeasonID, vote.Day}
	for _, v := range r.votes[key] {
		if v.VoterID == vote.VoterID {
			return apperr.Conflictf("voter %s already voted on season %s day %d", vote.VoterID, vote.SeasonID, vote.Day)
		}
	}

	copied := *vote
	r.votes[key] = append(r.votes[key], &copied)
	return nil
}

func (r *VoteRepository) ListForDay(ctx context.Context, seasonID string, day int) ([]*domain.Vote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	votes := r.votes[dayKey{seasonID, day}]
	copied := make([]*domain.Vote, 0, len(votes))
	for _, v := range votes {
		c := *v
		copied = append(copied, &c)
	}
	return copied, nil
}

func (r *VoteRepository) RevealDay(ctx context.Context, seasonID string, day int, revealedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, v := range r.votes[dayKey{seasonID, day}] {
		if v.RevealedAt == nil {
			at := revealedAt
			v.RevealedAt = &at
		}
	}
	return nil
}

func (r *VoteRepository) AllRevealed(ctx context.Context, seasonID string, day int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	votes := r.votes[dayKey{seasonID, day}]
	if len(votes) == 0 {
		return false, nil
	}
	for _, v := range votes {
		if v.RevealedAt == nil {
			return false, nil
		}
	}
	return true, nil
}
