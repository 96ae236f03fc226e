// Package memory provides memory-based repositories for the challenge module,
// used by unit tests and single-process demo runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/challenge/domain"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
)

// ChallengeRepository implements domain.ChallengeRepository using memory
type ChallengeRepository struct {
	challenges map[string]*domain.Challenge
	mu         sync.RWMutex
}

// NewChallengeRepository creates a new memory challenge repository
func NewChallengeRepository() *ChallengeRepository {
	return &ChallengeRepository{
		challenges: make(map[string]*domain.Challenge),
	}
}

func (r *ChallengeRepository) Create(ctx context.Context, challenge *domain.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.challenges[challenge.ChallengeID]; ok {
		return apperr.Conflictf("challenge %s already exists", challenge.ChallengeID)
	}
	c := *challenge
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.challenges[challenge.ChallengeID] = &c
	return nil
}

func (r *ChallengeRepository) GetByID(ctx context.Context, challengeID string) (*domain.Challenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.challenges[challengeID]
	if !ok {
		return nil, apperr.NotFoundf("challenge %s", challengeID)
	}
	copied := *c
	return &copied, nil
}

func (r *ChallengeRepository) GetBySeasonDay(ctx context.Context, seasonID string, day int) (*domain.Challenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.challenges {
		if c.SeasonID == seasonID && c.Day == day {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}
