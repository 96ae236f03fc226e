package memory

import (
	"context"
	"sync"
	"time"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/challenge/domain"
)

// OutcomeRepository implements domain.OutcomeRepository using memory
type OutcomeRepository struct {
	outcomes map[string]*domain.Outcome
	mu       sync.RWMutex
}

// NewOutcomeRepository creates a new memory outcome repository
func NewOutcomeRepository() *OutcomeRepository {
	return &OutcomeRepository{
		outcomes: make(map[string]*domain.Outcome),
	}
}

func (r *OutcomeRepository) Create(ctx context.Context, outcome *domain.Outcome) (*domain.Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.outcomes[outcome.ChallengeID]; ok {
		copied := *existing
		return &copied, nil
	}
	o := *outcome
	o.CreatedAt = time.Now()
	r.outcomes[outcome.ChallengeID] = &o
	copied := o
	return &copied, nil
}

func (r *OutcomeRepository) GetByChallengeID(ctx context.Context, challengeID string) (*domain.Outcome, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.outcomes[challengeID]
	if !ok {
		return nil, nil
	}
	copied := *o
	return &copied, nil
}
