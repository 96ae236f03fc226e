// Package memory provides a memory-based tribe repository for tests and
// single-process runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/tribe/domain"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
)

// TribeRepository implements domain.TribeRepository using memory
type TribeRepository struct {
	tribes  []*domain.Tribe
	members []*domain.Member
	nextID  int64
	mu      sync.RWMutex
}

// NewTribeRepository creates a new memory tribe repository
func NewTribeRepository() *TribeRepository {
	return &TribeRepository{}
}

func (r *TribeRepository) CreateTribe(ctx context.Context, tribe *domain.Tribe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tribes {
		if t.TribeID == tribe.TribeID {
			return apperr.Conflictf("tribe %s already exists", tribe.TribeID)
		}
	}
	copied := *tribe
	copied.CreatedAt = time.Now()
	r.tribes = append(r.tribes, &copied)
	return nil
}

func (r *TribeRepository) ListBySeason(ctx context.Context, seasonID string) ([]*domain.Tribe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tribes []*domain.Tribe
	for _, t := range r.tribes {
		if t.SeasonID == seasonID {
			c := *t
			tribes = append(tribes, &c)
		}
	}
	return tribes, nil
}

func (r *TribeRepository) AddMember(ctx context.Context, member *domain.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	copied := *member
	copied.ID = r.nextID
	copied.CreatedAt = time.Now()
	copied.UpdatedAt = copied.CreatedAt
	r.members = append(r.members, &copied)
	return nil
}

func (r *TribeRepository) ListMembers(ctx context.Context, seasonID string) ([]*domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var members []*domain.Member
	for _, m := range r.members {
		if m.SeasonID == seasonID {
			c := *m
			members = append(members, &c)
		}
	}
	return members, nil
}

func (r *TribeRepository) ListActiveMembers(ctx context.Context, seasonID string) ([]*domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var members []*domain.Member
	for _, m := range r.members {
		if m.SeasonID == seasonID && !m.Eliminated {
			c := *m
			members = append(members, &c)
		}
	}
	return members, nil
}

func (r *TribeRepository) MarkEliminated(ctx context.Context, seasonID, playerID string, day int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.members {
		if m.SeasonID == seasonID && m.PlayerID == playerID {
			if !m.Eliminated {
				m.Eliminated = true
				m.EliminatedDay = day
				m.UpdatedAt = time.Now()
			}
			return nil
		}
	}
	return apperr.NotFoundf("player %s in season %s", playerID, seasonID)
}

func (r *TribeRepository) GetEliminatedOnDay(ctx context.Context, seasonID string, day int) (*domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.members {
		if m.SeasonID == seasonID && m.Eliminated && m.EliminatedDay == day {
			c := *m
			return &c, nil
		}
	}
	return nil, nil
}

func (r *TribeRepository) MergeInto(ctx context.Context, seasonID, targetTribeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.members {
		if m.SeasonID == seasonID && m.TribeID != targetTribeID {
			m.TribeID = targetTribeID
			m.UpdatedAt = time.Now()
		}
	}

	kept := r.tribes[:0]
	for _, t := range r.tribes {
		if t.SeasonID != seasonID || t.TribeID == targetTribeID {
			kept = append(kept, t)
		}
	}
	r.tribes = kept
	return nil
}
