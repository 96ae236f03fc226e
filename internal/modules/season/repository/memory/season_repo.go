// Package memory provides memory-based season repositories for tests and
// single-process runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/season/domain"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
)

// SeasonRepository implements domain.SeasonRepository using memory
type SeasonRepository struct {
	seasons map[string]*domain.Season
	mu      sync.RWMutex
}

// NewSeasonRepository creates a new memory season repository
func NewSeasonRepository() *SeasonRepository {
	return &SeasonRepository{
		seasons: make(map[string]*domain.Season),
	}
}

func (r *SeasonRepository) Create(ctx context.Context, season *domain.Season) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seasons[season.SeasonID]; ok {
		return apperr.Conflictf("season %s already exists", season.SeasonID)
	}
	copied := *season
	now := time.Now()
	copied.CreatedAt = now
	copied.UpdatedAt = now
	r.seasons[season.SeasonID] = &copied
	return nil
}

func (r *SeasonRepository) GetByID(ctx context.Context, seasonID string) (*domain.Season, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	season, ok := r.seasons[seasonID]
	if !ok {
		return nil, apperr.NotFoundf("season %s", seasonID)
	}
	copied := *season
	return &copied, nil
}

func (r *SeasonRepository) UpdatePhase(ctx context.Context, seasonID string, day int, phase domain.Phase, phaseEndsAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	season, ok := r.seasons[seasonID]
	if !ok {
		return apperr.NotFoundf("season %s", seasonID)
	}
	season.DayIndex = day
	season.CurrentPhase = phase
	ends := phaseEndsAt
	season.PhaseEndsAt = &ends
	season.UpdatedAt = time.Now()
	return nil
}

func (r *SeasonRepository) UpdateStatus(ctx context.Context, seasonID string, status domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	season, ok := r.seasons[seasonID]
	if !ok {
		return apperr.NotFoundf("season %s", seasonID)
	}
	season.Status = status
	season.UpdatedAt = time.Now()
	return nil
}

func (r *SeasonRepository) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Season, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var seasons []*domain.Season
	for _, s := range r.seasons {
		if s.Status == status {
			copied := *s
			seasons = append(seasons, &copied)
		}
	}
	return seasons, nil
}
