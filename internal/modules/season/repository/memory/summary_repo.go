package memory

import (
	"context"
	"sync"
	"time"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/season/domain"
)

type summaryKey struct {
	seasonID string
	day      int
}

// SummaryRepository implements domain.SummaryRepository using memory
type SummaryRepository struct {
	summaries map[summaryKey]*domain.DailySummary
	nextID    int64
	mu        sync.RWMutex
}

// NewSummaryRepository creates a new memory summary repository
func NewSummaryRepository() *SummaryRepository {
	return &SummaryRepository{
		summaries: make(map[summaryKey]*domain.DailySummary),
	}
}

func (r *SummaryRepository) Upsert(ctx context.Context, summary *domain.DailySummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := summaryKey{summary.SeasonID, summary.Day}
	copied := *summary
	if existing, ok := r.summaries[key]; ok {
		copied.ID = existing.ID
		copied.CreatedAt = existing.CreatedAt
	} else {
		r.nextID++
		copied.ID = r.nextID
		copied.CreatedAt = time.Now()
	}
	r.summaries[key] = &copied
	return nil
}

func (r *SummaryRepository) GetBySeasonDay(ctx context.Context, seasonID string, day int) (*domain.DailySummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summary, ok := r.summaries[summaryKey{seasonID, day}]
	if !ok {
		return nil, nil
	}
	copied := *summary
	return &copied, nil
}
