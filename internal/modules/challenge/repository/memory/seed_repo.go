package memory

import (
	"context"
	"sync"
	"time"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/challenge/domain"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
)

// SeedRepository implements domain.SeedRepository using memory
type SeedRepository struct {
	records  map[string]*domain.SeedRecord
	subjects map[string][]*domain.SubjectSeed
	mu       sync.RWMutex
}

// NewSeedRepository creates a new memory seed repository
func NewSeedRepository() *SeedRepository {
	return &SeedRepository{
		records:  make(map[string]*domain.SeedRecord),
		subjects: make(map[string][]*domain.SubjectSeed),
	}
}

func (r *SeedRepository) CreateRecord(ctx context.Context, record *domain.SeedRecord, subjects []*domain.SubjectSeed) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[record.ChallengeID]; ok {
		return apperr.Conflictf("seed record for challenge %s already exists", record.ChallengeID)
	}
	rec := *record
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	r.records[record.ChallengeID] = &rec

	copied := make([]*domain.SubjectSeed, 0, len(subjects))
	for _, s := range subjects {
		c := *s
		copied = append(copied, &c)
	}
	r.subjects[record.ChallengeID] = copied
	return nil
}

func (r *SeedRepository) GetRecord(ctx context.Context, challengeID string) (*domain.SeedRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[challengeID]
	if !ok {
		return nil, apperr.NotFoundf("seed record for challenge %s", challengeID)
	}
	copied := *rec
	return &copied, nil
}

func (r *SeedRepository) GetSubjectSeeds(ctx context.Context, challengeID string) ([]*domain.SubjectSeed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subjects := r.subjects[challengeID]
	copied := make([]*domain.SubjectSeed, 0, len(subjects))
	for _, s := range subjects {
		c := *s
		copied = append(copied, &c)
	}
	return copied, nil
}

func (r *SeedRepository) Reveal(ctx context.Context, challengeID string, serverSeed string, clientSeeds map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[challengeID]
	if !ok {
		return apperr.NotFoundf("seed record for challenge %s", challengeID)
	}
	if rec.ServerSeed != nil {
		// Already revealed; published seeds are immutable.
		return nil
	}

	now := time.Now()
	seed := serverSeed
	rec.ServerSeed = &seed
	rec.RevealedAt = &now
	rec.UpdatedAt = now

	for _, s := range r.subjects[challengeID] {
		if cs, ok := clientSeeds[s.SubjectID]; ok {
			value := cs
			s.ClientSeed = &value
		}
	}
	return nil
}
