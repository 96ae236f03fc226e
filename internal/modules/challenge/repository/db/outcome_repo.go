package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/challenge/domain"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
)

// OutcomeRepository implements domain.OutcomeRepository using gorm
type OutcomeRepository struct {
	db *gorm.DB
}

// NewOutcomeRepository creates a new outcome repository
func NewOutcomeRepository(db *gorm.DB) *OutcomeRepository {
	return &OutcomeRepository{db: db}
}

// Create inserts the outcome unless one already exists for the challenge, in
// which case the stored row is returned unchanged. The unique index on
// challenge_id plus DO NOTHING keeps retried scoring from duplicating rows.
func (r *OutcomeRepository) Create(ctx context.Context, outcome *domain.Outcome) (*domain.Outcome, error) {
	outcome.CreatedAt = time.Now()

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "challenge_id"}},
			DoNothing: true,
		}).
		Create(outcome).Error
	if err != nil {
		return nil, apperr.Transient(err)
	}

	stored, err := r.GetByChallengeID(ctx, outcome.ChallengeID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, apperr.Transientf("outcome for challenge %s missing after insert", outcome.ChallengeID)
	}
	return stored, nil
}

func (r *OutcomeRepository) GetByChallengeID(ctx context.Context, challengeID string) (*domain.Outcome, error) {
	var outcome domain.Outcome
	err := r.db.WithContext(ctx).
		Where("challenge_id = ?", challengeID).
		First(&outcome).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Transient(err)
	}
	return &outcome, nil
}
