// Package db provides gorm-backed repositories for the challenge module.
package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/challenge/domain"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
)

// ChallengeRepository implements domain.ChallengeRepository using gorm
type ChallengeRepository struct {
	db *gorm.DB
}

// NewChallengeRepository creates a new challenge repository
func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

func (r *ChallengeRepository) Create(ctx context.Context, challenge *domain.Challenge) error {
	now := time.Now()
	challenge.CreatedAt = now
	challenge.UpdatedAt = now
	if err := r.db.WithContext(ctx).Create(challenge).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflictf("challenge %s already exists", challenge.ChallengeID)
		}
		return apperr.Transient(err)
	}
	return nil
}

func (r *ChallengeRepository) GetByID(ctx context.Context, challengeID string) (*domain.Challenge, error) {
	var challenge domain.Challenge
	err := r.db.WithContext(ctx).
		Where("challenge_id = ?", challengeID).
		First(&challenge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("challenge %s", challengeID)
		}
		return nil, apperr.Transient(err)
	}
	return &challenge, nil
}

func (r *ChallengeRepository) GetBySeasonDay(ctx context.Context, seasonID string, day int) (*domain.Challenge, error) {
	var challenge domain.Challenge
	err := r.db.WithContext(ctx).
		Where("season_id = ? AND day = ?", seasonID, day).
		First(&challenge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Transient(err)
	}
	return &challenge, nil
}
