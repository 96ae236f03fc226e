// Package db provides the gorm-backed vote repository.
package db

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/vote/domain"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
)

// VoteRepository implements domain.VoteRepository using gorm
type VoteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

func (r *VoteRepository) Cast(ctx context.Context, vote *domain.Vote) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Vote{}).
			Where("season_id = ? AND day = ? AND voter_id = ?", vote.SeasonID, vote.Day, vote.VoterID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.Conflictf("voter %s already voted on season %s day %d", vote.VoterID, vote.SeasonID, vote.Day)
		}
		return tx.Create(vote).Error
	})
	if err != nil {
		if apperr.IsConflict(err) {
			return err
		}
		return apperr.Transient(err)
	}
	return nil
}

func (r *VoteRepository) ListForDay(ctx context.Context, seasonID string, day int) ([]*domain.Vote, error) {
	var votes []*domain.Vote
	err := r.db.WithContext(ctx).
		Where("season_id = ? AND day = ?", seasonID, day).
		Order("created_at").
		Find(&votes).Error
	if err != nil {
		return nil, apperr.Transient(err)
	}
	return votes, nil
}

// RevealDay stamps every still-hidden vote of the day. The revealed_at IS
// NULL guard keeps the reveal exactly-once under tally retries.
func (r *VoteRepository) RevealDay(ctx context.Context, seasonID string, day int, revealedAt time.Time) error {
	err := r.db.WithContext(ctx).Model(&domain.Vote{}).
		Where("season_id = ? AND day = ? AND revealed_at IS NULL", seasonID, day).
		Update("revealed_at", revealedAt).Error
	if err != nil {
		return apperr.Transient(err)
	}
	return nil
}

func (r *VoteRepository) AllRevealed(ctx context.Context, seasonID string, day int) (bool, error) {
	var total, hidden int64
	err := r.db.WithContext(ctx).Model(&domain.Vote{}).
		Where("season_id = ? AND day = ?", seasonID, day).
		Count(&total).Error
	if err != nil {
		return false, apperr.Transient(err)
	}
	if total == 0 {
		return false, nil
	}

	err = r.db.WithContext(ctx).Model(&domain.Vote{}).
		Where("season_id = ? AND day = ? AND revealed_at IS NULL", seasonID, day).
		Count(&hidden).Error
	if err != nil {
		return false, apperr.Transient(err)
	}
	return hidden == 0, nil
}
