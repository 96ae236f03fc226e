// Package db provides the gorm-backed tribe repository.
package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/tribe/domain"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
)

// TribeRepository implements domain.TribeRepository using gorm
type TribeRepository struct {
	db *gorm.DB
}

// NewTribeRepository creates a new tribe repository
func NewTribeRepository(db *gorm.DB) *TribeRepository {
	return &TribeRepository{db: db}
}

func (r *TribeRepository) CreateTribe(ctx context.Context, tribe *domain.Tribe) error {
	tribe.CreatedAt = time.Now()
	if err := r.db.WithContext(ctx).Create(tribe).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflictf("tribe %s already exists", tribe.TribeID)
		}
		return apperr.Transient(err)
	}
	return nil
}

func (r *TribeRepository) ListBySeason(ctx context.Context, seasonID string) ([]*domain.Tribe, error) {
	var tribes []*domain.Tribe
	err := r.db.WithContext(ctx).
		Where("season_id = ?", seasonID).
		Order("created_at").
		Find(&tribes).Error
	if err != nil {
		return nil, apperr.Transient(err)
	}
	return tribes, nil
}

func (r *TribeRepository) AddMember(ctx context.Context, member *domain.Member) error {
	now := time.Now()
	member.CreatedAt = now
	member.UpdatedAt = now
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		return apperr.Transient(err)
	}
	return nil
}

func (r *TribeRepository) ListMembers(ctx context.Context, seasonID string) ([]*domain.Member, error) {
	var members []*domain.Member
	err := r.db.WithContext(ctx).
		Where("season_id = ?", seasonID).
		Order("id").
		Find(&members).Error
	if err != nil {
		return nil, apperr.Transient(err)
	}
	return members, nil
}

func (r *TribeRepository) ListActiveMembers(ctx context.Context, seasonID string) ([]*domain.Member, error) {
	var members []*domain.Member
	err := r.db.WithContext(ctx).
		Where("season_id = ? AND eliminated = ?", seasonID, false).
		Order("id").
		Find(&members).Error
	if err != nil {
		return nil, apperr.Transient(err)
	}
	return members, nil
}

// MarkEliminated flips the player's flag once; the eliminated = false guard
// makes a replayed tally a no-op.
func (r *TribeRepository) MarkEliminated(ctx context.Context, seasonID, playerID string, day int) error {
	result := r.db.WithContext(ctx).Model(&domain.Member{}).
		Where("season_id = ? AND player_id = ? AND eliminated = ?", seasonID, playerID, false).
		Updates(map[string]interface{}{
			"eliminated":     true,
			"eliminated_day": day,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return apperr.Transient(result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&domain.Member{}).
			Where("season_id = ? AND player_id = ?", seasonID, playerID).
			Count(&count).Error; err != nil {
			return apperr.Transient(err)
		}
		if count == 0 {
			return apperr.NotFoundf("player %s in season %s", playerID, seasonID)
		}
		// Already eliminated.
	}
	return nil
}

func (r *TribeRepository) GetEliminatedOnDay(ctx context.Context, seasonID string, day int) (*domain.Member, error) {
	var member domain.Member
	err := r.db.WithContext(ctx).
		Where("season_id = ? AND eliminated = ? AND eliminated_day = ?", seasonID, true, day).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Transient(err)
	}
	return &member, nil
}

func (r *TribeRepository) MergeInto(ctx context.Context, seasonID, targetTribeID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Member{}).
			Where("season_id = ? AND tribe_id <> ?", seasonID, targetTribeID).
			Updates(map[string]interface{}{
				"tribe_id":   targetTribeID,
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}
		return tx.
			Where("season_id = ? AND tribe_id <> ?", seasonID, targetTribeID).
			Delete(&domain.Tribe{}).Error
	})
	if err != nil {
		return apperr.Transient(err)
	}
	return nil
}
