// Package db provides the gorm-backed season repositories.
package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/season/domain"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
)

// SeasonRepository implements domain.SeasonRepository using gorm
type SeasonRepository struct {
	db *gorm.DB
}

// NewSeasonRepository creates a new season repository
func NewSeasonRepository(db *gorm.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) Create(ctx context.Context, season *domain.Season) error {
	now := time.Now()
	season.CreatedAt = now
	season.UpdatedAt = now
	if err := r.db.WithContext(ctx).Create(season).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflictf("season %s already exists", season.SeasonID)
		}
		return apperr.Transient(err)
	}
	return nil
}

func (r *SeasonRepository) GetByID(ctx context.Context, seasonID string) (*domain.Season, error) {
	var season domain.Season
	err := r.db.WithContext(ctx).
		Where("season_id = ?", seasonID).
		First(&season).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("season %s", seasonID)
		}
		return nil, apperr.Transient(err)
	}
	return &season, nil
}

func (r *SeasonRepository) UpdatePhase(ctx context.Context, seasonID string, day int, phase domain.Phase, phaseEndsAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&domain.Season{}).
		Where("season_id = ?", seasonID).
		Updates(map[string]interface{}{
			"day_index":     day,
			"current_phase": phase,
			"phase_ends_at": phaseEndsAt,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return apperr.Transient(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFoundf("season %s", seasonID)
	}
	return nil
}

func (r *SeasonRepository) UpdateStatus(ctx context.Context, seasonID string, status domain.Status) error {
	result := r.db.WithContext(ctx).Model(&domain.Season{}).
		Where("season_id = ?", seasonID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return apperr.Transient(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFoundf("season %s", seasonID)
	}
	return nil
}

func (r *SeasonRepository) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Season, error) {
	var seasons []*domain.Season
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Find(&seasons).Error
	if err != nil {
		return nil, apperr.Transient(err)
	}
	return seasons, nil
}
