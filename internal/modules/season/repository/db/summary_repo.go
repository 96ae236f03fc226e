package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/season/domain"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
)

// SummaryRepository implements domain.SummaryRepository using gorm
type SummaryRepository struct {
	db *gorm.DB
}

// NewSummaryRepository creates a new summary repository
func NewSummaryRepository(db *gorm.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

func (r *SummaryRepository) Upsert(ctx context.Context, summary *domain.DailySummary) error {
	summary.CreatedAt = time.Now()
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "season_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{"challenge_winner_id", "eliminated_id", "vote_count", "merged"}),
	}).Create(summary).Error
	if err != nil {
		return apperr.Transient(err)
	}
	return nil
}

func (r *SummaryRepository) GetBySeasonDay(ctx context.Context, seasonID string, day int) (*domain.DailySummary, error) {
	var summary domain.DailySummary
	err := r.db.WithContext(ctx).
		Where("season_id = ? AND day = ?", seasonID, day).
		First(&summary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Transient(err)
	}
	return &summary, nil
}
