package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/challenge/domain"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
)

// SeedRepository implements domain.SeedRepository using gorm
type SeedRepository struct {
	db *gorm.DB
}

// NewSeedRepository creates a new seed repository
func NewSeedRepository(db *gorm.DB) *SeedRepository {
	return &SeedRepository{db: db}
}

func (r *SeedRepository) CreateRecord(ctx context.Context, record *domain.SeedRecord, subjects []*domain.SubjectSeed) error {
	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		if len(subjects) > 0 {
			if err := tx.Create(subjects).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflictf("seed record for challenge %s already exists", record.ChallengeID)
		}
		return apperr.Transient(err)
	}
	return nil
}

func (r *SeedRepository) GetRecord(ctx context.Context, challengeID string) (*domain.SeedRecord, error) {
	var record domain.SeedRecord
	err := r.db.WithContext(ctx).
		Where("challenge_id = ?", challengeID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("seed record for challenge %s", challengeID)
		}
		return nil, apperr.Transient(err)
	}
	return &record, nil
}

func (r *SeedRepository) GetSubjectSeeds(ctx context.Context, challengeID string) ([]*domain.SubjectSeed, error) {
	var subjects []*domain.SubjectSeed
	err := r.db.WithContext(ctx).
		Where("challenge_id = ?", challengeID).
		Order("id").
		Find(&subjects).Error
	if err != nil {
		return nil, apperr.Transient(err)
	}
	return subjects, nil
}

// Reveal writes the server seed and client seeds in one transaction. The
// guard on server_seed IS NULL makes the reveal exactly-once: a replay finds
// nothing to update and leaves the published seeds untouched.
func (r *SeedRepository) Reveal(ctx context.Context, challengeID string, serverSeed string, clientSeeds map[string]string) error {
	now := time.Now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.SeedRecord{}).
			Where("challenge_id = ? AND server_seed IS NULL", challengeID).
			Updates(map[string]interface{}{
				"server_seed": serverSeed,
				"revealed_at": now,
				"updated_at":  now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Already revealed; nothing more to write.
			return nil
		}

		for subjectID, clientSeed := range clientSeeds {
			if err := tx.Model(&domain.SubjectSeed{}).
				Where("challenge_id = ? AND subject_id = ? AND client_seed IS NULL", challengeID, subjectID).
				Update("client_seed", clientSeed).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperr.Transient(err)
	}
	return nil
}
