// Package usecase implements the business logic for the tribe module:
// roster setup and the merge-day collapse.
package usecase

import (
	"context"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/tribe/domain"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
	"github.com/willsigmon/castaway-council-sub000/pkg/logger"
)

// TribeUseCase handles tribe rosters and the merge
type TribeUseCase struct {
	tribeRepo domain.TribeRepository
}

// NewTribeUseCase creates a new tribe use case
func NewTribeUseCase(tribeRepo domain.TribeRepository) *TribeUseCase {
	return &TribeUseCase{tribeRepo: tribeRepo}
}

// CreateTribe registers a tribe for a season
func (uc *TribeUseCase) CreateTribe(ctx context.Context, seasonID, tribeID, name string) (*domain.Tribe, error) {
	if seasonID == "" || tribeID == "" {
		return nil, apperr.Validationf("season and tribe ids are required")
	}

	tribe := &domain.Tribe{
		TribeID:  tribeID,
		SeasonID: seasonID,
		Name:     name,
	}
	if err := uc.tribeRepo.CreateTribe(ctx, tribe); err != nil {
		return nil, err
	}
	return tribe, nil
}

// AddMember puts a player on a tribe's roster
func (uc *TribeUseCase) AddMember(ctx context.Context, seasonID, tribeID, playerID string) (*domain.Member, error) {
	if playerID == "" {
		return nil, apperr.Validationf("player id is required")
	}

	member := &domain.Member{
		SeasonID: seasonID,
		TribeID:  tribeID,
		PlayerID: playerID,
	}
	if err := uc.tribeRepo.AddMember(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// ListMembers returns the season's full roster, eliminated players included
func (uc *TribeUseCase) ListMembers(ctx context.Context, seasonID string) ([]*domain.Member, error) {
	return uc.tribeRepo.ListMembers(ctx, seasonID)
}

// Merge moves every member into the season's first tribe and removes the
// rest. A season already down to a single tribe is a no-op, which makes the
// operation safe to replay.
func (uc *TribeUseCase) Merge(ctx context.Context, seasonID string) (*domain.Tribe, error) {
	tribes, err := uc.tribeRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if len(tribes) == 0 {
		return nil, apperr.NotFoundf("no tribes for season %s", seasonID)
	}
	if len(tribes) == 1 {
		logger.Debug(ctx).
			Str("season_id", seasonID).
			Str("tribe_id", tribes[0].TribeID).
			Msg("Tribes already merged")
		return tribes[0], nil
	}

	target := tribes[0]
	if err := uc.tribeRepo.MergeInto(ctx, seasonID, target.TribeID); err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Str("season_id", seasonID).
		Str("tribe_id", target.TribeID).
		Int("collapsed", len(tribes)-1).
		Msg("Tribes merged")

	return target, nil
}
