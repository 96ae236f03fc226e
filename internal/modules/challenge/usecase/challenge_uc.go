// Package usecase implements the business logic for the challenge module:
// opening commit-reveal contests, registering entries and scoring outcomes.
package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/challenge/domain"
	"github.com/willsigmon/castaway-council-sub000/internal/modules/challenge/fairroll"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
	"github.com/willsigmon/castaway-council-sub000/pkg/logger"
)

// ChallengeUseCase handles the challenge lifecycle
type ChallengeUseCase struct {
	challengeRepo domain.ChallengeRepository
	seedRepo      domain.SeedRepository
	outcomeRepo   domain.OutcomeRepository
	vault         domain.SeedVault
}

// NewChallengeUseCase creates a new challenge use case
func NewChallengeUseCase(
	challengeRepo domain.ChallengeRepository,
	seedRepo domain.SeedRepository,
	outcomeRepo domain.OutcomeRepository,
	vault domain.SeedVault,
) *ChallengeUseCase {
	return &ChallengeUseCase{
		challengeRepo: challengeRepo,
		seedRepo:      seedRepo,
		outcomeRepo:   outcomeRepo,
		vault:         vault,
	}
}

// Entry is one subject's registration for a challenge: its client seed plus
// the scoring modifiers locked in at entry time.
type Entry struct {
	SubjectID        string
	TribeID          string
	ClientSeed       string
	Energy           int
	ItemBonus        int
	EventBonus       int
	ArchetypeBonus   int
	DebuffResistance float64
	Debuffs          []string
}

// Open creates the day's challenge and publishes the server-seed commitment.
// The plaintext server seed goes into the vault; only its hash leaves this
// method. Opening an already-open day returns the existing challenge.
func (uc *ChallengeUseCase) Open(ctx context.Context, seasonID string, day int, subjectType domain.SubjectType, topK int, entries []Entry) (*domain.Challenge, error) {
	if len(entries) == 0 {
		return nil, apperr.Validationf("challenge needs at least one entry")
	}
	if subjectType != domain.SubjectTypePlayer && subjectType != domain.SubjectTypeTribe {
		return nil, apperr.Validationf("unknown subject type %q", subjectType)
	}

	if existing, err := uc.challengeRepo.GetBySeasonDay(ctx, seasonID, day); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	serverSeed, err := newSeed()
	if err != nil {
		return nil, err
	}

	challenge := &domain.Challenge{
		ChallengeID: uuid.NewString(),
		SeasonID:    seasonID,
		Day:         day,
		SubjectType: subjectType,
		EncounterID: fmt.Sprintf("%s:d%d:challenge", seasonID, day),
		TopK:        topK,
	}
	if err := uc.challengeRepo.Create(ctx, challenge); err != nil {
		return nil, err
	}

	record := &domain.SeedRecord{
		ChallengeID:    challenge.ChallengeID,
		SeedCommitHash: fairroll.HashSeedCommitment(serverSeed),
	}
	subjects := make([]*domain.SubjectSeed, 0, len(entries))
	for _, e := range entries {
		subjects = append(subjects, &domain.SubjectSeed{
			ID:               domain.NextID(),
			ChallengeID:      challenge.ChallengeID,
			SubjectID:        e.SubjectID,
			TribeID:          e.TribeID,
			ClientSeedHash:   fairroll.HashSeedCommitment(e.ClientSeed),
			Energy:           e.Energy,
			ItemBonus:        e.ItemBonus,
			EventBonus:       e.EventBonus,
			ArchetypeBonus:   e.ArchetypeBonus,
			DebuffResistance: e.DebuffResistance,
			Debuffs:          e.Debuffs,
		})
	}
	if err := uc.seedRepo.CreateRecord(ctx, record, subjects); err != nil {
		return nil, err
	}

	if err := uc.vault.PutServerSeed(ctx, challenge.ChallengeID, serverSeed); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := uc.vault.PutClientSeed(ctx, challenge.ChallengeID, e.SubjectID, e.ClientSeed); err != nil {
			return nil, err
		}
	}

	logger.Info(ctx).
		Str("challenge_id", challenge.ChallengeID).
		Str("season_id", seasonID).
		Int("day", day).
		Int("entries", len(entries)).
		Str("seed_commit_hash", record.SeedCommitHash).
		Msg("Challenge opened, commitment published")

	return challenge, nil
}

// Reveal publishes the server seed and every client seed for a challenge,
// atomically and exactly once. A second reveal is a no-op: the stored seeds
// are immutable once public, or past verifications would break.
func (uc *ChallengeUseCase) Reveal(ctx context.Context, challengeID string) (*domain.SeedRecord, error) {
	record, err := uc.seedRepo.GetRecord(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if record.Revealed() {
		return record, nil
	}

	serverSeed, err := uc.vault.GetServerSeed(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if fairroll.HashSeedCommitment(serverSeed) != record.SeedCommitHash {
		return nil, apperr.Fatalf("vaulted server seed does not match published commitment for challenge %s", challengeID)
	}

	clientSeeds, err := uc.vault.GetClientSeeds(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	if err := uc.seedRepo.Reveal(ctx, challengeID, serverSeed, clientSeeds); err != nil {
		return nil, err
	}

	if err := uc.vault.Clear(ctx, challengeID); err != nil {
		logger.Warn(ctx).Err(err).Str("challenge_id", challengeID).Msg("Failed to clear seed vault after reveal")
	}

	logger.Info(ctx).
		Str("challenge_id", challengeID).
		Int("client_seeds", len(clientSeeds)).
		Msg("Seeds revealed")

	return uc.seedRepo.GetRecord(ctx, challengeID)
}

func newSeed() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", apperr.Transient(err)
	}
	return hex.EncodeToString(buf), nil
}
