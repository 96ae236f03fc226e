package usecase

import (
	"context"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/challenge/domain"
	"github.com/willsigmon/castaway-council-sub000/internal/modules/challenge/fairroll"
)

// Audit assembles the publishable trail for a challenge. Before reveal the
// record carries only the commitments; after reveal it includes the seeds and
// the recomputed results, which is everything a third party needs to verify
// the outcome independently.
func (uc *ChallengeUseCase) Audit(ctx context.Context, challengeID string) (*domain.AuditRecord, error) {
	record, err := uc.seedRepo.GetRecord(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	subjects, err := uc.seedRepo.GetSubjectSeeds(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	audit := &domain.AuditRecord{
		ChallengeID:    challengeID,
		SeedCommitHash: record.SeedCommitHash,
		ServerSeed:     record.ServerSeed,
	}
	for _, s := range subjects {
		audit.PerSubject = append(audit.PerSubject, domain.AuditSubject{
			SubjectID:      s.SubjectID,
			ClientSeedHash: s.ClientSeedHash,
			ClientSeed:     s.ClientSeed,
		})
	}

	if !record.Revealed() {
		return audit, nil
	}

	challenge, err := uc.challengeRepo.GetByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	for _, s := range subjects {
		if s.ClientSeed == nil {
			continue
		}
		audit.Results = append(audit.Results,
			fairroll.GenerateRoll(*record.ServerSeed, *s.ClientSeed, challenge.EncounterID, s.SubjectID, modifiers(s)))
	}

	return audit, nil
}

// VerifyRoll recomputes a subject's roll from the stored revealed seeds and
// checks the claimed total. Unknown challenges or unrevealed seeds verify as
// false rather than erroring: the caller is asking "does this check out",
// not mutating anything.
func (uc *ChallengeUseCase) VerifyRoll(ctx context.Context, challengeID, subjectID string, expectedTotal int) (bool, error) {
	record, err := uc.seedRepo.GetRecord(ctx, challengeID)
	if err != nil {
		return false, err
	}
	if !record.Revealed() {
		return false, nil
	}

	challenge, err := uc.challengeRepo.GetByID(ctx, challengeID)
	if err != nil {
		return false, err
	}
	subjects, err := uc.seedRepo.GetSubjectSeeds(ctx, challengeID)
	if err != nil {
		return false, err
	}

	clientSeeds := make(map[string]string, len(subjects))
	var mods fairroll.Modifiers
	for _, s := range subjects {
		if s.ClientSeed == nil {
			continue
		}
		clientSeeds[s.SubjectID] = *s.ClientSeed
		if s.SubjectID == subjectID {
			mods = modifiers(s)
		}
	}

	return fairroll.VerifyChallengeResult(*record.ServerSeed, clientSeeds, challenge.EncounterID, subjectID, expectedTotal, mods), nil
}
