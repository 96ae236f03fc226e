package usecase

import (
	"context"
	"sort"
	"sync"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/challenge/domain"
	"github.com/willsigmon/castaway-council-sub000/internal/modules/challenge/fairroll"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
	"github.com/willsigmon/castaway-council-sub000/pkg/logger"
)

// suddenDeathRounds bounds how many deterministic tiebreak rolls are tried
// before falling back to entry order.
const suddenDeathRounds = 3

// Score resolves a challenge from its revealed seeds and persists exactly one
// outcome. Scoring an already-scored challenge returns the stored outcome
// unchanged.
func (uc *ChallengeUseCase) Score(ctx context.Context, challengeID string) (*domain.Outcome, error) {
	if existing, err := uc.outcomeRepo.GetByChallengeID(ctx, challengeID); err != nil {
		return nil, err
	} else if existing != nil {
		logger.Debug(ctx).Str("challenge_id", challengeID).Msg("Challenge already scored, returning stored outcome")
		return existing, nil
	}

	challenge, err := uc.challengeRepo.GetByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	record, subjects, err := uc.revealedSeeds(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	rolls := uc.rollAll(record, subjects, challenge.EncounterID)

	var winnerID string
	var totals map[string]int
	var suddenDeath bool
	if challenge.IsTeam() {
		winnerID, totals, suddenDeath = uc.scoreTeams(ctx, record, subjects, rolls, challenge)
	} else {
		winnerID, totals, suddenDeath = uc.scoreIndividuals(ctx, record, subjects, rolls, challenge)
	}

	outcome := &domain.Outcome{
		ID:              domain.NextID(),
		ChallengeID:     challengeID,
		SubjectType:     challenge.SubjectType,
		PerSubjectTotal: totals,
		WinnerID:        winnerID,
		SuddenDeath:     suddenDeath,
	}

	stored, err := uc.outcomeRepo.Create(ctx, outcome)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Str("challenge_id", challengeID).
		Str("winner_id", stored.WinnerID).
		Bool("sudden_death", stored.SuddenDeath).
		Msg("Challenge scored")

	return stored, nil
}

// rollAll computes every subject's roll. Rolls are pure, so subjects are
// rolled concurrently within the scoring pass.
func (uc *ChallengeUseCase) rollAll(record *domain.SeedRecord, subjects []*domain.SubjectSeed, encounterID string) []fairroll.RollResult {
	rolls := make([]fairroll.RollResult, len(subjects))

	var wg sync.WaitGroup
	for i, s := range subjects {
		wg.Add(1)
		go func(i int, s *domain.SubjectSeed) {
			defer wg.Done()
			rolls[i] = fairroll.GenerateRoll(*record.ServerSeed, *s.ClientSeed, encounterID, s.SubjectID, modifiers(s))
		}(i, s)
	}
	wg.Wait()

	return rolls
}

func (uc *ChallengeUseCase) scoreIndividuals(ctx context.Context, record *domain.SeedRecord, subjects []*domain.SubjectSeed, rolls []fairroll.RollResult, challenge *domain.Challenge) (string, map[string]int, bool) {
	totals := make(map[string]int, len(subjects))
	order := make([]string, 0, len(subjects))
	for i, s := range subjects {
		totals[s.SubjectID] = rolls[i].Total
		order = append(order, s.SubjectID)
	}

	tied := tiedLeaders(totals, order)
	if len(tied) == 1 {
		return tied[0], totals, false
	}

	seedsBySubject := make(map[string]string, len(subjects))
	for _, s := range subjects {
		seedsBySubject[s.SubjectID] = *s.ClientSeed
	}
	modsBySubject := make(map[string]fairroll.Modifiers, len(subjects))
	for _, s := range subjects {
		modsBySubject[s.SubjectID] = modifiers(s)
	}

	winner := uc.suddenDeath(ctx, *record.ServerSeed, seedsBySubject, modsBySubject, challenge.EncounterID, tied)
	return winner, totals, true
}

func (uc *ChallengeUseCase) scoreTeams(ctx context.Context, record *domain.SeedRecord, subjects []*domain.SubjectSeed, rolls []fairroll.RollResult, challenge *domain.Challenge) (string, map[string]int, bool) {
	byTribe := make(map[string][]int)
	order := make([]string, 0)
	firstMemberSeed := make(map[string]string)
	firstMemberMods := make(map[string]fairroll.Modifiers)

	for i, s := range subjects {
		if _, seen := byTribe[s.TribeID]; !seen {
			order = append(order, s.TribeID)
			firstMemberSeed[s.TribeID] = *s.ClientSeed
			firstMemberMods[s.TribeID] = modifiers(s)
		}
		byTribe[s.TribeID] = append(byTribe[s.TribeID], rolls[i].Total)
	}

	totals := make(map[string]int, len(byTribe))
	for tribeID, memberTotals := range byTribe {
		totals[tribeID] = topKSum(memberTotals, challenge.TopK)
	}

	tied := tiedLeaders(totals, order)
	if len(tied) == 1 {
		return tied[0], totals, false
	}

	// Tribes carry no seeds of their own: the tiebreak roll reuses each
	// tribe's first entrant's revealed seed, keyed by tribe ID.
	winner := uc.suddenDeath(ctx, *record.ServerSeed, firstMemberSeed, firstMemberMods, challenge.EncounterID, tied)
	return winner, totals, true
}

// suddenDeath resolves a tie with deterministic extra rolls on the marked
// encounter ID. Every round is reproducible from the published seeds; if the
// bounded rounds all tie, the first tied subject in entry order wins.
func (uc *ChallengeUseCase) suddenDeath(ctx context.Context, serverSeed string, seedsBySubject map[string]string, modsBySubject map[string]fairroll.Modifiers, encounterID string, tied []string) string {
	contenders := tied
	round := 0
	for round < suddenDeathRounds && len(contenders) > 1 {
		round++
		roundEncounter := encounterID
		for i := 0; i < round-1; i++ {
			roundEncounter += fairroll.TiebreakMarker
		}

		totals := make(map[string]int, len(contenders))
		for _, id := range contenders {
			result := fairroll.SuddenDeathRoll(serverSeed, seedsBySubject[id], roundEncounter, id, modsBySubject[id])
			totals[id] = result.Total
		}
		contenders = tiedLeaders(totals, contenders)

		logger.Debug(ctx).
			Str("encounter_id", roundEncounter).
			Int("round", round).
			Int("remaining", len(contenders)).
			Msg("Sudden death round")
	}

	if len(contenders) > 1 {
		logger.Warn(ctx).
			Strs("contenders", contenders).
			Msg("Sudden death exhausted, falling back to entry order")
	}
	return contenders[0]
}

// tiedLeaders returns the subjects holding the maximum total, preserving the
// given order.
func tiedLeaders(totals map[string]int, order []string) []string {
	max := 0
	first := true
	for _, id := range order {
		if first || totals[id] > max {
			max = totals[id]
			first = false
		}
	}

	var tied []string
	for _, id := range order {
		if totals[id] == max {
			tied = append(tied, id)
		}
	}
	return tied
}

// topKSum sums the k highest totals; k <= 0 counts every member.
func topKSum(totals []int, k int) int {
	sorted := make([]int, len(totals))
	copy(sorted, totals)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	if k <= 0 || k > len(sorted) {
		k = len(sorted)
	}

	sum := 0
	for _, t := range sorted[:k] {
		sum += t
	}
	return sum
}

func (uc *ChallengeUseCase) revealedSeeds(ctx context.Context, challengeID string) (*domain.SeedRecord, []*domain.SubjectSeed, error) {
	record, err := uc.seedRepo.GetRecord(ctx, challengeID)
	if err != nil {
		return nil, nil, err
	}
	if !record.Revealed() {
		return nil, nil, apperr.Validationf("challenge %s seeds not revealed", challengeID)
	}

	subjects, err := uc.seedRepo.GetSubjectSeeds(ctx, challengeID)
	if err != nil {
		return nil, nil, err
	}
	if len(subjects) == 0 {
		return nil, nil, apperr.Fatalf("challenge %s has no subject seeds", challengeID)
	}
	for _, s := range subjects {
		if s.ClientSeed == nil {
			return nil, nil, apperr.Fatalf("challenge %s subject %s missing revealed client seed", challengeID, s.SubjectID)
		}
	}

	return record, subjects, nil
}

func modifiers(s *domain.SubjectSeed) fairroll.Modifiers {
	return fairroll.Modifiers{
		Energy:           s.Energy,
		ItemBonus:        s.ItemBonus,
		EventBonus:       s.EventBonus,
		ArchetypeBonus:   s.ArchetypeBonus,
		Debuffs:          s.Debuffs,
		DebuffResistance: s.DebuffResistance,
	}
}
