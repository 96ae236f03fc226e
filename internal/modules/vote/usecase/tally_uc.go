// Package usecase implements the business logic for the vote module: casting
// ballots and tallying a day's tribal council.
package usecase

import (
	"context"
	"time"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/tribe/domain"
	votedomain "github.com/willsigmon/castaway-council-sub000/internal/modules/vote/domain"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
	"github.com/willsigmon/castaway-council-sub000/pkg/logger"
)

// TallyUseCase counts votes and decides eliminations
type TallyUseCase struct {
	voteRepo  votedomain.VoteRepository
	tribeRepo domain.TribeRepository
	policy    votedomain.TieBreakPolicy
}

// NewTallyUseCase creates a new tally use case
func NewTallyUseCase(voteRepo votedomain.VoteRepository, tribeRepo domain.TribeRepository, policy votedomain.TieBreakPolicy) *TallyUseCase {
	return &TallyUseCase{
		voteRepo:  voteRepo,
		tribeRepo: tribeRepo,
		policy:    policy,
	}
}

// Cast records a ballot. Eliminated players cannot vote; a voter's second
// ballot for the same day is rejected as a conflict.
func (uc *TallyUseCase) Cast(ctx context.Context, seasonID string, day int, voterID, targetID string, idolPlayed bool) (*votedomain.Vote, error) {
	if voterID == "" || targetID == "" {
		return nil, apperr.Validationf("voter and target are required")
	}
	if voterID == targetID {
		return nil, apperr.Validationf("voter %s cannot vote for themselves", voterID)
	}

	active, err := uc.tribeRepo.ListActiveMembers(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if !containsPlayer(active, voterID) {
		return nil, apperr.Validationf("voter %s is not an active player in season %s", voterID, seasonID)
	}
	if !containsPlayer(active, targetID) {
		return nil, apperr.Validationf("target %s is not an active player in season %s", targetID, seasonID)
	}

	vote := votedomain.NewVote(seasonID, day, voterID, targetID, idolPlayed)
	if err := uc.voteRepo.Cast(ctx, vote); err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Str("season_id", seasonID).
		Int("day", day).
		Str("voter_id", voterID).
		Msg("Vote cast")

	return vote, nil
}

// Tally counts the day's votes, decides the elimination and reveals the
// ballots, exactly once. Re-tallying an already-revealed day reconstructs the
// recorded result instead of deciding again. Zero votes is a fatal condition:
// a council with no ballots means the day went wrong upstream, and silently
// skipping the elimination would corrupt every later day.
func (uc *TallyUseCase) Tally(ctx context.Context, seasonID string, day int) (*votedomain.TallyResult, error) {
	votes, err := uc.voteRepo.ListForDay(ctx, seasonID, day)
	if err != nil {
		return nil, err
	}
	if len(votes) == 0 {
		return nil, apperr.Fatalf("no votes cast for season %s day %d", seasonID, day)
	}

	revealed, err := uc.voteRepo.AllRevealed(ctx, seasonID, day)
	if err != nil {
		return nil, err
	}
	if revealed {
		return uc.recordedResult(ctx, seasonID, day, votes)
	}

	active, err := uc.tribeRepo.ListActiveMembers(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	counted := uc.countable(ctx, votes, active)
	if len(counted) == 0 {
		return nil, apperr.Fatalf("no countable votes for season %s day %d after idol plays", seasonID, day)
	}

	counts, order := countVotes(counted)
	tied := tiedTargets(counts, order)

	result := &votedomain.TallyResult{
		Counts:    counts,
		VoteCount: len(votes),
	}

	if len(tied) == 1 {
		result.EliminatedID = tied[0]
	} else {
		result.Tied = tied
		switch uc.policy {
		case votedomain.TieBreakFixedOrder:
			// Degenerate fallback: first tied candidate in ballot order.
			// Liveness over design intent; a proper tie-break round should
			// replace this.
			result.EliminatedID = tied[0]
			result.TieBroken = true
			logger.Warn(ctx).
				Str("season_id", seasonID).
				Int("day", day).
				Strs("tied", tied).
				Msg("Tie broken by fixed-order fallback")
		default:
			return result, votedomain.ErrTieBreakRequired
		}
	}

	// Elimination and reveal are both idempotent, so a crash between the two
	// converges on the same state when the tally is replayed.
	if err := uc.tribeRepo.MarkEliminated(ctx, seasonID, result.EliminatedID, day); err != nil {
		return nil, err
	}
	if err := uc.voteRepo.RevealDay(ctx, seasonID, day, time.Now()); err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Str("season_id", seasonID).
		Int("day", day).
		Str("eliminated_id", result.EliminatedID).
		Int("votes", result.VoteCount).
		Bool("tie_broken", result.TieBroken).
		Msg("Votes tallied, player eliminated")

	return result, nil
}

// recordedResult rebuilds the tally outcome of an already-revealed day from
// the persisted elimination, keeping re-invocation a no-op.
func (uc *TallyUseCase) recordedResult(ctx context.Context, seasonID string, day int, votes []*votedomain.Vote) (*votedomain.TallyResult, error) {
	eliminated, err := uc.tribeRepo.GetEliminatedOnDay(ctx, seasonID, day)
	if err != nil {
		return nil, err
	}
	if eliminated == nil {
		return nil, apperr.Fatalf("season %s day %d votes revealed but no elimination recorded", seasonID, day)
	}

	counts, _ := countVotes(votes)
	logger.Debug(ctx).
		Str("season_id", seasonID).
		Int("day", day).
		Msg("Day already tallied, returning recorded result")

	return &votedomain.TallyResult{
		EliminatedID: eliminated.PlayerID,
		Counts:       counts,
		VoteCount:    len(votes),
	}, nil
}

// countable drops ballots that cannot count: votes from eliminated players
// and votes against a target protected by an idol play.
func (uc *TallyUseCase) countable(ctx context.Context, votes []*votedomain.Vote, active []*domain.Member) []*votedomain.Vote {
	activeSet := make(map[string]struct{}, len(active))
	for _, m := range active {
		activeSet[m.PlayerID] = struct{}{}
	}

	protected := make(map[string]struct{})
	for _, v := range votes {
		if v.IdolPlayed {
			protected[v.VoterID] = struct{}{}
		}
	}

	counted := make([]*votedomain.Vote, 0, len(votes))
	for _, v := range votes {
		if _, ok := activeSet[v.VoterID]; !ok {
			continue
		}
		if _, ok := protected[v.TargetID]; ok {
			logger.Debug(ctx).
				Str("voter_id", v.VoterID).
				Str("target_id", v.TargetID).
				Msg("Vote voided by idol play")
			continue
		}
		counted = append(counted, v)
	}
	return counted
}

func countVotes(votes []*votedomain.Vote) (map[string]int, []string) {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, v := range votes {
		if _, seen := counts[v.TargetID]; !seen {
			order = append(order, v.TargetID)
		}
		counts[v.TargetID]++
	}
	return counts, order
}

func tiedTargets(counts map[string]int, order []string) []string {
	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}

	var tied []string
	for _, target := range order {
		if counts[target] == max {
			tied = append(tied, target)
		}
	}
	return tied
}

func containsPlayer(members []*domain.Member, playerID string) bool {
	for _, m := range members {
		if m.PlayerID == playerID {
			return true
		}
	}
	return false
}
