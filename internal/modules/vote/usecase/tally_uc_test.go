package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	tribedomain "github.com/willsigmon/castaway-council-sub000/internal/modules/tribe/domain"
	tribememory "github.com/willsigmon/castaway-council-sub000/internal/modules/tribe/repository/memory"
	votedomain "github.com/willsigmon/castaway-council-sub000/internal/modules/vote/domain"
	votememory "github.com/willsigmon/castaway-council-sub000/internal/modules/vote/repository/memory"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
)

func newTestTallyUseCase(t *testing.T, policy votedomain.TieBreakPolicy, players ...string) (*TallyUseCase, *tribememory.TribeRepository) {
	t.Helper()

	tribeRepo := tribememory.NewTribeRepository()
	for _, playerID := range players {
		addPlayer(t, tribeRepo, playerID)
	}
	return NewTallyUseCase(votememory.NewVoteRepository(), tribeRepo, policy), tribeRepo
}

func TestCastRejectsSelfVote(t *testing.T) {
	uc, _ := newTestTallyUseCase(t, votedomain.TieBreakFixedOrder, "p1", "p2")

	_, err := uc.Cast(context.Background(), "s1", 1, "p1", "p1", false)
	assert.True(t, apperr.IsValidation(err))
}

func TestCastRejectsInactiveVoter(t *testing.T) {
	uc, tribeRepo := newTestTallyUseCase(t, votedomain.TieBreakFixedOrder, "p1", "p2", "p3")
	ctx := context.Background()

	assert.NoError(t, tribeRepo.MarkEliminated(ctx, "s1", "p3", 1))

	_, err := uc.Cast(ctx, "s1", 2, "p3", "p1", false)
	assert.True(t, apperr.IsValidation(err))

	_, err = uc.Cast(ctx, "s1", 2, "p1", "p3", false)
	assert.True(t, apperr.IsValidation(err))
}

func TestCastDuplicateVoterConflicts(t *testing.T) {
	uc, _ := newTestTallyUseCase(t, votedomain.TieBreakFixedOrder, "p1", "p2")
	ctx := context.Background()

	_, err := uc.Cast(ctx, "s1", 1, "p1", "p2", false)
	assert.NoError(t, err)

	_, err = uc.Cast(ctx, "s1", 1, "p1", "p2", false)
	assert.True(t, apperr.IsConflict(err))
}

func TestTallyZeroVotesIsFatal(t *testing.T) {
	uc, _ := newTestTallyUseCase(t, votedomain.TieBreakFixedOrder, "p1", "p2")

	_, err := uc.Tally(context.Background(), "s1", 1)
	assert.True(t, apperr.IsFatal(err))
}

func TestTallyEliminatesPlurality(t *testing.T) {
	uc, tribeRepo := newTestTallyUseCase(t, votedomain.TieBreakFixedOrder, "p1", "p2", "p3")
	ctx := context.Background()

	mustCast(t, uc, "s1", 1, "p1", "p3")
	mustCast(t, uc, "s1", 1, "p2", "p3")
	mustCast(t, uc, "s1", 1, "p3", "p1")

	result, err := uc.Tally(ctx, "s1", 1)
	assert.NoError(t, err)
	assert.Equal(t, "p3", result.EliminatedID)
	assert.Equal(t, 2, result.Counts["p3"])
	assert.Equal(t, 3, result.VoteCount)
	assert.False(t, result.TieBroken)

	member, err := tribeRepo.GetEliminatedOnDay(ctx, "s1", 1)
	assert.NoError(t, err)
	assert.Equal(t, "p3", member.PlayerID)
}

func TestTallyIsIdempotent(t *testing.T) {
	uc, _ := newTestTallyUseCase(t, votedomain.TieBreakFixedOrder, "p1", "p2", "p3")
	ctx := context.Background()

	mustCast(t, uc, "s1", 1, "p1", "p3")
	mustCast(t, uc, "s1", 1, "p2", "p3")
	mustCast(t, uc, "s1", 1, "p3", "p1")

	first, err := uc.Tally(ctx, "s1", 1)
	assert.NoError(t, err)

	second, err := uc.Tally(ctx, "s1", 1)
	assert.NoError(t, err)
	assert.Equal(t, first.EliminatedID, second.EliminatedID)
	assert.Equal(t, first.Counts, second.Counts)
	assert.Equal(t, first.VoteCount, second.VoteCount)
}

func TestTallyTieExposedWhenPolicyNeedsCaller(t *testing.T) {
	uc, _ := newTestTallyUseCase(t, votedomain.TieBreakRevote, "p1", "p2", "p3", "p4")
	ctx := context.Background()

	mustCast(t, uc, "s1", 1, "p1", "p3")
	mustCast(t, uc, "s1", 1, "p2", "p4")
	mustCast(t, uc, "s1", 1, "p3", "p4")
	mustCast(t, uc, "s1", 1, "p4", "p3")

	result, err := uc.Tally(ctx, "s1", 1)
	assert.ErrorIs(t, err, votedomain.ErrTieBreakRequired)
	assert.True(t, apperr.IsFatal(err))
	assert.Empty(t, result.EliminatedID)
	assert.Equal(t, []string{"p3", "p4"}, result.Tied)
}

func TestTallyTieFixedOrderFallback(t *testing.T) {
	uc, _ := newTestTallyUseCase(t, votedomain.TieBreakFixedOrder, "p1", "p2", "p3", "p4")
	ctx := context.Background()

	mustCast(t, uc, "s1", 1, "p1", "p3")
	mustCast(t, uc, "s1", 1, "p2", "p4")
	mustCast(t, uc, "s1", 1, "p3", "p4")
	mustCast(t, uc, "s1", 1, "p4", "p3")

	result, err := uc.Tally(ctx, "s1", 1)
	assert.NoError(t, err)
	assert.True(t, result.TieBroken)
	assert.Equal(t, "p3", result.EliminatedID) // first tied target in ballot order
}

func TestTallyIdolVoidsVotesAgainstHolder(t *testing.T) {
	uc, _ := newTestTallyUseCase(t, votedomain.TieBreakFixedOrder, "p1", "p2", "p3")
	ctx := context.Background()

	// p3 plays an idol; the two votes against p3 are void and p1 goes home.
	mustCastIdol(t, uc, "s1", 1, "p3", "p1", true)
	mustCast(t, uc, "s1", 1, "p1", "p3")
	mustCast(t, uc, "s1", 1, "p2", "p3")

	result, err := uc.Tally(ctx, "s1", 1)
	assert.NoError(t, err)
	assert.Equal(t, "p1", result.EliminatedID)
	assert.Zero(t, result.Counts["p3"])
}

func addPlayer(t *testing.T, repo *tribememory.TribeRepository, playerID string) {
	t.Helper()
	err := repo.AddMember(context.Background(), &tribedomain.Member{
		SeasonID: "s1",
		TribeID:  "t1",
		PlayerID: playerID,
	})
	assert.NoError(t, err)
}

func mustCast(t *testing.T, uc *TallyUseCase, seasonID string, day int, voterID, targetID string) {
	t.Helper()
	_, err := uc.Cast(context.Background(), seasonID, day, voterID, targetID, false)
	assert.NoError(t, err)
}

func mustCastIdol(t *testing.T, uc *TallyUseCase, seasonID string, day int, voterID, targetID string, idol bool) {
	t.Helper()
	_, err := uc.Cast(context.Background(), seasonID, day, voterID, targetID, idol)
	assert.NoError(t, err)
}
