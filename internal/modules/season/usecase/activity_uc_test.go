package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	challengedomain "github.com/willsigmon/castaway-council-sub000/internal/modules/challenge/domain"
	challengememory "github.com/willsigmon/castaway-council-sub000/internal/modules/challenge/repository/memory"
	challengeusecase "github.com/willsigmon/castaway-council-sub000/internal/modules/challenge/usecase"
	notifymemory "github.com/willsigmon/castaway-council-sub000/internal/modules/notify/memory"
	"github.com/willsigmon/castaway-council-sub000/internal/modules/season/domain"
	seasonmemory "github.com/willsigmon/castaway-council-sub000/internal/modules/season/repository/memory"
	tribememory "github.com/willsigmon/castaway-council-sub000/internal/modules/tribe/repository/memory"
	tribeusecase "github.com/willsigmon/castaway-council-sub000/internal/modules/tribe/usecase"
	votedomain "github.com/willsigmon/castaway-council-sub000/internal/modules/vote/domain"
	votememory "github.com/willsigmon/castaway-council-sub000/internal/modules/vote/repository/memory"
	voteusecase "github.com/willsigmon/castaway-council-sub000/internal/modules/vote/usecase"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
)

type gatewayFixture struct {
	gateway     *ActivityUseCase
	challengeUC *challengeusecase.ChallengeUseCase
	tallyUC     *voteusecase.TallyUseCase
	tribeUC     *tribeusecase.TribeUseCase
	summaryRepo *seasonmemory.SummaryRepository
	recorder    *notifymemory.Recorder
}

func newGatewayFixture(t *testing.T) *gatewayFixture {
	t.Helper()
	ctx := context.Background()

	challengeRepo := challengememory.NewChallengeRepository()
	challengeUC := challengeusecase.NewChallengeUseCase(
		challengeRepo,
		challengememory.NewSeedRepository(),
		challengememory.NewOutcomeRepository(),
		challengememory.NewSeedVault(),
	)
	tribeRepo := tribememory.NewTribeRepository()
	tribeUC := tribeusecase.NewTribeUseCase(tribeRepo)
	tallyUC := voteusecase.NewTallyUseCase(votememory.NewVoteRepository(), tribeRepo, votedomain.TieBreakFixedOrder)
	summaryRepo := seasonmemory.NewSummaryRepository()
	recorder := notifymemory.NewRecorder()

	for _, tribe := range []string{"alpha", "beta"} {
		_, err := tribeUC.CreateTribe(ctx, "s1", tribe, tribe)
		assert.NoError(t, err)
	}
	for player, tribe := range map[string]string{
		"p1": "alpha", "p2": "alpha", "p3": "beta", "p4": "beta",
	} {
		_, err := tribeUC.AddMember(ctx, "s1", tribe, player)
		assert.NoError(t, err)
	}

	return &gatewayFixture{
		gateway:     NewActivityUseCase(challengeRepo, challengeUC, tallyUC, tribeUC, tribeRepo, summaryRepo, recorder),
		challengeUC: challengeUC,
		tallyUC:     tallyUC,
		tribeUC:     tribeUC,
		summaryRepo: summaryRepo,
		recorder:    recorder,
	}
}

func (f *gatewayFixture) openChallenge(t *testing.T, day int) *challengedomain.Challenge {
	t.Helper()
	challenge, err := f.challengeUC.Open(context.Background(), "s1", day, challengedomain.SubjectTypePlayer, 0, []challengeusecase.Entry{
		{SubjectID: "p1", ClientSeed: "seed-one"},
		{SubjectID: "p2", ClientSeed: "seed-two"},
		{SubjectID: "p3", ClientSeed: "seed-three"},
		{SubjectID: "p4", ClientSeed: "seed-four"},
	})
	assert.NoError(t, err)
	return challenge
}

func (f *gatewayFixture) castDayVotes(t *testing.T, day int) {
	t.Helper()
	ctx := context.Background()
	for voter, target := range map[string]string{
		"p1": "p4", "p2": "p4", "p3": "p1",
	} {
		_, err := f.tallyUC.Cast(ctx, "s1", day, voter, target, false)
		assert.NoError(t, err)
	}
}

func TestScorePhaseChallengeIsIdempotent(t *testing.T) {
	f := newGatewayFixture(t)
	ctx := context.Background()
	challenge := f.openChallenge(t, 1)

	assert.NoError(t, f.gateway.ScorePhaseChallenge(ctx, "s1", 1))

	first, err := f.challengeUC.Score(ctx, challenge.ChallengeID)
	assert.NoError(t, err)

	// The replayed gateway call must not reroll or duplicate anything.
	assert.NoError(t, f.gateway.ScorePhaseChallenge(ctx, "s1", 1))

	second, err := f.challengeUC.Score(ctx, challenge.ChallengeID)
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.WinnerID, second.WinnerID)
	assert.Equal(t, first.PerSubjectTotal, second.PerSubjectTotal)
}

func TestScorePhaseChallengeSkipsEmptyDay(t *testing.T) {
	f := newGatewayFixture(t)

	assert.NoError(t, f.gateway.ScorePhaseChallenge(context.Background(), "s1", 6))
}

func TestTallyVotesEliminatesAndReplays(t *testing.T) {
	f := newGatewayFixture(t)
	ctx := context.Background()
	f.castDayVotes(t, 1)

	assert.NoError(t, f.gateway.TallyVotes(ctx, "s1", 1))
	assert.NoError(t, f.gateway.TallyVotes(ctx, "s1", 1)) // replay converges

	members, err := f.tribeUC.ListMembers(ctx, "s1")
	assert.NoError(t, err)
	eliminated := 0
	for _, m := range members {
		if m.Eliminated {
			eliminated++
			assert.Equal(t, "p4", m.PlayerID)
		}
	}
	assert.Equal(t, 1, eliminated)
}

func TestTallyVotesZeroBallotsIsFatal(t *testing.T) {
	f := newGatewayFixture(t)

	err := f.gateway.TallyVotes(context.Background(), "s1", 1)
	assert.True(t, apperr.IsFatal(err))
}

func TestMergeTribesPublishesEvent(t *testing.T) {
	f := newGatewayFixture(t)
	ctx := context.Background()

	assert.NoError(t, f.gateway.MergeTribes(ctx, "s1"))
	assert.NoError(t, f.gateway.MergeTribes(ctx, "s1")) // replay is a no-op

	found := false
	for _, event := range f.recorder.Events() {
		if event.Type == string(domain.EventTribesMerged) {
			found = true
		}
	}
	assert.True(t, found)
}

func TestEmitDailySummaryAggregatesDay(t *testing.T) {
	f := newGatewayFixture(t)
	ctx := context.Background()

	f.openChallenge(t, 1)
	assert.NoError(t, f.gateway.ScorePhaseChallenge(ctx, "s1", 1))
	f.castDayVotes(t, 1)
	assert.NoError(t, f.gateway.TallyVotes(ctx, "s1", 1))
	assert.NoError(t, f.gateway.MergeTribes(ctx, "s1"))

	assert.NoError(t, f.gateway.EmitDailySummary(ctx, "s1", 1))

	summary, err := f.summaryRepo.GetBySeasonDay(ctx, "s1", 1)
	assert.NoError(t, err)
	assert.NotNil(t, summary)
	assert.NotEmpty(t, summary.ChallengeWinnerID)
	assert.Equal(t, "p4", summary.EliminatedID)
	assert.Equal(t, 3, summary.VoteCount)
	assert.True(t, summary.Merged)

	// Replaying the summary upserts the same record.
	assert.NoError(t, f.gateway.EmitDailySummary(ctx, "s1", 1))
	again, err := f.summaryRepo.GetBySeasonDay(ctx, "s1", 1)
	assert.NoError(t, err)
	assert.Equal(t, summary.ID, again.ID)
}

func TestNotifyPlayersFansOut(t *testing.T) {
	f := newGatewayFixture(t)

	err := f.gateway.NotifyPlayers(context.Background(), "s1", domain.EventPhaseOpen, domain.PhaseCamp, 1, time.Now().Add(time.Hour))
	assert.NoError(t, err)

	events := f.recorder.Events()
	assert.Len(t, events, 1)
	assert.Equal(t, string(domain.EventPhaseOpen), events[0].Type)
	assert.Equal(t, "camp", events[0].Phase)
	assert.NotNil(t, events[0].ClosesAt)
}
