package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/season/domain"
	"github.com/willsigmon/castaway-council-sub000/internal/modules/season/machine"
	"github.com/willsigmon/castaway-council-sub000/internal/modules/season/repository/memory"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
	"github.com/willsigmon/castaway-council-sub000/pkg/retry"
)

// nopGateway satisfies the gateway without side effects; lifecycle tests
// only watch the persisted season state.
type nopGateway struct{}

func (nopGateway) NotifyPlayers(ctx context.Context, seasonID string, eventType domain.EventType, phase domain.Phase, day int, closesAt time.Time) error {
	return nil
}
func (nopGateway) ScorePhaseChallenge(ctx context.Context, seasonID string, day int) error { return nil }
func (nopGateway) TallyVotes(ctx context.Context, seasonID string, day int) error          { return nil }
func (nopGateway) MergeTribes(ctx context.Context, seasonID string) error                  { return nil }
func (nopGateway) EmitDailySummary(ctx context.Context, seasonID string, day int) error    { return nil }

func newTestSeasonUseCase() (*SeasonUseCase, *memory.SeasonRepository) {
	repo := memory.NewSeasonRepository()
	retrier := retry.New(retry.Config{
		MaxAttempts: 2,
		BaseDelay:   time.Millisecond,
		Retryable:   apperr.IsTransient,
	})
	orch := machine.NewOrchestrator(repo, nopGateway{}, retrier)
	return NewSeasonUseCase(repo, orch), repo
}

func TestStartResolvesNamedMode(t *testing.T) {
	uc, _ := newTestSeasonUseCase()

	season, err := uc.Start(context.Background(), StartSeasonRequest{
		SeasonID: "s1",
		Mode:     "classic",
	})
	assert.NoError(t, err)
	assert.Equal(t, "classic", season.Mode)
	assert.Equal(t, 14, season.TotalDays)
	assert.Equal(t, 7, season.MergeDay)
}

func TestStartRejectsUnknownMode(t *testing.T) {
	uc, _ := newTestSeasonUseCase()

	_, err := uc.Start(context.Background(), StartSeasonRequest{Mode: "nope"})
	assert.True(t, apperr.IsValidation(err))
}

func TestStartOverridePicksMidpointMerge(t *testing.T) {
	uc, _ := newTestSeasonUseCase()

	season, err := uc.Start(context.Background(), StartSeasonRequest{
		SeasonID:  "s2",
		TotalDays: 9,
		Fast:      true,
	})
	assert.NoError(t, err)
	assert.Equal(t, "custom-fast", season.Mode)
	assert.Equal(t, 9, season.TotalDays)
	assert.Equal(t, 5, season.MergeDay)
}

func TestStartReturnsDetachedSnapshot(t *testing.T) {
	uc, repo := newTestSeasonUseCase()

	season, err := uc.Start(context.Background(), StartSeasonRequest{
		SeasonID: "snap",
		Mode:     "classic", // 8h camp keeps the run suspended after day 1 opens
	})
	assert.NoError(t, err)

	// Callers serialize the returned season while the machine runs; the race
	// detector flags this if the two still share memory.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			if _, err := json.Marshal(season); err != nil {
				t.Errorf("marshal returned season: %v", err)
				return
			}
		}
	}()

	assert.Eventually(t, func() bool {
		persisted, err := repo.GetByID(context.Background(), "snap")
		return err == nil && persisted.CurrentPhase == domain.PhaseCamp
	}, 2*time.Second, 10*time.Millisecond)
	<-done

	// The machine has advanced to day 1 camp; the caller still holds the
	// creation-time snapshot.
	assert.Equal(t, domain.StatusPlanned, season.Status)
	assert.Equal(t, 0, season.DayIndex)
	assert.Equal(t, domain.PhaseNone, season.CurrentPhase)
	assert.Nil(t, season.PhaseEndsAt)
}

func TestStartDuplicateIsNoOp(t *testing.T) {
	uc, _ := newTestSeasonUseCase()

	first, err := uc.Start(context.Background(), StartSeasonRequest{
		SeasonID: "dup",
		Mode:     "classic",
	})
	assert.NoError(t, err)

	second, err := uc.Start(context.Background(), StartSeasonRequest{
		SeasonID: "dup",
		Mode:     "classic",
	})
	assert.NoError(t, err)
	assert.Equal(t, first.SeasonID, second.SeasonID)

	uc.mu.Lock()
	instances := len(uc.running)
	uc.mu.Unlock()
	assert.Equal(t, 1, instances)
}

func TestCancelRecordsTerminalState(t *testing.T) {
	uc, repo := newTestSeasonUseCase()

	_, err := uc.Start(context.Background(), StartSeasonRequest{
		SeasonID: "c1",
		Mode:     "classic", // 8h camp keeps the run suspended
	})
	assert.NoError(t, err)

	err = uc.Cancel(context.Background(), "c1")
	assert.NoError(t, err)

	assert.Eventually(t, func() bool {
		season, err := repo.GetByID(context.Background(), "c1")
		return err == nil && season.Status == domain.StatusCancelled
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCancelTerminalSeasonConflicts(t *testing.T) {
	uc, repo := newTestSeasonUseCase()

	season := &domain.Season{
		SeasonID:  "done",
		Mode:      "classic",
		Status:    domain.StatusCompleted,
		TotalDays: 14,
		MergeDay:  7,
	}
	assert.NoError(t, repo.Create(context.Background(), season))

	err := uc.Cancel(context.Background(), "done")
	assert.True(t, apperr.IsConflict(err))
}

func TestResumeRelaunchesInProgressSeasons(t *testing.T) {
	uc, repo := newTestSeasonUseCase()

	endsAt := time.Now().Add(time.Hour)
	season := &domain.Season{
		SeasonID:  "r1",
		Mode:      "classic",
		Status:    domain.StatusRunning,
		DayIndex:  3,
		TotalDays: 14,
		MergeDay:  7,
	}
	assert.NoError(t, repo.Create(context.Background(), season))
	assert.NoError(t, repo.UpdateStatus(context.Background(), "r1", domain.StatusRunning))
	assert.NoError(t, repo.UpdatePhase(context.Background(), "r1", 3, domain.PhaseCamp, endsAt))

	resumed, err := uc.Resume(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, resumed)

	// A second resume pass must not spawn a competing instance.
	resumed, err = uc.Resume(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, resumed)
}
