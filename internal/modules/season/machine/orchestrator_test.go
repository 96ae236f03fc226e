package machine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/season/domain"
	"github.com/willsigmon/castaway-council-sub000/internal/modules/season/repository/memory"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
	"github.com/willsigmon/castaway-council-sub000/pkg/retry"
)

// fakeGateway records every gateway call in order and lets a test inject
// failures per operation.
type fakeGateway struct {
	mu       sync.Mutex
	calls    []string
	scoreErr func(day int) error
	tallyErr func(day int) error
	mergeErr func() error
}

func (g *fakeGateway) record(call string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, call)
}

func (g *fakeGateway) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func (g *fakeGateway) NotifyPlayers(ctx context.Context, seasonID string, eventType domain.EventType, phase domain.Phase, day int, closesAt time.Time) error {
	if phase != domain.PhaseNone {
		g.record(fmt.Sprintf("notify:%s:%s:d%d", eventType, phase, day))
	} else {
		g.record(fmt.Sprintf("notify:%s", eventType))
	}
	return nil
}

func (g *fakeGateway) ScorePhaseChallenge(ctx context.Context, seasonID string, day int) error {
	if g.scoreErr != nil {
		if err := g.scoreErr(day); err != nil {
			return err
		}
	}
	g.record(fmt.Sprintf("score:d%d", day))
	return nil
}

func (g *fakeGateway) TallyVotes(ctx context.Context, seasonID string, day int) error {
	if g.tallyErr != nil {
		if err := g.tallyErr(day); err != nil {
			return err
		}
	}
	g.record(fmt.Sprintf("tally:d%d", day))
	return nil
}

func (g *fakeGateway) MergeTribes(ctx context.Context, seasonID string) error {
	if g.mergeErr != nil {
		if err := g.mergeErr(); err != nil {
			return err
		}
	}
	g.record("merge")
	return nil
}

func (g *fakeGateway) EmitDailySummary(ctx context.Context, seasonID string, day int) error {
	g.record(fmt.Sprintf("summary:d%d", day))
	return nil
}

func fastConfig(totalDays, mergeDay int) domain.GameModeConfig {
	return domain.GameModeConfig{
		Mode:      "test",
		TotalDays: totalDays,
		MergeDay:  mergeDay,
		Phases: domain.PhaseDurations{
			Camp:      2 * time.Millisecond,
			Challenge: 2 * time.Millisecond,
			Vote:      2 * time.Millisecond,
		},
	}
}

func newTestOrchestrator(gateway domain.ActivityGateway) (*Orchestrator, *memory.SeasonRepository) {
	repo := memory.NewSeasonRepository()
	retrier := retry.New(retry.Config{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
		Retryable:   apperr.IsTransient,
	})
	return NewOrchestrator(repo, gateway, retrier), repo
}

func createSeason(t *testing.T, repo *memory.SeasonRepository, cfg domain.GameModeConfig) *domain.Season {
	t.Helper()
	season := &domain.Season{
		SeasonID:  "s-" + t.Name(),
		Mode:      cfg.Mode,
		Status:    domain.StatusPlanned,
		TotalDays: cfg.TotalDays,
		MergeDay:  cfg.MergeDay,
	}
	err := repo.Create(context.Background(), season)
	assert.NoError(t, err)
	return season
}

func TestRunPhaseOrderingWithMerge(t *testing.T) {
	gateway := &fakeGateway{}
	orch, repo := newTestOrchestrator(gateway)
	cfg := fastConfig(4, 3)
	season := createSeason(t, repo, cfg)

	err := orch.Run(context.Background(), season, cfg)
	assert.NoError(t, err)

	var expected []string
	for day := 1; day <= 4; day++ {
		expected = append(expected,
			fmt.Sprintf("notify:phase_open:camp:d%d", day),
			fmt.Sprintf("notify:phase_open:challenge:d%d", day),
			fmt.Sprintf("score:d%d", day),
			fmt.Sprintf("notify:phase_open:vote:d%d", day),
			fmt.Sprintf("tally:d%d", day),
		)
		if day == 3 {
			expected = append(expected, "merge")
		}
		expected = append(expected, fmt.Sprintf("summary:d%d", day))
	}
	expected = append(expected, "notify:season_completed")

	assert.Equal(t, expected, gateway.Calls())

	stored, err := repo.GetByID(context.Background(), season.SeasonID)
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)
}

func TestRunCancellationStopsScheduling(t *testing.T) {
	gateway := &fakeGateway{}
	orch, repo := newTestOrchestrator(gateway)

	cfg := fastConfig(3, 2)
	cfg.Phases.Camp = time.Hour // park the run inside day 1's camp window
	season := createSeason(t, repo, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- orch.Run(ctx, season, cfg)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("orchestrator did not observe cancellation")
	}

	stored, err := repo.GetByID(context.Background(), season.SeasonID)
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)

	for _, call := range gateway.Calls() {
		assert.NotContains(t, call, "score")
		assert.NotContains(t, call, "tally")
		assert.NotContains(t, call, "merge")
	}
}

func TestRunResumesFromPersistedPhase(t *testing.T) {
	gateway := &fakeGateway{}
	orch, repo := newTestOrchestrator(gateway)
	cfg := fastConfig(2, 2)

	// A restart mid-day-2-vote: the deadline already passed while the
	// process was down, so the wake is immediate.
	endsAt := time.Now().Add(-time.Second)
	season := createSeason(t, repo, cfg)
	season.Status = domain.StatusRunning
	season.DayIndex = 2
	season.CurrentPhase = domain.PhaseVote
	season.PhaseEndsAt = &endsAt
	err := repo.UpdateStatus(context.Background(), season.SeasonID, domain.StatusRunning)
	assert.NoError(t, err)
	err = repo.UpdatePhase(context.Background(), season.SeasonID, 2, domain.PhaseVote, endsAt)
	assert.NoError(t, err)

	err = orch.Run(context.Background(), season, cfg)
	assert.NoError(t, err)

	expected := []string{
		"tally:d2",
		"merge",
		"summary:d2",
		"notify:season_completed",
	}
	assert.Equal(t, expected, gateway.Calls())

	stored, err := repo.GetByID(context.Background(), season.SeasonID)
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)
}

func TestRunHaltsWhenRetriesExhausted(t *testing.T) {
	gateway := &fakeGateway{
		scoreErr: func(day int) error {
			return apperr.Transientf("storage down")
		},
	}
	orch, repo := newTestOrchestrator(gateway)
	cfg := fastConfig(2, 2)
	season := createSeason(t, repo, cfg)

	err := orch.Run(context.Background(), season, cfg)
	assert.ErrorIs(t, err, retry.ErrExhausted)

	stored, getErr := repo.GetByID(context.Background(), season.SeasonID)
	assert.NoError(t, getErr)
	assert.Equal(t, domain.StatusHalted, stored.Status)

	for _, call := range gateway.Calls() {
		assert.NotContains(t, call, "tally")
	}
}

func TestRunTreatsConflictAsApplied(t *testing.T) {
	scored := false
	gateway := &fakeGateway{
		scoreErr: func(day int) error {
			if day == 1 && !scored {
				scored = true
				return apperr.Conflictf("already scored")
			}
			return nil
		},
	}
	orch, repo := newTestOrchestrator(gateway)
	cfg := fastConfig(1, 1)
	season := createSeason(t, repo, cfg)

	err := orch.Run(context.Background(), season, cfg)
	assert.NoError(t, err)

	stored, getErr := repo.GetByID(context.Background(), season.SeasonID)
	assert.NoError(t, getErr)
	assert.Equal(t, domain.StatusCompleted, stored.Status)
}

func TestRunRejectsTerminalSeason(t *testing.T) {
	gateway := &fakeGateway{}
	orch, repo := newTestOrchestrator(gateway)
	cfg := fastConfig(2, 2)
	season := createSeason(t, repo, cfg)
	season.Status = domain.StatusCompleted

	err := orch.Run(context.Background(), season, cfg)
	assert.True(t, apperr.IsConflict(err))
	assert.Empty(t, gateway.Calls())
}
