package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/season/domain"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
	"github.com/willsigmon/castaway-council-sub000/pkg/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.NewGormLogger(),
	})
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Season{}, &domain.DailySummary{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func createSeason(t *testing.T, repo *SeasonRepository, seasonID string, status domain.Status) {
	t.Helper()
	err := repo.Create(context.Background(), &domain.Season{
		SeasonID:  seasonID,
		Mode:      "classic",
		Status:    status,
		TotalDays: 14,
		MergeDay:  7,
	})
	assert.NoError(t, err)
}

func TestUpdatePhasePersistsResumePoint(t *testing.T) {
	repo := NewSeasonRepository(newTestDB(t))
	ctx := context.Background()
	createSeason(t, repo, "s1", domain.StatusRunning)

	endsAt := time.Now().Add(10 * time.Minute)
	assert.NoError(t, repo.UpdatePhase(ctx, "s1", 3, domain.PhaseVote, endsAt))

	season, err := repo.GetByID(ctx, "s1")
	assert.NoError(t, err)
	assert.Equal(t, 3, season.DayIndex)
	assert.Equal(t, domain.PhaseVote, season.CurrentPhase)
	assert.NotNil(t, season.PhaseEndsAt)
	assert.WithinDuration(t, endsAt, *season.PhaseEndsAt, time.Second)
}

func TestUpdatePhaseUnknownSeasonNotFound(t *testing.T) {
	repo := NewSeasonRepository(newTestDB(t))

	err := repo.UpdatePhase(context.Background(), "nope", 1, domain.PhaseCamp, time.Now())
	assert.True(t, apperr.IsNotFound(err))
}

func TestListByStatusFiltersSeasons(t *testing.T) {
	repo := NewSeasonRepository(newTestDB(t))
	ctx := context.Background()
	createSeason(t, repo, "s1", domain.StatusRunning)
	createSeason(t, repo, "s2", domain.StatusRunning)
	createSeason(t, repo, "s3", domain.StatusCompleted)

	running, err := repo.ListByStatus(ctx, domain.StatusRunning)
	assert.NoError(t, err)
	assert.Len(t, running, 2)

	completed, err := repo.ListByStatus(ctx, domain.StatusCompleted)
	assert.NoError(t, err)
	assert.Len(t, completed, 1)
	assert.Equal(t, "s3", completed[0].SeasonID)
}

func TestSummaryUpsertReplaysSameDay(t *testing.T) {
	repo := NewSummaryRepository(newTestDB(t))
	ctx := context.Background()

	err := repo.Upsert(ctx, &domain.DailySummary{
		SeasonID:          "s1",
		Day:               1,
		ChallengeWinnerID: "p1",
		VoteCount:         3,
	})
	assert.NoError(t, err)

	first, err := repo.GetBySeasonDay(ctx, "s1", 1)
	assert.NoError(t, err)
	assert.NotNil(t, first)
	assert.Equal(t, "p1", first.ChallengeWinnerID)

	// A replay with fresher data lands on the same row.
	err = repo.Upsert(ctx, &domain.DailySummary{
		SeasonID:          "s1",
		Day:               1,
		ChallengeWinnerID: "p2",
		EliminatedID:      "p4",
		VoteCount:         4,
		Merged:            true,
	})
	assert.NoError(t, err)

	second, err := repo.GetBySeasonDay(ctx, "s1", 1)
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "p2", second.ChallengeWinnerID)
	assert.Equal(t, "p4", second.EliminatedID)
	assert.Equal(t, 4, second.VoteCount)
	assert.True(t, second.Merged)
}

func TestSummaryGetMissingReturnsNil(t *testing.T) {
	repo := NewSummaryRepository(newTestDB(t))

	summary, err := repo.GetBySeasonDay(context.Background(), "s1", 9)
	assert.NoError(t, err)
	assert.Nil(t, summary)
}
