// Package usecase implements the season module's business logic: starting,
// resuming and cancelling season runs, plus the activity gateway the state
// machine drives.
package usecase

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/season/domain"
	"github.com/willsigmon/castaway-council-sub000/internal/modules/season/machine"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
	"github.com/willsigmon/castaway-council-sub000/pkg/logger"
)

// StartSeasonRequest selects either a named mode or the legacy explicit-days
// override. Mode wins when both are set.
type StartSeasonRequest struct {
	SeasonID  string `json:"season_id"`
	Mode      string `json:"mode"`
	TotalDays int    `json:"total_days"`
	Fast      bool   `json:"fast"`
}

// SeasonUseCase owns the one-instance-per-season registry. A process exit
// leaves running seasons' rows untouched, so the next boot resumes them;
// Cancel is the only path to the Cancelled state.
type SeasonUseCase struct {
	seasonRepo   domain.SeasonRepository
	orchestrator *machine.Orchestrator

	mu      sync.Mutex
	running map[string]context.CancelFunc
}

// NewSeasonUseCase creates a new season use case
func NewSeasonUseCase(seasonRepo domain.SeasonRepository, orchestrator *machine.Orchestrator) *SeasonUseCase {
	return &SeasonUseCase{
		seasonRepo:   seasonRepo,
		orchestrator: orchestrator,
		running:      make(map[string]context.CancelFunc),
	}
}

// Start creates a season and launches its orchestrator. Starting a season id
// that is already live is a duplicate no-op returning the existing row.
func (uc *SeasonUseCase) Start(ctx context.Context, req StartSeasonRequest) (*domain.Season, error) {
	cfg, err := uc.resolveConfig(req)
	if err != nil {
		return nil, err
	}

	seasonID := req.SeasonID
	if seasonID == "" {
		seasonID = uuid.NewString()
	}

	season := &domain.Season{
		SeasonID:  seasonID,
		Mode:      cfg.Mode,
		Status:    domain.StatusPlanned,
		TotalDays: cfg.TotalDays,
		MergeDay:  cfg.MergeDay,
	}
	if err := uc.seasonRepo.Create(ctx, season); err != nil {
		if apperr.IsConflict(err) {
			return uc.attach(ctx, seasonID)
		}
		return nil, err
	}

	uc.launch(season, cfg)

	logger.Info(ctx).
		Str("season_id", seasonID).
		Str("mode", cfg.Mode).
		Int("total_days", cfg.TotalDays).
		Int("merge_day", cfg.MergeDay).
		Msg("Season started")
	return season, nil
}

// Resume relaunches orchestrators for every season the last process left
// in-progress. Called once at boot.
func (uc *SeasonUseCase) Resume(ctx context.Context) (int, error) {
	resumed := 0
	for _, status := range []domain.Status{domain.StatusRunning, domain.StatusPlanned} {
		seasons, err := uc.seasonRepo.ListByStatus(ctx, status)
		if err != nil {
			return resumed, err
		}
		for _, season := range seasons {
			if uc.launch(season, domain.ConfigForSeason(season)) {
				resumed++
				logger.Info(ctx).
					Str("season_id", season.SeasonID).
					Int("day", season.DayIndex).
					Str("phase", string(season.CurrentPhase)).
					Msg("Season resumed")
			}
		}
	}
	return resumed, nil
}

// Cancel stops the season's orchestrator. The state machine observes the
// cancellation during its next suspension and records the Cancelled status.
func (uc *SeasonUseCase) Cancel(ctx context.Context, seasonID string) error {
	season, err := uc.seasonRepo.GetByID(ctx, seasonID)
	if err != nil {
		return err
	}
	if season.Terminal() {
		return apperr.Conflictf("season %s already %s", seasonID, season.Status)
	}

	uc.mu.Lock()
	cancel, ok := uc.running[seasonID]
	uc.mu.Unlock()

	if ok {
		cancel()
		return nil
	}

	// No live instance in this process (e.g. cancelled before resume);
	// record the terminal state directly.
	return uc.seasonRepo.UpdateStatus(ctx, seasonID, domain.StatusCancelled)
}

// Get returns the season's persisted state
func (uc *SeasonUseCase) Get(ctx context.Context, seasonID string) (*domain.Season, error) {
	return uc.seasonRepo.GetByID(ctx, seasonID)
}

// launch registers the season and runs its state machine on a detached
// context. Returns false when an instance is already live for the id.
func (uc *SeasonUseCase) launch(season *domain.Season, cfg domain.GameModeConfig) bool {
	// The machine advances its own copy; the caller keeps an untouched
	// snapshot of the season it was handed.
	season = season.Clone()

	runCtx, cancel := context.WithCancel(context.Background())

	uc.mu.Lock()
	if _, exists := uc.running[season.SeasonID]; exists {
		uc.mu.Unlock()
		cancel()
		return false
	}
	uc.running[season.SeasonID] = cancel
	uc.mu.Unlock()

	go func() {
		defer func() {
			uc.mu.Lock()
			delete(uc.running, season.SeasonID)
			uc.mu.Unlock()
			cancel()
		}()

		if err := uc.orchestrator.Run(runCtx, season, cfg); err != nil {
			logger.WarnGlobal().
				Err(err).
				Str("season_id", season.SeasonID).
				Msg("Season run ended abnormally")
		}
	}()
	return true
}

// attach handles a duplicate start: the existing season is returned as-is
// when an instance is live or the season already finished.
func (uc *SeasonUseCase) attach(ctx context.Context, seasonID string) (*domain.Season, error) {
	season, err := uc.seasonRepo.GetByID(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if season.InProgress() {
		uc.launch(season, domain.ConfigForSeason(season))
	}
	return season, nil
}

func (uc *SeasonUseCase) resolveConfig(req StartSeasonRequest) (domain.GameModeConfig, error) {
	if req.Mode != "" {
		return domain.ResolveMode(req.Mode)
	}
	return domain.ResolveOverride(req.TotalDays, req.Fast)
}
