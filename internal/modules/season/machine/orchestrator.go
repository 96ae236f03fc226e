// Package machine implements the season state machine. One Run call drives a
// single season through its daily camp/challenge/vote windows, invoking the
// activity gateway in strict order and persisting its position before every
// suspension so a process restart resumes mid-phase instead of replaying days.
package machine

import (
	"context"
	"errors"
	"time"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/season/domain"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
	"github.com/willsigmon/castaway-council-sub000/pkg/logger"
	"github.com/willsigmon/castaway-council-sub000/pkg/retry"
)

var phaseOrder = []domain.Phase{domain.PhaseCamp, domain.PhaseChallenge, domain.PhaseVote}

// Orchestrator sequences one season at a time. It owns the season row's
// {day, phase, phaseEndsAt, status} fields; every other state change flows
// through the gateway.
type Orchestrator struct {
	seasonRepo domain.SeasonRepository
	gateway    domain.ActivityGateway
	retrier    *retry.Client
}

// NewOrchestrator creates an orchestrator. The retrier is shared across
// seasons; per-call context keeps backoff waits cancellable.
func NewOrchestrator(seasonRepo domain.SeasonRepository, gateway domain.ActivityGateway, retrier *retry.Client) *Orchestrator {
	return &Orchestrator{
		seasonRepo: seasonRepo,
		gateway:    gateway,
		retrier:    retrier,
	}
}

// Run drives the season from its persisted position to a terminal state.
// It blocks for the season's real duration and returns nil on Completed,
// context.Canceled on cancellation, and the causing error on Halted.
func (o *Orchestrator) Run(ctx context.Context, season *domain.Season, cfg domain.GameModeConfig) error {
	if season.Terminal() {
		return apperr.Conflictf("season %s already %s", season.SeasonID, season.Status)
	}

	if season.Status == domain.StatusPlanned {
		if err := o.persistStatus(ctx, season, domain.StatusRunning); err != nil {
			return o.halt(ctx, season, err)
		}
	}

	startDay := season.DayIndex
	if startDay < 1 {
		startDay = 1
	}
	resumePhase := season.CurrentPhase

	for day := startDay; day <= cfg.TotalDays; day++ {
		dayCtx := logger.WithSeason(ctx, season.SeasonID, day, "")

		for _, phase := range phaseOrder {
			if day == startDay && resumePhase != domain.PhaseNone && phaseBefore(phase, resumePhase) {
				continue
			}
			resuming := day == startDay && phase == resumePhase

			if err := o.openPhase(dayCtx, season, cfg, phase, day, resuming); err != nil {
				return o.finishOnError(dayCtx, season, err)
			}

			var postErr error
			switch phase {
			case domain.PhaseChallenge:
				postErr = o.runCritical(dayCtx, "score_challenge", func(c context.Context) error {
					return o.gateway.ScorePhaseChallenge(c, season.SeasonID, day)
				})
			case domain.PhaseVote:
				postErr = o.runCritical(dayCtx, "tally_votes", func(c context.Context) error {
					return o.gateway.TallyVotes(c, season.SeasonID, day)
				})
			}
			if postErr != nil {
				return o.finishOnError(dayCtx, season, postErr)
			}
		}

		// The merge fires once, right after the merge day's vote tally, so
		// day mergeDay+1 opens with a single tribe.
		if day == cfg.MergeDay {
			if err := o.runCritical(dayCtx, "merge_tribes", func(c context.Context) error {
				return o.gateway.MergeTribes(c, season.SeasonID)
			}); err != nil {
				return o.finishOnError(dayCtx, season, err)
			}
		}

		if err := o.gateway.EmitDailySummary(dayCtx, season.SeasonID, day); err != nil {
			logger.Warn(dayCtx).Err(err).Msg("Daily summary failed")
		}
	}

	if err := o.persistStatus(ctx, season, domain.StatusCompleted); err != nil {
		return o.halt(ctx, season, err)
	}
	o.notify(ctx, season, domain.EventSeasonCompleted, domain.PhaseNone, cfg.TotalDays, time.Time{})

	logger.Info(ctx).Str("season_id", season.SeasonID).Msg("Season completed")
	return nil
}

// openPhase announces the window, persists the transition and suspends until
// the window closes. On resume the remaining wait is recomputed from the
// stored deadline instead of restarting the full duration.
func (o *Orchestrator) openPhase(ctx context.Context, season *domain.Season, cfg domain.GameModeConfig, phase domain.Phase, day int, resuming bool) error {
	var endsAt time.Time
	if resuming && season.PhaseEndsAt != nil {
		endsAt = *season.PhaseEndsAt
		logger.Info(ctx).
			Str("phase", string(phase)).
			Time("phase_ends_at", endsAt).
			Msg("Resuming suspended phase")
	} else {
		endsAt = time.Now().Add(phaseDuration(cfg, phase))

		o.notify(ctx, season, domain.EventPhaseOpen, phase, day, endsAt)

		if err := o.retrier.Do(ctx, "persist_phase", func(c context.Context) error {
			return o.seasonRepo.UpdatePhase(c, season.SeasonID, day, phase, endsAt)
		}); err != nil {
			return err
		}
		season.DayIndex = day
		season.CurrentPhase = phase
		season.PhaseEndsAt = &endsAt
	}

	return o.suspend(ctx, endsAt)
}

// suspend blocks until the deadline or cancellation. A deadline already in
// the past returns immediately, which is the restart-after-downtime path.
func (o *Orchestrator) suspend(ctx context.Context, until time.Time) error {
	remaining := time.Until(until)
	if remaining <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runCritical executes an ordering-critical gateway operation with retries.
// Conflicts mean the work was already applied and count as success.
func (o *Orchestrator) runCritical(ctx context.Context, name string, op func(context.Context) error) error {
	return o.retrier.Do(ctx, name, func(c context.Context) error {
		err := op(c)
		if apperr.IsConflict(err) {
			logger.Debug(c).Str("op", name).Msg("Operation already applied")
			return nil
		}
		return err
	})
}

// finishOnError routes a failed step to its terminal state: cancellation
// yields Cancelled, everything else Halted.
func (o *Orchestrator) finishOnError(ctx context.Context, season *domain.Season, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return o.cancel(season, err)
	}
	return o.halt(ctx, season, err)
}

func (o *Orchestrator) cancel(season *domain.Season, cause error) error {
	// The run context is already dead; terminal writes get their own.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := o.seasonRepo.UpdateStatus(ctx, season.SeasonID, domain.StatusCancelled); err != nil {
		logger.Error(ctx).Err(err).Str("season_id", season.SeasonID).Msg("Failed to persist cancellation")
	}
	season.Status = domain.StatusCancelled
	o.notify(ctx, season, domain.EventSeasonCancelled, domain.PhaseNone, season.DayIndex, time.Time{})

	logger.Info(ctx).Str("season_id", season.SeasonID).Msg("Season cancelled")
	return cause
}

func (o *Orchestrator) halt(ctx context.Context, season *domain.Season, cause error) error {
	logger.Error(ctx).
		Err(cause).
		Str("season_id", season.SeasonID).
		Int("day", season.DayIndex).
		Str("phase", string(season.CurrentPhase)).
		Msg("Season halted")

	if err := o.seasonRepo.UpdateStatus(ctx, season.SeasonID, domain.StatusHalted); err != nil {
		logger.Error(ctx).Err(err).Str("season_id", season.SeasonID).Msg("Failed to persist halt")
	}
	season.Status = domain.StatusHalted
	o.notify(ctx, season, domain.EventSeasonHalted, domain.PhaseNone, season.DayIndex, time.Time{})
	return cause
}

func (o *Orchestrator) persistStatus(ctx context.Context, season *domain.Season, status domain.Status) error {
	err := o.retrier.Do(ctx, "persist_status", func(c context.Context) error {
		return o.seasonRepo.UpdateStatus(c, season.SeasonID, status)
	})
	if err != nil {
		return err
	}
	season.Status = status
	return nil
}

func (o *Orchestrator) notify(ctx context.Context, season *domain.Season, event domain.EventType, phase domain.Phase, day int, closesAt time.Time) {
	if err := o.gateway.NotifyPlayers(ctx, season.SeasonID, event, phase, day, closesAt); err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("event_type", string(event)).
			Msg("Notification failed")
	}
}

func phaseDuration(cfg domain.GameModeConfig, phase domain.Phase) time.Duration {
	switch phase {
	case domain.PhaseCamp:
		return cfg.Phases.Camp
	case domain.PhaseChallenge:
		return cfg.Phases.Challenge
	default:
		return cfg.Phases.Vote
	}
}

func phaseBefore(a, b domain.Phase) bool {
	return phaseIndex(a) < phaseIndex(b)
}

func phaseIndex(p domain.Phase) int {
	for i, phase := range phaseOrder {
		if phase == p {
			return i
		}
	}
	return 0
}
