package usecase

import (
	"context"
	"time"

	challengedomain "github.com/willsigmon/castaway-council-sub000/internal/modules/challenge/domain"
	challengeusecase "github.com/willsigmon/castaway-council-sub000/internal/modules/challenge/usecase"
	notifydomain "github.com/willsigmon/castaway-council-sub000/internal/modules/notify/domain"
	"github.com/willsigmon/castaway-council-sub000/internal/modules/season/domain"
	tribedomain "github.com/willsigmon/castaway-council-sub000/internal/modules/tribe/domain"
	tribeusecase "github.com/willsigmon/castaway-council-sub000/internal/modules/tribe/usecase"
	voteusecase "github.com/willsigmon/castaway-council-sub000/internal/modules/vote/usecase"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
	"github.com/willsigmon/castaway-council-sub000/pkg/logger"
)

// ActivityUseCase implements domain.ActivityGateway by calling the challenge,
// vote and tribe modules in-process. Every operation is idempotent, so the
// orchestrator can replay any of them after a crash or retry.
type ActivityUseCase struct {
	challengeRepo challengedomain.ChallengeRepository
	challengeUC   *challengeusecase.ChallengeUseCase
	tallyUC       *voteusecase.TallyUseCase
	tribeUC       *tribeusecase.TribeUseCase
	tribeRepo     tribedomain.TribeRepository
	summaryRepo   domain.SummaryRepository
	notifier      notifydomain.Notifier
}

// NewActivityUseCase creates the gateway over the local module use cases
func NewActivityUseCase(
	challengeRepo challengedomain.ChallengeRepository,
	challengeUC *challengeusecase.ChallengeUseCase,
	tallyUC *voteusecase.TallyUseCase,
	tribeUC *tribeusecase.TribeUseCase,
	tribeRepo tribedomain.TribeRepository,
	summaryRepo domain.SummaryRepository,
	notifier notifydomain.Notifier,
) *ActivityUseCase {
	return &ActivityUseCase{
		challengeRepo: challengeRepo,
		challengeUC:   challengeUC,
		tallyUC:       tallyUC,
		tribeUC:       tribeUC,
		tribeRepo:     tribeRepo,
		summaryRepo:   summaryRepo,
		notifier:      notifier,
	}
}

func (uc *ActivityUseCase) NotifyPlayers(ctx context.Context, seasonID string, eventType domain.EventType, phase domain.Phase, day int, closesAt time.Time) error {
	event := notifydomain.Event{
		SeasonID: seasonID,
		Type:     string(eventType),
		Day:      day,
		Phase:    string(phase),
		At:       time.Now(),
	}
	if !closesAt.IsZero() {
		event.ClosesAt = &closesAt
	}
	return uc.notifier.Publish(ctx, event)
}

// ScorePhaseChallenge reveals the day's seeds and scores the challenge. A day
// nobody entered has no challenge row and is skipped. Replays converge on the
// stored outcome.
func (uc *ActivityUseCase) ScorePhaseChallenge(ctx context.Context, seasonID string, day int) error {
	challenge, err := uc.challengeRepo.GetBySeasonDay(ctx, seasonID, day)
	if err != nil {
		return err
	}
	if challenge == nil {
		logger.Warn(ctx).
			Str("season_id", seasonID).
			Int("day", day).
			Msg("No challenge opened for day, skipping scoring")
		return nil
	}

	if _, err := uc.challengeUC.Reveal(ctx, challenge.ChallengeID); err != nil {
		return err
	}
	outcome, err := uc.challengeUC.Score(ctx, challenge.ChallengeID)
	if err != nil {
		return err
	}

	uc.publish(ctx, notifydomain.Event{
		SeasonID: seasonID,
		Type:     string(domain.EventChallengeScored),
		Day:      day,
		Phase:    string(domain.PhaseChallenge),
		At:       time.Now(),
	})

	logger.Info(ctx).
		Str("season_id", seasonID).
		Int("day", day).
		Str("winner_id", outcome.WinnerID).
		Msg("Challenge scored")
	return nil
}

// TallyVotes counts the day's council votes, eliminates the loser and reveals
// the ballots. Zero votes is a fatal logic error surfaced to the caller.
func (uc *ActivityUseCase) TallyVotes(ctx context.Context, seasonID string, day int) error {
	result, err := uc.tallyUC.Tally(ctx, seasonID, day)
	if err != nil {
		return err
	}

	uc.publish(ctx, notifydomain.Event{
		SeasonID: seasonID,
		Type:     string(domain.EventPlayerEliminated),
		Day:      day,
		Phase:    string(domain.PhaseVote),
		At:       time.Now(),
	})

	logger.Info(ctx).
		Str("season_id", seasonID).
		Int("day", day).
		Str("eliminated_id", result.EliminatedID).
		Int("vote_count", result.VoteCount).
		Msg("Votes tallied")
	return nil
}

func (uc *ActivityUseCase) MergeTribes(ctx context.Context, seasonID string) error {
	if _, err := uc.tribeUC.Merge(ctx, seasonID); err != nil {
		return err
	}

	uc.publish(ctx, notifydomain.Event{
		SeasonID: seasonID,
		Type:     string(domain.EventTribesMerged),
		At:       time.Now(),
	})
	return nil
}

// EmitDailySummary aggregates the day into one record. Pieces that are
// missing (no challenge, no votes) leave their fields zeroed rather than
// failing the summary.
func (uc *ActivityUseCase) EmitDailySummary(ctx context.Context, seasonID string, day int) error {
	summary := &domain.DailySummary{
		SeasonID: seasonID,
		Day:      day,
	}

	if challenge, err := uc.challengeRepo.GetBySeasonDay(ctx, seasonID, day); err == nil && challenge != nil {
		if outcome, err := uc.challengeUC.Score(ctx, challenge.ChallengeID); err == nil {
			summary.ChallengeWinnerID = outcome.WinnerID
		}
	}

	if member, err := uc.tribeRepo.GetEliminatedOnDay(ctx, seasonID, day); err == nil && member != nil {
		summary.EliminatedID = member.PlayerID
	}

	if result, err := uc.tallyUC.Tally(ctx, seasonID, day); err == nil {
		summary.VoteCount = result.VoteCount
	} else if !apperr.IsFatal(err) {
		logger.Warn(ctx).Err(err).Int("day", day).Msg("Summary could not read tally")
	}

	if tribes, err := uc.tribeRepo.ListBySeason(ctx, seasonID); err == nil {
		summary.Merged = len(tribes) == 1
	}

	return uc.summaryRepo.Upsert(ctx, summary)
}

func (uc *ActivityUseCase) publish(ctx context.Context, event notifydomain.Event) {
	if err := uc.notifier.Publish(ctx, event); err != nil {
		logger.Warn(ctx).Err(err).Str("event_type", event.Type).Msg("Event publish failed")
	}
}
