package domain

import (
	"context"
	"time"
)

// EventType identifies a season lifecycle event fanned out to players
type EventType string

const (
	EventPhaseOpen        EventType = "phase_open"
	EventChallengeScored  EventType = "challenge_scored"
	EventPlayerEliminated EventType = "player_eliminated"
	EventTribesMerged     EventType = "tribes_merged"
	EventSeasonCompleted  EventType = "season_completed"
	EventSeasonHalted     EventType = "season_halted"
	EventSeasonCancelled  EventType = "season_cancelled"
)

// ActivityGateway is the set of side-effecting operations the orchestrator
// sequences. Delivery is at-least-once: every operation must be idempotent,
// so a replay after a crash or retry converges on the same persisted state.
//
// NotifyPlayers and EmitDailySummary are best-effort; their failures are
// logged and swallowed. ScorePhaseChallenge, TallyVotes and MergeTribes are
// ordering-critical: the orchestrator retries them and halts the season when
// retries are exhausted, because later days depend on their results.
type ActivityGateway interface {
	NotifyPlayers(ctx context.Context, seasonID string, eventType EventType, phase Phase, day int, closesAt time.Time) error
	ScorePhaseChallenge(ctx context.Context, seasonID string, day int) error
	TallyVotes(ctx context.Context, seasonID string, day int) error
	MergeTribes(ctx context.Context, seasonID string) error
	EmitDailySummary(ctx context.Context, seasonID string, day int) error
}
