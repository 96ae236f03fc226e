package domain

import (
	"time"
)

// Status is the lifecycle state of a season
type Status string

const (
	StatusPlanned   Status = "planned"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusHalted    Status = "halted"
	StatusCancelled Status = "cancelled"
)

// Phase is a timed daily window within a season day
type Phase string

const (
	PhaseNone      Phase = ""
	PhaseCamp      Phase = "camp"
	PhaseChallenge Phase = "challenge"
	PhaseVote      Phase = "vote"
)

// Season is the persisted orchestration state. The orchestrator writes
// {DayIndex, CurrentPhase, PhaseEndsAt} before every suspension, so a restart
// resumes from the last recorded transition instead of replaying the season.
type Season struct {
	SeasonID     string     `gorm:"primaryKey;type:varchar(64)" json:"season_id"`
	Mode         string     `gorm:"type:varchar(32);not null" json:"mode"`
	DayIndex     int        `gorm:"default:0" json:"day_index"`
	CurrentPhase Phase      `gorm:"type:varchar(16)" json:"current_phase"`
	PhaseEndsAt  *time.Time `json:"phase_ends_at"`
	Status       Status     `gorm:"index;type:varchar(16);not null" json:"status"`
	TotalDays    int        `gorm:"not null" json:"total_days"`
	MergeDay     int        `gorm:"not null" json:"merge_day"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName overrides the table name
func (Season) TableName() string {
	return "seasons"
}

// Clone returns an independent copy. The orchestrator mutates its working
// copy in place, so anything handed to a caller must not share memory with it.
func (s *Season) Clone() *Season {
	clone := *s
	if s.PhaseEndsAt != nil {
		endsAt := *s.PhaseEndsAt
		clone.PhaseEndsAt = &endsAt
	}
	return &clone
}

// InProgress reports whether the orchestrator may still advance this season
func (s *Season) InProgress() bool {
	return s.Status == StatusPlanned || s.Status == StatusRunning
}

// Terminal reports whether the season reached a final state
func (s *Season) Terminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusHalted || s.Status == StatusCancelled
}
