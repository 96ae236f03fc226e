package domain

import (
	"time"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/challenge/fairroll"
)

// Outcome is the persisted result of scoring one challenge. There is at most
// one row per challenge; retried scoring must return the stored row unchanged.
type Outcome struct {
	ID              int64          `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ChallengeID     string         `gorm:"uniqueIndex;type:varchar(64);not null" json:"challenge_id"`
	SubjectType     SubjectType    `gorm:"type:varchar(16);not null" json:"subject_type"`
	PerSubjectTotal map[string]int `gorm:"serializer:json;type:text" json:"per_subject_total"`
	WinnerID        string         `gorm:"type:varchar(64);not null" json:"winner_id"`
	SuddenDeath     bool           `gorm:"default:false" json:"sudden_death"`
	CreatedAt       time.Time      `json:"created_at"`
}

// TableName overrides the table name
func (Outcome) TableName() string {
	return "challenge_outcomes"
}

// AuditSubject is one subject's slice of the published audit record
type AuditSubject struct {
	SubjectID      string  `json:"subject_id"`
	ClientSeedHash string  `json:"client_seed_hash"`
	ClientSeed     *string `json:"client_seed"`
}

// AuditRecord is the complete publishable trail for one challenge: the
// commitment, the (possibly still hidden) seeds and the recomputable results.
type AuditRecord struct {
	ChallengeID    string                `json:"challenge_id"`
	SeedCommitHash string                `json:"seed_commit_hash"`
	ServerSeed     *string               `json:"server_seed"`
	PerSubject     []AuditSubject        `json:"per_subject"`
	Results        []fairroll.RollResult `json:"results"`
}
