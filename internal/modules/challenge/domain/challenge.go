package domain

import (
	"time"
)

// SubjectType distinguishes individual from team challenges
type SubjectType string

const (
	SubjectTypePlayer SubjectType = "player"
	SubjectTypeTribe  SubjectType = "tribe"
)

// Challenge represents one day's contest within a season
type Challenge struct {
	ChallengeID string      `gorm:"primaryKey;type:varchar(64)" json:"challenge_id"`
	SeasonID    string      `gorm:"index:idx_challenges_season_day,unique;type:varchar(64);not null" json:"season_id"`
	Day         int         `gorm:"index:idx_challenges_season_day,unique;not null" json:"day"`
	SubjectType SubjectType `gorm:"type:varchar(16);not null" json:"subject_type"`
	// EncounterID is the deterministic roll input shared by every subject in
	// this challenge.
	EncounterID string `gorm:"type:varchar(128);not null" json:"encounter_id"`
	// TopK is how many individual totals count toward a team score.
	TopK      int       `gorm:"default:0" json:"top_k"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Challenge) TableName() string {
	return "challenges"
}

// IsTeam reports whether the challenge scores tribes rather than players
func (c *Challenge) IsTeam() bool {
	return c.SubjectType == SubjectTypeTribe
}
