package domain

import (
	"time"
)

// SeedRecord holds the commit-reveal material for one challenge. The commit
// hash is fixed before the challenge window closes; ServerSeed stays nil
// until reveal and must never change afterward, or every past verification
// of this challenge breaks.
type SeedRecord struct {
	ChallengeID    string     `gorm:"primaryKey;type:varchar(64)" json:"challenge_id"`
	SeedCommitHash string     `gorm:"type:varchar(64);not null" json:"seed_commit_hash"`
	ServerSeed     *string    `gorm:"type:varchar(128)" json:"server_seed"`
	RevealedAt     *time.Time `json:"revealed_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName overrides the table name
func (SeedRecord) TableName() string {
	return "challenge_seeds"
}

// Revealed reports whether the server seed has been published
func (s *SeedRecord) Revealed() bool {
	return s.ServerSeed != nil
}

// SubjectSeed is one subject's entry in a challenge: its client-seed
// commitment plus the scoring modifiers captured when the entry was locked.
// ClientSeed stays nil until the challenge-wide reveal.
type SubjectSeed struct {
	ID               int64    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ChallengeID      string   `gorm:"index:idx_subject_seeds_challenge;type:varchar(64);not null" json:"challenge_id"`
	SubjectID        string   `gorm:"type:varchar(64);not null" json:"subject_id"`
	TribeID          string   `gorm:"type:varchar(64)" json:"tribe_id"`
	ClientSeedHash   string   `gorm:"type:varchar(64);not null" json:"client_seed_hash"`
	ClientSeed       *string  `gorm:"type:varchar(128)" json:"client_seed"`
	Energy           int      `gorm:"default:0" json:"energy"`
	ItemBonus        int      `gorm:"default:0" json:"item_bonus"`
	EventBonus       int      `gorm:"default:0" json:"event_bonus"`
	ArchetypeBonus   int      `gorm:"default:0" json:"archetype_bonus"`
	DebuffResistance float64  `gorm:"default:0" json:"debuff_resistance"`
	Debuffs          []string `gorm:"serializer:json;type:text" json:"debuffs"`
}

// TableName overrides the table name
func (SubjectSeed) TableName() string {
	return "challenge_subject_seeds"
}
