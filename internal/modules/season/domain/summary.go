package domain

import (
	"context"
	"time"
)

// DailySummary aggregates one season day's events into a single record
type DailySummary struct {
	ID                int64     `gorm:"primaryKey" json:"id"`
	SeasonID          string    `gorm:"index:idx_summaries_season_day,unique;type:varchar(64);not null" json:"season_id"`
	Day               int       `gorm:"index:idx_summaries_season_day,unique;not null" json:"day"`
	ChallengeWinnerID string    `gorm:"type:varchar(64)" json:"challenge_winner_id"`
	EliminatedID      string    `gorm:"type:varchar(64)" json:"eliminated_id"`
	VoteCount         int       `gorm:"default:0" json:"vote_count"`
	Merged            bool      `gorm:"default:false" json:"merged"`
	CreatedAt         time.Time `json:"created_at"`
}

// TableName overrides the table name
func (DailySummary) TableName() string {
	return "daily_summaries"
}

// SummaryRepository defines the interface for daily summary persistence
type SummaryRepository interface {
	// Upsert writes the summary for (seasonID, day), replacing any earlier
	// attempt for the same day.
	Upsert(ctx context.Context, summary *DailySummary) error
	GetBySeasonDay(ctx context.Context, seasonID string, day int) (*DailySummary, error)
}
