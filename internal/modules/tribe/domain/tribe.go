package domain

import (
	"time"
)

// Tribe is a team of castaways within a season
type Tribe struct {
	TribeID   string    `gorm:"primaryKey;type:varchar(64)" json:"tribe_id"`
	SeasonID  string    `gorm:"index;type:varchar(64);not null" json:"season_id"`
	Name      string    `gorm:"type:varchar(64);not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name
func (Tribe) TableName() string {
	return "tribes"
}

// Member is one castaway's membership in a tribe. Elimination is recorded
// here rather than deleting the row, so vote eligibility and audit history
// survive the season.
type Member struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	SeasonID      string    `gorm:"index;type:varchar(64);not null" json:"season_id"`
	TribeID       string    `gorm:"index;type:varchar(64);not null" json:"tribe_id"`
	PlayerID      string    `gorm:"index;type:varchar(64);not null" json:"player_id"`
	Eliminated    bool      `gorm:"default:false" json:"eliminated"`
	EliminatedDay int       `gorm:"default:0" json:"eliminated_day"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Member) TableName() string {
	return "tribe_members"
}
