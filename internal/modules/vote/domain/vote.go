package domain

import (
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Vote is one castaway's tribal-council ballot. Votes are write-once until
// tally; RevealedAt flips exactly once, at tally time, never earlier.
type Vote struct {
	VoteID     int64      `gorm:"primaryKey;autoIncrement:false" json:"vote_id"`
	SeasonID   string     `gorm:"index:idx_votes_season_day;type:varchar(64);not null" json:"season_id"`
	Day        int        `gorm:"index:idx_votes_season_day;not null" json:"day"`
	VoterID    string     `gorm:"type:varchar(64);not null" json:"voter_id"`
	TargetID   string     `gorm:"type:varchar(64);not null" json:"target_id"`
	IdolPlayed bool       `gorm:"default:false" json:"idol_played"`
	CreatedAt  time.Time  `json:"created_at"`
	RevealedAt *time.Time `json:"revealed_at"`
}

// TableName overrides the table name
func (Vote) TableName() string {
	return "votes"
}

var (
	node *snowflake.Node
	once sync.Once
)

func initSnowflake() {
	var err error
	node, err = snowflake.NewNode(2)
	if err != nil {
		panic(err)
	}
}

// NewVote creates a new unrevealed vote
func NewVote(seasonID string, day int, voterID, targetID string, idolPlayed bool) *Vote {
	once.Do(initSnowflake)
	return &Vote{
		VoteID:     node.Generate().Int64(),
		SeasonID:   seasonID,
		Day:        day,
		VoterID:    voterID,
		TargetID:   targetID,
		IdolPlayed: idolPlayed,
		CreatedAt:  time.Now(),
	}
}

// TieBreakPolicy decides how a tied tally resolves
type TieBreakPolicy string

const (
	TieBreakRevote     TieBreakPolicy = "revote"
	TieBreakDuel       TieBreakPolicy = "duel"
	TieBreakRandom     TieBreakPolicy = "random"
	TieBreakFixedOrder TieBreakPolicy = "fixed_order"
)

// TallyResult is the outcome of counting one day's votes. When the maximum is
// tied, Tied lists every tied target in first-vote order so the caller can
// apply the configured tie-break; EliminatedID is only set once the tie (if
// any) is resolved.
type TallyResult struct {
	EliminatedID string         `json:"eliminated_id"`
	Counts       map[string]int `json:"counts"`
	Tied         []string       `json:"tied"`
	TieBroken    bool           `json:"tie_broken"`
	VoteCount    int            `json:"vote_count"`
}
