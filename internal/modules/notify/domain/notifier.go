// Package domain defines the notification contract shared by the season
// orchestrator and the delivery sinks.
package domain

import (
	"context"
	"time"
)

// Event is a season lifecycle announcement fanned out to players and
// spectators. Delivery is best-effort; no consumer may depend on receiving
// every event.
type Event struct {
	SeasonID string     `json:"season_id"`
	Type     string     `json:"type"`
	Day      int        `json:"day,omitempty"`
	Phase    string     `json:"phase,omitempty"`
	ClosesAt *time.Time `json:"closes_at,omitempty"`
	At       time.Time  `json:"at"`
}

// Notifier delivers season events to one sink
type Notifier interface {
	Publish(ctx context.Context, event Event) error
}
