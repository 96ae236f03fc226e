// Package redis publishes season events on redis pub/sub so sibling
// processes (chat relays, push workers) can fan them out further.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/notify/domain"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
)

const channelPrefix = "season_events"

// Publisher implements domain.Notifier on a redis channel per season
type Publisher struct {
	client *redis.Client
}

// NewPublisher creates a new redis publisher
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return apperr.Fatalf("marshal event: %v", err)
	}

	channel := fmt.Sprintf("%s:%s", channelPrefix, event.SeasonID)
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return apperr.Transient(err)
	}
	return nil
}
