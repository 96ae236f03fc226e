package ws

import (
	"context"
	"encoding/json"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/notify/domain"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
)

// Notifier implements domain.Notifier by broadcasting to the season's
// spectator connections
type Notifier struct {
	hub *Hub
}

// NewNotifier creates a new ws notifier
func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) Publish(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return apperr.Fatalf("marshal event: %v", err)
	}
	n.hub.Broadcast(event.SeasonID, payload)
	return nil
}
