// Package usecase fans season events out to every configured sink.
package usecase

import (
	"context"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/notify/domain"
	"github.com/willsigmon/castaway-council-sub000/pkg/logger"
)

// NotifyUseCase implements domain.Notifier over a set of sinks. A failing
// sink is logged and skipped; the others still receive the event.
type NotifyUseCase struct {
	sinks []domain.Notifier
}

// NewNotifyUseCase creates a fan-out notifier
func NewNotifyUseCase(sinks ...domain.Notifier) *NotifyUseCase {
	return &NotifyUseCase{sinks: sinks}
}

func (uc *NotifyUseCase) Publish(ctx context.Context, event domain.Event) error {
	for _, sink := range uc.sinks {
		if err := sink.Publish(ctx, event); err != nil {
			logger.Warn(ctx).
				Err(err).
				Str("season_id", event.SeasonID).
				Str("event_type", event.Type).
				Msg("Notification sink failed")
		}
	}
	return nil
}
