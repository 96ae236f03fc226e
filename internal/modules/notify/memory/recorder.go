// Package memory provides an in-memory event recorder for tests.
package memory

import (
	"context"
	"sync"

	"github.com/willsigmon/castaway-council-sub000/internal/modules/notify/domain"
)

// Recorder implements domain.Notifier by keeping every published event
type Recorder struct {
	events []domain.Event
	mu     sync.Mutex
}

// NewRecorder creates a new recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(ctx context.Context, event domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a snapshot of everything published so far
func (r *Recorder) Events() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}
