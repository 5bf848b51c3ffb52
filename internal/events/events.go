package events

//go:generate mockgen -source=events.go -destination=mock_events.go -package=events

import (
	"context"

	"marketai/internal/models"
)

// Emitter accepts domain events. Emit never fails the caller; delivery is best effort.
type Emitter interface {
	Emit(ctx context.Context, event models.Event)
}

// Publisher delivers one event to an external sink
type Publisher interface {
	Publish(ctx context.Context, event models.Event) error
	Close() error
}

// Nop is an Emitter that discards every event
type Nop struct{}

func (Nop) Emit(context.Context, models.Event) {}
