package events

import (
	"context"
	"time"

	"marketai/internal/clock"
	"marketai/internal/models"
	"marketai/utils"
)

const defaultPublishTimeout = 5 * time.Second

// Dispatcher buffers events and forwards them to a Publisher from a single worker goroutine.
// Events emitted while the buffer is full are dropped with a warning.
type Dispatcher struct {
	publisher      Publisher
	queue          chan models.Event
	clock          clock.Clock
	publishTimeout time.Duration
}

// NewDispatcher creates a dispatcher with room for buffer pending events
func NewDispatcher(publisher Publisher, buffer int, clk clock.Clock) *Dispatcher {
	if buffer <= 0 {
		buffer = 1
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &Dispatcher{
		publisher:      publisher,
		queue:          make(chan models.Event, buffer),
		clock:          clk,
		publishTimeout: defaultPublishTimeout,
	}
}

// Emit queues an event without blocking
func (d *Dispatcher) Emit(_ context.Context, event models.Event) {
	if event.EventID == "" {
		event.EventID = utils.GenerateID()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = d.clock.Now()
	}

	select {
	case d.queue <- event:
	default:
		utils.Warn("events: buffer full, dropping event", map[string]any{
			"event_id":     event.EventID,
			"type":         event.Type,
			"recipient_id": event.RecipientID,
		})
	}
}

// Run forwards queued events until ctx is cancelled, then flushes what is still buffered.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			d.drain()
			return nil
		case event := <-d.queue:
			d.publish(ctx, event)
		}
	}
}

// Pending returns the number of buffered events
func (d *Dispatcher) Pending() int {
	return len(d.queue)
}

func (d *Dispatcher) drain() {
	for {
		select {
		case event := <-d.queue:
			d.publish(context.Background(), event)
		default:
			return
		}
	}
}

func (d *Dispatcher) publish(ctx context.Context, event models.Event) {
	pctx, cancel := context.WithTimeout(ctx, d.publishTimeout)
	defer cancel()

	if err := d.publisher.Publish(pctx, event); err != nil {
		utils.Error("events: publish failed", map[string]any{
			"event_id":     event.EventID,
			"type":         event.Type,
			"recipient_id": event.RecipientID,
			"error":        err.Error(),
		})
		return
	}
	utils.Debug("events: published", map[string]any{"event_id": event.EventID, "type": event.Type})
}
