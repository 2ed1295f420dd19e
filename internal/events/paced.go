package events

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// PacedObserver delays replay events so a viewer can follow the match.
// Lifecycle events pass straight through.
type PacedObserver struct {
	next    Observer
	limiter *rate.Limiter
	ctx     context.Context
}

// NewPacedObserver wraps next so it sees at most perSecond replay events a
// second. Waiting stops when ctx is cancelled.
func NewPacedObserver(ctx context.Context, next Observer, perSecond float64) *PacedObserver {
	return &PacedObserver{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		ctx:     ctx,
	}
}

// OnEvent waits for the limiter, then forwards the event.
func (o *PacedObserver) OnEvent(event Event) error {
	if !IsLifecycle(event.Type) {
		if err := o.limiter.Wait(o.ctx); err != nil {
			return fmt.Errorf("pace %s: %w", event.Type, err)
		}
	}
	return o.next.OnEvent(event)
}

// GetName returns the wrapped observer's name.
func (o *PacedObserver) GetName() string {
	return "Paced" + o.next.GetName()
}

// ShouldHandle defers to the wrapped observer.
func (o *PacedObserver) ShouldHandle(eventType string) bool {
	return o.next.ShouldHandle(eventType)
}
