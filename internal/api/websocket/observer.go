package websocket

import (
	"log"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/replay"
	"github.com/IBBoard/bbreplay-sub000/internal/events"
)

// WebSocketObserver forwards one replay's events to the hub.
type WebSocketObserver struct {
	name   string
	replay string
	hub    *Hub
}

// NewWebSocketObserver creates an observer publishing the named replay's
// events.
func NewWebSocketObserver(hub *Hub, replayName string) *WebSocketObserver {
	return &WebSocketObserver{
		name:   "WebSocketObserver",
		replay: replayName,
		hub:    hub,
	}
}

// OnEvent publishes the event to subscribed clients.
func (o *WebSocketObserver) OnEvent(event events.Event) error {
	if o.hub == nil {
		log.Printf("[%s] Cannot publish event %s: hub is nil", o.name, event.Type)
		return nil
	}

	msg := Message{
		Type:   event.Type,
		Replay: o.replay,
		Seq:    event.Seq,
		Half:   event.Half,
		Turn:   event.Turn,
		Data:   event.TypedData,
	}
	if e, ok := events.GetTypedData[replay.Event](event); ok {
		msg.Text = events.Describe(e)
	}

	o.hub.Publish(msg)
	return nil
}

// GetName returns the observer's name.
func (o *WebSocketObserver) GetName() string {
	return o.name
}

// ShouldHandle returns true for all events.
func (o *WebSocketObserver) ShouldHandle(eventType string) bool {
	return true
}

var _ events.Observer = (*WebSocketObserver)(nil)
