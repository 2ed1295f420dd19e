package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/pitch"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/replay"
	"github.com/IBBoard/bbreplay-sub000/internal/events"
)

func TestWebSocketObserver_NilHub(t *testing.T) {
	observer := NewWebSocketObserver(nil, "Match_A")
	if err := observer.OnEvent(events.Event{Type: "Bounce"}); err != nil {
		t.Errorf("OnEvent with nil hub returned %v", err)
	}
	if observer.GetName() != "WebSocketObserver" {
		t.Errorf("GetName() = %q", observer.GetName())
	}
	for _, eventType := range []string{"Bounce", events.TypeRunStarted, events.TypeRunFinished} {
		if !observer.ShouldHandle(eventType) {
			t.Errorf("Expected ShouldHandle(%s) to be true", eventType)
		}
	}
}

func TestWebSocketObserver_ForwardsEvents(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()
	conn := dial(t, server, "?replay=Match_A")
	waitForClients(t, hub, 1)

	d := events.NewEventDispatcher()
	d.Register(NewWebSocketObserver(hub, "Match_A"))

	bounce := &replay.Bounce{From: pitch.Position{X: 7, Y: 7}, To: pitch.Position{X: 8, Y: 7}, Direction: pitch.East}
	d.Dispatch(events.Event{Type: "Bounce", Seq: 9, Half: 1, Turn: 1, TypedData: bounce})
	d.Dispatch(events.NewTypedEvent(events.TypeRunFinished, events.RunFinishedEvent{Replay: "Match_A", Completed: true}, context.Background()))

	msg := read(t, conn)
	if msg.Type != "Bounce" || msg.Seq != 9 || msg.Replay != "Match_A" || msg.Half != 1 {
		t.Errorf("unexpected message %+v", msg)
	}
	if msg.Text != events.Describe(bounce) {
		t.Errorf("Text = %q, want %q", msg.Text, events.Describe(bounce))
	}

	msg = read(t, conn)
	if msg.Type != events.TypeRunFinished {
		t.Errorf("Type = %q, want %q", msg.Type, events.TypeRunFinished)
	}
	data, ok := msg.Data.(map[string]any)
	if !ok || data["completed"] != true {
		t.Errorf("run summary data = %v", msg.Data)
	}
}
