package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dial(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + query
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("Expected %d clients, got %d", n, hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func read(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(time.Second)); err != nil {
		t.Fatal(err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	return msg
}

func TestHub_PublishWithoutClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	if !hub.Publish(Message{Type: "Movement", Replay: "a"}) {
		t.Error("Publish on a running hub should succeed")
	}
	if count := hub.ClientCount(); count != 0 {
		t.Errorf("Expected 0 clients, got %d", count)
	}
}

func TestHub_ReplayFilter(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	all := dial(t, server, "")
	onlyA := dial(t, server, "?replay=Match_A")
	onlyB := dial(t, server, "?replay=Match_B")
	waitForClients(t, hub, 3)

	hub.Publish(Message{Type: "Kickoff", Replay: "Match_A", Seq: 6})
	hub.Publish(Message{Type: "Bounce", Replay: "Match_B", Seq: 9})

	if msg := read(t, all); msg.Type != "Kickoff" || msg.Seq != 6 {
		t.Errorf("unfiltered client got %+v first", msg)
	}
	if msg := read(t, all); msg.Type != "Bounce" {
		t.Errorf("unfiltered client got %+v second", msg)
	}
	if msg := read(t, onlyA); msg.Replay != "Match_A" {
		t.Errorf("Match_A client got %+v", msg)
	}
	if msg := read(t, onlyB); msg.Replay != "Match_B" || msg.Type != "Bounce" {
		t.Errorf("Match_B client got %+v", msg)
	}
}

func TestHub_ClientDisconnect(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	conn := dial(t, server, "")
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}

func TestHub_Stop(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	hub.Stop()
	hub.Stop()

	deadline := time.Now().Add(time.Second)
	for !hub.IsStopped() {
		if time.Now().After(deadline) {
			t.Fatal("hub did not stop")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if hub.Publish(Message{Type: "Movement"}) {
		t.Error("Publish after Stop should fail")
	}

	rec := httptest.NewRecorder()
	hub.ServeWs(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 from a stopped hub, got %d", rec.Code)
	}
}
