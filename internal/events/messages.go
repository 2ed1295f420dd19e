package events

import (
	"time"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/replay"
)

// Run lifecycle event types. Every other event type is a replay event name.
const (
	TypeRunStarted  = "run:started"
	TypeRunFinished = "run:finished"
)

// IsLifecycle reports whether an event type is a run lifecycle event rather
// than a replay event.
func IsLifecycle(eventType string) bool {
	return eventType == TypeRunStarted || eventType == TypeRunFinished
}

// RunStartedEvent is the payload for run:started events.
type RunStartedEvent struct {
	Replay   string    `json:"replay"`
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
	Commands int       `json:"commands"`
	Started  time.Time `json:"started"`
}

// RunFinishedEvent is the payload for run:finished events. It describes how
// far the driver got and why it stopped.
type RunFinishedEvent struct {
	Replay            string    `json:"replay"`
	HomeTeam          string    `json:"home_team"`
	AwayTeam          string    `json:"away_team"`
	HomeScore         int       `json:"home_score"`
	AwayScore         int       `json:"away_score"`
	Events            int       `json:"events"`
	CommandsTotal     int       `json:"commands_total"`
	CommandsRemaining int       `json:"commands_remaining"`
	EntriesRemaining  int       `json:"entries_remaining"`
	Completed         bool      `json:"completed"`
	ErrorKind         string    `json:"error_kind,omitempty"`
	Error             string    `json:"error,omitempty"`
	Started           time.Time `json:"started"`
	Finished          time.Time `json:"finished"`

	// Err is the terminating error, nil for a completed match.
	Err error `json:"-"`
}

// completing reports whether an event ends the match timeline.
func completing(e replay.Event) bool {
	switch e.Type() {
	case replay.EventEndMatch, replay.EventAbandonMatch:
		return true
	default:
		return false
	}
}
