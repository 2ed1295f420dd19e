package events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/replay"
	"github.com/IBBoard/bbreplay-sub000/internal/storage"
)

// LoggingObserver logs all events for debugging purposes.
type LoggingObserver struct {
	name    string
	verbose bool
}

// NewLoggingObserver creates a new observer that logs events.
func NewLoggingObserver(verbose bool) *LoggingObserver {
	return &LoggingObserver{
		name:    "LoggingObserver",
		verbose: verbose,
	}
}

// OnEvent logs the event details.
func (o *LoggingObserver) OnEvent(event Event) error {
	if o.verbose {
		log.Printf("[%s] Event: %s, Data: %+v", o.name, event.Type, event.TypedData)
	} else {
		log.Printf("[%s] Event: %s", o.name, event.Type)
	}
	return nil
}

// GetName returns the observer's name.
func (o *LoggingObserver) GetName() string {
	return o.name
}

// ShouldHandle returns true for all events (logs everything).
func (o *LoggingObserver) ShouldHandle(eventType string) bool {
	return true
}

// PrinterObserver writes one line per replay event.
type PrinterObserver struct {
	name string
	out  io.Writer
}

// NewPrinterObserver creates an observer printing events to out.
func NewPrinterObserver(out io.Writer) *PrinterObserver {
	return &PrinterObserver{name: "PrinterObserver", out: out}
}

// OnEvent prints the event with its half and turn.
func (o *PrinterObserver) OnEvent(event Event) error {
	e, ok := GetTypedData[replay.Event](event)
	if !ok {
		return fmt.Errorf("event %s carries no replay event", event.Type)
	}
	_, err := fmt.Fprintf(o.out, "[H%d T%02d] %s\n", event.Half, event.Turn, Describe(e))
	return err
}

// GetName returns the observer's name.
func (o *PrinterObserver) GetName() string {
	return o.name
}

// ShouldHandle returns true for replay events.
func (o *PrinterObserver) ShouldHandle(eventType string) bool {
	return !IsLifecycle(eventType)
}

// MapObserver redraws the pitch after every event that moves a player or the
// ball.
type MapObserver struct {
	name string
	out  io.Writer
}

// NewMapObserver creates an observer drawing the pitch to out.
func NewMapObserver(out io.Writer) *MapObserver {
	return &MapObserver{name: "MapObserver", out: out}
}

// OnEvent prints the event and, when it changed the board, the pitch.
func (o *MapObserver) OnEvent(event Event) error {
	e, ok := GetTypedData[replay.Event](event)
	if !ok || event.Board == nil {
		return fmt.Errorf("event %s carries no replay event", event.Type)
	}
	if !changesBoard(e) {
		return nil
	}
	_, err := fmt.Fprintf(o.out, "%s\n%s\n", Describe(e), RenderPitch(event.Board))
	return err
}

// GetName returns the observer's name.
func (o *MapObserver) GetName() string {
	return o.name
}

// ShouldHandle returns true for replay events.
func (o *MapObserver) ShouldHandle(eventType string) bool {
	return !IsLifecycle(eventType)
}

// RunStore persists reconstruction runs.
type RunStore interface {
	Create(ctx context.Context, run *storage.Run, events []storage.RunEvent) error
}

// RecorderObserver buffers a run's events and stores them with the run
// summary when the run finishes.
type RecorderObserver struct {
	name  string
	store RunStore

	mu      sync.Mutex
	pending []storage.RunEvent
	lastID  string
}

// NewRecorderObserver creates an observer that records runs into store.
func NewRecorderObserver(store RunStore) *RecorderObserver {
	return &RecorderObserver{name: "RecorderObserver", store: store}
}

// OnEvent buffers replay events and flushes them on run:finished.
func (o *RecorderObserver) OnEvent(event Event) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.Type {
	case TypeRunStarted:
		o.pending = nil
		return nil
	case TypeRunFinished:
		summary, ok := GetTypedData[RunFinishedEvent](event)
		if !ok {
			return fmt.Errorf("run:finished carries no summary")
		}
		run := RunFromSummary(summary)
		ctx := event.Context
		if ctx == nil {
			ctx = context.Background()
		}
		events := o.pending
		o.pending = nil
		if err := o.store.Create(ctx, run, events); err != nil {
			return fmt.Errorf("record run %s: %w", summary.Replay, err)
		}
		o.lastID = run.ID
		log.Printf("[%s] Recorded run %s of %s (%d events)", o.name, run.ID, run.Replay, len(events))
		return nil
	}

	e, ok := GetTypedData[replay.Event](event)
	if !ok {
		return fmt.Errorf("event %s carries no replay event", event.Type)
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", event.Type, err)
	}
	o.pending = append(o.pending, storage.RunEvent{
		Seq:     event.Seq,
		Half:    event.Half,
		Turn:    event.Turn,
		Type:    event.Type,
		Payload: payload,
	})
	return nil
}

// LastRunID returns the id of the most recently stored run.
func (o *RecorderObserver) LastRunID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastID
}

// GetName returns the observer's name.
func (o *RecorderObserver) GetName() string {
	return o.name
}

// ShouldHandle returns true for all events.
func (o *RecorderObserver) ShouldHandle(eventType string) bool {
	return true
}

// RunFromSummary converts a run summary into its stored form.
func RunFromSummary(s RunFinishedEvent) *storage.Run {
	return &storage.Run{
		Replay:            s.Replay,
		HomeTeam:          s.HomeTeam,
		AwayTeam:          s.AwayTeam,
		HomeScore:         s.HomeScore,
		AwayScore:         s.AwayScore,
		Events:            s.Events,
		CommandsTotal:     s.CommandsTotal,
		CommandsRemaining: s.CommandsRemaining,
		EntriesRemaining:  s.EntriesRemaining,
		ErrorKind:         s.ErrorKind,
		ErrorMessage:      s.Error,
		Completed:         s.Completed,
		StartedAt:         s.Started,
		FinishedAt:        s.Finished,
	}
}
