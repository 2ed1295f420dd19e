// Package replay reconciles a match's command stream with its game log and
// produces the typed event timeline of the match.
package replay

import (
	"errors"
	"fmt"
	"iter"
	"log"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/board"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/commands"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/logreader"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/team"
)

// Options tunes a replay run.
type Options struct {
	// Debug logs the driver's decisions.
	Debug bool
	// Validate checks the board invariants after every event.
	Validate bool
}

// errStopped unwinds the driver when the consumer stops iterating.
var errStopped = errors.New("consumer stopped")

// Replay drives one match. It is single use: iterate Events once.
type Replay struct {
	board *board.Board
	cmds  *commands.Cursor
	log   *logreader.Cursor
	opts  Options

	run     func() error
	yield   func(Event, error) bool
	started bool
	emitted int

	lastCommand int
	toss        *logreader.TossEntry
	inOffTurn     bool
	offTurnReason string
	turnChanged   bool
}

// New creates a replay over decoded commands and tokenized log batches.
func New(home, away *team.Team, cmds []commands.Command, batches []logreader.Batch, opts Options) *Replay {
	r := &Replay{
		board:       board.New(home, away),
		cmds:        commands.NewCursor(cmds),
		log:         logreader.NewCursor(batches),
		opts:        opts,
		lastCommand: -1,
	}
	r.run = r.playMatch
	return r
}

// Board returns the live board. Events read it for positions and state.
func (r *Replay) Board() *board.Board {
	return r.board
}

// Remaining returns how many commands and log entries were never consumed.
func (r *Replay) Remaining() (cmds, entries int) {
	return r.cmds.Remaining(), r.log.Remaining()
}

// Commands returns the number of commands the replay covers.
func (r *Replay) Commands() int {
	return r.cmds.Len()
}

// Emitted returns how many events have been produced so far.
func (r *Replay) Emitted() int {
	return r.emitted
}

// Events returns the lazy event stream. A failure ends the stream with a
// single (nil, err) pair.
func (r *Replay) Events() iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		if r.started {
			yield(nil, ErrAlreadyStarted)
			return
		}
		r.started = true
		r.yield = yield
		if err := r.run(); err != nil && !errors.Is(err, errStopped) {
			yield(nil, err)
		}
	}
}

func (r *Replay) emit(e Event) error {
	r.emitted++
	if r.opts.Debug {
		log.Printf("[Replay] %s %+v", e.Type(), e)
	}
	if r.opts.Validate {
		if err := r.board.Validate(); err != nil {
			return r.errorf(ErrValidation, "after %s: %v", e.Type(), err)
		}
	}
	if !r.yield(e, nil) {
		return errStopped
	}
	return nil
}

func (r *Replay) debugf(format string, args ...any) {
	if r.opts.Debug {
		log.Printf("[Replay] "+format, args...)
	}
}

func (r *Replay) errorf(kind error, format string, args ...any) error {
	return &Error{
		Kind:    kind,
		Command: r.lastCommand,
		Batch:   r.log.BatchIndex(),
		Detail:  fmt.Sprintf(format, args...),
	}
}

// nextCommand consumes the next command, which must be a T.
func nextCommand[T commands.Command](r *Replay) (T, error) {
	var zero T
	cmd, ok := r.cmds.Next()
	if !ok {
		return zero, r.errorf(ErrEndOfCommands, "expected %s", commands.Name(zero))
	}
	r.lastCommand = cmd.Info().ID
	c, ok := cmd.(T)
	if !ok {
		return zero, r.errorf(ErrUnexpectedCommand, "expected %s, got %s", commands.Name(zero), commands.Name(cmd))
	}
	return c, nil
}

// peekCommand returns the next command if it is a T.
func peekCommand[T commands.Command](r *Replay) (T, bool) {
	cmd, ok := r.cmds.Peek()
	if !ok {
		var zero T
		return zero, false
	}
	c, ok := cmd.(T)
	return c, ok
}

// takeCommand consumes the next command if it is a T.
func takeCommand[T commands.Command](r *Replay) (T, bool) {
	c, ok := peekCommand[T](r)
	if ok {
		r.cmds.Next()
		r.lastCommand = c.Info().ID
	}
	return c, ok
}

// nextEntry consumes the next log entry, which must be a T.
func nextEntry[T logreader.Entry](r *Replay) (T, error) {
	var zero T
	e, ok := r.log.Next()
	if !ok {
		return zero, r.errorf(ErrEndOfLog, "expected %s", logreader.Name(zero))
	}
	entry, ok := e.(T)
	if !ok {
		return zero, r.errorf(ErrUnexpectedLogEntry, "expected %s, got %s %+v", logreader.Name(zero), logreader.Name(e), e)
	}
	return entry, nil
}

// peekEntry returns the next log entry if it is a T.
func peekEntry[T logreader.Entry](r *Replay) (T, bool) {
	e, ok := r.log.Peek()
	if !ok {
		var zero T
		return zero, false
	}
	entry, ok := e.(T)
	return entry, ok
}

// peekInBatch returns the next log entry if it is a T in the batch being read.
func peekInBatch[T logreader.Entry](r *Replay) (T, bool) {
	e, ok := r.log.PeekInBatch()
	if !ok {
		var zero T
		return zero, false
	}
	entry, ok := e.(T)
	return entry, ok
}

// peekAction returns the next entry if it is the given roll for the player.
func (r *Replay) peekAction(p *team.Player, action rules.ActionType) (*logreader.ActionEntry, bool) {
	e, ok := peekEntry[*logreader.ActionEntry](r)
	if !ok || e.Action != action || !sameActor(p, e.Actor) {
		return nil, false
	}
	return e, true
}

func (r *Replay) player(a commands.Actor) (*team.Player, error) {
	p, err := r.board.Team(a.Team).Player(a.Player)
	if err != nil {
		return nil, r.errorf(ErrInputMismatch, "%v", err)
	}
	return p, nil
}

func (r *Replay) logPlayer(a logreader.Actor) (*team.Player, error) {
	p, err := r.board.Team(a.Team).PlayerByNumber(a.Number)
	if err != nil {
		return nil, r.errorf(ErrInputMismatch, "%v", err)
	}
	return p, nil
}

func sameActor(p *team.Player, a logreader.Actor) bool {
	return p.Team == a.Team && p.Number == a.Number
}

func (r *Replay) checkActor(p *team.Player, a logreader.Actor) error {
	if !sameActor(p, a) {
		return r.errorf(ErrInputMismatch, "command names %s, log names %s #%d", p, a.Team, a.Number)
	}
	return nil
}
