package events

import (
	"context"
	"time"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/replay"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/rules"
)

// Play drives a replay to the end, dispatching run:started, every replay
// event and run:finished. Cancelling the context stops the replay after the
// event in flight; the summary then carries the context error.
func Play(ctx context.Context, name string, r *replay.Replay, d *EventDispatcher) *RunFinishedEvent {
	b := r.Board()
	summary := &RunFinishedEvent{
		Replay:        name,
		HomeTeam:      b.Team(rules.Home).Name,
		AwayTeam:      b.Team(rules.Away).Name,
		CommandsTotal: r.Commands(),
		Started:       time.Now(),
	}
	d.Dispatch(NewTypedEvent(TypeRunStarted, RunStartedEvent{
		Replay:   name,
		HomeTeam: summary.HomeTeam,
		AwayTeam: summary.AwayTeam,
		Commands: summary.CommandsTotal,
		Started:  summary.Started,
	}, ctx))

	seq := 0
	var last replay.Event
	for e, err := range r.Events() {
		if err != nil {
			summary.Err = err
			break
		}
		d.Dispatch(NewReplayEvent(ctx, seq, e, b))
		seq++
		last = e
		if ctxErr := ctx.Err(); ctxErr != nil {
			summary.Err = ctxErr
			break
		}
	}

	summary.Events = seq
	summary.HomeScore = b.Score(rules.Home)
	summary.AwayScore = b.Score(rules.Away)
	summary.CommandsRemaining, summary.EntriesRemaining = r.Remaining()
	summary.Completed = summary.Err == nil && last != nil && completing(last)
	if summary.Err != nil {
		summary.ErrorKind = replay.KindName(summary.Err)
		summary.Error = summary.Err.Error()
	}
	summary.Finished = time.Now()

	d.Dispatch(NewTypedEvent(TypeRunFinished, *summary, ctx))
	return summary
}

// Collect drains a replay into a slice. The events gathered before a failure
// are returned with the error.
func Collect(r *replay.Replay) ([]replay.Event, error) {
	var out []replay.Event
	for e, err := range r.Events() {
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
	return out, nil
}
