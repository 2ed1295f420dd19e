// Package reconstruct loads a replay pair from disk and plays it through an
// event dispatcher. The CLI, the watcher and the HTTP surface share it.
package reconstruct

import (
	"context"
	"fmt"
	"log"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/logreader"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/replay"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/replaydb"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/replayfinder"
	"github.com/IBBoard/bbreplay-sub000/internal/events"
)

// Open loads both halves of a pair and returns a replay ready to iterate.
// Rosters are loaded fresh on every call since a replay moves their players.
func Open(ctx context.Context, pair replayfinder.Pair, opts replay.Options) (*replay.Replay, error) {
	if !pair.Complete() {
		return nil, fmt.Errorf("replay %s has no game log", pair.Name)
	}

	db, err := replaydb.Load(ctx, pair.Replay)
	if err != nil {
		return nil, fmt.Errorf("load replay %s: %w", pair.Name, err)
	}
	batches, err := logreader.ReadFile(pair.Log)
	if err != nil {
		return nil, fmt.Errorf("read game log %s: %w", pair.Name, err)
	}

	if opts.Debug {
		log.Printf("[Reconstruct] %s: %d commands, %d log batches", pair.Name, len(db.Commands), len(batches))
	}
	return replay.New(db.Home, db.Away, db.Commands, batches, opts), nil
}

// Run opens a pair and plays it through the dispatcher. The error is only
// set when the pair could not be loaded; reconstruction failures are
// reported in the summary.
func Run(ctx context.Context, pair replayfinder.Pair, opts replay.Options, d *events.EventDispatcher) (*events.RunFinishedEvent, error) {
	r, err := Open(ctx, pair, opts)
	if err != nil {
		return nil, err
	}
	return events.Play(ctx, pair.Name, r, d), nil
}
