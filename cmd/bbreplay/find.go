package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/replayfinder"
	"github.com/IBBoard/bbreplay-sub000/internal/config"
	"github.com/IBBoard/bbreplay-sub000/internal/events"
	"github.com/IBBoard/bbreplay-sub000/internal/reconstruct"
)

// gameDir returns the game's replay directory from the flag, the config or
// the platform default, in that order.
func gameDir(cfg *config.Config, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg.Watch.GameDir != "" {
		return cfg.Watch.GameDir
	}
	dir, err := replayfinder.DefaultReplayDir()
	if err != nil {
		log.Fatalf("Failed to find the game's replay directory (set watch.game_dir or -game-dir): %v", err)
	}
	return dir
}

func runFind(args []string) {
	var common commonFlags
	fs := newFlagSet("find", &common)
	source := fs.String("game-dir", "", "Game replay directory (default from config or platform)")
	doCopy := fs.Bool("copy", false, "Copy new replays into the working directory")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse flags: %v", err)
	}
	cfg := common.load()
	src := gameDir(cfg, *source)

	exists, err := replayfinder.DirExists(src)
	if err != nil {
		log.Fatalf("Failed to check %s: %v", src, err)
	}
	if !exists {
		fmt.Printf("Replay directory %s does not exist\n", src)
		os.Exit(1)
	}

	pairs, err := replayfinder.List(src)
	if err != nil {
		log.Fatalf("Failed to list replays: %v", err)
	}
	fmt.Printf("Replays in %s\n", src)
	for _, p := range pairs {
		status := "complete"
		if !p.Complete() {
			status = "no game log"
		}
		fmt.Printf("  %-40s %s  %s\n", p.Name, p.Modified.Format("2006-01-02 15:04"), status)
	}
	fmt.Printf("%d replays\n", len(pairs))

	if !*doCopy {
		return
	}
	copied, err := replayfinder.CopyNew(src, cfg.Replay.Dir)
	if err != nil {
		log.Fatalf("Failed to copy replays: %v", err)
	}
	fmt.Printf("Copied %d new replays to %s\n", len(copied), cfg.Replay.Dir)
}

func runWatch(args []string) {
	var common commonFlags
	fs := newFlagSet("watch", &common)
	source := fs.String("game-dir", "", "Game replay directory (default from config or platform)")
	noReconstruct := fs.Bool("no-reconstruct", false, "Only copy replays")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse flags: %v", err)
	}
	cfg := common.load()
	if *noReconstruct {
		cfg.Watch.Reconstruct = false
	}
	interval, err := cfg.GetPollInterval()
	if err != nil {
		log.Fatalf("Invalid poll interval: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var onReplay func(replayfinder.Pair)
	if cfg.Watch.Reconstruct {
		db := openDB(cfg)
		defer closeDB(db)
		recorder := events.NewRecorderObserver(db.Runs())
		d := events.NewEventDispatcher()
		d.Register(recorder)

		onReplay = func(p replayfinder.Pair) {
			summary, err := reconstruct.Run(ctx, p, replayOptions(cfg), d)
			if err != nil {
				log.Printf("Failed to reconstruct %s: %v", p.Name, err)
				return
			}
			fmt.Printf("%s: %d events, completed=%t, run %s\n",
				p.Name, summary.Events, summary.Completed, recorder.LastRunID())
		}
	}

	watcher, err := replayfinder.NewWatcher(replayfinder.WatcherConfig{
		Source:      gameDir(cfg, *source),
		Destination: cfg.Replay.Dir,
		Interval:    interval,
		OnReplay:    onReplay,
	})
	if err != nil {
		log.Fatalf("Failed to create watcher: %v", err)
	}

	fmt.Println("Watching for new replays. Press Ctrl+C to stop")
	if err := watcher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Watcher stopped: %v", err)
	}
	fmt.Println("Stopped.")
}
