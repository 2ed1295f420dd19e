package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/IBBoard/bbreplay-sub000/internal/events"
	"github.com/IBBoard/bbreplay-sub000/internal/reconstruct"
)

func runDump(args []string) {
	play("dump", args, func() events.Observer {
		return events.NewPrinterObserver(os.Stdout)
	})
}

func runMap(args []string) {
	play("map", args, func() events.Observer {
		return events.NewMapObserver(os.Stdout)
	})
}

// play reconstructs one replay through the observer built by render. A
// reconstruction error is reported and exits non-zero.
func play(name string, args []string, render func() events.Observer) {
	var common commonFlags
	fs := newFlagSet(name, &common)
	rate := fs.Float64("rate", 0, "Events per second (0 = as fast as possible)")
	record := fs.Bool("record", false, "Store the run in the results database")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse flags: %v", err)
	}
	if fs.NArg() != 1 {
		fmt.Printf("Usage: bbreplay %s [options] <replay name or path>\n", name)
		os.Exit(1)
	}

	cfg := common.load()
	pair := resolvePair(cfg, fs.Arg(0))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := events.NewEventDispatcher()
	if cfg.App.DebugMode {
		d.Register(events.NewLoggingObserver(true))
	}
	observer := render()
	if *rate > 0 {
		observer = events.NewPacedObserver(ctx, observer, *rate)
	}
	d.Register(observer)

	if *record {
		db := openDB(cfg)
		defer closeDB(db)
		d.Register(events.NewRecorderObserver(db.Runs()))
	}

	summary, err := reconstruct.Run(ctx, pair, replayOptions(cfg), d)
	if err != nil {
		log.Fatalf("Failed to open replay: %v", err)
	}

	fmt.Println()
	fmt.Printf("%s %d - %d %s\n", summary.HomeTeam, summary.HomeScore, summary.AwayScore, summary.AwayTeam)
	fmt.Printf("%d events, %d/%d commands consumed\n",
		summary.Events, summary.CommandsTotal-summary.CommandsRemaining, summary.CommandsTotal)
	if summary.Err != nil {
		fmt.Printf("Stopped (%s): %v\n", summary.ErrorKind, summary.Err)
		os.Exit(2)
	}
}

func runSample(args []string) {
	var common commonFlags
	fs := newFlagSet("sample", &common)
	name := fs.String("name", "Sample", "Replay name")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse flags: %v", err)
	}
	cfg := common.load()

	pair, err := reconstruct.WriteSample(context.Background(), cfg.Replay.Dir, *name)
	if err != nil {
		log.Fatalf("Failed to write sample: %v", err)
	}
	fmt.Printf("Wrote %s\n", pair.Replay)
	fmt.Printf("Wrote %s\n", pair.Log)
	fmt.Printf("Try: bbreplay dump -dir %s %s\n", cfg.Replay.Dir, pair.Name)
}
