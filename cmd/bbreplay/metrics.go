package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/replayfinder"
	"github.com/IBBoard/bbreplay-sub000/internal/charts"
	"github.com/IBBoard/bbreplay-sub000/internal/events"
	"github.com/IBBoard/bbreplay-sub000/internal/metrics"
	"github.com/IBBoard/bbreplay-sub000/internal/reconstruct"
	"github.com/IBBoard/bbreplay-sub000/internal/storage"
)

func runMetrics(args []string) {
	var common commonFlags
	fs := newFlagSet("metrics", &common)
	chartPath := fs.String("chart", "", "Write an HTML coverage chart to this path")
	openChart := fs.Bool("open", false, "Open the chart in a browser")
	noStore := fs.Bool("no-store", false, "Do not store runs in the results database")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse flags: %v", err)
	}
	cfg := common.load()
	dir := cfg.Replay.Dir
	if fs.NArg() > 0 {
		dir = fs.Arg(0)
	}

	pairs, err := replayfinder.List(dir)
	if err != nil {
		log.Fatalf("Failed to list replays: %v", err)
	}
	if len(pairs) == 0 {
		fmt.Printf("No replays found in %s\n", dir)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store events.RunStore
	if !*noStore {
		db := openDB(cfg)
		defer closeDB(db)
		store = db.Runs()
	}

	counters := metrics.NewRunMetrics()
	fmt.Printf("%-32s %7s %13s %9s  %s\n", "Replay", "Events", "Commands", "Coverage", "Stopped")
	var runs []*storage.Run
	for _, pair := range pairs {
		if ctx.Err() != nil {
			break
		}
		if !pair.Complete() {
			log.Printf("Warning: %s has no game log, skipping", pair.Name)
			continue
		}

		d := events.NewEventDispatcher()
		d.Register(metrics.NewObserver(counters))
		if store != nil {
			d.Register(events.NewRecorderObserver(store))
		}
		summary, err := reconstruct.Run(ctx, pair, replayOptions(cfg), d)
		if err != nil {
			log.Printf("Warning: %v", err)
			continue
		}

		run := events.RunFromSummary(*summary)
		runs = append(runs, run)
		stopped := "completed"
		if !run.Completed {
			stopped = run.ErrorKind
		}
		fmt.Printf("%-32s %7d %6d/%-6d %8.1f%%  %s\n",
			pair.Name, run.Events, run.CommandsTotal-run.CommandsRemaining, run.CommandsTotal,
			run.Coverage()*100, stopped)
	}

	stats := summarise(runs)
	fmt.Println()
	fmt.Printf("Runs: %d, completed: %d, mean coverage: %.1f%%\n",
		stats.Runs, stats.Completed, stats.MeanCoverage*100)
	for kind, n := range stats.ByErrorKind {
		fmt.Printf("  %s: %d\n", kind, n)
	}
	latency := counters.GetStats().RunLatency
	fmt.Printf("Run time: mean %.1fms, p50 %.1fms, p95 %.1fms, max %.1fms\n",
		latency.Mean, latency.P50, latency.P95, latency.Max)

	if *chartPath == "" || len(runs) == 0 {
		return
	}
	if err := charts.WriteCoverage(*chartPath, runs, stats, charts.DefaultChartConfig()); err != nil {
		log.Fatalf("Failed to write chart: %v", err)
	}
	fmt.Printf("Chart written to %s\n", *chartPath)
	if *openChart {
		if err := charts.OpenInBrowser(*chartPath); err != nil {
			log.Printf("Failed to open browser: %v", err)
		}
	}
}

// summarise aggregates this batch's runs the way the store aggregates all
// of them.
func summarise(runs []*storage.Run) *storage.RunStats {
	stats := &storage.RunStats{ByErrorKind: make(map[string]int)}
	var coverage float64
	for _, run := range runs {
		stats.Runs++
		stats.Events += run.Events
		coverage += run.Coverage()
		if run.Completed {
			stats.Completed++
		}
		if run.ErrorKind != "" {
			stats.ByErrorKind[run.ErrorKind]++
		}
	}
	if stats.Runs > 0 {
		stats.MeanCoverage = coverage / float64(stats.Runs)
	}
	return stats
}
