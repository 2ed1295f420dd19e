// Command bbreplay reconstructs Blood Bowl 2 replays into event timelines.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/replay"
	"github.com/IBBoard/bbreplay-sub000/internal/bloodbowl/replayfinder"
	"github.com/IBBoard/bbreplay-sub000/internal/config"
	"github.com/IBBoard/bbreplay-sub000/internal/storage"
	"github.com/IBBoard/bbreplay-sub000/internal/version"
)

type command struct {
	name    string
	summary string
	run     func(args []string)
}

var commands = []command{
	{"dump", "Print every event of a replay", runDump},
	{"map", "Draw the pitch after every event that moves a player or the ball", runMap},
	{"metrics", "Reconstruct every replay in a directory and report coverage", runMetrics},
	{"find", "List replays in the game directory and copy new ones", runFind},
	{"watch", "Copy and reconstruct replays as the game saves them", runWatch},
	{"serve", "Serve stored runs and live streams over HTTP", runServe},
	{"migrate", "Run results database migrations", runMigrate},
	{"sample", "Write a short sample replay pair", runSample},
	{"version", "Print the version", func([]string) { fmt.Println(version.UserAgent()) }},
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	name := os.Args[1]
	for _, c := range commands {
		if c.name == name {
			c.run(os.Args[2:])
			return
		}
	}
	if name != "help" && name != "-h" && name != "--help" {
		fmt.Printf("Unknown command: %s\n\n", name)
	}
	printUsage()
	if name != "help" {
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("bbreplay - Blood Bowl 2 replay reconstruction")
	fmt.Println()
	fmt.Println("Usage: bbreplay <command> [options] [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	for _, c := range commands {
		fmt.Printf("  %-9s %s\n", c.name, c.summary)
	}
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  bbreplay sample")
	fmt.Println("  bbreplay dump -rate 5 Sample")
	fmt.Println("  bbreplay metrics -chart coverage.html ~/replays")
	fmt.Println("  bbreplay serve -port 8080")
	fmt.Println()
}

// commonFlags are accepted by every command that reads replays.
type commonFlags struct {
	configPath string
	debug      bool
	debugShort bool
	validate   bool
	dir        string
}

func newFlagSet(name string, common *commonFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.StringVar(&common.configPath, "config", "", "Path to config.toml (default: ~/.bbreplay/config.toml)")
	fs.BoolVar(&common.debug, "debug-mode", false, "Enable verbose debug logging")
	fs.BoolVar(&common.debugShort, "d", false, "Enable debug logging (shorthand for -debug-mode)")
	fs.BoolVar(&common.validate, "validate", false, "Check board invariants after every event")
	fs.StringVar(&common.dir, "dir", "", "Working replay directory (default from config)")
	return fs
}

// load reads the config and lets flags that were set override it.
func (c *commonFlags) load() *config.Config {
	var cfg *config.Config
	var err error
	if c.configPath != "" {
		cfg, err = config.LoadFile(c.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if c.debug || c.debugShort {
		cfg.App.DebugMode = true
	}
	if c.validate {
		cfg.Replay.Validate = true
	}
	if c.dir != "" {
		cfg.Replay.Dir = c.dir
	}
	return cfg
}

func replayOptions(cfg *config.Config) replay.Options {
	return replay.Options{Debug: cfg.App.DebugMode, Validate: cfg.Replay.Validate}
}

func openDB(cfg *config.Config) *storage.DB {
	dbConfig := storage.DefaultConfig(cfg.Storage.Path)
	dbConfig.AutoMigrate = cfg.Storage.AutoMigrate
	if timeout, err := cfg.GetBusyTimeout(); err == nil {
		dbConfig.BusyTimeout = timeout
	}
	db, err := storage.Open(dbConfig)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	return db
}

func closeDB(db *storage.DB) {
	if err := db.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}

// resolvePair accepts a replay name in the working directory or a path to
// either half of a pair.
func resolvePair(cfg *config.Config, arg string) replayfinder.Pair {
	dir, name := cfg.Replay.Dir, arg
	if ext := filepath.Ext(arg); ext != "" || strings.ContainsRune(arg, os.PathSeparator) {
		dir = filepath.Dir(arg)
		name = strings.TrimSuffix(filepath.Base(arg), ext)
	}
	pair, err := replayfinder.Find(dir, name)
	if err != nil {
		log.Fatalf("Failed to find replay: %v", err)
	}
	if !pair.Complete() {
		log.Fatalf("Replay %s has no game log next to it", pair.Name)
	}
	return pair
}
