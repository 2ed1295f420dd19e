package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBBoard/bbreplay-sub000/internal/api"
)

func runServe(args []string) {
	var common commonFlags
	fs := newFlagSet("serve", &common)
	port := fs.Int("port", 0, "API server port (default from config)")
	streamRate := fs.Float64("rate", 0, "Streamed events per second (default from config)")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse flags: %v", err)
	}
	cfg := common.load()
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *streamRate > 0 {
		cfg.Server.StreamRate = *streamRate
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	fmt.Println("bbreplay - REST API Server")
	fmt.Println("==========================")
	fmt.Printf("Database: %s\n", cfg.Storage.Path)
	fmt.Printf("Replays:  %s\n", cfg.Replay.Dir)

	db := openDB(cfg)
	defer closeDB(db)

	server := api.NewServer(&api.Config{
		Port:        cfg.Server.Port,
		ReplayDir:   cfg.Replay.Dir,
		StreamRate:  cfg.Server.StreamRate,
		CORSOrigins: cfg.Server.CORSOrigin,
		Options:     replayOptions(cfg),
	}, db)

	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start API server: %v", err)
	}

	fmt.Println()
	fmt.Printf("API server running at http://localhost:%d\n", server.Port())
	fmt.Println("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println()
	fmt.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	fmt.Println("API server stopped.")
}
