package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/IBBoard/bbreplay-sub000/internal/storage"
)

func printMigrationUsage() {
	fmt.Println("bbreplay - Database Migration Tool")
	fmt.Println()
	fmt.Println("Usage: bbreplay migrate [options] <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  up              Apply all pending migrations")
	fmt.Println("  down            Roll back the last migration")
	fmt.Println("  status          Show the current version")
	fmt.Println("  force <version> Set the version without running migrations")
	fmt.Println()
}

func printVersion(mgr *storage.MigrationManager) {
	version, dirty, err := mgr.Version()
	if err != nil {
		log.Fatalf("Error getting version: %v", err)
	}
	if dirty {
		fmt.Printf("Current version: %d (dirty - migration failed or interrupted)\n", version)
		fmt.Println("Use 'migrate force <version>' to recover")
		return
	}
	fmt.Printf("Current version: %d\n", version)
}

func runMigrate(args []string) {
	var common commonFlags
	fs := newFlagSet("migrate", &common)
	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse flags: %v", err)
	}
	if fs.NArg() < 1 {
		printMigrationUsage()
		os.Exit(1)
	}
	cfg := common.load()

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
		log.Fatalf("Error creating database directory: %v", err)
	}
	mgr, err := storage.NewMigrationManager(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("Error creating migration manager: %v", err)
	}
	defer func() {
		if err := mgr.Close(); err != nil {
			log.Printf("Error closing migration manager: %v", err)
		}
	}()

	switch command := fs.Arg(0); command {
	case "up":
		fmt.Println("Applying all pending migrations...")
		if err := mgr.Up(); err != nil {
			log.Fatalf("Error applying migrations: %v", err)
		}
		printVersion(mgr)

	case "down":
		fmt.Println("Rolling back last migration...")
		if err := mgr.Down(); err != nil {
			log.Fatalf("Error rolling back migration: %v", err)
		}
		printVersion(mgr)

	case "status", "version":
		printVersion(mgr)

	case "force":
		if fs.NArg() < 2 {
			fmt.Println("Usage: bbreplay migrate force <version>")
			os.Exit(1)
		}
		version, err := strconv.Atoi(fs.Arg(1))
		if err != nil {
			log.Fatalf("Invalid version number: %v", err)
		}
		fmt.Printf("Forcing migration version to %d...\n", version)
		if err := mgr.Force(version); err != nil {
			log.Fatalf("Error forcing version: %v", err)
		}
		fmt.Println("Version forced successfully!")

	default:
		fmt.Printf("Unknown migration command: %s\n\n", command)
		printMigrationUsage()
		os.Exit(1)
	}
}
