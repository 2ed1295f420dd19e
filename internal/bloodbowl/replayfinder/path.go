// Package replayfinder locates Blood Bowl 2 replays, pairs them with their
// text logs, copies new ones into a working directory and watches the game's
// replay directory for more.
package replayfinder

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DefaultReplayDir returns the directory the game saves replays to on the
// current platform.
func DefaultReplayDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get user home directory: %w", err)
	}

	switch runtime.GOOS {
	case "windows":
		// C:\Users\{username}\Documents\BloodBowl2\Replays
		return filepath.Join(home, "Documents", "BloodBowl2", "Replays"), nil
	case "darwin":
		// ~/Library/Application Support/BloodBowl2/Replays
		return filepath.Join(home, "Library", "Application Support", "BloodBowl2", "Replays"), nil
	default:
		return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// DirExists reports whether path is an existing directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat replay directory: %w", err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("path is a file, not a directory")
	}
	return true, nil
}
