package replayfinder

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherConfig holds configuration for a Watcher.
type WatcherConfig struct {
	// Source is the game's replay directory.
	Source string

	// Destination is the working directory new replays are copied to.
	Destination string

	// Interval is the backup scan interval in case file events are missed.
	// Default: 5 seconds
	Interval time.Duration

	// OnReplay is called with each newly copied pair.
	OnReplay func(Pair)
}

// Watcher copies replays into a working directory as the game saves them.
type Watcher struct {
	config   WatcherConfig
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a watcher for the configured directories.
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	if config.Source == "" || config.Destination == "" {
		return nil, fmt.Errorf("source and destination directories are required")
	}
	if config.Interval <= 0 {
		config.Interval = 5 * time.Second
	}
	return &Watcher{config: config, stopChan: make(chan struct{})}, nil
}

// Start copies any replays already waiting, then watches the source
// directory until the context is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) (err error) {
	w.scan()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create directory watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := watcher.Add(w.config.Source); err != nil {
		return fmt.Errorf("watch replay directory: %w", err)
	}
	log.Printf("[ReplayWatcher] Watching %s", w.config.Source)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopChan:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename) {
				w.scan()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[ReplayWatcher] Watcher error: %v", err)
		case <-ticker.C:
			w.scan()
		}
	}
}

// Stop ends a running Start.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopChan) })
}

func (w *Watcher) scan() {
	copied, err := CopyNew(w.config.Source, w.config.Destination)
	if err != nil {
		log.Printf("[ReplayWatcher] Copy failed: %v", err)
	}
	for _, p := range copied {
		log.Printf("[ReplayWatcher] Copied %s", p.Name)
		if w.config.OnReplay != nil {
			w.config.OnReplay(p)
		}
	}
}
