// Package dev supports development mode: it watches the routes tree for
// edited units and notifies connected browsers over a websocket so they can
// reload after a restart picks up the new route table.
package dev

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Change is a detected route unit change.
type Change struct {
	// Path is the changed file.
	Path string
}

// WatcherConfig configures the routes watcher.
type WatcherConfig struct {
	// Dir is the routes directory to watch.
	Dir string

	// Interval is the polling interval (default: 500ms).
	Interval time.Duration
}

// Watcher polls the routes tree for modified, added or removed unit files.
type Watcher struct {
	config     WatcherConfig
	onChange   func(Change)
	mu         sync.Mutex
	running    bool
	stopCh     chan struct{}
	timestamps map[string]time.Time
}

// NewWatcher creates a watcher over the routes directory.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Interval == 0 {
		config.Interval = 500 * time.Millisecond
	}
	return &Watcher{
		config:     config,
		timestamps: make(map[string]time.Time),
	}
}

// OnChange sets the callback invoked for each detected change.
func (w *Watcher) OnChange(fn func(Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start polls until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.mu.Unlock()

	w.scan(false)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case <-ticker.C:
			w.scan(true)
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stopCh)
		w.running = false
	}
}

// scan walks the tree and compares modification times against the previous
// pass. With report false it only seeds the timestamp map.
func (w *Watcher) scan(report bool) {
	seen := make(map[string]bool)
	var changes []Change

	filepath.Walk(w.config.Dir, func(p string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(p, ".json") {
			return nil
		}
		seen[p] = true

		w.mu.Lock()
		last, exists := w.timestamps[p]
		w.timestamps[p] = info.ModTime()
		w.mu.Unlock()

		if report && (!exists || info.ModTime().After(last)) {
			changes = append(changes, Change{Path: p})
		}
		return nil
	})

	// Removed units count as changes too.
	w.mu.Lock()
	for p := range w.timestamps {
		if !seen[p] {
			delete(w.timestamps, p)
			if report {
				changes = append(changes, Change{Path: p})
			}
		}
	}
	callback := w.onChange
	w.mu.Unlock()

	if callback == nil {
		return
	}
	for _, c := range changes {
		callback(c)
	}
}
