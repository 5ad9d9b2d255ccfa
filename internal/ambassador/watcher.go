package ambassador

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"refurrm/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// RosterWatcher watches the roster YAML file for changes and reloads
// the directory when the file settles. Editors often write a file in
// several bursts, so events are debounced.
type RosterWatcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	directory   *Directory
	rosterPath  string
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	stats RosterWatcherStats
}

// RosterWatcherStats tracks watcher activity for debugging.
type RosterWatcherStats struct {
	Reloads       int
	ReloadErrors  int
	LastEventTime time.Time
}

// NewRosterWatcher creates a watcher for the given roster file.
func NewRosterWatcher(rosterPath string, directory *Directory) (*RosterWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &RosterWatcher{
		watcher:     watcher,
		directory:   directory,
		rosterPath:  rosterPath,
		debounceMap: make(map[string]time.Time),
		debounceDur: 500 * time.Millisecond, // Debounce rapid saves
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the watcher runs in a
// goroutine until Stop or context cancellation.
func (rw *RosterWatcher) Start(ctx context.Context) error {
	rw.mu.Lock()
	if rw.running {
		rw.mu.Unlock()
		return nil // Already running
	}
	rw.running = true
	rw.mu.Unlock()

	// Watch the containing directory: editors replace files via
	// rename, which drops a watch on the file itself.
	dir := filepath.Dir(rw.rosterPath)
	if err := rw.watcher.Add(dir); err != nil {
		return err
	}
	logging.Matcher("RosterWatcher: watching %s", dir)

	go rw.run(ctx)
	return nil
}

// Stop stops the watcher and waits for cleanup.
func (rw *RosterWatcher) Stop() {
	rw.mu.Lock()
	if !rw.running {
		rw.mu.Unlock()
		return
	}
	rw.running = false
	rw.mu.Unlock()

	close(rw.stopCh)
	<-rw.doneCh

	if err := rw.watcher.Close(); err != nil {
		logging.Get(logging.CategoryMatcher).Error("RosterWatcher: error closing watcher: %v", err)
	}
	logging.Matcher("RosterWatcher: stopped")
}

// Stats returns a snapshot of watcher activity.
func (rw *RosterWatcher) Stats() RosterWatcherStats {
	rw.mu.RLock()
	defer rw.mu.RUnlock()
	return rw.stats
}

func (rw *RosterWatcher) run(ctx context.Context) {
	defer close(rw.doneCh)

	debounceTicker := time.NewTicker(100 * time.Millisecond)
	defer debounceTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-rw.stopCh:
			return

		case event, ok := <-rw.watcher.Events:
			if !ok {
				return
			}
			rw.handleEvent(event)

		case err, ok := <-rw.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryMatcher).Error("RosterWatcher error: %v", err)

		case <-debounceTicker.C:
			rw.processDebouncedEvents()
		}
	}
}

func (rw *RosterWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != filepath.Clean(rw.rosterPath) {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return // Ignore chmod, remove
	}

	logging.MatcherDebug("RosterWatcher: %s event for %s", event.Op, event.Name)

	rw.mu.Lock()
	rw.stats.LastEventTime = time.Now()
	rw.debounceMap[event.Name] = time.Now()
	rw.mu.Unlock()
}

func (rw *RosterWatcher) processDebouncedEvents() {
	rw.mu.Lock()
	now := time.Now()
	settled := false
	for path, eventTime := range rw.debounceMap {
		if now.Sub(eventTime) >= rw.debounceDur {
			delete(rw.debounceMap, path)
			settled = true
		}
	}
	rw.mu.Unlock()

	if !settled {
		return
	}

	roster, err := LoadRoster(rw.rosterPath)
	if err != nil {
		logging.Get(logging.CategoryMatcher).Error("RosterWatcher: reload failed: %v", err)
		rw.mu.Lock()
		rw.stats.ReloadErrors++
		rw.mu.Unlock()
		return
	}

	rw.directory.Replace(roster)
	rw.mu.Lock()
	rw.stats.Reloads++
	rw.mu.Unlock()
	logging.Matcher("RosterWatcher: reloaded %d ambassadors", len(roster))
}
