package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes the nature of a persistence change notification.
type EventType int

const (
	// EventDataChanged indicates the database or its write-ahead log was
	// written, possibly by another notebox process.
	EventDataChanged EventType = iota

	// EventInvalidated signals the watcher could not classify a change and
	// callers should reload everything.
	EventInvalidated
)

func (t EventType) String() string {
	switch t {
	case EventDataChanged:
		return "data-changed"
	case EventInvalidated:
		return "invalidated"
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

// Event is emitted by Persistence.Watch when underlying storage changes.
type Event struct {
	Type EventType
	File string
}

// Watch streams change events for the database files until ctx is
// cancelled. Sends never block; events the consumer is not ready for are
// dropped. The channel is closed once ctx is done or the watcher fails.
func (db *DB) Watch(ctx context.Context) (<-chan Event, error) {
	dir, base := filepath.Split(db.path)
	if dir == "" {
		dir = "."
	}
	dir = filepath.Clean(dir)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			_ = watcher.Close()
		})
	}
	if err := watcher.Add(dir); err != nil {
		closeWatcher()
		return nil, fmt.Errorf("store: watch %s: %w", dir, err)
	}

	events := make(chan Event, 64)

	go func() {
		defer close(events)
		defer closeWatcher()

		send := func(ev Event) {
			select {
			case events <- ev:
			default:
			}
		}

		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				throttle.Enqueue(Event{Type: EventInvalidated}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				name := filepath.Base(evt.Name)
				if !isDatabaseFile(base, name) {
					continue
				}
				throttle.Enqueue(Event{Type: EventDataChanged, File: name}, send)
			}
		}
	}()

	return events, nil
}

// isDatabaseFile matches the database and its -wal, -shm and -journal
// companions.
func isDatabaseFile(dbBase, name string) bool {
	if name == dbBase {
		return true
	}
	suffix, ok := strings.CutPrefix(name, dbBase)
	if !ok {
		return false
	}
	switch suffix {
	case "-wal", "-shm", "-journal":
		return true
	}
	return false
}

// eventThrottle coalesces bursts of notifications so the UI reloads once per
// burst of writes instead of on every page flush.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[EventType]map[string]struct{}
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[EventType]map[string]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending[ev.Type] == nil {
		t.pending[ev.Type] = make(map[string]struct{})
	}
	t.pending[ev.Type][ev.File] = struct{}{}

	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
}

// flush sends one event per type. The file of a coalesced event is the
// lexically smallest pending name so repeated bursts report consistently.
func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[EventType]map[string]struct{})
	t.timer = nil
	t.mu.Unlock()

	for eventType, files := range pending {
		first := ""
		for f := range files {
			if first == "" || f < first {
				first = f
			}
		}
		send(Event{Type: eventType, File: first})
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}

func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("store: ensure dir: %w", err)
	}
	return nil
}
