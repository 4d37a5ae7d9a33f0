package filterstate

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/n-forsell/apicov-dashboard-tui/internal/logger"
)

// DebounceDelay is the trailing-edge settle window for filter updates. A
// burst of updates inside the window collapses into one propagation carrying
// the last update's state.
const DebounceDelay = 300 * time.Millisecond

// Partial is a partial filter update; nil fields keep their current value.
type Partial struct {
	Coverage *[2]int
	Usage    *Class
	Search   *string
}

// Store holds the current FilterState and mirrors every settled state into a
// view-state file as a query string, so a filter setup survives the session
// and can be shared between instances. External edits to the file are picked
// up through a filesystem watcher and propagated like a local update.
type Store struct {
	mu       sync.Mutex
	current  FilterState
	path     string
	delay    time.Duration
	timer    *time.Timer
	events   chan FilterState
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	// lastWritten suppresses watcher echoes of our own persists.
	lastWritten string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithDebounce overrides the settle window. Used by tests.
func WithDebounce(d time.Duration) StoreOption {
	return func(s *Store) {
		if d > 0 {
			s.delay = d
		}
	}
}

// NewStore creates a store whose initial state is parsed from the view-state
// file at path, falling back to defaults when the file is missing or
// malformed. An empty path disables persistence and watching.
func NewStore(path string, opts ...StoreOption) (*Store, error) {
	s := &Store{
		current:  Default(),
		path:     path,
		delay:    DebounceDelay,
		events:   make(chan FilterState, 16),
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if path == "" {
		return s, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	if raw, err := os.ReadFile(path); err == nil {
		s.current = ParseQuery(string(raw))
		s.lastWritten = string(raw)
	}

	if err := s.startWatcher(); err != nil {
		logger.Warn("view-state watcher disabled", "error", err)
	}

	return s, nil
}

// Read returns the current filters.
func (s *Store) Read() FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Events delivers one FilterState per settled propagation.
func (s *Store) Events() <-chan FilterState {
	return s.events
}

// Update merges p into the current state and schedules a debounced
// propagation. Only the trailing call of a rapid burst fires, carrying the
// state as of that call.
func (s *Store) Update(p Partial) {
	s.mu.Lock()
	if p.Coverage != nil {
		s.current.Coverage = *p.Coverage
	}
	if p.Usage != nil {
		s.current.Usage = *p.Usage
	}
	if p.Search != nil {
		s.current.Search = *p.Search
	}

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.settle)
	s.mu.Unlock()
}

// Reset restores the defaults and propagates immediately, cancelling any
// pending debounced update.
func (s *Store) Reset() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.current = Default()
	s.mu.Unlock()

	s.settle()
}

// Flush fires a pending debounced propagation now. No-op when nothing is
// pending.
func (s *Store) Flush() {
	s.mu.Lock()
	pending := s.timer != nil && s.timer.Stop()
	s.timer = nil
	s.mu.Unlock()

	if pending {
		s.settle()
	}
}

// settle snapshots the state at fire time, rewrites the view-state file and
// emits the snapshot. The snapshot is taken under the lock so the propagated
// value is exactly the state the last update produced, not a live reference.
func (s *Store) settle() {
	s.mu.Lock()
	s.timer = nil
	snapshot := s.current
	s.mu.Unlock()

	s.persist(snapshot)

	select {
	case s.events <- snapshot:
	default:
		logger.Warn("filter event dropped, consumer lagging")
	}
}

// persist rewrites (never appends) the view-state file with the encoded
// snapshot, mirroring replace-not-push history semantics.
func (s *Store) persist(f FilterState) {
	if s.path == "" {
		return
	}

	encoded := f.Encode()

	s.mu.Lock()
	s.lastWritten = encoded
	s.mu.Unlock()

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(encoded), 0o640); err != nil {
		logger.Error("failed to write view state", "path", s.path, "error", err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		logger.Error("failed to replace view state", "path", s.path, "error", err)
	}
}

// startWatcher watches the state file's directory so externally shared filter
// setups (another instance, a hand-edited file) are picked up live.
func (s *Store) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}
	s.watcher = watcher

	go s.watchLoop()
	return nil
}

func (s *Store) watchLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(s.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				s.handleExternalChange()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("view-state watcher error", "error", err)

		case <-s.stopChan:
			return
		}
	}
}

func (s *Store) handleExternalChange() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return
	}

	s.mu.Lock()
	if string(raw) == s.lastWritten {
		s.mu.Unlock()
		return
	}
	s.current = ParseQuery(string(raw))
	s.lastWritten = string(raw)
	snapshot := s.current
	s.mu.Unlock()

	select {
	case s.events <- snapshot:
	default:
	}
}

// Close persists any pending debounced update and stops the watcher. Without
// the flush a filter change made just before quitting would never reach the
// view-state file.
func (s *Store) Close() error {
	s.Flush()

	close(s.stopChan)
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
