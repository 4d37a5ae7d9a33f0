// Package daterange holds the process-wide selected date range shared by
// every data-fetching tab.
package daterange

import (
	"sync"
	"time"
)

// DateFormat is the wire and display format for calendar days.
const DateFormat = "2006-01-02"

// Range is an inclusive start/end pair of calendar days.
type Range struct {
	Start string
	End   string
}

// Default returns today through tomorrow in local time.
func Default() Range {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	return Range{
		Start: today.Format(DateFormat),
		End:   today.AddDate(0, 0, 1).Format(DateFormat),
	}
}

// Enumerate returns every calendar day in r, inclusive of both endpoints and
// ascending. Day stepping uses calendar arithmetic rather than elapsed hours
// so the sequence stays correct across daylight-saving transitions. An
// inverted or unparseable range yields nil.
func Enumerate(r Range) []string {
	start, err := time.ParseInLocation(DateFormat, r.Start, time.Local)
	if err != nil {
		return nil
	}
	end, err := time.ParseInLocation(DateFormat, r.End, time.Local)
	if err != nil {
		return nil
	}
	if end.Before(start) {
		return nil
	}

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateFormat))
	}
	return dates
}

// Change is a range update delivered to subscribers. Generation is the
// store's counter at the moment the range was set, so a consumer can tell
// whether a fetch it dispatched for this range has since been superseded.
type Change struct {
	Range      Range
	Generation uint64
}

// Store owns the active range and notifies subscribers when it changes.
// It is created once in main and injected into every consumer.
type Store struct {
	mu          sync.RWMutex
	current     Range
	generation  uint64
	subscribers []chan Change
}

// NewStore creates a store seeded with the default range.
func NewStore() *Store {
	return &Store{current: Default()}
}

// Get returns the active range.
func (s *Store) Get() Range {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Generation returns a counter incremented on every Set. Fetch results tagged
// with an older generation are stale and must be discarded by the caller.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Set replaces the active range and notifies subscribers. Delivery is
// conflating: a change a subscriber never got around to receiving is
// replaced by the newer one, so the next receive always yields the latest
// range with the generation under which it was set.
func (s *Store) Set(r Range) {
	s.mu.Lock()
	if r == s.current {
		s.mu.Unlock()
		return
	}
	s.current = r
	s.generation++
	c := Change{Range: r, Generation: s.generation}
	subs := make([]chan Change, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- c:
		default:
		}
	}
}

// Subscribe returns a channel that receives every subsequent range change.
// A slow subscriber only ever sees the most recent change.
func (s *Store) Subscribe() <-chan Change {
	ch := make(chan Change, 1)
	s.mu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.mu.Unlock()
	return ch
}

