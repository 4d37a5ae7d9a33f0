// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/n-forsell/apicov-dashboard-tui/internal/api"
	"github.com/n-forsell/apicov-dashboard-tui/internal/config"
	"github.com/n-forsell/apicov-dashboard-tui/internal/daterange"
	"github.com/n-forsell/apicov-dashboard-tui/internal/db"
	"github.com/n-forsell/apicov-dashboard-tui/internal/filterstate"
	"github.com/n-forsell/apicov-dashboard-tui/internal/models"
)

type (
	// FiltersChangedEvent is emitted after a filter update settles, or when
	// the view-state file is changed by another process.
	FiltersChangedEvent struct {
		Filters filterstate.FilterState
	}

	// DateRangeChangedEvent is emitted when the selected date range changes.
	// Generation is the store counter under which Range was set, so consumers
	// can discard responses that belong to an earlier range.
	DateRangeChangedEvent struct {
		Range      daterange.Range
		Generation uint64
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (FiltersChangedEvent) isServiceEvent()   {}
func (DateRangeChangedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()            {}

// ListResult is an API list fetch outcome. Stale marks data served from
// the snapshot cache after the gateway failed.
type ListResult struct {
	Records []models.APIRecord
	Stale   bool
}

// SummaryResult is a summary fetch outcome, see ListResult.
type SummaryResult struct {
	Summary models.Summary
	Stale   bool
}

// Manager orchestrates the gateway, stores, and snapshot cache.
type Manager struct {
	mu          sync.RWMutex
	client      *api.Client
	database    *db.DB
	filters     *filterstate.Store
	dates       *daterange.Store
	eventChan   chan ServiceEvent
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent

	alertThreshold float64
	prevAvg        float64
	hasPrevAvg     bool
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		eventChan:      make(chan ServiceEvent, 100),
		stopChan:       make(chan struct{}),
		alertThreshold: cfg.CoverageAlert,
	}

	m.client = api.NewClient(cfg.APIBaseURL, api.WithTimeout(cfg.RequestTimeout))

	var err error
	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m.filters, err = filterstate.NewStore(cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize filter store: %w", err)
	}

	m.dates = daterange.NewStore()

	if cfg.CacheMaxAge > 0 {
		if _, err := m.database.Prune(time.Now().Add(-cfg.CacheMaxAge)); err != nil {
			m.broadcast(ErrorEvent{Service: "db", Error: err})
		}
	}

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from the stores to subscribers.
func (m *Manager) routeEvents() {
	dateCh := m.dates.Subscribe()
	for {
		select {
		case f := <-m.filters.Events():
			m.broadcast(FiltersChangedEvent{Filters: f})

		case c := <-dateCh:
			m.broadcast(DateRangeChangedEvent{
				Range:      c.Range,
				Generation: c.Generation,
			})

		case <-m.stopChan:
			return
		}
	}
}

// FetchSummary fetches the summary for a range, writing through to the
// snapshot cache. On a transport failure it falls back to the cache.
func (m *Manager) FetchSummary(ctx context.Context, r daterange.Range) (SummaryResult, error) {
	s, err := m.client.GetSummary(ctx, r)
	if err == nil {
		if dbErr := m.database.SaveSummary(r, s); dbErr != nil {
			m.broadcast(ErrorEvent{Service: "db", Error: dbErr})
		}
		m.checkCoverageAlert(s)
		return SummaryResult{Summary: s}, nil
	}

	if api.IsNetwork(err) || api.IsTimeout(err) {
		if cached, dbErr := m.database.GetSummary(r); dbErr == nil {
			return SummaryResult{Summary: cached, Stale: true}, nil
		} else if !errors.Is(dbErr, db.ErrNotCached) {
			m.broadcast(ErrorEvent{Service: "db", Error: dbErr})
		}
	}
	return SummaryResult{}, err
}

// FetchAPIList fetches the per-API records for a date, writing through to
// the snapshot cache. On a transport failure it falls back to the cache.
func (m *Manager) FetchAPIList(ctx context.Context, date string) (ListResult, error) {
	records, err := m.client.GetAPIList(ctx, date)
	if err == nil {
		if dbErr := m.database.SaveAPIList(date, records); dbErr != nil {
			m.broadcast(ErrorEvent{Service: "db", Error: dbErr})
		}
		return ListResult{Records: records}, nil
	}

	if api.IsNetwork(err) || api.IsTimeout(err) {
		if cached, dbErr := m.database.GetAPIList(date); dbErr == nil {
			return ListResult{Records: cached, Stale: true}, nil
		} else if !errors.Is(dbErr, db.ErrNotCached) {
			m.broadcast(ErrorEvent{Service: "db", Error: dbErr})
		}
	}
	return ListResult{}, err
}

// FetchCoverageUsage fetches the scatter points for a date. Not cached;
// the scatter is decorative and cheap to refetch.
func (m *Manager) FetchCoverageUsage(ctx context.Context, date string) ([]models.UsagePoint, error) {
	return m.client.GetCoverageUsage(ctx, date)
}

// FetchTrends fetches the per-day average coverage series for a range.
func (m *Manager) FetchTrends(ctx context.Context, r daterange.Range) ([]models.TrendPoint, error) {
	return m.client.GetCoverageTrends(ctx, r)
}

// checkCoverageAlert sends a desktop notification when average coverage
// drops below the configured threshold. Only fires on a downward crossing.
func (m *Manager) checkCoverageAlert(s models.Summary) {
	if m.alertThreshold <= 0 {
		return
	}

	m.mu.Lock()
	prev, had := m.prevAvg, m.hasPrevAvg
	m.prevAvg, m.hasPrevAvg = s.AvgCoverage, true
	m.mu.Unlock()

	if !had {
		return
	}

	if s.AvgCoverage < m.alertThreshold && prev >= m.alertThreshold {
		title := "Low API Coverage"
		body := fmt.Sprintf("Average coverage dropped to %.1f%% (threshold %.0f%%)", s.AvgCoverage, m.alertThreshold)
		_ = beeep.Notify(title, body, "")
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	// Send to main event channel
	select {
	case m.eventChan <- event:
	default:
	}

	// Send to subscribers
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, waitForEvent(ch)
}

// waitForEvent returns a tea.Cmd that waits for the next event.
func waitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Filters returns the filter state store.
func (m *Manager) Filters() *filterstate.Store {
	return m.filters
}

// Dates returns the date range store.
func (m *Manager) Dates() *daterange.Store {
	return m.dates
}

// Generation returns the current date range generation. Fetch commands
// capture it before dispatch so results for an older range can be dropped.
func (m *Manager) Generation() uint64 {
	return m.dates.Generation()
}

// Database returns the snapshot cache for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// CachedDates returns the dates with locally cached API lists.
func (m *Manager) CachedDates() ([]string, error) {
	return m.database.ListCachedDates()
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	close(m.stopChan)

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error

	if err := m.filters.Close(); err != nil {
		errs = append(errs, err)
	}

	if m.database != nil {
		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
