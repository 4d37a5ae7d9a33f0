// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/n-forsell/apicov-dashboard-tui/internal/daterange"
	"github.com/n-forsell/apicov-dashboard-tui/internal/filterstate"
	"github.com/n-forsell/apicov-dashboard-tui/internal/models"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial bool
	Summary bool
	List    bool
	Trends  bool
	Scatter bool
}

// State is the shared application state read by all tabs.
type State struct {
	mu sync.RWMutex

	Records []models.APIRecord
	Summary *models.Summary
	Trends  []models.TrendPoint
	Scatter []models.UsagePoint

	// Stale marks list/summary data served from the snapshot cache.
	RecordsStale bool
	SummaryStale bool

	Filters filterstate.FilterState
	Range   daterange.Range

	// selectedDate is the day within Range the per-date views (scatter,
	// API list) are showing. Reset to the first day whenever Range changes.
	selectedDate string

	// FetchError holds the most recent fetch failure for the list view,
	// cleared on the next successful load.
	FetchError error

	Loading LoadingState

	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates the initial application state.
func NewState() *State {
	r := daterange.Default()
	return &State{
		Filters:      filterstate.Default(),
		Range:        r,
		selectedDate: firstDay(r),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "summary":
		s.Loading.Summary = loading
	case "list":
		s.Loading.List = loading
	case "trends":
		s.Loading.Trends = loading
	case "scatter":
		s.Loading.Scatter = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial ||
		s.Loading.Summary ||
		s.Loading.List ||
		s.Loading.Trends ||
		s.Loading.Scatter
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// SetRecords stores the per-API records for the selected date.
func (s *State) SetRecords(records []models.APIRecord, stale bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Records = records
	s.RecordsStale = stale
	s.FetchError = nil
	s.LastUpdated = time.Now()
}

// GetRecords returns a copy of the record list.
func (s *State) GetRecords() []models.APIRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]models.APIRecord, len(s.Records))
	copy(records, s.Records)
	return records
}

// IsRecordsStale reports whether the list came from the snapshot cache.
func (s *State) IsRecordsStale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.RecordsStale
}

// SetFetchError records a failed list fetch. Existing records are kept so
// the previous view stays on screen next to the error.
func (s *State) SetFetchError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FetchError = err
}

// GetFetchError returns the most recent list fetch failure, if any.
func (s *State) GetFetchError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.FetchError
}

// SetSummary stores the aggregate metrics for the selected range.
func (s *State) SetSummary(summary models.Summary, stale bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Summary = &summary
	s.SummaryStale = stale
	s.LastUpdated = time.Now()
}

// GetSummary returns the current summary, or nil before the first load.
func (s *State) GetSummary() *models.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Summary
}

// IsSummaryStale reports whether the summary came from the snapshot cache.
func (s *State) IsSummaryStale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.SummaryStale
}

// SetTrends stores the per-day coverage series.
func (s *State) SetTrends(points []models.TrendPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Trends = points
	s.LastUpdated = time.Now()
}

// GetTrends returns a copy of the trend series.
func (s *State) GetTrends() []models.TrendPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	points := make([]models.TrendPoint, len(s.Trends))
	copy(points, s.Trends)
	return points
}

// SetScatter stores the coverage-vs-usage points.
func (s *State) SetScatter(points []models.UsagePoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Scatter = points
	s.LastUpdated = time.Now()
}

// GetScatter returns a copy of the scatter points.
func (s *State) GetScatter() []models.UsagePoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	points := make([]models.UsagePoint, len(s.Scatter))
	copy(points, s.Scatter)
	return points
}

// SetFilters stores the settled filter state.
func (s *State) SetFilters(f filterstate.FilterState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Filters = f
}

// GetFilters returns the current filter state.
func (s *State) GetFilters() filterstate.FilterState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Filters
}

// SetRange stores the selected date range and resets the selected date to
// the first day of the new range.
func (s *State) SetRange(r daterange.Range) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Range = r
	s.selectedDate = firstDay(r)
}

// GetRange returns the selected date range.
func (s *State) GetRange() daterange.Range {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Range
}

// SelectedDate returns the day the per-date endpoints are queried for.
// Defaults to the first day of the range until SetSelectedDate moves it.
func (s *State) SelectedDate() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedDate
}

// SetSelectedDate moves the per-date views to another day. Days outside the
// current range are ignored.
func (s *State) SetSelectedDate(date string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range daterange.Enumerate(s.Range) {
		if d == date {
			s.selectedDate = date
			return
		}
	}
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	notification := Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.notifications = append(s.notifications, notification)

	// Keep only the last 10 notifications
	if len(s.notifications) > 10 {
		s.notifications = s.notifications[len(s.notifications)-10:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}

	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  0,
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// GetLastUpdated returns the last time the state was updated.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}
