package app

import (
	"time"

	"github.com/n-forsell/apicov-dashboard-tui/internal/daterange"
	"github.com/n-forsell/apicov-dashboard-tui/internal/filterstate"
	"github.com/n-forsell/apicov-dashboard-tui/internal/models"
	"github.com/n-forsell/apicov-dashboard-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// SummaryLoadedMsg carries a summary fetch result. Generation is the date
// range generation captured when the fetch was dispatched; results from an
// earlier generation are discarded.
type SummaryLoadedMsg struct {
	Result     services.SummaryResult
	Generation uint64
	Err        error
}

// APIListLoadedMsg carries a per-API list fetch result.
type APIListLoadedMsg struct {
	Result     services.ListResult
	Generation uint64
	Err        error
}

// TrendsLoadedMsg carries the per-day coverage series.
type TrendsLoadedMsg struct {
	Points     []models.TrendPoint
	Generation uint64
	Err        error
}

// ScatterLoadedMsg carries the coverage-vs-usage points.
type ScatterLoadedMsg struct {
	Points     []models.UsagePoint
	Generation uint64
	Err        error
}

// FiltersSettledMsg signals that a filter update has settled (after the
// debounce window, or immediately for a reset) or that the view-state file
// was changed externally.
type FiltersSettledMsg struct {
	Filters filterstate.FilterState
}

// DateRangeChangedMsg signals that the selected date range changed.
type DateRangeChangedMsg struct {
	Range      daterange.Range
	Generation uint64
}

// DateSelectedMsg moves the per-date views (API list, scatter) to another
// day within the current range.
type DateSelectedMsg struct {
	Date string
}

// RefreshMsg requests a refresh of data.
type RefreshMsg struct {
	Resource string // "all", "summary", "list", "trends", "scatter"
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}
