package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/n-forsell/apicov-dashboard-tui/internal/daterange"
	"github.com/n-forsell/apicov-dashboard-tui/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// loadInitialData returns a command that loads everything for the current
// date range. The generation is captured once so all four results are
// fenced against a range change while they are in flight.
func loadInitialData(mgr *services.Manager, r daterange.Range) tea.Cmd {
	gen := mgr.Generation()
	date := firstDay(r)
	return tea.Batch(
		fetchSummaryCmd(mgr, r, gen),
		fetchAPIListCmd(mgr, date, gen),
		fetchTrendsCmd(mgr, r, gen),
		fetchScatterCmd(mgr, date, gen),
	)
}

func firstDay(r daterange.Range) string {
	days := daterange.Enumerate(r)
	if len(days) == 0 {
		return r.Start
	}
	return days[0]
}

// fetchSummaryCmd returns a command that fetches the range summary.
func fetchSummaryCmd(mgr *services.Manager, r daterange.Range, gen uint64) tea.Cmd {
	return func() tea.Msg {
		res, err := mgr.FetchSummary(context.Background(), r)
		return SummaryLoadedMsg{
			Result:     res,
			Generation: gen,
			Err:        err,
		}
	}
}

// fetchAPIListCmd returns a command that fetches the per-API records.
func fetchAPIListCmd(mgr *services.Manager, date string, gen uint64) tea.Cmd {
	return func() tea.Msg {
		res, err := mgr.FetchAPIList(context.Background(), date)
		return APIListLoadedMsg{
			Result:     res,
			Generation: gen,
			Err:        err,
		}
	}
}

// fetchTrendsCmd returns a command that fetches the coverage trend series.
func fetchTrendsCmd(mgr *services.Manager, r daterange.Range, gen uint64) tea.Cmd {
	return func() tea.Msg {
		points, err := mgr.FetchTrends(context.Background(), r)
		return TrendsLoadedMsg{
			Points:     points,
			Generation: gen,
			Err:        err,
		}
	}
}

// fetchScatterCmd returns a command that fetches the scatter points.
func fetchScatterCmd(mgr *services.Manager, date string, gen uint64) tea.Cmd {
	return func() tea.Msg {
		points, err := mgr.FetchCoverageUsage(context.Background(), date)
		return ScatterLoadedMsg{
			Points:     points,
			Generation: gen,
			Err:        err,
		}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return delayedCmd(delay, RemoveNotificationMsg{ID: id})
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationSuccess,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationError,
			Message:  message,
			Duration: LongNotificationDuration,
		}
	}
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationWarning,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationInfo,
			Message:  message,
			Duration: QuickNotificationDuration,
		}
	}
}

// delayedCmd returns a command that sends a message after a delay.
func delayedCmd(delay time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return msg
	})
}
