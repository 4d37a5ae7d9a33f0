package app

import (
	"errors"
	"testing"
	"time"

	"github.com/n-forsell/apicov-dashboard-tui/internal/daterange"
	"github.com/n-forsell/apicov-dashboard-tui/internal/models"
)

func TestNewState(t *testing.T) {
	s := NewState()
	if s == nil {
		t.Fatal("NewState returned nil")
	}
	if len(s.Records) != 0 {
		t.Error("Records should be empty")
	}
	if s.Loading.Initial != true {
		t.Error("Initial loading should be true")
	}
	if s.Filters.Coverage != [2]int{0, 100} {
		t.Errorf("default coverage bounds = %v, want [0 100]", s.Filters.Coverage)
	}
	if s.Range.Start == "" || s.Range.End == "" {
		t.Error("default range should be populated")
	}
}

func TestState_SetLoading(t *testing.T) {
	s := NewState()

	s.SetLoading("list", true)
	if !s.Loading.List {
		t.Error("list loading should be true")
	}
	if !s.AnyLoading() {
		t.Error("AnyLoading should be true")
	}

	s.SetLoading("list", false)
	// Initial is still true
	if !s.AnyLoading() {
		t.Error("AnyLoading should be true (Initial is true)")
	}

	s.SetLoading("initial", false)
	if s.AnyLoading() {
		t.Error("AnyLoading should be false")
	}

	s.SetLoading("trends", true)
	s.SetLoading("scatter", true)
	if !s.Loading.Trends || !s.Loading.Scatter {
		t.Error("trends and scatter loading should be true")
	}
}

func TestState_Records(t *testing.T) {
	s := NewState()
	s.SetFetchError(errors.New("boom"))

	recs := []models.APIRecord{
		{Name: "users", Coverage: 80, Usage: 1200},
		{Name: "orders", Coverage: 40, Usage: 300},
	}
	s.SetRecords(recs, true)

	got := s.GetRecords()
	if len(got) != 2 {
		t.Fatalf("GetRecords returned %d items, want 2", len(got))
	}
	if !s.IsRecordsStale() {
		t.Error("IsRecordsStale should be true")
	}
	if s.GetFetchError() != nil {
		t.Error("successful SetRecords should clear the fetch error")
	}

	// The returned slice is a copy.
	got[0].Name = "mutated"
	if s.GetRecords()[0].Name != "users" {
		t.Error("GetRecords should return a copy")
	}
}

func TestState_FetchErrorKeepsRecords(t *testing.T) {
	s := NewState()
	s.SetRecords([]models.APIRecord{{Name: "users"}}, false)

	s.SetFetchError(errors.New("network down"))

	if s.GetFetchError() == nil {
		t.Fatal("fetch error should be set")
	}
	if len(s.GetRecords()) != 1 {
		t.Error("records should survive a fetch error")
	}
}

func TestState_Summary(t *testing.T) {
	s := NewState()

	if s.GetSummary() != nil {
		t.Error("summary should start nil")
	}

	s.SetSummary(models.Summary{TotalAPIs: 12, AvgCoverage: 67.5, TotalCalls: 9000}, false)
	got := s.GetSummary()
	if got == nil {
		t.Fatal("GetSummary returned nil")
	}
	if got.TotalAPIs != 12 {
		t.Errorf("TotalAPIs = %d, want 12", got.TotalAPIs)
	}
	if s.IsSummaryStale() {
		t.Error("summary should not be stale")
	}
}

func TestState_TrendsAndScatter(t *testing.T) {
	s := NewState()

	s.SetTrends([]models.TrendPoint{{Date: "2026-08-01", AvgCoverage: 70}})
	if len(s.GetTrends()) != 1 {
		t.Error("trend point not stored")
	}

	s.SetScatter([]models.UsagePoint{{Name: "users", Coverage: 80, Usage: 100}})
	if len(s.GetScatter()) != 1 {
		t.Error("scatter point not stored")
	}
}

func TestState_SelectedDate(t *testing.T) {
	s := NewState()

	s.SetRange(daterange.Range{Start: "2026-08-10", End: "2026-08-12"})
	if got := s.SelectedDate(); got != "2026-08-10" {
		t.Errorf("SelectedDate = %q, want 2026-08-10", got)
	}

	s.SetSelectedDate("2026-08-11")
	if got := s.SelectedDate(); got != "2026-08-11" {
		t.Errorf("SelectedDate = %q, want 2026-08-11", got)
	}

	// Days outside the range are ignored.
	s.SetSelectedDate("2026-09-01")
	if got := s.SelectedDate(); got != "2026-08-11" {
		t.Errorf("SelectedDate = %q after out-of-range set, want 2026-08-11", got)
	}

	// A range change snaps the selection back to the first day.
	s.SetRange(daterange.Range{Start: "2026-07-01", End: "2026-07-03"})
	if got := s.SelectedDate(); got != "2026-07-01" {
		t.Errorf("SelectedDate = %q after range change, want 2026-07-01", got)
	}
}

func TestState_Notifications(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationInfo, "test", time.Minute)
	if id == "" {
		t.Error("AddNotification returned empty ID")
	}

	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Errorf("GetNotifications len = %d, want 1", len(notifs))
	}
	if notifs[0].Message != "test" {
		t.Errorf("Notification message = %s, want test", notifs[0].Message)
	}

	s.RemoveNotification(id)
	if len(s.GetNotifications()) != 0 {
		t.Error("Notification should be removed")
	}
}

func TestState_ClearExpiredNotifications(t *testing.T) {
	s := NewState()

	// Expired
	s.notifications = append(s.notifications, Notification{
		ID:        "expired",
		CreatedAt: time.Now().Add(-2 * time.Minute),
		Duration:  time.Minute,
	})

	// Active
	s.notifications = append(s.notifications, Notification{
		ID:        "active",
		CreatedAt: time.Now(),
		Duration:  time.Minute,
	})

	s.ClearExpiredNotifications()

	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifs))
	}
	if notifs[0].ID != "active" {
		t.Errorf("Expected active notification, got %s", notifs[0].ID)
	}
}

func TestState_LoadingNotification(t *testing.T) {
	s := NewState()

	s.SetLoadingNotification("loading...")
	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Errorf("Expected 1 notification, got %d", len(notifs))
	}
	if notifs[0].ID != LoadingNotificationID {
		t.Errorf("Expected ID %s, got %s", LoadingNotificationID, notifs[0].ID)
	}
	if notifs[0].Message != "loading..." {
		t.Errorf("Expected message loading..., got %s", notifs[0].Message)
	}

	// Update message
	s.SetLoadingNotification("still loading...")
	notifs = s.GetNotifications()
	if len(notifs) != 1 {
		t.Errorf("Expected 1 notification after update")
	}
	if notifs[0].Message != "still loading..." {
		t.Errorf("Expected message still loading..., got %s", notifs[0].Message)
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("Loading notification should be cleared")
	}
}

func TestState_TimeSinceUpdate(t *testing.T) {
	s := NewState()

	before := s.LastUpdated
	time.Sleep(time.Millisecond)
	s.SetRecords(nil, false)

	if !s.GetLastUpdated().After(before) {
		t.Error("LastUpdated should advance on SetRecords")
	}
	if s.TimeSinceUpdate() == 0 {
		t.Error("TimeSinceUpdate should be > 0")
	}
}

func TestNotificationType_String(t *testing.T) {
	tests := []struct {
		t    NotificationType
		want string
	}{
		{NotificationSuccess, "success"},
		{NotificationError, "error"},
		{NotificationWarning, "warning"},
		{NotificationInfo, "info"},
		{NotificationType(999), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
