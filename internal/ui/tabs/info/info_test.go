package info

import (
	"strings"
	"testing"
	"time"

	"github.com/n-forsell/apicov-dashboard-tui/internal/app"
	"github.com/n-forsell/apicov-dashboard-tui/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		APIBaseURL:     "http://localhost:9000",
		RequestTimeout: 30 * time.Second,
		DatabasePath:   "/tmp/apicov.db",
		StatePath:      "/tmp/view.query",
	}
}

func TestNew(t *testing.T) {
	m := New(app.NewState(), testConfig(), nil)
	if m == nil {
		t.Fatal("New returned nil")
	}
}

func TestModel_Init(t *testing.T) {
	m := New(app.NewState(), testConfig(), nil)
	// Without a service manager there is no cache to inspect.
	if m.Init() != nil {
		t.Error("Init should return nil without services")
	}
}

func TestModel_Update(t *testing.T) {
	m := New(app.NewState(), testConfig(), nil)

	updated, _ := m.Update(cacheInfoMsg{dates: []string{"2026-08-01"}})
	if updated == nil {
		t.Fatal("Update returned nil model")
	}
	if len(m.cachedDates) != 1 {
		t.Error("cached dates not stored")
	}
}

func TestModel_View(t *testing.T) {
	m := New(app.NewState(), testConfig(), nil)
	m.SetSize(80, 24)

	view := m.View()
	if view == "" {
		t.Error("View returned empty string")
	}
	if !strings.Contains(view, "http://localhost:9000") {
		t.Error("View should show the configured base URL")
	}
	if !strings.Contains(view, "Keys") {
		t.Error("View should show the key reference")
	}
	if !strings.Contains(view, "About apicov") {
		t.Error("View should show the about card")
	}
}

func TestModel_View_CachedDates(t *testing.T) {
	m := New(app.NewState(), testConfig(), nil)
	m.SetSize(80, 24)
	m.cachedDates = []string{"2026-08-01", "2026-08-02"}

	view := m.View()
	if !strings.Contains(view, "2026-08-01") {
		t.Error("View should list cached dates")
	}
}

func TestModel_View_CachedDatesPreviewsNewest(t *testing.T) {
	m := New(app.NewState(), testConfig(), nil)
	m.SetSize(100, 30)
	// Ascending, seven days: the preview must show the last five.
	m.cachedDates = []string{
		"2026-08-01", "2026-08-02", "2026-08-03", "2026-08-04",
		"2026-08-05", "2026-08-06", "2026-08-07",
	}

	view := m.View()
	if !strings.Contains(view, "2026-08-07") {
		t.Error("preview should include the newest cached date")
	}
	if strings.Contains(view, "2026-08-01") || strings.Contains(view, "2026-08-02") {
		t.Error("preview should drop the oldest cached dates")
	}
}

func TestModel_SetSize(t *testing.T) {
	m := New(app.NewState(), testConfig(), nil)
	m.SetSize(100, 50)
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState(), testConfig(), nil)
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}
