package trends

import (
	"strings"
	"testing"

	"github.com/n-forsell/apicov-dashboard-tui/internal/app"
	"github.com/n-forsell/apicov-dashboard-tui/internal/models"
)

func testState() *app.State {
	s := app.NewState()
	s.SetLoading("initial", false)
	s.SetTrends([]models.TrendPoint{
		{Date: "2026-08-10", AvgCoverage: 62.0},
		{Date: "2026-08-11", AvgCoverage: 71.5},
		{Date: "2026-08-12", AvgCoverage: 68.2},
	})
	return s
}

func TestNew(t *testing.T) {
	m := New(testState(), nil)
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() != nil {
		t.Error("Init should be a no-op")
	}
}

func TestModel_View(t *testing.T) {
	m := New(testState(), nil)
	m.SetSize(120, 40)

	view := m.View()
	for _, want := range []string{
		"Coverage Trends",
		"2026-08-10 → 2026-08-12 (3 days)",
		"Average Coverage per Day",
		"Best:",
		"Worst:",
		"Daily Breakdown",
		"At a Glance",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
}

func TestModel_View_Empty(t *testing.T) {
	s := app.NewState()
	s.SetLoading("initial", false)
	m := New(s, nil)
	m.SetSize(80, 24)

	view := m.View()
	if !strings.Contains(view, "No trend data") {
		t.Error("View should show the empty state")
	}
}

func TestExtremes(t *testing.T) {
	points := []models.TrendPoint{
		{Date: "2026-08-10", AvgCoverage: 62.0},
		{Date: "2026-08-11", AvgCoverage: 71.5},
		{Date: "2026-08-12", AvgCoverage: 44.1},
	}

	best, worst := extremes(points)
	if best.Date != "2026-08-11" {
		t.Errorf("best = %s, want 2026-08-11", best.Date)
	}
	if worst.Date != "2026-08-12" {
		t.Errorf("worst = %s, want 2026-08-12", worst.Date)
	}
}

func TestExtremes_TieKeepsEarlierDay(t *testing.T) {
	points := []models.TrendPoint{
		{Date: "2026-08-10", AvgCoverage: 50},
		{Date: "2026-08-11", AvgCoverage: 50},
	}

	best, worst := extremes(points)
	if best.Date != "2026-08-10" || worst.Date != "2026-08-10" {
		t.Errorf("tie should keep the earlier day, got best=%s worst=%s", best.Date, worst.Date)
	}
}

func TestModel_Help(t *testing.T) {
	m := New(testState(), nil)
	if len(m.ShortHelp()) == 0 || len(m.FullHelp()) == 0 {
		t.Error("help bindings should not be empty")
	}
}
