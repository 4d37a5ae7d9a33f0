package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/n-forsell/apicov-dashboard-tui/internal/daterange"
)

func TestGetSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/summary" {
			t.Errorf("path = %q, want /summary", r.URL.Path)
		}
		if got := r.URL.Query().Get("start"); got != "2024-01-01" {
			t.Errorf("start = %q", got)
		}
		if got := r.URL.Query().Get("end"); got != "2024-01-07" {
			t.Errorf("end = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalAPIs":42,"avgCoverage":73.5,"totalCalls":12000}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithHTTPClient(srv.Client()))
	sum, err := c.GetSummary(context.Background(), daterange.Range{Start: "2024-01-01", End: "2024-01-07"})
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if sum.TotalAPIs != 42 || sum.AvgCoverage != 73.5 || sum.TotalCalls != 12000 {
		t.Errorf("unexpected summary: %+v", sum)
	}
}

func TestGetAPIList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("date"); got != "2024-01-02" {
			t.Errorf("date = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"name":"orders","coverage":"85%","usage":9,"totalClients":3},
			{"name":"legacy","coverage":null,"usage":0,"totalClients":0}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	records, err := c.GetAPIList(context.Background(), "2024-01-02")
	if err != nil {
		t.Fatalf("GetAPIList: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Coverage.Value() != 85 {
		t.Errorf("coverage = %v, want 85", records[0].Coverage.Value())
	}
	if records[1].Coverage.Value() != 0 {
		t.Errorf("null coverage = %v, want 0", records[1].Coverage.Value())
	}
}

func TestGetCoverageTrends(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"date":"2024-01-01","avgCoverage":70.2},{"date":"2024-01-02","avgCoverage":71.8}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	trends, err := c.GetCoverageTrends(context.Background(), daterange.Range{Start: "2024-01-01", End: "2024-01-02"})
	if err != nil {
		t.Fatalf("GetCoverageTrends: %v", err)
	}
	if len(trends) != 2 || trends[1].AvgCoverage != 71.8 {
		t.Errorf("unexpected trends: %+v", trends)
	}
}

func TestGetCoverageUsage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"name":"orders","coverage":64,"usage":3}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	points, err := c.GetCoverageUsage(context.Background(), "2024-01-02")
	if err != nil {
		t.Fatalf("GetCoverageUsage: %v", err)
	}
	if len(points) != 1 || points[0].Name != "orders" {
		t.Errorf("unexpected points: %+v", points)
	}
}

func TestAPIErrorWithBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"backend warming up","code":"WARMUP"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.GetSummary(context.Background(), daterange.Range{Start: "2024-01-01", End: "2024-01-02"})
	if err == nil {
		t.Fatal("expected error")
	}

	apiErr, ok := AsError(err)
	if !ok {
		t.Fatalf("error %v is not a gateway error", err)
	}
	if apiErr.Kind != KindAPI {
		t.Errorf("Kind = %v, want KindAPI", apiErr.Kind)
	}
	if apiErr.Status != http.StatusServiceUnavailable {
		t.Errorf("Status = %d", apiErr.Status)
	}
	if apiErr.Code != "WARMUP" {
		t.Errorf("Code = %q", apiErr.Code)
	}
	if apiErr.Error() != "backend warming up" {
		t.Errorf("Error() = %q", apiErr.Error())
	}
}

func TestAPIErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.GetAPIList(context.Background(), "2024-01-02")

	apiErr, ok := AsError(err)
	if !ok {
		t.Fatalf("error %v is not a gateway error", err)
	}
	if apiErr.Status != http.StatusInternalServerError || apiErr.Code != "" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithTimeout(50*time.Millisecond))
	_, err := c.GetSummary(context.Background(), daterange.Range{Start: "2024-01-01", End: "2024-01-02"})
	if !IsTimeout(err) {
		t.Errorf("expected timeout error, got %v", err)
	}
}

func TestNetworkError(t *testing.T) {
	// Point at a server that is already closed.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL)
	_, err := c.GetSummary(context.Background(), daterange.Range{Start: "2024-01-01", End: "2024-01-02"})
	if !IsNetwork(err) {
		t.Errorf("expected network error, got %v", err)
	}
}

func TestAsErrorNonGateway(t *testing.T) {
	if _, ok := AsError(errors.New("plain")); ok {
		t.Error("plain error should not match")
	}
	if e, ok := AsError(nil); ok || e != nil {
		t.Error("nil error should not match")
	}
}
