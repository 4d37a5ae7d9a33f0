// Package models defines data structures and domain types.
package models

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Percent is a coverage value in [0,100]. The backend is inconsistent about
// the wire format: the same field arrives as a number (42), a percent string
// ("85%"), or null. Unparseable values decode to 0.
type Percent float64

// UnmarshalJSON accepts numeric, string and null encodings.
func (p *Percent) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*p = 0
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			*p = 0
			return nil
		}
		*p = Percent(ParsePercent(raw))
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*p = 0
		return nil
	}
	*p = Percent(clampPercent(f))
	return nil
}

// Value returns the coverage as a plain float64.
func (p Percent) Value() float64 {
	return float64(p)
}

// ParsePercent normalizes a percent-formatted string ("85%", "42.5") to a
// number in [0,100]. Unparseable input yields 0.
func ParsePercent(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, "%", ""))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return clampPercent(f)
}

func clampPercent(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 100 {
		return 100
	}
	return f
}

// APIRecord is one per-date detail row for a tracked API.
type APIRecord struct {
	Name         string  `json:"name"`
	Coverage     Percent `json:"coverage"`
	Usage        int     `json:"usage"`
	TotalClients int     `json:"totalClients"`
	Doc          string  `json:"apidoc,omitempty"`
}

// Used reports whether the API received any calls on the selected date.
func (r APIRecord) Used() bool {
	return r.Usage > 0
}

// Summary holds the aggregate metrics for a date range.
type Summary struct {
	TotalAPIs   int     `json:"totalAPIs"`
	AvgCoverage float64 `json:"avgCoverage"`
	TotalCalls  int64   `json:"totalCalls"`
}

// UsagePoint is one coverage-vs-usage scatter point for a single date.
type UsagePoint struct {
	Name     string  `json:"name"`
	Coverage Percent `json:"coverage"`
	Usage    int     `json:"usage"`
}

// TrendPoint is the average coverage for one calendar day.
type TrendPoint struct {
	Date        string  `json:"date"`
	AvgCoverage float64 `json:"avgCoverage"`
}
