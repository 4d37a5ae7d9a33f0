// Package dataview derives the filtered, sorted and paginated view of the
// API detail records. Compute is pure: identical inputs always produce
// identical output, so callers may cache results keyed on their inputs.
package dataview

import (
	"sort"
	"strings"

	"github.com/n-forsell/apicov-dashboard-tui/internal/filterstate"
	"github.com/n-forsell/apicov-dashboard-tui/internal/models"
)

// PageSize is the fixed number of records per page.
const PageSize = 50

// SortKey selects which numeric field orders the table (always descending).
type SortKey int

const (
	// SortByCoverage orders by normalized coverage percent.
	SortByCoverage SortKey = iota
	// SortByUsage orders by call count.
	SortByUsage
)

// String returns the display name of the sort key.
func (k SortKey) String() string {
	if k == SortByUsage {
		return "usage"
	}
	return "coverage"
}

// Toggle flips between the two sort keys.
func (k SortKey) Toggle() SortKey {
	if k == SortByCoverage {
		return SortByUsage
	}
	return SortByCoverage
}

// Result is the derived view over one record set.
type Result struct {
	// Filtered is the full match set, sorted.
	Filtered []models.APIRecord
	// PageItems is the slice of Filtered for the effective page.
	PageItems []models.APIRecord
	// TotalPages is max(1, ceil(len(Filtered)/PageSize)).
	TotalPages int
	// Page is the effective page after clamping into [1, TotalPages]. When a
	// filter shrinks the result set below the requested page, this is the new
	// last valid page.
	Page int
}

// Compute runs the full pipeline: search match, coverage range, usage class,
// stable descending sort, pagination. The input slice is never mutated.
func Compute(records []models.APIRecord, filters filterstate.FilterState, sortKey SortKey, page int) Result {
	filtered := make([]models.APIRecord, 0, len(records))

	search := strings.ToLower(filters.Search)
	lo := float64(filters.Coverage[0])
	hi := float64(filters.Coverage[1])

	for _, r := range records {
		if search != "" && !strings.Contains(strings.ToLower(r.Name), search) {
			continue
		}
		cov := r.Coverage.Value()
		if cov < lo || cov > hi {
			continue
		}
		switch filters.Usage {
		case filterstate.ClassUsed:
			if r.Usage == 0 {
				continue
			}
		case filterstate.ClassUnused:
			if r.Usage != 0 {
				continue
			}
		}
		filtered = append(filtered, r)
	}

	// Stable keeps the original relative order for equal keys.
	sort.SliceStable(filtered, func(i, j int) bool {
		return sortValue(filtered[i], sortKey) > sortValue(filtered[j], sortKey)
	})

	totalPages := (len(filtered) + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return Result{
		Filtered:   filtered,
		PageItems:  filtered[start:end],
		TotalPages: totalPages,
		Page:       page,
	}
}

func sortValue(r models.APIRecord, key SortKey) float64 {
	if key == SortByUsage {
		return float64(r.Usage)
	}
	return r.Coverage.Value()
}
