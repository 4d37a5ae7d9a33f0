// Package filterstate owns the detail-table filter criteria and their
// query-string representation. The encoded form is the shareable identity of
// a filter setup: parsing it back reconstructs the exact state, modulo keys
// omitted at their default value.
package filterstate

import (
	"net/url"
	"strconv"
	"strings"
)

// Class selects which usage bucket of APIs to keep.
type Class string

const (
	// ClassAll keeps every record.
	ClassAll Class = "all"
	// ClassUsed keeps records with at least one recorded call.
	ClassUsed Class = "used"
	// ClassUnused keeps records with zero recorded calls.
	ClassUnused Class = "unused"
)

// Next cycles through the usage classes in UI order.
func (c Class) Next() Class {
	switch c {
	case ClassAll:
		return ClassUsed
	case ClassUsed:
		return ClassUnused
	default:
		return ClassAll
	}
}

// String returns the string representation of the class.
func (c Class) String() string {
	return string(c)
}

// FilterState is the complete filter criteria for the detail table.
// Coverage is an inclusive [min,max] percent pair with min < max.
type FilterState struct {
	Coverage [2]int
	Usage    Class
	Search   string
}

// Default returns the hard-coded default filters: full coverage range, all
// usage classes, no search text.
func Default() FilterState {
	return FilterState{Coverage: [2]int{0, 100}, Usage: ClassAll}
}

// IsDefault reports whether f equals the default state.
func (f FilterState) IsDefault() bool {
	return f == Default()
}

// Values encodes f as URL query parameters, omitting keys at their default
// value so encoded filters stay minimal.
func (f FilterState) Values() url.Values {
	v := url.Values{}
	if f.Coverage != Default().Coverage {
		v.Set("coverage", strconv.Itoa(f.Coverage[0])+","+strconv.Itoa(f.Coverage[1]))
	}
	if f.Usage != ClassAll && f.Usage != "" {
		v.Set("usage", string(f.Usage))
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	return v
}

// Encode returns the canonical query-string form of f.
func (f FilterState) Encode() string {
	return f.Values().Encode()
}

// Parse reconstructs a FilterState from query parameters. Malformed values
// degrade to the corresponding default instead of failing: a coverage pair
// with the wrong arity, non-numeric bounds, or an inverted range falls back
// to [0,100], and an unknown usage class falls back to all.
func Parse(v url.Values) FilterState {
	f := Default()

	if raw := v.Get("coverage"); raw != "" {
		if pair, ok := parseCoveragePair(raw); ok {
			f.Coverage = pair
		}
	}

	switch Class(v.Get("usage")) {
	case ClassUsed:
		f.Usage = ClassUsed
	case ClassUnused:
		f.Usage = ClassUnused
	}

	f.Search = v.Get("search")
	return f
}

// ParseQuery is Parse over a raw query string. Unparseable input yields the
// default state.
func ParseQuery(q string) FilterState {
	v, err := url.ParseQuery(strings.TrimSpace(q))
	if err != nil {
		return Default()
	}
	return Parse(v)
}

func parseCoveragePair(raw string) ([2]int, bool) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return [2]int{}, false
	}
	lo, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return [2]int{}, false
	}
	hi, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return [2]int{}, false
	}
	if lo < 0 || hi > 100 || lo >= hi {
		return [2]int{}, false
	}
	return [2]int{lo, hi}, true
}
