// Package report materializes report row sets from a filter selection and
// handles their pagination and CSV export. The on-screen table and the export
// always come from the same materialized set.
package report

import (
	"strings"
	"time"
)

// Filter is the fully-resolved filter selection applied to a report. Zero
// values mean "no constraint": with no active constraint the materializer
// returns the entire dataset, not an empty set.
type Filter struct {
	CompanyID  string
	PlaceIDs   []string
	LocationID string
	// From and To bound the date range; both are interpreted as whole local
	// days (00:00:00.000 through 23:59:59.999), inclusive on both ends.
	From time.Time
	To   time.Time
	// Search is a case-insensitive substring matched against each row's
	// candidate fields; a row matches when ANY field contains it.
	Search string
}

// Column maps one row to one human-readable CSV/table column.
type Column[R any] struct {
	Header string
	Value  func(R) string
}

// Spec parameterizes the materializer for one report: how to test a row
// against the filter and how to serialize it. Everything else is shared.
type Spec[R any] struct {
	// Name is the report's export name, e.g. "meal_history".
	Name string

	Company  func(R) string
	Place    func(R) string
	Location func(R) string
	When     func(R) time.Time
	Search   func(R) []string

	Columns []Column[R]
}

// Materialize returns the rows matching every active filter predicate, in
// their original order. Calling it twice with the same inputs yields the same
// rows in the same order.
func (s Spec[R]) Materialize(rows []R, f Filter) []R {
	placeSet := make(map[string]struct{}, len(f.PlaceIDs))
	for _, id := range f.PlaceIDs {
		placeSet[id] = struct{}{}
	}

	var start, end time.Time
	dateActive := !f.From.IsZero() && !f.To.IsZero()
	if dateActive {
		start, end = DayBounds(f.From, f.To)
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]R, 0, len(rows))
	for _, row := range rows {
		if f.CompanyID != "" && s.Company(row) != f.CompanyID {
			continue
		}
		if len(placeSet) > 0 {
			if _, ok := placeSet[s.Place(row)]; !ok {
				continue
			}
		}
		if f.LocationID != "" && s.Location(row) != f.LocationID {
			continue
		}
		if dateActive {
			ts := s.When(row)
			if ts.Before(start) || ts.After(end) {
				continue
			}
		}
		if search != "" && !s.matchesSearch(row, search) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func (s Spec[R]) matchesSearch(row R, search string) bool {
	if s.Search == nil {
		return false
	}
	for _, field := range s.Search(row) {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// DayBounds expands a date range to full-day bounds in local time: the start
// of from's day and the last millisecond of to's day. No timezone conversion
// is applied to the bounds themselves; display formatting elsewhere may use a
// fixed timezone.
func DayBounds(from, to time.Time) (time.Time, time.Time) {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.Local)
	end := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 999_000_000, time.Local)
	return start, end
}
