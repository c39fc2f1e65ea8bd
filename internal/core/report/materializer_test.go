package report

import (
	"fmt"
	"reflect"
	"testing"
	"time"
)

type row struct {
	Company  string
	Place    string
	Location string
	Name     string
	UniqueID string
	When     time.Time
}

func testSpec() Spec[row] {
	return Spec[row]{
		Name:     "test",
		Company:  func(r row) string { return r.Company },
		Place:    func(r row) string { return r.Place },
		Location: func(r row) string { return r.Location },
		When:     func(r row) time.Time { return r.When },
		Search:   func(r row) []string { return []string{r.Name, r.UniqueID} },
		Columns: []Column[row]{
			{Header: "Name", Value: func(r row) string { return r.Name }},
			{Header: "Unique ID", Value: func(r row) string { return r.UniqueID }},
		},
	}
}

func day(d int) time.Time {
	return time.Date(2026, time.August, d, 12, 30, 0, 0, time.Local)
}

func sampleRows() []row {
	return []row{
		{"c1", "p1", "l1", "Asha Verma", "M-001", day(1)},
		{"c1", "p1", "l2", "Bilal Khan", "M-002", day(2)},
		{"c1", "p2", "l3", "Chitra Rao", "M-003", day(3)},
		{"c2", "p9", "l9", "Dev Nair", "M-004", day(4)},
	}
}

func TestMaterialize_NoFiltersReturnsAll(t *testing.T) {
	rows := sampleRows()
	got := testSpec().Materialize(rows, Filter{})
	if !reflect.DeepEqual(got, rows) {
		t.Fatalf("zero filters must return the entire dataset in order, got %v", got)
	}
}

func TestMaterialize_FiltersAreANDed(t *testing.T) {
	rows := sampleRows()
	got := testSpec().Materialize(rows, Filter{
		CompanyID: "c1",
		PlaceIDs:  []string{"p1"},
		Search:    "bilal",
	})
	if len(got) != 1 || got[0].UniqueID != "M-002" {
		t.Fatalf("got %v", got)
	}
}

func TestMaterialize_PlaceSetMembership(t *testing.T) {
	got := testSpec().Materialize(sampleRows(), Filter{PlaceIDs: []string{"p2", "p9"}})
	if len(got) != 2 || got[0].UniqueID != "M-003" || got[1].UniqueID != "M-004" {
		t.Fatalf("got %v", got)
	}
}

func TestMaterialize_DateRangeInclusive(t *testing.T) {
	rows := []row{
		{Company: "c1", UniqueID: "start", When: time.Date(2026, 8, 2, 0, 0, 0, 0, time.Local)},
		{Company: "c1", UniqueID: "end", When: time.Date(2026, 8, 3, 23, 59, 59, 999_000_000, time.Local)},
		{Company: "c1", UniqueID: "before", When: time.Date(2026, 8, 1, 23, 59, 59, 999_999_999, time.Local)},
		{Company: "c1", UniqueID: "after", When: time.Date(2026, 8, 4, 0, 0, 0, 0, time.Local)},
	}
	got := testSpec().Materialize(rows, Filter{
		From: time.Date(2026, 8, 2, 15, 4, 5, 0, time.Local),
		To:   time.Date(2026, 8, 3, 9, 0, 0, 0, time.Local),
	})
	if len(got) != 2 || got[0].UniqueID != "start" || got[1].UniqueID != "end" {
		t.Fatalf("whole-day inclusive bounds broken, got %v", got)
	}
}

func TestMaterialize_SearchAnyFieldCaseInsensitive(t *testing.T) {
	got := testSpec().Materialize(sampleRows(), Filter{Search: "m-00"})
	if len(got) != 4 {
		t.Fatalf("substring of unique id must match every row, got %d", len(got))
	}
	got = testSpec().Materialize(sampleRows(), Filter{Search: "RAO"})
	if len(got) != 1 || got[0].UniqueID != "M-003" {
		t.Fatalf("got %v", got)
	}
	got = testSpec().Materialize(sampleRows(), Filter{Search: "zzz"})
	if len(got) != 0 {
		t.Fatalf("non-matching search must yield empty, got %v", got)
	}
}

func TestMaterialize_Idempotent(t *testing.T) {
	rows := sampleRows()
	f := Filter{CompanyID: "c1"}
	first := testSpec().Materialize(rows, f)
	second := testSpec().Materialize(rows, f)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("same inputs must yield identical row sets")
	}
}

func TestDayBounds(t *testing.T) {
	from := time.Date(2026, 8, 10, 14, 30, 0, 0, time.Local)
	to := time.Date(2026, 8, 12, 1, 2, 3, 0, time.Local)
	start, end := DayBounds(from, to)

	if got := start.Format("15:04:05.000"); got != "00:00:00.000" {
		t.Fatalf("start = %s", got)
	}
	if got := end.Format("15:04:05.000"); got != "23:59:59.999" {
		t.Fatalf("end = %s", got)
	}
	if start.Day() != 10 || end.Day() != 12 {
		t.Fatalf("bounds days: %v .. %v", start, end)
	}
}

func TestMaterialize_StableUnderLargeSets(t *testing.T) {
	rows := make([]row, 0, 100)
	for i := 0; i < 100; i++ {
		rows = append(rows, row{Company: "c1", UniqueID: fmt.Sprintf("M-%03d", i), When: day(1)})
	}
	got := testSpec().Materialize(rows, Filter{CompanyID: "c1"})
	for i, r := range got {
		if r.UniqueID != fmt.Sprintf("M-%03d", i) {
			t.Fatalf("row order changed at %d: %s", i, r.UniqueID)
		}
	}
}
