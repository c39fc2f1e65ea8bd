package report

import "testing"

func intRows(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestParsePageSize(t *testing.T) {
	for _, ok := range []string{"10", "20", "50", "ALL", "all", ""} {
		if _, err := ParsePageSize(ok); err != nil {
			t.Fatalf("ParsePageSize(%q): %v", ok, err)
		}
	}
	for _, bad := range []string{"15", "0", "-10", "nope"} {
		if _, err := ParsePageSize(bad); err == nil {
			t.Fatalf("ParsePageSize(%q) must fail", bad)
		}
	}

	all, _ := ParsePageSize("")
	if !all.IsAll() || all.String() != PageSizeAll {
		t.Fatalf("empty input must default to ALL, got %s", all)
	}
}

func TestPaginate_25RowsSize10(t *testing.T) {
	size, _ := ParsePageSize("10")

	p := Paginate(intRows(25), 1, size)
	if p.TotalPages != 3 || p.Total != 25 || len(p.Rows) != 10 || p.Rows[0] != 0 {
		t.Fatalf("page 1: %+v", p)
	}

	p = Paginate(intRows(25), 3, size)
	if len(p.Rows) != 5 || p.Rows[0] != 20 {
		t.Fatalf("page 3: %+v", p)
	}
}

func TestPaginate_ClampsOutOfRange(t *testing.T) {
	size, _ := ParsePageSize("10")

	p := Paginate(intRows(25), 4, size)
	if p.Number != 3 || len(p.Rows) != 5 {
		t.Fatalf("past-the-end page must clamp to the last page: %+v", p)
	}

	p = Paginate(intRows(25), 0, size)
	if p.Number != 1 {
		t.Fatalf("page below 1 must clamp to 1: %+v", p)
	}
}

func TestPaginate_EmptyRows(t *testing.T) {
	size, _ := ParsePageSize("20")
	p := Paginate([]int{}, 1, size)
	if p.TotalPages != 1 || p.Number != 1 || len(p.Rows) != 0 {
		t.Fatalf("empty set must still report one page: %+v", p)
	}
}

func TestPaginate_All(t *testing.T) {
	size, _ := ParsePageSize("ALL")
	p := Paginate(intRows(137), 5, size)
	if p.TotalPages != 1 || p.Number != 1 || len(p.Rows) != 137 {
		t.Fatalf("ALL must return everything on one page: %+v", p)
	}
}
