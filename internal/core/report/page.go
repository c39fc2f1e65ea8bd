package report

import (
	"fmt"
	"strings"
)

// PageSizeAll is the sentinel page size meaning one page with every row.
const PageSizeAll = "ALL"

// PageSize is a validated page-size selection: one of the literal sizes or
// the ALL sentinel.
type PageSize struct {
	all bool
	n   int
}

var pageSizes = map[string]int{"10": 10, "20": 20, "50": 50}

// ParsePageSize accepts "10", "20", "50", or "ALL" (case-insensitive).
// Empty input defaults to ALL.
func ParsePageSize(s string) (PageSize, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, PageSizeAll) {
		return PageSize{all: true}, nil
	}
	if n, ok := pageSizes[s]; ok {
		return PageSize{n: n}, nil
	}
	return PageSize{}, fmt.Errorf("invalid page size %q: must be 10, 20, 50 or ALL", s)
}

func (p PageSize) IsAll() bool { return p.all }

func (p PageSize) String() string {
	if p.all {
		return PageSizeAll
	}
	return fmt.Sprintf("%d", p.n)
}

// Page is one page of a materialized row set.
type Page[R any] struct {
	Rows       []R
	Number     int
	TotalPages int
	Total      int
	Size       PageSize
}

// Paginate slices rows into the requested page. totalPages is
// max(1, ceil(len(rows)/size)) and the page number is clamped to
// [1, totalPages], so requesting a page past the end returns the last page.
func Paginate[R any](rows []R, page int, size PageSize) Page[R] {
	total := len(rows)

	if size.IsAll() {
		return Page[R]{Rows: rows, Number: 1, TotalPages: 1, Total: total, Size: size}
	}

	totalPages := (total + size.n - 1) / size.n
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size.n
	if start > total {
		start = total
	}
	end := start + size.n
	if end > total {
		end = total
	}

	return Page[R]{Rows: rows[start:end], Number: page, TotalPages: totalPages, Total: total, Size: size}
}
