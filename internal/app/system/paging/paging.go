// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows shown in paged lists.
const PageSize = 50

// ParseStart extracts the human-friendly "start" query parameter (1-based index).
// Returns 1 if not present or invalid.
func ParseStart(r *http.Request) int {
	s := query.Get(r, "start")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Window is an offset/limit pair for one page. Limit fetches one extra row
// so the caller can tell whether a next page exists.
type Window struct {
	Start  int
	Offset int64
	Limit  int64
}

// WindowAt returns the window for the page beginning at start (1-based).
func WindowAt(start int) Window {
	if start < 1 {
		start = 1
	}
	return Window{Start: start, Offset: int64(start - 1), Limit: int64(PageSize + 1)}
}

// FromRequest reads "start" and returns its window.
func FromRequest(r *http.Request) Window {
	return WindowAt(ParseStart(r))
}

// Trim cuts a look-ahead fetch down to PageSize and reports whether a
// next page exists.
func Trim[T any](rows *[]T) (hasNext bool) {
	if len(*rows) > PageSize {
		*rows = (*rows)[:PageSize]
		return true
	}
	return false
}

// Range holds computed display range values for a paginated list.
type Range struct {
	Start     int // 1-based start index (0 if no results)
	End       int // 1-based end index (0 if no results)
	PrevStart int // start value for previous page link
	NextStart int // start value for next page link
	HasPrev   bool
	HasNext   bool
}

// ComputeRange calculates display range values given the current start
// index, the number of items shown and whether more rows follow.
func ComputeRange(start, shown int, hasNext bool) Range {
	if shown == 0 {
		return Range{PrevStart: 1, NextStart: 1, HasPrev: start > 1}
	}

	prevStart := start - PageSize
	if prevStart < 1 {
		prevStart = 1
	}

	return Range{
		Start:     start,
		End:       start + shown - 1,
		PrevStart: prevStart,
		NextStart: start + shown,
		HasPrev:   start > 1,
		HasNext:   hasNext,
	}
}
