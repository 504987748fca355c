package blog

import (
	"strconv"
	"strings"
)

// DefaultPageSize is the number of posts on every listing page
const DefaultPageSize = 10

// PageInfo describes one page of a listing
type PageInfo struct {
	Number      int   `json:"number"`
	NumPages    int   `json:"num_pages"`
	Size        int   `json:"size"`
	Total       int64 `json:"total"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// Offset returns the index of the first item on the page
func (p PageInfo) Offset() int {
	return (p.Number - 1) * p.Size
}

// Paginate splits total items into pages of size and picks the requested
// 1-based page. Out-of-range requests clamp to the nearest valid page and an
// empty listing still has one (empty) page.
func Paginate(total int64, size, requested int) PageInfo {
	if size < 1 {
		size = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}

	numPages := int((total + int64(size) - 1) / int64(size))
	if numPages < 1 {
		numPages = 1
	}

	number := requested
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	return PageInfo{
		Number:      number,
		NumPages:    numPages,
		Size:        size,
		Total:       total,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
	}
}

// ParsePage reads a page query value; anything that is not a number is page 1
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return n
}
