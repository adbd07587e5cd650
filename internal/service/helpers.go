package service

import "math"

// clampPage maps any page below 1 to the first page and caps it so that
// (page-1)*size stays within an int.
func clampPage(page, size int) int {
	if page < 1 {
		return 1
	}
	if size > 0 && page > math.MaxInt/size {
		return math.MaxInt / size
	}
	return page
}

// totalPages returns ceil(total/size); an empty table still has no pages.
func totalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
