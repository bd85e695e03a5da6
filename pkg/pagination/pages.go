package pagination

// TotalPages returns ceil(n / pageSize), never less than 1.
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 || n <= 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// Clamp bounds page to [1, max(1, totalPages)].
func Clamp(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Bounds returns the half-open [start, end) range of page within a collection
// of n entries. Pages past the end yield an empty range at n.
func Bounds(page, pageSize, n int) (start, end int) {
	if page < 1 || pageSize <= 0 {
		return 0, 0
	}
	start = (page - 1) * pageSize
	if start > n {
		start = n
	}
	end = start + pageSize
	if end > n {
		end = n
	}
	return start, end
}

// Slice returns the entries of items that belong to page.
// The result shares the backing array of items.
func Slice[T any](items []T, page, pageSize int) []T {
	start, end := Bounds(page, pageSize, len(items))
	return items[start:end]
}
