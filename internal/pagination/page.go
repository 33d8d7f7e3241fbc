package pagination

// Page wraps a result slice with the metadata the listing endpoints expose.
// An empty page is a valid response, not an error.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// New derives page metadata from the backing store's count and slice.
// page is zero-based.
func New[T any](content []T, page, size int, totalElements int64) Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 0
	if size > 0 {
		totalPages = int((totalElements + int64(size) - 1) / int64(size))
	}

	return Page[T]{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: totalElements,
		TotalPages:    totalPages,
		First:         page == 0,
		Last:          page >= totalPages-1,
	}
}

// Offset converts a zero-based page index into a row offset.
func Offset(page, size int) int {
	return page * size
}
