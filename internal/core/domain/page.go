// internal/core/domain/page.go
package domain

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Page is one page of a paginated listing.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPage computes TotalPages from total and limit. Items is never nil.
func NewPage[T any](items []T, page, limit int, total int64) *Page[T] {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Items: items, Page: page, Limit: limit, Total: total, TotalPages: pages}
}

func normalizePaging(page, limit *int) {
	if *page < 1 {
		*page = 1
	}
	if *limit < 1 || *limit > maxPageLimit {
		*limit = defaultPageLimit
	}
}
