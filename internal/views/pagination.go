package views

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination is a 1-based page request.
type Pagination struct {
	Page  int
	Limit int
}

// NewPagination falls back to page 1 and limit 10 for absent or invalid values
// and caps the limit at MaxLimit.
func NewPagination(page, limit int) Pagination {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages is ceil(total / limit).
func (p Pagination) TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}

// Paginated carries the limit actually applied, which differs from the
// requested one when it was missing, invalid or above MaxLimit.
type Paginated[T any] struct {
	Items       []T   `json:"items"`
	Total       int64 `json:"total"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	Limit       int   `json:"limit"`
}

// NewPaginated never returns a nil Items slice so it encodes as [].
func NewPaginated[T any](items []T, total int64, p Pagination) Paginated[T] {
	if items == nil {
		items = []T{}
	}
	return Paginated[T]{
		Items:       items,
		Total:       total,
		CurrentPage: p.Page,
		TotalPages:  p.TotalPages(total),
		Limit:       p.Limit,
	}
}
