package views

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaginationDefaults(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, Limit: 10}, NewPagination(0, 0))
	assert.Equal(t, Pagination{Page: 1, Limit: 10}, NewPagination(-3, -1))
	assert.Equal(t, Pagination{Page: 4, Limit: 25}, NewPagination(4, 25))
	assert.Equal(t, MaxLimit, NewPagination(1, 5000).Limit)
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{15, 10, 2},
		{21, 7, 3},
	}
	for _, tt := range tests {
		p := NewPagination(1, tt.limit)
		assert.Equal(t, tt.want, p.TotalPages(tt.total), "total=%d limit=%d", tt.total, tt.limit)
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, NewPagination(1, 10).Offset())
	assert.Equal(t, 20, NewPagination(3, 10).Offset())
}

func TestNewPaginatedEncodesEmptyItems(t *testing.T) {
	page := NewPaginated[QuestionView](nil, 0, NewPagination(1, 10))

	raw, err := json.Marshal(page)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"total":0,"currentPage":1,"totalPages":0,"limit":10}`, string(raw))
}

func TestPaginatedReportsAppliedLimit(t *testing.T) {
	page := NewPaginated([]int{1, 2}, 250, NewPagination(1, 5000))
	assert.Equal(t, MaxLimit, page.Limit)
	assert.Equal(t, 3, page.TotalPages)

	page = NewPaginated([]int{1}, 1, NewPagination(1, 0))
	assert.Equal(t, DefaultLimit, page.Limit)
}
