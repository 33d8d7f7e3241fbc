package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_FirstOfMany(t *testing.T) {
	page := New([]int{1, 2, 3}, 0, 3, 7)

	assert.Equal(t, []int{1, 2, 3}, page.Content)
	assert.Equal(t, 0, page.Page)
	assert.Equal(t, 3, page.Size)
	assert.Equal(t, int64(7), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.First)
	assert.False(t, page.Last)
}

func TestNew_LastPartialPage(t *testing.T) {
	page := New([]int{7}, 2, 3, 7)

	assert.Equal(t, 3, page.TotalPages)
	assert.False(t, page.First)
	assert.True(t, page.Last)
}

func TestNew_Empty(t *testing.T) {
	page := New[int](nil, 0, 10, 0)

	assert.NotNil(t, page.Content)
	assert.Empty(t, page.Content)
	assert.Equal(t, 0, page.TotalPages)
	assert.True(t, page.First)
	assert.True(t, page.Last)
}

func TestNew_ExactMultiple(t *testing.T) {
	page := New([]int{4, 5, 6}, 1, 3, 6)

	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.Last)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(0, 10))
	assert.Equal(t, 20, Offset(2, 10))
}
