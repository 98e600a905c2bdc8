package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults applied", 0, 0, 1, DefaultLimit, 0},
		{"negative page clamped", -5, 10, 1, 10, 0},
		{"limit capped at max", 2, 500, 2, MaxLimit, MaxLimit},
		{"normal values pass through", 3, 20, 3, 20, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOffset, p.Offset)
		})
	}
}

func TestGetMeta(t *testing.T) {
	t.Run("partial last page rounds up", func(t *testing.T) {
		meta := GetMeta(New(1, 20), 45)
		assert.Equal(t, 3, meta.TotalPages)
		assert.True(t, meta.HasNext)
		assert.False(t, meta.HasPrev)
	})

	t.Run("middle page has both directions", func(t *testing.T) {
		meta := GetMeta(New(2, 20), 45)
		assert.True(t, meta.HasNext)
		assert.True(t, meta.HasPrev)
	})

	t.Run("last page has no next", func(t *testing.T) {
		meta := GetMeta(New(3, 20), 45)
		assert.False(t, meta.HasNext)
		assert.True(t, meta.HasPrev)
	})

	t.Run("empty result", func(t *testing.T) {
		meta := GetMeta(New(1, 20), 0)
		assert.Equal(t, 0, meta.TotalPages)
		assert.False(t, meta.HasNext)
		assert.False(t, meta.HasPrev)
	})
}
