package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "mixed case", input: "Hope", expected: "hope"},
		{name: "already lowercase", input: "wisdom", expected: "wisdom"},
		{name: "surrounding whitespace", input: "  Life ", expected: "life"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeCategory(tt.input))
		})
	}
}

func TestNewQuotePage(t *testing.T) {
	tests := []struct {
		name       string
		page       int64
		limit      int64
		total      int64
		totalPages int64
		hasNext    bool
		hasPrev    bool
	}{
		{name: "first of many", page: 1, limit: 10, total: 30, totalPages: 3, hasNext: true, hasPrev: false},
		{name: "middle page", page: 2, limit: 10, total: 30, totalPages: 3, hasNext: true, hasPrev: true},
		{name: "last page", page: 3, limit: 10, total: 30, totalPages: 3, hasNext: false, hasPrev: true},
		{name: "past the end", page: 4, limit: 10, total: 30, totalPages: 3, hasNext: false, hasPrev: true},
		{name: "partial last page", page: 3, limit: 10, total: 21, totalPages: 3, hasNext: false, hasPrev: true},
		{name: "empty collection", page: 1, limit: 25, total: 0, totalPages: 0, hasNext: false, hasPrev: false},
		{name: "single item", page: 1, limit: 25, total: 1, totalPages: 1, hasNext: false, hasPrev: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewQuotePage(nil, tt.page, tt.limit, tt.total)

			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, tt.total, p.Total)
			assert.Equal(t, tt.totalPages, p.TotalPages)
			assert.Equal(t, tt.hasNext, p.HasNext)
			assert.Equal(t, tt.hasPrev, p.HasPrev)
		})
	}
}

func TestQuoteUpdate_Empty(t *testing.T) {
	assert.True(t, QuoteUpdate{}.Empty())

	text := "updated"
	assert.False(t, QuoteUpdate{Text: &text}.Empty())

	var likes int64 = 3
	assert.False(t, QuoteUpdate{Likes: &likes}.Empty())
}
