// Package domain contains core business entities and rules.
package domain

import (
	"strings"
	"time"
)

// Quote represents a short book quotation.
// This is a domain entity - it has no knowledge of external systems.
// The ID is assigned by the storage adapter on creation and is immutable.
type Quote struct {
	// ID is the unique identifier for this quote.
	ID string

	// Text is the quoted passage.
	Text string

	// Author is who wrote the quote.
	Author string

	// Book is the work the quote comes from.
	Book string

	// Category is the lowercase grouping key (e.g. "hope", "wisdom").
	Category string

	// Likes is a monotonically increasing counter, never negative.
	Likes int64

	// CreatedAt and UpdatedAt are set by the storage adapter.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeCategory applies the lowercase invariant so category filtering
// and grouping stay exact-match safe.
func NormalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

// QuoteUpdate describes a partial update. Nil fields are left unchanged.
type QuoteUpdate struct {
	Text     *string
	Author   *string
	Book     *string
	Category *string
	Likes    *int64
}

// Empty reports whether the update would change nothing.
func (u QuoteUpdate) Empty() bool {
	return u.Text == nil && u.Author == nil && u.Book == nil &&
		u.Category == nil && u.Likes == nil
}

// SortField enumerates the fields quotes can be sorted by.
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByLikes     SortField = "likes"
	SortByAuthor    SortField = "author"
	SortByCategory  SortField = "category"
)

// SortOrder is the sort direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// QuoteFilter describes a filtered, sorted, paginated read.
type QuoteFilter struct {
	// Category is an exact-match filter on the lowercase category field.
	// Empty means no category filter.
	Category string

	// Search matches quotes whose text, author, book or category contains
	// the term as a case-insensitive substring. Empty means no search filter.
	Search string

	// SortBy and Order control result ordering. Ties are left to the
	// store's natural order.
	SortBy SortField
	Order  SortOrder

	// Skip and Limit implement offset pagination. Limit <= 0 means no limit.
	Skip  int64
	Limit int64
}

// QuotePage is a bounded page of quotes plus pagination metadata.
type QuotePage struct {
	Quotes     []Quote
	Page       int64
	Limit      int64
	Total      int64
	TotalPages int64
	HasNext    bool
	HasPrev    bool
}

// NewQuotePage computes the pagination envelope for a page of results.
// TotalPages is ceil(total/limit), zero when there are no matches.
func NewQuotePage(quotes []Quote, page, limit, total int64) *QuotePage {
	var totalPages int64
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return &QuotePage{
		Quotes:     quotes,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// CategoryStat is the aggregate for a single category. Categories are derived
// from the quotes themselves - a category with zero quotes cannot exist.
type CategoryStat struct {
	Name       string
	Count      int64
	TotalLikes int64
}

// Stats holds the collection-wide aggregates, all computed from current state.
type Stats struct {
	TotalQuotes     int64
	TotalLikes      int64
	TotalCategories int64
	MostLiked       *Quote
	Categories      []CategoryStat
}
