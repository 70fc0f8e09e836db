package dto

import (
	"time"

	"github.com/quoteshorts/api/internal/domain"
)

// QuoteResponse is the wire shape of a quote.
type QuoteResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	Book      string    `json:"book"`
	Category  string    `json:"category"`
	Likes     int64     `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// QuoteFromDomain converts a domain quote to its wire shape.
func QuoteFromDomain(q *domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:        q.ID,
		Text:      q.Text,
		Author:    q.Author,
		Book:      q.Book,
		Category:  q.Category,
		Likes:     q.Likes,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}

// QuotesFromDomain converts a slice of domain quotes. Always returns a
// non-nil slice so empty results encode as [] rather than null.
func QuotesFromDomain(quotes []domain.Quote) []QuoteResponse {
	out := make([]QuoteResponse, 0, len(quotes))
	for i := range quotes {
		out = append(out, QuoteFromDomain(&quotes[i]))
	}

	return out
}

// CreateQuoteRequest is the body for creating a quote.
type CreateQuoteRequest struct {
	Text     string `json:"text" validate:"required,notempty,min=10,max=1000"`
	Author   string `json:"author" validate:"required,notempty,min=2,max=100"`
	Book     string `json:"book" validate:"required,notempty,min=1,max=200"`
	Category string `json:"category" validate:"required,notempty,min=2,max=50"`
	Likes    int64  `json:"likes" validate:"omitempty,gte=0"`
}

// ToDomain converts the request to a domain quote.
func (r *CreateQuoteRequest) ToDomain() domain.Quote {
	return domain.Quote{
		Text:     r.Text,
		Author:   r.Author,
		Book:     r.Book,
		Category: r.Category,
		Likes:    r.Likes,
	}
}

// UpdateQuoteRequest is the body for a partial quote update. Absent fields
// are left untouched.
type UpdateQuoteRequest struct {
	Text     *string `json:"text" validate:"omitempty,notempty,min=10,max=1000"`
	Author   *string `json:"author" validate:"omitempty,notempty,min=2,max=100"`
	Book     *string `json:"book" validate:"omitempty,notempty,min=1,max=200"`
	Category *string `json:"category" validate:"omitempty,notempty,min=2,max=50"`
	Likes    *int64  `json:"likes" validate:"omitempty,gte=0"`
}

// ToDomain converts the request to a domain update.
func (r *UpdateQuoteRequest) ToDomain() domain.QuoteUpdate {
	return domain.QuoteUpdate{
		Text:     r.Text,
		Author:   r.Author,
		Book:     r.Book,
		Category: r.Category,
		Likes:    r.Likes,
	}
}

// ListQuotesQuery holds the query parameters for quote listings.
type ListQuotesQuery struct {
	Page      int64  `form:"page" validate:"omitempty,gte=1"`
	Limit     int64  `form:"limit" validate:"omitempty,gte=1,lte=100"`
	Category  string `form:"category"`
	SortBy    string `form:"sortBy" validate:"omitempty,oneof=createdAt likes author category"`
	SortOrder string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// SearchQuotesQuery holds the query parameters for quote search.
type SearchQuotesQuery struct {
	Q     string `form:"q" validate:"required,notempty"`
	Page  int64  `form:"page" validate:"omitempty,gte=1"`
	Limit int64  `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

// PageQuery holds bare pagination query parameters.
type PageQuery struct {
	Page  int64 `form:"page" validate:"omitempty,gte=1"`
	Limit int64 `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

// TopQuotesQuery holds the query parameters for the most-liked listing.
type TopQuotesQuery struct {
	Limit int64 `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

// CategoryResponse is the wire shape of a category with its aggregates.
type CategoryResponse struct {
	Name       string `json:"name"`
	Count      int64  `json:"count"`
	TotalLikes int64  `json:"totalLikes"`
}

// CategoriesFromDomain converts category stats to their wire shape.
func CategoriesFromDomain(stats []domain.CategoryStat) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(stats))
	for _, s := range stats {
		out = append(out, CategoryResponse{
			Name:       s.Name,
			Count:      s.Count,
			TotalLikes: s.TotalLikes,
		})
	}

	return out
}

// StatsResponse is the wire shape of the collection-wide aggregates.
type StatsResponse struct {
	TotalQuotes     int64              `json:"totalQuotes"`
	TotalLikes      int64              `json:"totalLikes"`
	TotalCategories int64              `json:"totalCategories"`
	MostLiked       *QuoteResponse     `json:"mostLikedQuote"`
	Categories      []CategoryResponse `json:"categories"`
}

// StatsFromDomain converts domain stats to their wire shape.
func StatsFromDomain(stats *domain.Stats) StatsResponse {
	out := StatsResponse{
		TotalQuotes:     stats.TotalQuotes,
		TotalLikes:      stats.TotalLikes,
		TotalCategories: stats.TotalCategories,
		Categories:      CategoriesFromDomain(stats.Categories),
	}

	if stats.MostLiked != nil {
		q := QuoteFromDomain(stats.MostLiked)
		out.MostLiked = &q
	}

	return out
}
