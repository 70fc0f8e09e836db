// Package app contains application services that orchestrate use cases.
// This is the application layer in Clean Architecture - it coordinates
// domain logic and infrastructure through ports.
package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/quoteshorts/api/internal/domain"
	"github.com/quoteshorts/api/internal/ports"
)

// Pagination defaults. The HTTP layer validates bounds (page >= 1,
// limit in [1,100]); the service only fills in zero values.
const (
	// DefaultListLimit is the page size for quote listings.
	DefaultListLimit = 25

	// DefaultSearchLimit is the page size for search results.
	DefaultSearchLimit = 10

	// DefaultTopLimit is the number of most-liked quotes returned.
	DefaultTopLimit = 10
)

// QuoteService orchestrates the quote browsing and mutation use cases.
// It depends on the repository port, not a concrete store.
type QuoteService struct {
	repo   ports.QuoteRepository
	logger *slog.Logger
}

// QuoteServiceConfig contains configuration for the quote service.
type QuoteServiceConfig struct {
	Repo   ports.QuoteRepository
	Logger *slog.Logger
}

// NewQuoteService creates a new quote service with the provided dependencies.
// Panics if Repo is nil. Defaults logger to slog.Default() if nil.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Repo == nil {
		panic("QuoteService: Repo is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteService{
		repo:   cfg.Repo,
		logger: logger,
	}
}

// ListOptions are the normalized inputs for a quote listing.
type ListOptions struct {
	Page      int64
	Limit     int64
	Category  string
	SortBy    domain.SortField
	SortOrder domain.SortOrder
}

// withDefaults fills zero values with the listing defaults.
func (o ListOptions) withDefaults() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}

	if o.Limit < 1 {
		o.Limit = DefaultListLimit
	}

	if o.SortBy == "" {
		o.SortBy = domain.SortByCreatedAt
	}

	if o.SortOrder == "" {
		o.SortOrder = domain.SortDesc
	}

	o.Category = domain.NormalizeCategory(o.Category)

	return o
}

// ListQuotes returns one page of quotes, optionally filtered by category.
// The page read and the total count run concurrently against the store.
func (s *QuoteService) ListQuotes(ctx context.Context, opts ListOptions) (*domain.QuotePage, error) {
	opts = opts.withDefaults()

	filter := domain.QuoteFilter{
		Category: opts.Category,
		SortBy:   opts.SortBy,
		Order:    opts.SortOrder,
		Skip:     (opts.Page - 1) * opts.Limit,
		Limit:    opts.Limit,
	}

	quotes, total, err := Parallel2(ctx,
		func(ctx context.Context) ([]domain.Quote, error) { return s.repo.Find(ctx, filter) },
		func(ctx context.Context) (int64, error) { return s.repo.Count(ctx, filter) },
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list quotes", slog.Any("error", err))
		return nil, err
	}

	return domain.NewQuotePage(quotes, opts.Page, opts.Limit, total), nil
}

// GetQuoteByID retrieves a specific quote by its identifier.
func (s *QuoteService) GetQuoteByID(ctx context.Context, id string) (*domain.Quote, error) {
	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return quote, nil
}

// GetRandomQuote picks one quote uniformly at random, optionally restricted
// to a category. Uniformity is the store's responsibility (a collection-level
// sample, never a random page offset).
func (s *QuoteService) GetRandomQuote(ctx context.Context, category string) (*domain.Quote, error) {
	quote, err := s.repo.Sample(ctx, domain.NormalizeCategory(category))
	if err != nil {
		return nil, err
	}

	return quote, nil
}

// SearchQuotes returns quotes whose text, author, book or category contains
// the query as a case-insensitive substring, sorted by likes descending.
// An empty query is a client error, not an empty result.
func (s *QuoteService) SearchQuotes(ctx context.Context, query string, page, limit int64) (*domain.QuotePage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError("q", "search query is required")
	}

	if page < 1 {
		page = 1
	}

	if limit < 1 {
		limit = DefaultSearchLimit
	}

	filter := domain.QuoteFilter{
		Search: query,
		SortBy: domain.SortByLikes,
		Order:  domain.SortDesc,
		Skip:   (page - 1) * limit,
		Limit:  limit,
	}

	quotes, total, err := Parallel2(ctx,
		func(ctx context.Context) ([]domain.Quote, error) { return s.repo.Find(ctx, filter) },
		func(ctx context.Context) (int64, error) { return s.repo.Count(ctx, filter) },
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to search quotes",
			slog.String("query", query),
			slog.Any("error", err),
		)

		return nil, err
	}

	return domain.NewQuotePage(quotes, page, limit, total), nil
}

// MostLikedQuotes returns up to limit quotes ordered by likes descending.
func (s *QuoteService) MostLikedQuotes(ctx context.Context, limit int64) ([]domain.Quote, error) {
	if limit < 1 {
		limit = DefaultTopLimit
	}

	return s.repo.MostLiked(ctx, limit)
}

// QuotesByCategory returns one page of a category's quotes, likes descending.
func (s *QuoteService) QuotesByCategory(ctx context.Context, category string, page, limit int64) (*domain.QuotePage, error) {
	if page < 1 {
		page = 1
	}

	if limit < 1 {
		limit = DefaultSearchLimit
	}

	filter := domain.QuoteFilter{
		Category: domain.NormalizeCategory(category),
		SortBy:   domain.SortByLikes,
		Order:    domain.SortDesc,
		Skip:     (page - 1) * limit,
		Limit:    limit,
	}

	quotes, total, err := Parallel2(ctx,
		func(ctx context.Context) ([]domain.Quote, error) { return s.repo.Find(ctx, filter) },
		func(ctx context.Context) (int64, error) { return s.repo.Count(ctx, filter) },
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list category quotes",
			slog.String("category", category),
			slog.Any("error", err),
		)

		return nil, err
	}

	return domain.NewQuotePage(quotes, page, limit, total), nil
}

// CreateQuote validates and persists a new quote. Field length bounds are
// the HTTP layer's job; the service enforces its own invariants: required
// fields present, likes never negative, category stored lowercase.
func (s *QuoteService) CreateQuote(ctx context.Context, quote domain.Quote) (*domain.Quote, error) {
	switch {
	case strings.TrimSpace(quote.Text) == "":
		return nil, domain.NewValidationError("text", "is required")
	case strings.TrimSpace(quote.Author) == "":
		return nil, domain.NewValidationError("author", "is required")
	case strings.TrimSpace(quote.Book) == "":
		return nil, domain.NewValidationError("book", "is required")
	case strings.TrimSpace(quote.Category) == "":
		return nil, domain.NewValidationError("category", "is required")
	case quote.Likes < 0:
		return nil, domain.NewValidationError("likes", "must not be negative")
	}

	quote.Category = domain.NormalizeCategory(quote.Category)

	created, err := s.repo.Insert(ctx, &quote)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create quote", slog.Any("error", err))
		return nil, err
	}

	s.logger.InfoContext(ctx, "quote created",
		slog.String("quote_id", created.ID),
		slog.String("category", created.Category),
	)

	return created, nil
}

// UpdateQuote applies the supplied fields to an existing quote. Category
// casing is normalized silently; a likes value below zero is rejected.
func (s *QuoteService) UpdateQuote(ctx context.Context, id string, update domain.QuoteUpdate) (*domain.Quote, error) {
	if update.Empty() {
		return nil, domain.NewValidationError("", "no fields to update")
	}

	if update.Likes != nil && *update.Likes < 0 {
		return nil, domain.NewValidationError("likes", "must not be negative")
	}

	if update.Category != nil {
		normalized := domain.NormalizeCategory(*update.Category)
		update.Category = &normalized
	}

	updated, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "quote updated", slog.String("quote_id", updated.ID))

	return updated, nil
}

// IncrementLikes adds exactly 1 to a quote's like counter via the store's
// atomic increment, so concurrent likes are never lost. There is no unlike.
func (s *QuoteService) IncrementLikes(ctx context.Context, id string) (*domain.Quote, error) {
	quote, err := s.repo.IncrementLikes(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "quote liked",
		slog.String("quote_id", quote.ID),
		slog.Int64("likes", quote.Likes),
	)

	return quote, nil
}

// DeleteQuote permanently removes a quote. Deletion is unconditional;
// quotes have no dependents.
func (s *QuoteService) DeleteQuote(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "quote deleted", slog.String("quote_id", id))

	return nil
}
