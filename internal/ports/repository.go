// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrValidation, ...)
//   - Keep interfaces small and focused
package ports

import (
	"context"

	"github.com/quoteshorts/api/internal/domain"
)

// QuoteRepository is the storage port for the quote collection.
// Implementations: the MongoDB adapter (production) and the in-memory
// adapter (local profile and unit tests). Both must expose identical
// observable semantics so tests against one hold for the other.
type QuoteRepository interface {
	// Find returns quotes matching the filter, sorted and windowed by
	// Skip/Limit. Ties within a sort key follow the store's natural order.
	Find(ctx context.Context, filter domain.QuoteFilter) ([]domain.Quote, error)

	// Count returns the number of quotes matching the filter, ignoring
	// Skip/Limit.
	Count(ctx context.Context, filter domain.QuoteFilter) (int64, error)

	// GetByID retrieves a quote by identifier.
	// Returns domain.ErrValidation for a malformed id and
	// domain.ErrNotFound when no quote has that id.
	GetByID(ctx context.Context, id string) (*domain.Quote, error)

	// Sample returns one quote chosen uniformly at random from the set
	// matching category (all quotes when category is empty).
	// Returns domain.ErrNotFound when the set is empty.
	Sample(ctx context.Context, category string) (*domain.Quote, error)

	// Insert persists a new quote, assigning its ID and timestamps, and
	// returns the stored record.
	Insert(ctx context.Context, quote *domain.Quote) (*domain.Quote, error)

	// Update applies the non-nil fields of the update to the quote and
	// returns the updated record. UpdatedAt is refreshed by the store.
	Update(ctx context.Context, id string, update domain.QuoteUpdate) (*domain.Quote, error)

	// IncrementLikes atomically adds 1 to the quote's like counter and
	// returns the updated record. Concurrent calls must all be reflected.
	IncrementLikes(ctx context.Context, id string) (*domain.Quote, error)

	// Delete permanently removes a quote. Returns domain.ErrNotFound when
	// no quote has that id.
	Delete(ctx context.Context, id string) error

	// SumLikes returns the sum of likes across all quotes.
	SumLikes(ctx context.Context) (int64, error)

	// MostLiked returns up to limit quotes ordered by likes descending.
	MostLiked(ctx context.Context, limit int64) ([]domain.Quote, error)

	// CategoryStats groups quotes by category, returning per-category
	// count and like totals ordered by count descending.
	CategoryStats(ctx context.Context) ([]domain.CategoryStat, error)
}
