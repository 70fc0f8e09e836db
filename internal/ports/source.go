package ports

import (
	"context"

	"github.com/quoteshorts/api/internal/domain"
)

// QuoteSource fetches quotes from an external provider for bulk
// loading. Implementations translate provider payloads to domain
// quotes; callers never see provider DTOs.
type QuoteSource interface {
	// FetchQuotes returns up to limit quotes from the provider. Fewer
	// may be returned when the provider is exhausted.
	FetchQuotes(ctx context.Context, limit int) ([]domain.Quote, error)
}
