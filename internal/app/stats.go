package app

import (
	"context"
	"log/slog"

	"github.com/quoteshorts/api/internal/domain"
)

// ListCategories returns the distinct categories with their member counts,
// ordered by count descending. Categories are derived from the quotes, so
// deleting the last quote of a category removes it from this list.
func (s *QuoteService) ListCategories(ctx context.Context) ([]domain.CategoryStat, error) {
	return s.repo.CategoryStats(ctx)
}

// GetStats computes the collection-wide aggregates. The four independent
// reads fan out concurrently; every value reflects current state at call
// time, with no caching.
func (s *QuoteService) GetStats(ctx context.Context) (*domain.Stats, error) {
	total, totalLikes, top, categories, err := Parallel4(ctx,
		func(ctx context.Context) (int64, error) {
			return s.repo.Count(ctx, domain.QuoteFilter{})
		},
		func(ctx context.Context) (int64, error) {
			return s.repo.SumLikes(ctx)
		},
		func(ctx context.Context) ([]domain.Quote, error) {
			return s.repo.MostLiked(ctx, 1)
		},
		func(ctx context.Context) ([]domain.CategoryStat, error) {
			return s.repo.CategoryStats(ctx)
		},
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to compute stats", slog.Any("error", err))
		return nil, err
	}

	stats := &domain.Stats{
		TotalQuotes:     total,
		TotalLikes:      totalLikes,
		TotalCategories: int64(len(categories)),
		Categories:      categories,
	}

	if len(top) > 0 {
		stats.MostLiked = &top[0]
	}

	return stats, nil
}
