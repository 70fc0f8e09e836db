package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quoteshorts/api/internal/domain"
	"github.com/quoteshorts/api/internal/ports"
)

// ImportReport summarizes a bulk import run.
type ImportReport struct {
	// Fetched is the number of quotes the provider returned.
	Fetched int

	// Imported is the number of quotes written to the store.
	Imported int

	// Skipped is the number of quotes dropped as duplicates.
	Skipped int
}

// Importer loads quotes from an external source into the store.
type Importer struct {
	source ports.QuoteSource
	repo   ports.QuoteRepository
	logger *slog.Logger
}

// ImporterConfig contains the importer's dependencies.
type ImporterConfig struct {
	Source ports.QuoteSource
	Repo   ports.QuoteRepository
	Logger *slog.Logger
}

// NewImporter creates an importer. Panics if Source or Repo is nil.
// Defaults logger to slog.Default() if nil.
func NewImporter(cfg ImporterConfig) *Importer {
	if cfg.Source == nil {
		panic("Importer: Source is required")
	}

	if cfg.Repo == nil {
		panic("Importer: Repo is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Importer{
		source: cfg.Source,
		repo:   cfg.Repo,
		logger: logger,
	}
}

// Run fetches up to limit quotes from the source and inserts the ones
// not already present. A quote counts as present when its exact text
// already appears in the store.
func (i *Importer) Run(ctx context.Context, limit int) (*ImportReport, error) {
	quotes, err := i.source.FetchQuotes(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching quotes: %w", err)
	}

	report := &ImportReport{Fetched: len(quotes)}

	for idx := range quotes {
		quote := &quotes[idx]

		exists, err := i.exists(ctx, quote.Text)
		if err != nil {
			return report, fmt.Errorf("checking for duplicate: %w", err)
		}

		if exists {
			report.Skipped++
			continue
		}

		if _, err := i.repo.Insert(ctx, quote); err != nil {
			return report, fmt.Errorf("inserting quote: %w", err)
		}

		report.Imported++
	}

	i.logger.Info("import finished",
		slog.Int("fetched", report.Fetched),
		slog.Int("imported", report.Imported),
		slog.Int("skipped", report.Skipped),
	)

	return report, nil
}

// exists reports whether a quote with the given text is already
// stored. The substring search matches the full text against itself,
// so an exact copy always counts.
func (i *Importer) exists(ctx context.Context, text string) (bool, error) {
	count, err := i.repo.Count(ctx, domain.QuoteFilter{Search: text})
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
