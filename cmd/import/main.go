// Command import pulls quotes from the configured external provider
// and loads them into the quote store, skipping duplicates.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/quoteshorts/api/internal/adapters/importer"
	"github.com/quoteshorts/api/internal/adapters/memory"
	"github.com/quoteshorts/api/internal/adapters/mongodb"
	"github.com/quoteshorts/api/internal/app"
	"github.com/quoteshorts/api/internal/platform/config"
	"github.com/quoteshorts/api/internal/platform/logging"
	"github.com/quoteshorts/api/internal/ports"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	limitFlag := flag.Int("limit", 0, "maximum quotes to import (overrides config)")
	flag.Parse()

	ctx := context.Background()

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
	})

	repo, cleanup, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}

	defer cleanup()

	client, err := importer.NewClient(&importer.ClientConfig{
		BaseURL:      cfg.Importer.SourceURL,
		ProviderName: "quotable",
		Timeout:      cfg.Importer.Timeout,
		Retry: importer.RetryConfig{
			MaxAttempts:     cfg.Importer.Retry.MaxAttempts,
			InitialInterval: cfg.Importer.Retry.InitialInterval,
			MaxInterval:     cfg.Importer.Retry.MaxInterval,
			Multiplier:      cfg.Importer.Retry.Multiplier,
		},
		Breaker: importer.BreakerConfig{
			MaxFailures:   cfg.Importer.Breaker.MaxFailures,
			Cooldown:      cfg.Importer.Breaker.Cooldown,
			HalfOpenLimit: cfg.Importer.Breaker.HalfOpenLimit,
		},
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("creating provider client: %w", err)
	}

	source := importer.NewQuotableSource(client, logger)

	imp := app.NewImporter(app.ImporterConfig{
		Source: source,
		Repo:   repo,
		Logger: logger,
	})

	limit := cfg.Importer.Limit
	if *limitFlag > 0 {
		limit = *limitFlag
	}

	report, err := imp.Run(ctx, limit)
	if err != nil {
		return err
	}

	fmt.Printf("fetched %d, imported %d, skipped %d\n", report.Fetched, report.Imported, report.Skipped)

	return nil
}

// openRepository opens the store selected by storage.driver. Importing
// into the memory store is only useful for smoke testing the provider.
func openRepository(ctx context.Context, cfg *config.Config) (ports.QuoteRepository, func(), error) {
	if cfg.Storage.Driver != "mongo" {
		return memory.New(), func() {}, nil
	}

	timeout := cfg.Storage.Mongo.ConnectTimeout
	if timeout <= 0 {
		timeout = config.DefaultMongoTimeout
	}

	client, err := mongodb.Connect(ctx, cfg.Storage.Mongo.URI, timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	cleanup := func() {
		_ = client.Disconnect(context.Background())
	}

	collection := cfg.Storage.Mongo.Collection
	if collection == "" {
		collection = mongodb.DefaultCollection
	}

	repo := mongodb.NewRepository(client.Database(cfg.Storage.Mongo.Database).Collection(collection))

	if err := repo.EnsureIndexes(ctx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("ensuring mongodb indexes: %w", err)
	}

	return repo, cleanup, nil
}
