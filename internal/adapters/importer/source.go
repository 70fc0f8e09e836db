package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/quoteshorts/api/internal/domain"
)

const (
	// providerPageSize is the page size requested from the provider.
	providerPageSize = 50

	// Text bounds mirror the create-quote validation rules. Provider
	// entries outside them are skipped rather than rejected wholesale.
	minTextLength = 10
	maxTextLength = 1000

	// defaultBook stands in when the provider has no source work for a
	// quote. It matches the convention used by the sample data set.
	defaultBook = "Various Writings"

	// defaultCategory is used for provider entries with no tags.
	defaultCategory = "wisdom"
)

// quotableQuote is the provider's quote DTO. It never leaves this
// package.
type quotableQuote struct {
	ID      string   `json:"_id"`
	Content string   `json:"content"`
	Author  string   `json:"author"`
	Tags    []string `json:"tags"`
	Length  int      `json:"length"`
}

// quotableListResponse is the provider's paginated list envelope.
type quotableListResponse struct {
	Count      int             `json:"count"`
	TotalCount int             `json:"totalCount"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
	Results    []quotableQuote `json:"results"`
}

// QuotableSource fetches quotes from a quotable-style API and
// translates them to domain quotes. External field names, tag
// conventions and pagination stay contained here.
type QuotableSource struct {
	client *Client
	logger *slog.Logger
}

// NewQuotableSource creates a source backed by the given client.
// Panics if client is nil.
func NewQuotableSource(client *Client, logger *slog.Logger) *QuotableSource {
	if client == nil {
		panic("QuotableSource: client is required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &QuotableSource{client: client, logger: logger}
}

// FetchQuotes retrieves up to limit quotes from the provider,
// translating each page and dropping entries that do not satisfy the
// quote rules. Fewer than limit quotes may be returned when the
// provider runs out of pages.
func (s *QuotableSource) FetchQuotes(ctx context.Context, limit int) ([]domain.Quote, error) {
	if limit <= 0 {
		return []domain.Quote{}, nil
	}

	quotes := make([]domain.Quote, 0, limit)

	for page := 1; len(quotes) < limit; page++ {
		list, err := s.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}

		for _, raw := range list.Results {
			quote, ok := s.translate(raw)
			if !ok {
				continue
			}

			quotes = append(quotes, quote)
			if len(quotes) == limit {
				break
			}
		}

		if list.Page >= list.TotalPages || len(list.Results) == 0 {
			break
		}
	}

	return quotes, nil
}

func (s *QuotableSource) fetchPage(ctx context.Context, page int) (*quotableListResponse, error) {
	path := fmt.Sprintf("/quotes?limit=%d&page=%d", providerPageSize, page)

	resp, err := s.client.Get(ctx, path)
	if err != nil {
		return nil, domain.NewUnavailableError("fetch quotes", err)
	}

	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewUnavailableError("fetch quotes",
			fmt.Errorf("provider returned status %d", resp.StatusCode))
	}

	var list quotableListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, domain.NewUnavailableError("decode quotes", err)
	}

	return &list, nil
}

// translate maps a provider quote to a domain quote. Entries missing
// an author or with text outside the accepted bounds are dropped.
func (s *QuotableSource) translate(raw quotableQuote) (domain.Quote, bool) {
	text := strings.TrimSpace(raw.Content)
	author := strings.TrimSpace(raw.Author)

	if author == "" || len(text) < minTextLength || len(text) > maxTextLength {
		s.logger.Debug("skipping provider quote",
			slog.String("provider_id", raw.ID),
			slog.Int("length", len(text)),
		)
		return domain.Quote{}, false
	}

	category := defaultCategory
	if len(raw.Tags) > 0 {
		category = domain.NormalizeCategory(raw.Tags[0])
	}

	return domain.Quote{
		Text:     text,
		Author:   author,
		Book:     defaultBook,
		Category: category,
	}, true
}
