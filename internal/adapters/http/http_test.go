package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quoteshorts/api/internal/adapters/http/handlers"
	"github.com/quoteshorts/api/internal/adapters/memory"
	"github.com/quoteshorts/api/internal/app"
	"github.com/quoteshorts/api/internal/platform/config"
	"github.com/quoteshorts/api/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// envelope mirrors the response shape for decoding in tests.
type envelope struct {
	Success    bool              `json:"success"`
	Data       json.RawMessage   `json:"data"`
	Pagination map[string]any    `json:"pagination"`
	Message    string            `json:"message"`
	Errors     map[string]string `json:"errors"`
}

type quotePayload struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Author   string `json:"author"`
	Book     string `json:"book"`
	Category string `json:"category"`
	Likes    int64  `json:"likes"`
}

func newTestRouter(t *testing.T) (*gin.Engine, *memory.Repository) {
	t.Helper()

	repo := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := app.NewQuoteService(app.QuoteServiceConfig{Repo: repo, Logger: logger})

	registry := ports.NewHealthRegistry()
	require.NoError(t, registry.Register(repo))

	engine := gin.New()
	SetupRouter(engine, RouterConfig{
		Logger:          logger,
		AppConfig:       &config.AppConfig{Name: "quoteshorts-api", Version: "test", Environment: "test"},
		HealthHandler:   handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "", "")),
		QuoteHandler:    handlers.NewQuoteHandler(svc),
		CategoryHandler: handlers.NewCategoryHandler(svc),
		StatsHandler:    handlers.NewStatsHandler(svc),
		Timeout:         5 * time.Second,
	})

	return engine, repo
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())

	return rec, env
}

func createQuote(t *testing.T, engine *gin.Engine, text, author, book, category string) quotePayload {
	t.Helper()

	rec, env := doJSON(t, engine, http.MethodPost, "/api/v1/quotes", map[string]any{
		"text":     text,
		"author":   author,
		"book":     book,
		"category": category,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	var q quotePayload
	require.NoError(t, json.Unmarshal(env.Data, &q))

	return q
}

func TestCreateQuote(t *testing.T) {
	engine, _ := newTestRouter(t)

	t.Run("valid quote is created", func(t *testing.T) {
		q := createQuote(t, engine, "Not all those who wander are lost", "J.R.R. Tolkien", "The Fellowship of the Ring", "Adventure")

		assert.NotEmpty(t, q.ID)
		assert.Equal(t, "adventure", q.Category)
		assert.Zero(t, q.Likes)
	})

	t.Run("validation failure lists fields", func(t *testing.T) {
		rec, env := doJSON(t, engine, http.MethodPost, "/api/v1/quotes", map[string]any{
			"text":   "short",
			"author": "A",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, env.Success)
		assert.Contains(t, env.Errors, "text")
		assert.Contains(t, env.Errors, "author")
		assert.Contains(t, env.Errors, "book")
		assert.Contains(t, env.Errors, "category")
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", bytes.NewBufferString("{not json"))
		req.Header.Set("Content-Type", "application/json")

		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListQuotes(t *testing.T) {
	engine, _ := newTestRouter(t)

	for i := 0; i < 7; i++ {
		createQuote(t, engine,
			fmt.Sprintf("numbered quote body text %d", i),
			"Author", "Book", "wisdom")
	}

	t.Run("default page carries full pagination", func(t *testing.T) {
		rec, env := doJSON(t, engine, http.MethodGet, "/api/v1/quotes", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, env.Success)

		var quotes []quotePayload
		require.NoError(t, json.Unmarshal(env.Data, &quotes))
		assert.Len(t, quotes, 7)

		assert.Equal(t, float64(1), env.Pagination["page"])
		assert.Equal(t, float64(25), env.Pagination["limit"])
		assert.Equal(t, float64(7), env.Pagination["total"])
		assert.Equal(t, float64(1), env.Pagination["totalPages"])
		assert.Equal(t, false, env.Pagination["hasNext"])
		assert.Equal(t, false, env.Pagination["hasPrev"])
	})

	t.Run("explicit paging windows the result", func(t *testing.T) {
		rec, env := doJSON(t, engine, http.MethodGet, "/api/v1/quotes?page=2&limit=3", nil)

		require.Equal(t, http.StatusOK, rec.Code)

		var quotes []quotePayload
		require.NoError(t, json.Unmarshal(env.Data, &quotes))
		assert.Len(t, quotes, 3)
		assert.Equal(t, float64(3), env.Pagination["totalPages"])
		assert.Equal(t, true, env.Pagination["hasNext"])
		assert.Equal(t, true, env.Pagination["hasPrev"])
	})

	t.Run("limit above the cap is rejected", func(t *testing.T) {
		rec, env := doJSON(t, engine, http.MethodGet, "/api/v1/quotes?limit=101", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, env.Errors, "limit")
	})

	t.Run("unknown sort field is rejected", func(t *testing.T) {
		rec, _ := doJSON(t, engine, http.MethodGet, "/api/v1/quotes?sortBy=updatedAt", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetQuoteByID(t *testing.T) {
	engine, _ := newTestRouter(t)
	created := createQuote(t, engine, "a findable quote body text", "Author", "Book", "wisdom")

	t.Run("found", func(t *testing.T) {
		rec, env := doJSON(t, engine, http.MethodGet, "/api/v1/quotes/"+created.ID, nil)

		require.Equal(t, http.StatusOK, rec.Code)

		var q quotePayload
		require.NoError(t, json.Unmarshal(env.Data, &q))
		assert.Equal(t, created.ID, q.ID)
	})

	t.Run("missing id is a 404", func(t *testing.T) {
		rec, env := doJSON(t, engine, http.MethodGet, "/api/v1/quotes/00000000-0000-0000-0000-000000000000", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.False(t, env.Success)
	})

	t.Run("malformed id is a 400, not a 404", func(t *testing.T) {
		rec, _ := doJSON(t, engine, http.MethodGet, "/api/v1/quotes/not-an-id", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRandomQuote(t *testing.T) {
	engine, _ := newTestRouter(t)

	t.Run("empty store is a 404", func(t *testing.T) {
		rec, _ := doJSON(t, engine, http.MethodGet, "/api/v1/quotes/random", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	createQuote(t, engine, "a random candidate body text", "Author", "Book", "life")

	t.Run("category filter respected", func(t *testing.T) {
		rec, env := doJSON(t, engine, http.MethodGet, "/api/v1/quotes/random?category=LIFE", nil)

		require.Equal(t, http.StatusOK, rec.Code)

		var q quotePayload
		require.NoError(t, json.Unmarshal(env.Data, &q))
		assert.Equal(t, "life", q.Category)
	})

	t.Run("empty category is a 404", func(t *testing.T) {
		rec, _ := doJSON(t, engine, http.MethodGet, "/api/v1/quotes/random?category=history", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSearchQuotes(t *testing.T) {
	engine, _ := newTestRouter(t)
	createQuote(t, engine, "The Road goes ever on and on", "J.R.R. Tolkien", "The Fellowship of the Ring", "adventure")
	createQuote(t, engine, "It is our choices that show what we truly are", "J.K. Rowling", "Chamber of Secrets", "wisdom")

	t.Run("substring match with window pagination", func(t *testing.T) {
		rec, env := doJSON(t, engine, http.MethodGet, "/api/v1/quotes/search?q=tolkien", nil)

		require.Equal(t, http.StatusOK, rec.Code)

		var quotes []quotePayload
		require.NoError(t, json.Unmarshal(env.Data, &quotes))
		assert.Len(t, quotes, 1)

		assert.Equal(t, float64(10), env.Pagination["limit"])
		assert.NotContains(t, env.Pagination, "hasNext")
		assert.NotContains(t, env.Pagination, "hasPrev")
	})

	t.Run("missing q is a 400", func(t *testing.T) {
		rec, env := doJSON(t, engine, http.MethodGet, "/api/v1/quotes/search", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, env.Errors, "q")
	})

	t.Run("no matches is an empty 200", func(t *testing.T) {
		rec, env := doJSON(t, engine, http.MethodGet, "/api/v1/quotes/search?q=xyzzy", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]", string(env.Data))
		assert.Equal(t, float64(0), env.Pagination["total"])
	})
}

func TestLikeQuote(t *testing.T) {
	engine, _ := newTestRouter(t)
	created := createQuote(t, engine, "a quote worth liking today", "Author", "Book", "wisdom")

	for i := 1; i <= 2; i++ {
		rec, env := doJSON(t, engine, http.MethodPost, "/api/v1/quotes/"+created.ID+"/like", nil)

		require.Equal(t, http.StatusOK, rec.Code)

		var q quotePayload
		require.NoError(t, json.Unmarshal(env.Data, &q))
		assert.Equal(t, int64(i), q.Likes)
	}

	rec, _ := doJSON(t, engine, http.MethodPost, "/api/v1/quotes/00000000-0000-0000-0000-000000000000/like", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateQuote(t *testing.T) {
	engine, _ := newTestRouter(t)
	created := createQuote(t, engine, "the original body of the quote", "Author", "Book", "wisdom")

	t.Run("partial update normalizes category", func(t *testing.T) {
		rec, env := doJSON(t, engine, http.MethodPut, "/api/v1/quotes/"+created.ID, map[string]any{
			"category": "PHILOSOPHY",
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var q quotePayload
		require.NoError(t, json.Unmarshal(env.Data, &q))
		assert.Equal(t, "philosophy", q.Category)
		assert.Equal(t, created.Text, q.Text)
	})

	t.Run("empty body is a 400", func(t *testing.T) {
		rec, _ := doJSON(t, engine, http.MethodPut, "/api/v1/quotes/"+created.ID, map[string]any{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("out-of-bounds field is a 400", func(t *testing.T) {
		rec, env := doJSON(t, engine, http.MethodPut, "/api/v1/quotes/"+created.ID, map[string]any{
			"text": "too short",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, env.Errors, "text")
	})
}

func TestDeleteQuote(t *testing.T) {
	engine, _ := newTestRouter(t)
	created := createQuote(t, engine, "a quote that will be removed", "Author", "Book", "wisdom")

	rec, env := doJSON(t, engine, http.MethodDelete, "/api/v1/quotes/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	rec, _ = doJSON(t, engine, http.MethodGet, "/api/v1/quotes/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, engine, http.MethodDelete, "/api/v1/quotes/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategories(t *testing.T) {
	engine, _ := newTestRouter(t)
	createQuote(t, engine, "first life quote body text", "Author", "Book", "life")
	createQuote(t, engine, "second life quote body text", "Author", "Book", "Life")
	createQuote(t, engine, "single love quote body text", "Author", "Book", "love")

	t.Run("list with counts", func(t *testing.T) {
		rec, env := doJSON(t, engine, http.MethodGet, "/api/v1/categories", nil)

		require.Equal(t, http.StatusOK, rec.Code)

		var categories []struct {
			Name  string `json:"name"`
			Count int64  `json:"count"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &categories))
		require.Len(t, categories, 2)
		assert.Equal(t, "life", categories[0].Name)
		assert.Equal(t, int64(2), categories[0].Count)
	})

	t.Run("quotes by category", func(t *testing.T) {
		rec, env := doJSON(t, engine, http.MethodGet, "/api/v1/categories/life/quotes", nil)

		require.Equal(t, http.StatusOK, rec.Code)

		var quotes []quotePayload
		require.NoError(t, json.Unmarshal(env.Data, &quotes))
		assert.Len(t, quotes, 2)
		assert.Equal(t, float64(10), env.Pagination["limit"])
	})

	t.Run("unknown category is an empty 200", func(t *testing.T) {
		rec, env := doJSON(t, engine, http.MethodGet, "/api/v1/categories/history/quotes", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]", string(env.Data))
	})
}

func TestStats(t *testing.T) {
	engine, _ := newTestRouter(t)

	t.Run("empty collection", func(t *testing.T) {
		rec, env := doJSON(t, engine, http.MethodGet, "/api/v1/stats", nil)

		require.Equal(t, http.StatusOK, rec.Code)

		var stats struct {
			TotalQuotes int64           `json:"totalQuotes"`
			MostLiked   json.RawMessage `json:"mostLikedQuote"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &stats))
		assert.Zero(t, stats.TotalQuotes)
		assert.Equal(t, "null", string(stats.MostLiked))
	})

	created := createQuote(t, engine, "the most liked quote body", "Author", "Book", "life")
	createQuote(t, engine, "an unliked quote body text", "Author", "Book", "love")

	_, _ = doJSON(t, engine, http.MethodPost, "/api/v1/quotes/"+created.ID+"/like", nil)

	t.Run("populated collection", func(t *testing.T) {
		rec, env := doJSON(t, engine, http.MethodGet, "/api/v1/stats", nil)

		require.Equal(t, http.StatusOK, rec.Code)

		var stats struct {
			TotalQuotes     int64         `json:"totalQuotes"`
			TotalLikes      int64         `json:"totalLikes"`
			TotalCategories int64         `json:"totalCategories"`
			MostLiked       *quotePayload `json:"mostLikedQuote"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &stats))
		assert.Equal(t, int64(2), stats.TotalQuotes)
		assert.Equal(t, int64(1), stats.TotalLikes)
		assert.Equal(t, int64(2), stats.TotalCategories)
		require.NotNil(t, stats.MostLiked)
		assert.Equal(t, created.ID, stats.MostLiked.ID)
	})
}

func TestTopQuotes(t *testing.T) {
	engine, _ := newTestRouter(t)
	first := createQuote(t, engine, "the popular quote body text", "Author", "Book", "life")
	createQuote(t, engine, "the quiet quote body text", "Author", "Book", "life")

	_, _ = doJSON(t, engine, http.MethodPost, "/api/v1/quotes/"+first.ID+"/like", nil)

	rec, env := doJSON(t, engine, http.MethodGet, "/api/v1/quotes/top?limit=1", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var quotes []quotePayload
	require.NoError(t, json.Unmarshal(env.Data, &quotes))
	require.Len(t, quotes, 1)
	assert.Equal(t, first.ID, quotes[0].ID)
}

func TestHealthEndpointsBypassAPIGroup(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/-/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

// Server lifecycle tests.

func TestServerStartShutdown(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(&config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            0,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		IdleTimeout:     time.Second,
		ShutdownTimeout: time.Second,
		MaxRequestSize:  1 << 20,
	}, logger)

	require.NotNil(t, srv.Engine())

	errCh := srv.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	// Start's channel closes cleanly after shutdown.
	for err := range errCh {
		require.NoError(t, err)
	}
}

func TestMaxBodySize(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(&config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            0,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		IdleTimeout:     time.Second,
		ShutdownTimeout: time.Second,
		MaxRequestSize:  16,
	}, logger)

	srv.Engine().POST("/echo", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}

		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("this body is far longer than sixteen bytes"))
	srv.Engine().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
