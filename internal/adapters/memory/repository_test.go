package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quoteshorts/api/internal/domain"
)

func seed(t *testing.T, repo *Repository, quotes ...domain.Quote) []domain.Quote {
	t.Helper()

	out := make([]domain.Quote, 0, len(quotes))
	for i := range quotes {
		stored, err := repo.Insert(context.Background(), &quotes[i])
		require.NoError(t, err)
		out = append(out, *stored)
	}

	return out
}

func TestRepository_Insert(t *testing.T) {
	repo := New()

	stored, err := repo.Insert(context.Background(), &domain.Quote{
		Text:     "stay hungry, stay foolish",
		Author:   "Steve Jobs",
		Book:     "Stanford Commencement",
		Category: "motivation",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
	assert.False(t, stored.CreatedAt.IsZero())
	assert.Equal(t, stored.CreatedAt, stored.UpdatedAt)
	assert.Zero(t, stored.Likes)
}

func TestRepository_FindPagination(t *testing.T) {
	repo := New()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	quotes := make([]domain.Quote, 7)
	for i := range quotes {
		quotes[i] = domain.Quote{
			Text:     "quote body long enough",
			Author:   "Author",
			Book:     "Book",
			Category: "wisdom",
		}
	}
	stored := seed(t, repo, quotes...)

	// Walk pages of 3 and check the windows are disjoint and complete.
	seen := make(map[string]bool)
	for page := int64(1); page <= 3; page++ {
		out, err := repo.Find(context.Background(), domain.QuoteFilter{
			SortBy: domain.SortByCreatedAt,
			Order:  domain.SortDesc,
			Skip:   (page - 1) * 3,
			Limit:  3,
		})
		require.NoError(t, err)

		for _, q := range out {
			assert.False(t, seen[q.ID], "quote %s appeared on two pages", q.ID)
			seen[q.ID] = true
		}
	}
	assert.Len(t, seen, len(stored))

	// Skip past the end returns an empty slice, not an error.
	out, err := repo.Find(context.Background(), domain.QuoteFilter{Skip: 100, Limit: 3})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRepository_FindSortNewestFirst(t *testing.T) {
	repo := New()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	seed(t, repo,
		domain.Quote{Text: "first inserted quote text", Author: "A", Book: "B", Category: "wisdom"},
		domain.Quote{Text: "second inserted quote text", Author: "A", Book: "B", Category: "wisdom"},
		domain.Quote{Text: "third inserted quote text", Author: "A", Book: "B", Category: "wisdom"},
	)

	out, err := repo.Find(context.Background(), domain.QuoteFilter{
		SortBy: domain.SortByCreatedAt,
		Order:  domain.SortDesc,
	})

	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "third inserted quote text", out[0].Text)
	assert.Equal(t, "first inserted quote text", out[2].Text)
}

func TestRepository_FindCategoryFilter(t *testing.T) {
	repo := New()
	seed(t, repo,
		domain.Quote{Text: "a quote about life itself", Author: "A", Book: "B", Category: "life"},
		domain.Quote{Text: "a quote about love itself", Author: "A", Book: "B", Category: "love"},
		domain.Quote{Text: "another quote about life", Author: "A", Book: "B", Category: "life"},
	)

	out, err := repo.Find(context.Background(), domain.QuoteFilter{Category: "life"})
	require.NoError(t, err)
	assert.Len(t, out, 2)

	n, err := repo.Count(context.Background(), domain.QuoteFilter{Category: "life"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestRepository_FindSearch(t *testing.T) {
	repo := New()
	seed(t, repo,
		domain.Quote{Text: "The Road goes ever on and on", Author: "J.R.R. Tolkien", Book: "The Fellowship of the Ring", Category: "adventure"},
		domain.Quote{Text: "Not all those who wander are lost", Author: "J.R.R. Tolkien", Book: "The Fellowship of the Ring", Category: "adventure"},
		domain.Quote{Text: "It is our choices that show what we truly are", Author: "J.K. Rowling", Book: "Chamber of Secrets", Category: "wisdom"},
	)

	tests := []struct {
		name string
		term string
		want int
	}{
		{name: "matches text case-insensitively", term: "WANDER", want: 1},
		{name: "matches author", term: "tolkien", want: 2},
		{name: "matches book", term: "chamber", want: 1},
		{name: "matches category", term: "advent", want: 2},
		{name: "regex metacharacters are literal", term: "j.r.r.", want: 2},
		{name: "no match", term: "xyzzy", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := repo.Find(context.Background(), domain.QuoteFilter{Search: tt.term})
			require.NoError(t, err)
			assert.Len(t, out, tt.want)
		})
	}
}

func TestRepository_GetByID(t *testing.T) {
	repo := New()
	stored := seed(t, repo, domain.Quote{Text: "a perfectly fine quote", Author: "A", Book: "B", Category: "wisdom"})

	got, err := repo.GetByID(context.Background(), stored[0].ID)
	require.NoError(t, err)
	assert.Equal(t, stored[0].ID, got.ID)

	_, err = repo.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.True(t, domain.IsNotFound(err))

	_, err = repo.GetByID(context.Background(), "not-a-uuid")
	assert.True(t, domain.IsValidation(err))
	assert.False(t, domain.IsNotFound(err))
}

func TestRepository_Sample(t *testing.T) {
	repo := New()
	stored := seed(t, repo,
		domain.Quote{Text: "candidate one quote text", Author: "A", Book: "B", Category: "life"},
		domain.Quote{Text: "candidate two quote text", Author: "A", Book: "B", Category: "life"},
		domain.Quote{Text: "candidate three quote text", Author: "A", Book: "B", Category: "love"},
	)

	// Over enough draws a uniform sampler must hit every candidate in the
	// filtered set and never one outside it.
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		q, err := repo.Sample(context.Background(), "life")
		require.NoError(t, err)
		assert.Equal(t, "life", q.Category)
		seen[q.ID] = true
	}
	assert.Len(t, seen, 2)

	_, err := repo.Sample(context.Background(), "history")
	assert.True(t, domain.IsNotFound(err))

	q, err := repo.Sample(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, []string{stored[0].ID, stored[1].ID, stored[2].ID}, q.ID)
}

func TestRepository_Update(t *testing.T) {
	repo := New()
	stored := seed(t, repo, domain.Quote{Text: "original quote body text", Author: "A", Book: "B", Category: "wisdom"})

	text := "the revised quote body text"
	got, err := repo.Update(context.Background(), stored[0].ID, domain.QuoteUpdate{Text: &text})

	require.NoError(t, err)
	assert.Equal(t, text, got.Text)
	assert.Equal(t, "A", got.Author)

	_, err = repo.Update(context.Background(), "not-a-uuid", domain.QuoteUpdate{Text: &text})
	assert.True(t, domain.IsValidation(err))
}

func TestRepository_IncrementLikesConcurrent(t *testing.T) {
	repo := New()
	stored := seed(t, repo, domain.Quote{Text: "a well liked quote text", Author: "A", Book: "B", Category: "wisdom"})

	const workers = 50

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()

			_, err := repo.IncrementLikes(context.Background(), stored[0].ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(context.Background(), stored[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(workers), got.Likes)
}

func TestRepository_Delete(t *testing.T) {
	repo := New()
	stored := seed(t, repo,
		domain.Quote{Text: "quote number one text", Author: "A", Book: "B", Category: "wisdom"},
		domain.Quote{Text: "quote number two text", Author: "A", Book: "B", Category: "wisdom"},
	)

	require.NoError(t, repo.Delete(context.Background(), stored[0].ID))

	_, err := repo.GetByID(context.Background(), stored[0].ID)
	assert.True(t, domain.IsNotFound(err))

	// The surviving record is still reachable after index compaction.
	got, err := repo.GetByID(context.Background(), stored[1].ID)
	require.NoError(t, err)
	assert.Equal(t, stored[1].ID, got.ID)

	err = repo.Delete(context.Background(), stored[0].ID)
	assert.True(t, domain.IsNotFound(err))
}

func TestRepository_Aggregates(t *testing.T) {
	repo := New()

	five, two := int64(5), int64(2)
	stored := seed(t, repo,
		domain.Quote{Text: "most liked quote body text", Author: "A", Book: "B", Category: "life"},
		domain.Quote{Text: "second liked quote body", Author: "A", Book: "B", Category: "life"},
		domain.Quote{Text: "an unliked quote body text", Author: "A", Book: "B", Category: "love"},
	)

	_, err := repo.Update(context.Background(), stored[0].ID, domain.QuoteUpdate{Likes: &five})
	require.NoError(t, err)
	_, err = repo.Update(context.Background(), stored[1].ID, domain.QuoteUpdate{Likes: &two})
	require.NoError(t, err)

	sum, err := repo.SumLikes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), sum)

	top, err := repo.MostLiked(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, stored[0].ID, top[0].ID)
	assert.Equal(t, stored[1].ID, top[1].ID)

	stats, err := repo.CategoryStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, domain.CategoryStat{Name: "life", Count: 2, TotalLikes: 7}, stats[0])
	assert.Equal(t, domain.CategoryStat{Name: "love", Count: 1, TotalLikes: 0}, stats[1])
}
