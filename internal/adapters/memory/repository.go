// Package memory provides an in-memory QuoteRepository.
// It backs the local profile and the unit tests, and mirrors the observable
// semantics of the MongoDB adapter: lowercase category filtering, substring
// search, natural-order tie breaks and uniform random sampling.
package memory

import (
	"context"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quoteshorts/api/internal/domain"
)

// Repository is a thread-safe in-memory quote store. The mutex gives the
// same per-record atomicity for like increments that MongoDB's $inc does.
type Repository struct {
	mu     sync.RWMutex
	quotes []domain.Quote // insertion order is the natural order
	byID   map[string]int // id -> index into quotes
	now    func() time.Time
}

// New creates an empty in-memory repository.
func New() *Repository {
	return &Repository{
		byID: make(map[string]int),
		now:  time.Now,
	}
}

// Name implements ports.HealthChecker.
func (r *Repository) Name() string { return "memory" }

// Check implements ports.HealthChecker. An in-process store is always up.
func (r *Repository) Check(ctx context.Context) error { return nil }

// matches reports whether a quote satisfies the filter's category and
// search predicates.
func matches(q *domain.Quote, filter domain.QuoteFilter) bool {
	if filter.Category != "" && q.Category != filter.Category {
		return false
	}

	if filter.Search != "" {
		term := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(q.Text), term) &&
			!strings.Contains(strings.ToLower(q.Author), term) &&
			!strings.Contains(strings.ToLower(q.Book), term) &&
			!strings.Contains(strings.ToLower(q.Category), term) {
			return false
		}
	}

	return true
}

// less compares two quotes on the sort field in ascending order.
func less(a, b *domain.Quote, field domain.SortField) bool {
	switch field {
	case domain.SortByLikes:
		return a.Likes < b.Likes
	case domain.SortByAuthor:
		return a.Author < b.Author
	case domain.SortByCategory:
		return a.Category < b.Category
	default:
		return a.CreatedAt.Before(b.CreatedAt)
	}
}

// collect returns copies of all quotes matching the filter, sorted per the
// filter but not yet windowed. Callers hold at least a read lock.
func (r *Repository) collect(filter domain.QuoteFilter) []domain.Quote {
	out := make([]domain.Quote, 0, len(r.quotes))
	for i := range r.quotes {
		if matches(&r.quotes[i], filter) {
			out = append(out, r.quotes[i])
		}
	}

	if filter.SortBy != "" {
		// Stable sort keeps insertion order for ties, matching the
		// store-natural-order contract.
		sort.SliceStable(out, func(i, j int) bool {
			if filter.Order == domain.SortAsc {
				return less(&out[i], &out[j], filter.SortBy)
			}

			return less(&out[j], &out[i], filter.SortBy)
		})
	}

	return out
}

// Find implements ports.QuoteRepository.
func (r *Repository) Find(ctx context.Context, filter domain.QuoteFilter) ([]domain.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.collect(filter)

	if filter.Skip > 0 {
		if filter.Skip >= int64(len(out)) {
			return []domain.Quote{}, nil
		}

		out = out[filter.Skip:]
	}

	if filter.Limit > 0 && int64(len(out)) > filter.Limit {
		out = out[:filter.Limit]
	}

	return out, nil
}

// Count implements ports.QuoteRepository.
func (r *Repository) Count(ctx context.Context, filter domain.QuoteFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for i := range r.quotes {
		if matches(&r.quotes[i], filter) {
			n++
		}
	}

	return n, nil
}

// GetByID implements ports.QuoteRepository. IDs are UUIDs here; anything
// unparseable is a malformed identifier, not a missing record.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Quote, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NewInvalidIDError(id)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("quote", id)
	}

	q := r.quotes[idx]

	return &q, nil
}

// Sample implements ports.QuoteRepository with a uniform pick over the
// matching set, never a random offset into a sorted listing.
func (r *Repository) Sample(ctx context.Context, category string) (*domain.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	candidates := r.collect(domain.QuoteFilter{Category: category})
	if len(candidates) == 0 {
		return nil, domain.NewNotFoundError("quote", "")
	}

	q := candidates[rand.IntN(len(candidates))]

	return &q, nil
}

// Insert implements ports.QuoteRepository.
func (r *Repository) Insert(ctx context.Context, quote *domain.Quote) (*domain.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *quote
	stored.ID = uuid.New().String()

	now := r.now()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.byID[stored.ID] = len(r.quotes)
	r.quotes = append(r.quotes, stored)

	return &stored, nil
}

// Update implements ports.QuoteRepository.
func (r *Repository) Update(ctx context.Context, id string, update domain.QuoteUpdate) (*domain.Quote, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NewInvalidIDError(id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("quote", id)
	}

	q := &r.quotes[idx]

	if update.Text != nil {
		q.Text = *update.Text
	}

	if update.Author != nil {
		q.Author = *update.Author
	}

	if update.Book != nil {
		q.Book = *update.Book
	}

	if update.Category != nil {
		q.Category = *update.Category
	}

	if update.Likes != nil {
		q.Likes = *update.Likes
	}

	q.UpdatedAt = r.now()

	out := *q

	return &out, nil
}

// IncrementLikes implements ports.QuoteRepository. The write lock makes the
// increment atomic, so N concurrent likes raise the counter by exactly N.
func (r *Repository) IncrementLikes(ctx context.Context, id string) (*domain.Quote, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NewInvalidIDError(id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("quote", id)
	}

	q := &r.quotes[idx]
	q.Likes++
	q.UpdatedAt = r.now()

	out := *q

	return &out, nil
}

// Delete implements ports.QuoteRepository.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.NewInvalidIDError(id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.byID[id]
	if !ok {
		return domain.NewNotFoundError("quote", id)
	}

	r.quotes = append(r.quotes[:idx], r.quotes[idx+1:]...)

	delete(r.byID, id)
	for i := idx; i < len(r.quotes); i++ {
		r.byID[r.quotes[i].ID] = i
	}

	return nil
}

// SumLikes implements ports.QuoteRepository.
func (r *Repository) SumLikes(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sum int64
	for i := range r.quotes {
		sum += r.quotes[i].Likes
	}

	return sum, nil
}

// MostLiked implements ports.QuoteRepository.
func (r *Repository) MostLiked(ctx context.Context, limit int64) ([]domain.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.collect(domain.QuoteFilter{SortBy: domain.SortByLikes, Order: domain.SortDesc})
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}

	return out, nil
}

// CategoryStats implements ports.QuoteRepository. Ties in count are broken
// by name so results are deterministic.
func (r *Repository) CategoryStats(ctx context.Context) ([]domain.CategoryStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byName := make(map[string]*domain.CategoryStat)
	for i := range r.quotes {
		q := &r.quotes[i]

		stat, ok := byName[q.Category]
		if !ok {
			stat = &domain.CategoryStat{Name: q.Category}
			byName[q.Category] = stat
		}

		stat.Count++
		stat.TotalLikes += q.Likes
	}

	out := make([]domain.CategoryStat, 0, len(byName))
	for _, stat := range byName {
		out = append(out, *stat)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}

		return out[i].Name < out[j].Name
	})

	return out, nil
}
