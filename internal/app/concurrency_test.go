package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallel(t *testing.T) {
	t.Run("collects results in order", func(t *testing.T) {
		results, err := Parallel(context.Background(),
			func(context.Context) (int, error) { return 1, nil },
			func(context.Context) (int, error) { return 2, nil },
			func(context.Context) (int, error) { return 3, nil },
		)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, results)
	})

	t.Run("first error cancels the rest", func(t *testing.T) {
		var canceled atomic.Bool

		_, err := Parallel(context.Background(),
			func(context.Context) (int, error) { return 0, errors.New("boom") },
			func(ctx context.Context) (int, error) {
				<-ctx.Done()
				canceled.Store(true)
				return 0, ctx.Err()
			},
		)
		require.Error(t, err)
		assert.True(t, canceled.Load())
	})
}

func TestParallel2(t *testing.T) {
	t.Run("returns both results", func(t *testing.T) {
		n, s, err := Parallel2(context.Background(),
			func(context.Context) (int64, error) { return 42, nil },
			func(context.Context) (string, error) { return "ok", nil },
		)
		require.NoError(t, err)
		assert.Equal(t, int64(42), n)
		assert.Equal(t, "ok", s)
	})

	t.Run("error zeroes both results", func(t *testing.T) {
		n, s, err := Parallel2(context.Background(),
			func(context.Context) (int64, error) { return 42, nil },
			func(context.Context) (string, error) { return "partial", errors.New("boom") },
		)
		require.Error(t, err)
		assert.Zero(t, n)
		assert.Empty(t, s)
	})
}

func TestParallel4(t *testing.T) {
	a, b, c, d, err := Parallel4(context.Background(),
		func(context.Context) (int, error) { return 1, nil },
		func(context.Context) (string, error) { return "two", nil },
		func(context.Context) ([]int, error) { return []int{3}, nil },
		func(context.Context) (bool, error) { return true, nil },
	)
	require.NoError(t, err)
	assert.Equal(t, 1, a)
	assert.Equal(t, "two", b)
	assert.Equal(t, []int{3}, c)
	assert.True(t, d)
}
