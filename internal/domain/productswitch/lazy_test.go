package productswitch

import (
	"context"
	"sync"
	"testing"

	ierr "github.com/guardianapis/product-switch/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeferredFetchesAtMostOnce(t *testing.T) {
	calls := 0
	d := NewDeferred(func(ctx context.Context) (int, error) {
		calls++
		return 42, nil
	})

	for i := 0; i < 3; i++ {
		value, err := d.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 42, value)
	}
	assert.Equal(t, 1, calls)
}

func TestDeferredFetchesAtMostOnceConcurrently(t *testing.T) {
	calls := 0
	d := NewDeferred(func(ctx context.Context) (int, error) {
		calls++
		return 7, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := d.Get(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, 7, value)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, calls)
}

func TestDeferredCachesError(t *testing.T) {
	calls := 0
	d := NewDeferred(func(ctx context.Context) (bool, error) {
		calls++
		return false, ierr.NewError("upstream unavailable").Mark(ierr.ErrHTTPClient)
	})

	_, first := d.Get(context.Background())
	require.Error(t, first)
	_, second := d.Get(context.Background())
	require.Error(t, second)

	assert.Equal(t, 1, calls, "a failed fetch must not be retried by Get")
}

func TestResolvedYieldsFixedValue(t *testing.T) {
	d := Resolved("done")
	value, err := d.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", value)
}
