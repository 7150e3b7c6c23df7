package rate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/myglobyx/globyx-api/internal/cache"
)

func TestFixedWindowAllowsUpToMax(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory(time.Minute)
	defer c.Close()

	lim := NewFixedWindow(c, "rl:test:", 3, time.Minute)

	for i := 1; i <= 3; i++ {
		res, err := lim.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		require.True(t, res.Allowed, "hit %d", i)
		require.Equal(t, int64(3-i), res.Remaining)
	}

	res, err := lim.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.False(t, res.Allowed)
	require.Equal(t, int64(0), res.Remaining)
	require.Greater(t, res.RetryAfter, time.Duration(0))
}

func TestFixedWindowKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory(time.Minute)
	defer c.Close()

	lim := NewFixedWindow(c, "rl:test:", 1, time.Minute)

	res, err := lim.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.True(t, res.Allowed)

	res, err = lim.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.False(t, res.Allowed)

	// Otra IP tiene su propia ventana.
	res, err = lim.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	require.True(t, res.Allowed)
}

func TestFixedWindowResetsAfterWindow(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory(time.Minute)
	defer c.Close()

	// Ventana cortita para observar el reset real.
	lim := NewFixedWindow(c, "rl:test:", 1, 50*time.Millisecond)

	res, err := lim.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.True(t, res.Allowed)

	res, err = lim.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.False(t, res.Allowed)

	time.Sleep(60 * time.Millisecond)

	res, err = lim.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.True(t, res.Allowed)
}
