package health

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/myglobyx/globyx-api/internal/cache"
	"github.com/myglobyx/globyx-api/internal/store/memory"
)

type failingCache struct {
	cache.Client
}

func (failingCache) Ping(context.Context) error { return fmt.Errorf("redis down") }

type failingStore struct {
	*memory.Store
}

func (failingStore) Ping(context.Context) error { return fmt.Errorf("pg down") }

func TestCheckReady(t *testing.T) {
	svc := New(Deps{
		Store:   memory.New(),
		Cache:   cache.NewMemory(time.Minute),
		Version: "test",
	})

	resp := svc.Check(context.Background())
	require.Equal(t, "ready", resp.Status)
	require.Equal(t, "test", resp.Version)
	require.Len(t, resp.Components, 2)
	for _, c := range resp.Components {
		require.Equal(t, "ok", c.Status)
	}
}

func TestCheckDegradedWhenCacheFails(t *testing.T) {
	svc := New(Deps{
		Store: memory.New(),
		Cache: failingCache{},
	})

	resp := svc.Check(context.Background())
	require.Equal(t, "degraded", resp.Status)
}

func TestCheckUnavailableWhenStoreFails(t *testing.T) {
	svc := New(Deps{
		Store: failingStore{Store: memory.New()},
		Cache: cache.NewMemory(time.Minute),
	})

	resp := svc.Check(context.Background())
	require.Equal(t, "unavailable", resp.Status)
}

func TestCheckWithoutDeps(t *testing.T) {
	resp := New(Deps{}).Check(context.Background())
	require.Equal(t, "ready", resp.Status)
	require.Empty(t, resp.Components)
}
