package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory implementa Client en proceso sobre go-cache.
type Memory struct {
	c *gocache.Cache
	// mu serializa Incr: go-cache no expone incr-con-ttl atómico.
	mu sync.Mutex
}

func NewMemory(defaultTTL time.Duration) *Memory {
	if defaultTTL <= 0 {
		defaultTTL = 2 * time.Minute
	}
	return &Memory{c: gocache.New(defaultTTL, time.Minute)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return "", ErrNotFound
	}
	s, _ := v.(string)
	return s, nil
}

func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.c.Set(key, value, ttl)
	return nil
}

func (m *Memory) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.c.Get(key)
	if !ok {
		m.c.Set(key, "1", ttl)
		return 1, nil
	}
	n, _ := strconv.ParseInt(v.(string), 10, 64)
	n++
	// conservar la expiración original de la ventana
	if _, exp, ok := m.c.GetWithExpiration(key); ok && !exp.IsZero() {
		m.c.Set(key, strconv.FormatInt(n, 10), time.Until(exp))
	} else {
		m.c.Set(key, strconv.FormatInt(n, 10), ttl)
	}
	return n, nil
}

func (m *Memory) TTL(_ context.Context, key string) (time.Duration, error) {
	_, exp, ok := m.c.GetWithExpiration(key)
	if !ok {
		return 0, nil
	}
	if exp.IsZero() {
		return 0, nil
	}
	return time.Until(exp), nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }
func (m *Memory) Close() error               { return nil }
