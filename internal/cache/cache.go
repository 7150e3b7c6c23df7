// Package cache provee un cache clave/valor con backends memory y redis.
// Lo consume el rate limiter y cualquier lectura repetida barata; los
// chequeos de entitlement NO se cachean (frescura sobre latencia).
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indica key ausente o expirada.
var ErrNotFound = errors.New("cache: key not found")

// Client define las operaciones de cache.
type Client interface {
	// Get obtiene un valor. Retorna ErrNotFound si no existe.
	Get(ctx context.Context, key string) (string, error)

	// Set guarda un valor con TTL. ttl 0 usa el default del backend.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Incr incrementa un contador y devuelve el valor nuevo. Si la key no
	// existía arranca en 1 con el ttl dado (ventana fija del limiter).
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// TTL devuelve el tiempo restante de la key (<= 0 si no existe).
	TTL(ctx context.Context, key string) (time.Duration, error)

	// Delete elimina una key.
	Delete(ctx context.Context, key string) error

	// Ping verifica la conexión.
	Ping(ctx context.Context) error

	// Close cierra la conexión.
	Close() error
}

// Config configura el backend.
type Config struct {
	Kind       string // "memory" | "redis"
	RedisAddr  string
	RedisDB    int
	Prefix     string
	DefaultTTL time.Duration
}

// New crea un cliente según la configuración.
func New(cfg Config) Client {
	switch cfg.Kind {
	case "redis":
		return NewRedis(cfg)
	default:
		return NewMemory(cfg.DefaultTTL)
	}
}
