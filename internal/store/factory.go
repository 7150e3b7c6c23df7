// Package store expone la fábrica de repositorios según driver.
package store

import (
	"context"
	"fmt"

	"github.com/myglobyx/globyx-api/internal/config"
	"github.com/myglobyx/globyx-api/internal/store/core"
	"github.com/myglobyx/globyx-api/internal/store/memory"
	"github.com/myglobyx/globyx-api/internal/store/pg"
)

// Open crea el Store configurado. Para postgres aplica además las
// migraciones embebidas; un fallo acá es fatal para el caller.
func Open(ctx context.Context, cfg *config.Config) (core.Store, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		if cfg.Storage.Postgres.DSN == "" {
			return nil, fmt.Errorf("store: postgres driver requires a dsn")
		}
		s, err := pg.New(ctx, cfg.Storage.Postgres.DSN, pg.Config{
			MaxOpenConns:    cfg.Storage.Postgres.MaxOpenConns,
			MinIdleConns:    cfg.Storage.Postgres.MinIdleConns,
			ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	case "memory", "":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Storage.Driver)
	}
}
