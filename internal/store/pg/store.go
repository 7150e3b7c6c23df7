// Package pg implementa los repositorios sobre PostgreSQL (pgx).
package pg

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/myglobyx/globyx-api/internal/observability/logger"
	"github.com/myglobyx/globyx-api/internal/store/core"
	migrations "github.com/myglobyx/globyx-api/migrations/postgres"
)

type Store struct {
	pool     *pgxpool.Pool
	users    *UserRepo
	products *ProductRepo
	grants   *GrantRepo
}

// Config afina el pool. Cero = defaults de pgxpool.
type Config struct {
	MaxOpenConns    int
	MinIdleConns    int
	ConnMaxLifetime string
}

// New abre el pool y hace ping. A diferencia de un request en vuelo, un
// fallo de conectividad acá es fatal para el caller (arranque sin storage).
func New(ctx context.Context, dsn string, cfg Config) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MinIdleConns > 0 {
		pcfg.MinConns = int32(cfg.MinIdleConns)
	}
	if cfg.ConnMaxLifetime != "" {
		if d, err := time.ParseDuration(cfg.ConnMaxLifetime); err == nil {
			pcfg.MaxConnLifetime = d
			pcfg.MaxConnIdleTime = d
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}
	logger.Named("pg").Info("pool ready", logger.Int("max_conns", int(pcfg.MaxConns)))

	s := &Store{pool: pool}
	s.users = &UserRepo{pool: pool}
	s.products = &ProductRepo{pool: pool}
	s.grants = &GrantRepo{pool: pool}
	return s, nil
}

func (s *Store) Users() core.UserRepository       { return s.users }
func (s *Store) Products() core.ProductRepository { return s.products }
func (s *Store) Grants() core.GrantRepository     { return s.grants }

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close cierra el pool subyacente (idempotente).
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// Pool expone el pool interno para usos avanzados (metrics/migraciones).
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// Migrate aplica las migraciones embebidas en orden lexicográfico.
// Idempotente: el esquema usa IF NOT EXISTS.
func (s *Store) Migrate(ctx context.Context) error {
	entries, err := migrations.FS.ReadDir(migrations.Dir)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	log := logger.Named("pg.migrate")
	for _, name := range names {
		b, err := migrations.FS.ReadFile(migrations.Dir + "/" + name)
		if err != nil {
			return err
		}
		if _, err := s.pool.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
		log.Info("applied", logger.String("file", name))
	}
	return nil
}

// isUniqueViolation detecta choques de unique index (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
