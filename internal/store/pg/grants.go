package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	jwtx "github.com/myglobyx/globyx-api/internal/jwt"
	"github.com/myglobyx/globyx-api/internal/store/core"
)

type GrantRepo struct{ pool *pgxpool.Pool }

func scanGrant(row pgx.Row) (*core.Grant, error) {
	var g core.Grant
	if err := row.Scan(&g.Email, &g.ProductID, &g.CreatedAt, &g.ExpiresAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	g.ID = core.GrantID(g.Email, g.ProductID)
	return &g, nil
}

// Grant es un upsert-on-conflict: DO NOTHING + re-read. Con llamadas
// concurrentes para el mismo par queda exactamente una fila y ambos callers
// ven el registro resultante.
func (r *GrantRepo) Grant(ctx context.Context, email, productID string, expiresAt *time.Time) (*core.Grant, error) {
	email = jwtx.NormalizeEmail(email)
	_, err := r.pool.Exec(ctx, `
		INSERT INTO grant_access (email, product_id, created_at, expires_at)
		VALUES ($1, $2, now(), $3)
		ON CONFLICT (email, product_id) DO NOTHING`,
		email, productID, expiresAt,
	)
	if err != nil {
		return nil, err
	}
	return scanGrant(r.pool.QueryRow(ctx, `
		SELECT email, product_id, created_at, expires_at
		  FROM grant_access WHERE email = $1 AND product_id = $2`,
		email, productID))
}

func (r *GrantRepo) Revoke(ctx context.Context, email, productID string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM grant_access WHERE email = $1 AND product_id = $2`,
		jwtx.NormalizeEmail(email), productID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *GrantRepo) ListForEmail(ctx context.Context, email string) ([]core.Grant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT email, product_id, created_at, expires_at
		  FROM grant_access WHERE email = $1
		 ORDER BY created_at DESC`,
		jwtx.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return collectGrants(rows)
}

func (r *GrantRepo) ListAll(ctx context.Context) ([]core.Grant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT email, product_id, created_at, expires_at
		  FROM grant_access ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectGrants(rows)
}

func collectGrants(rows pgx.Rows) ([]core.Grant, error) {
	defer rows.Close()
	var out []core.Grant
	for rows.Next() {
		g, err := scanGrant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}
