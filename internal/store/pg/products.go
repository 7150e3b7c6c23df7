package pg

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/myglobyx/globyx-api/internal/store/core"
)

type ProductRepo struct{ pool *pgxpool.Pool }

const productCols = `id, title, slug, description, media_url, thumbnail,
	landing_page_url, category, subcategory, price, active, created_at, updated_at`

func scanProduct(row pgx.Row) (*core.Product, error) {
	var (
		p              core.Product
		desc, media    *string
		thumb, landing *string
		cat, subcat    *string
	)
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &desc, &media, &thumb,
		&landing, &cat, &subcat, &p.Price, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	if desc != nil {
		p.Description = *desc
	}
	if media != nil {
		p.MediaURL = *media
	}
	if thumb != nil {
		p.Thumbnail = *thumb
	}
	if landing != nil {
		p.LandingPageURL = *landing
	}
	if cat != nil {
		p.Category = *cat
	}
	if subcat != nil {
		p.Subcategory = *subcat
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]core.Product, error) {
	defer rows.Close()
	var out []core.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *ProductRepo) Create(ctx context.Context, p *core.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO product (id, title, slug, description, media_url, thumbnail,
		                     landing_page_url, category, subcategory, price, active, created_at)
		VALUES ($1,$2,$3, NULLIF($4,''), NULLIF($5,''), NULLIF($6,''),
		        NULLIF($7,''), NULLIF($8,''), NULLIF($9,''), $10, $11, $12)`,
		p.ID, p.Title, p.Slug, p.Description, p.MediaURL, p.Thumbnail,
		p.LandingPageURL, p.Category, p.Subcategory, p.Price, p.Active, p.CreatedAt,
	)
	if err != nil && isUniqueViolation(err) {
		return core.ErrConflict
	}
	return err
}

func (r *ProductRepo) Update(ctx context.Context, id string, patch core.ProductPatch) (*core.Product, error) {
	// El slug lo recalcula el service cuando cambia el título (UpdateSlug).
	row := r.pool.QueryRow(ctx, `
		UPDATE product SET
			title            = COALESCE($2, title),
			description      = COALESCE($3, description),
			media_url        = COALESCE($4, media_url),
			thumbnail        = COALESCE($5, thumbnail),
			landing_page_url = COALESCE($6, landing_page_url),
			category         = COALESCE($7, category),
			subcategory      = COALESCE($8, subcategory),
			price            = COALESCE($9, price),
			active           = COALESCE($10, active),
			updated_at       = now()
		 WHERE id = $1
		RETURNING `+productCols,
		id, patch.Title, patch.Description, patch.MediaURL, patch.Thumbnail,
		patch.LandingPageURL, patch.Category, patch.Subcategory, patch.Price, patch.Active,
	)
	return scanProduct(row)
}

// UpdateSlug persiste un slug recalculado (cuando cambió el título).
func (r *ProductRepo) UpdateSlug(ctx context.Context, id, slug string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE product SET slug = $2, updated_at = now() WHERE id = $1`, id, slug)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM product WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ProductRepo) FindByID(ctx context.Context, id string) (*core.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productCols+` FROM product WHERE id = $1`, id))
}

func (r *ProductRepo) FindBySlug(ctx context.Context, slug string) (*core.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productCols+` FROM product WHERE slug = $1`, slug))
}

func (r *ProductRepo) All(ctx context.Context) ([]core.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productCols+` FROM product ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *ProductRepo) Active(ctx context.Context) ([]core.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productCols+` FROM product WHERE active ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *ProductRepo) SlugExists(ctx context.Context, slug, ignoreID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM product WHERE slug = $1 AND ($2 = '' OR id <> $2::uuid)
		)`, slug, ignoreID,
	).Scan(&exists)
	return exists, err
}
