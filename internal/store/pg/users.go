package pg

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	jwtx "github.com/myglobyx/globyx-api/internal/jwt"
	"github.com/myglobyx/globyx-api/internal/store/core"
)

type UserRepo struct{ pool *pgxpool.Pool }

const userCols = `id, name, email, password_hash, is_verified,
	verification_hash, verification_expires,
	phone, birthdate, document, address, created_at, updated_at`

func scanUser(row pgx.Row) (*core.User, error) {
	var (
		u       core.User
		phone   *string
		birth   *string
		doc     *string
		addrRaw []byte
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsVerified,
		&u.VerificationHash, &u.VerificationExpires,
		&phone, &birth, &doc, &addrRaw, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	if phone != nil {
		u.Phone = *phone
	}
	if birth != nil {
		u.Birthdate = *birth
	}
	if doc != nil {
		u.Document = *doc
	}
	if len(addrRaw) > 0 {
		var a core.Address
		if json.Unmarshal(addrRaw, &a) == nil {
			u.Address = &a
		}
	}
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, u *core.User) error {
	u.Email = jwtx.NormalizeEmail(u.Email)
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO app_user (id, name, email, password_hash, is_verified,
		                      verification_hash, verification_expires, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.IsVerified,
		u.VerificationHash, u.VerificationExpires, u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrEmailInUse
		}
		return err
	}
	return nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*core.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM app_user WHERE email = $1`,
		jwtx.NormalizeEmail(email))
	return scanUser(row)
}

func (r *UserRepo) UpdateProfile(ctx context.Context, email string, patch core.ProfilePatch) (*core.User, error) {
	var addrRaw []byte
	if patch.Address != nil {
		addrRaw, _ = json.Marshal(patch.Address)
	}
	// COALESCE por campo: nil deja el valor existente.
	row := r.pool.QueryRow(ctx, `
		UPDATE app_user SET
			name       = COALESCE($2, name),
			phone      = COALESCE($3, phone),
			birthdate  = COALESCE($4, birthdate),
			document   = COALESCE($5, document),
			address    = COALESCE($6::jsonb, address),
			updated_at = now()
		 WHERE email = $1
		RETURNING `+userCols,
		jwtx.NormalizeEmail(email),
		patch.Name, patch.Phone, patch.Birthdate, patch.Document, addrRaw,
	)
	return scanUser(row)
}

func (r *UserRepo) UpsertPassword(ctx context.Context, name, email, passwordHash string) (*core.User, error) {
	email = jwtx.NormalizeEmail(email)
	row := r.pool.QueryRow(ctx, `
		INSERT INTO app_user (id, name, email, password_hash, is_verified, created_at)
		VALUES (gen_random_uuid(), $1, $2, $3, TRUE, now())
		ON CONFLICT (email) DO UPDATE
		   SET name = EXCLUDED.name,
		       password_hash = EXCLUDED.password_hash,
		       is_verified = TRUE,
		       updated_at = now()
		RETURNING `+userCols,
		name, email, passwordHash,
	)
	return scanUser(row)
}

func (r *UserRepo) SetVerification(ctx context.Context, email string, tokenHash []byte, expiresAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE app_user
		   SET verification_hash = $2,
		       verification_expires = $3,
		       updated_at = now()
		 WHERE email = $1`,
		jwtx.NormalizeEmail(email), tokenHash, expiresAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

// ConsumeVerification es un único UPDATE condicional: el WHERE garantiza
// one-shot incluso con dos submissions concurrentes del mismo token.
func (r *UserRepo) ConsumeVerification(ctx context.Context, tokenHash []byte) (string, bool, error) {
	var email string
	err := r.pool.QueryRow(ctx, `
		UPDATE app_user
		   SET is_verified = TRUE,
		       verification_hash = NULL,
		       verification_expires = NULL,
		       updated_at = now()
		 WHERE verification_hash = $1
		   AND verification_expires > now()
		   AND NOT is_verified
		RETURNING email`, tokenHash,
	).Scan(&email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return email, true, nil
}
