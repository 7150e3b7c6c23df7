package core

import (
	"context"
	"time"
)

// UserRepository persiste cuentas. Todas las operaciones reciben emails ya
// normalizados o los normalizan internamente; la unicidad de email la
// garantiza el storage (unique index), no un check-then-insert.
type UserRepository interface {
	// Create inserta un usuario nuevo. Email duplicado => ErrEmailInUse.
	Create(ctx context.Context, u *User) error

	// FindByEmail busca por email normalizado. Ausente => ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// UpdateProfile aplica un patch parcial y devuelve el registro
	// actualizado. Ausente => ErrNotFound.
	UpdateProfile(ctx context.Context, email string, patch ProfilePatch) (*User, error)

	// UpsertPassword crea el usuario si no existe o actualiza nombre y hash
	// si existe (seeding de admins). El usuario queda verificado.
	UpsertPassword(ctx context.Context, name, email, passwordHash string) (*User, error)

	// SetVerification guarda el hash del token pendiente y su expiry,
	// pisando cualquier token anterior (solo el último vale).
	SetVerification(ctx context.Context, email string, tokenHash []byte, expiresAt time.Time) error

	// ConsumeVerification marca verificado y limpia los campos de token en
	// una sola operación atómica si el hash matchea, no expiró y el usuario
	// no estaba verificado. Devuelve el email afectado y ok=false (sin
	// efectos) en cualquier otro caso: dos consumos concurrentes del mismo
	// token producen exactamente un éxito.
	ConsumeVerification(ctx context.Context, tokenHash []byte) (email string, ok bool, err error)
}

// ProductRepository persiste el catálogo.
type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, id string, patch ProductPatch) (*Product, error)
	// UpdateSlug persiste un slug recalculado tras un cambio de título.
	UpdateSlug(ctx context.Context, id, slug string) error
	Delete(ctx context.Context, id string) (bool, error)
	FindByID(ctx context.Context, id string) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	// All lista todo el catálogo, created_at descendente.
	All(ctx context.Context) ([]Product, error)
	// Active lista solo productos activos, created_at descendente.
	Active(ctx context.Context) ([]Product, error)
	// SlugExists consulta por slug, ignorando opcionalmente un id
	// (para updates de título).
	SlugExists(ctx context.Context, slug, ignoreID string) (bool, error)
}

// GrantRepository persiste los grants de acceso.
type GrantRepository interface {
	// Grant crea el registro para (email, productID) o devuelve el
	// existente sin modificarlo (upsert-on-conflict idempotente). Dos
	// llamadas concurrentes para el mismo par producen exactamente un
	// registro y ambas reportan éxito.
	Grant(ctx context.Context, email, productID string, expiresAt *time.Time) (*Grant, error)

	// Revoke borra el grant si existe. false = no-op, no error.
	Revoke(ctx context.Context, email, productID string) (bool, error)

	// ListForEmail devuelve los grants del email normalizado,
	// created_at descendente.
	ListForEmail(ctx context.Context, email string) ([]Grant, error)

	// ListAll enumera todos los grants (uso administrativo).
	ListAll(ctx context.Context) ([]Grant, error)
}

// Store agrupa los repositorios sobre un mismo backend.
type Store interface {
	Users() UserRepository
	Products() ProductRepository
	Grants() GrantRepository

	// Ping verifica conectividad. Fatal al arranque si falla (el proceso
	// no debe correr silenciosamente sin storage).
	Ping(ctx context.Context) error
	Close()
}
