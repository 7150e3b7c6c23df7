// Package admin implementa la gestión del catálogo y de grants de acceso.
// Todo el paquete asume que el middleware de admin ya validó al caller.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/myglobyx/globyx-api/internal/http/dto"
	jwtx "github.com/myglobyx/globyx-api/internal/jwt"
	"github.com/myglobyx/globyx-api/internal/observability/logger"
	"github.com/myglobyx/globyx-api/internal/slug"
	"github.com/myglobyx/globyx-api/internal/store/core"
)

// Service agrupa las operaciones administrativas.
type Service interface {
	// Productos
	ListProducts(ctx context.Context) ([]dto.ProductResponse, error)
	CreateProduct(ctx context.Context, in dto.ProductCreateRequest) (*dto.ProductResponse, error)
	UpdateProduct(ctx context.Context, id string, in dto.ProductUpdateRequest) (*dto.ProductResponse, error)
	DeleteProduct(ctx context.Context, id string) error

	// Grants
	ListGrants(ctx context.Context, email string) ([]dto.GrantResponse, error)
	CreateGrant(ctx context.Context, in dto.GrantCreateRequest) (*dto.GrantResponse, error)
	RevokeGrant(ctx context.Context, email, productID string) error
}

// Errores del servicio de admin.
var (
	ErrProductNotFound = fmt.Errorf("product not found")
	ErrGrantNotFound   = fmt.Errorf("grant not found")
	ErrInvalidTitle    = fmt.Errorf("invalid title")
)

type service struct {
	store core.Store
}

// New crea el servicio de admin.
func New(store core.Store) Service {
	return &service{store: store}
}

// ─── Productos ───

func (s *service) ListProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	ps, err := s.store.Products().All(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ProductsFromCore(ps), nil
}

func (s *service) CreateProduct(ctx context.Context, in dto.ProductCreateRequest) (*dto.ProductResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin"),
		logger.Op("CreateProduct"),
	)

	title := strings.TrimSpace(in.Title)

	// Slug único derivado del título (-2, -3... si está tomado)
	sl, err := slug.Unique(ctx, title, "", s.store.Products().SlugExists)
	if err != nil {
		if errors.Is(err, slug.ErrEmpty) {
			return nil, ErrInvalidTitle
		}
		log.Error("slug generation failed", logger.Err(err))
		return nil, err
	}

	p := &core.Product{
		Title:          title,
		Slug:           sl,
		Description:    strings.TrimSpace(in.Description),
		MediaURL:       strings.TrimSpace(in.MediaURL),
		Thumbnail:      strings.TrimSpace(in.Thumbnail),
		LandingPageURL: strings.TrimSpace(in.LandingPageURL),
		Category:       strings.TrimSpace(in.Category),
		Subcategory:    strings.TrimSpace(in.Subcategory),
		Price:          in.Price,
		Active:         in.Active,
	}
	if err := s.store.Products().Create(ctx, p); err != nil {
		log.Error("product create failed", logger.Err(err))
		return nil, err
	}

	log.Info("product created", logger.ProductID(p.ID), logger.String("slug", p.Slug))
	resp := dto.ProductFromCore(p)
	return &resp, nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, in dto.ProductUpdateRequest) (*dto.ProductResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin"),
		logger.Op("UpdateProduct"),
		logger.ProductID(id),
	)

	patch := core.ProductPatch{
		Description:    in.Description,
		MediaURL:       in.MediaURL,
		Thumbnail:      in.Thumbnail,
		LandingPageURL: in.LandingPageURL,
		Category:       in.Category,
		Subcategory:    in.Subcategory,
		Price:          in.Price,
		Active:         in.Active,
	}
	if in.Title != nil {
		v := strings.TrimSpace(*in.Title)
		patch.Title = &v
	}

	p, err := s.store.Products().Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		log.Error("product update failed", logger.Err(err))
		return nil, err
	}

	// Cambio de título recalcula el slug (ignorando el propio producto en
	// la búsqueda de colisiones).
	if patch.Title != nil && *patch.Title != "" {
		newSlug, err := slug.Unique(ctx, *patch.Title, id, s.store.Products().SlugExists)
		if err != nil && !errors.Is(err, slug.ErrEmpty) {
			log.Error("slug regeneration failed", logger.Err(err))
			return nil, err
		}
		if err == nil && newSlug != p.Slug {
			if err := s.store.Products().UpdateSlug(ctx, id, newSlug); err != nil {
				log.Error("slug update failed", logger.Err(err))
				return nil, err
			}
			p.Slug = newSlug
		}
	}

	log.Info("product updated")
	resp := dto.ProductFromCore(p)
	return &resp, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin"),
		logger.Op("DeleteProduct"),
		logger.ProductID(id),
	)

	ok, err := s.store.Products().Delete(ctx, id)
	if err != nil {
		log.Error("product delete failed", logger.Err(err))
		return err
	}
	if !ok {
		return ErrProductNotFound
	}

	// Los grants que apuntan acá quedan colgados a propósito: el acceso se
	// filtra en lectura y un re-create del producto no revive accesos.
	log.Info("product deleted")
	return nil
}

// ─── Grants ───

func (s *service) ListGrants(ctx context.Context, email string) ([]dto.GrantResponse, error) {
	var (
		gs  []core.Grant
		err error
	)
	if email != "" {
		gs, err = s.store.Grants().ListForEmail(ctx, jwtx.NormalizeEmail(email))
	} else {
		gs, err = s.store.Grants().ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	return dto.GrantsFromCore(gs), nil
}

func (s *service) CreateGrant(ctx context.Context, in dto.GrantCreateRequest) (*dto.GrantResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin"),
		logger.Op("CreateGrant"),
	)

	emailNorm := jwtx.NormalizeEmail(in.Email)

	// El producto tiene que existir al momento de otorgar
	if _, err := s.store.Products().FindByID(ctx, in.ProductID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	var expires *time.Time
	if in.ExpiresAt != nil {
		t := in.ExpiresAt.UTC()
		expires = &t
	}

	// Idempotente: si el par (email, producto) ya tiene grant, devuelve el
	// existente sin tocarlo.
	g, err := s.store.Grants().Grant(ctx, emailNorm, in.ProductID, expires)
	if err != nil {
		log.Error("grant create failed", logger.Err(err))
		return nil, err
	}

	log.Info("grant created", logger.UserID(emailNorm), logger.ProductID(in.ProductID))
	resp := dto.GrantFromCore(g)
	return &resp, nil
}

func (s *service) RevokeGrant(ctx context.Context, email, productID string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin"),
		logger.Op("RevokeGrant"),
	)

	emailNorm := jwtx.NormalizeEmail(email)

	ok, err := s.store.Grants().Revoke(ctx, emailNorm, productID)
	if err != nil {
		log.Error("grant revoke failed", logger.Err(err))
		return err
	}
	if !ok {
		return ErrGrantNotFound
	}

	log.Info("grant revoked", logger.UserID(emailNorm), logger.ProductID(productID))
	return nil
}
