// Package catalog expone el catálogo público y los productos habilitados
// para el usuario autenticado.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/myglobyx/globyx-api/internal/http/dto"
	jwtx "github.com/myglobyx/globyx-api/internal/jwt"
	"github.com/myglobyx/globyx-api/internal/observability/logger"
	"github.com/myglobyx/globyx-api/internal/store/core"
)

// Service son las lecturas públicas y por-usuario del catálogo.
type Service interface {
	// PublicProducts lista los productos activos (sin auth).
	PublicProducts(ctx context.Context) ([]dto.ProductResponse, error)

	// BySlug resuelve un producto por slug. Usado para el redirect /p/{slug}.
	BySlug(ctx context.Context, slug string) (*dto.ProductResponse, error)

	// EntitledProducts lista los productos a los que el usuario tiene acceso
	// vigente. Grants vencidos se filtran acá, en lectura.
	EntitledProducts(ctx context.Context, identity string) ([]dto.ProductResponse, error)
}

// ErrProductNotFound indica slug o id inexistente.
var ErrProductNotFound = fmt.Errorf("product not found")

type service struct {
	store core.Store
}

// New crea el servicio de catálogo.
func New(store core.Store) Service {
	return &service{store: store}
}

func (s *service) PublicProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	ps, err := s.store.Products().Active(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ProductsFromCore(ps), nil
}

func (s *service) BySlug(ctx context.Context, slug string) (*dto.ProductResponse, error) {
	p, err := s.store.Products().FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	resp := dto.ProductFromCore(p)
	return &resp, nil
}

func (s *service) EntitledProducts(ctx context.Context, identity string) ([]dto.ProductResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("catalog"),
		logger.Op("EntitledProducts"),
	)

	emailNorm := jwtx.NormalizeEmail(identity)

	grants, err := s.store.Grants().ListForEmail(ctx, emailNorm)
	if err != nil {
		log.Error("grant list failed", logger.Err(err))
		return nil, err
	}

	now := time.Now().UTC()
	out := make([]dto.ProductResponse, 0, len(grants))
	for i := range grants {
		if !grants[i].ActiveAt(now) {
			continue
		}
		p, err := s.store.Products().FindByID(ctx, grants[i].ProductID)
		if err != nil {
			// Grant colgado apuntando a un producto borrado: se ignora.
			if errors.Is(err, core.ErrNotFound) {
				continue
			}
			return nil, err
		}
		// Un grant sobre un producto desactivado no da acceso.
		if !p.Active {
			continue
		}
		out = append(out, dto.ProductFromCore(p))
	}
	return out, nil
}
