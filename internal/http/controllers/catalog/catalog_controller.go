// Package catalog contiene los controllers del catálogo público y de
// "mis productos".
package catalog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/myglobyx/globyx-api/internal/http/dto"
	httperrors "github.com/myglobyx/globyx-api/internal/http/errors"
	"github.com/myglobyx/globyx-api/internal/http/helpers"
	"github.com/myglobyx/globyx-api/internal/http/middlewares"
	svc "github.com/myglobyx/globyx-api/internal/http/services/catalog"
	"github.com/myglobyx/globyx-api/internal/observability/logger"
)

// CatalogController maneja las lecturas del catálogo.
type CatalogController struct {
	service svc.Service
}

// NewCatalogController crea un nuevo controller de catálogo.
func NewCatalogController(service svc.Service) *CatalogController {
	return &CatalogController{service: service}
}

// PublicProducts maneja GET /api/public/products
func (c *CatalogController) PublicProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := c.service.PublicProducts(ctx)
	if err != nil {
		logger.From(ctx).Error("public products failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.ProductListResponse{Products: products})
}

// SlugRedirect maneja GET /p/{slug}: redirige a la landing del producto.
func (c *CatalogController) SlugRedirect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sl := chi.URLParam(r, "slug")
	product, err := c.service.BySlug(ctx, sl)
	if err != nil {
		if errors.Is(err, svc.ErrProductNotFound) {
			httperrors.WriteError(w, httperrors.ErrProductNotFound)
			return
		}
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}
	if product.LandingPageURL == "" {
		httperrors.WriteError(w, httperrors.ErrProductNotFound.WithDetail("producto sin landing page"))
		return
	}

	http.Redirect(w, r, product.LandingPageURL, http.StatusFound)
}

// MyProducts maneja GET /api/me/products
func (c *CatalogController) MyProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cl := middlewares.GetClaims(ctx)
	if cl == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	products, err := c.service.EntitledProducts(ctx, cl.Identity())
	if err != nil {
		logger.From(ctx).Error("entitled products failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.ProductListResponse{Products: products})
}
