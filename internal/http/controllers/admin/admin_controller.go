// Package admin contiene los controllers de gestión de catálogo y grants.
// Las rutas que los usan van siempre detrás de RequireAuth + RequireAdmin.
package admin

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/myglobyx/globyx-api/internal/http/dto"
	httperrors "github.com/myglobyx/globyx-api/internal/http/errors"
	"github.com/myglobyx/globyx-api/internal/http/helpers"
	svc "github.com/myglobyx/globyx-api/internal/http/services/admin"
	"github.com/myglobyx/globyx-api/internal/observability/logger"
	"github.com/myglobyx/globyx-api/internal/store/core"
)

// AdminController maneja los endpoints administrativos.
type AdminController struct {
	service svc.Service
}

// NewAdminController crea un nuevo controller de admin.
func NewAdminController(service svc.Service) *AdminController {
	return &AdminController{service: service}
}

// Ping maneja GET /api/admin/ping (sanity check de la cadena de admin).
func (c *AdminController) Ping(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "role": "admin"})
}

// ─── Productos ───

// ListProducts maneja GET /api/admin/products
func (c *AdminController) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := c.service.ListProducts(r.Context())
	if err != nil {
		writeAdminError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ProductListResponse{Products: products})
}

// CreateProduct maneja POST /api/admin/products
func (c *AdminController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AdminController.CreateProduct"))

	var req dto.ProductCreateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail(err.Error()))
		return
	}

	product, err := c.service.CreateProduct(ctx, req)
	if err != nil {
		log.Debug("product create failed", logger.Err(err))
		writeAdminError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, dto.ProductItemResponse{Product: *product})
}

// UpdateProduct maneja PUT /api/admin/products/{id}
func (c *AdminController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AdminController.UpdateProduct"))

	id := chi.URLParam(r, "id")

	var req dto.ProductUpdateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail(err.Error()))
		return
	}

	product, err := c.service.UpdateProduct(ctx, id, req)
	if err != nil {
		log.Debug("product update failed", logger.Err(err))
		writeAdminError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.ProductItemResponse{Product: *product})
}

// DeleteProduct maneja DELETE /api/admin/products/{id}
func (c *AdminController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := c.service.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeAdminError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Grants ───

// ListGrants maneja GET /api/admin/grants[?email=...]
func (c *AdminController) ListGrants(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))

	grants, err := c.service.ListGrants(r.Context(), email)
	if err != nil {
		writeAdminError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.GrantListResponse{Grants: grants})
}

// CreateGrant maneja POST /api/admin/grants
func (c *AdminController) CreateGrant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AdminController.CreateGrant"))

	var req dto.GrantCreateRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail(err.Error()))
		return
	}

	grant, err := c.service.CreateGrant(ctx, req)
	if err != nil {
		log.Debug("grant create failed", logger.Err(err))
		writeAdminError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, dto.GrantItemResponse{Grant: *grant})
}

// RevokeGrant maneja DELETE /api/admin/grants?email=...&productId=...
func (c *AdminController) RevokeGrant(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	productID := strings.TrimSpace(r.URL.Query().Get("productId"))
	if email == "" || productID == "" {
		httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("email y productId son obligatorios"))
		return
	}

	if err := c.service.RevokeGrant(r.Context(), email, productID); err != nil {
		writeAdminError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Helpers ───

func writeAdminError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrProductNotFound):
		httperrors.WriteError(w, httperrors.ErrProductNotFound)

	case errors.Is(err, svc.ErrGrantNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("grant no encontrado"))

	case errors.Is(err, svc.ErrInvalidTitle):
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail("título inválido"))

	// Carrera contra el índice único de slug: dos creates concurrentes
	// pueden pasar el SlugExists y chocar recién en el insert.
	case errors.Is(err, core.ErrConflict):
		httperrors.WriteError(w, httperrors.ErrSlugTaken)

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
	}
}
