// Package profile contiene el controller del perfil del usuario logueado.
package profile

import (
	"errors"
	"net/http"

	"github.com/myglobyx/globyx-api/internal/http/dto"
	httperrors "github.com/myglobyx/globyx-api/internal/http/errors"
	"github.com/myglobyx/globyx-api/internal/http/helpers"
	"github.com/myglobyx/globyx-api/internal/http/middlewares"
	svc "github.com/myglobyx/globyx-api/internal/http/services/profile"
	"github.com/myglobyx/globyx-api/internal/observability/logger"
)

// ProfileController maneja GET y PUT de /api/profile/me.
type ProfileController struct {
	service svc.Service
}

// NewProfileController crea un nuevo controller de perfil.
func NewProfileController(service svc.Service) *ProfileController {
	return &ProfileController{service: service}
}

// Get maneja GET /api/profile/me
func (c *ProfileController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cl := middlewares.GetClaims(ctx)
	if cl == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	result, err := c.service.Get(ctx, cl.Identity())
	if err != nil {
		writeProfileError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, result)
}

// Update maneja PUT /api/profile/me
func (c *ProfileController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ProfileController.Update"))

	cl := middlewares.GetClaims(ctx)
	if cl == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	var req dto.ProfilePatchRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail(err.Error()))
		return
	}

	result, err := c.service.Update(ctx, cl.Identity(), req)
	if err != nil {
		log.Debug("profile update failed", logger.Err(err))
		writeProfileError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, result)
}

func writeProfileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrUserNotFound):
		httperrors.WriteError(w, httperrors.ErrUserNotFound)
	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
	}
}
