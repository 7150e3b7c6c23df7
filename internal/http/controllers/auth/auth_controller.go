// Package auth contiene los controllers de signup, login, me y verificación.
package auth

import (
	"errors"
	"net/http"

	"github.com/myglobyx/globyx-api/internal/http/dto"
	httperrors "github.com/myglobyx/globyx-api/internal/http/errors"
	"github.com/myglobyx/globyx-api/internal/http/helpers"
	"github.com/myglobyx/globyx-api/internal/http/middlewares"
	svc "github.com/myglobyx/globyx-api/internal/http/services/auth"
	"github.com/myglobyx/globyx-api/internal/observability/logger"
)

// AuthController maneja los endpoints de autenticación.
type AuthController struct {
	service svc.Service
}

// NewAuthController crea un nuevo controller de auth.
func NewAuthController(service svc.Service) *AuthController {
	return &AuthController{service: service}
}

// Signup maneja POST /api/auth/signup
func (c *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AuthController.Signup"))

	var req dto.SignupRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail(err.Error()))
		return
	}

	result, err := c.service.Signup(ctx, req)
	if err != nil {
		log.Debug("signup failed", logger.Err(err))
		writeAuthError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, result)
}

// Login maneja POST /api/auth/login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AuthController.Login"))

	var req dto.LoginRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail(err.Error()))
		return
	}

	result, err := c.service.Login(ctx, req)
	if err != nil {
		log.Debug("login failed", logger.Err(err))
		writeAuthError(w, err)
		return
	}

	// El token no debe quedar en caches intermedios
	w.Header().Set("Cache-Control", "no-store")
	helpers.WriteJSON(w, http.StatusOK, result)
}

// Me maneja GET /api/auth/me
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cl := middlewares.GetClaims(ctx)
	if cl == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	result, err := c.service.Me(ctx, cl.Identity())
	if err != nil {
		writeAuthError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, result)
}

// Verify maneja GET /api/auth/verify?token=...
func (c *AuthController) Verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AuthController.Verify"))

	token := r.URL.Query().Get("token")
	email, err := c.service.Verify(ctx, token)
	if err != nil {
		log.Debug("verify failed", logger.Err(err))
		writeAuthError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"verified": true,
		"email":    email,
	})
}

// ResendVerify maneja POST /api/auth/verify/resend
func (c *AuthController) ResendVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AuthController.ResendVerify"))

	var req dto.ResendVerifyRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail(err.Error()))
		return
	}

	if err := c.service.ResendVerify(ctx, req.Email); err != nil {
		log.Debug("resend failed", logger.Err(err))
		writeAuthError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusAccepted, map[string]any{"sent": true})
}

// ─── Helpers ───

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrEmailInUse):
		httperrors.WriteError(w, httperrors.ErrEmailAlreadyInUse)

	case errors.Is(err, svc.ErrInvalidCredentials):
		httperrors.WriteError(w, httperrors.ErrInvalidCredentials)

	case errors.Is(err, svc.ErrUserNotFound):
		httperrors.WriteError(w, httperrors.ErrUserNotFound)

	case errors.Is(err, svc.ErrAlreadyVerified):
		httperrors.WriteError(w, httperrors.ErrConflict.WithDetail("la cuenta ya está verificada"))

	case errors.Is(err, svc.ErrVerifyTokenInvalid):
		httperrors.WriteError(w, httperrors.ErrTokenInvalid.WithDetail("token de verificación inválido, vencido o ya usado"))

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
	}
}
