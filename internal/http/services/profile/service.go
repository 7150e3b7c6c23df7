// Package profile maneja lectura y edición del perfil del usuario logueado.
package profile

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/myglobyx/globyx-api/internal/http/dto"
	jwtx "github.com/myglobyx/globyx-api/internal/jwt"
	"github.com/myglobyx/globyx-api/internal/observability/logger"
	"github.com/myglobyx/globyx-api/internal/store/core"
)

// Service expone el perfil del usuario autenticado.
type Service interface {
	Get(ctx context.Context, identity string) (*dto.ProfileResponse, error)
	Update(ctx context.Context, identity string, in dto.ProfilePatchRequest) (*dto.ProfileResponse, error)
}

// ErrUserNotFound indica que el usuario del token ya no existe en el store.
var ErrUserNotFound = fmt.Errorf("user not found")

type service struct {
	store core.Store
}

// New crea el servicio de perfil.
func New(store core.Store) Service {
	return &service{store: store}
}

func (s *service) Get(ctx context.Context, identity string) (*dto.ProfileResponse, error) {
	u, err := s.store.Users().FindByEmail(ctx, jwtx.NormalizeEmail(identity))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := dto.ProfileFromUser(u)
	return &resp, nil
}

var nonDigits = regexp.MustCompile(`\D`)

func (s *service) Update(ctx context.Context, identity string, in dto.ProfilePatchRequest) (*dto.ProfileResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("profile"),
		logger.Op("Update"),
	)

	emailNorm := jwtx.NormalizeEmail(identity)

	patch := core.ProfilePatch{
		Birthdate: trimPtr(in.Birthdate),
		Document:  trimPtr(in.Document),
	}
	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		patch.Name = &v
	}
	// Teléfono queda solo con dígitos
	if in.Phone != nil {
		v := nonDigits.ReplaceAllString(*in.Phone, "")
		patch.Phone = &v
	}
	if in.Address != nil {
		patch.Address = addressFromPayload(in.Address)
	}

	u, err := s.store.Users().UpdateProfile(ctx, emailNorm, patch)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		log.Error("profile update failed", logger.Err(err))
		return nil, err
	}

	log.Info("profile updated", logger.UserID(emailNorm))
	resp := dto.ProfileFromUser(u)
	return &resp, nil
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

func addressFromPayload(a *dto.AddressPayload) *core.Address {
	out := &core.Address{}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&out.CEP, a.CEP)
	set(&out.Street, a.Street)
	set(&out.Number, a.Number)
	set(&out.Complement, a.Complement)
	set(&out.District, a.District)
	set(&out.City, a.City)
	// UF en mayúsculas
	if a.State != nil {
		out.State = strings.ToUpper(strings.TrimSpace(*a.State))
	}
	return out
}
