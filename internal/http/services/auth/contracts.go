// Package auth implementa signup, login, identidad y verificación de email.
package auth

import (
	"context"
	"fmt"

	"github.com/myglobyx/globyx-api/internal/http/dto"
)

// Service agrupa las operaciones de autenticación.
type Service interface {
	// Signup registra la cuenta, dispara el mail de verificación y devuelve
	// un token de sesión (login implícito).
	Signup(ctx context.Context, in dto.SignupRequest) (*dto.AuthResponse, error)

	// Login verifica credenciales y devuelve un token de sesión.
	Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error)

	// Me resuelve el usuario actual a partir de la identidad del token.
	Me(ctx context.Context, identity string) (*dto.MeResponse, error)

	// Verify consume un token de verificación (one-shot) y marca la cuenta.
	Verify(ctx context.Context, token string) (email string, err error)

	// ResendVerify emite un token nuevo, invalidando el anterior.
	ResendVerify(ctx context.Context, email string) error
}

// Errores del servicio de auth.
var (
	ErrEmailInUse         = fmt.Errorf("email already in use")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrAlreadyVerified    = fmt.Errorf("account already verified")
	ErrVerifyTokenInvalid = fmt.Errorf("verification token invalid, expired or already used")
	ErrTokenIssueFailed   = fmt.Errorf("failed to issue token")
)
