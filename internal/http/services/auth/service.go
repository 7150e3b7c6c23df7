package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/myglobyx/globyx-api/internal/email"
	"github.com/myglobyx/globyx-api/internal/http/dto"
	jwtx "github.com/myglobyx/globyx-api/internal/jwt"
	"github.com/myglobyx/globyx-api/internal/observability/logger"
	"github.com/myglobyx/globyx-api/internal/security/password"
	tokens "github.com/myglobyx/globyx-api/internal/security/token"
	"github.com/myglobyx/globyx-api/internal/store/core"
)

// Deps contiene las dependencias del servicio de auth.
type Deps struct {
	Store     core.Store
	Hasher    *password.Hasher
	Issuer    *jwtx.Issuer
	Sender    email.Sender
	BaseURL   string        // para armar el link de verificación
	VerifyTTL time.Duration // vigencia del token de verificación
	IsAdmin   func(email string) bool
}

type service struct {
	deps Deps
}

// New crea el servicio de auth.
func New(deps Deps) Service {
	if deps.VerifyTTL <= 0 {
		deps.VerifyTTL = 60 * time.Minute
	}
	if deps.IsAdmin == nil {
		deps.IsAdmin = func(string) bool { return false }
	}
	return &service{deps: deps}
}

const verifyTokenBytes = 32 // 256 bits

func (s *service) Signup(ctx context.Context, in dto.SignupRequest) (*dto.AuthResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("Signup"),
	)

	// Paso 0: Normalización
	emailNorm := jwtx.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)

	// Paso 1: Hash de password
	hash, err := s.deps.Hasher.Hash(in.Password)
	if err != nil {
		log.Error("password hash failed", logger.Err(err))
		return nil, err
	}

	// Paso 2: Insertar (unicidad la garantiza el storage, no check-then-insert)
	u := &core.User{
		Name:         name,
		Email:        emailNorm,
		PasswordHash: hash,
	}
	if err := s.deps.Store.Users().Create(ctx, u); err != nil {
		if errors.Is(err, core.ErrEmailInUse) {
			log.Debug("email already in use")
			return nil, ErrEmailInUse
		}
		log.Error("user create failed", logger.Err(err))
		return nil, err
	}

	log = log.With(logger.UserID(emailNorm))

	// Paso 3: Emitir token de verificación y mandar el mail.
	// Best effort: si falla no rompemos el signup, el usuario puede pedir
	// reenvío después.
	if err := s.issueVerification(ctx, emailNorm, name); err != nil {
		log.Warn("verification issue failed", logger.Err(err))
	}

	// Paso 4: Login implícito
	token, _, err := s.issueSession(u)
	if err != nil {
		log.Error("token issue failed", logger.Err(err))
		return nil, ErrTokenIssueFailed
	}

	log.Info("signup successful")
	return &dto.AuthResponse{
		Token: token,
		User:  dto.UserResponse{Name: u.Name, Email: u.Email, IsVerified: u.IsVerified},
	}, nil
}

func (s *service) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("Login"),
	)

	emailNorm := jwtx.NormalizeEmail(in.Email)

	// Usuario inexistente y password incorrecto colapsan en el mismo error:
	// no le regalamos enumeración de cuentas a nadie.
	u, err := s.deps.Store.Users().FindByEmail(ctx, emailNorm)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			log.Debug("user not found")
			return nil, ErrInvalidCredentials
		}
		log.Error("user lookup failed", logger.Err(err))
		return nil, err
	}

	if !s.deps.Hasher.Verify(in.Password, u.PasswordHash) {
		log.Debug("password check failed")
		return nil, ErrInvalidCredentials
	}

	token, _, err := s.issueSession(u)
	if err != nil {
		log.Error("token issue failed", logger.Err(err))
		return nil, ErrTokenIssueFailed
	}

	log.Info("login successful", logger.UserID(emailNorm))
	return &dto.AuthResponse{
		Token: token,
		User:  dto.UserResponse{Name: u.Name, Email: u.Email, IsVerified: u.IsVerified},
	}, nil
}

func (s *service) Me(ctx context.Context, identity string) (*dto.MeResponse, error) {
	u, err := s.deps.Store.Users().FindByEmail(ctx, jwtx.NormalizeEmail(identity))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &dto.MeResponse{
		User: dto.UserResponse{Name: u.Name, Email: u.Email, IsVerified: u.IsVerified},
	}, nil
}

func (s *service) Verify(ctx context.Context, token string) (string, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("Verify"),
	)

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrVerifyTokenInvalid
	}

	// Consumo atómico: el storage garantiza a lo sumo un éxito por token.
	emailNorm, ok, err := s.deps.Store.Users().ConsumeVerification(ctx, tokens.SHA256(token))
	if err != nil {
		log.Error("verification consume failed", logger.Err(err))
		return "", err
	}
	if !ok {
		log.Debug("verification token rejected")
		return "", ErrVerifyTokenInvalid
	}

	log.Info("email verified", logger.UserID(emailNorm))
	return emailNorm, nil
}

func (s *service) ResendVerify(ctx context.Context, rawEmail string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("ResendVerify"),
	)

	emailNorm := jwtx.NormalizeEmail(rawEmail)

	u, err := s.deps.Store.Users().FindByEmail(ctx, emailNorm)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return ErrUserNotFound
		}
		log.Error("user lookup failed", logger.Err(err))
		return err
	}
	if u.IsVerified {
		return ErrAlreadyVerified
	}

	// Emite un token nuevo; SetVerification pisa el anterior (solo el
	// último token vale).
	if err := s.issueVerification(ctx, emailNorm, u.Name); err != nil {
		log.Error("verification reissue failed", logger.Err(err))
		return err
	}

	log.Info("verification resent", logger.UserID(emailNorm))
	return nil
}

// ─── Internal Helpers ───

// issueSession firma el token de sesión. is_admin sale de la allow-list al
// momento de emitir, pero es solo informativo: la policy real se evalúa
// request a request en el middleware de admin.
func (s *service) issueSession(u *core.User) (string, time.Time, error) {
	return s.deps.Issuer.Issue(jwtx.Claims{
		Subject: u.Email,
		Email:   u.Email,
		Name:    u.Name,
		IsAdmin: s.deps.IsAdmin(u.Email),
	}, 0)
}

// issueVerification genera el token, persiste el hash y despacha el mail en
// background. El plaintext vive solo en el link del mail.
func (s *service) issueVerification(ctx context.Context, emailNorm, name string) error {
	raw, err := tokens.GenerateOpaqueToken(verifyTokenBytes)
	if err != nil {
		return err
	}
	expires := time.Now().UTC().Add(s.deps.VerifyTTL)

	if err := s.deps.Store.Users().SetVerification(ctx, emailNorm, tokens.SHA256(raw), expires); err != nil {
		return err
	}

	if s.deps.Sender == nil {
		return nil
	}

	link := email.VerifyLink(s.deps.BaseURL, raw)
	htmlBody, textBody, err := email.RenderVerify(name, link, s.deps.VerifyTTL)
	if err != nil {
		return err
	}

	// Fire and forget: el SMTP no bloquea la respuesta HTTP.
	go func() {
		if err := s.deps.Sender.Send(emailNorm, "Confirmá tu cuenta en MyGlobyX", htmlBody, textBody); err != nil {
			logger.L().Warn("verification email send failed",
				logger.Component("auth"),
				logger.UserID(emailNorm),
				logger.Err(err),
			)
		}
	}()
	return nil
}
