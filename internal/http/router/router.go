// Package router arma el árbol de rutas HTTP del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	adminctrl "github.com/myglobyx/globyx-api/internal/http/controllers/admin"
	authctrl "github.com/myglobyx/globyx-api/internal/http/controllers/auth"
	catalogctrl "github.com/myglobyx/globyx-api/internal/http/controllers/catalog"
	healthctrl "github.com/myglobyx/globyx-api/internal/http/controllers/health"
	profilectrl "github.com/myglobyx/globyx-api/internal/http/controllers/profile"
	httperrors "github.com/myglobyx/globyx-api/internal/http/errors"
	mw "github.com/myglobyx/globyx-api/internal/http/middlewares"
	jwtx "github.com/myglobyx/globyx-api/internal/jwt"
	"github.com/myglobyx/globyx-api/internal/rate"
)

// Deps contiene todo lo que el router necesita para armar las rutas.
type Deps struct {
	Issuer  *jwtx.Issuer
	IsAdmin func(email string) bool

	Auth    *authctrl.AuthController
	Profile *profilectrl.ProfileController
	Catalog *catalogctrl.CatalogController
	Admin   *adminctrl.AdminController
	Health  *healthctrl.HealthController

	// Handler de /metrics (nil = sin métricas)
	Metrics http.Handler

	// Limiters por endpoint sensible (nil = sin límite)
	LoginLimiter  rate.Limiter
	SignupLimiter rate.Limiter
	ResendLimiter rate.Limiter

	CORSAllowedOrigins []string
}

// New arma el router chi con la cadena de middlewares global.
// Orden: request-id -> logging -> recover -> cors; auth/admin/rate se aplican
// por grupo de rutas.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.WithRequestID())
	r.Use(mw.WithLogging())
	r.Use(mw.WithRecover())
	if len(deps.CORSAllowedOrigins) > 0 {
		r.Use(mw.WithCORS(deps.CORSAllowedOrigins))
	}

	requireAuth := mw.RequireAuth(deps.Issuer)
	requireAdmin := mw.RequireAdmin(deps.IsAdmin)

	// ─── Infra ───
	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	// ─── Auth ───
	r.Route("/api/auth", func(r chi.Router) {
		r.With(mw.WithRateLimit(deps.SignupLimiter, nil)).Post("/signup", deps.Auth.Signup)
		r.With(mw.WithRateLimit(deps.LoginLimiter, nil)).Post("/login", deps.Auth.Login)
		r.With(requireAuth).Get("/me", deps.Auth.Me)
		r.Get("/verify", deps.Auth.Verify)
		r.With(mw.WithRateLimit(deps.ResendLimiter, nil)).Post("/verify/resend", deps.Auth.ResendVerify)
	})

	// Aliases de compatibilidad con el frontend viejo
	r.With(mw.WithRateLimit(deps.SignupLimiter, nil)).Post("/api/users/signup", deps.Auth.Signup)
	r.With(mw.WithRateLimit(deps.LoginLimiter, nil)).Post("/api/users/login", deps.Auth.Login)

	// ─── Perfil ───
	r.Route("/api/profile", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/me", deps.Profile.Get)
		r.Put("/me", deps.Profile.Update)
	})

	// ─── Catálogo ───
	r.Get("/api/public/products", deps.Catalog.PublicProducts)
	r.Get("/p/{slug}", deps.Catalog.SlugRedirect)
	r.With(requireAuth).Get("/api/me/products", deps.Catalog.MyProducts)

	// ─── Admin ───
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(requireAuth)
		r.Use(requireAdmin)

		r.Get("/ping", deps.Admin.Ping)

		r.Get("/products", deps.Admin.ListProducts)
		r.Post("/products", deps.Admin.CreateProduct)
		r.Put("/products/{id}", deps.Admin.UpdateProduct)
		r.Delete("/products/{id}", deps.Admin.DeleteProduct)

		r.Get("/grants", deps.Admin.ListGrants)
		r.Post("/grants", deps.Admin.CreateGrant)
		r.Delete("/grants", deps.Admin.RevokeGrant)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})

	return r
}
