// Package server hace el wiring completo del servicio HTTP.
package server

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/myglobyx/globyx-api/internal/cache"
	"github.com/myglobyx/globyx-api/internal/config"
	"github.com/myglobyx/globyx-api/internal/email"
	adminctrl "github.com/myglobyx/globyx-api/internal/http/controllers/admin"
	authctrl "github.com/myglobyx/globyx-api/internal/http/controllers/auth"
	catalogctrl "github.com/myglobyx/globyx-api/internal/http/controllers/catalog"
	healthctrl "github.com/myglobyx/globyx-api/internal/http/controllers/health"
	profilectrl "github.com/myglobyx/globyx-api/internal/http/controllers/profile"
	httpx "github.com/myglobyx/globyx-api/internal/http"
	"github.com/myglobyx/globyx-api/internal/http/router"
	adminsvc "github.com/myglobyx/globyx-api/internal/http/services/admin"
	authsvc "github.com/myglobyx/globyx-api/internal/http/services/auth"
	catalogsvc "github.com/myglobyx/globyx-api/internal/http/services/catalog"
	healthsvc "github.com/myglobyx/globyx-api/internal/http/services/health"
	profilesvc "github.com/myglobyx/globyx-api/internal/http/services/profile"
	jwtx "github.com/myglobyx/globyx-api/internal/jwt"
	"github.com/myglobyx/globyx-api/internal/bootstrap"
	"github.com/myglobyx/globyx-api/internal/observability/logger"
	"github.com/myglobyx/globyx-api/internal/rate"
	"github.com/myglobyx/globyx-api/internal/security/password"
	"github.com/myglobyx/globyx-api/internal/store"
	"github.com/myglobyx/globyx-api/internal/store/pg"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Version se inyecta en build time (-ldflags).
var Version = "dev"

// Run levanta el servicio completo y bloquea hasta SIGINT/SIGTERM.
func Run(ctx context.Context, cfg *config.Config) error {
	log := logger.Named("server")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ─── Storage ───
	st, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	// ─── Cache (rate limiting) ───
	cc := cache.New(cache.Config{
		Kind:       cfg.Cache.Kind,
		RedisAddr:  cfg.Cache.Redis.Addr,
		RedisDB:    cfg.Cache.Redis.DB,
		Prefix:     cfg.Cache.Redis.Prefix,
		DefaultTTL: mustDuration(cfg.Cache.Memory.DefaultTTL),
	})
	defer cc.Close()

	// ─── Crypto / tokens ───
	hasher := password.New(cfg.Auth.BCryptCost)
	issuer := jwtx.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWTTTL())
	if issuer.UsingInsecureSecret() {
		// Grita fuerte: correr así en prod es un incidente esperando fecha.
		log.Warn("JWT_SECRET no configurado, usando secreto de desarrollo INSEGURO")
	}

	// ─── Email ───
	var sender email.Sender
	switch cfg.Email.Driver {
	case "smtp":
		s := email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.Username, cfg.SMTP.Password)
		s.TLSMode = cfg.SMTP.TLS
		s.InsecureSkipVerify = cfg.SMTP.InsecureSkipVerify
		sender = s
	default:
		sender = email.LogSender{}
	}

	// ─── Seed de admins ───
	if err := bootstrap.EnsureAdminSeed(ctx, cfg, st, hasher); err != nil {
		return err
	}

	// ─── Services ───
	authService := authsvc.New(authsvc.Deps{
		Store:     st,
		Hasher:    hasher,
		Issuer:    issuer,
		Sender:    sender,
		BaseURL:   cfg.Server.PublicBaseURL,
		VerifyTTL: cfg.Auth.Verify.TTL,
		IsAdmin:   cfg.IsAdminEmail,
	})
	profileService := profilesvc.New(st)
	catalogService := catalogsvc.New(st)
	adminService := adminsvc.New(st)
	healthService := healthsvc.New(healthsvc.Deps{Store: st, Cache: cc, Version: Version})

	// ─── Metrics ───
	var poolFn func() *pgxpool.Pool
	if pgStore, ok := st.(*pg.Store); ok {
		poolFn = pgStore.Pool
	}
	metricsHandler, err := httpx.RegisterMetrics(httpx.MetricsConfig{Pool: poolFn})
	if err != nil {
		return err
	}

	// ─── Rate limiters ───
	var loginLimiter, signupLimiter, resendLimiter rate.Limiter
	if cfg.Rate.Enabled {
		loginLimiter = rate.NewFixedWindow(cc, "rl:login:", cfg.Rate.Login.Limit, mustDuration(cfg.Rate.Login.Window))
		signupLimiter = rate.NewFixedWindow(cc, "rl:signup:", cfg.Rate.Signup.Limit, mustDuration(cfg.Rate.Signup.Window))
		resendLimiter = rate.NewFixedWindow(cc, "rl:resend:", cfg.Rate.Resend.Limit, mustDuration(cfg.Rate.Resend.Window))
	}

	// ─── Router ───
	handler := router.New(router.Deps{
		Issuer:  issuer,
		IsAdmin: cfg.IsAdminEmail,

		Auth:    authctrl.NewAuthController(authService),
		Profile: profilectrl.NewProfileController(profileService),
		Catalog: catalogctrl.NewCatalogController(catalogService),
		Admin:   adminctrl.NewAdminController(adminService),
		Health:  healthctrl.NewHealthController(healthService),

		Metrics: metricsHandler,

		LoginLimiter:  loginLimiter,
		SignupLimiter: signupLimiter,
		ResendLimiter: resendLimiter,

		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      httpx.WithMetrics(handler),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("listening",
			logger.String("addr", cfg.Server.Addr),
			logger.String("env", cfg.App.Env),
			logger.String("storage", cfg.Storage.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// mustDuration parsea duraciones ya validadas por config.Load.
func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
