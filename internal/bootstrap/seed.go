// Package bootstrap corre tareas de arranque (seed de admins).
package bootstrap

import (
	"context"
	"errors"

	"github.com/myglobyx/globyx-api/internal/config"
	jwtx "github.com/myglobyx/globyx-api/internal/jwt"
	"github.com/myglobyx/globyx-api/internal/observability/logger"
	"github.com/myglobyx/globyx-api/internal/security/password"
	"github.com/myglobyx/globyx-api/internal/store/core"
)

// EnsureAdminSeed crea las cuentas de la allow-list de admins que todavía no
// existan. No toca cuentas existentes (un admin que cambió su password no
// quiere que el arranque se la pise).
func EnsureAdminSeed(ctx context.Context, cfg *config.Config, store core.Store, hasher *password.Hasher) error {
	log := logger.Named("bootstrap")

	if !cfg.Seed.AutoSeedAdmin {
		log.Debug("auto seed admin disabled")
		return nil
	}
	if len(cfg.Auth.AdminEmails) == 0 {
		log.Info("admin allow-list empty, nothing to seed")
		return nil
	}
	if cfg.Seed.AdminPassword == "" {
		log.Warn("admin seed skipped: no seed password configured")
		return nil
	}

	hash, err := hasher.Hash(cfg.Seed.AdminPassword)
	if err != nil {
		return err
	}

	created := 0
	for _, raw := range cfg.Auth.AdminEmails {
		emailNorm := jwtx.NormalizeEmail(raw)

		_, err := store.Users().FindByEmail(ctx, emailNorm)
		if err == nil {
			continue // ya existe, no se toca
		}
		if !errors.Is(err, core.ErrNotFound) {
			return err
		}

		if _, err := store.Users().UpsertPassword(ctx, cfg.Seed.AdminName, emailNorm, hash); err != nil {
			log.Error("admin seed failed", logger.UserID(emailNorm), logger.Err(err))
			return err
		}
		created++
		log.Info("admin seeded", logger.UserID(emailNorm))
	}

	log.Info("admin seed done", logger.Count(created))
	return nil
}

// CreateAdmin crea o actualiza una cuenta admin (CLI `admin create`). A
// diferencia del seed automático, acá el upsert es deliberado.
func CreateAdmin(ctx context.Context, store core.Store, hasher *password.Hasher, name, email, plainPassword string) (*core.User, error) {
	hash, err := hasher.Hash(plainPassword)
	if err != nil {
		return nil, err
	}
	return store.Users().UpsertPassword(ctx, name, jwtx.NormalizeEmail(email), hash)
}
