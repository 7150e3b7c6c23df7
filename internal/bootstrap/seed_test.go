package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/myglobyx/globyx-api/internal/config"
	"github.com/myglobyx/globyx-api/internal/security/password"
	"github.com/myglobyx/globyx-api/internal/store/core"
	"github.com/myglobyx/globyx-api/internal/store/memory"
)

func seedConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Seed.AutoSeedAdmin = true
	cfg.Seed.AdminPassword = "clave-de-seed"
	cfg.Auth.AdminEmails = []string{"root@example.com", "ops@example.com"}
	return cfg
}

func TestEnsureAdminSeedCreatesMissing(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	cfg := seedConfig(t)

	require.NoError(t, EnsureAdminSeed(ctx, cfg, st, password.New(8)))

	for _, email := range cfg.Auth.AdminEmails {
		u, err := st.Users().FindByEmail(ctx, email)
		require.NoError(t, err)
		require.True(t, u.IsVerified)
		require.Equal(t, cfg.Seed.AdminName, u.Name)
	}
}

func TestEnsureAdminSeedDoesNotTouchExisting(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	cfg := seedConfig(t)

	require.NoError(t, st.Users().Create(ctx, &core.User{
		Name:         "Root Original",
		Email:        "root@example.com",
		PasswordHash: "hash-original",
	}))

	require.NoError(t, EnsureAdminSeed(ctx, cfg, st, password.New(8)))

	u, err := st.Users().FindByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	require.Equal(t, "hash-original", u.PasswordHash)
	require.Equal(t, "Root Original", u.Name)

	// La otra cuenta sí se creó.
	_, err = st.Users().FindByEmail(ctx, "ops@example.com")
	require.NoError(t, err)
}

func TestEnsureAdminSeedSkipsWhenDisabled(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	cfg := seedConfig(t)
	cfg.Seed.AutoSeedAdmin = false

	require.NoError(t, EnsureAdminSeed(ctx, cfg, st, password.New(8)))
	_, err := st.Users().FindByEmail(ctx, "root@example.com")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestEnsureAdminSeedSkipsWithoutPassword(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	cfg := seedConfig(t)
	cfg.Seed.AdminPassword = ""

	require.NoError(t, EnsureAdminSeed(ctx, cfg, st, password.New(8)))
	_, err := st.Users().FindByEmail(ctx, "root@example.com")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestCreateAdminUpserts(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	h := password.New(8)

	u, err := CreateAdmin(ctx, st, h, "Root", "Root@Example.com", "clave-uno")
	require.NoError(t, err)
	require.Equal(t, "root@example.com", u.Email)
	require.True(t, u.IsVerified)

	// El CLI sí pisa credenciales a propósito.
	u2, err := CreateAdmin(ctx, st, h, "Root", "root@example.com", "clave-dos")
	require.NoError(t, err)
	require.Equal(t, u.ID, u2.ID)
	require.NotEqual(t, u.PasswordHash, u2.PasswordHash)
	require.True(t, h.Verify("clave-dos", u2.PasswordHash))
}
