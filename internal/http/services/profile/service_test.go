package profile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/myglobyx/globyx-api/internal/http/dto"
	"github.com/myglobyx/globyx-api/internal/http/services/profile"
	"github.com/myglobyx/globyx-api/internal/store/core"
	"github.com/myglobyx/globyx-api/internal/store/memory"
)

func seedUser(t *testing.T, st *memory.Store, email string) {
	t.Helper()
	err := st.Users().Create(context.Background(), &core.User{
		Name:         "Ana",
		Email:        email,
		PasswordHash: "$2a$08$fake",
	})
	require.NoError(t, err)
}

func strPtr(s string) *string { return &s }

func TestGetProfile(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := profile.New(st)
	seedUser(t, st, "ana@example.com")

	p, err := svc.Get(ctx, " Ana@Example.com ")
	require.NoError(t, err)
	require.Equal(t, "ana@example.com", p.Email)
	require.Equal(t, "Ana", p.Name)

	_, err = svc.Get(ctx, "nadie@example.com")
	require.ErrorIs(t, err, profile.ErrUserNotFound)
}

func TestUpdateProfileStripsPhone(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := profile.New(st)
	seedUser(t, st, "ana@example.com")

	p, err := svc.Update(ctx, "ana@example.com", dto.ProfilePatchRequest{
		Phone: strPtr("+55 (11) 99999-0000"),
	})
	require.NoError(t, err)
	require.Equal(t, "5511999990000", p.Phone)
}

func TestUpdateProfileAddress(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := profile.New(st)
	seedUser(t, st, "ana@example.com")

	p, err := svc.Update(ctx, "ana@example.com", dto.ProfilePatchRequest{
		Name: strPtr("  Ana María  "),
		Address: &dto.AddressPayload{
			City:  strPtr(" São Paulo "),
			State: strPtr(" sp "),
		},
	})
	require.NoError(t, err)
	require.Equal(t, "Ana María", p.Name)
	require.NotNil(t, p.Address)
	require.Equal(t, "São Paulo", p.Address.City)
	require.Equal(t, "SP", p.Address.State)

	// Un patch posterior sin address no la borra.
	p, err = svc.Update(ctx, "ana@example.com", dto.ProfilePatchRequest{
		Document: strPtr("123.456.789-00"),
	})
	require.NoError(t, err)
	require.NotNil(t, p.Address)
	require.Equal(t, "SP", p.Address.State)
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	svc := profile.New(memory.New())
	_, err := svc.Update(context.Background(), "nadie@example.com", dto.ProfilePatchRequest{})
	require.ErrorIs(t, err, profile.ErrUserNotFound)
}
