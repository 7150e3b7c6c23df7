package dto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sp(s string) *string { return &s }

func TestSignupRequestValidate(t *testing.T) {
	ok := SignupRequest{Name: "Ana", Email: "ana@example.com", Password: "123456"}
	require.NoError(t, ok.Validate())

	cases := []struct {
		name string
		req  SignupRequest
	}{
		{"nombre corto", SignupRequest{Name: "A", Email: "ana@example.com", Password: "123456"}},
		{"sin nombre", SignupRequest{Email: "ana@example.com", Password: "123456"}},
		{"email inválido", SignupRequest{Name: "Ana", Email: "no-es-email", Password: "123456"}},
		{"password corta", SignupRequest{Name: "Ana", Email: "ana@example.com", Password: "12345"}},
	}
	for _, c := range cases {
		require.Error(t, c.req.Validate(), c.name)
	}
}

func TestLoginRequestValidate(t *testing.T) {
	require.NoError(t, LoginRequest{Email: "ana@example.com", Password: "123456"}.Validate())
	require.Error(t, LoginRequest{Email: "", Password: "123456"}.Validate())
	require.Error(t, LoginRequest{Email: "ana@example.com", Password: ""}.Validate())
}

func TestProfilePatchRequestValidate(t *testing.T) {
	require.NoError(t, ProfilePatchRequest{}.Validate())
	require.NoError(t, ProfilePatchRequest{Name: sp("Ana María")}.Validate())
	require.Error(t, ProfilePatchRequest{Name: sp("A")}.Validate())
	require.Error(t, ProfilePatchRequest{Phone: sp("123")}.Validate())
	require.Error(t, ProfilePatchRequest{Address: &AddressPayload{State: sp("SAO")}}.Validate())
	require.NoError(t, ProfilePatchRequest{Address: &AddressPayload{State: sp("SP")}}.Validate())
}

func TestProductCreateRequestValidate(t *testing.T) {
	require.NoError(t, ProductCreateRequest{Title: "Curso"}.Validate())
	require.Error(t, ProductCreateRequest{}.Validate())
}

func TestGrantCreateRequestValidate(t *testing.T) {
	require.NoError(t, GrantCreateRequest{Email: "ana@example.com", ProductID: "p1"}.Validate())
	require.Error(t, GrantCreateRequest{Email: "", ProductID: "p1"}.Validate())
	require.Error(t, GrantCreateRequest{Email: "no-es-email", ProductID: "p1"}.Validate())
	require.Error(t, GrantCreateRequest{Email: "ana@example.com"}.Validate())
}
