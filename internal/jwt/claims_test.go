package jwt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	require.Equal(t, "ana@example.com", NormalizeEmail("  Ana@Example.COM "))
	require.Equal(t, "", NormalizeEmail("   "))
}

func TestClaimsNormalizeFillsMirrors(t *testing.T) {
	c := Claims{Email: "Ana@Example.com", Name: "  Ana  "}.Normalize()
	require.Equal(t, "ana@example.com", c.Subject)
	require.Equal(t, "ana@example.com", c.Email)
	require.Equal(t, "Ana", c.Name)

	c = Claims{Subject: "Bob@Example.com"}.Normalize()
	require.Equal(t, "bob@example.com", c.Subject)
	require.Equal(t, "bob@example.com", c.Email)
}
