package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssueAndParseRoundTrip(t *testing.T) {
	iss := NewIssuer("unit-secret", "globyx-api", "globyx-app", time.Hour)

	signed, exp, err := iss.Issue(Claims{Email: "ana@example.com", Name: "Ana"}, 0)
	require.NoError(t, err)
	require.NotEmpty(t, signed)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	got, err := iss.Parse(signed)
	require.NoError(t, err)
	require.Equal(t, "ana@example.com", got.Identity())
	require.Equal(t, "ana@example.com", got.Email)
	require.Equal(t, "Ana", got.Name)
	require.False(t, got.IsAdmin)
}

func TestIssueNormalizesIdentity(t *testing.T) {
	iss := NewIssuer("unit-secret", "", "", time.Hour)

	signed, _, err := iss.Issue(Claims{Email: "  Ana@Example.COM "}, 0)
	require.NoError(t, err)

	got, err := iss.Parse(signed)
	require.NoError(t, err)
	require.Equal(t, "ana@example.com", got.Subject)
	require.Equal(t, "ana@example.com", got.Email)
}

func TestIssueEmptySubjectFails(t *testing.T) {
	iss := NewIssuer("unit-secret", "", "", time.Hour)
	_, _, err := iss.Issue(Claims{Email: "   "}, 0)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseTamperedToken(t *testing.T) {
	iss := NewIssuer("unit-secret", "", "", time.Hour)
	signed, _, err := iss.Issue(Claims{Email: "ana@example.com"}, 0)
	require.NoError(t, err)

	// Pisar un byte del payload invalida la firma.
	parts := strings.Split(signed, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = iss.Parse(tampered)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseWrongSecret(t *testing.T) {
	a := NewIssuer("secret-a", "", "", time.Hour)
	b := NewIssuer("secret-b", "", "", time.Hour)

	signed, _, err := a.Issue(Claims{Email: "ana@example.com"}, 0)
	require.NoError(t, err)

	_, err = b.Parse(signed)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseExpiredIsDistinct(t *testing.T) {
	iss := NewIssuer("unit-secret", "", "", time.Hour)

	// TTL negativo más grande que el leeway: el token ya nació vencido.
	signed, _, err := iss.Issue(Claims{Email: "ana@example.com"}, -time.Minute)
	require.NoError(t, err)

	_, err = iss.Parse(signed)
	require.ErrorIs(t, err, ErrTokenExpired)
	require.NotErrorIs(t, err, ErrTokenInvalid)
}

func TestParseGarbage(t *testing.T) {
	iss := NewIssuer("unit-secret", "", "", time.Hour)
	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := iss.Parse(raw)
		require.ErrorIs(t, err, ErrTokenInvalid, "raw=%q", raw)
	}
}

func TestParseChecksIssuerAndAudience(t *testing.T) {
	strict := NewIssuer("unit-secret", "globyx-api", "globyx-app", time.Hour)
	loose := NewIssuer("unit-secret", "", "", time.Hour)

	// Token sin iss/aud contra un parser que los exige.
	signed, _, err := loose.Issue(Claims{Email: "ana@example.com"}, 0)
	require.NoError(t, err)
	_, err = strict.Parse(signed)
	require.ErrorIs(t, err, ErrTokenInvalid)

	// El propio emisor estricto se valida a sí mismo.
	signed, _, err = strict.Issue(Claims{Email: "ana@example.com"}, 0)
	require.NoError(t, err)
	_, err = strict.Parse(signed)
	require.NoError(t, err)
}

func TestIsAdminClaimRoundTrip(t *testing.T) {
	iss := NewIssuer("unit-secret", "", "", time.Hour)
	signed, _, err := iss.Issue(Claims{Email: "root@example.com", IsAdmin: true}, 0)
	require.NoError(t, err)

	got, err := iss.Parse(signed)
	require.NoError(t, err)
	require.True(t, got.IsAdmin)
}

func TestInsecureSecretFallback(t *testing.T) {
	require.True(t, NewIssuer("", "", "", 0).UsingInsecureSecret())
	require.False(t, NewIssuer("real", "", "", 0).UsingInsecureSecret())
}
