package middlewares

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	jwtx "github.com/myglobyx/globyx-api/internal/jwt"
)

func testIssuer() *jwtx.Issuer {
	return jwtx.NewIssuer("mw-test-secret", "", "", time.Hour)
}

// claimsEcho responde 200 con la identidad de las claims del contexto, o 204
// si no hay claims.
func claimsEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cl := GetClaims(r.Context())
		if cl == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(cl.Identity()))
	})
}

func errCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestRequireAuthMissingToken(t *testing.T) {
	h := RequireAuth(testIssuer())(claimsEcho())

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "TOKEN_MISSING", errCode(t, rec))
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
}

func TestRequireAuthInvalidToken(t *testing.T) {
	h := RequireAuth(testIssuer())(claimsEcho())

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer no-es-un-jwt")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "TOKEN_INVALID", errCode(t, rec))
}

func TestRequireAuthExpiredToken(t *testing.T) {
	iss := testIssuer()
	signed, _, err := iss.Issue(jwtx.Claims{Email: "ana@example.com"}, -time.Minute)
	require.NoError(t, err)

	h := RequireAuth(iss)(claimsEcho())
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "TOKEN_EXPIRED", errCode(t, rec))
}

func TestRequireAuthValidToken(t *testing.T) {
	iss := testIssuer()
	signed, _, err := iss.Issue(jwtx.Claims{Email: "Ana@Example.com"}, 0)
	require.NoError(t, err)

	h := RequireAuth(iss)(claimsEcho())
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ana@example.com", rec.Body.String())
}

func TestRequireAdmin(t *testing.T) {
	iss := testIssuer()
	isAdmin := func(email string) bool { return email == "root@example.com" }
	chain := Chain(claimsEcho(), RequireAuth(iss), RequireAdmin(isAdmin))

	// Sin token: 401 antes de evaluar la policy.
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Autenticado pero fuera de la allow-list: 403.
	signed, _, err := iss.Issue(jwtx.Claims{Email: "ana@example.com"}, 0)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec = httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "FORBIDDEN", errCode(t, rec))

	// En la allow-list: pasa.
	signed, _, err = iss.Issue(jwtx.Claims{Email: "root@example.com"}, 0)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec = httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdminIgnoresTokenClaim(t *testing.T) {
	iss := testIssuer()
	// is_admin=true en el token pero fuera de la allow-list actual: la policy
	// del request manda.
	signed, _, err := iss.Issue(jwtx.Claims{Email: "ex-admin@example.com", IsAdmin: true}, 0)
	require.NoError(t, err)

	chain := Chain(claimsEcho(), RequireAuth(iss), RequireAdmin(func(string) bool { return false }))
	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}
