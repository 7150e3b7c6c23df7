package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	adminctrl "github.com/myglobyx/globyx-api/internal/http/controllers/admin"
	authctrl "github.com/myglobyx/globyx-api/internal/http/controllers/auth"
	catalogctrl "github.com/myglobyx/globyx-api/internal/http/controllers/catalog"
	healthctrl "github.com/myglobyx/globyx-api/internal/http/controllers/health"
	profilectrl "github.com/myglobyx/globyx-api/internal/http/controllers/profile"
	"github.com/myglobyx/globyx-api/internal/http/router"
	adminsvc "github.com/myglobyx/globyx-api/internal/http/services/admin"
	authsvc "github.com/myglobyx/globyx-api/internal/http/services/auth"
	catalogsvc "github.com/myglobyx/globyx-api/internal/http/services/catalog"
	healthsvc "github.com/myglobyx/globyx-api/internal/http/services/health"
	profilesvc "github.com/myglobyx/globyx-api/internal/http/services/profile"
	jwtx "github.com/myglobyx/globyx-api/internal/jwt"
	"github.com/myglobyx/globyx-api/internal/security/password"
	"github.com/myglobyx/globyx-api/internal/store/memory"
)

// newTestAPI arma el stack completo sobre el store en memoria, con
// root@example.com como único admin.
func newTestAPI(t *testing.T) http.Handler {
	t.Helper()

	st := memory.New()
	issuer := jwtx.NewIssuer("router-test-secret", "globyx-api", "", time.Hour)
	isAdmin := func(email string) bool { return email == "root@example.com" }

	auth := authsvc.New(authsvc.Deps{
		Store:   st,
		Hasher:  password.New(8),
		Issuer:  issuer,
		BaseURL: "http://localhost:5000",
		IsAdmin: isAdmin,
	})

	return router.New(router.Deps{
		Issuer:  issuer,
		IsAdmin: isAdmin,
		Auth:    authctrl.NewAuthController(auth),
		Profile: profilectrl.NewProfileController(profilesvc.New(st)),
		Catalog: catalogctrl.NewCatalogController(catalogsvc.New(st)),
		Admin:   adminctrl.NewAdminController(adminsvc.New(st)),
		Health:  healthctrl.NewHealthController(healthsvc.New(healthsvc.Deps{Store: st, Version: "test"})),
	})
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func signup(t *testing.T, h http.Handler, name, email, pass string) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": name, "email": email, "password": pass,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out struct {
		Token string `json:"token"`
	}
	decode(t, rec, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestSignupLoginMeFlow(t *testing.T) {
	h := newTestAPI(t)

	signup(t, h, "Ana", "Ana@Example.com", "super-secreta")

	// Login con el email en otro casing.
	rec := doJSON(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "super-secreta",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login struct {
		Token string `json:"token"`
		User  struct {
			Email      string `json:"email"`
			IsVerified bool   `json:"isVerified"`
		} `json:"user"`
	}
	decode(t, rec, &login)
	require.Equal(t, "ana@example.com", login.User.Email)
	require.False(t, login.User.IsVerified)

	rec = doJSON(t, h, http.MethodGet, "/api/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Sin token: 401.
	rec = doJSON(t, h, http.MethodGet, "/api/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignupValidation(t *testing.T) {
	h := newTestAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "A", "email": "no-es-email", "password": "123",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var out struct {
		Code string `json:"code"`
	}
	decode(t, rec, &out)
	require.Equal(t, "VALIDATION_ERROR", out.Code)
}

func TestSignupDuplicateGives409(t *testing.T) {
	h := newTestAPI(t)
	signup(t, h, "Ana", "ana@example.com", "super-secreta")

	rec := doJSON(t, h, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Otra", "email": "ANA@example.com", "password": "otra-clave",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestLegacyAliasRoutes(t *testing.T) {
	h := newTestAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/api/users/signup", "", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "super-secreta",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/users/login", "", map[string]string{
		"email": "ana@example.com", "password": "super-secreta",
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminAccessControl(t *testing.T) {
	h := newTestAPI(t)

	userToken := signup(t, h, "Ana", "ana@example.com", "super-secreta")
	adminToken := signup(t, h, "Root", "root@example.com", "clave-de-root")

	// Usuario común: 403.
	rec := doJSON(t, h, http.MethodGet, "/api/admin/ping", userToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Sin token: 401.
	rec = doJSON(t, h, http.MethodGet, "/api/admin/ping", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Admin: 200.
	rec = doJSON(t, h, http.MethodGet, "/api/admin/ping", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminProductAndGrantFlow(t *testing.T) {
	h := newTestAPI(t)

	userToken := signup(t, h, "Ana", "ana@example.com", "super-secreta")
	adminToken := signup(t, h, "Root", "root@example.com", "clave-de-root")

	// Crear producto.
	rec := doJSON(t, h, http.MethodPost, "/api/admin/products", adminToken, map[string]any{
		"title":          "Curso de Análisis",
		"landingPageUrl": "https://landing.example.com/analisis",
		"active":         true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Product struct {
			ID   string `json:"id"`
			Slug string `json:"slug"`
		} `json:"product"`
	}
	decode(t, rec, &created)
	require.Equal(t, "curso-de-analisis", created.Product.Slug)

	// Catálogo público lo lista.
	rec = doJSON(t, h, http.MethodGet, "/api/public/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Products []struct {
			Slug string `json:"slug"`
		} `json:"products"`
	}
	decode(t, rec, &listing)
	require.Len(t, listing.Products, 1)

	// Redirect por slug.
	rec = doJSON(t, h, http.MethodGet, "/p/curso-de-analisis", "", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "https://landing.example.com/analisis", rec.Header().Get("Location"))

	rec = doJSON(t, h, http.MethodGet, "/p/no-existe", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Sin grant, "mis productos" viene vacío.
	rec = doJSON(t, h, http.MethodGet, "/api/me/products", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &listing)
	require.Empty(t, listing.Products)

	// Otorgar acceso.
	rec = doJSON(t, h, http.MethodPost, "/api/admin/grants", adminToken, map[string]string{
		"email":     "ana@example.com",
		"productId": created.Product.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/api/me/products", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &listing)
	require.Len(t, listing.Products, 1)

	// Revocar por query params.
	rec = doJSON(t, h, http.MethodDelete,
		"/api/admin/grants?email=ana@example.com&productId="+created.Product.ID, adminToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/me/products", userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &listing)
	require.Empty(t, listing.Products)
}

func TestProfileFlow(t *testing.T) {
	h := newTestAPI(t)
	token := signup(t, h, "Ana", "ana@example.com", "super-secreta")

	rec := doJSON(t, h, http.MethodPut, "/api/profile/me", token, map[string]any{
		"name":  "Ana María",
		"phone": "+55 11 99999-0000",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/api/profile/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var prof struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	decode(t, rec, &prof)
	require.Equal(t, "Ana María", prof.Name)
	require.Equal(t, "5511999990000", prof.Phone)
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestAPI(t)

	rec := doJSON(t, h, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestNotFoundIsJSON(t *testing.T) {
	h := newTestAPI(t)

	rec := doJSON(t, h, http.MethodGet, "/api/no-existe", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	var out struct {
		Code string `json:"code"`
	}
	decode(t, rec, &out)
	require.Equal(t, "NOT_FOUND", out.Code)
}

func TestRequestIDHeader(t *testing.T) {
	h := newTestAPI(t)
	rec := doJSON(t, h, http.MethodGet, "/healthz", "", nil)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
