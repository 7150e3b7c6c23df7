package admin_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/myglobyx/globyx-api/internal/http/controllers/admin"
	"github.com/myglobyx/globyx-api/internal/http/dto"
	svc "github.com/myglobyx/globyx-api/internal/http/services/admin"
	"github.com/myglobyx/globyx-api/internal/store/core"
)

// stubService devuelve errores fijos para probar el mapeo de errores HTTP
// sin pasar por el store.
type stubService struct {
	svc.Service
	createErr error
}

func (s *stubService) CreateProduct(ctx context.Context, in dto.ProductCreateRequest) (*dto.ProductResponse, error) {
	return nil, s.createErr
}

func postProduct(t *testing.T, c *admin.AdminController, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c.CreateProduct(rec, req)
	return rec
}

func errCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestCreateProductSlugConflictIs409(t *testing.T) {
	// Dos creates concurrentes pueden chocar recién en el índice único.
	c := admin.NewAdminController(&stubService{createErr: core.ErrConflict})

	rec := postProduct(t, c, `{"title":"Curso de Go","active":true}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "SLUG_TAKEN", errCode(t, rec))
}

func TestCreateProductUnknownErrorIs500(t *testing.T) {
	c := admin.NewAdminController(&stubService{createErr: context.DeadlineExceeded})

	rec := postProduct(t, c, `{"title":"Curso de Go","active":true}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "INTERNAL_SERVER_ERROR", errCode(t, rec))
}
