package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithDetailReturnsCopy(t *testing.T) {
	e := ErrValidation.WithDetail("el campo name es obligatorio")

	require.Equal(t, "el campo name es obligatorio", e.Detail)
	require.Empty(t, ErrValidation.Detail) // la variable base no se muta
	require.Equal(t, ErrValidation.Code, e.Code)
}

func TestWithCausePreservesChain(t *testing.T) {
	cause := fmt.Errorf("conexión rechazada")
	e := ErrInternalServerError.WithCause(cause)

	require.ErrorIs(t, e, cause)
	require.Nil(t, ErrInternalServerError.Err)
	require.Contains(t, e.Error(), "conexión rechazada")
}

func TestFromError(t *testing.T) {
	require.Same(t, ErrNotFound, FromError(ErrNotFound))

	generic := fmt.Errorf("algo raro")
	e := FromError(generic)
	require.Equal(t, "INTERNAL_SERVER_ERROR", e.Code)
	require.ErrorIs(t, e, generic)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrTokenExpired)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "TOKEN_EXPIRED", body.Code)
	require.NotEmpty(t, body.Message)
	require.Empty(t, body.Detail)
}

func TestWriteErrorGenericBecomes500(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("falla interna"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	// La causa no se filtra al cliente.
	require.NotContains(t, rec.Body.String(), "falla interna")
}
