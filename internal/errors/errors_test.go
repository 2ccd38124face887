package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", Validation("name is required"), http.StatusBadRequest, "name is required"},
		{"wrapped not found", fmt.Errorf("replace: %w", NotFound("software not found")), http.StatusNotFound, "software not found"},
		{"conflict", Conflict("modified concurrently"), http.StatusConflict, "modified concurrently"},
		{"unauthenticated", Unauthenticated("bad token"), http.StatusUnauthorized, "bad token"},
		{"configuration", fmt.Errorf("sign: %w", ErrConfiguration), http.StatusInternalServerError, "server is not configured"},
		{"configuration with cause", Configuration("signing is disabled", errors.New("no secret")), http.StatusInternalServerError, "signing is disabled"},
		{"unknown", errors.New("pq: connection refused"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantMsg, httpErr.Message)
		})
	}
}

func TestHTTPErrorHandler(t *testing.T) {
	e := echo.New()
	handler := HTTPErrorHandler(zap.NewNop())

	t.Run("internal error does not leak", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/items", nil), rec)

		handler(errors.New("open /var/lib/osfr/secret: permission denied"), c)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "/var/lib")

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "internal server error", body.Error)
	})

	t.Run("echo error with string message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/nowhere", nil), rec)

		handler(echo.ErrNotFound, c)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())
	})

	t.Run("echo error with structured message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/auth/login", nil), rec)

		handler(echo.NewHTTPError(http.StatusUnauthorized, MessageResponse{Msg: "invalid credentials"}), c)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"msg":"invalid credentials"}`, rec.Body.String())
	})
	t.Run("authentication failure answers with msg", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/admin/me", nil), rec)

		handler(Unauthenticated("invalid or expired token"), c)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"msg":"invalid or expired token"}`, rec.Body.String())
	})

	t.Run("configuration error hides its cause", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/auth/login", nil), rec)
		cause := errors.New("JWT_SECRET is empty")

		err := Configuration("server is not configured", cause)
		assert.ErrorIs(t, err, ErrConfiguration)
		assert.ErrorIs(t, err, cause)
		handler(err, c)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"msg":"server is not configured"}`, rec.Body.String())
	})
}
