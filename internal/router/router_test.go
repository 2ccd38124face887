package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"osfr/internal/config"
	"osfr/internal/handler"
)

func newTestServer(t *testing.T) *echo.Echo {
	e := echo.New()
	cfg := &config.Config{FrontendURL: "http://localhost:5173", Production: true}
	Register(e, cfg, zaptest.NewLogger(t), nil, Handlers{
		Auth:        handler.NewAuthHandler(nil),
		Catalog:     handler.NewCatalogHandler(nil),
		Resource:    handler.NewResourceHandler(nil),
		Instruction: handler.NewInstructionHandler(nil),
		Software:    handler.NewSoftwareHandler(nil),
		Image:       handler.NewImageHandler(nil),
	})
	return e
}

func TestAdminRoutesRequireToken(t *testing.T) {
	e := newTestServer(t)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/admin/dashboard"},
		{http.MethodGet, "/api/admin/me"},
		{http.MethodPost, "/api/admin/auth/logout"},
		{http.MethodGet, "/api/admin/all-items"},
		{http.MethodPost, "/api/admin/resources"},
		{http.MethodDelete, "/api/admin/instructions/1"},
		{http.MethodPost, "/api/admin/software"},
		{http.MethodPut, "/api/admin/software/1"},
		{http.MethodPost, "/api/admin/software/1"},
		{http.MethodDelete, "/api/admin/software/1"},
		{http.MethodPost, "/api/admin/upload-image"},
		{http.MethodPost, "/api/admin/delete-image"},
	}

	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(r.method, r.path, nil))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"msg":"missing or malformed token"}`, rec.Body.String())
		})
	}
}

func TestHealthAndCORS(t *testing.T) {
	e := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:5173")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlExposeHeaders), echo.HeaderContentDisposition)
}

func TestSwaggerHiddenInProduction(t *testing.T) {
	e := newTestServer(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
