package serverhttp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"sku-matcher/internal/catalog"
	"sku-matcher/internal/config"
	"sku-matcher/internal/matcher/service"
)

type staticProvider struct{}

func (staticProvider) Snapshot(context.Context) (*catalog.Snapshot, error) {
	return &catalog.Snapshot{Name: "empty", Index: service.BuildIndex(nil)}, nil
}

func TestRouterRoutes(t *testing.T) {
	r := NewRouter(config.Config{AllowOrigins: []string{"*"}, MaxUploadMB: 1}, staticProvider{}, zerolog.Nop())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/template", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/match", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
