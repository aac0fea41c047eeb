package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	v1 "github.com/yizeng/gab/gin/gorm/merchant/internal/api/handler/v1"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/config"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/dispatch"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/domain"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/events"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/pkg/jwthelper"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/service"
)

type memoryStore struct {
	records map[string]domain.MobRecord
}

func (m *memoryStore) FindByID(_ context.Context, id string) (domain.MobRecord, error) {
	rec, ok := m.records[id]
	if !ok {
		return domain.MobRecord{}, domain.ErrRecordNotFound
	}
	return rec, nil
}

func (m *memoryStore) Insert(_ context.Context, rec domain.MobRecord) (domain.MobRecord, error) {
	rec.ID = "m-1"
	m.records[rec.ID] = rec
	return rec, nil
}

func (m *memoryStore) Update(_ context.Context, rec domain.MobRecord) (domain.MobRecord, error) {
	m.records[rec.ID] = rec
	return rec, nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	delete(m.records, id)
	return nil
}

func (m *memoryStore) FindMerchants(_ context.Context) ([]domain.MobRecord, error) {
	return nil, nil
}

type staticCatalogs struct{}

func (staticCatalogs) Catalog(_ context.Context, key string) (*domain.TradeCatalog, error) {
	return domain.NewTradeCatalog(key, []domain.ItemTemplate{{ID: "sword", Value: 100}}), nil
}

type noItems struct{}

func (noItems) CreateFromTemplate(_ context.Context, id string) (domain.CurrencyItem, error) {
	return domain.CurrencyItem{TemplateID: id}, nil
}

func (noItems) FindByID(_ context.Context, id string) (domain.ItemTemplate, error) {
	return domain.ItemTemplate{ID: id, PackSize: 1}, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	conf := &config.AppConfig{
		API: config.API{JWTSigningKey: "server-key", AllowedCORSDomains: []string{"http://localhost"}},
		Gin: config.Gin{Mode: "test"},
	}

	svc := service.NewMerchantService(&memoryStore{records: map[string]domain.MobRecord{}},
		staticCatalogs{}, noItems{}, dispatch.NewInline(nil), events.Noop{}, zap.NewNop())
	hub := v1.NewSessionHub(nil)

	return NewServer(conf, Services{Merchants: svc, Catalogs: svc, Sessions: hub})
}

func TestServer_RoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/catalogs/weapons", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	s.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_CatalogWithToken(t *testing.T) {
	s := newTestServer(t)
	token, err := jwthelper.GenerateToken([]byte("server-key"), "Aria", 1, "test")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalogs/weapons", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sword"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
