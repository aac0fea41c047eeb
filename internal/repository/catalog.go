package repository

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/domain"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/repository/dao"
)

type CatalogDAO interface {
	FindByListID(ctx context.Context, listID string) ([]dao.MerchantItem, error)
	ReplaceCatalog(ctx context.Context, listID string, items []dao.MerchantItem) error
}

// CatalogCache is a shared cache in front of the catalog tables. A miss is
// reported as (nil, false, nil).
type CatalogCache interface {
	Get(ctx context.Context, key string) (*domain.TradeCatalog, bool, error)
	Set(ctx context.Context, catalog *domain.TradeCatalog) error
	Delete(ctx context.Context, key string) error
}

// CatalogRepository resolves trade catalogs by key. Each key is loaded once
// and every merchant using it shares the same *domain.TradeCatalog.
type CatalogRepository struct {
	dao   CatalogDAO
	cache CatalogCache
	log   *zap.Logger

	group singleflight.Group

	mu       sync.RWMutex
	catalogs map[string]*domain.TradeCatalog
}

// NewCatalogRepository creates the repository. cache may be nil.
func NewCatalogRepository(dao CatalogDAO, cache CatalogCache, log *zap.Logger) *CatalogRepository {
	if log == nil {
		log = zap.NewNop()
	}

	return &CatalogRepository{
		dao:      dao,
		cache:    cache,
		log:      log,
		catalogs: make(map[string]*domain.TradeCatalog),
	}
}

// Catalog returns the shared catalog for key. Concurrent misses share one
// load, which is not cancelled with the caller that started it.
func (r *CatalogRepository) Catalog(ctx context.Context, key string) (*domain.TradeCatalog, error) {
	if catalog, ok := r.lookup(key); ok {
		return catalog, nil
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		if catalog, ok := r.lookup(key); ok {
			return catalog, nil
		}

		catalog, err := r.load(context.WithoutCancel(ctx), key)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.catalogs[key] = catalog
		r.mu.Unlock()

		return catalog, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.TradeCatalog), nil
}

// ReplaceCatalog stores templateIDs as the ordered slots of the catalog key.
// Merchants already holding the previous catalog keep it until reloaded.
func (r *CatalogRepository) ReplaceCatalog(ctx context.Context, key string, templateIDs []string) error {
	items := make([]dao.MerchantItem, 0, len(templateIDs))
	for i, id := range templateIDs {
		items = append(items, dao.MerchantItem{
			PageNumber:     domain.PageOf(i),
			SlotPosition:   i % domain.TradeCatalogPageSize,
			ItemTemplateID: id,
		})
	}

	if err := r.dao.ReplaceCatalog(ctx, key, items); err != nil {
		return fmt.Errorf("r.dao.ReplaceCatalog -> %w", err)
	}

	r.mu.Lock()
	delete(r.catalogs, key)
	r.mu.Unlock()

	if r.cache != nil {
		if err := r.cache.Delete(ctx, key); err != nil {
			r.log.Warn("failed to evict catalog from cache", zap.String("catalog", key), zap.Error(err))
		}
	}

	return nil
}

func (r *CatalogRepository) lookup(key string) (*domain.TradeCatalog, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	catalog, ok := r.catalogs[key]
	return catalog, ok
}

func (r *CatalogRepository) load(ctx context.Context, key string) (*domain.TradeCatalog, error) {
	if r.cache != nil {
		catalog, ok, err := r.cache.Get(ctx, key)
		switch {
		case err != nil:
			r.log.Warn("failed to read catalog from cache", zap.String("catalog", key), zap.Error(err))
		case ok:
			return catalog, nil
		}
	}

	rows, err := r.dao.FindByListID(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByListID -> %w", err)
	}

	items := make([]domain.ItemTemplate, 0, len(rows))
	for _, row := range rows {
		items = append(items, itemTemplateToDomain(row.ItemTemplate))
	}
	catalog := domain.NewTradeCatalog(key, items)

	if r.cache != nil {
		if err := r.cache.Set(ctx, catalog); err != nil {
			r.log.Warn("failed to write catalog to cache", zap.String("catalog", key), zap.Error(err))
		}
	}

	return catalog, nil
}
