package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/domain"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/repository/dao"
)

type fakeMobDAO struct {
	mu   sync.Mutex
	mobs map[string]dao.Mob
	next int
	err  error
}

func newFakeMobDAO() *fakeMobDAO {
	return &fakeMobDAO{mobs: make(map[string]dao.Mob)}
}

func (f *fakeMobDAO) Insert(_ context.Context, mob dao.Mob) (dao.Mob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return dao.Mob{}, f.err
	}
	if mob.ID == "" {
		f.next++
		mob.ID = "mob-" + string(rune('0'+f.next))
	}
	if _, ok := f.mobs[mob.ID]; ok {
		return dao.Mob{}, dao.ErrMobExists
	}
	mob.CreatedAt = time.Unix(1700000000, 0)
	f.mobs[mob.ID] = mob
	return mob, nil
}

func (f *fakeMobDAO) FindByID(_ context.Context, id string) (dao.Mob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return dao.Mob{}, f.err
	}
	mob, ok := f.mobs[id]
	if !ok {
		return dao.Mob{}, dao.ErrMobNotFound
	}
	return mob, nil
}

func (f *fakeMobDAO) FindByClassTypes(_ context.Context, classTypes []string) ([]dao.Mob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	var mobs []dao.Mob
	for _, m := range f.mobs {
		for _, ct := range classTypes {
			if m.ClassType == ct {
				mobs = append(mobs, m)
			}
		}
	}
	return mobs, nil
}

func (f *fakeMobDAO) Update(_ context.Context, mob dao.Mob) (dao.Mob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return dao.Mob{}, f.err
	}
	f.mobs[mob.ID] = mob
	return mob, nil
}

func (f *fakeMobDAO) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	if _, ok := f.mobs[id]; !ok {
		return dao.ErrMobNotFound
	}
	delete(f.mobs, id)
	return nil
}

type fakeCatalogDAO struct {
	mu      sync.Mutex
	lists   map[string][]dao.MerchantItem
	calls   atomic.Int32
	release chan struct{}
	err     error
}

func newFakeCatalogDAO() *fakeCatalogDAO {
	return &fakeCatalogDAO{lists: make(map[string][]dao.MerchantItem)}
}

func (f *fakeCatalogDAO) FindByListID(ctx context.Context, listID string) ([]dao.MerchantItem, error) {
	f.calls.Add(1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return append([]dao.MerchantItem(nil), f.lists[listID]...), nil
}

func (f *fakeCatalogDAO) ReplaceCatalog(_ context.Context, listID string, items []dao.MerchantItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	for i := range items {
		items[i].ItemsListID = listID
		items[i].ItemTemplate = dao.ItemTemplate{ID: items[i].ItemTemplateID, Name: items[i].ItemTemplateID, PackSize: 1}
	}
	f.lists[listID] = items
	return nil
}

type fakeCatalogCache struct {
	mu       sync.Mutex
	catalogs map[string]*domain.TradeCatalog
	getErr   error
	deleted  []string
}

func newFakeCatalogCache() *fakeCatalogCache {
	return &fakeCatalogCache{catalogs: make(map[string]*domain.TradeCatalog)}
}

func (f *fakeCatalogCache) Get(_ context.Context, key string) (*domain.TradeCatalog, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, false, f.getErr
	}
	c, ok := f.catalogs[key]
	return c, ok, nil
}

func (f *fakeCatalogCache) Set(_ context.Context, catalog *domain.TradeCatalog) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.catalogs[catalog.Key()] = catalog
	return nil
}

func (f *fakeCatalogCache) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleted = append(f.deleted, key)
	delete(f.catalogs, key)
	return nil
}

type fakeItemTemplateDAO struct {
	templates map[string]dao.ItemTemplate
}

func (f *fakeItemTemplateDAO) FindByID(_ context.Context, id string) (dao.ItemTemplate, error) {
	t, ok := f.templates[id]
	if !ok {
		return dao.ItemTemplate{}, dao.ErrItemTemplateNotFound
	}
	return t, nil
}

func (f *fakeItemTemplateDAO) Upsert(_ context.Context, templates []dao.ItemTemplate) error {
	for _, t := range templates {
		f.templates[t.ID] = t
	}
	return nil
}

var errBoom = errors.New("boom")
