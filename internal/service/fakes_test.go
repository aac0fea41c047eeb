package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/domain"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/events"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/merchant"
)

type memoryRepo struct {
	mu      sync.Mutex
	records map[string]domain.MobRecord
	next    int
	findErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{records: make(map[string]domain.MobRecord)}
}

func (r *memoryRepo) FindByID(_ context.Context, id string) (domain.MobRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return domain.MobRecord{}, fmt.Errorf("memory: %w", domain.ErrRecordNotFound)
	}
	return rec, nil
}

func (r *memoryRepo) Insert(_ context.Context, rec domain.MobRecord) (domain.MobRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	rec.ID = fmt.Sprintf("mob-%d", r.next)
	r.records[rec.ID] = rec
	return rec, nil
}

func (r *memoryRepo) Update(_ context.Context, rec domain.MobRecord) (domain.MobRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[rec.ID] = rec
	return rec, nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return fmt.Errorf("memory: %w", domain.ErrRecordNotFound)
	}
	delete(r.records, id)
	return nil
}

func (r *memoryRepo) FindMerchants(_ context.Context) ([]domain.MobRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findErr != nil {
		return nil, r.findErr
	}
	records := make([]domain.MobRecord, 0, len(r.records))
	for _, rec := range r.records {
		records = append(records, rec)
	}
	return records, nil
}

type fakeCatalogs map[string]*domain.TradeCatalog

func (f fakeCatalogs) Catalog(_ context.Context, key string) (*domain.TradeCatalog, error) {
	c, ok := f[key]
	if !ok {
		return nil, errCatalogMissing
	}
	return c, nil
}

type fakeItems struct {
	fail      bool
	templates map[string]domain.ItemTemplate
}

func (f fakeItems) FindByID(_ context.Context, id string) (domain.ItemTemplate, error) {
	t, ok := f.templates[id]
	if !ok {
		return domain.ItemTemplate{}, fmt.Errorf("fake: %w", domain.ErrRecordNotFound)
	}
	return t, nil
}

func (f fakeItems) CreateFromTemplate(_ context.Context, id string) (domain.CurrencyItem, error) {
	if f.fail {
		return domain.CurrencyItem{}, errors.New("no template")
	}
	return domain.CurrencyItem{TemplateID: id, Name: id + " token"}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.TradeEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.TradeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Events() []events.TradeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.TradeEvent(nil), p.events...)
}

type fakeMessenger struct {
	mu       sync.Mutex
	windows  int
	messages []string
}

func (f *fakeMessenger) SendMerchantWindow(*domain.TradeCatalog, domain.WindowKind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windows++
	return nil
}

func (f *fakeMessenger) SendMessage(text string, _ domain.ChatType, _ domain.ChatLocation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, text)
	return nil
}

type fakeActor struct {
	name  string
	realm uint8
	pos   domain.Position
	out   *fakeMessenger
}

func newActor(pos domain.Position) *fakeActor {
	return &fakeActor{name: "Aria", realm: 1, pos: pos, out: &fakeMessenger{}}
}

func (a *fakeActor) Name() string              { return a.name }
func (a *fakeActor) Realm() uint8              { return a.realm }
func (a *fakeActor) Position() domain.Position { return a.pos }
func (a *fakeActor) Out() merchant.Messenger   { return a.out }

var errCatalogMissing = errors.New("catalog missing")
