package merchant

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/domain"
)

type sentWindow struct {
	catalog *domain.TradeCatalog
	kind    domain.WindowKind
}

type fakeMessenger struct {
	mu       sync.Mutex
	windows  []sentWindow
	messages []string
}

func (f *fakeMessenger) SendMerchantWindow(catalog *domain.TradeCatalog, kind domain.WindowKind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windows = append(f.windows, sentWindow{catalog: catalog, kind: kind})
	return nil
}

func (f *fakeMessenger) SendMessage(text string, _ domain.ChatType, _ domain.ChatLocation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, text)
	return nil
}

func (f *fakeMessenger) Messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.messages...)
}

func (f *fakeMessenger) Windows() []sentWindow {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentWindow(nil), f.windows...)
}

type fakeActor struct {
	name  string
	realm uint8
	pos   domain.Position
	out   *fakeMessenger
}

func newActor(pos domain.Position) *fakeActor {
	return &fakeActor{name: "Ayla", realm: 1, pos: pos, out: &fakeMessenger{}}
}

func (a *fakeActor) Name() string              { return a.name }
func (a *fakeActor) Realm() uint8              { return a.realm }
func (a *fakeActor) Position() domain.Position { return a.pos }
func (a *fakeActor) Out() Messenger            { return a.out }

type fakeSpeaker struct{}

func (fakeSpeaker) Name() string { return "a rat" }

type fakeBrain struct {
	level, rng int
}

func (b *fakeBrain) AggroLevel() int { return b.level }
func (b *fakeBrain) AggroRange() int { return b.rng }
func (b *fakeBrain) SetAggro(level, rng int) {
	b.level = level
	b.rng = rng
}

type fakeBody struct {
	refuseInteract bool
	refuseWhisper  bool
	refuseWorld    bool

	inWorld bool
	turned  []string
	brain   *fakeBrain
}

func (b *fakeBody) ExamineMessages(_ *domain.Merchant, _ Actor) []string {
	return []string{"base line"}
}

func (b *fakeBody) Pronoun(_ *domain.Merchant, capitalize bool) string {
	if capitalize {
		return "He"
	}
	return "he"
}

func (b *fakeBody) AggroLevelString(_ *domain.Merchant, _ Actor) string {
	return "friendly"
}

func (b *fakeBody) Interact(_ *domain.Merchant, _ Actor) bool {
	return !b.refuseInteract
}

func (b *fakeBody) WhisperReceive(_ *domain.Merchant, _ Speaker, _ string) bool {
	return !b.refuseWhisper
}

func (b *fakeBody) TurnTo(self *domain.Merchant, actor Actor, _ time.Duration) {
	self.Heading = self.Position.HeadingTo(actor.Position())
	b.turned = append(b.turned, actor.Name())
}

func (b *fakeBody) AddToWorld(_ *domain.Merchant) bool {
	if b.refuseWorld {
		return false
	}
	b.inWorld = true
	return true
}

func (b *fakeBody) RemoveFromWorld(_ *domain.Merchant) {
	b.inWorld = false
}

func (b *fakeBody) Brain() Brain {
	if b.brain == nil {
		return nil
	}
	return b.brain
}

type memoryStore struct {
	records map[string]domain.MobRecord
	next    int
	deletes int
	updates int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: map[string]domain.MobRecord{}}
}

func (s *memoryStore) FindByID(_ context.Context, id string) (domain.MobRecord, error) {
	rec, ok := s.records[id]
	if !ok {
		return domain.MobRecord{}, fmt.Errorf("mob %s: %w", id, domain.ErrRecordNotFound)
	}
	return rec, nil
}

func (s *memoryStore) Insert(_ context.Context, rec domain.MobRecord) (domain.MobRecord, error) {
	s.next++
	rec.ID = fmt.Sprintf("mob-%d", s.next)
	s.records[rec.ID] = rec
	return rec, nil
}

func (s *memoryStore) Update(_ context.Context, rec domain.MobRecord) (domain.MobRecord, error) {
	s.updates++
	s.records[rec.ID] = rec
	return rec, nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.deletes++
	delete(s.records, id)
	return nil
}

type fakeCatalogs map[string]*domain.TradeCatalog

func (f fakeCatalogs) Catalog(_ context.Context, key string) (*domain.TradeCatalog, error) {
	c, ok := f[key]
	if !ok {
		return nil, errors.New("catalog not found")
	}
	return c, nil
}

type fakeItems struct {
	calls []string
	err   error
}

func (f *fakeItems) CreateFromTemplate(_ context.Context, templateID string) (domain.CurrencyItem, error) {
	f.calls = append(f.calls, templateID)
	if f.err != nil {
		return domain.CurrencyItem{}, f.err
	}
	return domain.CurrencyItem{TemplateID: templateID, Name: "Currency " + templateID}, nil
}

// syncDispatcher delivers on the calling goroutine.
type syncDispatcher struct{}

func (syncDispatcher) Dispatch(actor Actor, catalog *domain.TradeCatalog, kind domain.WindowKind) {
	_ = DeliverWindow(actor, catalog, kind)
}

type recordingDispatcher struct {
	calls []sentWindow
}

func (d *recordingDispatcher) Dispatch(_ Actor, catalog *domain.TradeCatalog, kind domain.WindowKind) {
	d.calls = append(d.calls, sentWindow{catalog: catalog, kind: kind})
}
