package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/domain"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/events"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/merchant"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/world"
)

var (
	ErrMerchantNotFound   = errors.New("merchant not found")
	ErrUnknownVariant     = errors.New("unknown merchant variant")
	ErrSaleRefused        = errors.New("merchant refused to buy the item")
	ErrPurchaseRefused    = errors.New("merchant refused to sell the item")
	ErrInvalidSlot        = errors.New("no item at this catalog slot")
	ErrInteractionRefused = errors.New("merchant refused the interaction")
	ErrNoCatalog          = errors.New("merchant has no catalog")
	ErrUnknownItem        = errors.New("unknown item template")
	ErrInvalidQuantity    = errors.New("invalid item quantity")
)

type MerchantRepository interface {
	merchant.Store
	FindMerchants(ctx context.Context) ([]domain.MobRecord, error)
}

// ItemTemplates creates currency items and resolves traded items to their
// stored template.
type ItemTemplates interface {
	merchant.ItemFactory
	FindByID(ctx context.Context, id string) (domain.ItemTemplate, error)
}

type SpawnParams struct {
	Variant             domain.VariantKind
	Name                string
	GuildName           string
	Position            domain.Position
	Heading             uint16
	Speed               int
	Realm               uint8
	Model               uint16
	Size                uint8
	Level               uint8
	Flags               uint32
	Gender              world.Gender
	AggroLevel          int
	AggroRange          int
	EquipmentTemplateID string
	CatalogKey          string
}

// MerchantInfo is a snapshot of a live merchant.
type MerchantInfo struct {
	ID         string
	Variant    domain.VariantKind
	Window     domain.WindowKind
	State      domain.Merchant
	CatalogKey string
	CatalogLen int
	Currency   *domain.CurrencyItem
}

// SaleResult is what the merchant pays for an item it accepted.
type SaleResult struct {
	Price int64
	Event events.TradeEvent
}

type PurchaseResult struct {
	Item  domain.ItemTemplate
	Price int64
	Event events.TradeEvent
}

type live struct {
	mu      sync.Mutex
	m       *merchant.Merchant
	npc     *world.NPC
	deleted bool
}

// MerchantService owns the live merchants. Operations on one merchant are
// serialized; different merchants proceed in parallel.
type MerchantService struct {
	repo       MerchantRepository
	catalogs   merchant.CatalogResolver
	items      ItemTemplates
	dispatcher merchant.WindowDispatcher
	publisher  events.Publisher
	log        *zap.Logger

	pickupDistance func() int

	mu        sync.RWMutex
	merchants map[string]*live
}

type MerchantServiceOption func(*MerchantService)

// WithPickupDistance sets the source of the maximum selling distance, read on
// every sale.
func WithPickupDistance(fn func() int) MerchantServiceOption {
	return func(s *MerchantService) {
		s.pickupDistance = fn
	}
}

func NewMerchantService(
	repo MerchantRepository,
	catalogs merchant.CatalogResolver,
	items ItemTemplates,
	dispatcher merchant.WindowDispatcher,
	publisher events.Publisher,
	log *zap.Logger,
	opts ...MerchantServiceOption,
) *MerchantService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &MerchantService{
		repo:       repo,
		catalogs:   catalogs,
		items:      items,
		dispatcher: dispatcher,
		publisher:  publisher,
		log:        log,
		pickupDistance: func() int {
			return domain.PickupDistance
		},
		merchants: make(map[string]*live),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *MerchantService) newMerchant(variant domain.Variant, npc *world.NPC, opts ...merchant.Option) *merchant.Merchant {
	deps := merchant.Deps{
		Body:       npc,
		Store:      s.repo,
		Catalogs:   s.catalogs,
		Items:      s.items,
		Dispatcher: s.dispatcher,
		Logger:     s.log,
	}
	opts = append(opts, merchant.WithPickupDistance(s.pickupDistance))

	return merchant.New(variant, deps, opts...)
}

// Spawn creates a merchant, places it in the world and persists it.
func (s *MerchantService) Spawn(ctx context.Context, params SpawnParams) (MerchantInfo, error) {
	variant, ok := domain.VariantByKind(params.Variant)
	if !ok {
		return MerchantInfo{}, fmt.Errorf("%w: %s", ErrUnknownVariant, params.Variant)
	}

	var catalog *domain.TradeCatalog
	if params.CatalogKey != "" {
		found, err := s.catalogs.Catalog(ctx, params.CatalogKey)
		if err != nil {
			return MerchantInfo{}, fmt.Errorf("s.catalogs.Catalog -> %w", err)
		}
		catalog = found
	}

	gender := params.Gender
	if gender == "" {
		gender = world.GenderNeutral
	}

	npc := world.NewNPC(gender, world.NewAggroBrain(params.AggroLevel, params.AggroRange))
	m := s.newMerchant(variant, npc,
		merchant.WithState(domain.Merchant{
			Name:                params.Name,
			GuildName:           params.GuildName,
			Position:            params.Position,
			Heading:             params.Heading,
			Speed:               params.Speed,
			Realm:               params.Realm,
			Model:               params.Model,
			Size:                params.Size,
			Level:               params.Level,
			Flags:               params.Flags,
			Gender:              string(gender),
			AggroLevel:          params.AggroLevel,
			AggroRange:          params.AggroRange,
			EquipmentTemplateID: params.EquipmentTemplateID,
		}),
		merchant.WithCatalog(catalog),
	)

	if err := m.AddToWorld(ctx); err != nil {
		return MerchantInfo{}, fmt.Errorf("m.AddToWorld -> %w", err)
	}

	if err := m.Save(ctx); err != nil {
		state := m.State()
		npc.RemoveFromWorld(&state)
		return MerchantInfo{}, fmt.Errorf("m.Save -> %w", err)
	}

	s.register(&live{m: m, npc: npc})

	s.log.Info("merchant spawned",
		zap.String("merchant_id", m.ID()),
		zap.String("name", m.Name()),
		zap.String("variant", string(variant.Kind)),
	)

	return info(m), nil
}

// Restore loads every persisted merchant into the world. Merchants that fail
// to load are logged and skipped.
func (s *MerchantService) Restore(ctx context.Context) (int, error) {
	records, err := s.repo.FindMerchants(ctx)
	if err != nil {
		return 0, fmt.Errorf("s.repo.FindMerchants -> %w", err)
	}

	restored := 0
	for i := range records {
		rec := &records[i]

		variant, ok := domain.VariantByClassType(rec.ClassType)
		if !ok {
			s.log.Warn("skipping mob with unknown class type",
				zap.String("merchant_id", rec.ID),
				zap.String("class_type", rec.ClassType),
			)
			continue
		}

		gender := world.Gender(rec.Gender)
		if gender == "" {
			gender = world.GenderNeutral
		}

		npc := world.NewNPC(gender, world.NewAggroBrain(rec.AggroLevel, rec.AggroRange))
		m := s.newMerchant(variant, npc)

		if err := m.Load(ctx, rec); err != nil {
			s.log.Error("failed to load merchant", zap.String("merchant_id", rec.ID), zap.Error(err))
			continue
		}
		if err := m.AddToWorld(ctx); err != nil {
			s.log.Error("failed to add merchant to world", zap.String("merchant_id", rec.ID), zap.Error(err))
			continue
		}

		s.register(&live{m: m, npc: npc})
		restored++
	}

	s.log.Info("merchants restored", zap.Int("restored", restored), zap.Int("records", len(records)))

	return restored, nil
}

func (s *MerchantService) register(l *live) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.merchants[l.m.ID()] = l
}

// with runs fn while holding the merchant's lock. Callers that queued behind
// a Delete see the merchant as gone.
func (s *MerchantService) with(id string, fn func(l *live) error) error {
	s.mu.RLock()
	l, ok := s.merchants[id]
	s.mu.RUnlock()
	if !ok {
		return ErrMerchantNotFound
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.deleted {
		return ErrMerchantNotFound
	}

	return fn(l)
}

func (s *MerchantService) Get(_ context.Context, id string) (MerchantInfo, error) {
	var result MerchantInfo
	err := s.with(id, func(l *live) error {
		result = info(l.m)
		return nil
	})
	return result, err
}

// List returns a snapshot of every live merchant.
func (s *MerchantService) List(_ context.Context) []MerchantInfo {
	s.mu.RLock()
	all := make([]*live, 0, len(s.merchants))
	for _, l := range s.merchants {
		all = append(all, l)
	}
	s.mu.RUnlock()

	result := make([]MerchantInfo, 0, len(all))
	for _, l := range all {
		l.mu.Lock()
		result = append(result, info(l.m))
		l.mu.Unlock()
	}
	return result
}

func (s *MerchantService) Examine(_ context.Context, id string, actor merchant.Actor) ([]string, error) {
	var lines []string
	err := s.with(id, func(l *live) error {
		lines = l.m.Examine(actor)
		return nil
	})
	return lines, err
}

// Interact opens the merchant's trade window for actor. The window itself is
// delivered asynchronously.
func (s *MerchantService) Interact(_ context.Context, id string, actor merchant.Actor) error {
	return s.with(id, func(l *live) error {
		if !l.m.Interact(actor) {
			return ErrInteractionRefused
		}
		return nil
	})
}

// Whisper reports whether the merchant accepted the phrase.
func (s *MerchantService) Whisper(_ context.Context, id string, source merchant.Speaker, phrase string) (bool, error) {
	var accepted bool
	err := s.with(id, func(l *live) error {
		accepted = l.m.ReceiveWhisper(source, phrase)
		return nil
	})
	return accepted, err
}

// resolveItem replaces the value, pack size and droppable flag of item with
// those of its stored template. Only the template id and count are kept.
func (s *MerchantService) resolveItem(ctx context.Context, item *domain.TradeItem) (*domain.TradeItem, error) {
	if item.Count < 0 || item.Count > domain.MaxTradeQuantity {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuantity, item.Count)
	}
	if item.TemplateID == "" {
		return nil, ErrUnknownItem
	}

	template, err := s.items.FindByID(ctx, item.TemplateID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownItem, item.TemplateID)
		}
		return nil, fmt.Errorf("s.items.FindByID -> %w", err)
	}

	return &domain.TradeItem{
		TemplateID: template.ID,
		Value:      template.Value,
		Count:      item.Count,
		PackSize:   template.PackSize,
		Droppable:  template.Droppable,
	}, nil
}

// Appraise quotes item. Items naming a template are priced from the template;
// others are priced as given.
func (s *MerchantService) Appraise(ctx context.Context, id string, item *domain.TradeItem) (int64, error) {
	var price int64
	err := s.with(id, func(l *live) error {
		if item != nil && item.TemplateID != "" {
			resolved, err := s.resolveItem(ctx, item)
			if err != nil {
				return err
			}
			item = resolved
		}

		price = l.m.Appraise(item)
		return nil
	})
	return price, err
}

// Sell validates the sale of item by actor to the merchant and publishes the
// trade. Only the template id and count of item are trusted. The caller's
// inventory is settled by the event subscriber.
func (s *MerchantService) Sell(ctx context.Context, id string, actor merchant.Actor, item *domain.TradeItem) (SaleResult, error) {
	var result SaleResult
	err := s.with(id, func(l *live) error {
		if actor == nil {
			return ErrSaleRefused
		}
		if item != nil {
			resolved, err := s.resolveItem(ctx, item)
			if err != nil {
				return err
			}
			item = resolved
		}
		if ok, reason := l.m.CanSell(actor, item); !ok {
			return fmt.Errorf("%w: %s", ErrSaleRefused, reason)
		}

		price := l.m.Appraise(item)
		templateID := ""
		count := 0
		if item != nil {
			templateID = item.TemplateID
			count = item.Count
		}

		event := events.NewTradeEvent(events.TradeSell, l.m.ID(), actor.Name(), templateID, count, price)
		if err := s.publisher.Publish(ctx, event); err != nil {
			return fmt.Errorf("s.publisher.Publish -> %w", err)
		}

		result = SaleResult{Price: price, Event: event}
		return nil
	})
	return result, err
}

// Buy validates the purchase of quantity items from catalog slot by actor
// and publishes the trade.
func (s *MerchantService) Buy(ctx context.Context, id string, actor merchant.Actor, slot, quantity int) (PurchaseResult, error) {
	var result PurchaseResult
	err := s.with(id, func(l *live) error {
		if actor == nil {
			return ErrPurchaseRefused
		}

		catalog := l.m.Catalog()
		if catalog == nil {
			return ErrNoCatalog
		}

		item, ok := catalog.At(slot)
		if !ok || quantity < 1 {
			return ErrInvalidSlot
		}
		if quantity > domain.MaxTradeQuantity {
			return fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
		}

		if !l.m.CanBuy(actor, slot, quantity) {
			return ErrPurchaseRefused
		}

		price, err := domain.TotalPrice(item.Value, quantity)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPurchaseRefused, err)
		}

		event := events.NewTradeEvent(events.TradeBuy, l.m.ID(), actor.Name(), item.ID, quantity, price)
		if currency, ok := l.m.Currency(); ok {
			event.Currency = currency.TemplateID
		}

		if err := s.publisher.Publish(ctx, event); err != nil {
			return fmt.Errorf("s.publisher.Publish -> %w", err)
		}

		result = PurchaseResult{Item: item, Price: price, Event: event}
		return nil
	})
	return result, err
}

func (s *MerchantService) Save(ctx context.Context, id string) error {
	return s.with(id, func(l *live) error {
		if err := l.m.Save(ctx); err != nil {
			return fmt.Errorf("m.Save -> %w", err)
		}
		return nil
	})
}

// Delete removes the merchant's record and takes it out of the world.
func (s *MerchantService) Delete(ctx context.Context, id string) error {
	return s.with(id, func(l *live) error {
		err := l.m.Delete(ctx)

		state := l.m.State()
		l.npc.RemoveFromWorld(&state)
		l.deleted = true

		s.mu.Lock()
		delete(s.merchants, id)
		s.mu.Unlock()

		if err != nil {
			return fmt.Errorf("m.Delete -> %w", err)
		}

		s.log.Info("merchant deleted", zap.String("merchant_id", id))
		return nil
	})
}

func (s *MerchantService) Catalog(ctx context.Context, key string) (*domain.TradeCatalog, error) {
	catalog, err := s.catalogs.Catalog(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("s.catalogs.Catalog -> %w", err)
	}

	return catalog, nil
}

func info(m *merchant.Merchant) MerchantInfo {
	result := MerchantInfo{
		ID:      m.ID(),
		Variant: m.Variant().Kind,
		Window:  m.WindowKind(),
		State:   m.State(),
	}

	if catalog := m.Catalog(); catalog != nil {
		result.CatalogKey = catalog.Key()
		result.CatalogLen = catalog.Len()
	}
	if currency, ok := m.Currency(); ok {
		result.Currency = &currency
	}

	return result
}
