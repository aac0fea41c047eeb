package merchant

import (
	"errors"

	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/domain"
)

var (
	ErrWorldEntryRefused = errors.New("base entity refused to enter the world")
	ErrCurrencyUnbound   = errors.New("count merchant has no currency item")
)

type Deps struct {
	Body       Body
	Store      Store
	Catalogs   CatalogResolver
	Items      ItemFactory
	Dispatcher WindowDispatcher
	Logger     *zap.Logger
}

// Merchant sells a catalog of items to actors and buys their items back.
// It is not safe for concurrent use; callers serialize access per merchant.
type Merchant struct {
	variant  domain.Variant
	state    domain.Merchant
	catalog  *domain.TradeCatalog
	currency *domain.CurrencyItem

	body       Body
	store      Store
	catalogs   CatalogResolver
	items      ItemFactory
	dispatcher WindowDispatcher
	log        *zap.Logger

	pickupDistance func() int
	commands       map[string]whisperHandler
}

type Option func(*Merchant)

// WithPickupDistance sets the function consulted for the maximum selling
// distance on every sale.
func WithPickupDistance(fn func() int) Option {
	return func(m *Merchant) {
		m.pickupDistance = fn
	}
}

func WithState(state domain.Merchant) Option {
	return func(m *Merchant) {
		m.state = state
	}
}

func WithCatalog(catalog *domain.TradeCatalog) Option {
	return func(m *Merchant) {
		m.catalog = catalog
	}
}

func New(variant domain.Variant, deps Deps, opts ...Option) *Merchant {
	m := &Merchant{
		variant:    variant,
		body:       deps.Body,
		store:      deps.Store,
		catalogs:   deps.Catalogs,
		items:      deps.Items,
		dispatcher: deps.Dispatcher,
		log:        deps.Logger,
		pickupDistance: func() int {
			return domain.PickupDistance
		},
		commands: defaultCommands(),
	}

	if m.log == nil {
		m.log = zap.NewNop()
	}
	if m.dispatcher == nil {
		m.dispatcher = goDispatcher{log: m.log}
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *Merchant) ID() string {
	return m.state.InternalID
}

func (m *Merchant) Name() string {
	return m.state.Name
}

func (m *Merchant) Variant() domain.Variant {
	return m.variant
}

// WindowKind is the trade window kind this merchant opens.
func (m *Merchant) WindowKind() domain.WindowKind {
	return m.variant.Window
}

// State returns a copy of the merchant's persisted state.
func (m *Merchant) State() domain.Merchant {
	state := m.state
	if brain := m.brain(); brain != nil {
		state.AggroLevel = brain.AggroLevel()
		state.AggroRange = brain.AggroRange()
	}
	return state
}

func (m *Merchant) SetState(state domain.Merchant) {
	m.state = state
	m.applyAggro()
}

// Catalog returns the attached catalog, or nil.
func (m *Merchant) Catalog() *domain.TradeCatalog {
	return m.catalog
}

func (m *Merchant) SetCatalog(catalog *domain.TradeCatalog) {
	m.catalog = catalog
}

// Currency returns the bound currency item of a count merchant.
func (m *Merchant) Currency() (domain.CurrencyItem, bool) {
	if m.currency == nil {
		return domain.CurrencyItem{}, false
	}
	return *m.currency, true
}

func (m *Merchant) brain() Brain {
	if m.body == nil {
		return nil
	}
	return m.body.Brain()
}

func (m *Merchant) applyAggro() {
	if setter, ok := m.brain().(AggroSetter); ok {
		setter.SetAggro(m.state.AggroLevel, m.state.AggroRange)
	}
}

func (m *Merchant) tell(actor Actor, text string, chatType domain.ChatType, loc domain.ChatLocation) {
	out := actor.Out()
	if out == nil {
		return
	}
	if err := out.SendMessage(text, chatType, loc); err != nil {
		m.log.Debug("failed to send message to actor",
			zap.String("merchant", m.state.Name),
			zap.String("actor", actor.Name()),
			zap.Error(err),
		)
	}
}
