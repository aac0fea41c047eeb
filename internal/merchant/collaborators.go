package merchant

import (
	"context"
	"time"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/domain"
)

// Messenger is the outbound channel of an actor.
type Messenger interface {
	SendMerchantWindow(catalog *domain.TradeCatalog, kind domain.WindowKind) error
	SendMessage(text string, chatType domain.ChatType, loc domain.ChatLocation) error
}

// Speaker is anything that can whisper to a merchant.
type Speaker interface {
	Name() string
}

// Actor is a speaker able to trade.
type Actor interface {
	Speaker
	Realm() uint8
	Position() domain.Position
	Out() Messenger
}

type Brain interface {
	AggroLevel() int
	AggroRange() int
}

// AggroSetter is implemented by brains whose aggro can be restored from a
// persisted record.
type AggroSetter interface {
	SetAggro(level, rng int)
}

// Body is the base mobile entity a merchant lives in.
type Body interface {
	ExamineMessages(self *domain.Merchant, actor Actor) []string
	Pronoun(self *domain.Merchant, capitalize bool) string
	AggroLevelString(self *domain.Merchant, actor Actor) string
	Interact(self *domain.Merchant, actor Actor) bool
	WhisperReceive(self *domain.Merchant, source Speaker, phrase string) bool
	TurnTo(self *domain.Merchant, actor Actor, d time.Duration)
	AddToWorld(self *domain.Merchant) bool
	RemoveFromWorld(self *domain.Merchant)
	// Brain returns nil when the body has no brain.
	Brain() Brain
}

// Store is the persisted-object store for merchant records. FindByID returns
// an error wrapping domain.ErrRecordNotFound when no record matches.
type Store interface {
	FindByID(ctx context.Context, id string) (domain.MobRecord, error)
	Insert(ctx context.Context, record domain.MobRecord) (domain.MobRecord, error)
	Update(ctx context.Context, record domain.MobRecord) (domain.MobRecord, error)
	Delete(ctx context.Context, id string) error
}

type CatalogResolver interface {
	Catalog(ctx context.Context, key string) (*domain.TradeCatalog, error)
}

type ItemFactory interface {
	CreateFromTemplate(ctx context.Context, templateID string) (domain.CurrencyItem, error)
}

// WindowDispatcher delivers trade windows off the calling goroutine. Dispatch
// must return without waiting for the delivery.
type WindowDispatcher interface {
	Dispatch(actor Actor, catalog *domain.TradeCatalog, kind domain.WindowKind)
}
