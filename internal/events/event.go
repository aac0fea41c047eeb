package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TradeKind string

const (
	TradeSell TradeKind = "sell"
	TradeBuy  TradeKind = "buy"
)

// TradeEvent records a trade the merchant accepted. Subscribers apply its
// effect on the actor's inventory and purse.
type TradeEvent struct {
	ID         string    `json:"id"`
	Kind       TradeKind `json:"kind"`
	MerchantID string    `json:"merchant_id"`
	ActorName  string    `json:"actor_name"`
	TemplateID string    `json:"template_id"`
	Quantity   int       `json:"quantity"`
	Price      int64     `json:"price"`
	Currency   string    `json:"currency,omitempty"`
	At         time.Time `json:"at"`
}

func NewTradeEvent(kind TradeKind, merchantID, actorName, templateID string, quantity int, price int64) TradeEvent {
	return TradeEvent{
		ID:         uuid.NewString(),
		Kind:       kind,
		MerchantID: merchantID,
		ActorName:  actorName,
		TemplateID: templateID,
		Quantity:   quantity,
		Price:      price,
		At:         time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event TradeEvent) error
}

// Noop discards every event. It is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, TradeEvent) error {
	return nil
}
