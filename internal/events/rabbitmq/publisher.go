package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/events"
)

// Channel is the part of *amqp.Channel the publisher uses.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Publisher struct {
	ch Channel
}

func NewPublisher(ch Channel) *Publisher {
	return &Publisher{ch: ch}
}

// RoutingKey returns trade.<kind>.<merchant>.
func RoutingKey(event events.TradeEvent) string {
	return fmt.Sprintf("trade.%s.%s", event.Kind, event.MerchantID)
}

func (p *Publisher) Publish(ctx context.Context, event events.TradeEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal trade event: %w", err)
	}

	return p.ch.PublishWithContext(ctx,
		ExchangeName,      // exchange
		RoutingKey(event), // routing key
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID,
			Timestamp:    event.At,
			Body:         body,
		},
	)
}
