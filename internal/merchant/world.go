package merchant

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// AddToWorld places the merchant in the world. Count merchants then bind
// their currency item; if that fails the merchant is taken out again.
func (m *Merchant) AddToWorld(ctx context.Context) error {
	if !m.body.AddToWorld(&m.state) {
		return ErrWorldEntryRefused
	}

	if !m.variant.RequiresCurrency() || m.currency != nil {
		return nil
	}

	item, err := m.items.CreateFromTemplate(ctx, m.variant.CurrencyTemplate)
	if err != nil {
		m.body.RemoveFromWorld(&m.state)
		return fmt.Errorf("%w: m.items.CreateFromTemplate(%s) -> %w", ErrCurrencyUnbound, m.variant.CurrencyTemplate, err)
	}
	m.currency = &item

	m.log.Debug("currency bound",
		zap.String("merchant", m.state.Name),
		zap.String("template", item.TemplateID),
	)

	return nil
}
