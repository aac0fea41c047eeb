package merchant

import (
	"errors"
	"fmt"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/domain"
)

const (
	notSellableMessage  = "This item can't be sold."
	buyDisabledMessage  = "I'm not selling anything to you right now."
	tooFarMessageFormat = "%s is too far away!"
)

// CanSell reports whether actor may sell item here. When it may not, the
// reason is also sent to the actor.
func (m *Merchant) CanSell(actor Actor, item *domain.TradeItem) (bool, string) {
	err := domain.CheckSell(m.state.Position, actor.Position(), item, m.pickupDistance())
	if err == nil {
		return true, ""
	}

	reason := notSellableMessage
	if errors.Is(err, domain.ErrTooFarAway) {
		reason = fmt.Sprintf(tooFarMessageFormat, m.state.Name)
	}

	m.tell(actor, reason, domain.ChatMerchant, domain.ChatLocSystemWindow)

	return false, reason
}

// CanBuy reports whether quantity items may be bought from slot. actor may be
// nil, in which case no refusal message is sent.
func (m *Merchant) CanBuy(actor Actor, slot, quantity int) bool {
	if m.variant.BuyPolicy.Allows(slot, quantity) {
		return true
	}

	if actor != nil {
		m.tell(actor, buyDisabledMessage, domain.ChatSay, domain.ChatLocPopup)
	}

	return false
}

// Appraise returns the price the merchant pays for item.
func (m *Merchant) Appraise(item *domain.TradeItem) int64 {
	return domain.Appraise(item)
}
