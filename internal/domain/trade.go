package domain

import (
	"errors"
	"math"
	"math/bits"
)

const (
	// PickupDistance is the maximum distance between an actor and a merchant
	// for a sale to go through.
	PickupDistance = 256

	// MaxTradeQuantity caps the item count of a single trade.
	MaxTradeQuantity = 10000
)

var (
	ErrItemNotDroppable = errors.New("item can't be sold")
	ErrTooFarAway       = errors.New("merchant is too far away")
	ErrNoItem           = errors.New("no item to sell")
	ErrPriceOverflow    = errors.New("price is out of range")
)

// Appraise returns what a merchant pays for item:
// value * max(1, count) / max(1, packSize) / 2, rounded down. The product is
// computed on 128 bits and the result saturates at math.MaxInt64. Items with
// no positive value are worth nothing.
func Appraise(item *TradeItem) int64 {
	if item == nil || item.Value <= 0 {
		return 0
	}

	count := uint64(max(1, item.Count))
	divisor := uint64(max(1, item.PackSize)) * 2

	hi, lo := bits.Mul64(uint64(item.Value), count)
	if hi >= divisor {
		return math.MaxInt64
	}
	price, _ := bits.Div64(hi, lo, divisor)
	if price > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(price)
}

// TotalPrice returns value * quantity, or ErrPriceOverflow when the product
// does not fit in an int64.
func TotalPrice(value int64, quantity int) (int64, error) {
	if value < 0 || quantity < 0 {
		return 0, ErrPriceOverflow
	}
	if quantity > 0 && value > math.MaxInt64/int64(quantity) {
		return 0, ErrPriceOverflow
	}
	return value * int64(quantity), nil
}

// CheckSell validates that an actor at actorPos may sell item to a merchant at
// merchantPos.
func CheckSell(merchantPos, actorPos Position, item *TradeItem, maxDistance int) error {
	if item == nil {
		return ErrNoItem
	}
	if !item.Droppable {
		return ErrItemNotDroppable
	}
	if !merchantPos.WithinDistance(actorPos, maxDistance) {
		return ErrTooFarAway
	}
	return nil
}
