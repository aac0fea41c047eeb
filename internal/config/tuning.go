package config

import "sync/atomic"

// Tuning holds the trade settings that may change while the server runs.
type Tuning struct {
	pickupDistance atomic.Int64
}

func NewTuning(t Trade) *Tuning {
	tuning := &Tuning{}
	tuning.Apply(t)
	return tuning
}

func (t *Tuning) Apply(trade Trade) {
	t.pickupDistance.Store(int64(trade.PickupDistance))
}

func (t *Tuning) PickupDistance() int {
	return int(t.pickupDistance.Load())
}
