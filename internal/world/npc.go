package world

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/domain"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/merchant"
)

// InteractDistance is how close an actor has to be to interact with an NPC.
const InteractDistance = 512

type Gender string

const (
	GenderNeutral Gender = "neutral"
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
)

// NPC is the minimal base entity merchants are built on.
type NPC struct {
	gender  Gender
	brain   *AggroBrain
	inWorld atomic.Bool
}

func NewNPC(gender Gender, brain *AggroBrain) *NPC {
	return &NPC{
		gender: gender,
		brain:  brain,
	}
}

func (n *NPC) InWorld() bool {
	return n.inWorld.Load()
}

func (n *NPC) ExamineMessages(_ *domain.Merchant, _ merchant.Actor) []string {
	return []string{}
}

func (n *NPC) Pronoun(_ *domain.Merchant, capitalize bool) string {
	var p string
	switch n.gender {
	case GenderMale:
		p = "he"
	case GenderFemale:
		p = "she"
	default:
		p = "it"
	}

	if capitalize {
		return strings.ToUpper(p[:1]) + p[1:]
	}
	return p
}

func (n *NPC) AggroLevelString(self *domain.Merchant, actor merchant.Actor) string {
	if actor != nil && actor.Realm() == self.Realm {
		return "friendly"
	}

	level := self.AggroLevel
	if n.brain != nil {
		level = n.brain.AggroLevel()
	}

	switch {
	case level > 75:
		return "aggressive"
	case level > 50:
		return "hostile"
	case level > 25:
		return "neutral"
	default:
		return "friendly"
	}
}

func (n *NPC) Interact(self *domain.Merchant, actor merchant.Actor) bool {
	if actor == nil || !n.InWorld() {
		return false
	}
	return self.Position.WithinDistance(actor.Position(), InteractDistance)
}

func (n *NPC) WhisperReceive(_ *domain.Merchant, source merchant.Speaker, _ string) bool {
	return source != nil && n.InWorld()
}

func (n *NPC) TurnTo(self *domain.Merchant, actor merchant.Actor, _ time.Duration) {
	self.Heading = self.Position.HeadingTo(actor.Position())
}

func (n *NPC) AddToWorld(_ *domain.Merchant) bool {
	return n.inWorld.CompareAndSwap(false, true)
}

func (n *NPC) RemoveFromWorld(_ *domain.Merchant) {
	n.inWorld.Store(false)
}

func (n *NPC) Brain() merchant.Brain {
	if n.brain == nil {
		return nil
	}
	return n.brain
}

// AggroBrain holds the aggression settings of an NPC.
type AggroBrain struct {
	mu    sync.RWMutex
	level int
	rng   int
}

func NewAggroBrain(level, rng int) *AggroBrain {
	return &AggroBrain{level: level, rng: rng}
}

func (b *AggroBrain) AggroLevel() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.level
}

func (b *AggroBrain) AggroRange() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rng
}

func (b *AggroBrain) SetAggro(level, rng int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.level = level
	b.rng = rng
}
