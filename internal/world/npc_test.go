package world

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/domain"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/merchant"
)

type actor struct {
	realm uint8
	pos   domain.Position
}

func (a actor) Name() string              { return "Ayla" }
func (a actor) Realm() uint8              { return a.realm }
func (a actor) Position() domain.Position { return a.pos }
func (a actor) Out() merchant.Messenger   { return nil }

func TestPronoun(t *testing.T) {
	self := &domain.Merchant{}

	assert.Equal(t, "He", NewNPC(GenderMale, nil).Pronoun(self, true))
	assert.Equal(t, "she", NewNPC(GenderFemale, nil).Pronoun(self, false))
	assert.Equal(t, "It", NewNPC(GenderNeutral, nil).Pronoun(self, true))
}

func TestAggroLevelString(t *testing.T) {
	self := &domain.Merchant{Realm: 1}

	tests := []struct {
		level int
		realm uint8
		want  string
	}{
		{level: 100, realm: 1, want: "friendly"},
		{level: 100, realm: 2, want: "aggressive"},
		{level: 60, realm: 2, want: "hostile"},
		{level: 30, realm: 2, want: "neutral"},
		{level: 0, realm: 2, want: "friendly"},
	}

	for _, tt := range tests {
		npc := NewNPC(GenderMale, NewAggroBrain(tt.level, 500))
		assert.Equal(t, tt.want, npc.AggroLevelString(self, actor{realm: tt.realm}), "level %d realm %d", tt.level, tt.realm)
	}
}

func TestInteractRequiresWorldAndDistance(t *testing.T) {
	self := &domain.Merchant{Position: domain.Position{Region: 1}}
	npc := NewNPC(GenderMale, nil)
	near := actor{pos: domain.Position{Region: 1, X: 100}}

	assert.False(t, npc.Interact(self, near), "not in world yet")

	assert.True(t, npc.AddToWorld(self))
	assert.False(t, npc.AddToWorld(self), "already in world")
	assert.True(t, npc.Interact(self, near))
	assert.False(t, npc.Interact(self, actor{pos: domain.Position{Region: 1, X: InteractDistance + 1}}))
	assert.False(t, npc.Interact(self, actor{pos: domain.Position{Region: 2}}))

	npc.RemoveFromWorld(self)
	assert.False(t, npc.Interact(self, near))
}

func TestBrainNilIsUntyped(t *testing.T) {
	assert.Nil(t, NewNPC(GenderMale, nil).Brain())

	brain := NewAggroBrain(10, 20)
	brain.SetAggro(40, 800)
	npc := NewNPC(GenderMale, brain)
	assert.Equal(t, 40, npc.Brain().AggroLevel())
	assert.Equal(t, 800, npc.Brain().AggroRange())
}
