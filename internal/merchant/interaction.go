package merchant

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/domain"
)

const (
	turnToDuration = 10 * time.Second

	tradeInfoMessage = "You can buy the items I have available. I'm not really interested in your items, but I'll purchase them for an average price!"
)

// Examine returns the lines shown to actor when it examines the merchant.
func (m *Merchant) Examine(actor Actor) []string {
	lines := m.body.ExamineMessages(&m.state, actor)
	lines = append(lines, fmt.Sprintf("You examine %s.  %s is %s and is a merchant.",
		m.state.Name,
		m.body.Pronoun(&m.state, true),
		m.body.AggroLevelString(&m.state, actor),
	))

	if m.currency != nil {
		lines = append(lines, fmt.Sprintf("You can buy items here for %s.", m.currency.Name))
	}

	return append(lines, "[Right click to display a shop window]")
}

// Interact faces actor and sends it the trade window. The window is
// delivered asynchronously; the result only reflects the interaction check.
func (m *Merchant) Interact(actor Actor) bool {
	if !m.body.Interact(&m.state, actor) {
		return false
	}

	m.body.TurnTo(&m.state, actor, turnToDuration)
	m.SendWindow(actor)

	return true
}

// SendWindow queues delivery of the merchant's catalog to actor.
func (m *Merchant) SendWindow(actor Actor) {
	m.dispatcher.Dispatch(actor, m.catalog, m.variant.Window)
}

type whisperHandler func(m *Merchant, actor Actor)

func defaultCommands() map[string]whisperHandler {
	return map[string]whisperHandler{
		"trade": func(m *Merchant, actor Actor) {
			m.tell(actor, tradeInfoMessage, domain.ChatSystem, domain.ChatLocPopup)
		},
	}
}

// ReceiveWhisper handles a whispered phrase. Unknown phrases are accepted and
// ignored.
func (m *Merchant) ReceiveWhisper(source Speaker, phrase string) bool {
	if source == nil {
		return false
	}
	if !m.body.WhisperReceive(&m.state, source, phrase) {
		return false
	}

	actor, ok := source.(Actor)
	if !ok {
		return false
	}

	if handle, ok := m.commands[phrase]; ok {
		handle(m, actor)
	}

	return true
}

// DeliverWindow sends a trade window to actor. Panics raised by a stale actor
// are turned into errors.
func DeliverWindow(actor Actor, catalog *domain.TradeCatalog, kind domain.WindowKind) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("window delivery panicked: %v", r)
		}
	}()

	out := actor.Out()
	if out == nil {
		return fmt.Errorf("actor %s has no outbound channel", actor.Name())
	}

	return out.SendMerchantWindow(catalog, kind)
}

// goDispatcher runs each delivery on its own goroutine. It is used when no
// worker pool is configured.
type goDispatcher struct {
	log *zap.Logger
}

func (d goDispatcher) Dispatch(actor Actor, catalog *domain.TradeCatalog, kind domain.WindowKind) {
	go func() {
		if err := DeliverWindow(actor, catalog, kind); err != nil {
			d.log.Warn("failed to deliver merchant window", zap.Error(err))
		}
	}()
}
