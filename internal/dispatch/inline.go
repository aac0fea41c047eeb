package dispatch

import (
	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/domain"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/merchant"
)

// Inline delivers windows on the caller's goroutine. Tests use it where the
// delivery has to be observed right after Interact returns.
type Inline struct {
	log *zap.Logger
}

func NewInline(log *zap.Logger) *Inline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Inline{log: log}
}

func (d *Inline) Dispatch(actor merchant.Actor, catalog *domain.TradeCatalog, kind domain.WindowKind) {
	if err := merchant.DeliverWindow(actor, catalog, kind); err != nil {
		d.log.Warn("failed to deliver merchant window", zap.String("actor", actor.Name()), zap.Error(err))
	}
}
