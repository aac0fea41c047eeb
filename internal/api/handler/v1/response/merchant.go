package response

import (
	"time"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/domain"
)

type Merchant struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	GuildName  string               `json:"guild_name,omitempty"`
	Variant    domain.VariantKind   `json:"variant"`
	Window     string               `json:"window"`
	Position   Position             `json:"position"`
	Heading    uint16               `json:"heading"`
	Realm      uint8                `json:"realm"`
	Level      uint8                `json:"level"`
	CatalogKey string               `json:"catalog_key,omitempty"`
	CatalogLen int                  `json:"catalog_len"`
	Currency   *domain.CurrencyItem `json:"currency,omitempty"`
}

type Position struct {
	Region uint16 `json:"region"`
	X      int32  `json:"x"`
	Y      int32  `json:"y"`
	Z      int32  `json:"z"`
}

func NewPosition(p domain.Position) Position {
	return Position{Region: p.Region, X: p.X, Y: p.Y, Z: p.Z}
}

type Examine struct {
	Lines []string `json:"lines"`
}

type Interact struct {
	Window string `json:"window"`
}

type Whisper struct {
	Accepted bool `json:"accepted"`
}

type Appraisal struct {
	Price int64 `json:"price"`
}

type Trade struct {
	EventID    string    `json:"event_id"`
	Kind       string    `json:"kind"`
	TemplateID string    `json:"template_id,omitempty"`
	Quantity   int       `json:"quantity"`
	Price      int64     `json:"price"`
	Currency   string    `json:"currency,omitempty"`
	At         time.Time `json:"at"`
}

type Catalog struct {
	Key       string                `json:"key"`
	Page      int                   `json:"page"`
	PageCount int                   `json:"page_count"`
	PageSize  int                   `json:"page_size"`
	Items     []domain.ItemTemplate `json:"items"`
}

type Message struct {
	Message string `json:"message"`
}
