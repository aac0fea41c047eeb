package request

import (
	"errors"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/domain"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/world"
)

// Letters, apostrophes and inner single spaces; no leading or trailing space.
const merchantNamePattern = `^(?! )(?!.*  )[A-Za-z' ]{2,40}(?<! )$`

const maxSpeed = 1000

var (
	merchantNameExp = regexp2.MustCompile(merchantNamePattern, regexp2.None)

	errInvalidMerchantName = errors.New("the name must be 2 to 40 letters, apostrophes or single inner spaces")
)

func validMerchantName(value interface{}) error {
	name, _ := value.(string)
	ok, err := merchantNameExp.MatchString(name)
	if err != nil {
		return err
	}
	if !ok {
		return errInvalidMerchantName
	}
	return nil
}

func variantKinds() []interface{} {
	variants := domain.Variants()
	kinds := make([]interface{}, 0, len(variants))
	for _, v := range variants {
		kinds = append(kinds, v.Kind)
	}
	return kinds
}

type SpawnMerchantRequest struct {
	Variant             domain.VariantKind `json:"variant"`
	Name                string             `json:"name"`
	GuildName           string             `json:"guild_name"`
	Region              uint16             `json:"region"`
	X                   int32              `json:"x"`
	Y                   int32              `json:"y"`
	Z                   int32              `json:"z"`
	Heading             uint16             `json:"heading"`
	Speed               int                `json:"speed"`
	Realm               uint8              `json:"realm"`
	Model               uint16             `json:"model"`
	Size                uint8              `json:"size"`
	Level               uint8              `json:"level"`
	Flags               uint32             `json:"flags"`
	Gender              world.Gender       `json:"gender"`
	AggroLevel          int                `json:"aggro_level"`
	AggroRange          int                `json:"aggro_range"`
	EquipmentTemplateID string             `json:"equipment_template_id"`
	CatalogKey          string             `json:"catalog_key"`
}

func (req *SpawnMerchantRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Variant, validation.Required, validation.In(variantKinds()...)),
		validation.Field(&req.Name, validation.Required, validation.By(validMerchantName)),
		validation.Field(&req.GuildName, validation.Length(0, 40)),
		validation.Field(&req.Heading, validation.Max(uint16(4095))),
		validation.Field(&req.Speed, validation.Min(0), validation.Max(maxSpeed)),
		validation.Field(&req.Gender, validation.In(world.GenderNeutral, world.GenderMale, world.GenderFemale)),
		validation.Field(&req.AggroLevel, validation.Min(0), validation.Max(100)),
		validation.Field(&req.AggroRange, validation.Min(0)),
		validation.Field(&req.EquipmentTemplateID, validation.Length(0, 64)),
		validation.Field(&req.CatalogKey, validation.Length(0, 64)),
	)
}

type WhisperRequest struct {
	Phrase string `json:"phrase"`
}

func (req *WhisperRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Phrase, validation.Required, validation.Length(1, 200)),
	)
}

type TradeItemRequest struct {
	TemplateID string `json:"template_id"`
	Value      int64  `json:"value"`
	Count      int    `json:"count"`
	PackSize   int    `json:"pack_size"`
	Droppable  bool   `json:"droppable"`
}

func (req *TradeItemRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TemplateID, validation.Length(0, 64)),
		validation.Field(&req.Value, validation.Min(int64(0))),
		validation.Field(&req.Count, validation.Min(0), validation.Max(domain.MaxTradeQuantity)),
		validation.Field(&req.PackSize, validation.Min(0)),
	)
}

func (req *TradeItemRequest) TradeItem() *domain.TradeItem {
	return &domain.TradeItem{
		TemplateID: req.TemplateID,
		Value:      req.Value,
		Count:      req.Count,
		PackSize:   req.PackSize,
		Droppable:  req.Droppable,
	}
}

// SellRequest names the item being sold. Its value and flags come from the
// stored template.
type SellRequest struct {
	TemplateID string `json:"template_id"`
	Count      int    `json:"count"`
}

func (req *SellRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TemplateID, validation.Required, validation.Length(1, 64)),
		validation.Field(&req.Count, validation.Min(0), validation.Max(domain.MaxTradeQuantity)),
	)
}

func (req *SellRequest) TradeItem() *domain.TradeItem {
	return &domain.TradeItem{
		TemplateID: req.TemplateID,
		Count:      req.Count,
	}
}

type BuyRequest struct {
	Slot     int `json:"slot"`
	Quantity int `json:"quantity"`
}

func (req *BuyRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Slot, validation.Min(0)),
		validation.Field(&req.Quantity, validation.Required, validation.Min(1), validation.Max(domain.MaxTradeQuantity)),
	)
}
