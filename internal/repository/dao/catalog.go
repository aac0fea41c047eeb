package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrItemTemplateNotFound = errors.New("item template not found")

type ItemTemplate struct {
	ID        string `gorm:"primaryKey;type:varchar(64)"`
	Name      string `gorm:"not null"`
	Value     int64  `gorm:"not null"`
	PackSize  int    `gorm:"not null;default:1"`
	Droppable bool   `gorm:"not null"`
}

// MerchantItem is one slot of a trade catalog.
type MerchantItem struct {
	ID             uint         `gorm:"primaryKey"`
	ItemsListID    string       `gorm:"not null;uniqueIndex:idx_merchant_items_slot"`
	PageNumber     int          `gorm:"not null;uniqueIndex:idx_merchant_items_slot"`
	SlotPosition   int          `gorm:"not null;uniqueIndex:idx_merchant_items_slot"`
	ItemTemplateID string       `gorm:"not null"`
	ItemTemplate   ItemTemplate `gorm:"foreignKey:ItemTemplateID"`
}

type CatalogDAO struct {
	db *gorm.DB
}

func NewCatalogDAO(db *gorm.DB) *CatalogDAO {
	return &CatalogDAO{
		db: db,
	}
}

// FindByListID returns the slots of a catalog ordered by page and position.
func (d *CatalogDAO) FindByListID(ctx context.Context, listID string) ([]MerchantItem, error) {
	var items []MerchantItem

	result := d.db.WithContext(ctx).
		Preload("ItemTemplate").
		Where("items_list_id = ?", listID).
		Order("page_number, slot_position").
		Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}

	return items, nil
}

// ReplaceCatalog swaps every slot of a catalog for items.
func (d *CatalogDAO) ReplaceCatalog(ctx context.Context, listID string, items []MerchantItem) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("items_list_id = ?", listID).Delete(&MerchantItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].ItemsListID = listID
		}
		return tx.Omit("ItemTemplate").Create(&items).Error
	})
}

type ItemTemplateDAO struct {
	db *gorm.DB
}

func NewItemTemplateDAO(db *gorm.DB) *ItemTemplateDAO {
	return &ItemTemplateDAO{
		db: db,
	}
}

func (d *ItemTemplateDAO) FindByID(ctx context.Context, id string) (ItemTemplate, error) {
	var template ItemTemplate

	result := d.db.WithContext(ctx).First(&template, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ItemTemplate{}, ErrItemTemplateNotFound
		}

		return ItemTemplate{}, result.Error
	}

	return template, nil
}

func (d *ItemTemplateDAO) Upsert(ctx context.Context, templates []ItemTemplate) error {
	if len(templates) == 0 {
		return nil
	}

	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&templates).Error
}
