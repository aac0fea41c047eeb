package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrMobExists   = errors.New("mob already exists")
	ErrMobNotFound = errors.New("mob not found")
)

type Mob struct {
	ID string `gorm:"primaryKey;type:varchar(64)"`

	Name    string `gorm:"not null"`
	Guild   string
	X       int32  `gorm:"not null"`
	Y       int32  `gorm:"not null"`
	Z       int32  `gorm:"not null"`
	Heading uint16 `gorm:"not null"`
	Speed   int    `gorm:"not null"`
	Region  uint16 `gorm:"not null;index"`
	Realm   uint8  `gorm:"not null"`
	Model   uint16 `gorm:"not null"`
	Size    uint8  `gorm:"not null"`
	Level   uint8  `gorm:"not null"`
	Flags   uint32 `gorm:"not null"`
	Gender  string `gorm:"type:varchar(16)"`

	AggroLevel int `gorm:"not null"`
	AggroRange int `gorm:"not null"`

	ClassType           string `gorm:"not null;index"`
	EquipmentTemplateID string
	ItemsListTemplateID *string `gorm:"index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Mob) TableName() string {
	return "mobs"
}

func (m *Mob) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type MobDAO struct {
	db *gorm.DB
}

func NewMobDAO(db *gorm.DB) *MobDAO {
	return &MobDAO{
		db: db,
	}
}

func (d *MobDAO) Insert(ctx context.Context, mob Mob) (Mob, error) {
	result := d.db.WithContext(ctx).Create(&mob)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, `"mobs_pkey"`) {
			return Mob{}, ErrMobExists
		}

		return Mob{}, result.Error
	}

	return mob, nil
}

func (d *MobDAO) FindByID(ctx context.Context, id string) (Mob, error) {
	var mob Mob

	result := d.db.WithContext(ctx).First(&mob, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Mob{}, ErrMobNotFound
		}

		return Mob{}, result.Error
	}

	return mob, nil
}

func (d *MobDAO) FindByClassTypes(ctx context.Context, classTypes []string) ([]Mob, error) {
	var mobs []Mob

	result := d.db.WithContext(ctx).Where("class_type IN ?", classTypes).Order("created_at").Find(&mobs)
	if result.Error != nil {
		return nil, result.Error
	}

	return mobs, nil
}

// Update writes every column of mob. A mob whose row is gone is written back
// under the same id.
func (d *MobDAO) Update(ctx context.Context, mob Mob) (Mob, error) {
	result := d.db.WithContext(ctx).Save(&mob)
	if result.Error != nil {
		return Mob{}, result.Error
	}

	return mob, nil
}

func (d *MobDAO) Delete(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Delete(&Mob{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMobNotFound
	}

	return nil
}
