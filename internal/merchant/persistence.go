package merchant

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/domain"
)

// Load restores the merchant from a persisted record. Objects that are not
// merchant records are ignored.
func (m *Merchant) Load(ctx context.Context, obj domain.DataObject) error {
	rec, ok := obj.(*domain.MobRecord)
	if !ok || rec == nil {
		return nil
	}

	var catalog *domain.TradeCatalog
	if rec.ItemsListTemplateID != nil && *rec.ItemsListTemplateID != "" {
		found, err := m.catalogs.Catalog(ctx, *rec.ItemsListTemplateID)
		if err != nil {
			return fmt.Errorf("m.catalogs.Catalog -> %w", err)
		}
		catalog = found
	}

	m.state = recordToState(rec)
	m.catalog = catalog
	m.applyAggro()

	return nil
}

// Save writes the merchant into the store, inserting a new record when the
// merchant has no internal id yet.
func (m *Merchant) Save(ctx context.Context) error {
	rec := domain.MobRecord{ID: m.state.InternalID}

	if m.state.InternalID != "" {
		found, err := m.store.FindByID(ctx, m.state.InternalID)
		switch {
		case err == nil:
			rec = found
		case errors.Is(err, domain.ErrRecordNotFound):
		default:
			return fmt.Errorf("m.store.FindByID -> %w", err)
		}
	}

	m.fillRecord(&rec)

	if m.state.InternalID == "" {
		created, err := m.store.Insert(ctx, rec)
		if err != nil {
			return fmt.Errorf("m.store.Insert -> %w", err)
		}
		m.state.InternalID = created.ID

		return nil
	}

	if _, err := m.store.Update(ctx, rec); err != nil {
		return fmt.Errorf("m.store.Update -> %w", err)
	}

	return nil
}

// Delete removes the merchant's record. The internal id is cleared even when
// no record exists, so a later Save creates a fresh record.
func (m *Merchant) Delete(ctx context.Context) error {
	id := m.state.InternalID
	defer func() {
		m.state.InternalID = ""
	}()

	if id == "" {
		return nil
	}

	if _, err := m.store.FindByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			m.log.Debug("no record to delete", zap.String("merchant_id", id))
			return nil
		}
		return fmt.Errorf("m.store.FindByID -> %w", err)
	}

	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("m.store.Delete -> %w", err)
	}

	return nil
}

func (m *Merchant) fillRecord(rec *domain.MobRecord) {
	state := m.State()

	rec.Name = state.Name
	rec.Guild = state.GuildName
	rec.X = state.Position.X
	rec.Y = state.Position.Y
	rec.Z = state.Position.Z
	rec.Heading = state.Heading
	rec.Speed = state.Speed
	rec.Region = state.Position.Region
	rec.Realm = state.Realm
	rec.Model = state.Model
	rec.Size = state.Size
	rec.Level = state.Level
	rec.Flags = state.Flags
	rec.Gender = state.Gender
	rec.AggroLevel = state.AggroLevel
	rec.AggroRange = state.AggroRange
	rec.ClassType = m.variant.ClassType
	rec.EquipmentTemplateID = state.EquipmentTemplateID

	if m.catalog == nil {
		rec.ItemsListTemplateID = nil
	} else {
		key := m.catalog.Key()
		rec.ItemsListTemplateID = &key
	}
}

func recordToState(rec *domain.MobRecord) domain.Merchant {
	return domain.Merchant{
		InternalID: rec.ID,
		Name:       rec.Name,
		GuildName:  rec.Guild,
		Position: domain.Position{
			Region: rec.Region,
			X:      rec.X,
			Y:      rec.Y,
			Z:      rec.Z,
		},
		Heading:             rec.Heading,
		Speed:               rec.Speed,
		Realm:               rec.Realm,
		Model:               rec.Model,
		Size:                rec.Size,
		Level:               rec.Level,
		Flags:               rec.Flags,
		Gender:              rec.Gender,
		AggroLevel:          rec.AggroLevel,
		AggroRange:          rec.AggroRange,
		EquipmentTemplateID: rec.EquipmentTemplateID,
	}
}
