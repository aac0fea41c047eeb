package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/domain"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/repository/dao"
)

var (
	ErrMobExists   = dao.ErrMobExists
	ErrMobNotFound = dao.ErrMobNotFound
)

type MobDAO interface {
	Insert(ctx context.Context, mob dao.Mob) (dao.Mob, error)
	FindByID(ctx context.Context, id string) (dao.Mob, error)
	FindByClassTypes(ctx context.Context, classTypes []string) ([]dao.Mob, error)
	Update(ctx context.Context, mob dao.Mob) (dao.Mob, error)
	Delete(ctx context.Context, id string) error
}

type MerchantRepository struct {
	dao MobDAO
}

func NewMerchantRepository(dao MobDAO) *MerchantRepository {
	return &MerchantRepository{
		dao: dao,
	}
}

func (r *MerchantRepository) FindByID(ctx context.Context, id string) (domain.MobRecord, error) {
	mob, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.MobRecord{}, fmt.Errorf("r.dao.FindByID -> %w", notFound(err))
	}

	return r.daoToDomain(mob), nil
}

// FindMerchants returns every persisted mob whose class type names a merchant
// variant.
func (r *MerchantRepository) FindMerchants(ctx context.Context) ([]domain.MobRecord, error) {
	variants := domain.Variants()
	classTypes := make([]string, 0, len(variants))
	for _, v := range variants {
		classTypes = append(classTypes, v.ClassType)
	}

	mobs, err := r.dao.FindByClassTypes(ctx, classTypes)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByClassTypes -> %w", err)
	}

	records := make([]domain.MobRecord, 0, len(mobs))
	for _, mob := range mobs {
		records = append(records, r.daoToDomain(mob))
	}

	return records, nil
}

func (r *MerchantRepository) Insert(ctx context.Context, record domain.MobRecord) (domain.MobRecord, error) {
	mob, err := r.dao.Insert(ctx, r.domainToDao(record))
	if err != nil {
		return domain.MobRecord{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(mob), nil
}

func (r *MerchantRepository) Update(ctx context.Context, record domain.MobRecord) (domain.MobRecord, error) {
	current, err := r.dao.FindByID(ctx, record.ID)
	switch {
	case err == nil:
	case errors.Is(err, dao.ErrMobNotFound):
	default:
		return domain.MobRecord{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	mob := r.domainToDao(record)
	mob.CreatedAt = current.CreatedAt

	mob, err = r.dao.Update(ctx, mob)
	if err != nil {
		return domain.MobRecord{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(mob), nil
}

func (r *MerchantRepository) Delete(ctx context.Context, id string) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", notFound(err))
	}

	return nil
}

func notFound(err error) error {
	if errors.Is(err, dao.ErrMobNotFound) {
		return fmt.Errorf("%w: %w", domain.ErrRecordNotFound, err)
	}
	return err
}

func (r *MerchantRepository) domainToDao(rec domain.MobRecord) dao.Mob {
	return dao.Mob{
		ID:                  rec.ID,
		Name:                rec.Name,
		Guild:               rec.Guild,
		X:                   rec.X,
		Y:                   rec.Y,
		Z:                   rec.Z,
		Heading:             rec.Heading,
		Speed:               rec.Speed,
		Region:              rec.Region,
		Realm:               rec.Realm,
		Model:               rec.Model,
		Size:                rec.Size,
		Level:               rec.Level,
		Flags:               rec.Flags,
		Gender:              rec.Gender,
		AggroLevel:          rec.AggroLevel,
		AggroRange:          rec.AggroRange,
		ClassType:           rec.ClassType,
		EquipmentTemplateID: rec.EquipmentTemplateID,
		ItemsListTemplateID: rec.ItemsListTemplateID,
	}
}

func (r *MerchantRepository) daoToDomain(mob dao.Mob) domain.MobRecord {
	return domain.MobRecord{
		ID:                  mob.ID,
		Name:                mob.Name,
		Guild:               mob.Guild,
		X:                   mob.X,
		Y:                   mob.Y,
		Z:                   mob.Z,
		Heading:             mob.Heading,
		Speed:               mob.Speed,
		Region:              mob.Region,
		Realm:               mob.Realm,
		Model:               mob.Model,
		Size:                mob.Size,
		Level:               mob.Level,
		Flags:               mob.Flags,
		Gender:              mob.Gender,
		AggroLevel:          mob.AggroLevel,
		AggroRange:          mob.AggroRange,
		ClassType:           mob.ClassType,
		EquipmentTemplateID: mob.EquipmentTemplateID,
		ItemsListTemplateID: mob.ItemsListTemplateID,
	}
}
