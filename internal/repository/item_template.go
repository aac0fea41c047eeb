package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/domain"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/repository/dao"
)

var ErrItemTemplateNotFound = dao.ErrItemTemplateNotFound

type ItemTemplateDAO interface {
	FindByID(ctx context.Context, id string) (dao.ItemTemplate, error)
	Upsert(ctx context.Context, templates []dao.ItemTemplate) error
}

type ItemTemplateRepository struct {
	dao ItemTemplateDAO
}

func NewItemTemplateRepository(dao ItemTemplateDAO) *ItemTemplateRepository {
	return &ItemTemplateRepository{
		dao: dao,
	}
}

// CreateFromTemplate creates a currency item instance from a stored template.
func (r *ItemTemplateRepository) CreateFromTemplate(ctx context.Context, templateID string) (domain.CurrencyItem, error) {
	template, err := r.dao.FindByID(ctx, templateID)
	if err != nil {
		return domain.CurrencyItem{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return domain.CurrencyItem{
		TemplateID: template.ID,
		Name:       template.Name,
	}, nil
}

// FindByID returns the stored template. A missing template is reported as
// domain.ErrRecordNotFound.
func (r *ItemTemplateRepository) FindByID(ctx context.Context, id string) (domain.ItemTemplate, error) {
	template, err := r.dao.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrItemTemplateNotFound) {
			err = fmt.Errorf("%w: %w", domain.ErrRecordNotFound, err)
		}
		return domain.ItemTemplate{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return itemTemplateToDomain(template), nil
}

func (r *ItemTemplateRepository) Upsert(ctx context.Context, templates []domain.ItemTemplate) error {
	rows := make([]dao.ItemTemplate, 0, len(templates))
	for _, t := range templates {
		rows = append(rows, itemTemplateToDao(t))
	}

	if err := r.dao.Upsert(ctx, rows); err != nil {
		return fmt.Errorf("r.dao.Upsert -> %w", err)
	}

	return nil
}

func itemTemplateToDao(t domain.ItemTemplate) dao.ItemTemplate {
	packSize := t.PackSize
	if packSize <= 0 {
		packSize = 1
	}

	return dao.ItemTemplate{
		ID:        t.ID,
		Name:      t.Name,
		Value:     t.Value,
		PackSize:  packSize,
		Droppable: t.Droppable,
	}
}

func itemTemplateToDomain(t dao.ItemTemplate) domain.ItemTemplate {
	return domain.ItemTemplate{
		ID:        t.ID,
		Name:      t.Name,
		Value:     t.Value,
		PackSize:  t.PackSize,
		Droppable: t.Droppable,
	}
}
