package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/domain"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/repository/dao"
)

func TestItemTemplateRepository_CreateFromTemplate(t *testing.T) {
	d := &fakeItemTemplateDAO{templates: map[string]dao.ItemTemplate{
		"dias": {ID: "dias", Name: "Diamond Seal", PackSize: 1},
	}}
	repo := NewItemTemplateRepository(d)

	item, err := repo.CreateFromTemplate(context.Background(), "dias")
	require.NoError(t, err)
	assert.Equal(t, domain.CurrencyItem{TemplateID: "dias", Name: "Diamond Seal"}, item)

	_, err = repo.CreateFromTemplate(context.Background(), "saphir")
	assert.ErrorIs(t, err, ErrItemTemplateNotFound)
}

func TestItemTemplateRepository_FindByID(t *testing.T) {
	d := &fakeItemTemplateDAO{templates: map[string]dao.ItemTemplate{
		"helm": {ID: "helm", Name: "Helm", Value: 600, PackSize: 1, Droppable: false},
	}}
	repo := NewItemTemplateRepository(d)

	template, err := repo.FindByID(context.Background(), "helm")
	require.NoError(t, err)
	assert.Equal(t, domain.ItemTemplate{ID: "helm", Name: "Helm", Value: 600, PackSize: 1}, template)

	_, err = repo.FindByID(context.Background(), "crown")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	assert.ErrorIs(t, err, ErrItemTemplateNotFound)
}

func TestItemTemplateRepository_UpsertDefaultsPackSize(t *testing.T) {
	d := &fakeItemTemplateDAO{templates: map[string]dao.ItemTemplate{}}
	repo := NewItemTemplateRepository(d)

	require.NoError(t, repo.Upsert(context.Background(), []domain.ItemTemplate{
		{ID: "bread", Name: "Bread", Value: 3},
	}))
	assert.Equal(t, 1, d.templates["bread"].PackSize)
}
