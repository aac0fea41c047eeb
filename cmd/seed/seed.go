package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/domain"
)

// SeedFile is the layout of a seed file: item templates first, then the
// catalogs that list them by id in slot order.
type SeedFile struct {
	ItemTemplates []SeedItemTemplate `yaml:"item_templates"`
	Catalogs      []SeedCatalog      `yaml:"catalogs"`
}

type SeedItemTemplate struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Value     int64  `yaml:"value"`
	PackSize  int    `yaml:"pack_size"`
	Droppable *bool  `yaml:"droppable"`
}

type SeedCatalog struct {
	Key   string   `yaml:"key"`
	Items []string `yaml:"items"`
}

var (
	ErrEmptyTemplateID = errors.New("item template without id")
	ErrEmptyCatalogKey = errors.New("catalog without key")
	ErrUnknownTemplate = errors.New("catalog lists an unknown item template")
)

type TemplateStore interface {
	Upsert(ctx context.Context, templates []domain.ItemTemplate) error
}

type CatalogStore interface {
	ReplaceCatalog(ctx context.Context, key string, templateIDs []string) error
}

func ReadSeedFile(path string) (SeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SeedFile{}, fmt.Errorf("os.ReadFile -> %w", err)
	}

	return ParseSeed(raw)
}

// ParseSeed decodes and checks a seed file. Templates default to droppable
// with a pack size of one.
func ParseSeed(raw []byte) (SeedFile, error) {
	var f SeedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return SeedFile{}, fmt.Errorf("yaml.Unmarshal -> %w", err)
	}

	known := make(map[string]struct{}, len(f.ItemTemplates))
	for i, t := range f.ItemTemplates {
		if t.ID == "" {
			return SeedFile{}, fmt.Errorf("item_templates[%d]: %w", i, ErrEmptyTemplateID)
		}
		known[t.ID] = struct{}{}
	}

	for i, c := range f.Catalogs {
		if c.Key == "" {
			return SeedFile{}, fmt.Errorf("catalogs[%d]: %w", i, ErrEmptyCatalogKey)
		}
		for _, id := range c.Items {
			if _, ok := known[id]; !ok {
				return SeedFile{}, fmt.Errorf("catalog %s, item %s: %w", c.Key, id, ErrUnknownTemplate)
			}
		}
	}

	return f, nil
}

func (f SeedFile) Templates() []domain.ItemTemplate {
	templates := make([]domain.ItemTemplate, 0, len(f.ItemTemplates))
	for _, t := range f.ItemTemplates {
		droppable := true
		if t.Droppable != nil {
			droppable = *t.Droppable
		}
		packSize := t.PackSize
		if packSize < 1 {
			packSize = 1
		}

		templates = append(templates, domain.ItemTemplate{
			ID:        t.ID,
			Name:      t.Name,
			Value:     t.Value,
			PackSize:  packSize,
			Droppable: droppable,
		})
	}

	return templates
}

// Apply writes the templates, then replaces every listed catalog.
func (f SeedFile) Apply(ctx context.Context, templates TemplateStore, catalogs CatalogStore) error {
	if len(f.ItemTemplates) > 0 {
		if err := templates.Upsert(ctx, f.Templates()); err != nil {
			return fmt.Errorf("templates.Upsert -> %w", err)
		}
	}

	for _, c := range f.Catalogs {
		if err := catalogs.ReplaceCatalog(ctx, c.Key, c.Items); err != nil {
			return fmt.Errorf("catalogs.ReplaceCatalog(%s) -> %w", c.Key, err)
		}
	}

	return nil
}
