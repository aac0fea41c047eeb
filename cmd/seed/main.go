// Command seed loads item templates and merchant catalogs from a YAML file
// into postgres.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/config"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/db"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/logger"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/repository"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/repository/dao"
)

func main() {
	configPath := flag.String("config", "./cmd/app/config.yml", "path to the app config")
	seedPath := flag.String("file", "./cmd/seed/seed.yml", "path to the seed file")
	flag.Parse()

	if err := run(*configPath, *seedPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, seedPath string) error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	seed, err := ReadSeedFile(seedPath)
	if err != nil {
		return fmt.Errorf("failed to read seed file -> %w", err)
	}

	var postgresDB *gorm.DB
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	templates := repository.NewItemTemplateRepository(dao.NewItemTemplateDAO(postgresDB))
	catalogs := repository.NewCatalogRepository(dao.NewCatalogDAO(postgresDB), nil, zap.L())

	if err = seed.Apply(context.Background(), templates, catalogs); err != nil {
		return fmt.Errorf("failed to apply seed -> %w", err)
	}

	zap.L().Info("seed applied",
		zap.Int("item_templates", len(seed.ItemTemplates)),
		zap.Int("catalogs", len(seed.Catalogs)),
	)

	return nil
}
