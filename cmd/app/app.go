package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/api"
	v1 "github.com/yizeng/gab/gin/gorm/merchant/internal/api/handler/v1"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/config"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/db"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/dispatch"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/events"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/events/rabbitmq"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/logger"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/repository"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/repository/cache"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/repository/dao"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/service"
)

const configPath = "./cmd/app/config.yml"

func Start() error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	var catalogCache repository.CatalogCache
	redisClient, err := db.OpenRedis(conf.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize redis -> %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		catalogCache = cache.NewRedisCatalogCache(redisClient, conf.Redis.CatalogTTL)
	}

	var publisher events.Publisher = events.Noop{}
	if conf.RabbitMQ.URL != "" {
		conn, ch, err := rabbitmq.SetupConn(conf.RabbitMQ.URL, conf.RabbitMQ.Attempts, zap.L())
		if err != nil {
			return fmt.Errorf("failed to initialize rabbitmq -> %w", err)
		}
		defer conn.Close()
		defer ch.Close()
		publisher = rabbitmq.NewPublisher(ch)
	}

	mobRepo := repository.NewMerchantRepository(dao.NewMobDAO(postgresDB))
	catalogRepo := repository.NewCatalogRepository(dao.NewCatalogDAO(postgresDB), catalogCache, zap.L())
	itemRepo := repository.NewItemTemplateRepository(dao.NewItemTemplateDAO(postgresDB))

	pool := dispatch.NewPool(conf.Dispatch.Workers, conf.Dispatch.QueueSize, zap.L())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := pool.Shutdown(ctx); err != nil {
			zap.L().Warn("window dispatch did not drain", zap.Error(err))
		}
		zap.L().Info("window dispatch stopped", zap.Any("stats", pool.Stats()))
	}()

	tuning := config.NewTuning(conf.Trade)
	if err = config.Watch(configPath, func(c *config.AppConfig) {
		tuning.Apply(c.Trade)
	}, zap.L()); err != nil {
		zap.L().Warn("config reload disabled", zap.Error(err))
	}

	merchants := service.NewMerchantService(
		mobRepo,
		catalogRepo,
		itemRepo,
		pool,
		publisher,
		zap.L(),
		service.WithPickupDistance(tuning.PickupDistance),
	)

	if _, err = merchants.Restore(context.Background()); err != nil {
		return fmt.Errorf("failed to restore merchants -> %w", err)
	}

	hub := v1.NewSessionHub(zap.L())
	go hub.Run()
	defer hub.Stop()

	s := api.NewServer(conf, api.Services{
		Merchants: merchants,
		Catalogs:  merchants,
		Sessions:  hub,
	})

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}
