package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API      API      `mapstructure:"api"`
	Gin      Gin      `mapstructure:"gin"`
	Postgres Postgres `mapstructure:"postgres"`
	Redis    Redis    `mapstructure:"redis"`
	RabbitMQ RabbitMQ `mapstructure:"rabbitmq"`
	Dispatch Dispatch `mapstructure:"dispatch"`
	Trade    Trade    `mapstructure:"trade"`
}

type API struct {
	Environment        string   `mapstructure:"environment"`
	Port               string   `mapstructure:"port"`
	BaseURL            string   `mapstructure:"base_url"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string   `mapstructure:"jwt_signing_key"`
}

type Gin struct {
	Mode string `mapstructure:"mode"`
}

type Postgres struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// DSN returns the connection string understood by the postgres driver.
func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DB, p.SSLMode)
}

// Redis is optional; an empty Addr disables the catalog cache.
type Redis struct {
	Addr       string        `mapstructure:"addr"`
	Password   string        `mapstructure:"password"`
	DB         int           `mapstructure:"db"`
	CatalogTTL time.Duration `mapstructure:"catalog_ttl"`
}

// RabbitMQ is optional; an empty URL disables trade event publishing.
type RabbitMQ struct {
	URL      string `mapstructure:"url"`
	Attempts int    `mapstructure:"attempts"`
}

type Dispatch struct {
	Workers   int `mapstructure:"workers"`
	QueueSize int `mapstructure:"queue_size"`
}

type Trade struct {
	PickupDistance int `mapstructure:"pickup_distance"`
}

const envPrefix = "MERCHANT"

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "3000")
	v.SetDefault("api.base_url", "localhost:3000")
	v.SetDefault("api.allowed_cors_domains", []string{"http://localhost:3000"})
	v.SetDefault("api.jwt_signing_key", "")
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "postgres")
	v.SetDefault("postgres.db", "merchant")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.catalog_ttl", 10*time.Minute)
	v.SetDefault("rabbitmq.url", "")
	v.SetDefault("rabbitmq.attempts", 5)
	v.SetDefault("dispatch.workers", 4)
	v.SetDefault("dispatch.queue_size", 256)
	v.SetDefault("trade.pickup_distance", 256)
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	return v
}

func decode(v *viper.Viper) (*AppConfig, error) {
	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

func (c *AppConfig) validate() error {
	if c.API.JWTSigningKey == "" {
		return errors.New("api.jwt_signing_key is required")
	}
	if c.Dispatch.Workers < 1 {
		return errors.New("dispatch.workers must be at least 1")
	}
	if c.Dispatch.QueueSize < 0 {
		return errors.New("dispatch.queue_size must not be negative")
	}
	if c.Trade.PickupDistance < 0 {
		return errors.New("trade.pickup_distance must not be negative")
	}

	return nil
}

// Load reads the config file at path. Every key can be overridden by an
// environment variable such as MERCHANT_API_PORT.
func Load(path string) (*AppConfig, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	return decode(v)
}

// Watch calls onChange with the new config every time the file at path is
// written. Invalid configs are logged and skipped.
func Watch(path string, onChange func(*AppConfig), log *zap.Logger) error {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		conf, err := decode(v)
		if err != nil {
			log.Warn("ignoring invalid config change", zap.String("file", e.Name), zap.Error(err))
			return
		}

		log.Info("config reloaded", zap.String("file", e.Name))
		onChange(conf)
	})
	v.WatchConfig()

	return nil
}
