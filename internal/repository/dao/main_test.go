package dao

import (
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/ory/dockertest/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		log.Printf("docker unavailable, skipping postgres tests: %v", err)
		os.Exit(m.Run())
	}

	resource, err := pool.Run("postgres", "16-alpine", []string{
		"POSTGRES_USER=merchant",
		"POSTGRES_PASSWORD=merchant",
		"POSTGRES_DB=merchant",
	})
	if err != nil {
		log.Printf("could not start postgres, skipping postgres tests: %v", err)
		os.Exit(m.Run())
	}
	_ = resource.Expire(120)

	dsn := fmt.Sprintf("host=localhost port=%s user=merchant password=merchant dbname=merchant sslmode=disable",
		resource.GetPort("5432/tcp"))

	if err := pool.Retry(func() error {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Ping(); err != nil {
			return err
		}
		testDB = db
		return nil
	}); err != nil {
		_ = pool.Purge(resource)
		log.Fatalf("could not connect to postgres: %v", err)
	}

	if err := InitTables(testDB); err != nil {
		_ = pool.Purge(resource)
		log.Fatalf("could not migrate tables: %v", err)
	}

	code := m.Run()

	if err := pool.Purge(resource); err != nil {
		log.Printf("could not purge postgres: %v", err)
	}

	os.Exit(code)
}

func requireDB(t *testing.T) *gorm.DB {
	t.Helper()

	if testDB == nil {
		t.Skip("postgres is not available")
	}

	return testDB
}
