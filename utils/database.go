package utils

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cricanalyzer/models"
)

type DBOptions struct {
	MaxOpenConns int
	MaxIdleConns int
	LogQueries   bool
}

// ConnectDatabase opens the pool with duplicate-key errors translated to
// gorm.ErrDuplicatedKey.
func ConnectDatabase(dsn string, opts DBOptions) (*gorm.DB, error) {
	level := logger.Warn
	if opts.LogQueries {
		level = logger.Info
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "database handle")
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// CreateTempSchema connects to TEST_DATABASE_URL inside a fresh schema,
// migrates it and drops it when the test ends. Skips when the variable is
// unset. Should only be called from tests.
func CreateTempSchema(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	admin, err := ConnectDatabase(dsn, DBOptions{MaxOpenConns: 2})
	if err != nil {
		t.Fatalf("connect test database: %v", err)
	}
	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := admin.Exec("CREATE SCHEMA " + schema).Error; err != nil {
		t.Fatalf("create schema %s: %v", schema, err)
	}
	db, err := ConnectDatabase(withSearchPath(dsn, schema), DBOptions{MaxOpenConns: 5})
	if err != nil {
		t.Fatalf("connect schema %s: %v", schema, err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate schema %s: %v", schema, err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		if err := admin.Exec("DROP SCHEMA " + schema + " CASCADE").Error; err != nil {
			Log.WithError(err).Warnf("[Test] failed to drop schema %s", schema)
		}
		if sqlDB, err := admin.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func withSearchPath(dsn, schema string) string {
	if strings.Contains(dsn, "://") {
		u, err := url.Parse(dsn)
		if err == nil {
			q := u.Query()
			q.Set("search_path", schema)
			u.RawQuery = q.Encode()
			return u.String()
		}
	}
	return fmt.Sprintf("%s search_path=%s", dsn, schema)
}
