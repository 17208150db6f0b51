// Package database opens the relational store behind the catalog and orders.
package database

import (
	"fmt"
	"strconv"
	"time"

	"github.com/campuseats/canteen/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dialectors = map[string]func(string) gorm.Dialector{
	"sqlite":    sqlite.Open,
	"postgres":  postgres.Open,
	"mysql":     mysql.Open,
	"sqlserver": sqlserver.Open,
}

// Connect opens the configured database and tunes the connection pool.
// The returned *gorm.DB is handed to repositories explicitly; nothing in the
// application reads a package-level handle.
func Connect() (*gorm.DB, error) {
	driver := config.DatabaseDriver()
	open, ok := dialectors[driver]
	if !ok {
		return nil, fmt.Errorf("database: unsupported DB_DRIVER %q (supported: sqlite, postgres, mysql, sqlserver)", driver)
	}

	db, err := gorm.Open(open(config.DatabaseDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // pkg/logger owns logging
	})
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(intEnv("DB_MAX_OPEN_CONNS", 25))
	sqlDB.SetMaxIdleConns(intEnv("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(2 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database: ping: %w", err)
	}
	return db, nil
}

func intEnv(key string, fallback int) int {
	n, err := strconv.Atoi(config.Get(key, ""))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
