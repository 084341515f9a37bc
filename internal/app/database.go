package app

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/nbbcoffee/coffeehub/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func getDatabase(cfg config.DBConfig) *gorm.DB {
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	var dialector gorm.Dialector
	switch cfg.Type {
	case "sqlite":
		// cfg.Name carries the file path, ":memory:" for an in-memory store
		dialector = sqlite.Open(cfg.Name)
	default:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
			cfg.Host, cfg.User, cfg.Passwd, cfg.Name, cfg.Port)
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	if cfg.Type == "sqlite" {
		// a single connection keeps every session on the same in-memory store
		sqlDB.SetMaxOpenConns(1)
	} else {
		maxConn := cfg.MaxConn
		if maxConn <= 0 {
			maxConn = 100
		}
		sqlDB.SetMaxOpenConns(maxConn)
		sqlDB.SetMaxIdleConns(maxConn / 10)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}
	return db
}
