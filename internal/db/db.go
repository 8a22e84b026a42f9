// Package db opens the gorm connection for the configured engine and migrates the schema.
package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/authcore/authcore/internal/config"
	"github.com/authcore/authcore/internal/db/dsn"
	"github.com/authcore/authcore/internal/db/models"
)

// Dialector picks the gorm driver for cfg.DB.GormEngine. sqlite is the default.
func Dialector(cfg *config.Config) gorm.Dialector {
	source := dsn.Create(cfg)

	switch cfg.DB.GormEngine {
	case "mysql":
		return gormmysql.Open(source)
	case "postgres":
		return postgres.Open(source)
	default:
		return sqlite.Open(source)
	}
}

// Open connects to the database and migrates all models.
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	}

	if cfg.DevMode {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	db, err := gorm.Open(Dialector(cfg), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err = Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the tables for all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Setting{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}
