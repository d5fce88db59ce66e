package config

import (
	"fmt"
	"time"

	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN menyusun connection string sesuai driver. DATABASE_URL diprioritaskan.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	switch d.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			d.Host, d.Port, d.User, d.Password, d.Name)
	case "sqlite":
		return d.Name + ".db"
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			d.User, d.Password, d.Host, d.Port, d.Name)
	}
}

func dialector(d DatabaseConfig) gorm.Dialector {
	switch d.Driver {
	case "postgres":
		return postgres.Open(d.DSN())
	case "sqlite":
		return sqlite.Open(d.DSN())
	default:
		return mysql.Open(d.DSN())
	}
}

// GormConfig dipakai juga oleh test supaya waktu selalu disimpan dalam UTC
func GormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logger.New(utils.InfoLogger, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// InitDB membuka koneksi ke store. Handle ini dioper ke setiap komponen.
func InitDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(dialector(cfg.Database), GormConfig())
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Database.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}

	// Pengaturan connection pool
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)
	if cfg.Database.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	}

	utils.InfoLogger.Printf("Database connection established (driver=%s)", cfg.Database.Driver)
	return db, nil
}
