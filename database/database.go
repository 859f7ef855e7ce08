package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fieldtrack/config"
)

// Connect opens the database described by cfg and returns the handle.
// Callers own the handle; there is no package-level connection.
func Connect(cfg config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
	if cfg.IsDevelopment() {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	switch cfg.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
		)

		log.Printf("🔌 Connecting to PostgreSQL at host=%s port=%s db=%s...",
			cfg.DBHost, cfg.DBPort, cfg.DBName)

		db, err := gorm.Open(postgres.Open(dsn), gormConfig)
		if err != nil {
			log.Printf("❌ Failed to connect to DB: %v", err)
			return nil, err
		}

		log.Println("✅ PostgreSQL connection successful.")
		return db, nil

	case "sqlite", "sqlite3":
		db, err := gorm.Open(sqlite.Open(cfg.DBPath), gormConfig)
		if err != nil {
			log.Printf("❌ Failed to connect to SQLite: %v", err)
			return nil, err
		}

		log.Printf("✅ SQLite connection successful at %s", cfg.DBPath)
		return db, nil
	}

	return nil, fmt.Errorf("unsupported DB driver: %s", cfg.DBDriver)
}

// Close closes the underlying connection pool
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
