package database

import (
	"log"

	"gorm.io/gorm"

	"fieldtrack/utils"
)

// RunMigrations runs all database migrations
func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// AutoMigrate will create tables if they don't exist
	if err := db.AutoMigrate(
		&Employee{},
		&Admin{},
		&SuperAdmin{},
		&PasswordResetToken{},
		&AuditLog{},
	); err != nil {
		log.Printf("Migration failed: %v", err)
		return err
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultSuperAdmin creates a default super admin if none exists
func SeedDefaultSuperAdmin(db *gorm.DB, email, password string) {
	var count int64
	if err := db.Model(&SuperAdmin{}).Count(&count).Error; err != nil {
		log.Printf("❌ Failed to check existing super admin: %v", err)
		return
	}
	if count > 0 {
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("❌ Failed to hash super admin password: %v", err)
		return
	}

	superAdmin := SuperAdmin{
		Email:        email,
		Name:         "Super Admin",
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := db.Create(&superAdmin).Error; err != nil {
		log.Printf("❌ Failed to create super admin: %v", err)
		return
	}
	log.Println("✅ Default super admin created successfully.")
}
