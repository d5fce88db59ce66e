package database

import (
	"errors"
	"fmt"

	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Models adalah daftar tabel yang dimigrasi, urutan mengikuti foreign key
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Table{},
		&models.Order{},
		&models.OrderItem{},
		&models.InventoryLog{},
		&models.FinancialTransaction{},
		&models.Settings{},
		&models.DBChange{},
	}
}

// AutoMigrate membuat/menyesuaikan skema lalu memastikan baris settings ada.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := EnsureSettings(db); err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}

// EnsureSettings membuat baris settings default jika belum ada
func EnsureSettings(db *gorm.DB) error {
	var settings models.Settings
	err := db.First(&settings, models.SettingsID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("load settings: %w", err)
	}

	defaults := models.DefaultSettings()
	if err := db.Create(&defaults).Error; err != nil {
		return fmt.Errorf("create default settings: %w", err)
	}
	return nil
}

// EnsureAdmin membuat user admin pertama. Tidak melakukan apa-apa jika
// email sudah terdaftar atau password kosong.
func EnsureAdmin(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		utils.InfoLogger.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.User{
		Name:     "Administrator",
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	utils.InfoLogger.Printf("Admin user created: %s", email)
	return nil
}
