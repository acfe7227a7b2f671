package services

import (
	"path/filepath"
	"testing"
	"time"

	"rentalProject/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB создает изолированную тестовую базу данных
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Lease{},
		&models.Payment{},
	)
	require.NoError(t, err)

	return db
}

// seedManager создает менеджера для тестов
func seedManager(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	manager := &models.User{
		FirstName: "Olga",
		LastName:  "Petrova",
		Email:     "manager@example.com",
		Password:  "hashed-password",
		Role:      models.RolePropertyManager,
		IsActive:  true,
	}
	require.NoError(t, db.Create(manager).Error)
	return manager
}

// seedTenant создает арендатора для тестов
func seedTenant(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	tenant := &models.User{
		FirstName: "Ivan",
		LastName:  "Sidorov",
		Email:     email,
		Password:  "hashed-password",
		Role:      models.RoleTenant,
		IsActive:  true,
	}
	require.NoError(t, db.Create(tenant).Error)
	return tenant
}

// seedProperty создает объект недвижимости для тестов
func seedProperty(t *testing.T, db *gorm.DB, managerID uint) *models.Property {
	t.Helper()

	property := &models.Property{
		Title:           "Квартира на Ленина 10",
		Address:         "ул. Ленина, д. 10, кв. 5",
		Status:          models.PropertyStatusAvailable,
		MonthlyRent:     1200,
		SecurityDeposit: 2400,
		ManagerID:       managerID,
		IsActive:        true,
	}
	require.NoError(t, db.Create(property).Error)
	return property
}

// date упрощает создание дат в тестах
func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
