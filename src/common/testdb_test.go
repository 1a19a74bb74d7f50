package common

import (
	"abs/src/config"
	"abs/src/models"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %s", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("test db handle: %s", err)
	}
	sqlDB.SetMaxOpenConns(1)
	err = conn.AutoMigrate(
		&models.User{},
		&models.Vendor{},
		&models.Activity{},
		&models.PricingTier{},
		&models.TimeSlot{},
		&models.AddOn{},
		&models.Availability{},
		&models.CartItem{},
		&models.Booking{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %s", err)
	}
	return conn
}

func testSettings() config.Settings {
	return config.DefaultSettings()
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string {
	return &s
}

func uintPtr(v uint) *uint {
	return &v
}

func seedActivity(t *testing.T, conn *gorm.DB, mutate func(a *models.Activity)) *models.Activity {
	t.Helper()
	activity := &models.Activity{
		VendorID:              1,
		Title:                 "Sunset Kayak Tour",
		PriceAdult:            dec("50.00"),
		PriceChild:            decPtr("25.00"),
		PriceCurrency:         "EUR",
		MaxGroupSize:          12,
		InstantConfirmation:   true,
		FreeCancellationHours: 24,
		IsActive:              true,
	}
	if mutate != nil {
		mutate(activity)
	}
	// GORM substitutes the `default:` tag value for zero-valued bool fields on
	// struct-based Create (and writes it back into the struct), so re-assert the
	// seeded values via a map update, which passes values through untouched.
	isActive := activity.IsActive
	instantConfirmation := activity.InstantConfirmation
	if err := conn.Create(activity).Error; err != nil {
		t.Fatalf("seed activity: %s", err)
	}
	err := conn.Model(activity).UpdateColumns(map[string]interface{}{
		"is_active":            isActive,
		"instant_confirmation": instantConfirmation,
	}).Error
	if err != nil {
		t.Fatalf("seed activity flags: %s", err)
	}
	activity.IsActive = isActive
	activity.InstantConfirmation = instantConfirmation
	return activity
}
