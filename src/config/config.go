package config

import (
	"fmt"
	"os"
	"strconv"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

// Settings carries the platform defaults the booking core depends on. It is
// built once from the environment and injected into the services at
// construction so tests can run with varied configs.
type Settings struct {
	DefaultCurrency       string
	FreeCancellationHours int
	DefaultMaxGroupSize   int
	DefaultCommissionRate float64
	CartRetentionDays     int
	DBMaxIdleConns        int
	DBMaxOpenConns        int
}

func DefaultSettings() Settings {
	return Settings{
		DefaultCurrency:       "EUR",
		FreeCancellationHours: 24,
		DefaultMaxGroupSize:   20,
		DefaultCommissionRate: 20.0,
		CartRetentionDays:     30,
		DBMaxIdleConns:        10,
		DBMaxOpenConns:        100,
	}
}

func GetSettings() Settings {
	s := DefaultSettings()
	if v := os.Getenv("DEFAULT_CURRENCY"); v != "" {
		s.DefaultCurrency = v
	}
	if v, err := strconv.Atoi(os.Getenv("FREE_CANCELLATION_HOURS")); err == nil && v > 0 {
		s.FreeCancellationHours = v
	}
	if v, err := strconv.Atoi(os.Getenv("DEFAULT_MAX_GROUP_SIZE")); err == nil && v > 0 {
		s.DefaultMaxGroupSize = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("DEFAULT_COMMISSION_RATE"), 64); err == nil && v >= 0 {
		s.DefaultCommissionRate = v
	}
	if v, err := strconv.Atoi(os.Getenv("CART_RETENTION_DAYS")); err == nil && v > 0 {
		s.CartRetentionDays = v
	}
	if v, err := strconv.Atoi(os.Getenv("DATABASE_MAX_IDLE_CONNS")); err == nil && v > 0 {
		s.DBMaxIdleConns = v
	}
	if v, err := strconv.Atoi(os.Getenv("DATABASE_MAX_OPEN_CONNS")); err == nil && v > 0 {
		s.DBMaxOpenConns = v
	}
	return s
}
