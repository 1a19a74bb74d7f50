package db

import (
	"abs/src/config"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func GetDb() *gorm.DB {
	if db != nil {
		return db
	}
	_db, err := gorm.Open(postgres.Open(config.GetDSN()))
	if err != nil {
		log.Printf("Error connecting to database: %s\n", err.Error())
		panic(err)
	}
	sqlDB, err := _db.DB()
	if err != nil {
		log.Fatalf("Error establishing connection to database: %s\n", err.Error())
	}
	settings := config.GetSettings()
	sqlDB.SetMaxIdleConns(settings.DBMaxIdleConns)
	sqlDB.SetMaxOpenConns(settings.DBMaxOpenConns)

	db = _db
	return _db
}

func NewDB(newdb *gorm.DB) {
	db = newdb
}
