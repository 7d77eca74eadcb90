package common

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"inkwell/config"
)

func ConnectDb(cfg *config.Config) *gorm.DB {
	if cfg.DatabasePath == "" {
		log.Println("database path not set")
		return nil
	}

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Println("Error opening sqlite db: " + err.Error())
		return nil
	}
	log.Println("opened sqlite db at:", cfg.DatabasePath)
	return db
}
