package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/critiquehub/critique/internal/config"
	"github.com/critiquehub/critique/internal/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	var err error

	// TranslateError turns driver-specific unique violations into
	// gorm.ErrDuplicatedKey, which the services rely on.
	DB, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect database:", err)
	}

	log.Println("Database connected successfully")
}

func Migrate() {
	if err := MigrateAll(DB); err != nil {
		log.Fatal("Migration failed:", err)
	}

	log.Println("Database migration completed")
}

// MigrateAll creates the full schema on db. The join table is registered
// first so the many2many association uses the explicit model with its
// cascade constraints.
func MigrateAll(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Title{}, "Genres", &models.GenreTitle{}); err != nil {
		return err
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Code{},
		&models.Category{},
		&models.Genre{},
		&models.Title{},
		&models.Review{},
		&models.Comment{},
	)
}
