package main

import (
	"log"
	"os"

	"github.com/critiquehub/critique/internal/config"
	"github.com/critiquehub/critique/internal/database"
	"github.com/critiquehub/critique/internal/models"
)

// Seed bootstraps the first admin and a starter set of categories and
// genres. Safe to run repeatedly: existing rows are left alone.
func main() {
	cfg := config.Load()
	database.Connect(cfg)
	database.Migrate()

	adminUsername := os.Getenv("ADMIN_USERNAME")
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminUsername == "" || adminEmail == "" {
		log.Fatal("Missing environment variables: ADMIN_USERNAME, ADMIN_EMAIL")
	}

	var admin models.User
	result := database.DB.Where("email = ?", adminEmail).First(&admin)
	if result.Error == nil {
		log.Println("Admin user already exists:", admin.Username)
	} else {
		admin = models.User{
			Username: adminUsername,
			Email:    adminEmail,
			Role:     models.RoleAdmin,
		}
		if err := database.DB.Create(&admin).Error; err != nil {
			log.Fatal("Failed to create admin:", err)
		}
		log.Println("Admin user created:", admin.Username)
	}

	categories := []models.Category{
		{Name: "Books", Slug: "books"},
		{Name: "Films", Slug: "films"},
		{Name: "Music", Slug: "music"},
	}
	for _, category := range categories {
		var existing models.Category
		if err := database.DB.Where("slug = ?", category.Slug).First(&existing).Error; err == nil {
			continue
		}
		if err := database.DB.Create(&category).Error; err != nil {
			log.Fatal("Failed to create category:", err)
		}
		log.Println("Category created:", category.Slug)
	}

	genres := []models.Genre{
		{Name: "Drama", Slug: "drama"},
		{Name: "Comedy", Slug: "comedy"},
		{Name: "Fantasy", Slug: "fantasy"},
		{Name: "Rock", Slug: "rock"},
	}
	for _, genre := range genres {
		var existing models.Genre
		if err := database.DB.Where("slug = ?", genre.Slug).First(&existing).Error; err == nil {
			continue
		}
		if err := database.DB.Create(&genre).Error; err != nil {
			log.Fatal("Failed to create genre:", err)
		}
		log.Println("Genre created:", genre.Slug)
	}
}
