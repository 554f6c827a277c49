package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/critiquehub/critique/internal/models"
)

type GenreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

func (r *GenreRepository) Create(genre *models.Genre) error {
	return r.db.Create(genre).Error
}

func (r *GenreRepository) List(search string, page, pageSize int) ([]models.Genre, int64, error) {
	query := r.db.Model(&models.Genre{})
	if search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var genres []models.Genre
	err := query.
		Order("name").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&genres).Error
	if err != nil {
		return nil, 0, err
	}

	return genres, total, nil
}

func (r *GenreRepository) GetBySlug(slug string) (*models.Genre, error) {
	var genre models.Genre
	err := r.db.Where("slug = ?", slug).First(&genre).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &genre, nil
}

// GetBySlugs resolves a set of genre slugs, keeping request order.
func (r *GenreRepository) GetBySlugs(slugs []string) ([]models.Genre, error) {
	var genres []models.Genre
	if err := r.db.Where("slug IN ?", slugs).Find(&genres).Error; err != nil {
		return nil, err
	}

	bySlug := make(map[string]models.Genre, len(genres))
	for _, g := range genres {
		bySlug[g.Slug] = g
	}

	ordered := make([]models.Genre, 0, len(slugs))
	for _, slug := range slugs {
		genre, ok := bySlug[slug]
		if !ok {
			return nil, gorm.ErrRecordNotFound
		}
		ordered = append(ordered, genre)
	}
	return ordered, nil
}

func (r *GenreRepository) DeleteBySlug(slug string) error {
	result := r.db.Where("slug = ?", slug).Delete(&models.Genre{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
