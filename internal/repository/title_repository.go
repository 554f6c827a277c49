package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/critiquehub/critique/internal/models"
)

// TitleFilter narrows a title listing. Zero-valued fields are ignored and
// the set fields combine with AND.
type TitleFilter struct {
	Category string // category slug
	Genre    string // genre slug
	Name     string // case-insensitive substring
	Year     *int   // exact year
}

type TitleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) *TitleRepository {
	return &TitleRepository{db: db}
}

func (r *TitleRepository) Create(title *models.Title) error {
	return r.db.Create(title).Error
}

func (r *TitleRepository) GetByID(id uint) (*models.Title, error) {
	var title models.Title
	err := r.db.
		Preload("Category").
		Preload("Genres").
		First(&title, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &title, nil
}

func (r *TitleRepository) List(filter TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	query := r.db.Model(&models.Title{})

	if filter.Category != "" {
		query = query.
			Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", filter.Category)
	}
	if filter.Genre != "" {
		query = query.
			Joins("JOIN genre_titles ON genre_titles.title_id = titles.id").
			Joins("JOIN genres ON genres.id = genre_titles.genre_id").
			Where("genres.slug = ?", filter.Genre)
	}
	if filter.Name != "" {
		query = query.Where("LOWER(titles.name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.Year != nil {
		query = query.Where("titles.year = ?", *filter.Year)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var titles []models.Title
	err := query.
		Preload("Category").
		Preload("Genres").
		Order("titles.name").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&titles).Error
	if err != nil {
		return nil, 0, err
	}

	return titles, total, nil
}

func (r *TitleRepository) Update(title *models.Title) error {
	return r.db.Save(title).Error
}

// ReplaceGenres swaps the title's genre set for the given one.
func (r *TitleRepository) ReplaceGenres(title *models.Title, genres []models.Genre) error {
	return r.db.Model(title).Association("Genres").Replace(genres)
}

// ClearCategory detaches the title from its category without touching other
// fields. Save would re-create the association from the loaded struct.
func (r *TitleRepository) ClearCategory(title *models.Title) error {
	return r.db.Model(title).Update("category_id", nil).Error
}

func (r *TitleRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Title{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AverageScore returns the mean review score for a title, or nil when the
// title has no reviews yet.
func (r *TitleRepository) AverageScore(titleID uint) (*float64, error) {
	var avg *float64
	err := r.db.Model(&models.Review{}).
		Select("AVG(score)").
		Where("title_id = ?", titleID).
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	return avg, nil
}

// AverageScores returns the mean review score per title in one grouped
// query. Unreviewed titles are absent from the map.
func (r *TitleRepository) AverageScores(titleIDs []uint) (map[uint]float64, error) {
	averages := make(map[uint]float64, len(titleIDs))
	if len(titleIDs) == 0 {
		return averages, nil
	}

	var rows []struct {
		TitleID uint
		Avg     float64
	}
	err := r.db.Model(&models.Review{}).
		Select("title_id, AVG(score) AS avg").
		Where("title_id IN ?", titleIDs).
		Group("title_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		averages[row.TitleID] = row.Avg
	}
	return averages, nil
}
