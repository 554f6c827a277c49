package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/critiquehub/critique/internal/models"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a review after confirming its title exists, as one atomic
// unit. A unique-index violation surfaces as gorm.ErrDuplicatedKey for the
// service to translate; the title lookup surfaces gorm.ErrRecordNotFound.
func (r *ReviewRepository) Create(review *models.Review) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var title models.Title
		if err := tx.Select("id").First(&title, review.TitleID).Error; err != nil {
			return err
		}
		return tx.Create(review).Error
	})
}

// GetForTitle fetches a review scoped to a title; a review id that exists
// under a different title is treated as not found.
func (r *ReviewRepository) GetForTitle(titleID, reviewID uint) (*models.Review, error) {
	var review models.Review
	err := r.db.
		Preload("Author").
		Where("id = ? AND title_id = ?", reviewID, titleID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) GetByTitleAndAuthor(titleID uint, authorID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.
		Where("title_id = ? AND author_id = ?", titleID, authorID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// ListByTitle returns a title's reviews newest first. A missing title
// surfaces as gorm.ErrRecordNotFound, not as an empty page.
func (r *ReviewRepository) ListByTitle(titleID uint, page, pageSize int) ([]models.Review, int64, error) {
	var title models.Title
	if err := r.db.Select("id").First(&title, titleID).Error; err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.Model(&models.Review{}).Where("title_id = ?", titleID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	err := r.db.
		Preload("Author").
		Where("title_id = ?", titleID).
		Order("pub_date DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

func (r *ReviewRepository) Update(review *models.Review) error {
	return r.db.Save(review).Error
}

func (r *ReviewRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Review{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
