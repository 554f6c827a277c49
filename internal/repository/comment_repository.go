package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/critiquehub/critique/internal/models"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts a comment after confirming its review exists under the
// given title, as one atomic unit. The scoping guards against comments being
// attached across titles through a crafted review id.
func (r *CommentRepository) Create(titleID uint, comment *models.Comment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		err := tx.Select("id").
			Where("id = ? AND title_id = ?", comment.ReviewID, titleID).
			First(&review).Error
		if err != nil {
			return err
		}
		return tx.Create(comment).Error
	})
}

// GetForReview fetches a comment scoped to a review under a title.
func (r *CommentRepository) GetForReview(titleID, reviewID, commentID uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.
		Preload("Author").
		Joins("JOIN reviews ON reviews.id = comments.review_id").
		Where("comments.id = ? AND comments.review_id = ? AND reviews.title_id = ?", commentID, reviewID, titleID).
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// ListByReview returns a review's comments oldest first.
func (r *CommentRepository) ListByReview(reviewID uint, page, pageSize int) ([]models.Comment, int64, error) {
	var total int64
	if err := r.db.Model(&models.Comment{}).Where("review_id = ?", reviewID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	err := r.db.
		Preload("Author").
		Where("review_id = ?", reviewID).
		Order("pub_date ASC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

func (r *CommentRepository) Update(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

func (r *CommentRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Comment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
