package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/critiquehub/critique/internal/models"
)

type CodeRepository struct {
	db *gorm.DB
}

func NewCodeRepository(db *gorm.DB) *CodeRepository {
	return &CodeRepository{db: db}
}

// Replace stores a fresh confirmation code for the user, discarding any
// previous one. The delete+insert pair runs in one transaction so a signup
// never leaves a user with two live codes.
func (r *CodeRepository) Replace(code *models.Code) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", code.UserID).Delete(&models.Code{}).Error; err != nil {
			return err
		}
		return tx.Create(code).Error
	})
}

func (r *CodeRepository) GetByUserID(userID uuid.UUID) (*models.Code, error) {
	var code models.Code
	err := r.db.Where("user_id = ?", userID).First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &code, nil
}

// DeleteByUserID consumes the user's code after a successful token exchange.
func (r *CodeRepository) DeleteByUserID(userID uuid.UUID) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Code{}).Error
}
