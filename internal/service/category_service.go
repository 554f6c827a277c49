package service

import (
	"errors"
	"regexp"

	"gorm.io/gorm"

	"github.com/critiquehub/critique/internal/models"
	"github.com/critiquehub/critique/internal/repository"
)

var (
	ErrCategoryExists   = errors.New("category name or slug already exists")
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidSlug      = errors.New("slug may only contain letters, numbers, hyphens and underscores")

	slugRegex = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

type CategoryService struct {
	categoryRepo *repository.CategoryRepository
}

func NewCategoryService(categoryRepo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

func (s *CategoryService) List(search string, page, pageSize int) ([]models.Category, int64, error) {
	return s.categoryRepo.List(search, page, pageSize)
}

func (s *CategoryService) Create(name, slug string) (*models.Category, error) {
	if !slugRegex.MatchString(slug) {
		return nil, ErrInvalidSlug
	}

	category := &models.Category{Name: name, Slug: slug}
	if err := s.categoryRepo.Create(category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Delete(slug string) error {
	err := s.categoryRepo.DeleteBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCategoryNotFound
	}
	return err
}
