package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/critiquehub/critique/internal/models"
	"github.com/critiquehub/critique/internal/repository"
)

var (
	ErrGenreExists   = errors.New("genre name or slug already exists")
	ErrGenreNotFound = errors.New("genre not found")
)

type GenreService struct {
	genreRepo *repository.GenreRepository
}

func NewGenreService(genreRepo *repository.GenreRepository) *GenreService {
	return &GenreService{genreRepo: genreRepo}
}

func (s *GenreService) List(search string, page, pageSize int) ([]models.Genre, int64, error) {
	return s.genreRepo.List(search, page, pageSize)
}

func (s *GenreService) Create(name, slug string) (*models.Genre, error) {
	if !slugRegex.MatchString(slug) {
		return nil, ErrInvalidSlug
	}

	genre := &models.Genre{Name: name, Slug: slug}
	if err := s.genreRepo.Create(genre); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrGenreExists
		}
		return nil, err
	}
	return genre, nil
}

func (s *GenreService) Delete(slug string) error {
	err := s.genreRepo.DeleteBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrGenreNotFound
	}
	return err
}
