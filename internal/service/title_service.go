package service

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/critiquehub/critique/internal/models"
	"github.com/critiquehub/critique/internal/repository"
)

var (
	ErrTitleNotFound = errors.New("title not found")
	ErrInvalidYear   = errors.New("year out of range")
)

const minTitleYear = 1700

// TitleInput is the write representation of a title: category and genres
// arrive as slug references, and rating is never client-settable.
type TitleInput struct {
	Name        string
	Year        *int
	Description string
	Category    string
	Genres      []string
}

// TitleUpdate carries a partial title edit; nil fields are left untouched.
type TitleUpdate struct {
	Name        *string
	Year        *int
	Description *string
	Category    *string
	Genres      *[]string
}

// RatedTitle is the read representation: the entity plus its computed
// average review score (nil when unreviewed).
type RatedTitle struct {
	Title  models.Title
	Rating *float64
}

type TitleService struct {
	titleRepo    *repository.TitleRepository
	categoryRepo *repository.CategoryRepository
	genreRepo    *repository.GenreRepository
}

func NewTitleService(
	titleRepo *repository.TitleRepository,
	categoryRepo *repository.CategoryRepository,
	genreRepo *repository.GenreRepository,
) *TitleService {
	return &TitleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
	}
}

func (s *TitleService) List(filter repository.TitleFilter, page, pageSize int) ([]RatedTitle, int64, error) {
	titles, total, err := s.titleRepo.List(filter, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uint, 0, len(titles))
	for _, title := range titles {
		ids = append(ids, title.ID)
	}
	averages, err := s.titleRepo.AverageScores(ids)
	if err != nil {
		return nil, 0, err
	}

	rated := make([]RatedTitle, 0, len(titles))
	for _, title := range titles {
		var rating *float64
		if avg, ok := averages[title.ID]; ok {
			rounded := roundScore(avg)
			rating = &rounded
		}
		rated = append(rated, RatedTitle{Title: title, Rating: rating})
	}
	return rated, total, nil
}

func (s *TitleService) Get(id uint) (*RatedTitle, error) {
	title, err := s.titleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if title == nil {
		return nil, ErrTitleNotFound
	}

	rating, err := s.rating(title.ID)
	if err != nil {
		return nil, err
	}
	return &RatedTitle{Title: *title, Rating: rating}, nil
}

func (s *TitleService) Create(input TitleInput) (*RatedTitle, error) {
	if err := validateYear(input.Year); err != nil {
		return nil, err
	}

	title := &models.Title{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
	}

	if input.Category != "" {
		category, err := s.categoryRepo.GetBySlug(input.Category)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
		title.CategoryID = &category.ID
	}

	if len(input.Genres) > 0 {
		genres, err := s.genreRepo.GetBySlugs(input.Genres)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrGenreNotFound
			}
			return nil, err
		}
		title.Genres = genres
	}

	if err := s.titleRepo.Create(title); err != nil {
		return nil, err
	}
	return s.Get(title.ID)
}

func (s *TitleService) Update(id uint, update TitleUpdate) (*RatedTitle, error) {
	title, err := s.titleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if title == nil {
		return nil, ErrTitleNotFound
	}

	if update.Year != nil {
		if err := validateYear(update.Year); err != nil {
			return nil, err
		}
		title.Year = update.Year
	}
	if update.Name != nil {
		title.Name = *update.Name
	}
	if update.Description != nil {
		title.Description = *update.Description
	}

	clearCategory := false
	if update.Category != nil {
		if *update.Category == "" {
			clearCategory = true
		} else {
			category, err := s.categoryRepo.GetBySlug(*update.Category)
			if err != nil {
				return nil, err
			}
			if category == nil {
				return nil, ErrCategoryNotFound
			}
			title.CategoryID = &category.ID
			title.Category = category
		}
	}

	if err := s.titleRepo.Update(title); err != nil {
		return nil, err
	}
	if clearCategory {
		if err := s.titleRepo.ClearCategory(title); err != nil {
			return nil, err
		}
	}

	if update.Genres != nil {
		genres, err := s.genreRepo.GetBySlugs(*update.Genres)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrGenreNotFound
			}
			return nil, err
		}
		if err := s.titleRepo.ReplaceGenres(title, genres); err != nil {
			return nil, err
		}
	}

	return s.Get(id)
}

func (s *TitleService) Delete(id uint) error {
	err := s.titleRepo.Delete(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTitleNotFound
	}
	return err
}

// rating rounds the mean review score to two decimals; whole means render
// as integers when marshaled.
func (s *TitleService) rating(titleID uint) (*float64, error) {
	avg, err := s.titleRepo.AverageScore(titleID)
	if err != nil {
		return nil, err
	}
	if avg == nil {
		return nil, nil
	}
	rounded := roundScore(*avg)
	return &rounded, nil
}

func roundScore(avg float64) float64 {
	return math.Round(avg*100) / 100
}

func validateYear(year *int) error {
	if year == nil {
		return nil
	}
	if *year < minTitleYear || *year > time.Now().Year() {
		return ErrInvalidYear
	}
	return nil
}
