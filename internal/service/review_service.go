package service

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/critiquehub/critique/internal/models"
	"github.com/critiquehub/critique/internal/permission"
	"github.com/critiquehub/critique/internal/repository"
	"github.com/critiquehub/critique/pkg/logger"
)

var (
	ErrReviewExists    = errors.New("review for this title already exists")
	ErrScoreOutOfRange = errors.New("score must be between 1 and 10")
	ErrReviewNotFound  = errors.New("review not found")
	ErrForbidden       = errors.New("insufficient permissions")
)

type ReviewService struct {
	reviewRepo *repository.ReviewRepository
}

func NewReviewService(reviewRepo *repository.ReviewRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo}
}

func (s *ReviewService) List(titleID uint, page, pageSize int) ([]models.Review, int64, error) {
	reviews, total, err := s.reviewRepo.ListByTitle(titleID, page, pageSize)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrTitleNotFound
		}
		return nil, 0, err
	}
	return reviews, total, nil
}

func (s *ReviewService) Get(titleID, reviewID uint) (*models.Review, error) {
	review, err := s.reviewRepo.GetForTitle(titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

// Create adds the actor's review of a title. The pre-check is a fast path;
// the unique index on (title_id, author_id) is the source of truth, so a
// concurrent duplicate still comes back as ErrReviewExists.
func (s *ReviewService) Create(actor permission.Actor, titleID uint, text string, score int) (*models.Review, error) {
	if !permission.CanCreatePost(actor) {
		return nil, ErrForbidden
	}
	if score < 1 || score > 10 {
		return nil, ErrScoreOutOfRange
	}

	existing, err := s.reviewRepo.GetByTitleAndAuthor(titleID, actor.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrReviewExists
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: actor.ID,
		Text:     text,
		Score:    score,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrReviewExists
		}
		return nil, err
	}

	logger.Log.Info("Review created",
		zap.Uint("review_id", review.ID),
		zap.Uint("title_id", titleID),
		zap.String("author_id", actor.ID.String()),
	)
	return s.Get(titleID, review.ID)
}

// Update edits a review's text and score. Author, title and pub_date are
// immutable.
func (s *ReviewService) Update(actor permission.Actor, titleID, reviewID uint, text *string, score *int) (*models.Review, error) {
	review, err := s.Get(titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if !permission.CanModifyPost(actor, review.AuthorID) {
		return nil, ErrForbidden
	}

	if score != nil {
		if *score < 1 || *score > 10 {
			return nil, ErrScoreOutOfRange
		}
		review.Score = *score
	}
	if text != nil {
		review.Text = *text
	}

	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) Delete(actor permission.Actor, titleID, reviewID uint) error {
	review, err := s.Get(titleID, reviewID)
	if err != nil {
		return err
	}
	if !permission.CanModifyPost(actor, review.AuthorID) {
		return ErrForbidden
	}

	if err := s.reviewRepo.Delete(review.ID); err != nil {
		return err
	}

	logger.Log.Info("Review deleted",
		zap.Uint("review_id", reviewID),
		zap.String("actor_id", actor.ID.String()),
	)
	return nil
}
