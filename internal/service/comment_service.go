package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/critiquehub/critique/internal/models"
	"github.com/critiquehub/critique/internal/permission"
	"github.com/critiquehub/critique/internal/repository"
)

var ErrCommentNotFound = errors.New("comment not found")

type CommentService struct {
	commentRepo *repository.CommentRepository
	reviewRepo  *repository.ReviewRepository
}

func NewCommentService(commentRepo *repository.CommentRepository, reviewRepo *repository.ReviewRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, reviewRepo: reviewRepo}
}

func (s *CommentService) List(titleID, reviewID uint, page, pageSize int) ([]models.Comment, int64, error) {
	review, err := s.reviewRepo.GetForTitle(titleID, reviewID)
	if err != nil {
		return nil, 0, err
	}
	if review == nil {
		return nil, 0, ErrReviewNotFound
	}
	return s.commentRepo.ListByReview(review.ID, page, pageSize)
}

func (s *CommentService) Get(titleID, reviewID, commentID uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetForReview(titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

// Create attaches the actor's comment to a review. The review must live
// under the given title; a review id from another title is not found.
func (s *CommentService) Create(actor permission.Actor, titleID, reviewID uint, text string) (*models.Comment, error) {
	if !permission.CanCreatePost(actor) {
		return nil, ErrForbidden
	}

	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: actor.ID,
		Text:     text,
	}
	if err := s.commentRepo.Create(titleID, comment); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return s.Get(titleID, reviewID, comment.ID)
}

// Update edits a comment's text. Author, review and pub_date are immutable.
func (s *CommentService) Update(actor permission.Actor, titleID, reviewID, commentID uint, text string) (*models.Comment, error) {
	comment, err := s.Get(titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if !permission.CanModifyPost(actor, comment.AuthorID) {
		return nil, ErrForbidden
	}

	comment.Text = text
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) Delete(actor permission.Actor, titleID, reviewID, commentID uint) error {
	comment, err := s.Get(titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if !permission.CanModifyPost(actor, comment.AuthorID) {
		return ErrForbidden
	}
	return s.commentRepo.Delete(comment.ID)
}
