package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/critiquehub/critique/internal/middleware"
	"github.com/critiquehub/critique/internal/models"
	"github.com/critiquehub/critique/internal/service"
)

type ReviewHandler struct {
	reviewService *service.ReviewService
}

func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

type CreateReviewRequest struct {
	Text  string `json:"text" binding:"required"`
	Score int    `json:"score" binding:"required"`
}

type UpdateReviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

// ReviewResponse flattens the author to a username.
type ReviewResponse struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

func toReviewResponse(review models.Review) ReviewResponse {
	return ReviewResponse{
		ID:      review.ID,
		Text:    review.Text,
		Author:  review.Author.Username,
		Score:   review.Score,
		PubDate: review.PubDate,
	}
}

func (h *ReviewHandler) List(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrTitleNotFound.Error()})
		return
	}

	page, pageSize := pagination(c)
	reviews, total, err := h.reviewService.List(titleID, page, pageSize)
	if err != nil {
		respondError(c, reviewErrorStatus(err), err)
		return
	}

	results := make([]ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		results = append(results, toReviewResponse(review))
	}
	c.JSON(http.StatusOK, listResponse(total, results))
}

func (h *ReviewHandler) Get(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}

	review, err := h.reviewService.Get(titleID, reviewID)
	if err != nil {
		respondError(c, reviewErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, toReviewResponse(*review))
}

func (h *ReviewHandler) Create(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrTitleNotFound.Error()})
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	review, err := h.reviewService.Create(middleware.GetActor(c), titleID, req.Text, req.Score)
	if err != nil {
		respondError(c, reviewErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusCreated, toReviewResponse(*review))
}

func (h *ReviewHandler) Update(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	review, err := h.reviewService.Update(middleware.GetActor(c), titleID, reviewID, req.Text, req.Score)
	if err != nil {
		respondError(c, reviewErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, toReviewResponse(*review))
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}

	if err := h.reviewService.Delete(middleware.GetActor(c), titleID, reviewID); err != nil {
		respondError(c, reviewErrorStatus(err), err)
		return
	}
	c.Status(http.StatusNoContent)
}

func reviewPath(c *gin.Context) (titleID, reviewID uint, ok bool) {
	titleID, ok = pathID(c, "title_id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrTitleNotFound.Error()})
		return 0, 0, false
	}
	reviewID, ok = pathID(c, "review_id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrReviewNotFound.Error()})
		return 0, 0, false
	}
	return titleID, reviewID, true
}

func reviewErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrTitleNotFound),
		errors.Is(err, service.ErrReviewNotFound),
		errors.Is(err, service.ErrCommentNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrReviewExists),
		errors.Is(err, service.ErrScoreOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
