package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/critiquehub/critique/internal/middleware"
	"github.com/critiquehub/critique/internal/models"
	"github.com/critiquehub/critique/internal/service"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type CommentResponse struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

func toCommentResponse(comment models.Comment) CommentResponse {
	return CommentResponse{
		ID:      comment.ID,
		Text:    comment.Text,
		Author:  comment.Author.Username,
		PubDate: comment.PubDate,
	}
}

func (h *CommentHandler) List(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}

	page, pageSize := pagination(c)
	comments, total, err := h.commentService.List(titleID, reviewID, page, pageSize)
	if err != nil {
		respondError(c, reviewErrorStatus(err), err)
		return
	}

	results := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		results = append(results, toCommentResponse(comment))
	}
	c.JSON(http.StatusOK, listResponse(total, results))
}

func (h *CommentHandler) Get(c *gin.Context) {
	titleID, reviewID, commentID, ok := commentPath(c)
	if !ok {
		return
	}

	comment, err := h.commentService.Get(titleID, reviewID, commentID)
	if err != nil {
		respondError(c, reviewErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, toCommentResponse(*comment))
}

func (h *CommentHandler) Create(c *gin.Context) {
	titleID, reviewID, ok := reviewPath(c)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	comment, err := h.commentService.Create(middleware.GetActor(c), titleID, reviewID, req.Text)
	if err != nil {
		respondError(c, reviewErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusCreated, toCommentResponse(*comment))
}

func (h *CommentHandler) Update(c *gin.Context) {
	titleID, reviewID, commentID, ok := commentPath(c)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	comment, err := h.commentService.Update(middleware.GetActor(c), titleID, reviewID, commentID, req.Text)
	if err != nil {
		respondError(c, reviewErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, toCommentResponse(*comment))
}

func (h *CommentHandler) Delete(c *gin.Context) {
	titleID, reviewID, commentID, ok := commentPath(c)
	if !ok {
		return
	}

	if err := h.commentService.Delete(middleware.GetActor(c), titleID, reviewID, commentID); err != nil {
		respondError(c, reviewErrorStatus(err), err)
		return
	}
	c.Status(http.StatusNoContent)
}

func commentPath(c *gin.Context) (titleID, reviewID, commentID uint, ok bool) {
	titleID, reviewID, ok = reviewPath(c)
	if !ok {
		return 0, 0, 0, false
	}
	commentID, ok = pathID(c, "comment_id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrCommentNotFound.Error()})
		return 0, 0, 0, false
	}
	return titleID, reviewID, commentID, true
}
