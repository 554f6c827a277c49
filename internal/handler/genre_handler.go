package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/critiquehub/critique/internal/service"
)

type GenreHandler struct {
	genreService *service.GenreService
}

func NewGenreHandler(genreService *service.GenreService) *GenreHandler {
	return &GenreHandler{genreService: genreService}
}

type CreateGenreRequest struct {
	Name string `json:"name" binding:"required,max=200"`
	Slug string `json:"slug" binding:"required,max=50"`
}

func (h *GenreHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)
	genres, total, err := h.genreService.List(c.Query("search"), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list genres"})
		return
	}
	c.JSON(http.StatusOK, listResponse(total, genres))
}

func (h *GenreHandler) Create(c *gin.Context) {
	var req CreateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	genre, err := h.genreService.Create(req.Name, req.Slug)
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, service.ErrGenreExists) && !errors.Is(err, service.ErrInvalidSlug) {
			status = http.StatusInternalServerError
		}
		respondError(c, status, err)
		return
	}
	c.JSON(http.StatusCreated, genre)
}

func (h *GenreHandler) Delete(c *gin.Context) {
	if err := h.genreService.Delete(c.Param("slug")); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrGenreNotFound) {
			status = http.StatusNotFound
		}
		respondError(c, status, err)
		return
	}
	c.Status(http.StatusNoContent)
}
