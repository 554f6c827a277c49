package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/critiquehub/critique/internal/service"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
}

func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=200"`
	Slug string `json:"slug" binding:"required,max=50"`
}

func (h *CategoryHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)
	categories, total, err := h.categoryService.List(c.Query("search"), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list categories"})
		return
	}
	c.JSON(http.StatusOK, listResponse(total, categories))
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	category, err := h.categoryService.Create(req.Name, req.Slug)
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, service.ErrCategoryExists) && !errors.Is(err, service.ErrInvalidSlug) {
			status = http.StatusInternalServerError
		}
		respondError(c, status, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categoryService.Delete(c.Param("slug")); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrCategoryNotFound) {
			status = http.StatusNotFound
		}
		respondError(c, status, err)
		return
	}
	c.Status(http.StatusNoContent)
}
