package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/critiquehub/critique/internal/models"
	"github.com/critiquehub/critique/internal/repository"
	"github.com/critiquehub/critique/internal/service"
)

type TitleHandler struct {
	titleService *service.TitleService
}

func NewTitleHandler(titleService *service.TitleService) *TitleHandler {
	return &TitleHandler{titleService: titleService}
}

type CreateTitleRequest struct {
	Name        string   `json:"name" binding:"required,max=200"`
	Year        *int     `json:"year"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Genre       []string `json:"genre"`
}

type UpdateTitleRequest struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

// TitleResponse is the read shape: category and genres nested, rating
// computed. Rating is null until the first review lands.
type TitleResponse struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Year        *int             `json:"year"`
	Rating      *float64         `json:"rating"`
	Description string           `json:"description"`
	Genre       []models.Genre   `json:"genre"`
	Category    *models.Category `json:"category"`
}

func toTitleResponse(rated service.RatedTitle) TitleResponse {
	genres := rated.Title.Genres
	if genres == nil {
		genres = []models.Genre{}
	}
	return TitleResponse{
		ID:          rated.Title.ID,
		Name:        rated.Title.Name,
		Year:        rated.Title.Year,
		Rating:      rated.Rating,
		Description: rated.Title.Description,
		Genre:       genres,
		Category:    rated.Title.Category,
	}
}

func (h *TitleHandler) List(c *gin.Context) {
	filter := repository.TitleFilter{
		Category: c.Query("category"),
		Genre:    c.Query("genre"),
		Name:     c.Query("name"),
	}
	if yearParam := c.Query("year"); yearParam != "" {
		year, err := strconv.Atoi(yearParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year filter"})
			return
		}
		filter.Year = &year
	}

	page, pageSize := pagination(c)
	rated, total, err := h.titleService.List(filter, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list titles"})
		return
	}

	results := make([]TitleResponse, 0, len(rated))
	for _, r := range rated {
		results = append(results, toTitleResponse(r))
	}
	c.JSON(http.StatusOK, listResponse(total, results))
}

func (h *TitleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrTitleNotFound.Error()})
		return
	}

	rated, err := h.titleService.Get(id)
	if err != nil {
		respondError(c, titleErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, toTitleResponse(*rated))
}

func (h *TitleHandler) Create(c *gin.Context) {
	var req CreateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	rated, err := h.titleService.Create(service.TitleInput{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		Category:    req.Category,
		Genres:      req.Genre,
	})
	if err != nil {
		respondError(c, titleErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusCreated, toTitleResponse(*rated))
}

func (h *TitleHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrTitleNotFound.Error()})
		return
	}

	var req UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	rated, err := h.titleService.Update(id, service.TitleUpdate{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		Category:    req.Category,
		Genres:      req.Genre,
	})
	if err != nil {
		respondError(c, titleErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, toTitleResponse(*rated))
}

func (h *TitleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrTitleNotFound.Error()})
		return
	}

	if err := h.titleService.Delete(id); err != nil {
		respondError(c, titleErrorStatus(err), err)
		return
	}
	c.Status(http.StatusNoContent)
}

func titleErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrTitleNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidYear),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrGenreNotFound):
		// bad slug or year references in a write payload are client errors
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
