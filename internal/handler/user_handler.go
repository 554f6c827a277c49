package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/critiquehub/critique/internal/middleware"
	"github.com/critiquehub/critique/internal/models"
	"github.com/critiquehub/critique/internal/service"
)

// UserHandler serves the admin user-management endpoints and the
// self-service /users/me pair.
type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Role     string `json:"role"`
}

type UpdateUserRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

func (r UpdateUserRequest) toUpdate() service.UserUpdate {
	return service.UserUpdate{
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Bio:       r.Bio,
		Role:      r.Role,
	}
}

func (h *UserHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)
	users, total, err := h.userService.List(c.Query("search"), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}
	c.JSON(http.StatusOK, listResponse(total, users))
}

func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.userService.Create(req.Username, req.Email, models.Role(req.Role))
	if err != nil {
		respondError(c, userErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.GetByUsername(c.Param("username"))
	if err != nil {
		respondError(c, userErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.userService.Update(c.Param("username"), req.toUpdate())
	if err != nil {
		respondError(c, userErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.Delete(c.Param("username")); err != nil {
		respondError(c, userErrorStatus(err), err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me returns the calling user's own profile.
func (h *UserHandler) Me(c *gin.Context) {
	actor := middleware.GetActor(c)
	user, err := h.userService.GetByID(actor.ID)
	if err != nil {
		respondError(c, userErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe edits the calling user's own profile. The service ignores any
// role field, so self-service can never escalate.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	actor := middleware.GetActor(c)
	user, err := h.userService.UpdateProfile(actor.ID, req.toUpdate())
	if err != nil {
		respondError(c, userErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func userErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrReservedUsername),
		errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrInvalidRole):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
