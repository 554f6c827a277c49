package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/critiquehub/critique/pkg/logger"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// pagination reads page and page_size query params, clamping both to sane
// bounds.
func pagination(c *gin.Context) (page, pageSize int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if err != nil || pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// listResponse is the envelope for every paginated collection.
func listResponse(count int64, results any) gin.H {
	return gin.H{
		"count":   count,
		"results": results,
	}
}

// respondError writes the error with its mapped status. Unexpected errors
// get a generic body; the detail goes to the log, not the client.
func respondError(c *gin.Context, status int, err error) {
	if status == http.StatusInternalServerError {
		logger.Log.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// pathID parses a numeric path parameter; ok is false for anything that is
// not a positive integer.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
