package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/critiquehub/critique/internal/permission"
	"github.com/critiquehub/critique/internal/utils"
)

const actorKey = "actor"

// AuthMiddleware rejects requests without a valid bearer token and stores
// the resulting actor in the context for handlers.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization format. Use: Bearer <token>",
			})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(actorKey, permission.Actor{
			Authenticated: true,
			ID:            claims.UserID,
			Role:          claims.Role,
		})
		c.Next()
	}
}

// AdminMiddleware gates a route group to admins. Must run after
// AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !permission.IsAdmin(GetActor(c)) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetActor returns the request's actor, anonymous when no token was
// presented.
func GetActor(c *gin.Context) permission.Actor {
	value, exists := c.Get(actorKey)
	if !exists {
		return permission.Anonymous
	}
	actor, ok := value.(permission.Actor)
	if !ok {
		return permission.Anonymous
	}
	return actor
}
