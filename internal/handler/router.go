package handler

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/critiquehub/critique/internal/middleware"
)

// Handlers bundles every handler the API mounts.
type Handlers struct {
	Auth     *AuthHandler
	User     *UserHandler
	Category *CategoryHandler
	Genre    *GenreHandler
	Title    *TitleHandler
	Review   *ReviewHandler
	Comment  *CommentHandler
}

// RouterOptions carries the cross-cutting pieces the route table needs.
// AuthLimiter is optional; when nil the auth endpoints run unthrottled.
type RouterOptions struct {
	JWTSecret   string
	AuthLimiter gin.HandlerFunc
}

// RegisterRoutes mounts the full API under /api/v1.
//
// Reads are public. Writes require a token; reference data (categories,
// genres, titles) and user management require admin on top of that.
func RegisterRoutes(router *gin.Engine, h Handlers, opts RouterOptions) {
	router.Use(cors.Default())

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	if opts.AuthLimiter != nil {
		auth.Use(opts.AuthLimiter)
	}
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/token", h.Auth.Token)
	}

	public := v1.Group("")
	{
		public.GET("/categories", h.Category.List)
		public.GET("/genres", h.Genre.List)
		public.GET("/titles", h.Title.List)
		public.GET("/titles/:title_id", h.Title.Get)
		public.GET("/titles/:title_id/reviews", h.Review.List)
		public.GET("/titles/:title_id/reviews/:review_id", h.Review.Get)
		public.GET("/titles/:title_id/reviews/:review_id/comments", h.Comment.List)
		public.GET("/titles/:title_id/reviews/:review_id/comments/:comment_id", h.Comment.Get)
	}

	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware(opts.JWTSecret))
	{
		authed.GET("/users/me", h.User.Me)
		authed.PATCH("/users/me", h.User.UpdateMe)

		authed.POST("/titles/:title_id/reviews", h.Review.Create)
		authed.PATCH("/titles/:title_id/reviews/:review_id", h.Review.Update)
		authed.DELETE("/titles/:title_id/reviews/:review_id", h.Review.Delete)

		authed.POST("/titles/:title_id/reviews/:review_id/comments", h.Comment.Create)
		authed.PATCH("/titles/:title_id/reviews/:review_id/comments/:comment_id", h.Comment.Update)
		authed.DELETE("/titles/:title_id/reviews/:review_id/comments/:comment_id", h.Comment.Delete)
	}

	admin := v1.Group("")
	admin.Use(middleware.AuthMiddleware(opts.JWTSecret), middleware.AdminMiddleware())
	{
		admin.GET("/users", h.User.List)
		admin.POST("/users", h.User.Create)
		admin.GET("/users/:username", h.User.Get)
		admin.PATCH("/users/:username", h.User.Update)
		admin.DELETE("/users/:username", h.User.Delete)

		admin.POST("/categories", h.Category.Create)
		admin.DELETE("/categories/:slug", h.Category.Delete)

		admin.POST("/genres", h.Genre.Create)
		admin.DELETE("/genres/:slug", h.Genre.Delete)

		admin.POST("/titles", h.Title.Create)
		admin.PATCH("/titles/:title_id", h.Title.Update)
		admin.DELETE("/titles/:title_id", h.Title.Delete)
	}
}
