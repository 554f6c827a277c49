package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/critiquehub/critique/internal/config"
	"github.com/critiquehub/critique/internal/database"
	"github.com/critiquehub/critique/internal/handler"
	"github.com/critiquehub/critique/internal/mailer"
	"github.com/critiquehub/critique/internal/middleware"
	"github.com/critiquehub/critique/internal/repository"
	"github.com/critiquehub/critique/internal/service"
	"github.com/critiquehub/critique/pkg/logger"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.Environment == "development"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	database.Connect(cfg)
	database.Migrate()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	smtpMailer := mailer.NewSMTPMailer(cfg)

	userRepo := repository.NewUserRepository(database.DB)
	codeRepo := repository.NewCodeRepository(database.DB)
	categoryRepo := repository.NewCategoryRepository(database.DB)
	genreRepo := repository.NewGenreRepository(database.DB)
	titleRepo := repository.NewTitleRepository(database.DB)
	reviewRepo := repository.NewReviewRepository(database.DB)
	commentRepo := repository.NewCommentRepository(database.DB)

	authService := service.NewAuthService(userRepo, codeRepo, smtpMailer, cfg.JWTSecret, cfg.JWTExpiry, cfg.CodeTTL)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	genreService := service.NewGenreService(genreRepo)
	titleService := service.NewTitleService(titleRepo, categoryRepo, genreRepo)
	reviewService := service.NewReviewService(reviewRepo)
	commentService := service.NewCommentService(commentRepo, reviewRepo)

	authLimiter := middleware.NewRateLimiter(redisClient, middleware.RateLimiterConfig{
		MaxRequests: cfg.RateLimitMaxRequests,
		Window:      cfg.RateLimitWindow,
		BlockTime:   cfg.RateLimitBlockTime,
	})

	router := gin.Default()
	handler.RegisterRoutes(router, handler.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(userService),
		Category: handler.NewCategoryHandler(categoryService),
		Genre:    handler.NewGenreHandler(genreService),
		Title:    handler.NewTitleHandler(titleService),
		Review:   handler.NewReviewHandler(reviewService),
		Comment:  handler.NewCommentHandler(commentService),
	}, handler.RouterOptions{
		JWTSecret:   cfg.JWTSecret,
		AuthLimiter: authLimiter.Middleware(),
	})

	log.Printf("Server starting on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
