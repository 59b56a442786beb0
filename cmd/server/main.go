package main

import (
	"context"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"jobtrack/internal/auth"
	"jobtrack/internal/cache"
	"jobtrack/internal/config"
	"jobtrack/internal/db"
	"jobtrack/internal/handler"
	"jobtrack/internal/model"
	"jobtrack/internal/repository"
	"jobtrack/internal/router"
	"jobtrack/internal/service"
)

// @title Jobtrack API
// @version 1.0
// @description Job tracking API connecting contractors and homeowners: job listings, task checklists and per-job chat.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Job{},
		&model.JobTask{},
		&model.JobChatMessage{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.Printf("redis unreachable, refresh tokens disabled: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	jobRepo := repository.NewJobRepository(gormDB)
	messageRepo := repository.NewJobChatMessageRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	jobService := service.NewJobService(jobRepo)
	chatService := service.NewJobChatService(messageRepo, jobRepo)
	userService := service.NewUserService(userRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	jobHandler := handler.NewJobHandler(jobService)
	chatHandler := handler.NewJobChatHandler(chatService)
	userHandler := handler.NewUserHandler(userService)

	// Register routes
	router.Register(
		e,
		cfg,
		userRepo,
		authHandler,
		jobHandler,
		chatHandler,
		userHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
