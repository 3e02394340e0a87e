package main

import (
	"log"
	"net/http"

	_ "taskman/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"taskman/internal/auth"
	"taskman/internal/cache"
	"taskman/internal/config"
	"taskman/internal/db"
	"taskman/internal/handler"
	"taskman/internal/model"
	"taskman/internal/repository"
	"taskman/internal/router"
	"taskman/internal/service"
)

// @title Task Manager API
// @version 1.0
// @description API for managing tasks with authentication
// @BasePath /
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

	if err := gormDB.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	authenticator := auth.NewAuthenticator(jwtService, userRepo)

	// Initialize services
	userService := service.NewUserService(userRepo, jwtService)
	taskService := service.NewTaskService(taskRepo, userRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService)
	userHandler := handler.NewUserHandler(userService)
	taskHandler := handler.NewTaskHandler(taskService)

	// Register routes
	router.Register(e, cfg, authenticator, authHandler, userHandler, taskHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
