package main

import (
	"github.com/Jascfer/allonetoplulugu-sub001/internal/app"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/config"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title           Notes Platform API
// @version         1.0
// @description     Study notes sharing with community, daily questions and gamification.

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if cfg.JWTSecret == config.DefaultJWTSecret || cfg.JWTSecret == "" {
		panic("JWT_SECRET must be set in environment variables")
	}

	gin.SetMode(gin.ReleaseMode)
	log := logger.New()

	deps, err := app.Open(cfg, log)
	if err != nil {
		log.Error("Failed to initialize dependencies: %v", err)
		panic(err)
	}

	if err := app.Run(cfg, log, deps); err != nil {
		panic(err)
	}
}
