package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/ai-commerce/internal/config"
	userHttp "github.com/vasiliy-maslov/ai-commerce/internal/handler/http"
	"github.com/vasiliy-maslov/ai-commerce/internal/logger"
	"github.com/vasiliy-maslov/ai-commerce/internal/metrics"
	"github.com/vasiliy-maslov/ai-commerce/internal/server"
	userService "github.com/vasiliy-maslov/ai-commerce/internal/user"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Setup("user-service", cfg.Log.Level, cfg.Log.Pretty)
	log.Info().Msg("User service starting...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry("user")
	userSvc := userService.NewService(userService.NewStore(), userService.NewBcryptHasher(cfg.Auth.BcryptCost))

	router := server.NewRouter(reg)
	userHttp.NewUserHandler(userSvc).RegisterRoutes(router)

	if err := server.Run(ctx, server.New(cfg.Port("8083"), router)); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
	log.Info().Msg("User service stopped gracefully")
}
