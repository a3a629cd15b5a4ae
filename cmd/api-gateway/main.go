package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/ai-commerce/internal/config"
	"github.com/vasiliy-maslov/ai-commerce/internal/gateway"
	"github.com/vasiliy-maslov/ai-commerce/internal/logger"
	"github.com/vasiliy-maslov/ai-commerce/internal/metrics"
	"github.com/vasiliy-maslov/ai-commerce/internal/server"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Setup("api-gateway", cfg.Log.Level, cfg.Log.Pretty)
	log.Info().
		Str("product_service_url", cfg.Gateway.ProductServiceURL).
		Str("order_service_url", cfg.Gateway.OrderServiceURL).
		Str("user_service_url", cfg.Gateway.UserServiceURL).
		Msg("API gateway starting...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	router := server.NewRouter(metrics.NewRegistry("gateway"))
	err = gateway.RegisterRoutes(router, gateway.Upstreams{
		Products: cfg.Gateway.ProductServiceURL,
		Orders:   cfg.Gateway.OrderServiceURL,
		Users:    cfg.Gateway.UserServiceURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure gateway routes")
	}

	if err := server.Run(ctx, server.New(cfg.Gateway.Port, router)); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
	log.Info().Msg("API gateway stopped gracefully")
}
