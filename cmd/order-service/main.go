package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/ai-commerce/internal/config"
	orderHttp "github.com/vasiliy-maslov/ai-commerce/internal/handler/http"
	"github.com/vasiliy-maslov/ai-commerce/internal/logger"
	"github.com/vasiliy-maslov/ai-commerce/internal/metrics"
	"github.com/vasiliy-maslov/ai-commerce/internal/order"
	"github.com/vasiliy-maslov/ai-commerce/internal/server"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Setup("order-service", cfg.Log.Level, cfg.Log.Pretty)
	log.Info().Msg("Order service starting...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry("order")
	orderSvc := order.NewService(order.NewStore())

	router := server.NewRouter(reg)
	orderHttp.NewOrderHandler(orderSvc).RegisterRoutes(router)

	if err := server.Run(ctx, server.New(cfg.Port("8082"), router)); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
	log.Info().Msg("Order service stopped gracefully")
}
