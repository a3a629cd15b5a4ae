package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/ai-commerce/internal/config"
	productHttp "github.com/vasiliy-maslov/ai-commerce/internal/handler/http"
	"github.com/vasiliy-maslov/ai-commerce/internal/logger"
	"github.com/vasiliy-maslov/ai-commerce/internal/metrics"
	"github.com/vasiliy-maslov/ai-commerce/internal/product"
	"github.com/vasiliy-maslov/ai-commerce/internal/recommendation"
	"github.com/vasiliy-maslov/ai-commerce/internal/server"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Setup("product-service", cfg.Log.Level, cfg.Log.Pretty)
	log.Info().Msg("Product service starting...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry("product")

	productSvc := product.NewService(product.NewStore())
	product.Bootstrap(ctx, productSvc, product.NewHTTPSource(cfg.Catalog.URL, cfg.Catalog.Timeout))

	aiSvc := recommendation.NewService(cfg.AI, recommendation.WithRecorder(reg))

	router := server.NewRouter(reg)
	productHttp.NewProductHandler(productSvc, aiSvc).RegisterRoutes(router)

	if err := server.Run(ctx, server.New(cfg.Port("8081"), router)); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
	log.Info().Msg("Product service stopped gracefully")
}
