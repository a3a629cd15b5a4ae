package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/vasiliy-maslov/ai-commerce/internal/recommendation"
)

const (
	defaultCatalogURL     = "https://dummyjson.com/products?limit=30"
	defaultCatalogTimeout = 10 * time.Second
	defaultBcryptCost     = 10
)

type Config struct {
	App struct {
		Port string
	}
	Log struct {
		Level  string
		Pretty bool
	}
	Catalog struct {
		URL     string
		Timeout time.Duration
	}
	AI   recommendation.Config
	Auth struct {
		BcryptCost int
	}
	Gateway struct {
		Port              string
		ProductServiceURL string
		OrderServiceURL   string
		UserServiceURL    string
	}
}

// Load reads an optional .env file at path, then the process environment.
// Variables already set in the environment win over the file.
func Load(path string) (*Config, error) {
	if path != "" {
		err := godotenv.Load(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	var err error
	cfg := &Config{}

	cfg.App.Port = os.Getenv("APP_PORT")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	if cfg.Log.Pretty, err = getBool("LOG_PRETTY", true); err != nil {
		return nil, err
	}

	cfg.Catalog.URL = getEnv("CATALOG_URL", defaultCatalogURL)
	if cfg.Catalog.Timeout, err = getDuration("CATALOG_TIMEOUT", defaultCatalogTimeout); err != nil {
		return nil, err
	}

	cfg.AI.GoogleAPIKey = os.Getenv(recommendation.EnvGoogleAPIKey)
	cfg.AI.GeminiAPIKey = os.Getenv(recommendation.EnvGeminiAPIKey)
	cfg.AI.BaseURL = getEnv("AI_BASE_URL", recommendation.DefaultBaseURL)
	cfg.AI.Model = getEnv("AI_MODEL", recommendation.DefaultModel)
	if cfg.AI.Timeout, err = getDuration("AI_TIMEOUT", recommendation.DefaultTimeout); err != nil {
		return nil, err
	}
	if cfg.AI.RequestsPerSecond, err = getFloat("AI_RATE_LIMIT", 0); err != nil {
		return nil, err
	}
	if cfg.AI.Burst, err = getInt("AI_RATE_BURST", 1); err != nil {
		return nil, err
	}

	if cfg.Auth.BcryptCost, err = getInt("BCRYPT_COST", defaultBcryptCost); err != nil {
		return nil, err
	}

	cfg.Gateway.Port = getEnv("PORT", "8080")
	cfg.Gateway.ProductServiceURL = getEnv("PRODUCT_SERVICE_URL", "http://localhost:8081")
	cfg.Gateway.OrderServiceURL = getEnv("ORDER_SERVICE_URL", "http://localhost:8082")
	cfg.Gateway.UserServiceURL = getEnv("USER_SERVICE_URL", "http://localhost:8083")

	return cfg, nil
}

// Port returns APP_PORT or def when it is unset.
func (c *Config) Port(def string) string {
	if c.App.Port == "" {
		return def
	}
	return c.App.Port
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
