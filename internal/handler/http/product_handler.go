package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/vasiliy-maslov/ai-commerce/internal/product"
	"github.com/vasiliy-maslov/ai-commerce/internal/recommendation"
)

type ProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Brand       string          `json:"brand"`
	Rating      *float64        `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Images      []string        `json:"images" validate:"omitempty,dive,url"`
	ImageURL    string          `json:"image_url" validate:"omitempty,url"`
}

func (req ProductRequest) toProduct() *product.Product {
	images := req.Images
	if len(images) == 0 && req.ImageURL != "" {
		images = []string{req.ImageURL}
	}
	return &product.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		Brand:       req.Brand,
		Rating:      req.Rating,
		Images:      images,
	}
}

type ProductHandler struct {
	products product.Service
	ai       recommendation.Service
	validate *validator.Validate
}

func NewProductHandler(products product.Service, ai recommendation.Service) *ProductHandler {
	return &ProductHandler{
		products: products,
		ai:       ai,
		validate: newValidator(),
	}
}

func (h *ProductHandler) RegisterRoutes(router chi.Router) {
	router.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.handleListProducts)
		r.Post("/", h.handleCreateProduct)
		r.Get("/ai/health", h.handleAIHealth)
		r.Get("/{id}", h.handleGetProduct)
		r.Put("/{id}", h.handleUpdateProduct)
		r.Delete("/{id}", h.handleDeleteProduct)
		r.Get("/{id}/ai-recommendation", h.handleAIRecommendation)
	})
}

// handleListProducts serves the whole catalog, or a filtered view when
// ?category= or ?search= is given. category takes precedence.
func (h *ProductHandler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var products []product.Product
	switch {
	case strings.TrimSpace(query.Get("category")) != "":
		products = h.products.FilterByCategory(r.Context(), query.Get("category"))
	case strings.TrimSpace(query.Get("search")) != "":
		products = h.products.Search(r.Context(), query.Get("search"))
	default:
		products = h.products.ListProducts(r.Context())
	}

	respondWithJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	found, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to get product"))
		return
	}

	respondWithJSON(w, http.StatusOK, found)
}

func (h *ProductHandler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var requestPayload ProductRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	created, err := h.products.CreateProduct(r.Context(), requestPayload.toProduct())
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create product via service")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to create product"))
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *ProductHandler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var requestPayload ProductRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	updated, err := h.products.UpdateProduct(r.Context(), id, requestPayload.toProduct())
	if err != nil {
		log.Warn().Err(err).Uint64("product_id", id).Msg("Failed to update product via service")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to update product"))
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

func (h *ProductHandler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if !h.products.DeleteProduct(r.Context(), id) {
		respondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) handleAIHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.ai.Health())
}

func (h *ProductHandler) handleAIRecommendation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	found, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to get product"))
		return
	}

	rec, err := h.ai.Analyze(r.Context(), *found)
	if err != nil {
		log.Warn().Err(err).Uint64("product_id", id).Stringer("kind", recommendation.KindOf(err)).Msg("AI recommendation failed")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Unable to generate AI recommendation at this time"))
		return
	}

	respondWithJSON(w, http.StatusOK, rec)
}
