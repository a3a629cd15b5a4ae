package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/vasiliy-maslov/ai-commerce/internal/order"
)

type OrderItemRequest struct {
	ProductID   uint64          `json:"product_id" validate:"required"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity" validate:"required,min=1"`
	Price       decimal.Decimal `json:"price"`
}

type CreateOrderRequest struct {
	UserID          uint64             `json:"user_id" validate:"required"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	ShippingAddress string             `json:"shipping_address"`
	Status          string             `json:"status,omitempty"` // accepted and ignored, new orders are PENDING
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type OrderHandler struct {
	service  order.Service
	validate *validator.Validate
}

func NewOrderHandler(service order.Service) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: newValidator(),
	}
}

func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Route("/api/orders", func(r chi.Router) {
		r.Get("/", h.handleListOrders)
		r.Post("/", h.handleCreateOrder)
		r.Get("/{id}", h.handleGetOrderByID)
		r.Patch("/{id}/status", h.handleUpdateOrderStatus)
		r.Delete("/{id}", h.handleCancelOrder)
	})
}

func (h *OrderHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	userIDParam := query.Get("user_id")
	if userIDParam == "" {
		userIDParam = query.Get("userId")
	}
	if userIDParam == "" {
		respondWithJSON(w, http.StatusOK, h.service.ListOrders(r.Context()))
		return
	}

	userID, err := strconv.ParseUint(userIDParam, 10, 64)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userIDParam).Msg("Failed to parse user_id query parameter")
		respondWithError(w, http.StatusBadRequest, "Invalid user_id parameter")
		return
	}

	respondWithJSON(w, http.StatusOK, h.service.GetOrdersByUserID(r.Context(), userID))
}

func (h *OrderHandler) handleGetOrderByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	found, err := h.service.GetOrderByID(r.Context(), id)
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to get order"))
		return
	}

	respondWithJSON(w, http.StatusOK, found)
}

func (h *OrderHandler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateOrderRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	items := make([]order.OrderItem, 0, len(requestPayload.Items))
	for _, item := range requestPayload.Items {
		items = append(items, order.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}

	created, err := h.service.CreateOrder(r.Context(), &order.Order{
		UserID:          requestPayload.UserID,
		Items:           items,
		TotalAmount:     requestPayload.TotalAmount,
		ShippingAddress: requestPayload.ShippingAddress,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create order via service")
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to create order"))
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *OrderHandler) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var requestPayload UpdateOrderStatusRequest
	if !decodeAndValidate(w, r, h.validate, &requestPayload) {
		return
	}

	updated, err := h.service.UpdateOrderStatus(r.Context(), id, order.OrderStatus(requestPayload.Status))
	if err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to update order status"))
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

func (h *OrderHandler) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.CancelOrder(r.Context(), id); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), clientMessage(err, "Failed to cancel order"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
