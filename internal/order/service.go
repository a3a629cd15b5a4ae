package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/ai-commerce/internal/store"
)

var (
	ErrNotFound                = errors.New("order not found")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
	ErrInvalidOrder            = errors.New("invalid order")
)

type Service interface {
	ListOrders(ctx context.Context) []Order
	GetOrdersByUserID(ctx context.Context, userID uint64) []Order
	GetOrderByID(ctx context.Context, id uint64) (*Order, error)
	CreateOrder(ctx context.Context, orderInput *Order) (*Order, error)
	UpdateOrderStatus(ctx context.Context, id uint64, newStatus OrderStatus) (*Order, error)
	CancelOrder(ctx context.Context, id uint64) error
}

type Option func(*service)

// WithClock replaces time.Now as the source of created/updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

type service struct {
	orders *store.Store[Order]
	now    func() time.Time
}

// NewStore returns an empty order store.
func NewStore() *store.Store[Order] {
	return store.New(setID, store.WithClone(clone))
}

func NewService(orders *store.Store[Order], opts ...Option) Service {
	s := &service{
		orders: orders,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) ListOrders(ctx context.Context) []Order {
	return s.orders.List()
}

// GetOrdersByUserID returns the user's orders, most recent first. Orders
// created at the same instant keep their creation order.
func (s *service) GetOrdersByUserID(ctx context.Context, userID uint64) []Order {
	orders := s.orders.Filter(func(o Order) bool {
		return o.UserID == userID
	})
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders
}

func (s *service) GetOrderByID(ctx context.Context, id uint64) (*Order, error) {
	o, ok := s.orders.Get(id)
	if !ok {
		log.Warn().Uint64("order_id", id).Msg("service: order not found by id")
		return nil, ErrNotFound
	}
	return &o, nil
}

func (s *service) CreateOrder(ctx context.Context, orderInput *Order) (*Order, error) {
	if len(orderInput.Items) == 0 {
		log.Warn().Uint64("user_id", orderInput.UserID).Msg("service: attempt to create order with no items")
		return nil, fmt.Errorf("%w: order must contain at least one item", ErrInvalidOrder)
	}

	for _, item := range orderInput.Items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity for product %d must be greater than zero", ErrInvalidOrder, item.ProductID)
		}
		if item.Price.IsNegative() {
			return nil, fmt.Errorf("%w: price for product %d cannot be negative", ErrInvalidOrder, item.ProductID)
		}
	}
	if orderInput.TotalAmount.IsNegative() {
		return nil, fmt.Errorf("%w: total amount cannot be negative", ErrInvalidOrder)
	}

	now := s.now()
	candidate := *orderInput
	candidate.Status = StatusPending
	candidate.CreatedAt = now
	candidate.UpdatedAt = now

	created, outcome := s.orders.Insert(candidate)
	if outcome != store.Applied {
		log.Error().Stringer("outcome", outcome).Uint64("user_id", candidate.UserID).Msg("service: order store refused insert")
		return nil, fmt.Errorf("service: failed to create order: %s", outcome)
	}

	log.Info().Uint64("order_id", created.ID).Uint64("user_id", created.UserID).Msg("service: order created")

	return &created, nil
}

// UpdateOrderStatus moves the order to any status, including back from
// CANCELLED.
func (s *service) UpdateOrderStatus(ctx context.Context, id uint64, newStatus OrderStatus) (*Order, error) {
	var oldStatus OrderStatus
	updated, outcome := s.orders.Update(id, func(o *Order) bool {
		oldStatus = o.Status
		o.Status = newStatus
		o.UpdatedAt = s.now()
		return true
	})
	if outcome == store.NotFound {
		log.Warn().Uint64("order_id", id).Stringer("new_status", newStatus).Msg("service: order not found, cannot update status")
		return nil, ErrNotFound
	}

	log.Info().Uint64("order_id", id).Stringer("old_status", oldStatus).Stringer("new_status", newStatus).Msg("service: order status updated")

	return &updated, nil
}

// CancelOrder succeeds only for a PENDING order. The status check and the
// write happen under the same store lock, so a second cancel always fails.
func (s *service) CancelOrder(ctx context.Context, id uint64) error {
	current, outcome := s.orders.Update(id, func(o *Order) bool {
		if o.Status != StatusPending {
			return false
		}
		o.Status = StatusCancelled
		o.UpdatedAt = s.now()
		return true
	})

	switch outcome {
	case store.NotFound:
		log.Warn().Uint64("order_id", id).Msg("service: order not found, cannot cancel")
		return ErrNotFound
	case store.Rejected:
		log.Warn().Uint64("order_id", id).Stringer("current_status", current.Status).Msg("service: only pending orders can be cancelled")
		return fmt.Errorf("%w: cannot cancel order in status %s", ErrInvalidStatusTransition, current.Status)
	}

	log.Info().Uint64("order_id", id).Msg("service: order cancelled")
	return nil
}
