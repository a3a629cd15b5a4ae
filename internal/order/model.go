package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is free text; only PENDING and CANCELLED carry meaning for the
// service.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusCancelled OrderStatus = "CANCELLED"
)

func (os OrderStatus) String() string {
	return string(os)
}

type OrderItem struct {
	ProductID   uint64          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"` // unit price at the time of ordering
}

type Order struct {
	ID              uint64          `json:"id"`
	UserID          uint64          `json:"user_id"`
	Items           []OrderItem     `json:"items"`
	TotalAmount     decimal.Decimal `json:"total_amount"` // taken from the caller, never recomputed
	Status          OrderStatus     `json:"status"`
	ShippingAddress string          `json:"shipping_address"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func setID(o *Order, id uint64) { o.ID = id }

func clone(o Order) Order {
	if o.Items != nil {
		o.Items = append([]OrderItem(nil), o.Items...)
	}
	return o
}
