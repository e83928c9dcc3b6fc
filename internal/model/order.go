package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusDraft            OrderStatus = "draft"
	OrderStatusSubmitted        OrderStatus = "submitted"
	OrderStatusAssigned         OrderStatus = "assigned"
	OrderStatusShoppingStarted  OrderStatus = "shopping_started"
	OrderStatusShoppingComplete OrderStatus = "shopping_complete"
	OrderStatusOutForDelivery   OrderStatus = "out_for_delivery"
	OrderStatusDelivered        OrderStatus = "delivered"
	OrderStatusCancelled        OrderStatus = "cancelled"
)

// OrderStages is the fixed progression an order moves through; cancelled is not a stage.
var OrderStages = []OrderStatus{
	OrderStatusDraft,
	OrderStatusSubmitted,
	OrderStatusAssigned,
	OrderStatusShoppingStarted,
	OrderStatusShoppingComplete,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

// StageIndex returns the position of s in OrderStages, or -1.
func (s OrderStatus) StageIndex() int {
	for i, st := range OrderStages {
		if st == s {
			return i
		}
	}
	return -1
}

func (s OrderStatus) Valid() bool {
	return s == OrderStatusCancelled || s.StageIndex() >= 0
}

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

type Order struct {
	BaseModel
	UserID              string          `db:"user_id" json:"user_id"`
	Status              OrderStatus     `db:"status" json:"status"`
	TotalItems          int             `db:"total_items" json:"total_items"`
	Subtotal            decimal.Decimal `db:"subtotal" json:"subtotal"`
	ServiceFee          decimal.Decimal `db:"service_fee" json:"service_fee"`
	DeliveryFee         decimal.Decimal `db:"delivery_fee" json:"delivery_fee"`
	Tip                 decimal.Decimal `db:"tip" json:"tip"`
	Total               decimal.Decimal `db:"total" json:"total"`
	DeliveryWindowStart *time.Time      `db:"delivery_window_start" json:"delivery_window_start,omitempty"`
	DeliveryWindowEnd   *time.Time      `db:"delivery_window_end" json:"delivery_window_end,omitempty"`
	DeliveryPIN         *string         `db:"delivery_pin" json:"delivery_pin,omitempty"`
	ShopperID           *string         `db:"shopper_id" json:"shopper_id,omitempty"`
	CancelReason        *string         `db:"cancel_reason" json:"cancel_reason,omitempty"`
	Items               []OrderItem     `db:"-" json:"items"`
}

type OrderItem struct {
	ID             string          `db:"id" json:"id"`
	OrderID        string          `db:"order_id" json:"order_id"`
	ShoppingItemID *string         `db:"shopping_item_id" json:"shopping_item_id,omitempty"`
	ProductName    string          `db:"product_name" json:"product_name"`
	Barcode        *string         `db:"barcode" json:"barcode,omitempty"`
	Quantity       float64         `db:"quantity" json:"quantity"`
	Unit           string          `db:"unit" json:"unit"`
	UnitPrice      decimal.Decimal `db:"unit_price" json:"unit_price"`
}

type OrderStatusChange struct {
	ID         string      `db:"id" json:"id"`
	OrderID    string      `db:"order_id" json:"order_id"`
	FromStatus OrderStatus `db:"from_status" json:"from_status"`
	ToStatus   OrderStatus `db:"to_status" json:"to_status"`
	ChangedBy  string      `db:"changed_by" json:"changed_by"`
	ChangedAt  time.Time   `db:"changed_at" json:"changed_at"`
}
