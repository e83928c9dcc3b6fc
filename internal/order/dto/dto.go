package dto

import (
	"time"

	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/shopspring/decimal"
)

type OrderFilters struct {
	UserID    string
	ShopperID string
	Status    model.OrderStatus
	From      *time.Time
	To        *time.Time
	Page      int
	PageSize  int
}

type TimelineStage struct {
	Status  model.OrderStatus `json:"status"`
	Label   string            `json:"label"`
	Reached bool              `json:"reached"`
	Current bool              `json:"current"`
	At      *time.Time        `json:"at,omitempty"`
}

// Timeline is the polling snapshot of an order. PollAfterSeconds is 0 once the
// order can no longer change.
type Timeline struct {
	OrderID          string            `json:"order_id"`
	Status           model.OrderStatus `json:"status"`
	Cancelled        bool              `json:"cancelled"`
	Stages           []TimelineStage   `json:"stages"`
	DeliveryPIN      *string           `json:"delivery_pin,omitempty"`
	PollAfterSeconds int               `json:"poll_after_seconds"`
}

type Quote struct {
	TotalItems  int
	Subtotal    decimal.Decimal
	ServiceFee  decimal.Decimal
	DeliveryFee decimal.Decimal
	Tip         decimal.Decimal
	Total       decimal.Decimal
}

type CreateOrderInput struct {
	UserID              string          `json:"-"`
	ItemIDs             []string        `json:"item_ids"`
	Tip                 decimal.Decimal `json:"tip"`
	DeliveryWindowStart *time.Time      `json:"delivery_window_start"`
	DeliveryWindowEnd   *time.Time      `json:"delivery_window_end"`
}

type CancelInput struct {
	UserID string `json:"-"`
	ID     string `json:"-"`
	Reason string `json:"reason"`
}

type TransitionInput struct {
	ID        string            `json:"-"`
	Actor     string            `json:"-"`
	To        model.OrderStatus `json:"to"`
	ShopperID string            `json:"shopper_id"`
}

type ConfirmDeliveryInput struct {
	ID    string `json:"-"`
	Actor string `json:"-"`
	PIN   string `json:"pin"`
}
