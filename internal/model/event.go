package model

const (
	EventItemConsumed       = "ItemConsumed"
	EventOrderDelivered     = "OrderDelivered"
	EventOrderStatusChanged = "OrderStatusChanged"
	EventPerkRedeemed       = "PerkRedeemed"
)

type ItemConsumedPayload struct {
	UserID   string  `json:"user_id"`
	ItemID   string  `json:"item_id"`
	Quantity float64 `json:"quantity"`
	All      bool    `json:"all,omitempty"`
	Reason   string  `json:"reason,omitempty"`
}

type DeliveredLine struct {
	ShoppingItemID string  `json:"shopping_item_id,omitempty"`
	ProductName    string  `json:"product_name"`
	Quantity       float64 `json:"quantity"`
}

type OrderDeliveredPayload struct {
	OrderID string          `json:"order_id"`
	UserID  string          `json:"user_id"`
	Items   []DeliveredLine `json:"items"`
}

type OrderStatusChangedPayload struct {
	OrderID string      `json:"order_id"`
	UserID  string      `json:"user_id"`
	From    OrderStatus `json:"from"`
	To      OrderStatus `json:"to"`
	Actor   string      `json:"actor,omitempty"`
}

type PerkRedeemedPayload struct {
	PerkID       string `json:"perk_id"`
	RedemptionID string `json:"redemption_id"`
	UserID       string `json:"user_id"`
	Sponsor      string `json:"sponsor"`
	WebhookURL   string `json:"webhook_url"`
}
