package model

import "time"

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
)

func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityNormal
}

type PurchaseRecord struct {
	PurchasedAt time.Time `json:"purchased_at"`
	Quantity    float64   `json:"quantity"`
	Store       string    `json:"store,omitempty"`
	OrderID     string    `json:"order_id,omitempty"`
}

// ShoppingItem is one product a user tracks, either stocked at home, needed on
// the list, or both over its lifetime.
type ShoppingItem struct {
	BaseModel
	UserID          string                   `db:"user_id" json:"user_id"`
	ProductName     string                   `db:"product_name" json:"product_name"`
	Brand           string                   `db:"brand" json:"brand"`
	Category        string                   `db:"category" json:"category"`
	Quantity        float64                  `db:"quantity" json:"quantity"`
	Unit            string                   `db:"unit" json:"unit"`
	Priority        Priority                 `db:"priority" json:"priority"`
	Needed          bool                     `db:"needed" json:"needed"`
	InStock         bool                     `db:"in_stock" json:"in_stock"`
	Barcode         *string                  `db:"barcode" json:"barcode,omitempty"`
	ExpiresAt       *time.Time               `db:"expires_at" json:"expires_at,omitempty"`
	PurchaseHistory JSONList[PurchaseRecord] `db:"purchase_history" json:"purchase_history"`
}

// IsOrphaned reports the inconsistent state left behind when a depletion event and
// the matching list update fell out of step: no stock, not needed, nothing left.
func (i *ShoppingItem) IsOrphaned() bool {
	return !i.InStock && !i.Needed && i.Quantity == 0
}

type MovementKind string

const (
	MovementScan     MovementKind = "scan"
	MovementAdd      MovementKind = "add"
	MovementNeeded   MovementKind = "needed"
	MovementPurchase MovementKind = "purchase"
	MovementConsume  MovementKind = "consume"
	MovementRepair   MovementKind = "repair"
)

// ItemMovement is the audit row written alongside every stock change of a
// shopping item.
type ItemMovement struct {
	ID             string       `db:"id" json:"id"`
	ItemID         string       `db:"item_id" json:"item_id"`
	UserID         string       `db:"user_id" json:"user_id"`
	Kind           MovementKind `db:"kind" json:"kind"`
	QuantityChange float64      `db:"quantity_change" json:"quantity_change"`
	QuantityBefore float64      `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  float64      `db:"quantity_after" json:"quantity_after"`
	ReferenceID    *string      `db:"reference_id" json:"reference_id,omitempty"`
	Notes          string       `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
}
