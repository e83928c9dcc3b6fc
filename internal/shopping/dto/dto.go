package dto

import (
	"time"

	"github.com/fekuna/wlpl-service/internal/model"
)

type ItemFilters struct {
	UserID   string
	Needed   *bool
	InStock  *bool
	Category string
	Page     int
	PageSize int
}

type ScanOutcome string

const (
	OutcomePromptMarkNeeded ScanOutcome = "prompt_mark_needed"
	OutcomeAlreadyNeeded    ScanOutcome = "already_needed"
	OutcomeNeedsExpiration  ScanOutcome = "needs_expiration"
	OutcomeAddedToInventory ScanOutcome = "added_to_inventory"
)

// ScanResult carries the toast message for the outcome. Suggested holds the
// item that would be added once an expiration date is supplied.
type ScanResult struct {
	Outcome    ScanOutcome         `json:"outcome"`
	MatchType  string              `json:"match_type"`
	Message    string              `json:"message"`
	Perishable bool                `json:"perishable"`
	Item       *model.ShoppingItem `json:"item,omitempty"`
	Suggested  *model.ShoppingItem `json:"suggested,omitempty"`
}

type ItemResult struct {
	Item    *model.ShoppingItem `json:"item"`
	Message string              `json:"message"`
}

type RepairResult struct {
	Repaired int                  `json:"repaired"`
	Items    []model.ShoppingItem `json:"items"`
	Message  string               `json:"message"`
}

type ScanInput struct {
	UserID    string     `json:"-"`
	Barcode   string     `json:"barcode"`
	Name      string     `json:"name"`
	Brand     string     `json:"brand"`
	Category  string     `json:"category"`
	ExpiresAt *time.Time `json:"expires_at"`
	Store     string     `json:"store"`
}

type AddItemInput struct {
	UserID      string         `json:"-"`
	ProductName string         `json:"product_name"`
	Brand       string         `json:"brand"`
	Category    string         `json:"category"`
	Quantity    float64        `json:"quantity"`
	Unit        string         `json:"unit"`
	Priority    model.Priority `json:"priority"`
	Barcode     string         `json:"barcode"`
}

type MarkNeededInput struct {
	UserID   string         `json:"-"`
	ID       string         `json:"-"`
	Priority model.Priority `json:"priority"`
}

type PurchaseInput struct {
	UserID   string  `json:"-"`
	ID       string  `json:"-"`
	Quantity float64 `json:"quantity"`
	Store    string  `json:"store"`
	OrderID  string  `json:"-"`
}

// ConsumeInput takes Quantity units off the stock. All uses up whatever is left
// and is the only way to consume without naming a quantity.
type ConsumeInput struct {
	UserID   string  `json:"-"`
	ID       string  `json:"-"`
	Quantity float64 `json:"quantity"`
	All      bool    `json:"all"`
	Reason   string  `json:"reason"`
}
