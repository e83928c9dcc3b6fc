package dto

import (
	"time"

	"github.com/fekuna/wlpl-service/internal/model"
)

type PerkFilters struct {
	Enabled  *bool
	Tier     model.PerkTier
	Page     int
	PageSize int
}

type Range struct {
	From *time.Time
	To   *time.Time
}

type PerkInput struct {
	ID             string               `json:"-"`
	Sponsor        string               `json:"sponsor"`
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	Tier           model.PerkTier       `json:"tier"`
	Redemption     model.RedemptionType `json:"redemption"`
	Code           string               `json:"code"`
	Link           string               `json:"link"`
	WebhookURL     string               `json:"webhook_url"`
	TotalAvailable int                  `json:"total_available"`
	Enabled        bool                 `json:"enabled"`
	ExpiresAt      *time.Time           `json:"expires_at"`
}

type SetEnabledInput struct {
	Enabled bool `json:"enabled"`
}

// AdminPerk exposes the secret fields hidden from consumers.
type AdminPerk struct {
	model.Perk
	Code       *string `json:"code,omitempty"`
	WebhookURL *string `json:"webhook_url,omitempty"`
}

type RedemptionResult struct {
	Redemption model.PerkRedemption `json:"redemption"`
	Perk       model.Perk           `json:"perk"`
	Code       string               `json:"code,omitempty"`
	Link       string               `json:"link,omitempty"`
	Message    string               `json:"message"`
}
