package model

import "time"

type PerkTier string

const (
	PerkTierBronze   PerkTier = "bronze"
	PerkTierSilver   PerkTier = "silver"
	PerkTierChampion PerkTier = "champion"
)

// Rank orders tiers; unknown tiers rank below bronze.
func (t PerkTier) Rank() int {
	switch t {
	case PerkTierBronze:
		return 1
	case PerkTierSilver:
		return 2
	case PerkTierChampion:
		return 3
	}
	return 0
}

type RedemptionType string

const (
	RedemptionCode    RedemptionType = "code"
	RedemptionLink    RedemptionType = "link"
	RedemptionWebhook RedemptionType = "webhook"
)

type Perk struct {
	BaseModel
	Sponsor        string         `db:"sponsor" json:"sponsor"`
	Title          string         `db:"title" json:"title"`
	Description    string         `db:"description" json:"description"`
	Tier           PerkTier       `db:"tier" json:"tier"`
	Redemption     RedemptionType `db:"redemption" json:"redemption"`
	Code           *string        `db:"code" json:"-"`
	Link           *string        `db:"link" json:"link,omitempty"`
	WebhookURL     *string        `db:"webhook_url" json:"-"`
	TotalAvailable int            `db:"total_available" json:"total_available"`
	RemainingCount int            `db:"remaining_count" json:"remaining_count"`
	Enabled        bool           `db:"enabled" json:"enabled"`
	ExpiresAt      *time.Time     `db:"expires_at" json:"expires_at,omitempty"`
}

type PerkRedemption struct {
	ID         string    `db:"id" json:"id"`
	PerkID     string    `db:"perk_id" json:"perk_id"`
	UserID     string    `db:"user_id" json:"user_id"`
	RedeemedAt time.Time `db:"redeemed_at" json:"redeemed_at"`
}
