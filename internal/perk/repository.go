package perk

import (
	"context"
	"time"

	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/internal/perk/dto"
)

type Repository interface {
	Create(ctx context.Context, p *model.Perk) error
	FindByID(ctx context.Context, id string) (*model.Perk, error)
	FindAll(ctx context.Context, filters *dto.PerkFilters) ([]model.Perk, int, error)
	Update(ctx context.Context, p *model.Perk) error

	// FindAvailable returns enabled, unexpired perks with stock left in any of tiers.
	FindAvailable(ctx context.Context, tiers []model.PerkTier, now time.Time) ([]model.Perk, error)

	HasRedeemed(ctx context.Context, perkID, userID string) (bool, error)
	// Redeem decrements stock and records r in one transaction. It reports
	// false when no stock was left.
	Redeem(ctx context.Context, r *model.PerkRedemption) (bool, error)
	CountRedemptions(ctx context.Context, r dto.Range) (int, error)
}
