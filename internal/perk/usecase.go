package perk

import (
	"context"

	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/internal/perk/dto"
)

type UseCase interface {
	ListPerks(ctx context.Context, filters *dto.PerkFilters) ([]dto.AdminPerk, int, error)
	CreatePerk(ctx context.Context, input *dto.PerkInput) (*dto.AdminPerk, error)
	UpdatePerk(ctx context.Context, input *dto.PerkInput) (*dto.AdminPerk, error)
	SetEnabled(ctx context.Context, id string, enabled bool) (*dto.AdminPerk, error)

	ListAvailable(ctx context.Context, userID string) ([]model.Perk, error)
	Redeem(ctx context.Context, userID, perkID string) (*dto.RedemptionResult, error)
}

type TierSource interface {
	TierOf(ctx context.Context, userID string) (model.PerkTier, error)
}

type Publisher interface {
	PublishJSON(ctx context.Context, topic, key string, v any) error
}
