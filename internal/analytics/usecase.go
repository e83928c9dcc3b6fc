package analytics

import (
	"context"

	"github.com/fekuna/wlpl-service/internal/analytics/dto"
	decisiondto "github.com/fekuna/wlpl-service/internal/decision/dto"
	perkdto "github.com/fekuna/wlpl-service/internal/perk/dto"
)

type UseCase interface {
	Summary(ctx context.Context, r dto.Range) (*dto.Summary, error)
	UserAnalytics(ctx context.Context, userID string, r dto.Range) (*dto.UserAnalytics, error)
}

type DecisionStats interface {
	Stats(ctx context.Context, r decisiondto.Range) (*decisiondto.Stats, error)
}

type RedemptionCounter interface {
	CountRedemptions(ctx context.Context, r perkdto.Range) (int, error)
}
