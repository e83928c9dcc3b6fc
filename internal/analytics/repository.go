package analytics

import (
	"context"

	"github.com/fekuna/wlpl-service/internal/analytics/dto"
)

type Repository interface {
	OrdersByStatus(ctx context.Context, r dto.Range) ([]dto.StatusCount, error)
	DeliveredTotals(ctx context.Context, r dto.Range) (*dto.DeliveredTotals, error)
	// ItemsPurchased sums the quantities restocked by purchases in r.
	ItemsPurchased(ctx context.Context, r dto.Range) (int, error)

	WeightEnds(ctx context.Context, userID string, r dto.Range) (*dto.WeightEnds, error)
	MealTotals(ctx context.Context, userID string, r dto.Range) (*dto.MealTotals, error)
	StepTotals(ctx context.Context, userID string, r dto.Range) (*dto.StepTotals, error)
}
