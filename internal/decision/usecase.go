package decision

import (
	"context"

	"github.com/fekuna/wlpl-service/internal/decision/dto"
)

type UseCase interface {
	List(ctx context.Context, filters *dto.DecisionFilters) ([]dto.DecisionView, int, error)
	Get(ctx context.Context, id string) (*dto.DecisionView, error)
	Review(ctx context.Context, input *dto.ReviewInput) (*dto.DecisionView, error)
	Stats(ctx context.Context, r dto.Range) (*dto.Stats, error)
}
