package decision

import (
	"context"

	"github.com/fekuna/wlpl-service/internal/decision/dto"
	"github.com/fekuna/wlpl-service/internal/model"
)

type Repository interface {
	FindByID(ctx context.Context, id string) (*model.AIDecision, error)
	FindAll(ctx context.Context, filters *dto.DecisionFilters) ([]model.AIDecision, int, error)

	// SaveReview stores the review only while the decision is still unreviewed.
	SaveReview(ctx context.Context, d *model.AIDecision) (bool, error)

	// CountByStatusAndBand groups decisions created within r.
	CountByStatusAndBand(ctx context.Context, r dto.Range) ([]dto.CountRow, error)
}
