package dashboard

import (
	"context"

	"github.com/fekuna/wlpl-service/internal/dashboard/dto"
	"github.com/fekuna/wlpl-service/internal/model"
)

type UseCase interface {
	Dashboard(ctx context.Context, userID string) (*dto.Dashboard, error)
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, input *dto.ProfileInput) (*model.Profile, error)

	LogWeight(ctx context.Context, input *dto.LogWeightInput) (*model.WeightLog, error)
	LogMeal(ctx context.Context, input *dto.LogMealInput) (*model.MealLog, error)
	LogSteps(ctx context.Context, input *dto.LogStepsInput) (*model.StepLog, error)
}
