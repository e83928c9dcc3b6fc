package dashboard

import (
	"context"
	"time"

	"github.com/fekuna/wlpl-service/internal/model"
)

type Repository interface {
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	UpsertProfile(ctx context.Context, p *model.Profile) error

	// RecentWeights returns up to limit logs, newest first.
	RecentWeights(ctx context.Context, userID string, limit int) ([]model.WeightLog, error)
	MealsBetween(ctx context.Context, userID string, from, to time.Time) ([]model.MealLog, error)
	StepsOn(ctx context.Context, userID string, day time.Time) (*model.StepLog, error)
	// LogDays returns the distinct days since since on which the user logged anything.
	LogDays(ctx context.Context, userID string, since time.Time) ([]time.Time, error)

	AddWeight(ctx context.Context, w *model.WeightLog) error
	AddMeal(ctx context.Context, m *model.MealLog) error
	UpsertSteps(ctx context.Context, s *model.StepLog) error
}
