package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/wlpl-service/internal/dashboard/dto"
	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/pkg/apperr"
	"github.com/fekuna/wlpl-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDown = errors.New("connection refused")

type memRepo struct {
	profile *model.Profile
	weights []model.WeightLog
	meals   []model.MealLog
	steps   map[string]model.StepLog
	days    []time.Time

	failing map[string]bool
}

func newMemRepo() *memRepo {
	return &memRepo{steps: map[string]model.StepLog{}, failing: map[string]bool{}}
}

func (r *memRepo) fail(method string) error {
	if r.failing[method] {
		return errDown
	}
	return nil
}

func (r *memRepo) GetProfile(context.Context, string) (*model.Profile, error) {
	if err := r.fail("GetProfile"); err != nil {
		return nil, err
	}
	if r.profile == nil {
		return nil, nil
	}
	p := *r.profile
	return &p, nil
}

func (r *memRepo) UpsertProfile(_ context.Context, p *model.Profile) error {
	cp := *p
	r.profile = &cp
	return nil
}

func (r *memRepo) RecentWeights(context.Context, string, int) ([]model.WeightLog, error) {
	return r.weights, r.fail("RecentWeights")
}

func (r *memRepo) MealsBetween(_ context.Context, _ string, from, to time.Time) ([]model.MealLog, error) {
	if err := r.fail("MealsBetween"); err != nil {
		return nil, err
	}
	var out []model.MealLog
	for _, m := range r.meals {
		if !m.LoggedAt.Before(from) && m.LoggedAt.Before(to) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memRepo) StepsOn(_ context.Context, _ string, day time.Time) (*model.StepLog, error) {
	if err := r.fail("StepsOn"); err != nil {
		return nil, err
	}
	s, ok := r.steps[day.Format(time.DateOnly)]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *memRepo) LogDays(context.Context, string, time.Time) ([]time.Time, error) {
	return r.days, r.fail("LogDays")
}

func (r *memRepo) AddWeight(_ context.Context, w *model.WeightLog) error {
	r.weights = append([]model.WeightLog{*w}, r.weights...)
	return nil
}

func (r *memRepo) AddMeal(_ context.Context, m *model.MealLog) error {
	r.meals = append(r.meals, *m)
	return nil
}

func (r *memRepo) UpsertSteps(_ context.Context, s *model.StepLog) error {
	r.steps[s.Day.Format(time.DateOnly)] = *s
	return nil
}

var clock = time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC)

func newUseCase(repo *memRepo) *dashboardUseCase {
	uc := NewDashboardUseCase(repo, logger.NewNop()).(*dashboardUseCase)
	uc.now = func() time.Time { return clock }
	return uc
}

func seeded() *memRepo {
	repo := newMemRepo()
	repo.profile = &model.Profile{
		UserID:           "u1",
		StartWeightKg:    90,
		GoalWeightKg:     80,
		DailyCalorieGoal: 2000,
		DailyStepGoal:    10000,
		WidgetPrefs:      model.JSONList[string]{"steps"},
	}
	repo.weights = []model.WeightLog{{WeightKg: 85, LoggedAt: clock.Add(-time.Hour)}}
	repo.meals = []model.MealLog{
		{Title: "Oats", Calories: 500, ProteinG: 20, LoggedAt: clock.Add(-10 * time.Hour)},
		{Title: "Chicken rice", Calories: 700, ProteinG: 40, LoggedAt: clock.Add(-5 * time.Hour)},
		{Title: "Yesterday's pizza", Calories: 900, LoggedAt: clock.AddDate(0, 0, -1)},
	}
	repo.steps["2026-03-10"] = model.StepLog{Steps: 4000}
	repo.days = []time.Time{clock, clock.AddDate(0, 0, -1)}
	return repo
}

func TestDashboardAllSections(t *testing.T) {
	uc := newUseCase(seeded())

	d, err := uc.Dashboard(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, d.Warnings)

	require.NotNil(t, d.Weight)
	assert.Equal(t, 85.0, d.Weight.CurrentKg)
	assert.Equal(t, 50.0, d.Weight.Progress)
	assert.Equal(t, "Not enough data", d.Weight.Projection)

	require.NotNil(t, d.Nutrition)
	assert.Equal(t, 1200.0, d.Nutrition.Calories)
	assert.Equal(t, 60.0, d.Nutrition.Progress)
	assert.Equal(t, 60.0, d.Nutrition.ProteinG)
	assert.Len(t, d.Nutrition.Meals, 2)

	require.NotNil(t, d.Steps)
	assert.Equal(t, 40.0, d.Steps.Progress)

	assert.Equal(t, 2, d.Streak)
	assert.Equal(t, "steps", d.Widgets[0])
	assert.Equal(t, []string{"A short walk will get you closer to today's step goal."}, d.Recommendations)
}

func TestDashboardPartialFailure(t *testing.T) {
	repo := seeded()
	repo.failing["StepsOn"] = true
	repo.failing["LogDays"] = true
	uc := newUseCase(repo)

	d, err := uc.Dashboard(context.Background(), "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"steps", "streak"}, d.Warnings)
	assert.Nil(t, d.Steps)
	assert.Equal(t, 0, d.Streak)
	assert.NotNil(t, d.Weight)
	assert.NotNil(t, d.Nutrition)
}

func TestDashboardWithoutProfile(t *testing.T) {
	repo := seeded()
	repo.failing["GetProfile"] = true
	uc := newUseCase(repo)

	d, err := uc.Dashboard(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"profile"}, d.Warnings)
	assert.Nil(t, d.Weight)
	assert.Nil(t, d.Nutrition)
	assert.Equal(t, 2, d.Streak)
	assert.Len(t, d.Widgets, 6)
}

func TestDefaultProfile(t *testing.T) {
	uc := newUseCase(newMemRepo())

	p, err := uc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2000, p.DailyCalorieGoal)
	assert.Equal(t, 10000, p.DailyStepGoal)
	assert.Equal(t, model.PerkTierBronze, p.Tier)

	d, err := uc.Dashboard(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, d.Weight, "no goal set")
	require.NotNil(t, d.Nutrition)
	assert.Equal(t, 0.0, d.Nutrition.Calories)
}

func TestUpdateProfileKeepsTier(t *testing.T) {
	repo := seeded()
	repo.profile.Tier = model.PerkTierChampion
	uc := newUseCase(repo)

	p, err := uc.UpdateProfile(context.Background(), &dto.ProfileInput{UserID: "u1", DisplayName: " Ana ", StartWeightKg: 90, GoalWeightKg: 75})
	require.NoError(t, err)
	assert.Equal(t, "Ana", p.DisplayName)
	assert.Equal(t, model.PerkTierChampion, repo.profile.Tier)
	assert.Equal(t, 2000, repo.profile.DailyCalorieGoal)

	_, err = uc.UpdateProfile(context.Background(), &dto.ProfileInput{UserID: "u1", GoalWeightKg: -1})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestLogging(t *testing.T) {
	repo := newMemRepo()
	uc := newUseCase(repo)
	ctx := context.Background()

	w, err := uc.LogWeight(ctx, &dto.LogWeightInput{UserID: "u1", WeightKg: 82.5})
	require.NoError(t, err)
	assert.Equal(t, clock, w.LoggedAt)

	_, err = uc.LogWeight(ctx, &dto.LogWeightInput{UserID: "u1", WeightKg: 0})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = uc.LogMeal(ctx, &dto.LogMealInput{UserID: "u1", MealType: "brunch", Title: "Eggs"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	_, err = uc.LogMeal(ctx, &dto.LogMealInput{UserID: "u1", MealType: model.MealLunch, Title: "  "})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	m, err := uc.LogMeal(ctx, &dto.LogMealInput{UserID: "u1", MealType: model.MealLunch, Title: "Salad", Calories: 350})
	require.NoError(t, err)
	assert.Equal(t, "Salad", m.Title)

	s, err := uc.LogSteps(ctx, &dto.LogStepsInput{UserID: "u1", Steps: 5000})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), s.Day)

	_, err = uc.LogSteps(ctx, &dto.LogStepsInput{UserID: "u1", Steps: 6000})
	require.NoError(t, err)
	assert.Equal(t, 6000, repo.steps["2026-03-10"].Steps)

	_, err = uc.LogSteps(ctx, &dto.LogStepsInput{UserID: "u1", Steps: 100, Day: "2026-03-11"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	_, err = uc.LogSteps(ctx, &dto.LogStepsInput{UserID: "u1", Steps: 100, Day: "10/03/2026"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}
