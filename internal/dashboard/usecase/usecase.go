package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fekuna/wlpl-service/internal/dashboard"
	"github.com/fekuna/wlpl-service/internal/dashboard/dto"
	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/pkg/apperr"
	"github.com/fekuna/wlpl-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultCalorieGoal = 2000
	defaultStepGoal    = 10000
	recentWeightLimit  = 30
	streakLookbackDays = 90
)

type dashboardUseCase struct {
	repo   dashboard.Repository
	logger logger.ZapLogger
	now    func() time.Time
}

func NewDashboardUseCase(repo dashboard.Repository, log logger.ZapLogger) dashboard.UseCase {
	return &dashboardUseCase{
		repo:   repo,
		logger: log,
		now:    time.Now,
	}
}

// Dashboard loads every section concurrently. A failing section is left out
// and reported in Warnings; the rest are still returned.
func (uc *dashboardUseCase) Dashboard(ctx context.Context, userID string) (*dto.Dashboard, error) {
	today := startOfDay(uc.now())

	var (
		profile *model.Profile
		weights []model.WeightLog
		meals   []model.MealLog
		steps   *model.StepLog
		days    []time.Time

		mu       sync.Mutex
		warnings []string
		wg       sync.WaitGroup
	)

	load := func(section string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				uc.logger.Warn("dashboard section failed", zap.String("section", section), zap.String("user_id", userID), zap.Error(err))
				mu.Lock()
				warnings = append(warnings, section)
				mu.Unlock()
			}
		}()
	}

	load("profile", func() (err error) {
		profile, err = uc.profile(ctx, userID)
		return err
	})
	load("weight", func() (err error) {
		weights, err = uc.repo.RecentWeights(ctx, userID, recentWeightLimit)
		return err
	})
	load("nutrition", func() (err error) {
		meals, err = uc.repo.MealsBetween(ctx, userID, today, today.AddDate(0, 0, 1))
		return err
	})
	load("steps", func() (err error) {
		steps, err = uc.repo.StepsOn(ctx, userID, today)
		return err
	})
	load("streak", func() (err error) {
		days, err = uc.repo.LogDays(ctx, userID, today.AddDate(0, 0, -streakLookbackDays))
		return err
	})
	wg.Wait()

	failed := func(section string) bool {
		for _, w := range warnings {
			if w == section {
				return true
			}
		}
		return false
	}

	out := &dto.Dashboard{Profile: profile, Warnings: warnings, Widgets: dashboard.OrderWidgets(nil)}
	var weightPct, caloriePct, stepPct *float64

	if profile != nil {
		out.Widgets = dashboard.OrderWidgets(profile.WidgetPrefs)

		if !failed("weight") {
			out.Weight = weightSummary(profile, weights)
			if out.Weight != nil {
				weightPct = &out.Weight.Progress
			}
		}
		if !failed("nutrition") {
			out.Nutrition = nutritionSummary(profile, meals)
			caloriePct = &out.Nutrition.Progress
		}
		if !failed("steps") {
			s := &dto.StepSummary{Goal: profile.DailyStepGoal}
			if steps != nil {
				s.Steps = steps.Steps
			}
			s.Progress = dashboard.Progress(float64(s.Steps), float64(s.Goal))
			out.Steps = s
			stepPct = &s.Progress
		}
	}
	if !failed("streak") {
		out.Streak = dashboard.Streak(days, today)
	}
	out.Recommendations = dashboard.Recommendations(weightPct, caloriePct, stepPct, out.Streak)

	return out, nil
}

func weightSummary(p *model.Profile, logs []model.WeightLog) *dto.WeightSummary {
	current := p.StartWeightKg
	if len(logs) > 0 {
		current = logs[0].WeightKg
	}
	if current == 0 || p.GoalWeightKg == 0 {
		return nil
	}
	if logs == nil {
		logs = []model.WeightLog{}
	}
	return &dto.WeightSummary{
		CurrentKg:  current,
		GoalKg:     p.GoalWeightKg,
		Progress:   dashboard.WeightProgress(p.StartWeightKg, current, p.GoalWeightKg),
		Projection: dashboard.Projection(logs, p.GoalWeightKg),
		Recent:     logs,
	}
}

func nutritionSummary(p *model.Profile, meals []model.MealLog) *dto.NutritionSummary {
	n := &dto.NutritionSummary{Goal: p.DailyCalorieGoal, Meals: meals}
	if n.Meals == nil {
		n.Meals = []model.MealLog{}
	}
	for _, m := range meals {
		n.Calories += m.Calories
		n.ProteinG += m.ProteinG
		n.CarbsG += m.CarbsG
		n.FatG += m.FatG
	}
	n.Progress = dashboard.Progress(n.Calories, float64(n.Goal))
	return n
}

func (uc *dashboardUseCase) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	return uc.profile(ctx, userID)
}

// profile returns the stored profile, or an unsaved default one for users who
// never set theirs up.
func (uc *dashboardUseCase) profile(ctx context.Context, userID string) (*model.Profile, error) {
	p, err := uc.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &model.Profile{
			UserID:           userID,
			Tier:             model.PerkTierBronze,
			DailyCalorieGoal: defaultCalorieGoal,
			DailyStepGoal:    defaultStepGoal,
			WidgetPrefs:      model.JSONList[string]{},
		}
	}
	return p, nil
}

func (uc *dashboardUseCase) UpdateProfile(ctx context.Context, input *dto.ProfileInput) (*model.Profile, error) {
	const op = "dashboard.UpdateProfile"
	switch {
	case input.StartWeightKg < 0 || input.GoalWeightKg < 0:
		return nil, apperr.Invalid(op, "weights cannot be negative")
	case input.DailyCalorieGoal < 0 || input.DailyStepGoal < 0:
		return nil, apperr.Invalid(op, "daily goals cannot be negative")
	}

	p, err := uc.profile(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	p.DisplayName = strings.TrimSpace(input.DisplayName)
	p.StartWeightKg = input.StartWeightKg
	p.GoalWeightKg = input.GoalWeightKg
	if input.DailyCalorieGoal > 0 {
		p.DailyCalorieGoal = input.DailyCalorieGoal
	}
	if input.DailyStepGoal > 0 {
		p.DailyStepGoal = input.DailyStepGoal
	}
	if input.WidgetPrefs != nil {
		p.WidgetPrefs = input.WidgetPrefs
	}
	p.UpdatedAt = uc.now()

	if err := uc.repo.UpsertProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *dashboardUseCase) LogWeight(ctx context.Context, input *dto.LogWeightInput) (*model.WeightLog, error) {
	if input.WeightKg <= 0 || input.WeightKg > 700 {
		return nil, apperr.Invalid("dashboard.LogWeight", "weight_kg must be between 0 and 700")
	}
	w := &model.WeightLog{
		ID:       uuid.New().String(),
		UserID:   input.UserID,
		WeightKg: input.WeightKg,
		LoggedAt: uc.at(input.LoggedAt),
	}
	if err := uc.repo.AddWeight(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (uc *dashboardUseCase) LogMeal(ctx context.Context, input *dto.LogMealInput) (*model.MealLog, error) {
	const op = "dashboard.LogMeal"
	switch input.MealType {
	case model.MealBreakfast, model.MealLunch, model.MealDinner, model.MealSnack:
	default:
		return nil, apperr.Invalid(op, "meal_type must be breakfast, lunch, dinner or snack")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperr.Invalid(op, "title is required")
	}
	if input.Calories < 0 || input.ProteinG < 0 || input.CarbsG < 0 || input.FatG < 0 {
		return nil, apperr.Invalid(op, "nutrition values cannot be negative")
	}

	m := &model.MealLog{
		ID:       uuid.New().String(),
		UserID:   input.UserID,
		MealType: input.MealType,
		Title:    strings.TrimSpace(input.Title),
		Calories: input.Calories,
		ProteinG: input.ProteinG,
		CarbsG:   input.CarbsG,
		FatG:     input.FatG,
		LoggedAt: uc.at(input.LoggedAt),
	}
	if err := uc.repo.AddMeal(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (uc *dashboardUseCase) LogSteps(ctx context.Context, input *dto.LogStepsInput) (*model.StepLog, error) {
	const op = "dashboard.LogSteps"
	if input.Steps < 0 {
		return nil, apperr.Invalid(op, "steps cannot be negative")
	}

	day := startOfDay(uc.now())
	if input.Day != "" {
		d, err := time.Parse(time.DateOnly, input.Day)
		if err != nil {
			return nil, apperr.Wrap(op, apperr.ErrInvalidInput, "day must be YYYY-MM-DD", err)
		}
		if d.After(day) {
			return nil, apperr.Invalid(op, "day cannot be in the future")
		}
		day = d
	}

	s := &model.StepLog{ID: uuid.New().String(), UserID: input.UserID, Steps: input.Steps, Day: day}
	if err := uc.repo.UpsertSteps(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (uc *dashboardUseCase) at(t *time.Time) time.Time {
	if t == nil || t.IsZero() {
		return uc.now()
	}
	return *t
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
