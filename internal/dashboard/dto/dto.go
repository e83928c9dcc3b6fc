package dto

import (
	"time"

	"github.com/fekuna/wlpl-service/internal/model"
)

// Dashboard is the consumer home screen. Sections that failed to load are nil
// and named in Warnings.
type Dashboard struct {
	Profile         *model.Profile    `json:"profile,omitempty"`
	Weight          *WeightSummary    `json:"weight,omitempty"`
	Nutrition       *NutritionSummary `json:"nutrition,omitempty"`
	Steps           *StepSummary      `json:"steps,omitempty"`
	Streak          int               `json:"streak"`
	Recommendations []string          `json:"recommendations"`
	Widgets         []string          `json:"widgets"`
	Warnings        []string          `json:"warnings,omitempty"`
}

type WeightSummary struct {
	CurrentKg  float64           `json:"current_kg"`
	GoalKg     float64           `json:"goal_kg"`
	Progress   float64           `json:"progress"`
	Projection string            `json:"projection"`
	Recent     []model.WeightLog `json:"recent"`
}

type NutritionSummary struct {
	Calories float64         `json:"calories"`
	Goal     int             `json:"goal"`
	Progress float64         `json:"progress"`
	ProteinG float64         `json:"protein_g"`
	CarbsG   float64         `json:"carbs_g"`
	FatG     float64         `json:"fat_g"`
	Meals    []model.MealLog `json:"meals"`
}

type StepSummary struct {
	Steps    int     `json:"steps"`
	Goal     int     `json:"goal"`
	Progress float64 `json:"progress"`
}

type ProfileInput struct {
	UserID           string   `json:"-"`
	DisplayName      string   `json:"display_name"`
	StartWeightKg    float64  `json:"start_weight_kg"`
	GoalWeightKg     float64  `json:"goal_weight_kg"`
	DailyCalorieGoal int      `json:"daily_calorie_goal"`
	DailyStepGoal    int      `json:"daily_step_goal"`
	WidgetPrefs      []string `json:"widget_prefs"`
}

type LogWeightInput struct {
	UserID   string     `json:"-"`
	WeightKg float64    `json:"weight_kg"`
	LoggedAt *time.Time `json:"logged_at"`
}

type LogMealInput struct {
	UserID   string         `json:"-"`
	MealType model.MealType `json:"meal_type"`
	Title    string         `json:"title"`
	Calories float64        `json:"calories"`
	ProteinG float64        `json:"protein_g"`
	CarbsG   float64        `json:"carbs_g"`
	FatG     float64        `json:"fat_g"`
	LoggedAt *time.Time     `json:"logged_at"`
}

// LogStepsInput replaces the step count of Day, which defaults to today.
type LogStepsInput struct {
	UserID string `json:"-"`
	Steps  int    `json:"steps"`
	Day    string `json:"day"`
}
