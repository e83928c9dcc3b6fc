package model

import "time"

type Profile struct {
	UserID           string           `db:"user_id" json:"user_id"`
	DisplayName      string           `db:"display_name" json:"display_name"`
	Tier             PerkTier         `db:"tier" json:"tier"`
	StartWeightKg    float64          `db:"start_weight_kg" json:"start_weight_kg"`
	GoalWeightKg     float64          `db:"goal_weight_kg" json:"goal_weight_kg"`
	DailyCalorieGoal int              `db:"daily_calorie_goal" json:"daily_calorie_goal"`
	DailyStepGoal    int              `db:"daily_step_goal" json:"daily_step_goal"`
	WidgetPrefs      JSONList[string] `db:"widget_prefs" json:"widget_prefs"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

type WeightLog struct {
	ID       string    `db:"id" json:"id"`
	UserID   string    `db:"user_id" json:"user_id"`
	WeightKg float64   `db:"weight_kg" json:"weight_kg"`
	LoggedAt time.Time `db:"logged_at" json:"logged_at"`
}

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

type MealLog struct {
	ID       string    `db:"id" json:"id"`
	UserID   string    `db:"user_id" json:"user_id"`
	MealType MealType  `db:"meal_type" json:"meal_type"`
	Title    string    `db:"title" json:"title"`
	Calories float64   `db:"calories" json:"calories"`
	ProteinG float64   `db:"protein_g" json:"protein_g"`
	CarbsG   float64   `db:"carbs_g" json:"carbs_g"`
	FatG     float64   `db:"fat_g" json:"fat_g"`
	LoggedAt time.Time `db:"logged_at" json:"logged_at"`
}

type StepLog struct {
	ID     string    `db:"id" json:"id"`
	UserID string    `db:"user_id" json:"user_id"`
	Steps  int       `db:"steps" json:"steps"`
	Day    time.Time `db:"day" json:"day"`
}
