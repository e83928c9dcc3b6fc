package dto

import (
	"time"

	decisiondto "github.com/fekuna/wlpl-service/internal/decision/dto"
	"github.com/shopspring/decimal"
)

type Range struct {
	From *time.Time
	To   *time.Time
}

type StatusCount struct {
	Status string `db:"status"`
	Count  int    `db:"count"`
}

type DeliveredTotals struct {
	Orders int             `db:"orders"`
	GMV    decimal.Decimal `db:"gmv"`
}

type OrderSection struct {
	ByStatus       map[string]int  `json:"by_status"`
	Delivered      int             `json:"delivered"`
	GMV            decimal.Decimal `json:"gmv"`
	AverageBasket  decimal.Decimal `json:"average_basket"`
	CompletionRate float64         `json:"completion_rate"`
}

// Summary is the admin analytics overview. A section that failed to load is
// nil and its name is listed in Warnings.
type Summary struct {
	From            *time.Time         `json:"from,omitempty"`
	To              *time.Time         `json:"to,omitempty"`
	Orders          *OrderSection      `json:"orders,omitempty"`
	Decisions       *decisiondto.Stats `json:"decisions,omitempty"`
	PerkRedemptions *int               `json:"perk_redemptions,omitempty"`
	ItemsPurchased  *int               `json:"items_purchased,omitempty"`
	Warnings        []string           `json:"warnings,omitempty"`
}

type WeightEnds struct {
	FirstKg float64 `db:"first_kg"`
	LastKg  float64 `db:"last_kg"`
	Logs    int     `db:"logs"`
}

type MealTotals struct {
	Meals    int     `db:"meals"`
	Days     int     `db:"days"`
	Calories float64 `db:"calories"`
}

type StepTotals struct {
	Days  int `db:"days"`
	Steps int `db:"steps"`
}

type UserAnalytics struct {
	UserID           string   `json:"user_id"`
	WeightChangeKg   *float64 `json:"weight_change_kg,omitempty"`
	WeightLogs       int      `json:"weight_logs"`
	MealsLogged      int      `json:"meals_logged"`
	AvgDailyCalories float64  `json:"avg_daily_calories"`
	AvgDailySteps    float64  `json:"avg_daily_steps"`
	Warnings         []string `json:"warnings,omitempty"`
}
