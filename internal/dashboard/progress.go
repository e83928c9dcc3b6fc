package dashboard

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/fekuna/wlpl-service/internal/model"
)

const (
	WidgetWeight    = "weight"
	WidgetNutrition = "nutrition"
	WidgetSteps     = "steps"
	WidgetMeals     = "meals"
	WidgetStreak    = "streak"
	WidgetPerks     = "perks"
)

// DefaultWidgets is the layout used for anything the user has not pinned.
var DefaultWidgets = []string{WidgetWeight, WidgetNutrition, WidgetSteps, WidgetMeals, WidgetStreak, WidgetPerks}

// minProjectionSpan is the shortest history a weight projection is drawn from.
const minProjectionSpan = 7 * 24 * time.Hour

// Progress returns done/goal as a percentage clamped to [0, 100]. A
// non-positive goal yields 0.
func Progress(done, goal float64) float64 {
	if goal <= 0 || math.IsNaN(done) {
		return 0
	}
	return clamp(round1(done / goal * 100))
}

// WeightProgress is the share of the distance from start to goal already
// covered. It works for both losing and gaining goals.
func WeightProgress(start, current, goal float64) float64 {
	total := start - goal
	if total == 0 {
		if current == goal {
			return 100
		}
		return 0
	}
	return clamp(round1((start - current) / total * 100))
}

// Projection estimates when goal is reached from the average rate between the
// oldest and newest of logs. logs may be in any order.
func Projection(logs []model.WeightLog, goal float64) string {
	const notEnough = "Not enough data"
	if len(logs) < 2 {
		return notEnough
	}

	sorted := slices.Clone(logs)
	slices.SortFunc(sorted, func(a, b model.WeightLog) int { return a.LoggedAt.Compare(b.LoggedAt) })
	first, last := sorted[0], sorted[len(sorted)-1]

	span := last.LoggedAt.Sub(first.LoggedAt)
	if span < minProjectionSpan {
		return notEnough
	}
	if last.WeightKg == goal {
		return fmt.Sprintf("Goal of %.1f kg reached", goal)
	}

	perDay := (last.WeightKg - first.WeightKg) / (span.Hours() / 24)
	remaining := goal - last.WeightKg
	// Moving away from the goal, or not moving at all.
	if perDay == 0 || math.Signbit(perDay) != math.Signbit(remaining) {
		return notEnough
	}

	days := math.Ceil(remaining / perDay)
	eta := last.LoggedAt.AddDate(0, 0, int(days))
	return fmt.Sprintf("On track to reach %.1f kg by %s", goal, eta.Format("Jan 2, 2006"))
}

// OrderWidgets puts the user's known preferences first, in their order, then
// the remaining defaults. Unknown and repeated names are dropped.
func OrderWidgets(prefs []string) []string {
	out := make([]string, 0, len(DefaultWidgets))
	for _, p := range prefs {
		if slices.Contains(DefaultWidgets, p) && !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	for _, w := range DefaultWidgets {
		if !slices.Contains(out, w) {
			out = append(out, w)
		}
	}
	return out
}

// Streak counts consecutive days with at least one log, ending today or
// yesterday. days may contain duplicates and any time of day.
func Streak(days []time.Time, today time.Time) int {
	seen := make(map[string]bool, len(days))
	for _, d := range days {
		seen[d.Format(time.DateOnly)] = true
	}

	day := today
	if !seen[day.Format(time.DateOnly)] {
		day = day.AddDate(0, 0, -1)
	}
	n := 0
	for seen[day.Format(time.DateOnly)] {
		n++
		day = day.AddDate(0, 0, -1)
	}
	return n
}

// Recommendations returns short nudges from the progress percentages of the
// sections that loaded. A nil section is skipped.
func Recommendations(weight, nutrition, steps *float64, streak int) []string {
	out := []string{}
	if nutrition != nil {
		switch {
		case *nutrition == 0:
			out = append(out, "Log your first meal of the day to start tracking calories.")
		case *nutrition >= 100:
			out = append(out, "You've reached your calorie goal for today. Choose light snacks if you're still hungry.")
		case *nutrition < 50:
			out = append(out, "You're under half of your calorie goal. Try a protein-rich meal.")
		}
	}
	if steps != nil && *steps < 50 {
		out = append(out, "A short walk will get you closer to today's step goal.")
	}
	if weight != nil && *weight >= 100 {
		out = append(out, "Goal weight reached. Consider setting a maintenance goal.")
	}
	if streak >= 7 {
		out = append(out, fmt.Sprintf("%d day logging streak. Keep it going!", streak))
	}
	return out
}

func clamp(p float64) float64 {
	return math.Max(0, math.Min(100, p))
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
