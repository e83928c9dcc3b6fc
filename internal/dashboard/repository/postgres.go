package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	var p model.Profile
	err := r.DB.GetContext(ctx, &p, `SELECT * FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) UpsertProfile(ctx context.Context, p *model.Profile) error {
	query := `
        INSERT INTO profiles (
            user_id, display_name, tier, start_weight_kg, goal_weight_kg,
            daily_calorie_goal, daily_step_goal, widget_prefs, updated_at
        )
        VALUES (
            :user_id, :display_name, :tier, :start_weight_kg, :goal_weight_kg,
            :daily_calorie_goal, :daily_step_goal, :widget_prefs, :updated_at
        )
        ON CONFLICT (user_id) DO UPDATE SET
            display_name = EXCLUDED.display_name,
            start_weight_kg = EXCLUDED.start_weight_kg,
            goal_weight_kg = EXCLUDED.goal_weight_kg,
            daily_calorie_goal = EXCLUDED.daily_calorie_goal,
            daily_step_goal = EXCLUDED.daily_step_goal,
            widget_prefs = EXCLUDED.widget_prefs,
            updated_at = EXCLUDED.updated_at
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

// TierOf returns the user's perk tier; users without a profile are bronze.
func (r *PGRepository) TierOf(ctx context.Context, userID string) (model.PerkTier, error) {
	var tier model.PerkTier
	err := r.DB.GetContext(ctx, &tier, `SELECT tier FROM profiles WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PerkTierBronze, nil
	}
	return tier, err
}

func (r *PGRepository) RecentWeights(ctx context.Context, userID string, limit int) ([]model.WeightLog, error) {
	var logs []model.WeightLog
	err := r.DB.SelectContext(ctx, &logs, `
        SELECT * FROM weight_logs
        WHERE user_id = $1
        ORDER BY logged_at DESC
        LIMIT $2
    `, userID, limit)
	return logs, err
}

func (r *PGRepository) MealsBetween(ctx context.Context, userID string, from, to time.Time) ([]model.MealLog, error) {
	var meals []model.MealLog
	err := r.DB.SelectContext(ctx, &meals, `
        SELECT * FROM meal_logs
        WHERE user_id = $1 AND logged_at >= $2 AND logged_at < $3
        ORDER BY logged_at
    `, userID, from, to)
	return meals, err
}

func (r *PGRepository) StepsOn(ctx context.Context, userID string, day time.Time) (*model.StepLog, error) {
	var s model.StepLog
	err := r.DB.GetContext(ctx, &s, `SELECT * FROM step_logs WHERE user_id = $1 AND day = $2`, userID, day)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) LogDays(ctx context.Context, userID string, since time.Time) ([]time.Time, error) {
	var days []time.Time
	err := r.DB.SelectContext(ctx, &days, `
        SELECT d FROM (
            SELECT (logged_at AT TIME ZONE 'UTC')::date AS d FROM weight_logs WHERE user_id = $1 AND logged_at >= $2
            UNION
            SELECT (logged_at AT TIME ZONE 'UTC')::date FROM meal_logs WHERE user_id = $1 AND logged_at >= $2
            UNION
            SELECT day FROM step_logs WHERE user_id = $1 AND day >= $2::date AND steps > 0
        ) AS logged
        ORDER BY d DESC
    `, userID, since)
	return days, err
}

func (r *PGRepository) AddWeight(ctx context.Context, w *model.WeightLog) error {
	_, err := r.DB.NamedExecContext(ctx, `
        INSERT INTO weight_logs (id, user_id, weight_kg, logged_at)
        VALUES (:id, :user_id, :weight_kg, :logged_at)
    `, w)
	return err
}

func (r *PGRepository) AddMeal(ctx context.Context, m *model.MealLog) error {
	_, err := r.DB.NamedExecContext(ctx, `
        INSERT INTO meal_logs (id, user_id, meal_type, title, calories, protein_g, carbs_g, fat_g, logged_at)
        VALUES (:id, :user_id, :meal_type, :title, :calories, :protein_g, :carbs_g, :fat_g, :logged_at)
    `, m)
	return err
}

func (r *PGRepository) UpsertSteps(ctx context.Context, s *model.StepLog) error {
	_, err := r.DB.NamedExecContext(ctx, `
        INSERT INTO step_logs (id, user_id, steps, day)
        VALUES (:id, :user_id, :steps, :day)
        ON CONFLICT (user_id, day) DO UPDATE SET steps = EXCLUDED.steps
    `, s)
	return err
}
