package repository

import (
	"context"

	"github.com/fekuna/wlpl-service/internal/analytics/dto"
	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) OrdersByStatus(ctx context.Context, rg dto.Range) ([]dto.StatusCount, error) {
	var rows []dto.StatusCount
	err := r.DB.SelectContext(ctx, &rows, `
        SELECT status, count(*) AS count
        FROM orders
        WHERE ($1::timestamptz IS NULL OR created_at >= $1)
          AND ($2::timestamptz IS NULL OR created_at < $2)
        GROUP BY status
    `, rg.From, rg.To)
	return rows, err
}

func (r *PGRepository) DeliveredTotals(ctx context.Context, rg dto.Range) (*dto.DeliveredTotals, error) {
	var t dto.DeliveredTotals
	err := r.DB.GetContext(ctx, &t, `
        SELECT count(*) AS orders, COALESCE(sum(total), 0) AS gmv
        FROM orders
        WHERE status = $1
          AND ($2::timestamptz IS NULL OR updated_at >= $2)
          AND ($3::timestamptz IS NULL OR updated_at < $3)
    `, model.OrderStatusDelivered, rg.From, rg.To)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PGRepository) ItemsPurchased(ctx context.Context, rg dto.Range) (int, error) {
	var n int
	err := r.DB.GetContext(ctx, &n, `
        SELECT COALESCE(sum(quantity_change), 0)
        FROM item_movements
        WHERE kind = $1
          AND ($2::timestamptz IS NULL OR created_at >= $2)
          AND ($3::timestamptz IS NULL OR created_at < $3)
    `, model.MovementPurchase, rg.From, rg.To)
	return n, err
}

func (r *PGRepository) WeightEnds(ctx context.Context, userID string, rg dto.Range) (*dto.WeightEnds, error) {
	var w dto.WeightEnds
	err := r.DB.GetContext(ctx, &w, `
        SELECT COALESCE((array_agg(weight_kg ORDER BY logged_at ASC))[1], 0) AS first_kg,
               COALESCE((array_agg(weight_kg ORDER BY logged_at DESC))[1], 0) AS last_kg,
               count(*) AS logs
        FROM weight_logs
        WHERE user_id = $1
          AND ($2::timestamptz IS NULL OR logged_at >= $2)
          AND ($3::timestamptz IS NULL OR logged_at < $3)
    `, userID, rg.From, rg.To)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *PGRepository) MealTotals(ctx context.Context, userID string, rg dto.Range) (*dto.MealTotals, error) {
	var m dto.MealTotals
	err := r.DB.GetContext(ctx, &m, `
        SELECT count(*) AS meals,
               count(DISTINCT (logged_at AT TIME ZONE 'UTC')::date) AS days,
               COALESCE(sum(calories), 0) AS calories
        FROM meal_logs
        WHERE user_id = $1
          AND ($2::timestamptz IS NULL OR logged_at >= $2)
          AND ($3::timestamptz IS NULL OR logged_at < $3)
    `, userID, rg.From, rg.To)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PGRepository) StepTotals(ctx context.Context, userID string, rg dto.Range) (*dto.StepTotals, error) {
	var s dto.StepTotals
	err := r.DB.GetContext(ctx, &s, `
        SELECT count(*) AS days, COALESCE(sum(steps), 0) AS steps
        FROM step_logs
        WHERE user_id = $1
          AND ($2::timestamptz IS NULL OR day >= $2::date)
          AND ($3::timestamptz IS NULL OR day < $3::date)
    `, userID, rg.From, rg.To)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
