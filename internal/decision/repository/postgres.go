package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/wlpl-service/internal/decision"
	"github.com/fekuna/wlpl-service/internal/decision/dto"
	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.AIDecision, error) {
	var d model.AIDecision
	err := r.DB.GetContext(ctx, &d, `SELECT * FROM ai_decisions WHERE decision_id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.DecisionFilters) ([]model.AIDecision, int, error) {
	var decisions []model.AIDecision
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ReviewStatus != "" {
		conditions = append(conditions, "review_status = :review_status")
		args["review_status"] = f.ReviewStatus
	}
	if f.DecisionType != "" {
		conditions = append(conditions, "decision_type = :decision_type")
		args["decision_type"] = f.DecisionType
	}
	if f.UserID != "" {
		conditions = append(conditions, "user_id = :user_id")
		args["user_id"] = f.UserID
	}
	if f.MinConfidence != nil {
		conditions = append(conditions, "confidence >= :min_confidence")
		args["min_confidence"] = *f.MinConfidence
	}
	if f.MaxConfidence != nil {
		conditions = append(conditions, "confidence <= :max_confidence")
		args["max_confidence"] = *f.MaxConfidence
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM ai_decisions" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	// Least confident first.
	query := "SELECT * FROM ai_decisions" + whereClause + " ORDER BY confidence ASC, created_at DESC"
	if f.PageSize > 0 {
		offset := (max(f.Page, 1) - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &decisions, args)
	return decisions, count, err
}

func (r *PGRepository) SaveReview(ctx context.Context, d *model.AIDecision) (bool, error) {
	query := `
        UPDATE ai_decisions
        SET review_status = :review_status,
            reviewed_by = :reviewed_by,
            reviewed_at = :reviewed_at,
            review_notes = :review_notes,
            reversal_reason = :reversal_reason
        WHERE decision_id = :decision_id AND review_status = 'unreviewed'
    `
	res, err := r.DB.NamedExecContext(ctx, query, d)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func (r *PGRepository) CountByStatusAndBand(ctx context.Context, rg dto.Range) ([]dto.CountRow, error) {
	query := fmt.Sprintf(`
        SELECT review_status,
               CASE WHEN confidence >= %[1]v THEN 'high'
                    WHEN confidence >= %[2]v THEN 'medium'
                    ELSE 'low' END AS band,
               count(*) AS count
        FROM ai_decisions
        WHERE ($1::timestamptz IS NULL OR created_at >= $1)
          AND ($2::timestamptz IS NULL OR created_at < $2)
        GROUP BY 1, 2
    `, decision.HighConfidence, decision.MediumConfidence)

	var rows []dto.CountRow
	err := r.DB.SelectContext(ctx, &rows, query, rg.From, rg.To)
	return rows, err
}
