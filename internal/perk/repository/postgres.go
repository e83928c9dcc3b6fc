package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/internal/perk/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Perk) error {
	query := `
        INSERT INTO perks (
            id, sponsor, title, description, tier, redemption, code, link, webhook_url,
            total_available, remaining_count, enabled, expires_at, created_at, updated_at
        )
        VALUES (
            :id, :sponsor, :title, :description, :tier, :redemption, :code, :link, :webhook_url,
            :total_available, :remaining_count, :enabled, :expires_at, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Perk, error) {
	var p model.Perk
	err := r.DB.GetContext(ctx, &p, `SELECT * FROM perks WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.PerkFilters) ([]model.Perk, int, error) {
	var perks []model.Perk
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Enabled != nil {
		conditions = append(conditions, "enabled = :enabled")
		args["enabled"] = *f.Enabled
	}
	if f.Tier != "" {
		conditions = append(conditions, "tier = :tier")
		args["tier"] = f.Tier
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM perks" + whereClause
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

	query := "SELECT * FROM perks" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (max(f.Page, 1) - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &perks, args)
	return perks, count, err
}

func (r *PGRepository) Update(ctx context.Context, p *model.Perk) error {
	query := `
        UPDATE perks SET
            sponsor = :sponsor,
            title = :title,
            description = :description,
            tier = :tier,
            redemption = :redemption,
            code = :code,
            link = :link,
            webhook_url = :webhook_url,
            total_available = :total_available,
            remaining_count = :remaining_count,
            enabled = :enabled,
            expires_at = :expires_at,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) FindAvailable(ctx context.Context, tiers []model.PerkTier, now time.Time) ([]model.Perk, error) {
	if len(tiers) == 0 {
		return []model.Perk{}, nil
	}

	query, args, err := sqlx.In(`
        SELECT * FROM perks
        WHERE enabled = true
          AND remaining_count > 0
          AND (expires_at IS NULL OR expires_at > ?)
          AND tier IN (?)
        ORDER BY created_at DESC
    `, now, tiers)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var perks []model.Perk
	err = r.DB.SelectContext(ctx, &perks, query, args...)
	return perks, err
}

func (r *PGRepository) HasRedeemed(ctx context.Context, perkID, userID string) (bool, error) {
	var exists bool
	err := r.DB.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM perk_redemptions WHERE perk_id = $1 AND user_id = $2)`, perkID, userID)
	return exists, err
}

func (r *PGRepository) Redeem(ctx context.Context, red *model.PerkRedemption) (bool, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	// 1. Take one from stock
	res, err := tx.ExecContext(ctx, `
        UPDATE perks SET remaining_count = remaining_count - 1, updated_at = $2
        WHERE id = $1 AND remaining_count > 0
    `, red.PerkID, red.RedeemedAt)
	if err != nil {
		return false, fmt.Errorf("failed to decrement perk stock: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	// 2. Record redemption
	_, err = tx.NamedExecContext(ctx, `
        INSERT INTO perk_redemptions (id, perk_id, user_id, redeemed_at)
        VALUES (:id, :perk_id, :user_id, :redeemed_at)
    `, red)
	if err != nil {
		return false, fmt.Errorf("failed to record redemption: %w", err)
	}

	return true, tx.Commit()
}

func (r *PGRepository) CountRedemptions(ctx context.Context, rg dto.Range) (int, error) {
	var n int
	err := r.DB.GetContext(ctx, &n, `
        SELECT count(*) FROM perk_redemptions
        WHERE ($1::timestamptz IS NULL OR redeemed_at >= $1)
          AND ($2::timestamptz IS NULL OR redeemed_at < $2)
    `, rg.From, rg.To)
	return n, err
}
