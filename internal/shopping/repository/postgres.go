package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/internal/shopping/dto"
	"github.com/jmoiron/sqlx"
)

const orphanPredicate = "in_stock = false AND needed = false AND quantity = 0"

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.ShoppingItem, error) {
	var item model.ShoppingItem
	err := r.DB.GetContext(ctx, &item, `SELECT * FROM shopping_items WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *PGRepository) FindByUser(ctx context.Context, userID string) ([]model.ShoppingItem, error) {
	var items []model.ShoppingItem
	err := r.DB.SelectContext(ctx, &items,
		`SELECT * FROM shopping_items WHERE user_id = $1 ORDER BY created_at ASC`, userID)
	return items, err
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ItemFilters) ([]model.ShoppingItem, int, error) {
	var items []model.ShoppingItem
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.UserID != "" {
		conditions = append(conditions, "user_id = :user_id")
		args["user_id"] = f.UserID
	}
	if f.Needed != nil {
		conditions = append(conditions, "needed = :needed")
		args["needed"] = *f.Needed
	}
	if f.InStock != nil {
		conditions = append(conditions, "in_stock = :in_stock")
		args["in_stock"] = *f.InStock
	}
	if f.Category != "" {
		conditions = append(conditions, "LOWER(category) = LOWER(:category)")
		args["category"] = f.Category
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM shopping_items" + whereClause
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

	query := "SELECT * FROM shopping_items" + whereClause +
		" ORDER BY (priority = 'high') DESC, updated_at DESC"
	if f.PageSize > 0 {
		offset := (max(f.Page, 1) - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM shopping_items WHERE id = $1`, id)
	return err
}

func (r *PGRepository) FindOrphans(ctx context.Context, userID string) ([]model.ShoppingItem, error) {
	var items []model.ShoppingItem
	query := "SELECT * FROM shopping_items WHERE " + orphanPredicate
	args := []interface{}{}
	if userID != "" {
		query += " AND user_id = $1"
		args = append(args, userID)
	}
	query += " ORDER BY updated_at ASC"

	err := r.DB.SelectContext(ctx, &items, query, args...)
	return items, err
}

func (r *PGRepository) ListMovements(ctx context.Context, itemID string) ([]model.ItemMovement, error) {
	var movements []model.ItemMovement
	err := r.DB.SelectContext(ctx, &movements,
		`SELECT * FROM item_movements WHERE item_id = $1 ORDER BY created_at DESC`, itemID)
	return movements, err
}

func (r *PGRepository) SaveWithMovement(ctx context.Context, item *model.ShoppingItem, movement *model.ItemMovement) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Upsert item
	upsertQuery := `
        INSERT INTO shopping_items (
            id, user_id, product_name, brand, category, quantity, unit, priority,
            needed, in_stock, barcode, expires_at, purchase_history, created_at, updated_at
        )
        VALUES (
            :id, :user_id, :product_name, :brand, :category, :quantity, :unit, :priority,
            :needed, :in_stock, :barcode, :expires_at, :purchase_history, :created_at, :updated_at
        )
        ON CONFLICT (id)
        DO UPDATE SET
            product_name = EXCLUDED.product_name,
            brand = EXCLUDED.brand,
            category = EXCLUDED.category,
            quantity = EXCLUDED.quantity,
            unit = EXCLUDED.unit,
            priority = EXCLUDED.priority,
            needed = EXCLUDED.needed,
            in_stock = EXCLUDED.in_stock,
            barcode = EXCLUDED.barcode,
            expires_at = EXCLUDED.expires_at,
            purchase_history = EXCLUDED.purchase_history,
            updated_at = EXCLUDED.updated_at
    `
	if _, err = tx.NamedExecContext(ctx, upsertQuery, item); err != nil {
		return fmt.Errorf("failed to save shopping item: %w", err)
	}

	// 2. Log movement
	insertLogQuery := `
        INSERT INTO item_movements (
            id, item_id, user_id, kind, quantity_change, quantity_before, quantity_after,
            reference_id, notes, created_at
        )
        VALUES (
            :id, :item_id, :user_id, :kind, :quantity_change, :quantity_before, :quantity_after,
            :reference_id, :notes, :created_at
        )
    `
	if _, err = tx.NamedExecContext(ctx, insertLogQuery, movement); err != nil {
		return fmt.Errorf("failed to log movement: %w", err)
	}

	return tx.Commit()
}
