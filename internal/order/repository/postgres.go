package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/internal/order/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, o *model.Order) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Order
	orderQuery := `
        INSERT INTO orders (
            id, user_id, status, total_items, subtotal, service_fee, delivery_fee, tip, total,
            delivery_window_start, delivery_window_end, delivery_pin, shopper_id, cancel_reason,
            created_at, updated_at
        )
        VALUES (
            :id, :user_id, :status, :total_items, :subtotal, :service_fee, :delivery_fee, :tip, :total,
            :delivery_window_start, :delivery_window_end, :delivery_pin, :shopper_id, :cancel_reason,
            :created_at, :updated_at
        )
    `
	if _, err = tx.NamedExecContext(ctx, orderQuery, o); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	// 2. Items
	itemQuery := `
        INSERT INTO order_items (
            id, order_id, shopping_item_id, product_name, barcode, quantity, unit, unit_price
        )
        VALUES (
            :id, :order_id, :shopping_item_id, :product_name, :barcode, :quantity, :unit, :unit_price
        )
    `
	for i := range o.Items {
		if _, err = tx.NamedExecContext(ctx, itemQuery, &o.Items[i]); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	// 3. Initial history entry
	_, err = tx.ExecContext(ctx, `
        INSERT INTO order_status_changes (id, order_id, from_status, to_status, changed_by, changed_at)
        VALUES (gen_random_uuid(), $1, '', $2, $3, $4)
    `, o.ID, o.Status, o.UserID, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to log order status: %w", err)
	}

	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	if err := r.DB.GetContext(ctx, &o, `SELECT * FROM orders WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := r.DB.SelectContext(ctx, &o.Items,
		`SELECT * FROM order_items WHERE order_id = $1 ORDER BY product_name`, id); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	var orders []model.Order
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.UserID != "" {
		conditions = append(conditions, "user_id = :user_id")
		args["user_id"] = f.UserID
	}
	if f.ShopperID != "" {
		conditions = append(conditions, "shopper_id = :shopper_id")
		args["shopper_id"] = f.ShopperID
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.From != nil {
		conditions = append(conditions, "created_at >= :from")
		args["from"] = *f.From
	}
	if f.To != nil {
		conditions = append(conditions, "created_at < :to")
		args["to"] = *f.To
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM orders" + whereClause
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

	query := "SELECT * FROM orders" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (max(f.Page, 1) - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &orders, args)
	return orders, count, err
}

func (r *PGRepository) UpdateStatus(ctx context.Context, o *model.Order, change *model.OrderStatusChange) (bool, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
        UPDATE orders
        SET status = $1, delivery_pin = $2, shopper_id = $3, cancel_reason = $4, updated_at = $5
        WHERE id = $6 AND status = $7
    `, o.Status, o.DeliveryPIN, o.ShopperID, o.CancelReason, o.UpdatedAt, o.ID, change.FromStatus)
	if err != nil {
		return false, fmt.Errorf("failed to update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	_, err = tx.NamedExecContext(ctx, `
        INSERT INTO order_status_changes (id, order_id, from_status, to_status, changed_by, changed_at)
        VALUES (:id, :order_id, :from_status, :to_status, :changed_by, :changed_at)
    `, change)
	if err != nil {
		return false, fmt.Errorf("failed to log order status: %w", err)
	}

	return true, tx.Commit()
}

func (r *PGRepository) ListStatusChanges(ctx context.Context, orderID string) ([]model.OrderStatusChange, error) {
	var changes []model.OrderStatusChange
	err := r.DB.SelectContext(ctx, &changes,
		`SELECT * FROM order_status_changes WHERE order_id = $1 ORDER BY changed_at ASC`, orderID)
	return changes, err
}
