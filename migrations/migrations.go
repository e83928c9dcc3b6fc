// Package migrations holds the database schema. Every statement is idempotent,
// so Apply can run on each deploy.
package migrations

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var Schema string

// Tables lists every table Schema creates, in creation order.
var Tables = []string{
	"categories",
	"products",
	"shopping_items",
	"item_movements",
	"orders",
	"order_items",
	"order_status_changes",
	"ai_decisions",
	"perks",
	"perk_redemptions",
	"profiles",
	"weight_logs",
	"meal_logs",
	"step_logs",
}

func Apply(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return tx.Commit()
}
