package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/wlpl-service/internal/category/dto"
	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/pkg/apperr"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

const uniqueViolation = "23505"

// Deeper trees than this are treated as a cycle and cut off.
const maxDepth = 16

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, c *model.Category) error {
	_, err := r.DB.NamedExecContext(ctx, `
        INSERT INTO categories (id, parent_id, name, description, perishable, sort_order, is_active, created_at, updated_at)
        VALUES (:id, :parent_id, :name, :description, :perishable, :sort_order, :is_active, :created_at, :updated_at)
    `, c)
	return nameConflict("category.Create", err)
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	var c model.Category
	if err := r.DB.GetContext(ctx, &c, `SELECT * FROM categories WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// FindByName matches an active category case-insensitively. A category is
// reported perishable when it or any of its ancestors is.
func (r *PGRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	query := fmt.Sprintf(`
        WITH RECURSIVE lineage AS (
            SELECT c.id AS leaf_id, c.parent_id, c.perishable, 1 AS depth
            FROM categories c
            WHERE lower(c.name) = lower($1) AND c.is_active
          UNION ALL
            SELECT l.leaf_id, p.parent_id, p.perishable, l.depth + 1
            FROM categories p
            JOIN lineage l ON p.id = l.parent_id
            WHERE l.depth < %d
        )
        SELECT c.id, c.parent_id, c.name, c.description, c.sort_order, c.is_active,
               c.created_at, c.updated_at, bool_or(l.perishable) AS perishable
        FROM categories c
        JOIN lineage l ON l.leaf_id = c.id
        GROUP BY c.id
    `, maxDepth)

	var c model.Category
	if err := r.DB.GetContext(ctx, &c, query, strings.TrimSpace(name)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// where collects named conditions for the list query.
type where struct {
	conds []string
	args  map[string]any
}

func (w *where) eq(column string, v any) {
	w.conds = append(w.conds, column+" = :"+column)
	w.args[column] = v
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.CategoryFilters) ([]model.Category, int, error) {
	w := &where{args: map[string]any{}}
	switch {
	case f.ParentID == nil:
	case *f.ParentID == "":
		w.conds = append(w.conds, "parent_id IS NULL")
	default:
		w.eq("parent_id", *f.ParentID)
	}
	if f.IsActive != nil {
		w.eq("is_active", *f.IsActive)
	}
	if f.Perishable != nil {
		w.eq("perishable", *f.Perishable)
	}

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM categories"+w.String(), w.args)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.DB.GetContext(ctx, &total, r.DB.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []model.Category{}, 0, nil
	}

	listQuery := "SELECT * FROM categories" + w.String() + " ORDER BY sort_order, lower(name)"
	if f.PageSize > 0 {
		listQuery += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (max(f.Page, 1)-1)*f.PageSize)
	}
	listQuery, listArgs, err := sqlx.Named(listQuery, w.args)
	if err != nil {
		return nil, 0, err
	}
	categories := []model.Category{}
	if err := r.DB.SelectContext(ctx, &categories, r.DB.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

func (r *PGRepository) Update(ctx context.Context, c *model.Category) error {
	_, err := r.DB.NamedExecContext(ctx, `
        UPDATE categories
        SET parent_id = :parent_id, name = :name, description = :description, perishable = :perishable,
            sort_order = :sort_order, is_active = :is_active, updated_at = :updated_at
        WHERE id = :id
    `, c)
	return nameConflict("category.Update", err)
}

// Delete removes a category and hands its children to its own parent, so a
// subtree keeps its place in the hierarchy.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Lock the row and read its parent
	var parentID *string
	err = tx.GetContext(ctx, &parentID, `SELECT parent_id FROM categories WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	// 2. Re-parent the children
	if _, err := tx.ExecContext(ctx, `UPDATE categories SET parent_id = $1, updated_at = now() WHERE parent_id = $2`, parentID, id); err != nil {
		return err
	}

	// 3. Remove the category
	if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func nameConflict(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.Wrap(op, apperr.ErrConflict, "a category with this name already exists", err)
	}
	return err
}
