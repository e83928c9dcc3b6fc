package repository

import (
	"errors"
	"testing"

	"github.com/fekuna/wlpl-service/pkg/apperr"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWhereBuildsNamedConditions(t *testing.T) {
	w := &where{args: map[string]any{}}
	assert.Empty(t, w.String())

	w.conds = append(w.conds, "parent_id IS NULL")
	w.eq("is_active", true)
	assert.Equal(t, " WHERE parent_id IS NULL AND is_active = :is_active", w.String())
	assert.Equal(t, map[string]any{"is_active": true}, w.args)
}

func TestNameConflict(t *testing.T) {
	err := nameConflict("category.Create", &pgconn.PgError{Code: uniqueViolation})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, "a category with this name already exists", apperr.PublicMessage(err))

	other := errors.New("connection reset")
	assert.Same(t, other, nameConflict("category.Create", other))
	assert.NoError(t, nameConflict("category.Create", nil))
}
