package shopping

import (
	"context"

	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/internal/shopping/dto"
)

type Repository interface {
	FindByID(ctx context.Context, id string) (*model.ShoppingItem, error)
	FindByUser(ctx context.Context, userID string) ([]model.ShoppingItem, error)
	FindAll(ctx context.Context, filters *dto.ItemFilters) ([]model.ShoppingItem, int, error)
	Delete(ctx context.Context, id string) error

	// Orphans, userID "" spans every user.
	FindOrphans(ctx context.Context, userID string) ([]model.ShoppingItem, error)

	// Movements / Audit
	ListMovements(ctx context.Context, itemID string) ([]model.ItemMovement, error)

	// Transaction support
	SaveWithMovement(ctx context.Context, item *model.ShoppingItem, movement *model.ItemMovement) error
}
