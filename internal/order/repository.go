package order

import (
	"context"

	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/internal/order/dto"
)

type Repository interface {
	Create(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)

	// UpdateStatus persists o only if its stored status still equals change.FromStatus.
	// It reports false when another writer got there first.
	UpdateStatus(ctx context.Context, o *model.Order, change *model.OrderStatusChange) (bool, error)
	ListStatusChanges(ctx context.Context, orderID string) ([]model.OrderStatusChange, error)
}
