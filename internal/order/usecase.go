package order

import (
	"context"

	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/internal/order/dto"
	shoppingdto "github.com/fekuna/wlpl-service/internal/shopping/dto"
)

type UseCase interface {
	CreateDraft(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error)
	GetOrder(ctx context.Context, userID, id string) (*model.Order, error)
	ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	Timeline(ctx context.Context, userID, id string) (*dto.Timeline, error)

	Submit(ctx context.Context, userID, id string) (*model.Order, error)
	Cancel(ctx context.Context, input *dto.CancelInput) (*model.Order, error)
	Transition(ctx context.Context, input *dto.TransitionInput) (*model.Order, error)
	ConfirmDelivery(ctx context.Context, input *dto.ConfirmDeliveryInput) (*model.Order, error)
}

// ItemSource supplies the shopping items a draft is built from.
type ItemSource interface {
	ListItems(ctx context.Context, filters *shoppingdto.ItemFilters) ([]model.ShoppingItem, int, error)
}

type PriceBook interface {
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, error)
}

type Publisher interface {
	PublishJSON(ctx context.Context, topic, key string, v any) error
}
