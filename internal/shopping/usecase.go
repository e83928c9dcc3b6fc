package shopping

import (
	"context"

	categorydto "github.com/fekuna/wlpl-service/internal/category/dto"
	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/internal/shopping/dto"
)

type UseCase interface {
	ListItems(ctx context.Context, filters *dto.ItemFilters) ([]model.ShoppingItem, int, error)
	AddItem(ctx context.Context, input *dto.AddItemInput) (*dto.ItemResult, error)
	ScanItem(ctx context.Context, input *dto.ScanInput) (*dto.ScanResult, error)
	MarkNeeded(ctx context.Context, input *dto.MarkNeededInput) (*dto.ItemResult, error)
	MarkPurchased(ctx context.Context, input *dto.PurchaseInput) (*dto.ItemResult, error)
	ConsumeItem(ctx context.Context, input *dto.ConsumeInput) (*model.ShoppingItem, error)
	DeleteItem(ctx context.Context, userID, id string) error
	ListMovements(ctx context.Context, userID, id string) ([]model.ItemMovement, error)

	ListOrphans(ctx context.Context, userID string) ([]model.ShoppingItem, error)
	RepairOrphan(ctx context.Context, userID, id string) (*dto.ItemResult, error)
	RepairAllOrphans(ctx context.Context, userID string) (*dto.RepairResult, error)
}

// ProductResolver turns a scanned barcode into a product, or (nil, nil).
type ProductResolver interface {
	LookupBarcode(ctx context.Context, barcode string) (*model.Product, error)
}

type Classifier interface {
	Classify(ctx context.Context, name string) (*categorydto.Classification, error)
}

type Translator interface {
	T(lang, id string, data map[string]any) string
}
