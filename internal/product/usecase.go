package product

import (
	"context"
	"time"

	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/internal/product/dto"
	"github.com/fekuna/wlpl-service/internal/product/lookup/openfoodfacts"
	"github.com/fekuna/wlpl-service/pkg/search"
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	// LookupBarcode resolves a scanned barcode from the local database, then the
	// external food database. It returns (nil, nil) when neither knows the code.
	LookupBarcode(ctx context.Context, barcode string) (*model.Product, error)
}

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePattern(ctx context.Context, pattern string) error
}

type Searcher interface {
	CreateIndex(ctx context.Context, index, mapping string) error
	Index(ctx context.Context, index, id string, doc any) error
	Search(ctx context.Context, index string, query map[string]any) (*search.SearchResponse, error)
	Delete(ctx context.Context, index, id string) error
}

type BarcodeProvider interface {
	LookupBarcode(ctx context.Context, barcode string) (openfoodfacts.FoodLookup, error)
}
