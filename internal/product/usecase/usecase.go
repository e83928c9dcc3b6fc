package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/internal/product"
	"github.com/fekuna/wlpl-service/internal/product/dto"
	"github.com/fekuna/wlpl-service/internal/product/lookup/openfoodfacts"
	"github.com/fekuna/wlpl-service/pkg/apperr"
	"github.com/fekuna/wlpl-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	indexName    = "products"
	listCacheTTL = 5 * time.Minute
	indexMapping = `{
		"mappings": {
			"properties": {
				"name": { "type": "text" },
				"brand": { "type": "text" },
				"barcode": { "type": "keyword" },
				"category": { "type": "keyword" },
				"calories": { "type": "double" },
				"is_active": { "type": "boolean" },
				"created_at": { "type": "date" }
			}
		}
	}`
)

type productUseCase struct {
	repo     product.Repository
	cache    product.Cache
	es       product.Searcher
	provider product.BarcodeProvider
	logger   logger.ZapLogger
}

// NewProductUseCase wires the product database. es and provider may be nil when
// Elasticsearch or the external lookup are unavailable.
func NewProductUseCase(repo product.Repository, cache product.Cache, es product.Searcher, provider product.BarcodeProvider, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:     repo,
		cache:    cache,
		es:       es,
		provider: provider,
		logger:   log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperr.Invalid("product.Create", "name is required")
	}
	if input.Barcode != "" {
		unique, err := uc.repo.IsBarcodeUnique(ctx, input.Barcode, "")
		if err != nil {
			return nil, err
		}
		if !unique {
			return nil, apperr.New("product.Create", apperr.ErrConflict, "barcode already exists")
		}
	}

	now := time.Now()
	p := &model.Product{
		BaseModel:      model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Barcode:        optional(input.Barcode),
		Name:           strings.TrimSpace(input.Name),
		Brand:          input.Brand,
		CategoryID:     optional(input.CategoryID),
		Category:       input.Category,
		ServingSize:    input.ServingSize,
		Calories:       input.Calories,
		ProteinG:       input.ProteinG,
		CarbsG:         input.CarbsG,
		FatG:           input.FatG,
		Source:         model.ProductSourceManual,
		Verified:       input.Verified,
		IsActive:       true,
		EstimatedPrice: input.EstimatedPrice,
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	uc.invalidateListCache(ctx)
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("product.Get", "product")
	}
	return p, nil
}

type cachedList struct {
	Products []model.Product
	Count    int
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	cacheKey, err := generateCacheKey(filters)
	if err == nil {
		if val, err := uc.cache.Get(ctx, cacheKey); err == nil {
			var hit cachedList
			if err := json.Unmarshal(val, &hit); err == nil {
				return hit.Products, hit.Count, nil
			}
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		products, total, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return products, total, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" {
		if data, err := json.Marshal(cachedList{Products: products, Count: count}); err == nil {
			if err := uc.cache.Set(ctx, cacheKey, data, listCacheTTL); err != nil {
				uc.logger.Warn("failed to cache product list", zap.Error(err))
			}
		}
	}
	return products, count, nil
}

func (uc *productUseCase) searchElastic(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	q := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": []map[string]any{
					{
						"query_string": map[string]any{
							"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
							"fields": []string{"name^3", "brand^2", "barcode", "category"},
						},
					},
				},
				"filter": []map[string]any{
					{"term": map[string]any{"is_active": true}},
				},
			},
		},
	}
	if filters.PageSize > 0 {
		q["size"] = filters.PageSize
		q["from"] = (max(filters.Page, 1) - 1) * filters.PageSize
	}

	res, err := uc.es.Search(ctx, indexName, q)
	if err != nil {
		return nil, 0, err
	}
	products := make([]model.Product, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err == nil {
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("product.Update", "product")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperr.Invalid("product.Update", "name is required")
	}

	current := ""
	if p.Barcode != nil {
		current = *p.Barcode
	}
	if input.Barcode != "" && input.Barcode != current {
		unique, err := uc.repo.IsBarcodeUnique(ctx, input.Barcode, p.ID)
		if err != nil {
			return nil, err
		}
		if !unique {
			return nil, apperr.New("product.Update", apperr.ErrConflict, "barcode already exists")
		}
	}

	p.Barcode = optional(input.Barcode)
	p.Name = strings.TrimSpace(input.Name)
	p.Brand = input.Brand
	p.CategoryID = optional(input.CategoryID)
	p.Category = input.Category
	p.ServingSize = input.ServingSize
	p.Calories = input.Calories
	p.ProteinG = input.ProteinG
	p.CarbsG = input.CarbsG
	p.FatG = input.FatG
	p.Verified = input.Verified
	p.IsActive = input.IsActive
	p.EstimatedPrice = input.EstimatedPrice
	p.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	uc.invalidateListCache(ctx)
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return nil // already deleted
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.invalidateListCache(ctx)
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), indexName, id); err != nil {
				uc.logger.Error("failed to delete product from ES", zap.Error(err))
			}
		}()
	}
	return nil
}

func (uc *productUseCase) LookupBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, apperr.Invalid("product.LookupBarcode", "barcode is required")
	}

	p, err := uc.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if p != nil || uc.provider == nil {
		return p, nil
	}

	food, err := uc.provider.LookupBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, openfoodfacts.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("external barcode lookup: %w", err)
	}

	now := time.Now()
	p = &model.Product{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Barcode:     &barcode,
		Name:        food.Description,
		Brand:       food.Brand,
		Category:    food.Category,
		ServingSize: food.ServingSize,
		Calories:    food.Calories,
		ProteinG:    food.ProteinG,
		CarbsG:      food.CarbsG,
		FatG:        food.FatG,
		Source:      model.ProductSourceOpenFoodFacts,
		IsActive:    true,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		// A concurrent scan may have stored it first; the lookup result is still valid.
		uc.logger.Warn("failed to store looked-up product", zap.String("barcode", barcode), zap.Error(err))
		return p, nil
	}
	uc.invalidateListCache(ctx)
	go uc.syncToElastic(context.Background(), p)

	uc.logger.Info("product imported from openfoodfacts", zap.String("barcode", barcode), zap.String("product_id", p.ID))
	return p, nil
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}
	_ = uc.es.CreateIndex(ctx, indexName, indexMapping)
	if err := uc.es.Index(ctx, indexName, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (uc *productUseCase) invalidateListCache(ctx context.Context) {
	if err := uc.cache.DeletePattern(ctx, "products:list:*"); err != nil {
		uc.logger.Warn("failed to invalidate product cache", zap.Error(err))
	}
}

func generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("products:list:%x", md5.Sum(data)), nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
