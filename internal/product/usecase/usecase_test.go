package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/internal/product/dto"
	"github.com/fekuna/wlpl-service/internal/product/lookup/openfoodfacts"
	"github.com/fekuna/wlpl-service/pkg/apperr"
	"github.com/fekuna/wlpl-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu       sync.Mutex
	products map[string]*model.Product
	listHits int
}

func newMemRepo() *memRepo { return &memRepo{products: map[string]*model.Product{}} }

func (m *memRepo) Create(_ context.Context, p *model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id string) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *memRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.Barcode != nil && *p.Barcode == barcode {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memRepo) FindAll(_ context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listHits++
	var out []model.Product
	for _, p := range m.products {
		if f.SearchQuery == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.SearchQuery)) {
			out = append(out, *p)
		}
	}
	return out, len(out), nil
}

func (m *memRepo) Update(ctx context.Context, p *model.Product) error { return m.Create(ctx, p) }

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, id)
	return nil
}

func (m *memRepo) IsBarcodeUnique(ctx context.Context, barcode, excludeID string) (bool, error) {
	p, _ := m.FindByBarcode(ctx, barcode)
	return p == nil || p.ID == excludeID, nil
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, errors.New("miss")
	}
	return v, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) DeletePattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

type fakeProvider struct {
	food  openfoodfacts.FoodLookup
	err   error
	calls int
}

func (f *fakeProvider) LookupBarcode(_ context.Context, _ string) (openfoodfacts.FoodLookup, error) {
	f.calls++
	return f.food, f.err
}

func TestLookupBarcodePrefersLocalProduct(t *testing.T) {
	repo := newMemRepo()
	provider := &fakeProvider{}
	uc := NewProductUseCase(repo, newMemCache(), nil, provider, logger.NewNop())
	ctx := context.Background()

	_, err := uc.CreateProduct(ctx, &dto.CreateProductInput{Name: "Milk", Barcode: "012345", Category: "Dairy"})
	require.NoError(t, err)

	p, err := uc.LookupBarcode(ctx, "012345")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Milk", p.Name)
	assert.Equal(t, 0, provider.calls)
}

func TestLookupBarcodeImportsExternalProduct(t *testing.T) {
	repo := newMemRepo()
	provider := &fakeProvider{food: openfoodfacts.FoodLookup{Description: "Oat Milk", Brand: "Oatly", Category: "Plant milks", Calories: 120}}
	uc := NewProductUseCase(repo, newMemCache(), nil, provider, logger.NewNop())
	ctx := context.Background()

	p, err := uc.LookupBarcode(ctx, "777")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, model.ProductSourceOpenFoodFacts, p.Source)

	stored, err := repo.FindByBarcode(ctx, "777")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Oat Milk", stored.Name)

	// second lookup is served locally
	_, err = uc.LookupBarcode(ctx, "777")
	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)
}

func TestLookupBarcodeUnknown(t *testing.T) {
	uc := NewProductUseCase(newMemRepo(), newMemCache(), nil, &fakeProvider{err: openfoodfacts.ErrNotFound}, logger.NewNop())

	p, err := uc.LookupBarcode(context.Background(), "999")
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = uc.LookupBarcode(context.Background(), " ")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestLookupBarcodeProviderFailure(t *testing.T) {
	uc := NewProductUseCase(newMemRepo(), newMemCache(), nil, &fakeProvider{err: errors.New("timeout")}, logger.NewNop())

	_, err := uc.LookupBarcode(context.Background(), "999")
	assert.Error(t, err)
}

func TestCreateProductRejectsDuplicateBarcode(t *testing.T) {
	uc := NewProductUseCase(newMemRepo(), newMemCache(), nil, nil, logger.NewNop())
	ctx := context.Background()

	_, err := uc.CreateProduct(ctx, &dto.CreateProductInput{Name: "Milk", Barcode: "1"})
	require.NoError(t, err)
	_, err = uc.CreateProduct(ctx, &dto.CreateProductInput{Name: "Other Milk", Barcode: "1"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestListProductsUsesCacheUntilInvalidated(t *testing.T) {
	repo := newMemRepo()
	uc := NewProductUseCase(repo, newMemCache(), nil, nil, logger.NewNop())
	ctx := context.Background()

	_, err := uc.CreateProduct(ctx, &dto.CreateProductInput{Name: "Bread"})
	require.NoError(t, err)

	filters := &dto.ProductFilters{Page: 1, PageSize: 10}
	_, n, err := uc.ListProducts(ctx, filters)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, _, err = uc.ListProducts(ctx, filters)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listHits)

	_, err = uc.CreateProduct(ctx, &dto.CreateProductInput{Name: "Butter"})
	require.NoError(t, err)
	_, n, err = uc.ListProducts(ctx, filters)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, repo.listHits)
}
