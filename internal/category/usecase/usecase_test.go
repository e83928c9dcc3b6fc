package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/fekuna/wlpl-service/internal/category/dto"
	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/pkg/apperr"
	"github.com/fekuna/wlpl-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	byID map[string]*model.Category
}

func newMemRepo() *memRepo { return &memRepo{byID: map[string]*model.Category{}} }

func (m *memRepo) Create(_ context.Context, c *model.Category) error {
	m.byID[c.ID] = c
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id string) (*model.Category, error) {
	return m.byID[id], nil
}

func (m *memRepo) FindByName(_ context.Context, name string) (*model.Category, error) {
	for _, c := range m.byID {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, nil
}

func (m *memRepo) FindAll(_ context.Context, f *dto.CategoryFilters) ([]model.Category, int, error) {
	var out []model.Category
	for _, c := range m.byID {
		if f.ParentID != nil {
			if *f.ParentID == "" && c.ParentID != nil {
				continue
			}
			if *f.ParentID != "" && (c.ParentID == nil || *c.ParentID != *f.ParentID) {
				continue
			}
		}
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *memRepo) Update(_ context.Context, c *model.Category) error {
	m.byID[c.ID] = c
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

func TestClassifyPrefersStoredCategory(t *testing.T) {
	repo := newMemRepo()
	uc := NewCategoryUseCase(repo, logger.NewNop())
	ctx := context.Background()

	// Stored record overrides the keyword fallback.
	_, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "Frozen Desserts", Perishable: false})
	require.NoError(t, err)

	got, err := uc.Classify(ctx, "frozen desserts")
	require.NoError(t, err)
	assert.True(t, got.Known)
	assert.False(t, got.Perishable)
}

func TestClassifyFallsBackToKeywords(t *testing.T) {
	uc := NewCategoryUseCase(newMemRepo(), logger.NewNop())

	tests := []struct {
		name       string
		perishable bool
	}{
		{"Dairy & Eggs", true},
		{"Dairies", true},
		{"Bakeries", true},
		{"Cheeses", true},
		{"Yoghurts", true},
		{"Vegetables", true},
		{"Fresh Produce", true},
		{"Seafood", true},
		{"Canned Goods", false},
		{"Snacks", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := uc.Classify(context.Background(), tt.name)
			require.NoError(t, err)
			assert.False(t, got.Known)
			assert.Equal(t, tt.perishable, got.Perishable)
		})
	}
}

func TestCreateCategoryValidation(t *testing.T) {
	uc := NewCategoryUseCase(newMemRepo(), logger.NewNop())
	ctx := context.Background()

	_, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "  "})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	missing := "nope"
	_, err = uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "Cheese", ParentID: &missing})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListCategoriesIncludesChildren(t *testing.T) {
	uc := NewCategoryUseCase(newMemRepo(), logger.NewNop())
	ctx := context.Background()

	root, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "Dairy", Perishable: true})
	require.NoError(t, err)
	_, err = uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "Cheese", ParentID: &root.ID, Perishable: true})
	require.NoError(t, err)

	empty := ""
	cats, _, err := uc.ListCategories(ctx, &dto.CategoryFilters{ParentID: &empty, IncludeChildren: true})
	require.NoError(t, err)
	require.Len(t, cats, 1)
	require.Len(t, cats[0].Children, 1)
	assert.Equal(t, "Cheese", cats[0].Children[0].Name)
}
