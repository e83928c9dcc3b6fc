package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/wlpl-service/internal/category"
	"github.com/fekuna/wlpl-service/internal/category/dto"
	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/pkg/apperr"
	"github.com/fekuna/wlpl-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// perishableKeywords decide perishability for category names with no stored record.
// Entries are stems so plural taxonomy names ("Dairies", "Bakeries") match too.
var perishableKeywords = []string{
	"dair", "milk", "chees", "yog", "egg",
	"meat", "poultr", "chicken", "beef", "pork",
	"seafood", "fish",
	"produce", "fruit", "vegetabl", "salad", "herb",
	"baker", "bread",
	"deli", "frozen", "refrigerat", "fresh",
}

// IsPerishableName applies the keyword fallback to a free-form category name.
func IsPerishableName(name string) bool {
	n := strings.ToLower(name)
	for _, kw := range perishableKeywords {
		if strings.Contains(n, kw) {
			return true
		}
	}
	return false
}

type categoryUseCase struct {
	repo   category.Repository
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperr.Invalid("category.Create", "name is required")
	}
	if input.ParentID != nil && *input.ParentID != "" {
		parent, err := uc.repo.FindByID(ctx, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, apperr.NotFound("category.Create", "parent category")
		}
	} else {
		input.ParentID = nil
	}

	now := time.Now()
	var desc *string
	if input.Description != "" {
		desc = &input.Description
	}
	c := &model.Category{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		ParentID:    input.ParentID,
		Name:        strings.TrimSpace(input.Name),
		Description: desc,
		Perishable:  input.Perishable,
		SortOrder:   input.SortOrder,
		IsActive:    true,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.logger.Info("category created", zap.String("category_id", c.ID), zap.String("name", c.Name))
	return c, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("category.Get", "category")
	}
	return c, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error) {
	cats, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	if !filters.IncludeChildren {
		return cats, count, nil
	}

	for i := range cats {
		parentID := cats[i].ID
		children, _, err := uc.repo.FindAll(ctx, &dto.CategoryFilters{ParentID: &parentID, IsActive: filters.IsActive})
		if err != nil {
			return nil, 0, err
		}
		cats[i].Children = children
	}
	return cats, count, nil
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	c, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("category.Update", "category")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperr.Invalid("category.Update", "name is required")
	}
	if input.ParentID != nil && *input.ParentID == c.ID {
		return nil, apperr.Invalid("category.Update", "a category cannot be its own parent")
	}

	c.ParentID = input.ParentID
	if c.ParentID != nil && *c.ParentID == "" {
		c.ParentID = nil
	}
	c.Name = strings.TrimSpace(input.Name)
	c.Description = nil
	if input.Description != "" {
		c.Description = &input.Description
	}
	c.Perishable = input.Perishable
	c.SortOrder = input.SortOrder
	c.IsActive = input.IsActive
	c.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *categoryUseCase) Classify(ctx context.Context, name string) (*dto.Classification, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return &dto.Classification{Name: "uncategorized"}, nil
	}

	c, err := uc.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return &dto.Classification{Name: c.Name, CategoryID: c.ID, Perishable: c.Perishable, Known: true}, nil
	}
	return &dto.Classification{Name: name, Perishable: IsPerishableName(name)}, nil
}
