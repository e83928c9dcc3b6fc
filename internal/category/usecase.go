package category

import (
	"context"

	"github.com/fekuna/wlpl-service/internal/category/dto"
	"github.com/fekuna/wlpl-service/internal/model"
)

type UseCase interface {
	CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error)
	UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	// Classify tells whether products filed under name spoil and need an expiration date.
	Classify(ctx context.Context, name string) (*dto.Classification, error)
}
