package handler

import (
	"net/http"

	"github.com/fekuna/wlpl-service/internal/category"
	"github.com/fekuna/wlpl-service/internal/category/dto"
	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/pkg/httpx"
	"github.com/fekuna/wlpl-service/pkg/logger"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var input dto.CreateCategoryInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}

	cat, err := h.uc.CreateCategory(r.Context(), &input)
	if err != nil {
		h.logger.Warn("failed to create category", zap.Error(err))
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, cat)
}

func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &dto.CategoryFilters{
		IsActive:        httpx.QueryBool(r, "is_active"),
		Perishable:      httpx.QueryBool(r, "perishable"),
		IncludeChildren: q.Get("include_children") == "true",
	}
	filters.Page, filters.PageSize = httpx.Paging(r, 0)
	if q.Has("parent_id") {
		parentID := q.Get("parent_id")
		filters.ParentID = &parentID
	}

	cats, count, err := h.uc.ListCategories(r.Context(), filters)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if cats == nil {
		cats = []model.Category{}
	}
	httpx.JSON(w, http.StatusOK, httpx.Page[model.Category]{Items: cats, Total: count, Page: filters.Page, PageSize: filters.PageSize})
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var input dto.UpdateCategoryInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	input.ID = r.PathValue("id")

	cat, err := h.uc.UpdateCategory(r.Context(), &input)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cat)
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.NoContent(w)
}

func (h *CategoryHandler) Classify(w http.ResponseWriter, r *http.Request) {
	out, err := h.uc.Classify(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}
