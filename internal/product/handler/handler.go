package handler

import (
	"net/http"

	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/internal/product"
	"github.com/fekuna/wlpl-service/internal/product/dto"
	"github.com/fekuna/wlpl-service/pkg/apperr"
	"github.com/fekuna/wlpl-service/pkg/httpx"
	"github.com/fekuna/wlpl-service/pkg/logger"
	"go.uber.org/zap"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input dto.CreateProductInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}

	p, err := h.uc.CreateProduct(r.Context(), &input)
	if err != nil {
		h.logger.Warn("failed to create product", zap.Error(err))
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.uc.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &dto.ProductFilters{
		CategoryID:  q.Get("category_id"),
		IsActive:    httpx.QueryBool(r, "is_active"),
		Verified:    httpx.QueryBool(r, "verified"),
		SearchQuery: q.Get("q"),
		SortBy:      q.Get("sort_by"),
		SortOrder:   q.Get("sort_order"),
	}
	filters.Page, filters.PageSize = httpx.Paging(r, 20)

	products, count, err := h.uc.ListProducts(r.Context(), filters)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	httpx.JSON(w, http.StatusOK, httpx.Page[model.Product]{Items: products, Total: count, Page: filters.Page, PageSize: filters.PageSize})
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var input dto.UpdateProductInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	input.ID = r.PathValue("id")

	p, err := h.uc.UpdateProduct(r.Context(), &input)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.NoContent(w)
}

func (h *ProductHandler) LookupBarcode(w http.ResponseWriter, r *http.Request) {
	p, err := h.uc.LookupBarcode(r.Context(), r.PathValue("barcode"))
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if p == nil {
		httpx.Error(w, r, h.logger, apperr.NotFound("product.LookupBarcode", "product"))
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}
