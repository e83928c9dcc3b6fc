package handler

import (
	"net/http"

	"github.com/fekuna/wlpl-service/internal/auth"
	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/internal/shopping"
	"github.com/fekuna/wlpl-service/internal/shopping/dto"
	"github.com/fekuna/wlpl-service/pkg/httpx"
	"github.com/fekuna/wlpl-service/pkg/logger"
	"go.uber.org/zap"
)

type ShoppingHandler struct {
	uc     shopping.UseCase
	logger logger.ZapLogger
}

func NewShoppingHandler(uc shopping.UseCase, log logger.ZapLogger) *ShoppingHandler {
	return &ShoppingHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ShoppingHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	filters := &dto.ItemFilters{
		UserID:   auth.GetUserID(r.Context()),
		Needed:   httpx.QueryBool(r, "needed"),
		InStock:  httpx.QueryBool(r, "in_stock"),
		Category: r.URL.Query().Get("category"),
	}
	filters.Page, filters.PageSize = httpx.Paging(r, 50)

	items, count, err := h.uc.ListItems(r.Context(), filters)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if items == nil {
		items = []model.ShoppingItem{}
	}
	httpx.JSON(w, http.StatusOK, httpx.Page[model.ShoppingItem]{Items: items, Total: count, Page: filters.Page, PageSize: filters.PageSize})
}

func (h *ShoppingHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var input dto.AddItemInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	input.UserID = auth.GetUserID(r.Context())

	res, err := h.uc.AddItem(r.Context(), &input)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, res)
}

func (h *ShoppingHandler) ScanItem(w http.ResponseWriter, r *http.Request) {
	var input dto.ScanInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	input.UserID = auth.GetUserID(r.Context())

	res, err := h.uc.ScanItem(r.Context(), &input)
	if err != nil {
		h.logger.Warn("scan failed", zap.String("barcode", input.Barcode), zap.Error(err))
		httpx.Error(w, r, h.logger, err)
		return
	}

	status := http.StatusOK
	if res.Outcome == dto.OutcomeAddedToInventory {
		status = http.StatusCreated
	}
	httpx.JSON(w, status, res)
}

func (h *ShoppingHandler) MarkNeeded(w http.ResponseWriter, r *http.Request) {
	var input dto.MarkNeededInput
	if err := httpx.DecodeOptional(r, &input); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	input.UserID = auth.GetUserID(r.Context())
	input.ID = r.PathValue("id")

	res, err := h.uc.MarkNeeded(r.Context(), &input)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *ShoppingHandler) MarkPurchased(w http.ResponseWriter, r *http.Request) {
	var input dto.PurchaseInput
	if err := httpx.DecodeOptional(r, &input); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	input.UserID = auth.GetUserID(r.Context())
	input.ID = r.PathValue("id")

	res, err := h.uc.MarkPurchased(r.Context(), &input)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *ShoppingHandler) ConsumeItem(w http.ResponseWriter, r *http.Request) {
	var input dto.ConsumeInput
	if err := httpx.DecodeOptional(r, &input); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	input.UserID = auth.GetUserID(r.Context())
	input.ID = r.PathValue("id")

	item, err := h.uc.ConsumeItem(r.Context(), &input)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *ShoppingHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteItem(r.Context(), auth.GetUserID(r.Context()), r.PathValue("id")); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.NoContent(w)
}

func (h *ShoppingHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	movements, err := h.uc.ListMovements(r.Context(), auth.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if movements == nil {
		movements = []model.ItemMovement{}
	}
	httpx.JSON(w, http.StatusOK, movements)
}

func (h *ShoppingHandler) ListOrphans(w http.ResponseWriter, r *http.Request) {
	items, err := h.uc.ListOrphans(r.Context(), auth.GetUserID(r.Context()))
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if items == nil {
		items = []model.ShoppingItem{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *ShoppingHandler) RepairOrphan(w http.ResponseWriter, r *http.Request) {
	res, err := h.uc.RepairOrphan(r.Context(), auth.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *ShoppingHandler) RepairAllOrphans(w http.ResponseWriter, r *http.Request) {
	res, err := h.uc.RepairAllOrphans(r.Context(), auth.GetUserID(r.Context()))
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}
