package handler

import (
	"net/http"

	"github.com/fekuna/wlpl-service/internal/auth"
	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/internal/order"
	"github.com/fekuna/wlpl-service/internal/order/dto"
	"github.com/fekuna/wlpl-service/pkg/httpx"
	"github.com/fekuna/wlpl-service/pkg/logger"
	"go.uber.org/zap"
)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var input dto.CreateOrderInput
	if err := httpx.DecodeOptional(r, &input); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	input.UserID = auth.GetUserID(r.Context())

	o, err := h.uc.CreateDraft(r.Context(), &input)
	if err != nil {
		h.logger.Warn("failed to create order", zap.Error(err))
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, o)
}

// ListOrders lists the caller's own orders.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	filters := listFilters(r)
	filters.UserID = auth.GetUserID(r.Context())
	h.list(w, r, filters)
}

// ListAllOrders is the staff view. Shoppers only see orders assigned to them.
func (h *OrderHandler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	filters := listFilters(r)
	filters.UserID = r.URL.Query().Get("user_id")
	filters.ShopperID = r.URL.Query().Get("shopper_id")
	if id := auth.FromContext(r.Context()); id.Role == auth.RoleShopper && filters.Status != model.OrderStatusSubmitted {
		filters.ShopperID = id.UserID
	}
	h.list(w, r, filters)
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request, filters *dto.OrderFilters) {
	orders, count, err := h.uc.ListOrders(r.Context(), filters)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}
	httpx.JSON(w, http.StatusOK, httpx.Page[model.Order]{Items: orders, Total: count, Page: filters.Page, PageSize: filters.PageSize})
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.uc.GetOrder(r.Context(), auth.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *OrderHandler) GetAnyOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.uc.GetOrder(r.Context(), "", r.PathValue("id"))
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *OrderHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	t, err := h.uc.Timeline(r.Context(), auth.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}

func (h *OrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	o, err := h.uc.Submit(r.Context(), auth.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var input dto.CancelInput
	if err := httpx.DecodeOptional(r, &input); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	input.UserID = auth.GetUserID(r.Context())
	input.ID = r.PathValue("id")

	o, err := h.uc.Cancel(r.Context(), &input)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *OrderHandler) Transition(w http.ResponseWriter, r *http.Request) {
	var input dto.TransitionInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	input.ID = r.PathValue("id")
	input.Actor = auth.GetUserID(r.Context())

	o, err := h.uc.Transition(r.Context(), &input)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *OrderHandler) ConfirmDelivery(w http.ResponseWriter, r *http.Request) {
	var input dto.ConfirmDeliveryInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	input.ID = r.PathValue("id")
	input.Actor = auth.GetUserID(r.Context())

	o, err := h.uc.ConfirmDelivery(r.Context(), &input)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func listFilters(r *http.Request) *dto.OrderFilters {
	f := &dto.OrderFilters{Status: model.OrderStatus(r.URL.Query().Get("status"))}
	f.Page, f.PageSize = httpx.Paging(r, 20)
	f.From, f.To = httpx.DateRange(r)
	return f
}
