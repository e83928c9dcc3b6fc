package handler

import (
	"net/http"

	"github.com/fekuna/wlpl-service/internal/auth"
	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/internal/perk"
	"github.com/fekuna/wlpl-service/internal/perk/dto"
	"github.com/fekuna/wlpl-service/pkg/httpx"
	"github.com/fekuna/wlpl-service/pkg/logger"
	"go.uber.org/zap"
)

type PerkHandler struct {
	uc     perk.UseCase
	logger logger.ZapLogger
}

func NewPerkHandler(uc perk.UseCase, log logger.ZapLogger) *PerkHandler {
	return &PerkHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *PerkHandler) ListPerks(w http.ResponseWriter, r *http.Request) {
	filters := &dto.PerkFilters{
		Enabled: httpx.QueryBool(r, "enabled"),
		Tier:    model.PerkTier(r.URL.Query().Get("tier")),
	}
	filters.Page, filters.PageSize = httpx.Paging(r, 20)

	perks, count, err := h.uc.ListPerks(r.Context(), filters)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Page[dto.AdminPerk]{Items: perks, Total: count, Page: filters.Page, PageSize: filters.PageSize})
}

func (h *PerkHandler) CreatePerk(w http.ResponseWriter, r *http.Request) {
	var input dto.PerkInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}

	p, err := h.uc.CreatePerk(r.Context(), &input)
	if err != nil {
		h.logger.Warn("failed to create perk", zap.Error(err))
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *PerkHandler) UpdatePerk(w http.ResponseWriter, r *http.Request) {
	var input dto.PerkInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	input.ID = r.PathValue("id")

	p, err := h.uc.UpdatePerk(r.Context(), &input)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *PerkHandler) SetEnabled(w http.ResponseWriter, r *http.Request) {
	var input dto.SetEnabledInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}

	p, err := h.uc.SetEnabled(r.Context(), r.PathValue("id"), input.Enabled)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *PerkHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	perks, err := h.uc.ListAvailable(r.Context(), auth.GetUserID(r.Context()))
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if perks == nil {
		perks = []model.Perk{}
	}
	httpx.JSON(w, http.StatusOK, perks)
}

func (h *PerkHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	res, err := h.uc.Redeem(r.Context(), auth.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}
