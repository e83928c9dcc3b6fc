package handler

import (
	"net/http"

	"github.com/fekuna/wlpl-service/internal/auth"
	"github.com/fekuna/wlpl-service/internal/dashboard"
	"github.com/fekuna/wlpl-service/internal/dashboard/dto"
	"github.com/fekuna/wlpl-service/pkg/httpx"
	"github.com/fekuna/wlpl-service/pkg/logger"
)

type DashboardHandler struct {
	uc     dashboard.UseCase
	logger logger.ZapLogger
}

func NewDashboardHandler(uc dashboard.UseCase, log logger.ZapLogger) *DashboardHandler {
	return &DashboardHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.uc.Dashboard(r.Context(), auth.GetUserID(r.Context()))
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

func (h *DashboardHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.uc.GetProfile(r.Context(), auth.GetUserID(r.Context()))
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *DashboardHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var input dto.ProfileInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	input.UserID = auth.GetUserID(r.Context())

	p, err := h.uc.UpdateProfile(r.Context(), &input)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *DashboardHandler) LogWeight(w http.ResponseWriter, r *http.Request) {
	var input dto.LogWeightInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	input.UserID = auth.GetUserID(r.Context())

	l, err := h.uc.LogWeight(r.Context(), &input)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, l)
}

func (h *DashboardHandler) LogMeal(w http.ResponseWriter, r *http.Request) {
	var input dto.LogMealInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	input.UserID = auth.GetUserID(r.Context())

	l, err := h.uc.LogMeal(r.Context(), &input)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, l)
}

func (h *DashboardHandler) LogSteps(w http.ResponseWriter, r *http.Request) {
	var input dto.LogStepsInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	input.UserID = auth.GetUserID(r.Context())

	l, err := h.uc.LogSteps(r.Context(), &input)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, l)
}
