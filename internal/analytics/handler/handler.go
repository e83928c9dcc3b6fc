package handler

import (
	"net/http"

	"github.com/fekuna/wlpl-service/internal/analytics"
	"github.com/fekuna/wlpl-service/internal/analytics/dto"
	"github.com/fekuna/wlpl-service/pkg/httpx"
	"github.com/fekuna/wlpl-service/pkg/logger"
)

type AnalyticsHandler struct {
	uc     analytics.UseCase
	logger logger.ZapLogger
}

func NewAnalyticsHandler(uc analytics.UseCase, log logger.ZapLogger) *AnalyticsHandler {
	return &AnalyticsHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	var rg dto.Range
	rg.From, rg.To = httpx.DateRange(r)

	s, err := h.uc.Summary(r.Context(), rg)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

func (h *AnalyticsHandler) UserAnalytics(w http.ResponseWriter, r *http.Request) {
	var rg dto.Range
	rg.From, rg.To = httpx.DateRange(r)

	a, err := h.uc.UserAnalytics(r.Context(), r.PathValue("uid"), rg)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}
