package handler

import (
	"net/http"

	"github.com/fekuna/wlpl-service/internal/auth"
	"github.com/fekuna/wlpl-service/internal/decision"
	"github.com/fekuna/wlpl-service/internal/decision/dto"
	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/pkg/httpx"
	"github.com/fekuna/wlpl-service/pkg/logger"
)

type DecisionHandler struct {
	uc     decision.UseCase
	logger logger.ZapLogger
}

func NewDecisionHandler(uc decision.UseCase, log logger.ZapLogger) *DecisionHandler {
	return &DecisionHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *DecisionHandler) ListDecisions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &dto.DecisionFilters{
		ReviewStatus:  model.ReviewStatus(q.Get("review_status")),
		DecisionType:  q.Get("decision_type"),
		UserID:        q.Get("user_id"),
		MinConfidence: httpx.QueryFloat(r, "min_confidence"),
		MaxConfidence: httpx.QueryFloat(r, "max_confidence"),
	}
	filters.Page, filters.PageSize = httpx.Paging(r, 25)

	views, count, err := h.uc.List(r.Context(), filters)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Page[dto.DecisionView]{Items: views, Total: count, Page: filters.Page, PageSize: filters.PageSize})
}

func (h *DecisionHandler) GetDecision(w http.ResponseWriter, r *http.Request) {
	v, err := h.uc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, v)
}

func (h *DecisionHandler) ReviewDecision(w http.ResponseWriter, r *http.Request) {
	var input dto.ReviewInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	input.ID = r.PathValue("id")
	input.Reviewer = auth.GetUserID(r.Context())

	v, err := h.uc.Review(r.Context(), &input)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, v)
}

func (h *DecisionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var rg dto.Range
	rg.From, rg.To = httpx.DateRange(r)

	s, err := h.uc.Stats(r.Context(), rg)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}
