package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/wlpl-service/internal/decision/dto"
	"github.com/fekuna/wlpl-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingUseCase struct {
	filters *dto.DecisionFilters
}

func (c *capturingUseCase) List(_ context.Context, f *dto.DecisionFilters) ([]dto.DecisionView, int, error) {
	c.filters = f
	return []dto.DecisionView{}, 0, nil
}

func (c *capturingUseCase) Get(context.Context, string) (*dto.DecisionView, error) {
	return nil, nil
}

func (c *capturingUseCase) Review(context.Context, *dto.ReviewInput) (*dto.DecisionView, error) {
	return nil, nil
}

func (c *capturingUseCase) Stats(context.Context, dto.Range) (*dto.Stats, error) {
	return &dto.Stats{}, nil
}

func TestListDecisionsNormalizesPaging(t *testing.T) {
	tests := []struct {
		query    string
		wantPage int
		wantSize int
	}{
		{"page=0", 1, 25},
		{"page=-2&page_size=-10", 1, 25},
		{"page=2&page_size=10", 2, 10},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			uc := &capturingUseCase{}
			h := NewDecisionHandler(uc, logger.NewNop())

			rec := httptest.NewRecorder()
			h.ListDecisions(rec, httptest.NewRequest(http.MethodGet, "/api/admin/ai-decisions?"+tt.query, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			require.NotNil(t, uc.filters)
			assert.Equal(t, tt.wantPage, uc.filters.Page)
			assert.Equal(t, tt.wantSize, uc.filters.PageSize)
		})
	}
}
