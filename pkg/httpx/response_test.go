package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/wlpl-service/pkg/apperr"
	"github.com/fekuna/wlpl-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMapsKindsToStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"not found", apperr.NotFound("op", "item"), http.StatusNotFound, "not_found", "item not found"},
		{"invalid", apperr.Invalid("op", "notes are required"), http.StatusBadRequest, "invalid_input", "notes are required"},
		{"transition", apperr.New("op", apperr.ErrInvalidTransition, "cannot submit"), http.StatusConflict, "invalid_transition", "cannot submit"},
		{"forbidden", apperr.New("op", apperr.ErrForbidden, "Access denied"), http.StatusForbidden, "forbidden", "Access denied"},
		{"busy", apperr.New("op", apperr.ErrBusy, "try again"), http.StatusServiceUnavailable, "busy", "try again"},
		{"raw error is hidden", fmt.Errorf("pq: relation does not exist"), http.StatusInternalServerError, "internal", "Internal Server Error"},
		{"internal apperr is hidden", apperr.Wrap("op", errors.New("x"), "db exploded", errors.New("y")), http.StatusInternalServerError, "internal", "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/x", nil)

			Error(rec, req, logger.NewNop(), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, tt.wantMsg, body.Error.Message)
		})
	}
}

func TestDateRange(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?from=2026-03-01&to=2026-03-31", nil)
	from, to := DateRange(req)
	require.NotNil(t, from)
	require.NotNil(t, to)
	assert.Equal(t, "2026-03-01", from.Format("2006-01-02"))
	assert.Equal(t, "2026-04-01", to.Format("2006-01-02"))

	req = httptest.NewRequest(http.MethodGet, "/x?from=yesterday", nil)
	from, to = DateRange(req)
	assert.Nil(t, from)
	assert.Nil(t, to)
}

func TestPaging(t *testing.T) {
	tests := []struct {
		query    string
		wantPage int
		wantSize int
	}{
		{"", 1, 20},
		{"page=3&page_size=10", 3, 10},
		{"page=0", 1, 20},
		{"page=-4&page_size=-1", 1, 20},
		{"page_size=0", 1, 20},
		{"page_size=5000", 1, MaxPageSize},
		{"page=two", 1, 20},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x?"+tt.query, nil)
			page, size := Paging(req, 20)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantSize, size)
		})
	}
}
