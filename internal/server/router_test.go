package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/wlpl-service/internal/support"
	supportH "github.com/fekuna/wlpl-service/internal/support/handler"
	"github.com/fekuna/wlpl-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Only the support handler is real; guarded routes must reject the caller
// before any other handler is reached.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	catalog, err := support.DefaultCatalog()
	require.NoError(t, err)
	return NewRouter(&Handlers{Support: supportH.NewSupportHandler(catalog)}, logger.NewNop(), false)
}

func do(h http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := do(newTestRouter(t), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAccessControl(t *testing.T) {
	router := newTestRouter(t)
	consumer := map[string]string{"X-User-ID": "u1"}
	shopper := map[string]string{"X-User-ID": "s1", "X-User-Role": "shopper"}

	tests := []struct {
		name    string
		method  string
		path    string
		headers map[string]string
		want    int
	}{
		{"anonymous shopping list", http.MethodGet, "/api/shopping/items", nil, http.StatusUnauthorized},
		{"anonymous dashboard", http.MethodGet, "/api/me/dashboard", nil, http.StatusUnauthorized},
		{"consumer on decisions", http.MethodGet, "/api/admin/ai-decisions", consumer, http.StatusForbidden},
		{"consumer on analytics", http.MethodGet, "/api/admin/analytics", consumer, http.StatusForbidden},
		{"consumer moves an order", http.MethodPost, "/api/admin/orders/o1/transition", consumer, http.StatusForbidden},
		{"consumer confirms delivery", http.MethodPost, "/api/orders/o1/confirm-delivery", consumer, http.StatusForbidden},
		{"shopper on perks admin", http.MethodPost, "/api/admin/perks", shopper, http.StatusForbidden},
		{"unknown route", http.MethodGet, "/api/nope", consumer, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(router, tt.method, tt.path, tt.headers)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestForbiddenBody(t *testing.T) {
	rec := do(newTestRouter(t), http.MethodGet, "/api/admin/perks", map[string]string{"X-User-ID": "u1"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"forbidden","message":"Access denied"}}`, rec.Body.String())
}

func TestSupportIsPublic(t *testing.T) {
	rec := do(newTestRouter(t), http.MethodGet, "/api/support/faqs?q=pin", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Items []support.FAQ `json:"items"`
		Total int           `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, "delivery-pin", page.Items[0].ID)
}
