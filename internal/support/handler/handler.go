package handler

import (
	"net/http"

	"github.com/fekuna/wlpl-service/internal/support"
	"github.com/fekuna/wlpl-service/pkg/httpx"
)

type SupportHandler struct {
	catalog *support.Catalog
}

func NewSupportHandler(catalog *support.Catalog) *SupportHandler {
	return &SupportHandler{catalog: catalog}
}

func (h *SupportHandler) ListFAQs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	faqs := h.catalog.Search(q.Get("q"), q.Get("category"))
	httpx.JSON(w, http.StatusOK, httpx.Page[support.FAQ]{Items: faqs, Total: len(faqs)})
}

func (h *SupportHandler) Categories(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.catalog.Categories())
}
