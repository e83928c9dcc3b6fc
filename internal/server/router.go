package server

import (
	"net/http"

	analyticsH "github.com/fekuna/wlpl-service/internal/analytics/handler"
	"github.com/fekuna/wlpl-service/internal/auth"
	catH "github.com/fekuna/wlpl-service/internal/category/handler"
	dashH "github.com/fekuna/wlpl-service/internal/dashboard/handler"
	decH "github.com/fekuna/wlpl-service/internal/decision/handler"
	orderH "github.com/fekuna/wlpl-service/internal/order/handler"
	perkH "github.com/fekuna/wlpl-service/internal/perk/handler"
	prodH "github.com/fekuna/wlpl-service/internal/product/handler"
	shopH "github.com/fekuna/wlpl-service/internal/shopping/handler"
	supportH "github.com/fekuna/wlpl-service/internal/support/handler"
	"github.com/fekuna/wlpl-service/pkg/httpx"
	"github.com/fekuna/wlpl-service/pkg/logger"
	"github.com/fekuna/wlpl-service/pkg/middleware"
)

const serviceName = "wlpl-service"

type Handlers struct {
	Shopping  *shopH.ShoppingHandler
	Orders    *orderH.OrderHandler
	Decisions *decH.DecisionHandler
	Perks     *perkH.PerkHandler
	Products  *prodH.ProductHandler
	Category  *catH.CategoryHandler
	Analytics *analyticsH.AnalyticsHandler
	Dashboard *dashH.DashboardHandler
	Support   *supportH.SupportHandler
}

// NewRouter registers every route and wraps the mux with the middleware chain.
// Identity comes from gateway headers; user routes need a caller, admin routes
// need the admin role.
func NewRouter(h *Handlers, log logger.ZapLogger, devMode bool) http.Handler {
	mux := http.NewServeMux()

	user := func(fn http.HandlerFunc) http.HandlerFunc { return auth.RequireUser(log, fn) }
	admin := func(fn http.HandlerFunc) http.HandlerFunc { return auth.RequireAdmin(log, fn) }
	staff := func(fn http.HandlerFunc) http.HandlerFunc {
		return auth.RequireRole(log, fn, auth.RoleAdmin, auth.RoleShopper)
	}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Shopping list & inventory
	mux.HandleFunc("GET /api/shopping/items", user(h.Shopping.ListItems))
	mux.HandleFunc("POST /api/shopping/items", user(h.Shopping.AddItem))
	mux.HandleFunc("POST /api/shopping/scan", user(h.Shopping.ScanItem))
	mux.HandleFunc("POST /api/shopping/items/{id}/needed", user(h.Shopping.MarkNeeded))
	mux.HandleFunc("POST /api/shopping/items/{id}/purchase", user(h.Shopping.MarkPurchased))
	mux.HandleFunc("POST /api/shopping/items/{id}/consume", user(h.Shopping.ConsumeItem))
	mux.HandleFunc("DELETE /api/shopping/items/{id}", user(h.Shopping.DeleteItem))
	mux.HandleFunc("GET /api/shopping/items/{id}/movements", user(h.Shopping.ListMovements))
	mux.HandleFunc("GET /api/shopping/orphans", user(h.Shopping.ListOrphans))
	mux.HandleFunc("POST /api/shopping/orphans/{id}/repair", user(h.Shopping.RepairOrphan))
	mux.HandleFunc("POST /api/shopping/orphans/repair", user(h.Shopping.RepairAllOrphans))

	// Shop & deliver
	mux.HandleFunc("POST /api/orders", user(h.Orders.CreateOrder))
	mux.HandleFunc("GET /api/orders", user(h.Orders.ListOrders))
	mux.HandleFunc("GET /api/orders/{id}", user(h.Orders.GetOrder))
	mux.HandleFunc("GET /api/orders/{id}/timeline", user(h.Orders.Timeline))
	mux.HandleFunc("POST /api/orders/{id}/submit", user(h.Orders.Submit))
	mux.HandleFunc("POST /api/orders/{id}/cancel", user(h.Orders.Cancel))
	mux.HandleFunc("POST /api/orders/{id}/confirm-delivery", staff(h.Orders.ConfirmDelivery))
	mux.HandleFunc("GET /api/admin/orders", staff(h.Orders.ListAllOrders))
	mux.HandleFunc("GET /api/admin/orders/{id}", staff(h.Orders.GetAnyOrder))
	mux.HandleFunc("POST /api/admin/orders/{id}/transition", staff(h.Orders.Transition))

	// AI decision review
	mux.HandleFunc("GET /api/admin/ai-decisions", admin(h.Decisions.ListDecisions))
	mux.HandleFunc("GET /api/admin/ai-decisions/stats", admin(h.Decisions.Stats))
	mux.HandleFunc("GET /api/admin/ai-decisions/{id}", admin(h.Decisions.GetDecision))
	mux.HandleFunc("POST /api/admin/ai-decisions/{id}/review", admin(h.Decisions.ReviewDecision))

	// Perks
	mux.HandleFunc("GET /api/admin/perks", admin(h.Perks.ListPerks))
	mux.HandleFunc("POST /api/admin/perks", admin(h.Perks.CreatePerk))
	mux.HandleFunc("PUT /api/admin/perks/{id}", admin(h.Perks.UpdatePerk))
	mux.HandleFunc("POST /api/admin/perks/{id}/enabled", admin(h.Perks.SetEnabled))
	mux.HandleFunc("GET /api/perks", user(h.Perks.ListAvailable))
	mux.HandleFunc("POST /api/perks/{id}/redeem", user(h.Perks.Redeem))

	// Product database
	mux.HandleFunc("GET /api/admin/products", admin(h.Products.ListProducts))
	mux.HandleFunc("POST /api/admin/products", admin(h.Products.CreateProduct))
	mux.HandleFunc("GET /api/admin/products/{id}", admin(h.Products.GetProduct))
	mux.HandleFunc("PUT /api/admin/products/{id}", admin(h.Products.UpdateProduct))
	mux.HandleFunc("DELETE /api/admin/products/{id}", admin(h.Products.DeleteProduct))
	mux.HandleFunc("GET /api/products/barcode/{barcode}", user(h.Products.LookupBarcode))

	// Categories
	mux.HandleFunc("GET /api/admin/categories", admin(h.Category.ListCategories))
	mux.HandleFunc("POST /api/admin/categories", admin(h.Category.CreateCategory))
	mux.HandleFunc("PUT /api/admin/categories/{id}", admin(h.Category.UpdateCategory))
	mux.HandleFunc("DELETE /api/admin/categories/{id}", admin(h.Category.DeleteCategory))
	mux.HandleFunc("GET /api/categories/classify", user(h.Category.Classify))

	// Analytics
	mux.HandleFunc("GET /api/admin/analytics", admin(h.Analytics.Summary))
	mux.HandleFunc("GET /api/admin/users/{uid}/analytics", admin(h.Analytics.UserAnalytics))

	// Consumer dashboard
	mux.HandleFunc("GET /api/me/dashboard", user(h.Dashboard.Dashboard))
	mux.HandleFunc("GET /api/me/profile", user(h.Dashboard.GetProfile))
	mux.HandleFunc("PUT /api/me/profile", user(h.Dashboard.UpdateProfile))
	mux.HandleFunc("POST /api/me/weights", user(h.Dashboard.LogWeight))
	mux.HandleFunc("POST /api/me/meals", user(h.Dashboard.LogMeal))
	mux.HandleFunc("POST /api/me/steps", user(h.Dashboard.LogSteps))

	// Support
	mux.HandleFunc("GET /api/support/faqs", h.Support.ListFAQs)
	mux.HandleFunc("GET /api/support/faqs/categories", h.Support.Categories)

	return middleware.Chain(mux,
		middleware.Recover(log),
		middleware.Tracing(serviceName, "/healthz"),
		middleware.Logging(log, devMode),
		auth.Middleware,
	)
}
