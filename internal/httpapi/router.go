package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers collects the per-domain handlers the router mounts.
type Handlers struct {
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Payments *PaymentsHandler
	AI       *AIHandler
	Upload   *UploadHandler
	Orders   *OrderHandler
}

type RouterConfig struct {
	CORSAllowOrigins []string
	AdminJWTSecret   string
}

func NewRouter(h Handlers, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(CorrelationID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(CORS(cfg.CORSAllowOrigins))

	r.Get("/health", Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/stores", h.Catalog.ListStores)
		r.Get("/stores/{storeId}", h.Catalog.GetStore)
		r.Get("/stores/{storeId}/items", h.Catalog.ListItems)
		r.Get("/items/{itemId}", h.Catalog.GetItem)
		r.Get("/departments", h.Catalog.ListDepartments)
		r.Get("/delivery-slots", h.Catalog.ListDeliverySlots)

		r.Route("/cart/{cartId}", func(r chi.Router) {
			r.Get("/", h.Cart.Get)
			r.Delete("/", h.Cart.Clear)
			r.Get("/summary", h.Cart.Summary)
			r.Post("/items", h.Cart.AddItem)
			r.Put("/items/{itemId}", h.Cart.UpdateQuantity)
			r.Delete("/items/{itemId}", h.Cart.RemoveItem)
		})

		r.Post("/checkout/{cartId}", h.Checkout.Checkout)

		r.Post("/payments/checkout-session", h.Payments.CreateSession)
		r.Post("/payments/webhook", h.Payments.Webhook)

		r.Post("/ai", h.AI.Generate)
		r.Post("/upload", h.Upload.Upload)

		r.Get("/orders/{orderId}", h.Orders.GetOrder)
		r.Get("/users/{userId}/orders", h.Orders.ListOrdersByUser)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuth(cfg.AdminJWTSecret))
			r.Post("/admin/stores", h.Catalog.UpsertStore)
			r.Post("/admin/items", h.Catalog.UpsertItem)
			r.Put("/admin/orders/{orderId}/status", h.Orders.UpdateStatus)
		})
	})

	return r
}

func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "ai-groceries"})
}
