package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Koalla18/TakeSmart/internal/auth"
	"github.com/Koalla18/TakeSmart/internal/middleware"
)

type RouterDeps struct {
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Catalog  *CatalogHandler
	Orders   *OrderHandler
	Auth     *AuthHandler
	AuthMgr  *auth.Manager

	CORSAllowOrigins []string
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.CORS(deps.CORSAllowOrigins))

	r.Get("/health", healthHandler)

	r.Post("/api/auth/login", deps.Auth.Login)

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", deps.Catalog.ListProducts)
		r.Get("/{productId}", deps.Catalog.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(deps.AuthMgr))
			r.Post("/", deps.Catalog.CreateProduct)
			r.Patch("/{productId}", deps.Catalog.UpdateProduct)
			r.Delete("/{productId}", deps.Catalog.DeleteProduct)
		})
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", deps.Catalog.ListCategories)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(deps.AuthMgr))
			r.Post("/", deps.Catalog.CreateCategory)
			r.Patch("/{categoryId}", deps.Catalog.UpdateCategory)
			r.Delete("/{categoryId}", deps.Catalog.DeleteCategory)
		})
	})

	r.Route("/api/brands", func(r chi.Router) {
		r.Get("/", deps.Catalog.ListBrands)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(deps.AuthMgr))
			r.Post("/", deps.Catalog.CreateBrand)
			r.Delete("/{brandId}", deps.Catalog.DeleteBrand)
		})
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", deps.Cart.GetCart)
		r.Delete("/", deps.Cart.ClearCart)
		r.Post("/items", deps.Cart.AddItem)
		r.Patch("/items/{productId}", deps.Cart.UpdateQuantity)
		r.Delete("/items/{productId}", deps.Cart.RemoveItem)
	})

	r.Route("/api/checkout", func(r chi.Router) {
		r.Get("/quote", deps.Checkout.Quote)
		r.Post("/", deps.Checkout.Submit)
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(deps.AuthMgr))
		r.Get("/", deps.Orders.ListOrders)
		r.Get("/{orderId}", deps.Orders.GetOrder)
		r.Patch("/{orderId}/status", deps.Orders.UpdateStatus)
		r.Delete("/{orderId}", deps.Orders.DeleteOrder)
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "takesmart",
	})
}
