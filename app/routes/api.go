package routes

import (
	"net/http"

	"github.com/campuseats/canteen/app/controllers"
	"github.com/campuseats/canteen/pkg/metrics"
	"github.com/campuseats/canteen/pkg/middleware"
	"github.com/campuseats/canteen/pkg/response"
	"github.com/campuseats/canteen/pkg/router"
	"github.com/campuseats/canteen/pkg/ws"
)

// Controllers bundles everything RegisterAPI mounts.
type Controllers struct {
	Auth      *controllers.AuthController
	Catalog   *controllers.CatalogController
	Orders    *controllers.OrderController
	Payments  *controllers.PaymentController
	Dashboard *controllers.DashboardController
	OrderFeed *ws.Hub
}

// RegisterAPI mounts the HTTP surface: public catalog and auth routes,
// authenticated customer routes, and admin routes behind a role check.
func RegisterAPI(r *router.Router, c Controllers) {
	r.Get("/healthz", "healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
	r.Get("/metrics", "metrics", metrics.Handler().ServeHTTP)

	api := r.Group("/api")

	api.Post("/register", "auth.register", c.Auth.Register)
	api.Post("/login", "auth.login", c.Auth.Login)
	api.Get("/canteens", "catalog.canteens", c.Catalog.Canteens)
	api.Get("/canteens/{id}", "catalog.canteens.show", c.Catalog.ShowCanteen)
	api.Get("/categories", "catalog.categories", c.Catalog.Categories)
	api.Get("/menu-items", "catalog.menu", c.Catalog.MenuItems)

	protected := api.Group("", middleware.Auth)
	protected.Get("/user", "auth.me", c.Auth.Me)
	protected.Post("/orders", "orders.place", c.Orders.Place)
	protected.Get("/orders", "orders.list", c.Orders.List)
	protected.Get("/orders/{id}", "orders.show", c.Orders.Show)
	protected.Post("/payments/create-order", "payments.intent", c.Payments.CreateIntent)
	protected.Post("/payments/verify", "payments.verify", c.Payments.Verify)

	admin := protected.Group("/admin", middleware.RequireAdmin)
	admin.Get("/orders", "admin.orders.list", c.Orders.AdminList)
	admin.Patch("/orders/{id}", "admin.orders.status", c.Orders.UpdateStatus)
	admin.Get("/menu-items", "admin.menu.list", c.Catalog.AdminMenuItems)
	admin.Post("/menu-items", "admin.menu.create", c.Catalog.CreateMenuItem)
	admin.Put("/menu-items/{id}", "admin.menu.update", c.Catalog.UpdateMenuItem)
	admin.Delete("/menu-items/{id}", "admin.menu.delete", c.Catalog.DeleteMenuItem)
	admin.Post("/canteens", "admin.canteens.create", c.Catalog.CreateCanteen)
	admin.Put("/canteens/{id}", "admin.canteens.update", c.Catalog.UpdateCanteen)
	admin.Delete("/canteens/{id}", "admin.canteens.delete", c.Catalog.DeleteCanteen)
	admin.Post("/categories", "admin.categories.create", c.Catalog.CreateCategory)
	admin.Put("/categories/{id}", "admin.categories.update", c.Catalog.UpdateCategory)
	admin.Delete("/categories/{id}", "admin.categories.delete", c.Catalog.DeleteCategory)
	admin.Get("/dashboard-stats", "admin.dashboard", c.Dashboard.Stats)
	admin.Get("/ws/orders", "admin.orders.feed", func(w http.ResponseWriter, r *http.Request) {
		ws.Upgrade(w, r, c.OrderFeed)
	})
}
