package routes

import (
	"github.com/atlasware/souq/internal/middleware"
	"github.com/atlasware/souq/internal/router"
)

// RegisterAdminRoutes registers the admin dashboard routes at /admin/*.
// Every route requires an authenticated admin account.
func RegisterAdminRoutes(r *router.Router, deps AdminDeps) {
	admin := r.Group(middleware.RequireAdmin)

	// Dashboard
	admin.Get("/admin", deps.DashboardHandler.ServeHTTP)

	// Categories
	admin.Get("/admin/categories", deps.CategoryHandler.List)
	admin.Post("/admin/categories", deps.CategoryHandler.Create)
	admin.Post("/admin/categories/{id}", deps.CategoryHandler.Update)
	admin.Post("/admin/categories/{id}/delete", deps.CategoryHandler.Delete)

	// Coupons
	admin.Get("/admin/coupons", deps.CouponHandler.List)
	admin.Get("/admin/coupons/new", deps.CouponHandler.New)
	admin.Post("/admin/coupons", deps.CouponHandler.Create)
	admin.Get("/admin/coupons/{id}/edit", deps.CouponHandler.Edit)
	admin.Post("/admin/coupons/{id}", deps.CouponHandler.Update)
	admin.Post("/admin/coupons/{id}/delete", deps.CouponHandler.Delete)

	// Catalog management
	admin.Get("/admin/products", deps.ProductHandler.List)
	admin.Get("/admin/products/new", deps.ProductHandler.New)
	admin.Post("/admin/products", deps.ProductHandler.Create)
	admin.Get("/admin/products/{id}", deps.ProductHandler.Detail)
	admin.Get("/admin/products/{id}/edit", deps.ProductHandler.Edit)
	admin.Post("/admin/products/{id}", deps.ProductHandler.Update)
	admin.Post("/admin/products/{id}/delete", deps.ProductHandler.Delete)

	// Variants and sizes post from the product detail page
	admin.Post("/admin/products/{id}/variants", deps.VariantHandler.CreateVariant)
	admin.Post("/admin/variants/{id}", deps.VariantHandler.UpdateVariant)
	admin.Post("/admin/variants/{id}/sizes", deps.VariantHandler.CreateSize)
	admin.Post("/admin/sizes/{id}", deps.VariantHandler.UpdateSize)

	// Order management
	admin.Get("/admin/orders", deps.OrderHandler.List)
	admin.Get("/admin/orders/{id}", deps.OrderHandler.Detail)
	admin.Post("/admin/orders/{id}/status", deps.OrderHandler.UpdateStatus)
}
