package routes

import (
	"github.com/atlasware/souq/internal/middleware"
	"github.com/atlasware/souq/internal/router"
)

// RegisterStorefrontRoutes registers all customer-facing routes. Login and
// signup submissions get a stricter rate limit than the rest of the site.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	strictLimit := middleware.RateLimit(middleware.StrictRateLimiterConfig())

	// Home and catalog browsing
	r.Get("/", deps.HomeHandler.ServeHTTP)
	r.Get("/products", deps.ProductListHandler.ServeHTTP)
	r.Get("/products/{slug}", deps.ProductDetailHandler.ServeHTTP)

	// Cart page plus the JSON endpoints the client-side cart talks to
	r.Get("/cart", deps.CartHandler.View)
	r.Post("/api/cart/validate", deps.CartHandler.Validate)
	r.Post("/api/cart/sync", deps.CartHandler.Sync)

	// Authentication
	r.Get("/signup", deps.SignupHandler.ShowForm)
	r.Post("/signup", deps.SignupHandler.HandleSubmit, strictLimit)
	r.Get("/login", deps.LoginHandler.ShowForm)
	r.Post("/login", deps.LoginHandler.HandleSubmit, strictLimit)
	r.Post("/logout", deps.LogoutHandler.HandleSubmit)

	// Reviews post from the product page
	r.Post("/products/{slug}/reviews", deps.ReviewHandler.Submit)
	r.Post("/reviews/{id}/delete", deps.ReviewHandler.Delete)

	// Authenticated routes
	account := r.Group(middleware.RequireAuth)

	account.Get("/checkout", deps.CheckoutHandler.Page)
	account.Post("/checkout", deps.CheckoutHandler.Submit)

	account.Get("/orders", deps.OrderHandler.List)
	account.Get("/orders/{id}", deps.OrderHandler.Detail)

	account.Get("/account", deps.ProfileHandler.Show)
	account.Post("/account/profile", deps.ProfileHandler.UpdateProfile)
	account.Post("/account/password", deps.ProfileHandler.ChangePassword)
	account.Post("/account/sessions/{id}/revoke", deps.ProfileHandler.RevokeSession)

	account.Get("/account/addresses", deps.AddressHandler.List)
	account.Post("/account/addresses", deps.AddressHandler.Create)
	account.Post("/account/addresses/{id}/delete", deps.AddressHandler.Delete)

	account.Get("/wishlist", deps.WishlistHandler.List)
	account.Post("/wishlist/{product_id}", deps.WishlistHandler.Add)
	account.Post("/wishlist/{product_id}/remove", deps.WishlistHandler.Remove)
}
