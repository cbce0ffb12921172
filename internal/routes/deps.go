package routes

import (
	"github.com/atlasware/souq/internal/handler/admin"
	"github.com/atlasware/souq/internal/handler/storefront"
)

// StorefrontDeps contains dependencies for storefront routes
type StorefrontDeps struct {
	HomeHandler          *storefront.HomeHandler
	ProductListHandler   *storefront.ProductListHandler
	ProductDetailHandler *storefront.ProductDetailHandler
	CartHandler          *storefront.CartHandler
	CheckoutHandler      *storefront.CheckoutHandler
	OrderHandler         *storefront.OrderHandler
	SignupHandler        *storefront.SignupHandler
	LoginHandler         *storefront.LoginHandler
	LogoutHandler        *storefront.LogoutHandler
	ProfileHandler       *storefront.ProfileHandler
	AddressHandler       *storefront.AddressHandler
	ReviewHandler        *storefront.ReviewHandler
	WishlistHandler      *storefront.WishlistHandler
}

// AdminDeps contains dependencies for admin routes
type AdminDeps struct {
	DashboardHandler *admin.DashboardHandler
	CategoryHandler  *admin.CategoryHandler
	CouponHandler    *admin.CouponHandler
	ProductHandler   *admin.ProductHandler
	VariantHandler   *admin.VariantHandler
	OrderHandler     *admin.OrderHandler
}
