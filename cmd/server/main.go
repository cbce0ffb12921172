package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atlasware/souq/internal"
	"github.com/atlasware/souq/internal/cookie"
	"github.com/atlasware/souq/internal/email"
	"github.com/atlasware/souq/internal/events"
	"github.com/atlasware/souq/internal/handler"
	"github.com/atlasware/souq/internal/handler/admin"
	"github.com/atlasware/souq/internal/handler/storefront"
	"github.com/atlasware/souq/internal/middleware"
	"github.com/atlasware/souq/internal/postgres"
	"github.com/atlasware/souq/internal/router"
	"github.com/atlasware/souq/internal/routes"
	"github.com/atlasware/souq/internal/service"
	"github.com/atlasware/souq/internal/validation"
	"github.com/atlasware/souq/internal/worker"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application queries
	pool, err := postgres.NewPool(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// Initialize stores
	userStore := postgres.NewUserStore(pool)
	productStore := postgres.NewProductStore(pool)
	cartStore := postgres.NewCartStore(pool)
	couponStore := postgres.NewCouponStore(pool)
	orderStore := postgres.NewOrderStore(pool)
	deliveryStore := postgres.NewDeliveryStore(pool)
	reviewStore := postgres.NewReviewStore(pool)
	wishlistStore := postgres.NewWishlistStore(pool)

	// Initialize input validator
	validator, err := validation.New()
	if err != nil {
		return fmt.Errorf("failed to initialize validator: %w", err)
	}

	// Connect to NATS for post-checkout notifications
	logger.Info("Connecting to NATS...", "url", cfg.NatsUrl)
	publisher, err := events.Connect(cfg.NatsUrl)
	if err != nil {
		return fmt.Errorf("failed to connect to nats: %w", err)
	}
	defer publisher.Close()

	// Initialize services
	userService := service.NewUserService(userStore, validator)
	catalogService := service.NewCatalogService(productStore)
	cartService := service.NewCartService(productStore, cartStore)
	couponService := service.NewCouponService(couponStore)
	orderService := service.NewOrderService(orderStore)
	reviewService := service.NewReviewService(reviewStore, wishlistStore)
	checkoutService := service.NewCheckoutService(
		cartStore,
		userStore,
		deliveryStore,
		orderStore,
		couponService,
		validator,
		publisher,
		logger,
	)

	// Initialize email delivery and the notification worker
	emailSender := email.NewSMTPSender(&email.SMTPConfig{
		Host:     cfg.Email.Host,
		Port:     int(cfg.Email.Port),
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
		FromName: cfg.Email.FromName,
	})
	emailService, err := email.NewService(emailSender, cfg.Email.From, cfg.Email.FromName, cfg.TemplatesDir)
	if err != nil {
		return fmt.Errorf("failed to initialize email service: %w", err)
	}

	notifier := worker.NewWorker(publisher.Conn(), orderStore, userStore, emailService, worker.Config{}, logger)
	go func() {
		if err := notifier.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("notification worker stopped", "error", err)
		}
	}()

	// Load templates with renderer
	logger.Info("Loading templates...")
	renderer, err := handler.NewRenderer(cfg.TemplatesDir)
	if err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}
	logger.Info("Templates loaded successfully")

	cookieConfig := cookie.NewConfig(cfg.CookieSecure)

	// ==========================================================================
	// Build route dependencies
	// ==========================================================================

	storefrontDeps := routes.StorefrontDeps{
		HomeHandler:          storefront.NewHomeHandler(catalogService, renderer),
		ProductListHandler:   storefront.NewProductListHandler(catalogService, renderer),
		ProductDetailHandler: storefront.NewProductDetailHandler(catalogService, reviewService, renderer),
		CartHandler:          storefront.NewCartHandler(cartService, renderer),
		CheckoutHandler:      storefront.NewCheckoutHandler(cartService, checkoutService, userService, couponService, deliveryStore, cookieConfig, renderer),
		OrderHandler:         storefront.NewOrderHandler(orderService, renderer),
		SignupHandler:        storefront.NewSignupHandler(userService, cookieConfig, renderer),
		LoginHandler:         storefront.NewLoginHandler(userService, cookieConfig, renderer),
		LogoutHandler:        storefront.NewLogoutHandler(userService, cookieConfig),
		ProfileHandler:       storefront.NewProfileHandler(userService, renderer),
		AddressHandler:       storefront.NewAddressHandler(userService, renderer),
		ReviewHandler:        storefront.NewReviewHandler(reviewService, catalogService),
		WishlistHandler:      storefront.NewWishlistHandler(reviewService, renderer),
	}

	adminDeps := routes.AdminDeps{
		DashboardHandler: admin.NewDashboardHandler(orderService, catalogService, renderer),
		CategoryHandler:  admin.NewCategoryHandler(catalogService, renderer),
		CouponHandler:    admin.NewCouponHandler(couponService, renderer),
		ProductHandler:   admin.NewProductHandler(catalogService, renderer),
		VariantHandler:   admin.NewVariantHandler(catalogService),
		OrderHandler:     admin.NewOrderHandler(orderService, renderer),
	}

	// ==========================================================================
	// Initialize middleware
	// ==========================================================================

	metrics := middleware.NewMetrics("souq")

	securityConfig := middleware.DefaultSecurityHeadersConfig()
	if cfg.Env == "dev" {
		securityConfig.ContentSecurityPolicy = ""
		securityConfig.HSTSMaxAge = 0
	}

	csrfConfig := middleware.DefaultCSRFConfig(cookieConfig)

	defaultRateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer defaultRateLimiter.Stop()

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		middleware.SecurityHeaders(securityConfig),
		middleware.MaxBodySize(),
		middleware.Timeout(),
		defaultRateLimiter.Middleware,
		router.Logger(logger),
		middleware.WithUser(userStore),
		middleware.WithRequestLogger(logger),
		middleware.CSRF(csrfConfig),
	)

	// Static files
	r.Static("/static/", cfg.StaticDir)

	// Metrics endpoint; protect at the network layer in production
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	routes.RegisterStorefrontRoutes(r, storefrontDeps)
	routes.RegisterAdminRoutes(r, adminDeps)

	var root http.Handler = r
	if len(cfg.CORSAllowedOrigins) > 0 {
		root = router.CORS(cfg.CORSAllowedOrigins)(root)
	}

	// ==========================================================================
	// Start server
	// ==========================================================================

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
