package main

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/urbancoll/artisanhub-backend/internal/config"
	"github.com/urbancoll/artisanhub-backend/internal/logx"
	"github.com/urbancoll/artisanhub-backend/internal/modules/admin"
	"github.com/urbancoll/artisanhub-backend/internal/modules/auth"
	"github.com/urbancoll/artisanhub-backend/internal/modules/catalog"
	"github.com/urbancoll/artisanhub-backend/internal/modules/order"
	"github.com/urbancoll/artisanhub-backend/internal/modules/payment"
	"github.com/urbancoll/artisanhub-backend/internal/modules/user"
	"github.com/urbancoll/artisanhub-backend/internal/modules/vendor"
	"github.com/urbancoll/artisanhub-backend/internal/observe"
	"github.com/urbancoll/artisanhub-backend/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("invalid configuration")
	}
	logx.Init(cfg.Environment)

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logx.Fatal().Err(err).Msg("opening database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logx.Fatal().Err(err).Msg("database unreachable")
	}
	logx.Info().Msg("connected to database")

	if err := migrations.Apply(db); err != nil {
		logx.Fatal().Err(err).Msg("applying migrations")
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(observe.RequestMetrics)

	// ── Identity ────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	authService := auth.NewService(userRepo, []byte(cfg.JWTSecret))
	auth.NewHandler(authService).RegisterRoutes(router)

	requireAuth := auth.Middleware(authService)
	requireAdmin := auth.RequireRole(user.RoleAdmin)

	// ── Vendors & Catalog ───────────────────────────────────
	vendorRepo := vendor.NewPostgresRepository(db)
	vendorService := vendor.NewService(vendorRepo)
	vendor.NewHandler(vendorService).RegisterRoutes(router, requireAuth)

	var productCache catalog.Cache
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logx.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		productCache = catalog.NewRedisCache(redis.NewClient(opts))
		logx.Info().Msg("product list cache enabled")
	}
	catalogRepo := catalog.NewPostgresRepository(db)
	catalogService := catalog.NewService(catalogRepo, productCache)
	catalog.NewHandler(catalogService).RegisterRoutes(router, requireAuth)

	// ── Orders & Payments ───────────────────────────────────
	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo)
	order.NewHandler(orderService).RegisterRoutes(router, requireAuth)

	var gateway payment.Gateway
	if cfg.PaymentsLive() {
		gateway = payment.NewPaystackGateway(cfg.PaystackSecretKey, cfg.PaystackBaseURL)
	} else {
		gateway = payment.NewMockGateway()
		logx.Warn().Msg("PAYSTACK_SECRET_KEY not set, payments run in mock mode")
	}
	paymentRepo := payment.NewPostgresRepository(db)
	paymentService := payment.NewService(paymentRepo, orderRepo, userRepo, gateway)
	payment.NewHandler(paymentService).RegisterRoutes(router, requireAuth)

	// ── Administration ──────────────────────────────────────
	adminService := admin.NewService(userRepo, vendorRepo)
	admin.NewHandler(adminService).RegisterRoutes(router, requireAuth, requireAdmin)

	// ── Operational endpoints ───────────────────────────────
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})
	router.Method(http.MethodGet, "/metrics", observe.Handler())
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ArtisanHub API"))
	})

	logx.Info().Str("port", cfg.Port).Str("env", string(cfg.Environment)).Msg("server starting")
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		logx.Fatal().Err(err).Msg("server stopped")
	}
}
