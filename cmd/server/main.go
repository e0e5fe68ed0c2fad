package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/hemaperikala/is-it-ready/internal/config"
	"github.com/hemaperikala/is-it-ready/internal/database"
	"github.com/hemaperikala/is-it-ready/internal/handlers"
	"github.com/hemaperikala/is-it-ready/internal/logging"
	"github.com/hemaperikala/is-it-ready/internal/middleware"
	"github.com/hemaperikala/is-it-ready/internal/orders"
	"github.com/hemaperikala/is-it-ready/internal/supabase"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	logger := logging.GetSugaredLogger(cfg.Environment)
	defer logger.Sync()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Supabase clients
	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		logger.Fatalw("failed to initialize supabase client", "error", err)
	}
	authClient := supabase.NewAuthClient(supabaseClient)
	realtimeClient := supabase.NewRealtimeClient(supabaseClient.Supabase)

	storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.ReportsBucket)
	if err != nil {
		logger.Warnw("failed to initialize storage client; report uploads disabled", "error", err)
		storageClient = nil
	}

	// Direct Postgres connection for the order store and migrations
	var orderService *orders.Service
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set; order operations will be unavailable")
	} else {
		migrator, err := database.NewMigrator(cfg.DatabaseURL)
		if err != nil {
			logger.Warnw("failed to initialize migrator", "error", err)
		} else {
			defer migrator.Close()
			if err := migrator.Run(); err != nil {
				logger.Warnw("migration failed", "error", err)
			} else {
				logger.Info("migrations completed")
			}
		}

		dbClient, err := supabase.NewDatabaseClient(cfg.DatabaseURL)
		if err != nil {
			logger.Warnw("failed to initialize database client", "error", err)
		} else {
			defer dbClient.Close()
			orderService = orders.NewService(dbClient, realtimeClient, logger)
		}
	}

	authHandler := handlers.NewAuthHandler(authClient)
	ordersHandler := handlers.NewOrdersHandler(orderService, storageClient)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler)

	// Session gate
	auth := router.Group("/api/v1/auth")
	auth.POST("/signup", authHandler.SignUp)
	auth.POST("/signin", authHandler.SignIn)
	auth.POST("/signout", authHandler.SignOut)

	// Shop-scoped API
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))

	api.POST("/orders", ordersHandler.CreateOrder)
	api.GET("/orders", ordersHandler.ListOrders)
	api.GET("/orders/export", ordersHandler.ExportOrders)
	api.GET("/orders/:order_id", ordersHandler.GetOrder)
	api.POST("/orders/:order_id/ready", ordersHandler.MarkReady)
	api.POST("/orders/:order_id/complete", ordersHandler.MarkCompleted)
	api.POST("/orders/:order_id/delivery-date", ordersHandler.ExtendDeliveryDate)
	api.GET("/orders/:order_id/handoff-qr", ordersHandler.HandoffQR)

	logger.Infow("server starting", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		logger.Fatalw("failed to start server", "error", err)
	}
}
