package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tandangji/rental/internal/config"
	"github.com/tandangji/rental/internal/database"
	"github.com/tandangji/rental/internal/handlers"
	"github.com/tandangji/rental/internal/logger"
	"github.com/tandangji/rental/internal/middleware"
	"github.com/tandangji/rental/internal/repository"
	"github.com/tandangji/rental/internal/scheduler"
	"github.com/tandangji/rental/internal/services"
	"github.com/tandangji/rental/internal/session"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting rental API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	// Create database connection pool
	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	// Create tables and seed default settings
	if err := db.Migrate(ctx); err != nil {
		log.Fatal("Failed to migrate database schema", err, nil)
	}

	// Session store: redis when configured, in-process otherwise
	var sessions session.Store
	if cfg.Redis.Addr != "" {
		redisStore, err := session.NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Auth.SessionTTL)
		if err != nil {
			log.Fatal("Failed to connect to redis", err, map[string]interface{}{
				"addr": cfg.Redis.Addr,
			})
		}
		sessions = redisStore
		log.Info("Using redis session store", map[string]interface{}{
			"addr": cfg.Redis.Addr,
		})
	} else {
		memStore := session.NewMemoryStore(cfg.Auth.SessionTTL)
		defer memStore.Close()
		sessions = memStore
		log.Info("Using in-memory session store", nil)
	}

	loc := cfg.Location()

	// Repository layer
	tenantRepo := repository.NewTenantRepository(db)
	readingRepo := repository.NewMeterReadingRepository(db)
	buildingBillRepo := repository.NewBuildingBillRepository(db)
	billRepo := repository.NewMonthlyBillRepository(db)
	taxRepo := repository.NewTaxInvoiceRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Service layer
	authService := services.NewAuthService(tenantRepo, sessions, cfg.Auth.AdminPassword, log)
	tenantService := services.NewTenantService(tenantRepo, log)
	readingService := services.NewReadingService(readingRepo, log)
	buildingBillService := services.NewBuildingBillService(buildingBillRepo, log)
	billingService := services.NewBillingService(tenantRepo, readingRepo, buildingBillRepo, billRepo, loc, log)
	taxService := services.NewTaxService(billRepo, taxRepo, loc, log)
	reminderService := services.NewReminderService(tenantRepo, readingRepo, billRepo, log)
	settingsService := services.NewSettingsService(settingsRepo, log)

	// Daily recurring-bill trigger
	sched := scheduler.New(billingService, loc, log)
	sched.Start(ctx)
	defer sched.Stop()

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Register health check routes
	healthHandler := handlers.NewHealthHandler(db, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	tenantHandler := handlers.NewTenantHandler(tenantService)
	readingHandler := handlers.NewReadingHandler(readingService)
	buildingBillHandler := handlers.NewBuildingBillHandler(buildingBillService)
	billHandler := handlers.NewBillHandler(billingService)
	taxHandler := handlers.NewTaxHandler(taxService)
	reminderHandler := handlers.NewReminderHandler(reminderService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)

	// Register API v1 routes
	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(sessions), authHandler.Me)
		}

		authed := v1.Group("", middleware.RequireAuth(sessions))
		{
			authed.GET("/tenants", tenantHandler.List)
			authed.PUT("/tenants/password", tenantHandler.ChangePassword)

			authed.POST("/readings", readingHandler.Submit)
			authed.GET("/readings", readingHandler.List)
			authed.GET("/readings/:id/photo", readingHandler.Photo)

			authed.GET("/bills", billHandler.List)

			authed.GET("/tax-invoices", taxHandler.List)

			authed.GET("/settings", settingsHandler.Get)
		}

		admin := v1.Group("", middleware.RequireAuth(sessions), middleware.RequireAdmin())
		{
			admin.POST("/tenants", tenantHandler.Create)
			admin.PUT("/tenants/:id", tenantHandler.Update)
			admin.DELETE("/tenants/:id", tenantHandler.Delete)

			admin.PUT("/readings/:id", readingHandler.Update)

			admin.POST("/building-bills", buildingBillHandler.Save)
			admin.GET("/building-bills", buildingBillHandler.List)

			admin.POST("/bills/generate", billHandler.Generate)
			admin.PUT("/bills/:id/payment", billHandler.TogglePayment)

			admin.PUT("/tax-invoices/toggle", taxHandler.Toggle)

			admin.GET("/reminders/meters", reminderHandler.MeterTargets)
			admin.GET("/reminders/payments", reminderHandler.PaymentTargets)

			admin.PUT("/settings", settingsHandler.Update)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
