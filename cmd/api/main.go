package main

import (
	"context"
	"log"
	"time"

	"uza-logistics/internal/core/config"
	"uza-logistics/internal/core/logger"
	"uza-logistics/internal/core/server"
	"uza-logistics/internal/core/storage"
	accounthandler "uza-logistics/internal/features/accounts/handler"
	"uza-logistics/internal/features/accounts/session"
	adminhandler "uza-logistics/internal/features/admin/handler"
	notifhandler "uza-logistics/internal/features/notifications/handler"
	shipmenthandler "uza-logistics/internal/features/shipments/handler"
	"uza-logistics/internal/store"

	"go.uber.org/zap"
)

// @title Uza Logistics Demo API
// @version 1.0
// @description Multi-role logistics tracking demo: clients create and submit shipments, warehouse staff receive and dispatch them, admins configure pricing.
// @contact.name API Support
// @contact.email support@uzalogistics.com
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	// Initialize the storage backend and verify the connection.
	backend, err := storage.NewRedisBackend(cfg.Store.RedisURL)
	if err != nil {
		l.Fatal("Failed to create storage backend", zap.Error(err))
	}
	defer backend.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := backend.Ping(ctx); err != nil {
		l.Fatal("Storage health check failed", zap.Error(err))
	}
	l.Info("Storage connection verified")

	// Initialize the demo store: load the persisted snapshot or seed defaults.
	demoStore := store.New(backend, cfg.Store.SnapshotKey)
	if err := demoStore.Load(ctx); err != nil {
		l.Fatal("Failed to load demo store", zap.Error(err))
	}

	sessions := session.NewManager(backend, cfg.Store.SessionKey, nil)

	// Start the simulated-delivery ticker.
	if cfg.Ticker.Enabled {
		ticker := store.NewTicker(
			demoStore,
			time.Duration(cfg.Ticker.IntervalMs)*time.Millisecond,
			cfg.Ticker.Probability,
		)
		go ticker.Run(ctx)
	}

	// Initialize handlers.
	shipmentHdl := shipmenthandler.NewShipmentHandler(demoStore)
	adminHdl := adminhandler.NewAdminHandler(demoStore, sessions)
	notifHdl := notifhandler.NewNotificationHandler(demoStore)
	authHdl := accounthandler.NewAuthHandler(demoStore, sessions)

	srv := server.New(cfg)

	// Register Routes
	srv.App.Post("/auth/login", authHdl.Login)
	srv.App.Post("/auth/logout", authHdl.Logout)
	srv.App.Get("/auth/me", authHdl.Me)

	srv.App.Get("/shipments", shipmentHdl.List)
	srv.App.Get("/shipments/:id", shipmentHdl.Get)

	srv.App.Post("/client/shipments", shipmentHdl.Create)
	srv.App.Put("/client/shipments/:id", shipmentHdl.Edit)
	srv.App.Post("/client/shipments/:id/submit", shipmentHdl.Submit)
	srv.App.Post("/client/shipments/:id/deliver", shipmentHdl.ConfirmDelivery)

	srv.App.Post("/warehouse/shipments/:id/receive", shipmentHdl.Receive)
	srv.App.Post("/warehouse/shipments/:id/dispatch", shipmentHdl.Dispatch)
	srv.App.Post("/warehouse/shipments/:id/status", shipmentHdl.UpdateStatus)

	srv.App.Get("/admin/pricing", adminHdl.GetPricing)
	srv.App.Put("/admin/pricing", adminHdl.UpdatePricing)
	srv.App.Get("/admin/users", adminHdl.ListUsers)
	srv.App.Post("/admin/users/:id/toggle", adminHdl.ToggleUser)
	srv.App.Get("/admin/audit", adminHdl.ListAudit)

	srv.App.Get("/notifications", notifHdl.List)
	srv.App.Post("/notifications/read", notifHdl.MarkRead)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
