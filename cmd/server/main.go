package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/saeid-a/AssessmentIntake/internal/config"
	"github.com/saeid-a/AssessmentIntake/internal/database"
	"github.com/saeid-a/AssessmentIntake/internal/intake"
	"github.com/saeid-a/AssessmentIntake/internal/logging"
	"github.com/saeid-a/AssessmentIntake/internal/routes"
	"github.com/saeid-a/AssessmentIntake/internal/services"
	noticews "github.com/saeid-a/AssessmentIntake/internal/websocket"
	"go.uber.org/zap"
)

const (
	sessionSweepInterval = time.Minute
	// Room for a 5 MiB document plus the multipart envelope.
	bodyLimit = 6 * 1024 * 1024
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logging.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to Database
	if cfg.DBUrl == "" {
		return fmt.Errorf("DB_URL is required")
	}
	if err := database.ConnectDB(ctx, cfg.DBUrl, zl); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer database.CloseDB()

	catalog, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}

	sessions := services.NewSessionStore(cfg.WizardSessionTTL)
	go sessions.Run(ctx, sessionSweepInterval, func(removed int) {
		zl.Debug("expired wizard sessions removed", zap.Int("removed", removed))
	})

	hub := noticews.NewHub(zl.Named("notices"))
	go hub.Run(ctx)

	// 3. Setup Fiber
	app := fiber.New(fiber.Config{BodyLimit: bodyLimit})

	// Middleware
	app.Use(cors.New())
	if cfg.LogRequests {
		app.Use(logger.New())
	}
	app.Use(recover.New())

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"sessions": sessions.Len(),
		})
	})
	if err := routes.RegisterRoutes(app, cfg, database.DB, routes.Dependencies{
		Catalog:  catalog,
		Sessions: sessions,
		Hub:      hub,
		Logger:   zl,
	}); err != nil {
		return fmt.Errorf("register routes: %w", err)
	}

	// 4. Start Server
	errCh := make(chan error, 1)
	go func() {
		zl.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

func loadCatalog(path string) (*intake.Catalog, error) {
	if path == "" {
		return intake.DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	catalog, err := intake.ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return catalog, nil
}
