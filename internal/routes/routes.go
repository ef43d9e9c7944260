package routes

import (
	"fmt"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/AssessmentIntake/internal/config"
	"github.com/saeid-a/AssessmentIntake/internal/handlers"
	"github.com/saeid-a/AssessmentIntake/internal/intake"
	"github.com/saeid-a/AssessmentIntake/internal/middleware"
	"github.com/saeid-a/AssessmentIntake/internal/repository"
	"github.com/saeid-a/AssessmentIntake/internal/services"
	noticews "github.com/saeid-a/AssessmentIntake/internal/websocket"
	"go.uber.org/zap"
)

// Dependencies are the long-lived pieces main owns and runs.
type Dependencies struct {
	Catalog  *intake.Catalog
	Sessions *services.SessionStore
	Hub      *noticews.Hub
	Logger   *zap.Logger
}

func RegisterRoutes(app *fiber.App, cfg *config.Config, db repository.DBTX, deps Dependencies) error {
	if db == nil {
		return fmt.Errorf("database is required")
	}
	if deps.Catalog == nil || deps.Sessions == nil || deps.Hub == nil {
		return fmt.Errorf("catalog, session store and notice hub are required")
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if err := registerDocsRoutes(app, cfg); err != nil {
		return err
	}

	phoneRepo := repository.NewPhoneRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	nutritionalRepo := repository.NewNutritionalAssessmentRepository(db)
	documents := services.NewDocumentStorage(cfg.SupabaseURL, cfg.SupabaseBucket, cfg.SupabaseServiceKey)
	if !cfg.StorageConfigured() && deps.Logger != nil {
		deps.Logger.Warn("document storage is not configured; medical document uploads will fail")
	}

	intakeService := services.NewIntakeService(services.IntakeDependencies{
		Phones:        phoneRepo,
		Physical:      assessmentRepo,
		Nutritional:   nutritionalRepo,
		Documents:     documents,
		Sessions:      deps.Sessions,
		Catalog:       deps.Catalog,
		Notices:       deps.Hub,
		Logger:        deps.Logger,
		JWTSecret:     cfg.JWTSecret,
		PhoneTokenTTL: cfg.PhoneTokenTTL,
	})

	phoneHandler := handlers.NewPhoneHandler(intakeService)
	physicalHandler := handlers.NewPhysicalHandler(intakeService)
	nutritionHandler := handlers.NewNutritionHandler(intakeService)
	noticeHandler := handlers.NewNoticeHandler(intakeService, deps.Hub, cfg.JWTSecret)

	api := app.Group("/api/v1")
	api.Post("/phone/verify", phoneHandler.Verify)
	api.Get("/success", phoneHandler.Success)

	api.Use("/ws/notices", noticeHandler.WebSocketAuth)
	api.Get("/ws/notices", websocket.New(noticeHandler.HandleWebSocket))

	protected := api.Group("", middleware.PhoneRequired(cfg.JWTSecret))
	protected.Post("/forms/select", phoneHandler.SelectForm)

	physical := protected.Group("/physical")
	physical.Post("", physicalHandler.Start)
	physical.Get("/:id", physicalHandler.View)
	physical.Post("/:id/answer", physicalHandler.Answer)
	physical.Post("/:id/clearance", physicalHandler.Clearance)
	physical.Post("/:id/document", physicalHandler.UploadDocument)
	physical.Get("/:id/document", physicalHandler.DocumentLink)
	physical.Post("/:id/agreement", physicalHandler.Agreement)
	physical.Post("/:id/next", physicalHandler.Next)
	physical.Post("/:id/back", physicalHandler.Back)

	nutrition := protected.Group("/nutrition")
	nutrition.Post("", nutritionHandler.Start)
	nutrition.Get("/:id", nutritionHandler.View)
	nutrition.Patch("/:id", nutritionHandler.Update)
	nutrition.Post("/:id/next", nutritionHandler.Next)
	nutrition.Post("/:id/back", nutritionHandler.Back)

	return nil
}
