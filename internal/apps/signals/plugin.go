package signals

import (
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/config"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SignalsPlugin struct{}

func New() *SignalsPlugin {
	return &SignalsPlugin{}
}

func (p *SignalsPlugin) ID() string { return "signals" }

func (p *SignalsPlugin) Models() []interface{} {
	return []interface{}{
		&models.Signal{},
	}
}

func (p *SignalsPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewService(db, cfg.BatchMaxItems)
	handler := NewHandler(svc)

	router.Get("/", handler.List)
	router.Post("/", handler.Create)
	router.Delete("/", handler.DeleteAll)
	router.Post("/batch", handler.CreateBatch)
	router.Post("/classify", handler.Classify)
	router.Post("/ingest", handler.Ingest)
	router.Patch("/:id/label", handler.UpdateLabel)
}
