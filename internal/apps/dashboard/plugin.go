package dashboard

import (
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/apps/signals"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/config"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DashboardPlugin struct{}

func New() *DashboardPlugin {
	return &DashboardPlugin{}
}

func (p *DashboardPlugin) ID() string { return "dashboard" }

// Models is empty: every view is derived from the signals table.
func (p *DashboardPlugin) Models() []interface{} {
	return nil
}

func (p *DashboardPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(signals.NewService(db, cfg.BatchMaxItems))

	router.Get("/compass", handler.Compass)
	router.Get("/focus", handler.Focus)
	router.Get("/inbox", handler.Inbox)
	router.Post("/blindspots", handler.BlindSpots)
}
