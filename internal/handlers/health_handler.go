package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/signalforge/internal/database"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/dto"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check always answers 200 so liveness probes do not flap on DB blips.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(h.db); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Message:   "API is running",
		DB:        dbStatus,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
