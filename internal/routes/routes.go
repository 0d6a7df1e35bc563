package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/signalforge/internal/apps"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/config"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	plugins []apps.Plugin,
) {
	api := app.Group("/api")

	// General API rate limit per IP
	if cfg.RateLimitAPI > 0 {
		api.Use(rateLimit(cfg.RateLimitAPI))
	}

	api.Get("/health", healthHandler.Check)

	// Auth: public, stricter rate limit
	auth := api.Group("/auth")
	if cfg.RateLimitAuth > 0 {
		auth.Use(rateLimit(cfg.RateLimitAuth))
	}
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.JWTProtected(cfg), authHandler.Me)

	// Feature modules: each gets /api/<id> with JWT applied to that prefix only
	for _, p := range plugins {
		protected := api.Group("/"+p.ID(), middleware.JWTProtected(cfg))
		p.RegisterRoutes(protected, db, cfg)
	}
}

func rateLimit(perMinute int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               perMinute,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}
