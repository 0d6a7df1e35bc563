package server

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/signalforge/internal/apperror"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/apps"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/apps/dashboard"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/apps/signals"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/config"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/dto"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/routes"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/services"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Plugins returns the feature modules served by the API.
func Plugins() []apps.Plugin {
	return []apps.Plugin{
		signals.New(),
		dashboard.New(),
	}
}

// New builds the Fiber app with middleware and routes. The database must
// already be migrated for the given plugins.
func New(cfg *config.Config, db *gorm.DB, plugins []apps.Plugin) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:             4 * 1024 * 1024,
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	authService := services.NewAuthService(db, cfg)
	routes.Setup(app, cfg, db,
		handlers.NewAuthHandler(authService),
		handlers.NewHealthHandler(db),
		plugins,
	)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "Not found"})
	})
	return app
}

// ErrorHandler renders every handler error as {"error": message}. Client
// errors keep their message; anything else becomes a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fiberErr *fiber.Error
	if appErr, ok := apperror.As(err); ok {
		code = appErr.Status()
		message = appErr.Message
	} else if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if code >= fiber.StatusInternalServerError {
		requestID, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		slog.Error("unhandled server error",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", requestID,
			"error", err.Error(),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Error: message})
}
