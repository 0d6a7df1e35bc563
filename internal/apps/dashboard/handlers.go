package dashboard

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/signalforge/internal/apperror"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/apps/signals"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	signals *signals.Service
	now     func() time.Time
}

func NewHandler(svc *signals.Service) *Handler {
	return &Handler{signals: svc, now: time.Now}
}

func (h *Handler) Compass(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return apperror.Unauthorized("Unauthorized")
	}

	list, err := h.signals.List(userID)
	if err != nil {
		return err
	}
	return c.JSON(Compass(list, c.QueryInt("limit", defaultTopN)))
}

func (h *Handler) Focus(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return apperror.Unauthorized("Unauthorized")
	}

	list, err := h.signals.List(userID)
	if err != nil {
		return err
	}

	resp, err := Focus(list, c.QueryBool("signalsOnly", false), SortOrder(c.Query("sort", string(SortDate))))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *Handler) Inbox(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return apperror.Unauthorized("Unauthorized")
	}

	list, err := h.signals.List(userID)
	if err != nil {
		return err
	}
	return c.JSON(Inbox(list, h.now()))
}

func (h *Handler) BlindSpots(c *fiber.Ctx) error {
	var req BlindSpotRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Validation("", "Invalid request body")
	}

	resp, err := BlindSpots(req.Goals)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
