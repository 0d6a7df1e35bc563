package signals

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/signalforge/internal/apperror"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/dto"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errInvalidBody = apperror.Validation("", "Invalid request body")

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return apperror.Unauthorized("Unauthorized")
	}

	signals, err := h.service.List(userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.SignalListResponse{Signals: signals})
}

func (h *Handler) Create(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return apperror.Unauthorized("Unauthorized")
	}

	var req dto.CreateSignalRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	signal, err := h.service.Create(userID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SignalResponse{Signal: *signal})
}

func (h *Handler) CreateBatch(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return apperror.Unauthorized("Unauthorized")
	}

	var req dto.BatchCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	rows, err := h.service.CreateBatch(userID, req.Signals)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.BatchCreateResponse{
		Signals:      rows,
		CreatedCount: len(rows),
	})
}

func (h *Handler) Classify(c *fiber.Ctx) error {
	var req dto.ContentRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	resp, err := h.service.Classify(req.Content)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *Handler) Ingest(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return apperror.Unauthorized("Unauthorized")
	}

	var req dto.ContentRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	resp, err := h.service.Ingest(userID, req.Content)
	if err != nil {
		return err
	}
	slog.Info("feed ingested", "user_id", userID.String(), "created", resp.CreatedCount, "signals", resp.SignalCount)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// DeleteAll removes every signal the caller owns. Confirmation is the client's job.
func (h *Handler) DeleteAll(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return apperror.Unauthorized("Unauthorized")
	}

	deleted, err := h.service.DeleteAll(userID)
	if err != nil {
		return err
	}
	slog.Info("signals deleted", "user_id", userID.String(), "deleted", deleted)
	return c.JSON(dto.DeleteSignalsResponse{
		Message:      "All signals deleted successfully",
		DeletedCount: deleted,
	})
}

func (h *Handler) UpdateLabel(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return apperror.Unauthorized("Unauthorized")
	}

	signalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperror.Validation("id", "Invalid signal ID")
	}

	var req dto.LabelRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return errInvalidBody
		}
	}

	signal, err := h.service.UpdateLabel(userID, signalID, req.EmailLabel)
	if err != nil {
		return err
	}
	return c.JSON(dto.SignalResponse{Signal: *signal})
}
