package handlers

import (
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/apperror"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/dto"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Validation("", "Invalid request body")
	}

	resp, err := h.authService.Signup(&req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Validation("", "Invalid request body")
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return apperror.Unauthorized("Unauthorized")
	}

	user, err := h.authService.Me(userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.MeResponse{User: *user})
}
