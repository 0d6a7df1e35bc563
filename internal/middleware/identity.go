package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const userLocalsKey = "user"

func claims(c *fiber.Ctx) (jwt.MapClaims, error) {
	token, ok := c.Locals(userLocalsKey).(*jwt.Token)
	if !ok || token == nil {
		return nil, errors.New("invalid token in context")
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return mc, nil
}

// UserID extracts the authenticated user's id from the verified token.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	mc, err := claims(c)
	if err != nil {
		return uuid.Nil, err
	}
	raw, ok := mc["userId"].(string)
	if !ok || raw == "" {
		raw, ok = mc["sub"].(string)
	}
	if !ok || raw == "" {
		return uuid.Nil, errors.New("missing userId claim")
	}
	return uuid.Parse(raw)
}
