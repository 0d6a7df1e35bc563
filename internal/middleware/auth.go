package middleware

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/signalforge/internal/config"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	msgTokenRequired = "Access token required"
	msgTokenInvalid  = "Invalid or expired token"
)

// JWTProtected rejects requests without a bearer token (401) and requests
// whose token fails signature or expiry checks (403).
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.JWTSecret)},
		TokenLookup: "header:Authorization",
		AuthScheme:  "Bearer",
		ContextKey:  userLocalsKey,
		SuccessHandler: func(c *fiber.Ctx) error {
			// a validly signed token must still carry a usable identity
			if _, err := UserID(c); err != nil {
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: msgTokenInvalid})
			}
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: msgTokenRequired})
			}
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: msgTokenInvalid})
		},
		Claims: jwt.MapClaims{},
	})
}
