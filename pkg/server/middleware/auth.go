package middleware

import (
	"errors"

	"github.com/NeuralTrust/MetaGuard/pkg/infra/auth/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type authMiddleware struct {
	logger     *logrus.Logger
	jwtManager jwt.Manager
}

// NewAuthMiddleware requires a valid access token and stores the caller in the request locals.
func NewAuthMiddleware(logger *logrus.Logger, jwtManager jwt.Manager) Middleware {
	return &authMiddleware{
		logger:     logger,
		jwtManager: jwtManager,
	}
}

func (m *authMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(authorization) == "" {
			m.logger.Debug("no authorization header provided")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication credentials were not provided"})
		}
		token, ok := bearerToken(c)
		if !ok {
			m.logger.Debug("invalid authorization header format")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid authorization format"})
		}

		claims, err := m.jwtManager.DecodeToken(token, jwt.TokenTypeAccess)
		if err != nil {
			m.logger.WithError(err).Debug("invalid token")
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrExpiredToken) {
				msg = "Token has expired"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
		}
		id, err := uuid.Parse(claims.UserID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		}

		c.Locals(UserIDKey, id)
		c.Locals(UserEmailKey, claims.UserEmail)
		return c.Next()
	}
}
