package middleware

import (
	"github.com/NeuralTrust/MetaGuard/pkg/infra/auth/jwt"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/fingerprint"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type guestMiddleware struct {
	logger     *logrus.Logger
	jwtManager jwt.Manager
	maker      fingerprint.Maker
}

// NewGuestMiddleware turns away callers holding a valid access token and tags everyone else
// with their guest fingerprint. Invalid or expired tokens are treated as anonymous.
func NewGuestMiddleware(logger *logrus.Logger, jwtManager jwt.Manager, maker fingerprint.Maker) Middleware {
	return &guestMiddleware{
		logger:     logger,
		jwtManager: jwtManager,
		maker:      maker,
	}
}

func (m *guestMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token, ok := bearerToken(c); ok {
			if _, err := m.jwtManager.DecodeToken(token, jwt.TokenTypeAccess); err == nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Authenticated users must use the user endpoints",
				})
			}
		}
		fp := m.maker.MakeFingerprint(c)
		c.Locals(GuestIDKey, fp.ID())
		return c.Next()
	}
}
