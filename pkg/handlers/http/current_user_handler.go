package http

import (
	"github.com/NeuralTrust/MetaGuard/pkg/app/auth"
	"github.com/NeuralTrust/MetaGuard/pkg/handlers/http/response"
	"github.com/NeuralTrust/MetaGuard/pkg/server/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type currentUserHandler struct {
	logger *logrus.Logger
	auth   auth.Service
}

func NewCurrentUserHandler(logger *logrus.Logger, authService auth.Service) Handler {
	return &currentUserHandler{
		logger: logger,
		auth:   authService,
	}
}

// Handle @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.ProfileResponse "Profile"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "User not found"
// @Router /api/auth/user [get]
func (h *currentUserHandler) Handle(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	u, err := h.auth.Me(c.Context(), userID)
	if err != nil {
		return authError(c, h.logger, err)
	}
	return c.Status(fiber.StatusOK).JSON(response.NewProfileResponse(u))
}
