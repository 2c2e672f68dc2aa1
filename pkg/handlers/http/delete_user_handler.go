package http

import (
	"github.com/NeuralTrust/MetaGuard/pkg/app/auth"
	"github.com/NeuralTrust/MetaGuard/pkg/server/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type deleteUserHandler struct {
	logger *logrus.Logger
	auth   auth.Service
}

func NewDeleteUserHandler(logger *logrus.Logger, authService auth.Service) Handler {
	return &deleteUserHandler{
		logger: logger,
		auth:   authService,
	}
}

// Handle @Summary Delete the account
// @Description Deletes the caller together with its policy and history
// @Tags Auth
// @Security BearerAuth
// @Success 204 "Account deleted"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "User not found"
// @Router /api/auth/delete [delete]
func (h *deleteUserHandler) Handle(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	if err := h.auth.Delete(c.Context(), userID); err != nil {
		return authError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
