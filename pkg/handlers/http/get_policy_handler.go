package http

import (
	"github.com/NeuralTrust/MetaGuard/pkg/app/files"
	"github.com/NeuralTrust/MetaGuard/pkg/server/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type getPolicyHandler struct {
	logger  *logrus.Logger
	service files.UserService
}

func NewGetPolicyHandler(logger *logrus.Logger, service files.UserService) Handler {
	return &getPolicyHandler{
		logger:  logger,
		service: service,
	}
}

// Handle @Summary Get the metadata policy
// @Description Returns the caller's removal toggles, creating the defaults on first access
// @Tags Policy
// @Produce json
// @Security BearerAuth
// @Success 200 {object} policy.UserPolicy "Policy"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Router /api/files/user/policy [get]
func (h *getPolicyHandler) Handle(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	pol, err := h.service.GetPolicy(c.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("failed to load policy")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load policy"})
	}
	return c.Status(fiber.StatusOK).JSON(pol)
}
