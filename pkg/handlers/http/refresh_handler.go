package http

import (
	"github.com/NeuralTrust/MetaGuard/pkg/app/auth"
	"github.com/NeuralTrust/MetaGuard/pkg/handlers/http/request"
	"github.com/NeuralTrust/MetaGuard/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type refreshHandler struct {
	logger *logrus.Logger
	auth   auth.Service
}

func NewRefreshHandler(logger *logrus.Logger, authService auth.Service) Handler {
	return &refreshHandler{
		logger: logger,
		auth:   authService,
	}
}

// Handle @Summary Refresh the access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request.RefreshRequest true "Refresh token"
// @Success 200 {object} response.TokenResponse "New access token"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 401 {object} map[string]interface{} "Invalid or expired refresh token"
// @Router /api/auth/refresh [post]
func (h *refreshHandler) Handle(c *fiber.Ctx) error {
	var req request.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	access, err := h.auth.Refresh(c.Context(), req.Refresh)
	if err != nil {
		return authError(c, h.logger, err)
	}
	return c.Status(fiber.StatusOK).JSON(response.TokenResponse{Access: access})
}
