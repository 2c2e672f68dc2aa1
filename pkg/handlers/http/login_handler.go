package http

import (
	"github.com/NeuralTrust/MetaGuard/pkg/app/auth"
	"github.com/NeuralTrust/MetaGuard/pkg/handlers/http/request"
	"github.com/NeuralTrust/MetaGuard/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type loginHandler struct {
	logger *logrus.Logger
	auth   auth.Service
}

func NewLoginHandler(logger *logrus.Logger, authService auth.Service) Handler {
	return &loginHandler{
		logger: logger,
		auth:   authService,
	}
}

// Handle @Summary Log in
// @Description Exchanges email and password for a token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Credentials"
// @Success 200 {object} response.TokenResponse "Token pair"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 401 {object} map[string]interface{} "Invalid credentials"
// @Router /api/auth/login [post]
func (h *loginHandler) Handle(c *fiber.Ctx) error {
	var req request.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	pair, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return authError(c, h.logger, err)
	}
	return c.Status(fiber.StatusOK).JSON(response.TokenResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
}
