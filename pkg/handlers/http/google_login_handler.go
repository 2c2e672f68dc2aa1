package http

import (
	"github.com/NeuralTrust/MetaGuard/pkg/app/auth"
	"github.com/NeuralTrust/MetaGuard/pkg/handlers/http/request"
	"github.com/NeuralTrust/MetaGuard/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type googleLoginHandler struct {
	logger *logrus.Logger
	auth   auth.Service
}

func NewGoogleLoginHandler(logger *logrus.Logger, authService auth.Service) Handler {
	return &googleLoginHandler{
		logger: logger,
		auth:   authService,
	}
}

// Handle @Summary Sign in with Google
// @Description Verifies a Google ID token and returns a token pair, creating the account on first use
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request.GoogleLoginRequest true "Google ID token"
// @Success 200 {object} response.TokenResponse "Token pair"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 401 {object} map[string]interface{} "Invalid Google token"
// @Router /api/auth/google [post]
func (h *googleLoginHandler) Handle(c *fiber.Ctx) error {
	var req request.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	login, err := h.auth.Google(c.Context(), req.IDToken)
	if err != nil {
		return authError(c, h.logger, err)
	}
	newUser := login.NewUser
	return c.Status(fiber.StatusOK).JSON(response.TokenResponse{
		Access:  login.Access,
		Refresh: login.Refresh,
		NewUser: &newUser,
	})
}
