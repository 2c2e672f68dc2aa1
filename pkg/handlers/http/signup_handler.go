package http

import (
	"github.com/NeuralTrust/MetaGuard/pkg/app/auth"
	"github.com/NeuralTrust/MetaGuard/pkg/handlers/http/request"
	"github.com/NeuralTrust/MetaGuard/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type signupHandler struct {
	logger *logrus.Logger
	auth   auth.Service
}

func NewSignupHandler(logger *logrus.Logger, authService auth.Service) Handler {
	return &signupHandler{
		logger: logger,
		auth:   authService,
	}
}

// Handle @Summary Create an account
// @Description Registers a user with email and password and returns a token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request.SignupRequest true "Account data"
// @Success 201 {object} response.TokenResponse "Account created"
// @Failure 400 {object} map[string]interface{} "Invalid request or user already exists"
// @Router /api/auth/signup [post]
func (h *signupHandler) Handle(c *fiber.Ctx) error {
	var req request.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	pair, err := h.auth.Signup(c.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return authError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(response.TokenResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
}
