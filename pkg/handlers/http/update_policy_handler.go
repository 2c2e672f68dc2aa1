package http

import (
	"encoding/json"

	"github.com/NeuralTrust/MetaGuard/pkg/app/files"
	"github.com/NeuralTrust/MetaGuard/pkg/handlers/http/request"
	"github.com/NeuralTrust/MetaGuard/pkg/handlers/http/response"
	"github.com/NeuralTrust/MetaGuard/pkg/server/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type updatePolicyHandler struct {
	logger  *logrus.Logger
	service files.UserService
}

func NewUpdatePolicyHandler(logger *logrus.Logger, service files.UserService) Handler {
	return &updatePolicyHandler{
		logger:  logger,
		service: service,
	}
}

// Handle @Summary Update the metadata policy
// @Description Partially updates the removal toggles; omitted toggles keep their value
// @Tags Policy
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body map[string]bool true "Toggles to change"
// @Success 200 {object} response.PolicyUpdatedResponse "Updated policy"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Router /api/files/user/policy [put]
func (h *updatePolicyHandler) Handle(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	var body map[string]interface{}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	patch, err := request.DecodePolicyPatch(body)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	pol, err := h.service.UpdatePolicy(c.Context(), userID, patch)
	if err != nil {
		h.logger.WithError(err).Error("failed to update policy")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update policy"})
	}
	return c.Status(fiber.StatusOK).JSON(response.PolicyUpdatedResponse{
		Message:    "Policy updated successfully",
		UserPolicy: pol,
	})
}
