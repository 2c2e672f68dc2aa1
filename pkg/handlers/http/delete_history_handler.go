package http

import (
	"github.com/NeuralTrust/MetaGuard/pkg/app/files"
	"github.com/NeuralTrust/MetaGuard/pkg/domain"
	"github.com/NeuralTrust/MetaGuard/pkg/server/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type deleteHistoryHandler struct {
	logger  *logrus.Logger
	service files.UserService
}

func NewDeleteHistoryHandler(logger *logrus.Logger, service files.UserService) Handler {
	return &deleteHistoryHandler{
		logger:  logger,
		service: service,
	}
}

// Handle @Summary Delete a history entry
// @Tags Files
// @Security BearerAuth
// @Param id path string true "Analysis ID"
// @Success 204 "Deleted"
// @Failure 400 {object} map[string]interface{} "Invalid ID"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "File not found"
// @Router /api/files/user/history/{id} [delete]
func (h *deleteHistoryHandler) Handle(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	fileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid file ID"})
	}
	if err := h.service.DeleteAnalysis(c.Context(), userID, fileID); err != nil {
		if domain.IsNotFoundError(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "File not found"})
		}
		h.logger.WithError(err).Error("failed to delete analysis")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete file"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
