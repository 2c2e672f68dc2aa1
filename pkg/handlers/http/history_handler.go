package http

import (
	"github.com/NeuralTrust/MetaGuard/pkg/app/files"
	"github.com/NeuralTrust/MetaGuard/pkg/handlers/http/response"
	"github.com/NeuralTrust/MetaGuard/pkg/server/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

type historyHandler struct {
	logger  *logrus.Logger
	service files.UserService
}

func NewHistoryHandler(logger *logrus.Logger, service files.UserService) Handler {
	return &historyHandler{
		logger:  logger,
		service: service,
	}
}

// Handle @Summary List analyzed files
// @Description Returns the caller's analyses, newest first
// @Tags Files
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} response.HistoryResponse "History"
// @Failure 400 {object} map[string]interface{} "Invalid pagination"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Router /api/files/user/history [get]
func (h *historyHandler) Handle(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	limit := c.QueryInt("limit", defaultHistoryLimit)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || offset < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be positive and offset not negative"})
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	items, err := h.service.History(c.Context(), userID, limit, offset)
	if err != nil {
		h.logger.WithError(err).Error("failed to list history")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch history"})
	}
	return c.Status(fiber.StatusOK).JSON(response.NewHistoryResponse(items, limit, offset))
}
