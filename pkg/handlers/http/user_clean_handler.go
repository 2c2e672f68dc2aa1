package http

import (
	"github.com/NeuralTrust/MetaGuard/pkg/app/files"
	"github.com/NeuralTrust/MetaGuard/pkg/server/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type userCleanHandler struct {
	logger  *logrus.Logger
	service files.UserService
	maxSize int64
}

func NewUserCleanHandler(logger *logrus.Logger, service files.UserService, maxSize int64) Handler {
	return &userCleanHandler{
		logger:  logger,
		service: service,
		maxSize: maxSize,
	}
}

// Handle @Summary Clean a file
// @Description Cleans a previously analyzed upload under the caller's policy and records the result
// @Tags Files
// @Accept multipart/form-data
// @Produce octet-stream
// @Security BearerAuth
// @Param file_id formData string true "Analysis ID"
// @Param file formData file true "File to clean"
// @Success 200 {file} file "Cleaned file"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "File not found"
// @Router /api/files/user/clean [post]
func (h *userCleanHandler) Handle(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	fileID, err := uuid.Parse(c.FormValue("file_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file_id must be a valid UUID"})
	}
	up, err := formUpload(c, h.maxSize)
	if err != nil {
		return fileError(c, h.logger, err, nil)
	}
	res, err := h.service.Clean(c.Context(), userID, fileID, up)
	if err != nil {
		return fileError(c, h.logger, err, nil)
	}
	return sendCleaned(c, res)
}
