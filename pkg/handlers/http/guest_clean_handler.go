package http

import (
	"github.com/NeuralTrust/MetaGuard/pkg/app/files"
	"github.com/NeuralTrust/MetaGuard/pkg/server/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type guestCleanHandler struct {
	logger  *logrus.Logger
	service files.GuestService
	maxSize int64
}

func NewGuestCleanHandler(logger *logrus.Logger, service files.GuestService, maxSize int64) Handler {
	return &guestCleanHandler{
		logger:  logger,
		service: service,
		maxSize: maxSize,
	}
}

// Handle @Summary Clean a file as a guest
// @Description Strips identity and location metadata and returns the cleaned file
// @Tags Guest
// @Accept multipart/form-data
// @Produce octet-stream
// @Param file formData file true "File to clean"
// @Success 200 {file} file "Cleaned file"
// @Failure 400 {object} map[string]interface{} "No file or authenticated caller"
// @Failure 413 {object} map[string]interface{} "File too large"
// @Failure 429 {object} map[string]interface{} "Guest limit reached"
// @Router /api/files/guest/clean [post]
func (h *guestCleanHandler) Handle(c *fiber.Ctx) error {
	up, err := formUpload(c, h.maxSize)
	if err != nil {
		return fileError(c, h.logger, err, nil)
	}
	res, usage, err := h.service.Clean(c.Context(), middleware.GuestID(c), up)
	if err != nil {
		return fileError(c, h.logger, err, usage)
	}
	return sendCleaned(c, res)
}
