package http

import (
	"github.com/NeuralTrust/MetaGuard/pkg/app/files"
	"github.com/NeuralTrust/MetaGuard/pkg/handlers/http/response"
	"github.com/NeuralTrust/MetaGuard/pkg/server/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type guestAnalyzeHandler struct {
	logger  *logrus.Logger
	service files.GuestService
	maxSize int64
}

func NewGuestAnalyzeHandler(logger *logrus.Logger, service files.GuestService, maxSize int64) Handler {
	return &guestAnalyzeHandler{
		logger:  logger,
		service: service,
		maxSize: maxSize,
	}
}

// Handle @Summary Analyze a file as a guest
// @Description Extracts and classifies the metadata of one upload under the guest policy
// @Tags Guest
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to analyze"
// @Success 200 {object} response.AnalyzeResponse "Analysis"
// @Failure 400 {object} map[string]interface{} "No file or authenticated caller"
// @Failure 413 {object} map[string]interface{} "File too large"
// @Failure 429 {object} map[string]interface{} "Guest limit reached"
// @Router /api/files/guest/analyze [post]
func (h *guestAnalyzeHandler) Handle(c *fiber.Ctx) error {
	up, err := formUpload(c, h.maxSize)
	if err != nil {
		return fileError(c, h.logger, err, nil)
	}
	res, usage, err := h.service.Analyze(c.Context(), middleware.GuestID(c), up)
	if err != nil {
		return fileError(c, h.logger, err, usage)
	}
	return c.Status(fiber.StatusOK).JSON(response.NewAnalyzeResponse(res).WithGuestUsage(usage))
}
