package http

import (
	"github.com/NeuralTrust/MetaGuard/pkg/app/files"
	"github.com/NeuralTrust/MetaGuard/pkg/handlers/http/response"
	"github.com/NeuralTrust/MetaGuard/pkg/server/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type userAnalyzeHandler struct {
	logger  *logrus.Logger
	service files.UserService
	maxSize int64
}

func NewUserAnalyzeHandler(logger *logrus.Logger, service files.UserService, maxSize int64) Handler {
	return &userAnalyzeHandler{
		logger:  logger,
		service: service,
		maxSize: maxSize,
	}
}

// Handle @Summary Analyze a file
// @Description Analyzes one upload under the caller's policy and stores it in the history
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File to analyze"
// @Success 200 {object} response.AnalyzeResponse "Analysis"
// @Failure 400 {object} map[string]interface{} "No file uploaded"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 413 {object} map[string]interface{} "File too large"
// @Router /api/files/user/analyze [post]
func (h *userAnalyzeHandler) Handle(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	up, err := formUpload(c, h.maxSize)
	if err != nil {
		return fileError(c, h.logger, err, nil)
	}
	record, res, err := h.service.Analyze(c.Context(), userID, up)
	if err != nil {
		return fileError(c, h.logger, err, nil)
	}
	return c.Status(fiber.StatusOK).JSON(response.NewAnalyzeResponse(res).WithRecord(record))
}
