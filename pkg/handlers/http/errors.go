package http

import (
	"context"
	"errors"
	"math"

	"github.com/NeuralTrust/MetaGuard/pkg/app/auth"
	"github.com/NeuralTrust/MetaGuard/pkg/app/quota"
	"github.com/NeuralTrust/MetaGuard/pkg/domain"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/user"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/auth/google"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/auth/jwt"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/httpx"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const fileField = "file"

// fileError maps pipeline, upload and quota failures to a response.
func fileError(c *fiber.Ctx, logger *logrus.Logger, err error, usage *quota.Usage) error {
	switch {
	case errors.Is(err, metadata.ErrNoFile):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No file uploaded"})
	case errors.Is(err, metadata.ErrFileTooLarge):
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "File too large"})
	case errors.Is(err, httpx.ErrUnsupportedEncoding):
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{"error": "Unsupported content encoding"})
	case errors.Is(err, quota.ErrGuestLimitReached):
		body := fiber.Map{"error": "Guest upload limit reached. Sign up to analyze more files."}
		if usage != nil {
			retryAfter := int64(math.Ceil(usage.ResetsIn.Seconds()))
			body["retry_after"] = retryAfter
			c.Set(fiber.HeaderRetryAfter, fmtInt(retryAfter))
		}
		return c.Status(fiber.StatusTooManyRequests).JSON(body)
	case domain.IsNotFoundError(err):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "File not found"})
	case errors.Is(err, context.DeadlineExceeded):
		logger.WithError(err).Warn("pipeline run timed out")
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{"error": "Processing timed out"})
	case errors.Is(err, context.Canceled):
		return c.Status(499).JSON(fiber.Map{"error": "Request canceled"})
	case errors.Is(err, metadata.ErrToolUnavailable), errors.Is(err, httpx.ErrBreakerOpen):
		logger.WithError(err).Error("metadata tool unavailable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Metadata tool unavailable"})
	default:
		logger.WithError(err).Error("failed to process file")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process file"})
	}
}

// authError maps identity failures to a response.
func authError(c *fiber.Ctx, logger *logrus.Logger, err error) error {
	switch {
	case errors.Is(err, auth.ErrMissingCredentials),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, user.ErrInvalidEmail):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, user.ErrUserAlreadyExists):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "User already exists"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, jwt.ErrExpiredToken):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token has expired"})
	case errors.Is(err, jwt.ErrInvalidToken), errors.Is(err, jwt.ErrWrongTokenType):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token is invalid or expired"})
	case errors.Is(err, google.ErrNoEmail):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email not available from Google"})
	case errors.Is(err, google.ErrInvalidIDToken), errors.Is(err, google.ErrAudience):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid Google token"})
	case errors.Is(err, google.ErrUnavailable):
		logger.WithError(err).Error("google verification unavailable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Google sign in unavailable"})
	case domain.IsNotFoundError(err):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	default:
		logger.WithError(err).Error("authentication request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
