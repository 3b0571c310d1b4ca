package handlers

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/services"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrNotOwner),
		errors.Is(err, services.ErrSelfVote),
		errors.Is(err, services.ErrAdminRoleLocked):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrAppNotFound),
		errors.Is(err, services.ErrReportNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrCouponNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrDuplicateVote),
		errors.Is(err, services.ErrNotVoted),
		errors.Is(err, services.ErrAlreadyReported),
		errors.Is(err, services.ErrCouponCodeTaken):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrMediaUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the error body. Server errors are logged, reported to
// Sentry and masked.
func respondError(c *fiber.Ctx, action string, err error) error {
	status := statusFor(err)
	message := err.Error()

	if status >= fiber.StatusInternalServerError && status != fiber.StatusServiceUnavailable {
		slog.Error("request failed",
			"request_id", requestID(c),
			"user_email", middleware.PrincipalEmail(c),
			"action", action,
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error(),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		message = "Internal server error"
	}

	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", services.ErrInvalidInput, param)
	}
	return id, nil
}

func pageParams(c *fiber.Ctx) (int, int) {
	return c.QueryInt("page", dto.DefaultPage), c.QueryInt("limit", dto.DefaultLimit)
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
