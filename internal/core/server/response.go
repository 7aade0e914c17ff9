package server

import (
	"context"
	"errors"
	"net/http"

	"shipment-planner/internal/core/apperror"
	"shipment-planner/internal/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Response is the envelope returned by every endpoint.
type Response struct {
	// Success is true for 2xx responses.
	Success bool `json:"success"`
	// Code mirrors the HTTP status code.
	Code int `json:"code"`
	// Message is a short human readable summary.
	Message string `json:"message"`
	// Data carries the payload of successful responses.
	Data any `json:"data"`
	// Error carries the error text of failed responses.
	Error string `json:"error,omitempty"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// RayID returns the request id assigned by the requestid middleware.
func RayID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}

// UserContext returns the request context carrying the ray id for downstream logging.
func UserContext(c *fiber.Ctx) context.Context {
	return logger.ContextWithRayID(c.UserContext(), RayID(c))
}

// OK writes a 200 envelope around data.
func OK(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Success: true,
		Code:    fiber.StatusOK,
		Message: message,
		Data:    data,
		RayID:   RayID(c),
	})
}

// ErrorHandler maps application errors to HTTP statuses and writes the error envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := apperror.HTTPStatus(err)

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if code >= fiber.StatusInternalServerError {
		logger.WithRayID(RayID(c)).Error("Request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)
	}

	return c.Status(code).JSON(Response{
		Success: false,
		Code:    code,
		Message: http.StatusText(code),
		Error:   err.Error(),
		RayID:   RayID(c),
	})
}
