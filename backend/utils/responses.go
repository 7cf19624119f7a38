package utils

import (
	"github.com/gofiber/fiber/v2"

	"quizmaster/backend/config"
)

// ErrorResponse is the body returned for every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Fail creates a JSON error response. The underlying error is only echoed
// back in development configurations.
func Fail(c *fiber.Ctx, cfg *config.Config, status int, message string, err error) error {
	response := ErrorResponse{Error: message}
	if err != nil && cfg.IsDevelopment() {
		response.Details = err.Error()
	}
	return c.Status(status).JSON(response)
}

// BadRequest sends a 400 Bad Request response
func BadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: message})
}

// NotFound sends a 404 Not Found response
func NotFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: message})
}

// Conflict sends a 409 Conflict response
func Conflict(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Error: message})
}
